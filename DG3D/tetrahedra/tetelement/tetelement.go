package tetelement

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dgacoustic/DG3D/mesh"
	"github.com/notargets/dgacoustic/utils"
)

const (
	Np     = 4 // Nodes per element, P1 tetrahedra
	NFaces = mesh.NFaces
	Nfp    = mesh.NfVerts // Nodes per face
)

/*
Element3D is a nodal P1 discontinuous Galerkin discretization of linearized
acoustics on tetrahedra. Each element owns Np nodes at its vertices, stored
in contiguous blocks: global node n = k*Np + i.

For each equation the element residual is

	M du/dt = S - F
	S_i = Integral(F(u) . Grad(phi_i)) dV
	F_i = SurfaceIntegral(phi_i * Fstar . n) dS

with a local Lax-Friedrichs normal flux Fstar on the faces.
*/
type Element3D struct {
	K        int // Number of elements
	NumNodes int // K*Np
	Mesh     *mesh.Mesh

	// Geometry, per element
	Volume     []float64
	Grad       [][Np][3]float64     // Gradients of the P1 basis
	FaceArea   [][NFaces]float64    // Area of each face
	FaceNormal [][NFaces][3]float64 // Outward unit normal of each face

	// Face node maps, indexed (k*NFaces+f)*Nfp+j
	VmapM, VmapP []int // Interior and exterior global node, VmapP == VmapM on the boundary

	MassLU []*mat.LU

	// Wave speed state, set by UpdateFlux
	v0     [3]float64
	c0     float64
	elFlux []float64 // Face integrated normal flux for the last precomputed equation
}

// NewElement3D creates an Element3D from a mesh file
func NewElement3D(meshFile string) (el *Element3D, err error) {
	var m *mesh.Mesh
	if m, err = mesh.ReadMeshFile(meshFile); err != nil {
		return
	}
	return NewElement3DFromMesh(m)
}

// NewElement3DFromMesh creates an Element3D from an existing mesh
func NewElement3DFromMesh(m *mesh.Mesh) (el *Element3D, err error) {
	el = &Element3D{
		K:          m.NumElements,
		NumNodes:   m.NumElements * Np,
		Mesh:       m,
		Volume:     make([]float64, m.NumElements),
		Grad:       make([][Np][3]float64, m.NumElements),
		FaceArea:   make([][NFaces]float64, m.NumElements),
		FaceNormal: make([][NFaces][3]float64, m.NumElements),
		elFlux:     make([]float64, m.NumElements*Np),
	}
	for k := 0; k < el.K; k++ {
		if err = el.geometricFactors(k); err != nil {
			return nil, err
		}
	}
	el.BuildMaps3D()
	return
}

func (el *Element3D) vertex(k, i int) [3]float64 {
	return el.Mesh.Vertices[el.Mesh.EtoV[k][i]]
}

func (el *Element3D) geometricFactors(k int) (err error) {
	var (
		x0      = el.vertex(k, 0)
		a, b, c = sub(el.vertex(k, 1), x0), sub(el.vertex(k, 2), x0), sub(el.vertex(k, 3), x0)
		bc      = cross(b, c)
		det     = dot(a, bc)
	)
	if math.Abs(det) < utils.NODETOL {
		return fmt.Errorf("element %d (Gmsh %d) is degenerate, Jacobian determinant = %g",
			k, el.Mesh.ElementIDs[k], det)
	}
	el.Volume[k] = math.Abs(det) / 6.
	// Rows of the inverse Jacobian are the gradients of phi_1..phi_3
	g1, g2, g3 := scale(bc, 1/det), scale(cross(c, a), 1/det), scale(cross(a, b), 1/det)
	el.Grad[k] = [Np][3]float64{
		scale(add(add(g1, g2), g3), -1),
		g1, g2, g3,
	}
	for f := 0; f < NFaces; f++ {
		var (
			fv       = mesh.TetFaces[f]
			xa       = el.vertex(k, fv[0])
			n        = cross(sub(el.vertex(k, fv[1]), xa), sub(el.vertex(k, fv[2]), xa))
			nMag     = math.Sqrt(dot(n, n))
			opposite = 6 - fv[0] - fv[1] - fv[2]
		)
		el.FaceArea[k][f] = nMag / 2
		n = scale(n, 1/nMag)
		if dot(n, sub(el.vertex(k, opposite), xa)) > 0 {
			n = scale(n, -1)
		}
		el.FaceNormal[k][f] = n
	}
	return
}

// BuildMaps3D connects each face node to the matching node of the neighbor
// element, found by shared mesh vertex.
func (el *Element3D) BuildMaps3D() {
	var (
		m = el.Mesh
		N = el.K * NFaces * Nfp
	)
	el.VmapM, el.VmapP = make([]int, N), make([]int, N)
	for k := 0; k < el.K; k++ {
		for f := 0; f < NFaces; f++ {
			nk := m.EToE[k][f]
			for j, lv := range mesh.TetFaces[f] {
				ind := (k*NFaces+f)*Nfp + j
				el.VmapM[ind] = k*Np + lv
				el.VmapP[ind] = el.VmapM[ind]
				if nk < 0 {
					continue
				}
				for i := 0; i < Np; i++ {
					if m.EtoV[nk][i] == m.EtoV[k][lv] {
						el.VmapP[ind] = nk*Np + i
						break
					}
				}
			}
		}
	}
}

func (el *Element3D) ElementCount() int    { return el.K }
func (el *Element3D) NodesPerElement() int { return Np }
func (el *Element3D) NodeCount() int       { return el.NumNodes }
func (el *Element3D) ElementTag(k int) int { return el.Mesh.ElementIDs[k] }

func (el *Element3D) NodeCoordinates(n int) [3]float64 {
	return el.vertex(n/Np, n%Np)
}

// PrecomputeMassMatrices factors the P1 mass matrix M_ij = V/20 (1 + delta_ij)
// of every element.
func (el *Element3D) PrecomputeMassMatrices() (err error) {
	el.MassLU = make([]*mat.LU, el.K)
	for k := 0; k < el.K; k++ {
		var (
			data = make([]float64, Np*Np)
			v20  = el.Volume[k] / 20.
		)
		for i := 0; i < Np; i++ {
			for j := 0; j < Np; j++ {
				data[i*Np+j] = v20
			}
			data[i*Np+i] = 2 * v20
		}
		if el.MassLU[k], err = utils.NewLU(Np, data); err != nil {
			return fmt.Errorf("element %d (Gmsh %d) mass matrix: %w", k, el.Mesh.ElementIDs[k], err)
		}
	}
	return
}

func (el *Element3D) MassMatrix(k int) *mat.LU {
	return el.MassLU[k]
}

/*
UpdateFlux computes the nodal physical flux of linearized acoustics about a
uniform mean flow v0:

	F_p  = v0 p + rho0 c0^2 v
	F_vi = v0 v_i + (p / rho0) e_i
*/
func (el *Element3D) UpdateFlux(u [4][]float64, Flux [4][][3]float64, v0 [3]float64, c0, rho0 float64) {
	var (
		rc2 = rho0 * c0 * c0
	)
	el.v0, el.c0 = v0, c0
	for n := 0; n < el.NumNodes; n++ {
		p := u[0][n]
		for d := 0; d < 3; d++ {
			Flux[0][n][d] = v0[d]*p + rc2*u[d+1][n]
			for i := 0; i < 3; i++ {
				Flux[i+1][n][d] = v0[d] * u[i+1][n]
			}
			Flux[d+1][n][d] += p / rho0
		}
	}
}

// PrecomputeFlux evaluates the Lax-Friedrichs normal flux at every face node
// for one equation and integrates it against the face basis functions. The
// result is read per element with ElementFlux.
func (el *Element3D) PrecomputeFlux(u []float64, Flux [][3]float64, eq int) {
	var (
		g [Nfp]float64
	)
	for i := range el.elFlux {
		el.elFlux[i] = 0
	}
	for k := 0; k < el.K; k++ {
		for f := 0; f < NFaces; f++ {
			var (
				n      = el.FaceNormal[k][f]
				lambda = el.c0 + math.Abs(dot(el.v0, n))
				a12    = el.FaceArea[k][f] / 12.
				base   = (k*NFaces + f) * Nfp
			)
			for j := 0; j < Nfp; j++ {
				iM, iP := el.VmapM[base+j], el.VmapP[base+j]
				g[j] = 0.5*dot(add(Flux[iM], Flux[iP]), n) + 0.5*lambda*(u[iM]-u[iP])
			}
			// Face mass matrix A/12 (1 + delta_ij)
			gSum := g[0] + g[1] + g[2]
			for i := 0; i < Nfp; i++ {
				el.elFlux[el.VmapM[base+i]] += a12 * (gSum + g[i])
			}
		}
	}
}

func (el *Element3D) ElementFlux(k int, elFlux []float64) {
	copy(elFlux, el.elFlux[k*Np:(k+1)*Np])
}

// ElementStiffVector is (V/4) Grad(phi_i) . Sum_j F_j, the exact volume
// integral of the P1 interpolated flux against the constant basis gradients.
func (el *Element3D) ElementStiffVector(k int, Flux [][3]float64, u []float64, elStiff []float64) {
	var (
		fSum [3]float64
		v4   = el.Volume[k] / 4.
	)
	for j := 0; j < Np; j++ {
		fSum = add(fSum, Flux[k*Np+j])
	}
	for i := 0; i < Np; i++ {
		elStiff[i] = v4 * dot(el.Grad[k][i], fSum)
	}
}

func (el *Element3D) Print() {
	var vMin, vMax = el.Volume[0], el.Volume[0]
	for _, v := range el.Volume {
		vMin, vMax = math.Min(vMin, v), math.Max(vMax, v)
	}
	fmt.Printf("P1 Tetrahedral elements: K = %d, Np = %d, total nodes = %d\n", el.K, Np, el.NumNodes)
	fmt.Printf("Element volume range: [%8.5e, %8.5e]\n", vMin, vMax)
}
