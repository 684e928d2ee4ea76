package mesh

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/james-bowman/sparse"
)

const (
	NFaces  = 4 // Faces per tetrahedron
	NfVerts = 3 // Vertices per tetrahedral face
)

// TetFaces lists the local vertices of each tetrahedral face
var TetFaces = [NFaces][NfVerts]int{
	{0, 2, 1}, // Face 0
	{0, 1, 3}, // Face 1
	{1, 2, 3}, // Face 2
	{0, 3, 2}, // Face 3
}

// Mesh is an unstructured tetrahedral mesh with face connectivity
type Mesh struct {
	FormatVersion string

	// Geometry
	Vertices  [][3]float64 // Vertex coordinates [nvertices]
	NodeIDMap map[int]int  // Gmsh node number -> index into Vertices

	// Element data
	EtoV        [][]int // Element to vertex connectivity [nelems][4]
	ElementIDs  []int   // Gmsh element number for each element
	ElementTags []int   // Physical group for each element

	// Connectivity (built during initialization)
	EToE [][]int // Neighbor element across each face, -1 on the boundary
	EToF [][]int // Neighbor's local face index across each face, -1 on the boundary

	PhysicalNames map[int]string // Physical group tag -> name from $PhysicalNames

	NumElements int
	NumVertices int
	NumFaces    int // Unique faces
}

func NewMesh() *Mesh {
	return &Mesh{
		NodeIDMap:     make(map[int]int),
		PhysicalNames: make(map[int]string),
	}
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".msh":
		return ReadGmsh(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

// BuildConnectivity matches tetrahedral faces through the sparse face to
// vertex incidence: FToF = FToV * FToV^T counts the vertices each pair of
// faces shares, and two distinct faces sharing all three are neighbors.
func (m *Mesh) BuildConnectivity() {
	var (
		K          = m.NumElements
		TotalFaces = NFaces * K
	)
	m.EToE = make([][]int, K)
	m.EToF = make([][]int, K)
	for k := 0; k < K; k++ {
		m.EToE[k] = []int{-1, -1, -1, -1}
		m.EToF[k] = []int{-1, -1, -1, -1}
	}
	if K == 0 {
		return
	}
	SpFToV_Tmp := sparse.NewDOK(TotalFaces, m.NumVertices)
	var sk int
	for k := 0; k < K; k++ {
		for face := 0; face < NFaces; face++ {
			for _, lv := range TetFaces[face] {
				SpFToV_Tmp.Set(sk, m.EtoV[k][lv], 1)
			}
			sk++
		}
	}
	SpFToF := sparse.NewCSR(TotalFaces, TotalFaces, nil, nil, nil)
	SpFToV := SpFToV_Tmp.ToCSR()
	SpFToF.Mul(SpFToV, SpFToV.T())
	var interior int
	SpFToF.DoNonZero(func(i, j int, v float64) {
		if i == j || v != NfVerts {
			return
		}
		k1, f1 := i/NFaces, i%NFaces
		k2, f2 := j/NFaces, j%NFaces
		m.EToE[k1][f1], m.EToF[k1][f1] = k2, f2
		interior++
	})
	// Each interior face is visited once from each side
	m.NumFaces = TotalFaces - interior/2
}

// IsBoundaryFace reports whether face f of element k has no neighbor
func (m *Mesh) IsBoundaryFace(k, f int) bool {
	return m.EToE[k][f] < 0
}

func (m *Mesh) PrintStatistics() {
	var boundaryFaces int
	for k := 0; k < m.NumElements; k++ {
		for f := 0; f < NFaces; f++ {
			if m.IsBoundaryFace(k, f) {
				boundaryFaces++
			}
		}
	}
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Format: Gmsh %s\n", m.FormatVersion)
	fmt.Printf("  Vertices: %d\n", m.NumVertices)
	fmt.Printf("  Elements: %d (Tet)\n", m.NumElements)
	fmt.Printf("  Faces: %d\n", m.NumFaces)
	fmt.Printf("  Boundary faces: %d\n", boundaryFaces)
	for _, g := range m.PhysicalGroups() {
		fmt.Printf("  Physical group %d \"%s\": %d elements\n", g.Tag, g.Name, g.NumElements)
	}
}

type PhysicalGroup struct {
	Tag         int
	Name        string // Empty when the file has no $PhysicalNames entry for Tag
	NumElements int
}

// PhysicalGroups counts the elements of each physical tag, in tag order
func (m *Mesh) PhysicalGroups() (groups []PhysicalGroup) {
	counts := make(map[int]int)
	for _, tag := range m.ElementTags {
		counts[tag]++
	}
	for tag, n := range counts {
		groups = append(groups, PhysicalGroup{Tag: tag, Name: m.PhysicalNames[tag], NumElements: n})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Tag < groups[j].Tag })
	return
}
