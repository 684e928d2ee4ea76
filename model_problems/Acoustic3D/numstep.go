package Acoustic3D

import (
	"github.com/exascience/pargo/parallel"

	"github.com/notargets/dgacoustic/utils"
)

// runContext holds the state of one integrator call. It is sized from the
// mesh at the start of the call and dropped when the call returns.
type runContext struct {
	K, Np, NumNodes int
	ElTags          []int
	Flux            [4][][3]float64 // Nodal physical flux, overwritten every stage
	Dt              float64
	NumThreads      int
}

func newRunContext(m Mesh, dt float64, numThreads int) (rc *runContext) {
	rc = &runContext{
		K:          m.ElementCount(),
		Np:         m.NodesPerElement(),
		NumNodes:   m.NodeCount(),
		ElTags:     make([]int, m.ElementCount()),
		Dt:         dt,
		NumThreads: numThreads,
	}
	for k := 0; k < rc.K; k++ {
		rc.ElTags[k] = m.ElementTag(k)
	}
	for eq := 0; eq < 4; eq++ {
		rc.Flux[eq] = make([][3]float64, rc.NumNodes)
	}
	if rc.NumThreads < 1 {
		rc.NumThreads = 1
	}
	return
}

/*
NumStep updates every element block of u in place:

	u = dt * M^-1 * (S(u) - F(u)) + beta * u

Rc.Flux must hold the physical flux of u. Equations are processed in order,
the elements of one equation are split into NumThreads batches.
*/
func (rc *runContext) NumStep(m Mesh, u [4][]float64, beta float64) {
	var (
		Np = rc.Np
	)
	if rc.K == 0 {
		return
	}
	for eq := 0; eq < 4; eq++ {
		m.PrecomputeFlux(u[eq], rc.Flux[eq], eq)
		uEq, FluxEq := u[eq], rc.Flux[eq]
		parallel.Range(0, rc.K, rc.NumThreads, func(low, high int) {
			var (
				elFlux  = make([]float64, Np)
				elStiff = make([]float64, Np)
				elX     = make([]float64, Np)
			)
			for k := low; k < high; k++ {
				m.ElementFlux(k, elFlux)
				m.ElementStiffVector(k, FluxEq, uEq, elStiff)
				utils.Minus(elStiff, elFlux)
				utils.LinEq(m.MassMatrix(k), elStiff, elX, uEq[k*Np:(k+1)*Np], rc.Dt, beta)
			}
		})
	}
}
