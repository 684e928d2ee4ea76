package Acoustic3D

import (
	"github.com/notargets/dgacoustic/InputParameters"
)

// SourceSet pairs each source with the nodes strictly inside its sphere
type SourceSet struct {
	Sources []InputParameters.Source
	Nodes   [][]int
}

func NewSourceSet(m Mesh, sources []InputParameters.Source) (ss *SourceSet) {
	ss = &SourceSet{
		Sources: sources,
		Nodes:   make([][]int, len(sources)),
	}
	for i, src := range sources {
		var (
			center = src.Center()
			r2     = src.Radius * src.Radius
		)
		for n := 0; n < m.NodeCount(); n++ {
			x := m.NodeCoordinates(n)
			dx, dy, dz := x[0]-center[0], x[1]-center[1], x[2]-center[2]
			if dx*dx+dy*dy+dz*dz < r2 {
				ss.Nodes[i] = append(ss.Nodes[i], n)
			}
		}
	}
	return
}

// Inject overwrites the pressure at the nodes of every source active at time t
func (ss *SourceSet) Inject(u [4][]float64, t float64) {
	for i, src := range ss.Sources {
		if !src.Active(t) {
			continue
		}
		val := src.Value(t)
		for _, n := range ss.Nodes[i] {
			u[0][n] = val
		}
	}
}
