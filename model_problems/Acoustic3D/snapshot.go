package Acoustic3D

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Fields is one snapshot of the solution, element major
type Fields struct {
	Step     int
	Time     float64
	ElTags   []int
	Pressure [][]float64 // [K][Np]
	Density  [][]float64 // [K][Np], p/c0^2
	Velocity [][]float64 // [K][3*Np], (vx, vy, vz) interleaved per node
}

type snapshotter struct {
	rc                *runContext
	c0                float64
	timeRate, timeEnd float64
	tDisplay          float64 // Simulated time since the last snapshot
	start             time.Time
	sink              Sink
	log               logrus.FieldLogger
}

func (c *Acoustic) newSnapshotter(rc *runContext) (s *snapshotter) {
	return &snapshotter{
		rc:       rc,
		c0:       c.IP.C0,
		timeRate: c.IP.TimeRate,
		timeEnd:  c.IP.TimeEnd,
		start:    time.Now(),
		sink:     c.Output,
		log:      c.Log,
	}
}

// Take hands a snapshot of u to the sink on the first step and whenever
// timeRate of simulated time has passed since the previous one.
func (s *snapshotter) Take(u [4][]float64, t float64, step int) (err error) {
	if !(s.tDisplay >= s.timeRate || step == 0) {
		return
	}
	s.tDisplay = 0
	if s.sink != nil {
		if err = s.sink.AddTimeLayer(s.pack(u, t, step)); err != nil {
			return
		}
	}
	elapsed := time.Since(s.start)
	s.log.Infof("[%f/%fs] Step number : %d, Elapsed time: %ds", t, s.timeEnd, step, int(elapsed.Seconds()))
	return
}

func (s *snapshotter) Advance(dt float64) {
	s.tDisplay += dt
}

func (s *snapshotter) pack(u [4][]float64, t float64, step int) (f *Fields) {
	var (
		K, Np = s.rc.K, s.rc.Np
		c02   = s.c0 * s.c0
	)
	f = &Fields{
		Step:     step,
		Time:     t,
		ElTags:   s.rc.ElTags,
		Pressure: make([][]float64, K),
		Density:  make([][]float64, K),
		Velocity: make([][]float64, K),
	}
	for k := 0; k < K; k++ {
		f.Pressure[k] = make([]float64, Np)
		f.Density[k] = make([]float64, Np)
		f.Velocity[k] = make([]float64, 3*Np)
		for i := 0; i < Np; i++ {
			n := k*Np + i
			f.Pressure[k][i] = u[0][n]
			f.Density[k][i] = u[0][n] / c02
			for d := 0; d < 3; d++ {
				f.Velocity[k][3*i+d] = u[d+1][n]
			}
		}
	}
	return
}
