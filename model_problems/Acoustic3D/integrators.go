package Acoustic3D

import (
	"time"

	"github.com/notargets/dgacoustic/utils"
)

type run struct {
	rc   *runContext
	ss   *SourceSet
	snap *snapshotter
}

func (c *Acoustic) newRun() (r *run, err error) {
	if err = c.Mesh.PrecomputeMassMatrices(); err != nil {
		return
	}
	r = &run{
		rc: newRunContext(c.Mesh, c.IP.TimeStep, c.IP.NumThreads),
	}
	r.ss = NewSourceSet(c.Mesh, c.IP.Sources)
	r.snap = c.newSnapshotter(r.rc)
	return
}

// ForwardEuler marches u with the first order explicit step
//
//	u = dt * M^-1 * (S(u) - F(u)) + u
func (c *Acoustic) ForwardEuler(u [4][]float64) (err error) {
	var (
		ip    = c.IP
		r     *run
		v0    = ip.MeanFlow()
		steps int
		start = time.Now()
	)
	if r, err = c.newRun(); err != nil {
		return
	}
	for t, step := ip.TimeStart, 0; t <= ip.TimeEnd; t, step = t+ip.TimeStep, step+1 {
		if err = r.snap.Take(u, t, step); err != nil {
			return
		}
		r.ss.Inject(u, t)
		c.Mesh.UpdateFlux(u, r.rc.Flux, v0, ip.C0, ip.Rho0)
		r.rc.NumStep(c.Mesh, u, 1)
		r.snap.Advance(ip.TimeStep)
		steps++
	}
	c.PrintFinal(time.Since(start), steps)
	return c.write()
}

/*
RungeKutta marches u with the classical 4 stage scheme. Each stage copy starts
from u, receives the scaled increment of the previous stage, and is then
replaced by its own increment dt * M^-1 * (S - F):

	k1 = inc(u)
	k2 = inc(u + k1/2)
	k3 = inc(u + k2/2)
	k4 = inc(u + k3)
	u += (k1 + 2*k2 + 2*k3 + k4) / 6
*/
func (c *Acoustic) RungeKutta(u [4][]float64) (err error) {
	var (
		ip             = c.IP
		r              *run
		v0             = ip.MeanFlow()
		k1, k2, k3, k4 = NewSolution(c.Mesh), NewSolution(c.Mesh), NewSolution(c.Mesh), NewSolution(c.Mesh)
		steps          int
		start          = time.Now()
	)
	if r, err = c.newRun(); err != nil {
		return
	}
	stage := func(k [4][]float64) {
		c.Mesh.UpdateFlux(k, r.rc.Flux, v0, ip.C0, ip.Rho0)
		r.rc.NumStep(c.Mesh, k, 0)
	}
	for t, step := ip.TimeStart, 0; t <= ip.TimeEnd; t, step = t+ip.TimeStep, step+1 {
		if err = r.snap.Take(u, t, step); err != nil {
			return
		}
		r.ss.Inject(u, t)
		for eq := 0; eq < 4; eq++ {
			copy(k1[eq], u[eq])
			copy(k2[eq], u[eq])
			copy(k3[eq], u[eq])
			copy(k4[eq], u[eq])
		}
		stage(k1)
		for eq := 0; eq < 4; eq++ {
			utils.PlusTimes(k2[eq], k1[eq], 0.5)
		}
		stage(k2)
		for eq := 0; eq < 4; eq++ {
			utils.PlusTimes(k3[eq], k2[eq], 0.5)
		}
		stage(k3)
		for eq := 0; eq < 4; eq++ {
			utils.PlusTimes(k4[eq], k3[eq], 1)
		}
		stage(k4)
		for eq := 0; eq < 4; eq++ {
			for i := range u[eq] {
				u[eq][i] += (k1[eq][i] + 2*k2[eq][i] + 2*k3[eq][i] + k4[eq][i]) / 6.
			}
		}
		r.snap.Advance(ip.TimeStep)
		steps++
	}
	c.PrintFinal(time.Since(start), steps)
	return c.write()
}

func (c *Acoustic) write() (err error) {
	if c.Output == nil || len(c.IP.SaveFile) == 0 {
		return
	}
	return c.Output.Write(c.IP.SaveFile)
}
