package Acoustic3D

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dgacoustic/InputParameters"
	"github.com/notargets/dgacoustic/utils"
)

/*
Mesh is the discretization the time integrators march over. Each element owns
a contiguous block of NodesPerElement nodes inside every per-equation vector:
global node n = k*NodesPerElement() + i.
*/
type Mesh interface {
	ElementCount() int
	NodesPerElement() int
	NodeCount() int
	ElementTag(k int) int
	NodeCoordinates(n int) [3]float64

	PrecomputeMassMatrices() error // Once per run, before MassMatrix is used
	MassMatrix(k int) *mat.LU

	// UpdateFlux fills the nodal physical flux of all 4 equations from u
	UpdateFlux(u [4][]float64, Flux [4][][3]float64, v0 [3]float64, c0, rho0 float64)
	// PrecomputeFlux prepares the face flux of one equation, read back per element by ElementFlux
	PrecomputeFlux(u []float64, Flux [][3]float64, eq int)
	ElementFlux(k int, elFlux []float64)
	ElementStiffVector(k int, Flux [][3]float64, u []float64, elStiff []float64)
}

// Sink receives snapshots during a run and persists them when the run ends
type Sink interface {
	AddTimeLayer(f *Fields) error
	Write(path string) error
}

type Acoustic struct {
	Mesh   Mesh
	IP     *InputParameters.InputParameters3D
	Output Sink
	Log    logrus.FieldLogger
}

func NewAcoustic(m Mesh, ip *InputParameters.InputParameters3D, output Sink, log logrus.FieldLogger) (c *Acoustic) {
	c = &Acoustic{
		Mesh:   m,
		IP:     ip,
		Output: output,
		Log:    log,
	}
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
	return
}

// NewSolution allocates a zero nodal solution sized for the mesh: pressure
// followed by the three velocity components.
func NewSolution(m Mesh) (u [4][]float64) {
	for eq := 0; eq < 4; eq++ {
		u[eq] = make([]float64, m.NodeCount())
	}
	return
}

// Solve advances u in place from TimeStart to TimeEnd with the configured integrator
func (c *Acoustic) Solve(u [4][]float64) (err error) {
	var tm InputParameters.TimeIntMethod
	if tm, err = InputParameters.NewTimeIntMethod(c.IP.TimeIntMethod); err != nil {
		return
	}
	c.PrintInitialization(tm)
	switch tm {
	case InputParameters.FORWARD_EULER:
		err = c.ForwardEuler(u)
	case InputParameters.RUNGE_KUTTA:
		err = c.RungeKutta(u)
	}
	return
}

func (c *Acoustic) PrintInitialization(tm InputParameters.TimeIntMethod) {
	fmt.Printf("Linear Acoustic Equations in 3 Dimensions\n")
	fmt.Printf("Using %d go routines in parallel, BLAS: %s\n", c.IP.NumThreads, utils.BLASImplementation)
	fmt.Printf("Algorithm: %s\n", tm.Print())
	fmt.Printf("Num Elements K = %d, Nodes per element = %d, Total nodes = %d\n",
		c.Mesh.ElementCount(), c.Mesh.NodesPerElement(), c.Mesh.NodeCount())
	fmt.Printf("Solving from %8.5f until finaltime = %8.5f, dt = %8.5f\n\n", c.IP.TimeStart, c.IP.TimeEnd, c.IP.TimeStep)
}

func (c *Acoustic) PrintFinal(elapsed time.Duration, steps int) {
	if steps == 0 {
		return
	}
	rate := float64(elapsed.Microseconds()) / (float64(c.Mesh.ElementCount() * steps))
	c.Log.Infof("Rate of execution = %8.5f us/(element*iteration) over %d iterations", rate, steps)
}
