package Acoustic3D

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dgacoustic/InputParameters"
	"github.com/notargets/dgacoustic/utils"
)

// stubMesh has a diagonal mass matrix mass*I, stiffness lambda*u and a
// constant face flux, so that every element update is
//
//	u = dt * (lambda*u - flux) / mass + beta * u
type stubMesh struct {
	K, Np              int
	lambda, flux, mass float64
	coords             [][3]float64
	lu                 *mat.LU
	massCalls          int
}

func newStubMesh(K, Np int, lambda float64) (m *stubMesh) {
	m = &stubMesh{K: K, Np: Np, lambda: lambda, mass: 1}
	m.coords = make([][3]float64, K*Np)
	for n := range m.coords {
		m.coords[n] = [3]float64{float64(n), 0, 0}
	}
	return
}

func (m *stubMesh) ElementCount() int                { return m.K }
func (m *stubMesh) NodesPerElement() int             { return m.Np }
func (m *stubMesh) NodeCount() int                   { return m.K * m.Np }
func (m *stubMesh) ElementTag(k int) int             { return 100 + k }
func (m *stubMesh) NodeCoordinates(n int) [3]float64 { return m.coords[n] }

func (m *stubMesh) PrecomputeMassMatrices() (err error) {
	data := make([]float64, m.Np*m.Np)
	for i := 0; i < m.Np; i++ {
		data[i*m.Np+i] = m.mass
	}
	m.massCalls++
	m.lu, err = utils.NewLU(m.Np, data)
	return
}

func (m *stubMesh) MassMatrix(k int) *mat.LU { return m.lu }

func (m *stubMesh) UpdateFlux(u [4][]float64, Flux [4][][3]float64, v0 [3]float64, c0, rho0 float64) {}

func (m *stubMesh) PrecomputeFlux(u []float64, Flux [][3]float64, eq int) {}

func (m *stubMesh) ElementFlux(k int, elFlux []float64) {
	for i := range elFlux {
		elFlux[i] = m.flux
	}
}

func (m *stubMesh) ElementStiffVector(k int, Flux [][3]float64, u []float64, elStiff []float64) {
	for i := range elStiff {
		elStiff[i] = m.lambda * u[k*m.Np+i]
	}
}

// recordingSink keeps every layer and the paths it was asked to write
type recordingSink struct {
	layers  []*Fields
	written []string
	failAt  int // Fail on this layer, 0 never fails
}

func (s *recordingSink) AddTimeLayer(f *Fields) error {
	s.layers = append(s.layers, f)
	if s.failAt != 0 && len(s.layers) == s.failAt {
		return fmt.Errorf("sink full")
	}
	return nil
}

func (s *recordingSink) Write(path string) error {
	s.written = append(s.written, path)
	return nil
}

func (s *recordingSink) steps() (steps []int) {
	for _, f := range s.layers {
		steps = append(steps, f.Step)
	}
	return
}

func newTestParameters(method string, dt, timeEnd, timeRate float64) *InputParameters.InputParameters3D {
	return &InputParameters.InputParameters3D{
		SaveFile:      "out.msh",
		TimeIntMethod: method,
		C0:            1,
		Rho0:          1,
		V0:            []float64{0, 0, 0},
		TimeEnd:       timeEnd,
		TimeStep:      dt,
		TimeRate:      timeRate,
		NumThreads:    1,
	}
}

func newTestAcoustic(m Mesh, ip *InputParameters.InputParameters3D) (c *Acoustic, sink *recordingSink, hook *test.Hook) {
	var logger *logrus.Logger
	logger, hook = test.NewNullLogger()
	sink = &recordingSink{}
	c = NewAcoustic(m, ip, sink, logger)
	return
}

func fill(u [4][]float64, f func(eq, n int) float64) {
	for eq := 0; eq < 4; eq++ {
		for n := range u[eq] {
			u[eq][n] = f(eq, n)
		}
	}
}

func rk4Factor(z float64) float64 {
	return 1 + z + z*z/2 + z*z*z/6 + z*z*z*z/24
}

var infinity = math.Inf(1)
