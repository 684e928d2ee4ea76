package Acoustic3D

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dgacoustic/DG3D/mesh"
	"github.com/notargets/dgacoustic/DG3D/tetrahedra/tetelement"
	"github.com/notargets/dgacoustic/InputParameters"
)

func TestForwardEuler_Decay(t *testing.T) {
	// dt = 0.25 over [0, 0.5] is 3 steps of u = 0.75 u
	m := newStubMesh(2, 3, -1)
	c, sink, _ := newTestAcoustic(m, newTestParameters("Euler", 0.25, 0.5, 10))
	u := NewSolution(m)
	fill(u, func(eq, n int) float64 { return 1 })
	require.NoError(t, c.ForwardEuler(u))
	for eq := 0; eq < 4; eq++ {
		for _, val := range u[eq] {
			assert.Equal(t, 0.421875, val)
		}
	}
	assert.Equal(t, 1, m.massCalls)
	assert.Equal(t, []string{"out.msh"}, sink.written)
	assert.Equal(t, []int{0}, sink.steps())
}

func TestRungeKutta_Decay(t *testing.T) {
	for _, lambda := range []float64{-1, -2, 0.5} {
		m := newStubMesh(2, 3, lambda)
		c, sink, _ := newTestAcoustic(m, newTestParameters("Runge-Kutta", 0.25, 0.5, 10))
		u := NewSolution(m)
		fill(u, func(eq, n int) float64 { return float64(n + 1) })
		require.NoError(t, c.RungeKutta(u))
		g := math.Pow(rk4Factor(0.25*lambda), 3)
		for eq := 0; eq < 4; eq++ {
			for n, val := range u[eq] {
				assert.InDelta(t, g*float64(n+1), val, 1.e-13, "lambda = %v", lambda)
			}
		}
		assert.Equal(t, []string{"out.msh"}, sink.written)
	}
}

func TestRungeKutta_SingleStage(t *testing.T) {
	// One step from u0 = 1: k1 = z, k2 = z(1+z/2), k3 = z(1+k2/2), k4 = z(1+k3)
	var (
		z  = 0.25 * -2.
		k1 = z
		k2 = z * (1 + k1/2)
		k3 = z * (1 + k2/2)
		k4 = z * (1 + k3)
	)
	m := newStubMesh(1, 1, -2)
	c, _, _ := newTestAcoustic(m, newTestParameters("Runge-Kutta", 0.25, 0, 10))
	u := NewSolution(m)
	fill(u, func(eq, n int) float64 { return 1 })
	require.NoError(t, c.RungeKutta(u))
	assert.InDelta(t, 1+(k1+2*k2+2*k3+k4)/6, u[0][0], 1.e-15)
	assert.InDelta(t, rk4Factor(z), u[0][0], 1.e-15)
}

func TestIntegrators_ZeroStaysZero(t *testing.T) {
	for _, method := range []string{"Euler", "Runge-Kutta"} {
		m := newStubMesh(1, 1, 0)
		c, sink, _ := newTestAcoustic(m, newTestParameters(method, 0.1, 1, 0))
		u := NewSolution(m)
		require.NoError(t, c.Solve(u))
		for eq := 0; eq < 4; eq++ {
			assert.Equal(t, []float64{0}, u[eq], method)
		}
		require.NotEmpty(t, sink.layers)
		for _, f := range sink.layers {
			assert.Equal(t, [][]float64{{0}}, f.Pressure)
			assert.Equal(t, [][]float64{{0, 0, 0}}, f.Velocity)
		}
	}
}

func TestIntegrators_PointSource(t *testing.T) {
	// The snapshot is taken before the source is applied, so each layer shows
	// the value injected on the previous step.
	const dt = 0.125
	for _, method := range []string{"Euler", "Runge-Kutta"} {
		m := newStubMesh(1, 1, 0)
		ip := newTestParameters(method, dt, 1, 0)
		ip.Sources = []InputParameters.Source{
			{Radius: 0.5, Amplitude: 1, Frequency: 1, Duration: infinity},
		}
		c, sink, _ := newTestAcoustic(m, ip)
		u := NewSolution(m)
		require.NoError(t, c.Solve(u))
		require.Len(t, sink.layers, 9)
		for s, f := range sink.layers {
			assert.Equal(t, s, f.Step)
			assert.Equal(t, float64(s)*dt, f.Time)
			expected := 0.
			if s > 0 {
				expected = math.Sin(2 * math.Pi * (f.Time - dt))
			}
			assert.InDelta(t, expected, f.Pressure[0][0], 1.e-12, "%s step %d", method, s)
		}
		assert.InDelta(t, math.Sin(2*math.Pi*1.), u[0][0], 1.e-12)
	}
}

func TestIntegrators_SourceDuration(t *testing.T) {
	m := newStubMesh(1, 1, 0)
	ip := newTestParameters("Euler", 0.25, 1, 0)
	ip.Sources = []InputParameters.Source{
		{Radius: 0.5, Amplitude: 2, Frequency: 0.5, Phase: math.Pi / 2, Duration: 0.5},
	}
	c, sink, _ := newTestAcoustic(m, ip)
	u := NewSolution(m)
	require.NoError(t, c.ForwardEuler(u))
	// Injected at t = 0, 0.25, then left alone
	assert.InDelta(t, math.Sqrt2, u[0][0], 1.e-12)
	assert.InDelta(t, 2., sink.layers[1].Pressure[0][0], 1.e-12)
}

func TestSnapshot_Cadence(t *testing.T) {
	m := newStubMesh(1, 2, 0)
	c, sink, hook := newTestAcoustic(m, newTestParameters("Euler", 0.25, 1, 0.5))
	require.NoError(t, c.ForwardEuler(NewSolution(m)))
	assert.Equal(t, []int{0, 2, 4}, sink.steps())
	assert.Equal(t, 0.5, sink.layers[1].Time)
	var progress []string
	for _, entry := range hook.AllEntries() {
		if strings.Contains(entry.Message, "Step number") {
			progress = append(progress, entry.Message)
		}
	}
	require.Len(t, progress, 3)
	assert.Equal(t, "[0.500000/1.000000s] Step number : 2, Elapsed time: 0s", progress[1])
}

func TestSnapshot_Pack(t *testing.T) {
	m := newStubMesh(2, 2, 0)
	ip := newTestParameters("Euler", 0.25, 1, 0)
	ip.C0 = 2
	c, _, _ := newTestAcoustic(m, ip)
	rc := newRunContext(m, ip.TimeStep, 1)
	u := NewSolution(m)
	fill(u, func(eq, n int) float64 { return float64(10*eq + n) })
	f := c.newSnapshotter(rc).pack(u, 0.75, 3)
	assert.Equal(t, 3, f.Step)
	assert.Equal(t, 0.75, f.Time)
	assert.Equal(t, []int{100, 101}, f.ElTags)
	assert.Equal(t, [][]float64{{0, 1}, {2, 3}}, f.Pressure)
	assert.Equal(t, [][]float64{{0, 0.25}, {0.5, 0.75}}, f.Density)
	assert.Equal(t, [][]float64{{10, 20, 30, 11, 21, 31}, {12, 22, 32, 13, 23, 33}}, f.Velocity)
}

func TestIntegrators_SinkError(t *testing.T) {
	m := newStubMesh(1, 1, 0)
	c, sink, _ := newTestAcoustic(m, newTestParameters("Runge-Kutta", 0.25, 1, 0))
	sink.failAt = 2
	err := c.Solve(NewSolution(m))
	assert.EqualError(t, err, "sink full")
	assert.Empty(t, sink.written)
}

func TestSolve_SingularMassMatrix(t *testing.T) {
	for _, method := range []string{"Euler", "Runge-Kutta"} {
		m := newStubMesh(2, 2, 0)
		m.mass = 0
		c, sink, _ := newTestAcoustic(m, newTestParameters(method, 0.25, 1, 0))
		err := c.Solve(NewSolution(m))
		var cond mat.Condition
		assert.ErrorAs(t, err, &cond, method)
		assert.Empty(t, sink.layers, method)
		assert.Empty(t, sink.written, method)
	}
}

func TestSolve_UnknownMethod(t *testing.T) {
	m := newStubMesh(1, 1, 0)
	c, _, _ := newTestAcoustic(m, newTestParameters("Leapfrog", 0.25, 1, 0))
	assert.Error(t, c.Solve(NewSolution(m)))
}

func TestSolve_Tetrahedra(t *testing.T) {
	newElement := func() *tetelement.Element3D {
		m, err := mesh.ReadGmshFrom(strings.NewReader(mesh.CubeMsh))
		require.NoError(t, err)
		el, err := tetelement.NewElement3DFromMesh(m)
		require.NoError(t, err)
		return el
	}
	t.Run("uniform state is steady", func(t *testing.T) {
		for _, method := range []string{"Euler", "Runge-Kutta"} {
			el := newElement()
			ip := newTestParameters(method, 0.01, 0.05, 0.02)
			ip.V0 = []float64{0.2, 0, 0.1}
			c, _, _ := newTestAcoustic(el, ip)
			u := NewSolution(el)
			fill(u, func(eq, n int) float64 { return float64(eq+1) * 0.1 })
			require.NoError(t, c.Solve(u))
			for eq := 0; eq < 4; eq++ {
				for _, val := range u[eq] {
					assert.InDelta(t, float64(eq+1)*0.1, val, 1.e-12)
				}
			}
		}
	})
	t.Run("corner source radiates", func(t *testing.T) {
		run := func(threads int) (u [4][]float64, sink *recordingSink) {
			el := newElement()
			ip := newTestParameters("Runge-Kutta", 0.01, 0.05, 0)
			ip.NumThreads = threads
			ip.Sources = []InputParameters.Source{
				{Radius: 0.1, Amplitude: 1, Frequency: 5, Duration: infinity},
			}
			var c *Acoustic
			c, sink, _ = newTestAcoustic(el, ip)
			u = NewSolution(el)
			require.NoError(t, c.Solve(u))
			return
		}
		u1, sink := run(1)
		u4, _ := run(4)
		assert.Equal(t, u1, u4)
		for n := 0; n < len(u1[0]); n++ {
			assert.False(t, math.IsNaN(u1[0][n]))
		}
		for _, f := range sink.layers {
			assert.Len(t, f.Pressure, 6)
			assert.Len(t, f.Velocity[0], 12)
		}
		// Only the origin is driven, the velocity follows the pressure gradient
		var speed float64
		for _, row := range sink.layers[len(sink.layers)-1].Velocity {
			for _, v := range row {
				speed += math.Abs(v)
			}
		}
		assert.Greater(t, speed, 0.)
	})
}
