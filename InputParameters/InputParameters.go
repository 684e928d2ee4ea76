package InputParameters

import (
	"fmt"
	"math"
	"strings"

	"github.com/ghodss/yaml"
)

type TimeIntMethod uint8

const (
	FORWARD_EULER TimeIntMethod = iota
	RUNGE_KUTTA
)

var (
	TimeIntMethodNames = map[string]TimeIntMethod{
		"euler":       FORWARD_EULER,
		"runge-kutta": RUNGE_KUTTA,
		"rk4":         RUNGE_KUTTA,
	}
	TimeIntMethodPrintNames = []string{"Forward Euler, O(h)", "Runge-Kutta, O(h^4)"}
)

func (tm TimeIntMethod) Print() (txt string) {
	return TimeIntMethodPrintNames[tm]
}

func NewTimeIntMethod(label string) (tm TimeIntMethod, err error) {
	var ok bool
	if tm, ok = TimeIntMethodNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown time integration method %q, use one of \"Euler\" or \"Runge-Kutta\"", label)
	}
	return
}

// Source is a spherical point source driving the pressure field. Nodes
// strictly inside the sphere are overwritten with
// Amplitude*sin(2*Pi*Frequency*t + Phase) while t < Duration.
// The center is given as a list, Center: [x, y, z], since an unquoted Y key
// parses as the YAML boolean true.
type Source struct {
	Position  []float64 `json:"Center"`
	Radius    float64   `json:"Radius"`
	Amplitude float64   `json:"Amplitude"`
	Frequency float64   `json:"Frequency"`
	Phase     float64   `json:"Phase"`
	Duration  float64   `json:"Duration"` // Negative or absent means the source never switches off
}

func (src Source) Center() (x [3]float64) {
	copy(x[:], src.Position)
	return
}

// Active reports whether the source still drives the field at time t
func (src Source) Active(t float64) bool {
	return t < src.Duration
}

// Value is the pressure imposed by the source at time t
func (src Source) Value(t float64) float64 {
	return src.Amplitude * math.Sin(2*math.Pi*src.Frequency*t+src.Phase)
}

// Parameters obtained from the YAML input file. ghodss/yaml converts to JSON
// before decoding, so the field tags are json tags.
type InputParameters3D struct {
	Title         string    `json:"Title"`
	MeshFile      string    `json:"MeshFile"`
	SaveFile      string    `json:"SaveFile"`
	TimeIntMethod string    `json:"TimeIntMethod"`
	C0            float64   `json:"C0"`   // Reference sound speed
	Rho0          float64   `json:"Rho0"` // Reference density
	V0            []float64 `json:"V0"`   // Mean flow velocity, 3 components
	TimeStart     float64   `json:"TimeStart"`
	TimeEnd       float64   `json:"TimeEnd"`
	TimeStep      float64   `json:"TimeStep"`
	TimeRate      float64   `json:"TimeRate"` // Simulated time between snapshots
	NumThreads    int       `json:"NumThreads"`
	Sources       []Source  `json:"Sources"`
}

func (ip *InputParameters3D) Parse(data []byte) (err error) {
	ip.Sources = nil
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	for i := range ip.Sources {
		if ip.Sources[i].Duration < 0 || ip.Sources[i].Duration == 0 && !hasDuration(data, i) {
			ip.Sources[i].Duration = math.Inf(1)
		}
	}
	if len(ip.V0) == 0 {
		ip.V0 = []float64{0, 0, 0}
	}
	if ip.NumThreads == 0 {
		ip.NumThreads = 1
	}
	return ip.Validate()
}

// hasDuration reports whether source i in the deck spelled out a Duration,
// so that an explicit zero switches the source off.
func hasDuration(data []byte, i int) bool {
	var raw struct {
		Sources []map[string]interface{} `json:"Sources"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil || i >= len(raw.Sources) {
		return false
	}
	// encoding/json matches field names without regard to case
	for key := range raw.Sources[i] {
		if strings.EqualFold(key, "Duration") {
			return true
		}
	}
	return false
}

func (ip *InputParameters3D) Validate() (err error) {
	switch {
	case ip.C0 <= 0:
		err = fmt.Errorf("C0 must be positive, have %8.5f", ip.C0)
	case ip.Rho0 <= 0:
		err = fmt.Errorf("Rho0 must be positive, have %8.5f", ip.Rho0)
	case len(ip.V0) != 3:
		err = fmt.Errorf("V0 must have 3 components, have %d", len(ip.V0))
	case ip.TimeStep <= 0:
		err = fmt.Errorf("TimeStep must be positive, have %8.5f", ip.TimeStep)
	case ip.TimeEnd < ip.TimeStart:
		err = fmt.Errorf("TimeEnd %8.5f is before TimeStart %8.5f", ip.TimeEnd, ip.TimeStart)
	case ip.TimeRate < 0:
		err = fmt.Errorf("TimeRate must not be negative, have %8.5f", ip.TimeRate)
	case ip.NumThreads < 1:
		err = fmt.Errorf("NumThreads must be at least 1, have %d", ip.NumThreads)
	}
	if err != nil {
		return
	}
	if _, err = NewTimeIntMethod(ip.TimeIntMethod); err != nil {
		return
	}
	for i, src := range ip.Sources {
		if len(src.Position) != 3 {
			return fmt.Errorf("source %d: Center must have 3 components, have %d", i, len(src.Position))
		}
		if src.Radius <= 0 {
			return fmt.Errorf("source %d: Radius must be positive, have %8.5f", i, src.Radius)
		}
		if src.Frequency < 0 {
			return fmt.Errorf("source %d: Frequency must not be negative, have %8.5f", i, src.Frequency)
		}
	}
	return
}

func (ip *InputParameters3D) MeanFlow() (v0 [3]float64) {
	copy(v0[:], ip.V0)
	return
}

func (ip *InputParameters3D) Method() (tm TimeIntMethod) {
	tm, _ = NewTimeIntMethod(ip.TimeIntMethod)
	return
}

func (ip *InputParameters3D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Mesh File\n", ip.MeshFile)
	fmt.Printf("[%s]\t\t= Save File\n", ip.SaveFile)
	fmt.Printf("[%s]\t= Time Integration\n", ip.Method().Print())
	fmt.Printf("%8.5f\t\t= C0\n", ip.C0)
	fmt.Printf("%8.5f\t\t= Rho0\n", ip.Rho0)
	fmt.Printf("%v\t\t= V0\n", ip.V0)
	fmt.Printf("%8.5f\t\t= TimeStart\n", ip.TimeStart)
	fmt.Printf("%8.5f\t\t= TimeEnd\n", ip.TimeEnd)
	fmt.Printf("%8.5f\t\t= TimeStep\n", ip.TimeStep)
	fmt.Printf("%8.5f\t\t= TimeRate\n", ip.TimeRate)
	fmt.Printf("[%d]\t\t\t= NumThreads\n", ip.NumThreads)
	for i, src := range ip.Sources {
		fmt.Printf("Sources[%d] = center %v, radius %8.5f, amp %8.5f, freq %8.5f, phase %8.5f, duration %8.5f\n",
			i, src.Center(), src.Radius, src.Amplitude, src.Frequency, src.Phase, src.Duration)
	}
}
