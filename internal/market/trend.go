package market

import "math"

const (
	trendSmoothing   = 0.88
	trendBaseSpeed   = 0.055
	trendNoiseSpread = 0.02
	trendAmplitude   = 0.18
)

// TrendState is one good's oscillator. Phase accumulates every simulated day
// and velocity is smoothed toward a noisy target so trends never flip abruptly.
type TrendState struct {
	Phase    float64 `json:"phase"`
	Velocity float64 `json:"velocity"`
}

// Trends holds every good's oscillator plus the factor sampled for the
// current day.
type Trends struct {
	State  map[string]TrendState
	Factor map[string]float64
}

// NewTrends seeds phase and velocity from entropy and samples the factor
// without advancing.
func NewTrends(src Entropy) *Trends {
	t := &Trends{
		State:  make(map[string]TrendState, len(catalog)),
		Factor: make(map[string]float64, len(catalog)),
	}
	for _, g := range catalog {
		t.State[g.Name] = TrendState{
			Phase:    src.Float64() * 2 * math.Pi,
			Velocity: 0.04 + src.Float64()*0.05,
		}
	}
	t.resample()
	return t
}

// RestoreTrends rebuilds oscillators from persisted phase and velocity. Goods
// missing from the maps start at rest.
func RestoreTrends(phase, velocity map[string]float64) *Trends {
	t := &Trends{
		State:  make(map[string]TrendState, len(catalog)),
		Factor: make(map[string]float64, len(catalog)),
	}
	for _, g := range catalog {
		t.State[g.Name] = TrendState{Phase: phase[g.Name], Velocity: velocity[g.Name]}
	}
	t.resample()
	return t
}

// Advance moves every oscillator forward one day.
func (t *Trends) Advance(day int) {
	for _, g := range catalog {
		s := t.State[g.Name]
		noise := Uniform(TrendStream(trendSeed(g.Name), day), -1, 1)
		target := trendBaseSpeed + noise*trendNoiseSpread
		s.Velocity = trendSmoothing*s.Velocity + (1-trendSmoothing)*target
		s.Phase += s.Velocity
		t.State[g.Name] = s
	}
	t.resample()
}

func (t *Trends) Modifiers() Modifiers {
	out := make(Modifiers, len(t.Factor))
	for k, v := range t.Factor {
		out[k] = v
	}
	return out
}

func (t *Trends) Phases() map[string]float64 {
	out := make(map[string]float64, len(t.State))
	for k, s := range t.State {
		out[k] = s.Phase
	}
	return out
}

func (t *Trends) Velocities() map[string]float64 {
	out := make(map[string]float64, len(t.State))
	for k, s := range t.State {
		out[k] = s.Velocity
	}
	return out
}

func (t *Trends) resample() {
	for _, g := range catalog {
		t.Factor[g.Name] = TrendFactor(t.State[g.Name].Phase, TrendOffset(g.Name))
	}
}

// TrendFactor blends a fast and a slow wave; the result stays within
// 1 ± 0.18.
func TrendFactor(phase, offset float64) float64 {
	fast := math.Sin(phase)
	slow := math.Sin(phase*0.45 + offset)
	return 1.0 + (0.65*fast+0.35*slow)*trendAmplitude
}

// TrendOffset is derived from the good name alone so reloads reproduce it
// without persisting it.
func TrendOffset(good string) float64 {
	return Stream(nameHash64(good)).Float64() * 2 * math.Pi
}

func trendSeed(good string) int64 {
	return nameHash32(good)
}
