package icnet

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SimConfig holds the discretization parameters for Simulate.
type SimConfig struct {
	Step float64     // Interval width (> 0)
	Cap  float64     // Largest lower endpoint; draws beyond it are censored
	Src  rand.Source // Random source; nil uses the global source
}

// NewDefaultSimConfig returns unit-width intervals capped at 10.
func NewDefaultSimConfig() *SimConfig {
	return &SimConfig{
		Step: 1,
		Cap:  10,
		Src:  nil,
	}
}

// Simulate draws one latent response per row of x from an Exponential
// distribution with rate exp(x_i . b) and reports the discretization
// interval containing it. Lower endpoints are multiples of cfg.Step capped
// at cfg.Cap; upper endpoints sit one step above, except at the cap where
// the observation is right-censored and the upper endpoint is +Inf.
//
// A nil cfg behaves as NewDefaultSimConfig. Seeding cfg.Src makes the
// draws reproducible.
func Simulate(x mat.Matrix, b []float64, cfg *SimConfig) (lower, upper []float64, err error) {
	if cfg == nil {
		cfg = NewDefaultSimConfig()
	}
	if x == nil {
		return nil, nil, argErrorf("design matrix is nil")
	}
	n, p := x.Dims()
	if n < 1 || p < 1 {
		return nil, nil, argErrorf("design matrix is %dx%d, want at least 1x1", n, p)
	}
	if len(b) != p {
		return nil, nil, argErrorf("coefficient vector has length %d, want %d", len(b), p)
	}
	for j, bj := range b {
		if math.IsNaN(bj) || math.IsInf(bj, 0) {
			return nil, nil, argErrorf("coefficient %d = %g, want finite", j, bj)
		}
	}
	if math.IsNaN(cfg.Step) || math.IsInf(cfg.Step, 1) || cfg.Step <= 0 {
		return nil, nil, argErrorf("step %g, want positive and finite", cfg.Step)
	}
	if math.IsNaN(cfg.Cap) || math.IsInf(cfg.Cap, 1) || cfg.Cap < 0 {
		return nil, nil, argErrorf("cap %g, want >= 0 and finite", cfg.Cap)
	}

	lower = make([]float64, n)
	upper = make([]float64, n)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		rate := math.Exp(clampExpArg(floats.Dot(row, b)))
		t := distuv.Exponential{Rate: rate, Src: cfg.Src}.Rand()

		lo := math.Floor(t/cfg.Step) * cfg.Step
		if lo >= cfg.Cap {
			lo = cfg.Cap
		}
		lower[i] = lo
		if lo == cfg.Cap {
			upper[i] = math.Inf(1)
		} else {
			upper[i] = lo + cfg.Step
		}
	}
	return lower, upper, nil
}
