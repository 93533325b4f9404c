// Package icnet implements the numerical core of elastic-net penalized
// regression for interval-censored exponential response data: a synthetic
// interval generator and a penalized negative log-likelihood evaluator
// with on-demand gradient and Hessian.
package icnet

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument reports an input rejected by validation before any
// computation starts. Match it with errors.Is.
var ErrInvalidArgument = errors.New("icnet: invalid argument")

// argErrorf wraps ErrInvalidArgument with call-site context.
func argErrorf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, ErrInvalidArgument)...)
}

// Order selects how much of an Evaluation is computed. Each order includes
// everything below it; fields above the requested order are zero-filled
// placeholders of the correct shape.
type Order int

const (
	// OrderValue computes the objective value only.
	OrderValue Order = iota
	// OrderGradient also computes the sub-gradient of the full objective.
	OrderGradient
	// OrderHessian also computes the Hessian of the smooth part
	// (likelihood and L2 penalty; the L1 part contributes nothing).
	OrderHessian
)

// Penalty holds the elastic-net penalty configuration. The per-coefficient
// L1 weight is Alpha*Lambda*Factor[j] and the L2 weight is
// (1-Alpha)*Lambda*Factor[j].
type Penalty struct {
	Lambda float64   // Overall strength (>= 0)
	Alpha  float64   // L1 share of the penalty in [0, 1]; 1 is pure L1
	Factor []float64 // Per-coefficient weights; nil means DefaultFactor
}

// NewDefaultPenalty returns an unpenalized configuration: zero strength,
// pure L1 mix, and the intercept-free factor filled in per call.
func NewDefaultPenalty() *Penalty {
	return &Penalty{
		Lambda: 0,
		Alpha:  1,
		Factor: nil,
	}
}

// DefaultFactor returns the conventional penalty weights for p
// coefficients: 0 for the leading intercept, 1 for the rest.
func DefaultFactor(p int) []float64 {
	f := make([]float64, p)
	for j := 1; j < p; j++ {
		f[j] = 1
	}
	return f
}

// effective validates the penalty for p coefficients and splits it into
// per-coefficient L1 and L2 weight slices.
func (pen *Penalty) effective(p int) (l1, l2 []float64, err error) {
	if math.IsNaN(pen.Lambda) || pen.Lambda < 0 {
		return nil, nil, argErrorf("penalty strength %g, want >= 0", pen.Lambda)
	}
	if math.IsNaN(pen.Alpha) || pen.Alpha < 0 || pen.Alpha > 1 {
		return nil, nil, argErrorf("penalty mix %g, want in [0, 1]", pen.Alpha)
	}
	factor := pen.Factor
	if factor == nil {
		factor = DefaultFactor(p)
	} else if len(factor) != p {
		return nil, nil, argErrorf("penalty factor has length %d, want %d", len(factor), p)
	}

	l1 = make([]float64, p)
	l2 = make([]float64, p)
	for j, f := range factor {
		l1[j] = pen.Alpha * pen.Lambda * f
		l2[j] = (1 - pen.Alpha) * pen.Lambda * f
	}
	return l1, l2, nil
}
