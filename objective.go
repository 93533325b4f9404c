package icnet

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Evaluation holds the outputs of Evaluate. Order tags which fields carry
// computed results; the remaining fields are zero-filled at the correct
// shape so downstream code can rely on dimensions alone.
type Evaluation struct {
	Order    Order      // Requested evaluation order
	Value    float64    // Penalized objective value
	Gradient []float64  // Length p; zero-filled below OrderGradient
	Hessian  *mat.Dense // p by p; zero-filled below OrderHessian
}

// Evaluate computes the elastic-net penalized negative log-likelihood for
// interval-censored responses at the coefficient vector b. Each latent
// response follows an Exponential distribution with rate exp(x_i . b), and
// observation i is the event that the response fell in (lower_i, upper_i],
// where upper_i may be +Inf for right censoring. The value is the average
// negative log interval probability plus the penalty from pen; see Order
// for what the gradient and Hessian fields contain.
//
// A nil pen behaves as NewDefaultPenalty. Evaluate keeps no state, writes
// only to freshly allocated outputs, and is safe for concurrent use.
// Invalid shapes, ranges, or order selectors return ErrInvalidArgument.
func Evaluate(lower, upper []float64, x mat.Matrix, b []float64, pen *Penalty, order Order) (*Evaluation, error) {
	if x == nil {
		return nil, argErrorf("design matrix is nil")
	}
	n, p := x.Dims()
	if n < 1 || p < 1 {
		return nil, argErrorf("design matrix is %dx%d, want at least 1x1", n, p)
	}
	if len(b) != p {
		return nil, argErrorf("coefficient vector has length %d, want %d", len(b), p)
	}
	if len(lower) != n {
		return nil, argErrorf("lower endpoints have length %d, want %d", len(lower), n)
	}
	if len(upper) != n {
		return nil, argErrorf("upper endpoints have length %d, want %d", len(upper), n)
	}
	for i, l := range lower {
		if math.IsNaN(l) || math.IsInf(l, 0) || l < 0 {
			return nil, argErrorf("lower[%d] = %g, want finite and >= 0", i, l)
		}
		if u := upper[i]; math.IsNaN(u) || u < l {
			return nil, argErrorf("upper[%d] = %g, want >= lower %g", i, u, l)
		}
	}
	if order < OrderValue || order > OrderHessian {
		return nil, argErrorf("order %d, want 0, 1, or 2", order)
	}
	if pen == nil {
		pen = NewDefaultPenalty()
	}
	l1, l2, err := pen.effective(p)
	if err != nil {
		return nil, err
	}

	ev := &Evaluation{
		Order:    order,
		Gradient: make([]float64, p),
		Hessian:  mat.NewDense(p, p, nil),
	}

	// Accumulate the likelihood term and its per-observation derivative
	// factors with respect to the linear predictor.
	nll := 0.0
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		rate := math.Exp(clampExpArg(floats.Dot(row, b)))
		rl := rate * lower[i]
		if rl > maxHazard {
			rl = maxHazard
		}

		var gfac, hfac float64
		if math.IsInf(upper[i], 1) {
			// Right-censored: the interval probability is the survival
			// function at the lower endpoint.
			nll += rl
			gfac, hfac = rl, rl
		} else {
			z := rate * (upper[i] - lower[i])
			if z < minIntervalMass {
				z = minIntervalMass
			}
			nll += rl - log1mexp(z)
			if order >= OrderGradient {
				w := expm1Ratio(z)
				gfac = rl - w
				hfac = rl
				if w > 0 {
					hfac += w * (w + z - 1)
				}
			}
		}

		if order >= OrderGradient {
			floats.AddScaled(ev.Gradient, gfac, row)
		}
		if order >= OrderHessian {
			for j := 0; j < p; j++ {
				v := hfac * row[j]
				for k := 0; k <= j; k++ {
					ev.Hessian.Set(j, k, ev.Hessian.At(j, k)+v*row[k])
				}
			}
		}
	}

	nInv := 1 / float64(n)
	ev.Value = nInv * nll
	for j, bj := range b {
		ev.Value += l1[j]*math.Abs(bj) + l2[j]*bj*bj
	}

	if order >= OrderGradient {
		floats.Scale(nInv, ev.Gradient)
		for j, bj := range b {
			ev.Gradient[j] += 2 * l2[j] * bj
			// The L1 sub-gradient contributes nothing at bj == 0.
			switch {
			case bj > 0:
				ev.Gradient[j] += l1[j]
			case bj < 0:
				ev.Gradient[j] -= l1[j]
			}
		}
	}

	if order >= OrderHessian {
		// Scale, add the L2 diagonal, and mirror the lower triangle.
		for j := 0; j < p; j++ {
			for k := 0; k <= j; k++ {
				v := nInv * ev.Hessian.At(j, k)
				if j == k {
					v += 2 * l2[j]
				}
				ev.Hessian.Set(j, k, v)
				ev.Hessian.Set(k, j, v)
			}
		}
	}

	return ev, nil
}

// --- Numerical Kernels ---

const (
	// maxExpArg bounds linear predictors so exp stays a finite positive
	// normal number.
	maxExpArg = 700.0

	// maxHazard caps rate*lower so extreme predictors with large lower
	// endpoints saturate the objective instead of overflowing to +Inf.
	maxHazard = 1e300

	// minIntervalMass floors rate*(upper-lower) so zero-width intervals
	// saturate to a huge finite objective instead of +Inf.
	minIntervalMass = math.SmallestNonzeroFloat64
)

// clampExpArg clips v to [-maxExpArg, maxExpArg].
func clampExpArg(v float64) float64 {
	if v > maxExpArg {
		return maxExpArg
	}
	if v < -maxExpArg {
		return -maxExpArg
	}
	return v
}

// log1mexp returns log(1 - exp(-z)) for z > 0. The branch at ln 2 keeps
// full precision at both small and large z.
func log1mexp(z float64) float64 {
	if z <= math.Ln2 {
		return math.Log(-math.Expm1(-z))
	}
	return math.Log1p(-math.Exp(-z))
}

// expm1Ratio returns z/(exp(z)-1), which tends to 1 as z -> 0 and to 0 as
// z -> +Inf. Arguments past the exp overflow point return 0 exactly.
func expm1Ratio(z float64) float64 {
	if z > maxExpArg {
		return 0
	}
	return z / math.Expm1(z)
}
