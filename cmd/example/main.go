package main

import (
	"fmt"
	"log"
	"math"
	"os"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/koekvall/icnet"
)

var logger = log.New(os.Stdout, "[icnet] ", log.LstdFlags)

func main() {
	const (
		n = 500
		p = 4
	)

	// Design matrix: intercept plus three standard normal covariates.
	src := rand.NewSource(42)
	rng := rand.New(src)
	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j := 1; j < p; j++ {
			x.Set(i, j, rng.NormFloat64())
		}
	}
	bTrue := []float64{0.5, -0.8, 0, 0.4}

	cfg := icnet.NewDefaultSimConfig()
	cfg.Src = src
	lower, upper, err := icnet.Simulate(x, bTrue, cfg)
	if err != nil {
		logger.Fatal(err)
	}

	censored := 0
	for _, u := range upper {
		if math.IsInf(u, 1) {
			censored++
		}
	}
	logger.Printf("simulated %d interval observations, %d censored at cap %.0f", n, censored, cfg.Cap)

	// Objective and gradient at the truth and at zero across a small grid.
	bZero := make([]float64, p)
	fmt.Println("\nPenalized objective across regularization strengths:")
	for _, lam := range []float64{0, 0.05, 0.2} {
		pen := icnet.NewDefaultPenalty()
		pen.Lambda = lam
		pen.Alpha = 0.95

		evTrue := mustEval(lower, upper, x, bTrue, pen)
		evZero := mustEval(lower, upper, x, bZero, pen)
		fmt.Printf("λ=%.2f: f(b_true)=%.4f |g|=%.4f | f(0)=%.4f |g|=%.4f\n",
			lam,
			evTrue.Value, floats.Norm(evTrue.Gradient, 2),
			evZero.Value, floats.Norm(evZero.Gradient, 2))
	}

	// Curvature at the truth, for a Newton-style optimizer to consume.
	ev, err := icnet.Evaluate(lower, upper, x, bTrue, nil, icnet.OrderHessian)
	if err != nil {
		logger.Fatal(err)
	}
	fmt.Printf("\nHessian at b_true:\n%.4f\n", mat.Formatted(ev.Hessian, mat.Squeeze()))
}

func mustEval(lower, upper []float64, x mat.Matrix, b []float64, pen *icnet.Penalty) *icnet.Evaluation {
	ev, err := icnet.Evaluate(lower, upper, x, b, pen, icnet.OrderGradient)
	if err != nil {
		logger.Fatal(err)
	}
	return ev
}
