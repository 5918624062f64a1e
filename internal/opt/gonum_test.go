package opt

import (
	"math"
	"testing"
)

// rosenbrock has its minimum 0 at (1, 1)
func rosenbrock(x []float64) float64 {
	a := 1 - x[0]
	b := x[1] - x[0]*x[0]
	return a*a + 100*b*b
}

func sphereGrad(grad, x []float64) {
	for i, v := range x {
		grad[i] = 2 * v
	}
}

func TestNelderMeadSphere(t *testing.T) {
	nm := NewNelderMead(DefaultSettings(), 1, 0)

	res, err := nm.Minimize(Problem{Func: sphere}, []float64{3, -4, 2})
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}

	if !res.Converged {
		t.Errorf("Expected convergence, got status %s", res.Status)
	}
	if res.F > 1e-6 {
		t.Errorf("Expected cost near 0, got %g", res.F)
	}
	for i, v := range res.X {
		if math.Abs(v) > 1e-3 {
			t.Errorf("Parameter %d = %g, expected near 0", i, v)
		}
	}
	if res.Iterations <= 0 || res.Evaluations <= res.Iterations {
		t.Errorf("Unexpected counters: iterations=%d evaluations=%d", res.Iterations, res.Evaluations)
	}
}

func TestNelderMeadRosenbrock(t *testing.T) {
	nm := NewNelderMead(DefaultSettings(), 0.5, 2)

	res, err := nm.Minimize(Problem{Func: rosenbrock}, []float64{-1.2, 1})
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}

	if math.Abs(res.X[0]-1) > 1e-2 || math.Abs(res.X[1]-1) > 1e-2 {
		t.Errorf("Expected minimum near (1,1), got (%g, %g)", res.X[0], res.X[1])
	}
}

func TestNelderMeadIterationCap(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxIterations = 5

	res, err := NewNelderMead(settings, 1, 3).Minimize(Problem{Func: rosenbrock}, []float64{-1.2, 1})
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}

	if res.Converged {
		t.Error("Five iterations should not be enough to converge")
	}
	if res.Status != StatusIterationLimit {
		t.Errorf("Expected status %s, got %s", StatusIterationLimit, res.Status)
	}
	if res.Iterations > 5 {
		t.Errorf("Iteration cap exceeded: %d", res.Iterations)
	}
	if res.F > rosenbrock([]float64{-1.2, 1}) {
		t.Errorf("Best point should be no worse than start, got %g", res.F)
	}
}

func TestNelderMeadNaNObjective(t *testing.T) {
	nan := func(x []float64) float64 { return math.NaN() }

	res, err := NewNelderMead(DefaultSettings(), 1, 0).Minimize(Problem{Func: nan}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Minimize should not fail on NaN objective: %v", err)
	}

	if res.Converged {
		t.Error("NaN objective must not report convergence")
	}
	if res.Status != StatusNonFinite {
		t.Errorf("Expected status %s, got %s", StatusNonFinite, res.Status)
	}
	for i, v := range res.X {
		if math.IsNaN(v) {
			t.Errorf("Parameter %d is NaN", i)
		}
	}
	if math.IsNaN(res.F) {
		t.Error("Final objective must not be NaN")
	}
	if res.NonFinite == 0 {
		t.Error("Expected NaN evaluations to be counted")
	}
}

func TestNelderMeadTrace(t *testing.T) {
	var iterations []int
	settings := DefaultSettings()
	settings.Trace = func(i int, x []float64, f float64) {
		iterations = append(iterations, i)
	}

	if _, err := NewNelderMead(settings, 1, 1).Minimize(Problem{Func: sphere}, []float64{2, 2}); err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}

	if len(iterations) == 0 {
		t.Fatal("Trace callback never called")
	}
	for i := 1; i < len(iterations); i++ {
		if iterations[i] <= iterations[i-1] {
			t.Fatalf("Trace iterations not increasing: %v", iterations[i-1:i+1])
		}
	}
	if iterations[0] != 1 {
		t.Errorf("Trace should start at iteration 1, got %d", iterations[0])
	}
}

func TestNelderMeadEmptyStart(t *testing.T) {
	if _, err := NewNelderMead(DefaultSettings(), 1, 0).Minimize(Problem{Func: sphere}, nil); err == nil {
		t.Error("Expected error for empty start")
	}
}

func TestBFGSSphere(t *testing.T) {
	res, err := NewBFGS(DefaultSettings()).Minimize(Problem{Func: sphere, Grad: sphereGrad}, []float64{3, -1, 4})
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}

	if !res.Converged {
		t.Errorf("Expected convergence, got status %s", res.Status)
	}
	if res.F > 1e-8 {
		t.Errorf("Expected cost near 0, got %g", res.F)
	}
}

func TestBFGSRequiresGradient(t *testing.T) {
	if _, err := NewBFGS(DefaultSettings()).Minimize(Problem{Func: sphere}, []float64{1}); err == nil {
		t.Error("Expected error without gradient")
	}
}

func TestChain(t *testing.T) {
	global := NewMayfly(30, 20, 7)
	local := NewNelderMead(DefaultSettings(), 0.5, 0)

	res, err := NewChain(global, local).Minimize(boxProblem(sphere, 3, -10, 10), []float64{8, -8, 8})
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}

	if !res.Converged {
		t.Errorf("Chain should take convergence from the local stage, got %s", res.Status)
	}
	if res.Iterations <= 30 {
		t.Errorf("Expected iterations from both stages, got %d", res.Iterations)
	}
	if res.F > 1e-6 {
		t.Errorf("Expected cost near 0, got %g", res.F)
	}
}

func TestChainEmpty(t *testing.T) {
	if _, err := NewChain().Minimize(Problem{Func: sphere}, []float64{1}); err == nil {
		t.Error("Expected error for empty chain")
	}
}
