package opt

import (
	"math"
	"testing"
)

// Sphere function: f(x) = sum(x_i^2), minimum at origin
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func boxProblem(fn func([]float64) float64, dim int, lo, hi float64) Problem {
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = lo
		upper[i] = hi
	}
	return Problem{Func: fn, Lower: lower, Upper: upper}
}

func TestMayflyAdapterOnSphere(t *testing.T) {
	optimizer := NewMayfly(100, 20, 42) // maxIters, popSize, seed

	res, err := optimizer.Minimize(boxProblem(sphere, 3, -10, 10), []float64{5, 5, 5})
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}

	if len(res.X) != 3 {
		t.Fatalf("Expected 3 parameters, got %d", len(res.X))
	}

	// Should converge close to zero
	if res.F > 0.1 {
		t.Errorf("Expected cost near 0, got %f", res.F)
	}

	for i, v := range res.X {
		if math.Abs(v) > 1.0 {
			t.Errorf("Parameter %d = %f, expected near 0", i, v)
		}
	}

	if res.Converged {
		t.Error("Mayfly runs a fixed budget and should not report convergence")
	}
	if res.Iterations != 100 {
		t.Errorf("Expected 100 iterations, got %d", res.Iterations)
	}
}

func TestMayflyAdapterDeterministic(t *testing.T) {
	p := boxProblem(sphere, 2, -5, 5)
	start := []float64{1, 1}

	// Run twice with same seed (popSize must be >=20 for mayfly v0.1.0)
	res1, err := NewMayfly(50, 20, 123).Minimize(p, start)
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	res2, err := NewMayfly(50, 20, 123).Minimize(p, start)
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}

	if res1.F != res2.F {
		t.Errorf("Non-deterministic: cost1=%f, cost2=%f", res1.F, res2.F)
	}
}

func TestMayflyAdapterRequiresBounds(t *testing.T) {
	_, err := NewMayfly(10, 20, 1).Minimize(Problem{Func: sphere}, []float64{1, 2})
	if err == nil {
		t.Error("Expected error when bounds are missing")
	}
}
