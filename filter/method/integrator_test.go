package method

import (
	"math"
	"testing"
)

// TestIntegratorLeftEdge verifies the held value is integrated, not the new
// sample: the new value only becomes effective from now on.
func TestIntegratorLeftEdge(t *testing.T) {
	f := NewIntegrator()

	got := f.Step(50, 9999, 10)
	if got != 500 {
		t.Errorf("Step(held=50, elapsed=10) = %v, want 500", got)
	}
}

// TestIntegratorGranularityInvariance verifies that subdividing an interval
// into more ticks does not change the accumulated total.
func TestIntegratorGranularityInvariance(t *testing.T) {
	coarse := NewIntegrator()
	coarse.Step(50, 50, 60)

	fine := NewIntegrator()
	for i := 0; i < 6; i++ {
		fine.Step(50, 50, 10)
	}

	finer := NewIntegrator()
	for i := 0; i < 6000; i++ {
		finer.Step(50, 50, 0.01)
	}

	if coarse.Output() != fine.Output() {
		t.Errorf("coarse %v vs fine %v, want equal", coarse.Output(), fine.Output())
	}

	if math.Abs(coarse.Output()-finer.Output()) > 1e-7 {
		t.Errorf("coarse %v vs finer %v, want equal within float tolerance", coarse.Output(), finer.Output())
	}
}

// TestIntegratorFlush verifies each report covers only the interval since
// the previous one.
func TestIntegratorFlush(t *testing.T) {
	f := NewIntegrator()

	f.Step(50, 50, 10)
	if f.Output() != 500 {
		t.Fatalf("Output() = %v, want 500", f.Output())
	}

	f.Flush()

	if f.Output() != 0 {
		t.Errorf("Output() after Flush = %v, want 0", f.Output())
	}

	if got := f.Step(50, 50, 4); got != 200 {
		t.Errorf("Step() after Flush = %v, want a fresh 200", got)
	}
}

// TestIntegratorZeroElapsedNoOp verifies elapsed == 0 changes nothing.
func TestIntegratorZeroElapsedNoOp(t *testing.T) {
	f := NewIntegrator()
	f.Step(50, 50, 10)

	if got := f.Step(70, 70, 0); got != 500 {
		t.Errorf("Step(elapsed=0) = %v, want unchanged 500", got)
	}
}

func TestIntegratorKind(t *testing.T) {
	if got := NewIntegrator().Kind(); got != KindIntegrator {
		t.Errorf("Kind() = %v, want integrator", got)
	}
}
