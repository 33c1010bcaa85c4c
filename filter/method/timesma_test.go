package method

import (
	"math"
	"testing"
)

// TestNewTimeSMA verifies constructor validation.
func TestNewTimeSMA(t *testing.T) {
	tests := []struct {
		name    string
		window  float64
		wantErr bool
	}{
		{"valid 60", 60, false},
		{"invalid zero", 0, true},
		{"invalid negative", -1, true},
		{"invalid NaN", math.NaN(), true},
		{"invalid Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewTimeSMA(tt.window)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTimeSMA() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && f == nil {
				t.Error("NewTimeSMA() returned nil without error")
			}
		})
	}
}

// TestTimeSMASingleSample verifies a lone retained sample is reported
// directly.
func TestTimeSMASingleSample(t *testing.T) {
	f, _ := NewTimeSMA(30)

	if got := f.Step(0, 42, 0); got != 42 {
		t.Errorf("first Step() = %v, want 42", got)
	}

	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}
}

// TestTimeSMASplitWindow verifies the hand-computed case where the trailing
// window cuts through the first segment: value 10 held for 20 s, then 20
// held for 20 s, window 30 s. The window [10, 40] sees 10 s of the first
// value and 20 s of the second.
func TestTimeSMASplitWindow(t *testing.T) {
	f, _ := NewTimeSMA(30)

	f.Step(0, 10, 0)
	f.Step(10, 20, 20)
	got := f.Step(20, 20, 20)

	want := (10.0*10 + 20.0*20) / 30.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Step() = %v, want %v", got, want)
	}
}

// TestTimeSMAPartialWindow verifies that before the window has filled, the
// denominator is the actual elapsed time rather than the nominal window.
func TestTimeSMAPartialWindow(t *testing.T) {
	f, _ := NewTimeSMA(60)

	f.Step(0, 10, 0)
	f.Step(10, 20, 20)
	got := f.Step(20, 20, 20)

	// 40 s elapsed in total: 20 s of value 10, 20 s of value 20.
	want := (10.0*20 + 20.0*20) / 40.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Step() = %v, want %v", got, want)
	}
}

// TestTimeSMATrim verifies samples that fell fully outside the window are
// dropped while the straddling entry stays.
func TestTimeSMATrim(t *testing.T) {
	f, _ := NewTimeSMA(30)

	f.Step(0, 1, 0)
	for i := 0; i < 50; i++ {
		f.Step(1, 1, 10)
	}

	// 30 s window over 10 s spacing: three inner samples, one straddler,
	// one zero-width newest.
	if f.Len() > 5 {
		t.Errorf("Len() = %d, want bounded by window/spacing", f.Len())
	}

	if f.Output() != 1 {
		t.Errorf("Output() = %v, want 1", f.Output())
	}
}

// TestTimeSMAGrowth verifies the ring grows past its initial capacity
// without losing order.
func TestTimeSMAGrowth(t *testing.T) {
	f, _ := NewTimeSMA(10000)

	f.Step(0, 5, 0)
	for i := 0; i < 40; i++ {
		f.Step(5, 5, 1)
	}

	if f.Len() != 41 {
		t.Errorf("Len() = %d, want 41", f.Len())
	}

	if f.Output() != 5 {
		t.Errorf("Output() = %v, want 5", f.Output())
	}
}

// TestTimeSMAZeroElapsedNoOp verifies elapsed == 0 appends nothing once the
// first sample exists.
func TestTimeSMAZeroElapsedNoOp(t *testing.T) {
	f, _ := NewTimeSMA(30)

	f.Step(0, 10, 0)
	f.Step(10, 30, 10)

	before := f.Output()
	lenBefore := f.Len()

	if got := f.Step(30, 99, 0); got != before {
		t.Errorf("Step(elapsed=0) = %v, want unchanged %v", got, before)
	}

	if f.Len() != lenBefore {
		t.Errorf("Len() = %d, want unchanged %d", f.Len(), lenBefore)
	}
}

// TestTimeSMAStepHoldWeighting verifies the newest sample carries no weight
// until the next trigger: it has held for zero seconds so far.
func TestTimeSMAStepHoldWeighting(t *testing.T) {
	f, _ := NewTimeSMA(100)

	f.Step(0, 10, 0)
	got := f.Step(10, 50, 10)

	// Only the first value has held any time yet.
	if got != 10 {
		t.Errorf("Step() = %v, want 10", got)
	}
}

// TestTimeSMASeed verifies a seeded value enters the window at the start of
// the time axis and carries its hold time, and that seeding after the first
// sample is a no-op.
func TestTimeSMASeed(t *testing.T) {
	f, _ := NewTimeSMA(60)

	f.Seed(10)

	if f.Len() != 1 || f.Output() != 10 {
		t.Fatalf("after Seed: Len() = %d, Output() = %v, want 1 and 10", f.Len(), f.Output())
	}

	if got := f.Step(10, 20, 30); got != 10 {
		t.Errorf("Step() = %v, want 10 (seed held 30 s, new sample none)", got)
	}

	f.Seed(999)

	if f.Len() != 2 {
		t.Errorf("Len() after late Seed = %d, want unchanged 2", f.Len())
	}

	if got := f.Step(20, 20, 30); math.Abs(got-15) > 1e-12 {
		t.Errorf("Step() = %v, want 15 (10 and 20 held 30 s each)", got)
	}
}

func TestTimeSMAReset(t *testing.T) {
	f, _ := NewTimeSMA(30)
	f.Step(0, 10, 0)
	f.Step(10, 20, 10)

	f.Reset()

	if f.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", f.Len())
	}

	if got := f.Step(0, 3, 0); got != 3 {
		t.Errorf("Step() after Reset = %v, want re-initialization to 3", got)
	}
}
