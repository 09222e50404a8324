package confidence

import (
	"math"
	"testing"
)

func TestAggregate(t *testing.T) {
	if got := Aggregate(nil); got != 0 {
		t.Errorf("Aggregate(nil) = %v, want 0", got)
	}
	if got := Aggregate([]float64{0.9}); got != 0.9 {
		t.Errorf("single score = %v, want 0.9", got)
	}
	// One zero element sinks the whole extraction.
	if got := Aggregate([]float64{0.9, 0.9, 0}); got != 0 {
		t.Errorf("zero element = %v, want 0", got)
	}

	got := Aggregate([]float64{0.8, 0.2})
	want := math.Sqrt(0.8 * 0.2)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("geometric mean = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{-0.2, 0},
		{1, 1},
		{85, 0.85},
		{100, 1},
		{250, 1},
	}
	for _, tc := range cases {
		if got := Clamp(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
