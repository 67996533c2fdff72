package pricing_test

import (
	"testing"

	"github.com/alex-user-go/travelsearch/internal/providers/pricing"
)

func TestRandom_Estimate(t *testing.T) {
	var r pricing.Random
	for i := 0; i < 1000; i++ {
		got := r.Estimate(800, 1200)
		if got < 800 || got >= 2000 {
			t.Fatalf("Estimate(800, 1200) = %d, want value in [800, 2000)", got)
		}
	}
	if got := r.Estimate(500, 0); got != 500 {
		t.Errorf("Estimate with zero spread = %d, want 500", got)
	}
}

func TestConstant_Estimate(t *testing.T) {
	if got := pricing.Constant(1000).Estimate(800, 1200); got != 1000 {
		t.Errorf("Constant(1000).Estimate = %d, want 1000", got)
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		base       int
		multiplier float64
		want       int
	}{
		{1000, 1.0, 1000},
		{1000, 8.0, 8000},
		{1000, 0.3, 300},
		{1234, 2.5, 3085},
		{999, 2.8, 2797},
	}
	for _, tt := range tests {
		if got := pricing.Scale(tt.base, tt.multiplier); got != tt.want {
			t.Errorf("Scale(%d, %v) = %d, want %d", tt.base, tt.multiplier, got, tt.want)
		}
	}
}
