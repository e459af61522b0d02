package core

import (
	"math"
	"testing"

	"github.com/aeroindex/aeroindex/schema"
)

// FuzzRoundHalfUp checks rounding stays within half a unit and breaks ties away from zero.
func FuzzRoundHalfUp(f *testing.F) {
	for _, seed := range []float64{0, 2.5, 3.5, -2.5, 7.27275, 1e9} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e15 {
			return
		}
		got := float64(RoundHalfUp(v))
		if math.Abs(got-v) > 0.5 {
			t.Fatalf("RoundHalfUp(%v) = %v, off by more than 0.5", v, got)
		}
		if frac := math.Abs(v - math.Trunc(v)); frac == 0.5 && math.Abs(got) < math.Abs(v) {
			t.Fatalf("RoundHalfUp(%v) = %v, tie not rounded away from zero", v, got)
		}
	})
}

// FuzzMovementRatio checks the shares always form a valid split.
func FuzzMovementRatio(f *testing.F) {
	f.Add(10000.0, 30000.0)
	f.Add(0.0, 0.0)
	f.Add(1.0, 0.0)
	f.Fuzz(func(t *testing.T, ifr, vfr float64) {
		if ifr < 0 || vfr < 0 || math.IsNaN(ifr) || math.IsNaN(vfr) || math.IsInf(ifr+vfr, 0) {
			return
		}
		ifrR, vfrR, usedDefault := MovementRatio(schema.Movements{IFR: ifr, VFR: vfr}, schema.DefaultIFRRatio)
		if math.Abs(ifrR+vfrR-1) > 1e-9 {
			t.Fatalf("ratios %v + %v do not sum to 1", ifrR, vfrR)
		}
		if ifrR < 0 || ifrR > 1 {
			t.Fatalf("IFR ratio %v out of range", ifrR)
		}
		if usedDefault != (ifr+vfr == 0) {
			t.Fatalf("usedDefault = %v for %v/%v", usedDefault, ifr, vfr)
		}
	})
}

// FuzzClassifyRisk checks the classifier is total and monotone.
func FuzzClassifyRisk(f *testing.F) {
	for _, seed := range []int{0, 20, 21, 40, 41, 55, 56} {
		f.Add(seed)
	}
	rank := map[schema.RiskLevel]int{
		schema.LowRisk: 0, schema.ModerateRisk: 1, schema.HighRisk: 2, schema.VeryHighRisk: 3,
	}
	f.Fuzz(func(t *testing.T, score int) {
		if score == math.MaxInt {
			return
		}
		a, ok := rank[ClassifyRisk(score)]
		if !ok {
			t.Fatalf("unexpected level for %d", score)
		}
		if b := rank[ClassifyRisk(score+1)]; b < a {
			t.Fatalf("classifier not monotone at %d", score)
		}
	})
}
