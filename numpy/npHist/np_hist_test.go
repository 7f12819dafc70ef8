package npHist

import (
	"math"
	"testing"
)

func TestHistCounts(t *testing.T) {
	data := []float64{0, 0.1, 0.2, 0.9, 1.0, math.NaN()}
	bins := Hist(data, 2)
	if len(bins) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(bins))
	}
	total := bins[0].Count + bins[1].Count
	if total != 5 {
		t.Fatalf("NaN should be skipped, counted %d", total)
	}
	if bins[0].Count != 3 || bins[1].Count != 2 {
		t.Fatalf("unexpected split: %+v", bins)
	}
}

func TestHistDegenerate(t *testing.T) {
	if Hist(nil, 4) != nil {
		t.Fatal("empty input should yield nil")
	}
	bins := Hist([]float64{3, 3, 3}, 2)
	n := 0
	for _, b := range bins {
		n += b.Count
	}
	if n != 3 {
		t.Fatalf("constant data lost rows: %d", n)
	}
}
