package core

import (
	"math"
	"testing"
)

func TestRatioValue(t *testing.T) {
	if !math.IsNaN(ZeroRatio.Value()) {
		t.Fatal("0:0 is not NaN")
	}
	if !math.IsInf(NewRatio(3, 0).Value(), 1) {
		t.Fatal("3:0 is not +Inf")
	}
	if NewRatio(0, 3).Value() != 0 {
		t.Fatal("0:3 is not 0")
	}
	if NewRatio(3, 2).Value() != 1.5 {
		t.Fatal("3:2 is not 1.5")
	}
}

func TestSumRatios(t *testing.T) {
	if SumRatios() != ZeroRatio {
		t.Fatal("the empty sum is not zero")
	}

	a, b, c := NewRatio(1, 2), NewRatio(3, 4), NewRatio(5, 6)
	if SumRatios(a, b, c) != NewRatio(9, 12) {
		t.Fatal("the ratios were not summed componentwise")
	}
	if SumRatios(a, b, c) != SumRatios(c, a, b) {
		t.Fatal("the sum depends on the order")
	}
	if a.Add(b).Add(c) != a.Add(b.Add(c)) {
		t.Fatal("the sum is not associative")
	}

	if a.Invert() != NewRatio(2, 1) {
		t.Fatal("the ratio was not inverted")
	}
	if a.String() != "1:2" {
		t.Fatal("unexpected string representation")
	}
}

func TestCompareMetric(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	cases := []struct {
		a, b     float64
		expected int
	}{
		{nan, nan, 0},
		{nan, 0, -1},
		{0, nan, 1},
		{nan, inf, -1},
		{inf, 1e9, 1},
		{inf, inf, 0},
		{0.5, 1.5, -1},
		{1, 1, 0},
	}

	for _, c := range cases {
		if compareMetric(c.a, c.b) != c.expected {
			t.Fatalf("compareMetric(%v, %v) is not %d", c.a, c.b, c.expected)
		}
	}
}
