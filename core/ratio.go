package core

import (
	"cmp"
	"fmt"
	"math"
)

// A Ratio is a won/lost pair, e.g. games won against
// games lost or scored points against conceded points.
type Ratio struct {
	Won  int `json:"won"`
	Lost int `json:"lost"`
}

var ZeroRatio = Ratio{}

func NewRatio(won, lost int) Ratio {
	return Ratio{Won: won, Lost: lost}
}

// Returns Won / Lost with float semantics.
//
// 0/0 is NaN and n/0 is +Inf for n > 0.
func (r Ratio) Value() float64 {
	return float64(r.Won) / float64(r.Lost)
}

func (r Ratio) Add(other Ratio) Ratio {
	return Ratio{Won: r.Won + other.Won, Lost: r.Lost + other.Lost}
}

// Returns the ratio from the opponent's perspective
func (r Ratio) Invert() Ratio {
	return Ratio{Won: r.Lost, Lost: r.Won}
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Won, r.Lost)
}

// Sums the ratios componentwise. An empty call yields ZeroRatio.
func SumRatios(ratios ...Ratio) Ratio {
	sum := ZeroRatio
	for _, r := range ratios {
		sum = sum.Add(r)
	}
	return sum
}

// Compares two metric values in ascending order with
// NaN being the smallest value. Unlike cmp.Compare on its own
// this is documented to treat two NaNs as equal which the
// grouping of cohorts relies on.
func compareMetric(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	}
	return cmp.Compare(a, b)
}
