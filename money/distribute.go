package money

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrInvalidWeights is returned when a nonzero total must be distributed but
// no positive weight exists to carry it. Callers recover by supplying at
// least one positive weight.
var ErrInvalidWeights = errors.New("distribution weights must contain a positive entry")

// Distribute splits total across len(weights) entries proportionally to the
// weights, without losing or gaining a cent. Each entry gets its
// weight-proportional share rounded down; the leftover cents (at most
// len(weights)-1) are handed out one each in descending order of fractional
// remainder, ties broken by input order, so the result is deterministic.
//
// A zero total yields all zeros for any weights. Negative weights, or all-zero
// weights against a nonzero total, yield ErrInvalidWeights. Negative totals
// distribute symmetrically to their absolute value.
func Distribute(total Money, weights []float64) ([]Money, error) {
	if total < 0 {
		shares, err := Distribute(-total, weights)
		if err != nil {
			return nil, err
		}
		for i := range shares {
			shares[i] = -shares[i]
		}
		return shares, nil
	}

	sum := decimal.Zero
	for _, w := range weights {
		if w < 0 {
			return nil, ErrInvalidWeights
		}
		sum = sum.Add(decimal.NewFromFloat(w))
	}

	if sum.IsZero() {
		if total != 0 {
			return nil, ErrInvalidWeights
		}
		return make([]Money, len(weights)), nil
	}

	shares := make([]Money, len(weights))
	remainders := make([]decimal.Decimal, len(weights))
	totalDec := decimal.NewFromInt(int64(total))

	var assigned Money
	for i, w := range weights {
		exact := totalDec.Mul(decimal.NewFromFloat(w)).Div(sum)
		floor := exact.Floor()
		shares[i] = Money(floor.IntPart())
		remainders[i] = exact.Sub(floor)
		assigned += shares[i]
	}

	// Hand out the leftover cents by largest fractional remainder,
	// falling back to input order on ties.
	leftover := total - assigned
	if leftover > 0 {
		order := make([]int, len(weights))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return remainders[order[a]].Cmp(remainders[order[b]]) > 0
		})
		for i := 0; leftover > 0; i++ {
			shares[order[i%len(order)]]++
			leftover--
		}
	}

	return shares, nil
}

// Even distributes total equally across n entries, leftover cents to the
// earliest entries. It is Distribute with unit weights.
func Even(total Money, n int) ([]Money, error) {
	if n <= 0 {
		if total == 0 {
			return nil, nil
		}
		return nil, ErrInvalidWeights
	}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}
	return Distribute(total, weights)
}
