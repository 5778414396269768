package split

import (
	"fmt"
	"math"

	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/money"
)

// Percentage uses per-participant percentages summing to 100; amounts are
// derived through the rounding allocator so cents are conserved.
type Percentage struct{}

// Mode returns the mode identifier.
func (s *Percentage) Mode() bill.AllocationMode {
	return bill.ModePercentage
}

// Validate requires a percentage in [0, 100] for every participant and a
// sum within PercentSumTolerance of 100.
func (s *Percentage) Validate(total money.Money, inputs []Input) error {
	if total < 0 {
		return ErrNegativeTotal
	}
	if len(inputs) == 0 {
		return ErrNoParticipants
	}

	var sum float64
	for _, in := range inputs {
		if in.Percentage == nil {
			return ErrMissingPercentage
		}
		if *in.Percentage < 0 || *in.Percentage > 100 {
			return ErrPercentageOutOfRange
		}
		sum += *in.Percentage
	}
	if math.Abs(sum-100) > PercentSumTolerance {
		return fmt.Errorf("%w: percentages sum to %.2f", ErrUnbalanced, sum)
	}
	return nil
}

// Apply distributes the total using the percentages as weights and keeps
// the declared percentages on the splits.
func (s *Percentage) Apply(total money.Money, inputs []Input) ([]bill.ItemSplit, error) {
	if err := s.Validate(total, inputs); err != nil {
		return nil, err
	}

	weights := make([]float64, len(inputs))
	for i, in := range inputs {
		weights[i] = *in.Percentage
	}

	splits, err := splitsFromWeights(total, inputs, weights)
	if err != nil {
		return nil, err
	}
	// Keep the user's declared percentages rather than the normalized
	// ones; they agree within the validation tolerance.
	for i, in := range inputs {
		splits[i].Percentage = *in.Percentage
	}
	return splits, nil
}
