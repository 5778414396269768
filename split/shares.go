package split

import (
	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/money"
)

// Shares divides the total by positive share counts, one share per
// participant by default (e.g. 2 shares for a couple paying as one).
type Shares struct{}

// Mode returns the mode identifier.
func (s *Shares) Mode() bill.AllocationMode {
	return bill.ModeShares
}

// Validate requires every declared share count to be positive.
func (s *Shares) Validate(total money.Money, inputs []Input) error {
	if total < 0 {
		return ErrNegativeTotal
	}
	if len(inputs) == 0 {
		return ErrNoParticipants
	}
	for _, in := range inputs {
		if in.Shares != nil && *in.Shares <= 0 {
			return ErrNonPositiveShares
		}
	}
	return nil
}

// Apply distributes the total proportionally to the share counts and
// records both the counts and the derived percentages.
func (s *Shares) Apply(total money.Money, inputs []Input) ([]bill.ItemSplit, error) {
	if err := s.Validate(total, inputs); err != nil {
		return nil, err
	}

	weights := make([]float64, len(inputs))
	for i, in := range inputs {
		weights[i] = 1
		if in.Shares != nil {
			weights[i] = *in.Shares
		}
	}

	splits, err := splitsFromWeights(total, inputs, weights)
	if err != nil {
		return nil, err
	}
	for i := range splits {
		splits[i].Shares = weights[i]
	}
	return splits, nil
}
