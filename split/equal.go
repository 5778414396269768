package split

import (
	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/money"
)

// Equal divides the total evenly among the selected participants.
// Unselected participants keep a zero split so membership survives mode
// switches.
type Equal struct{}

// Mode returns the mode identifier.
func (s *Equal) Mode() bill.AllocationMode {
	return bill.ModeEqual
}

// Validate requires a non-negative total and at least one selected
// participant.
func (s *Equal) Validate(total money.Money, inputs []Input) error {
	if total < 0 {
		return ErrNegativeTotal
	}
	for _, in := range inputs {
		if in.Selected {
			return nil
		}
	}
	return ErrNoParticipants
}

// Apply gives every selected participant an equal weight; leftover cents go
// to the earliest selected inputs.
func (s *Equal) Apply(total money.Money, inputs []Input) ([]bill.ItemSplit, error) {
	if err := s.Validate(total, inputs); err != nil {
		return nil, err
	}

	weights := make([]float64, len(inputs))
	for i, in := range inputs {
		if in.Selected {
			weights[i] = 1
		}
	}
	return splitsFromWeights(total, inputs, weights)
}
