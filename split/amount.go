package split

import (
	"fmt"

	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/money"
)

// Amount uses explicit per-participant amounts. The declarations must sum
// to the context total; an unbalanced declaration is rejected, never
// silently coerced.
type Amount struct{}

// Mode returns the mode identifier.
func (s *Amount) Mode() bill.AllocationMode {
	return bill.ModeAmount
}

// Validate requires an amount for every participant and an exact sum.
// The half-cent tolerance from the contract collapses to exact equality in
// integer minor units.
func (s *Amount) Validate(total money.Money, inputs []Input) error {
	if total < 0 {
		return ErrNegativeTotal
	}
	if len(inputs) == 0 {
		return ErrNoParticipants
	}

	var sum money.Money
	for _, in := range inputs {
		if in.Amount == nil {
			return ErrMissingAmount
		}
		if *in.Amount < 0 {
			return ErrNegativeAmount
		}
		sum += *in.Amount
	}
	if sum != total {
		return fmt.Errorf("%w: declared %s, total %s", ErrUnbalanced, sum, total)
	}
	return nil
}

// Apply passes the declared amounts through with derived percentages.
func (s *Amount) Apply(total money.Money, inputs []Input) ([]bill.ItemSplit, error) {
	if err := s.Validate(total, inputs); err != nil {
		return nil, err
	}

	splits := make([]bill.ItemSplit, len(inputs))
	for i, in := range inputs {
		splits[i] = bill.ItemSplit{
			UserID:     in.UserID,
			Amount:     *in.Amount,
			Percentage: in.Amount.PercentOf(total),
		}
	}
	return splits, nil
}
