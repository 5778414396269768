// Package split implements the four allocation mode strategies: Equal,
// Amount, Percentage, and Shares. Every strategy normalizes its inputs to
// bill.ItemSplit values with both amount and percentage populated, and every
// derived amount goes through money.Distribute so the outputs sum to the
// context total exactly.
package split

import (
	"errors"
	"fmt"

	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/money"
)

// PercentSumTolerance is how far Σ percentages may drift from 100 before a
// Percentage-mode allocation is rejected as unbalanced.
const PercentSumTolerance = 0.5

var (
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrNegativeTotal        = errors.New("total cannot be negative")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrMissingAmount        = errors.New("amount required for all participants")
	ErrMissingPercentage    = errors.New("percentage required for all participants")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrNonPositiveShares    = errors.New("share counts must be positive")

	// ErrUnbalanced covers Amount and Percentage declarations that do not
	// sum to the expected total. The engine surfaces it as a validation
	// state so the UI blocks confirmation; it is never auto-corrected.
	ErrUnbalanced = errors.New("declared values do not sum to the total")
)

// Input is one participant's declaration for a strategy. The optional
// fields are only consulted by the mode that needs them.
type Input struct {
	UserID     string
	Selected   bool     // Equal mode membership
	Amount     *money.Money
	Percentage *float64
	Shares     *float64 // default 1 when nil in Shares mode
}

// Strategy is the common interface all allocation modes implement.
type Strategy interface {
	// Mode returns the mode identifier this strategy implements.
	Mode() bill.AllocationMode

	// Validate checks the inputs without producing splits.
	Validate(total money.Money, inputs []Input) error

	// Apply computes one split per input, in input order, with amount
	// and percentage both populated and amounts summing to total.
	Apply(total money.Money, inputs []Input) ([]bill.ItemSplit, error)
}

// New returns the strategy for the given mode.
func New(mode bill.AllocationMode) (Strategy, error) {
	switch mode {
	case bill.ModeEqual:
		return &Equal{}, nil
	case bill.ModeAmount:
		return &Amount{}, nil
	case bill.ModePercentage:
		return &Percentage{}, nil
	case bill.ModeShares:
		return &Shares{}, nil
	default:
		return nil, fmt.Errorf("unknown allocation mode: %s", mode)
	}
}

// EqualInputs builds Equal-mode inputs with every listed user selected.
// Used to seed a context when it first gets participants, and when a mode
// switch needs an equal starting point.
func EqualInputs(userIDs []string) []Input {
	inputs := make([]Input, len(userIDs))
	for i, id := range userIDs {
		inputs[i] = Input{UserID: id, Selected: true}
	}
	return inputs
}

// splitsFromWeights distributes total over the weights and pairs each share
// with its percentage of the total.
func splitsFromWeights(total money.Money, inputs []Input, weights []float64) ([]bill.ItemSplit, error) {
	amounts, err := money.Distribute(total, weights)
	if err != nil {
		return nil, err
	}

	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}

	splits := make([]bill.ItemSplit, len(inputs))
	for i, in := range inputs {
		pct := 0.0
		if weightSum > 0 {
			pct = weights[i] / weightSum * 100
		}
		splits[i] = bill.ItemSplit{
			UserID:     in.UserID,
			Amount:     amounts[i],
			Percentage: pct,
		}
	}
	return splits, nil
}
