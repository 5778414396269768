// Package calculator implements the computational core of the split
// allocation engine: redistribution of shares as participants and locks
// change, explosion of multi-quantity items into unit items, and
// aggregation of per-item splits into final per-person totals.
//
// Every function is pure: inputs are never mutated, outputs are fresh
// slices, and results depend only on the arguments.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/money"
	"github.com/tallyhq/splitbill/split"
)

// EqualLookTolerance is the default tolerance, in percentage points, under
// which an existing custom allocation still "looks equal" and a joining
// participant triggers an implicit equal re-seed instead of manual
// resolution. Tunable per engine state; not a hard guarantee.
const EqualLookTolerance = 1.0

// Uniform reports whether every split's percentage matches every other's
// within tolerance percentage points. An empty or single-entry set is
// uniform. Locked entries are never uniform: a lock is explicit custom data.
func Uniform(splits []bill.ItemSplit, tolerance float64) bool {
	if len(splits) == 0 {
		return true
	}
	min, max := splits[0].Percentage, splits[0].Percentage
	for _, s := range splits {
		if s.Locked {
			return false
		}
		if s.Percentage < min {
			min = s.Percentage
		}
		if s.Percentage > max {
			max = s.Percentage
		}
	}
	return max-min <= tolerance
}

// Join adds userID to a context's allocation.
//
// In Equal mode the split is simply recomputed over the larger set. In the
// custom modes the joiner is folded in with an equal re-seed only when the
// existing splits look uniform within tolerance; otherwise the splits are
// returned untouched with a NeedsResolution status so the caller can present
// a split editor instead of guessing at an implicit rebalance.
func Join(mode bill.AllocationMode, splits []bill.ItemSplit, total money.Money, userID string, tolerance float64) ([]bill.ItemSplit, bill.Status) {
	for _, s := range splits {
		if s.UserID == userID {
			return copySplits(splits), bill.OK()
		}
	}

	if mode != bill.ModeEqual && !Uniform(splits, tolerance) {
		return copySplits(splits), bill.Invalid(bill.ReasonNeedsResolution,
			fmt.Sprintf("item has custom splits; resolve %s manually", userID))
	}

	ids := make([]string, 0, len(splits)+1)
	for _, s := range splits {
		ids = append(ids, s.UserID)
	}
	ids = append(ids, userID)

	return seedEqual(mode, ids, total)
}

// Leave removes userID from a context's allocation and hands their share to
// the remaining unlocked participants in proportion to their existing
// shares. When every remaining unlocked share is zero the share is spread
// equally instead. The last participant leaving clears the allocation.
func Leave(splits []bill.ItemSplit, total money.Money, userID string) ([]bill.ItemSplit, bill.Status) {
	idx := -1
	for i, s := range splits {
		if s.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return copySplits(splits), bill.Invalid(bill.ReasonUnknownContext,
			fmt.Sprintf("%s has no split on this item", userID))
	}

	remaining := make([]bill.ItemSplit, 0, len(splits)-1)
	var declared money.Money
	for i, s := range splits {
		declared += s.Amount
		if i != idx {
			remaining = append(remaining, s)
		}
	}
	if len(remaining) == 0 {
		return nil, bill.OK()
	}

	out, err := rebalance(remaining, declared, total)
	if err != nil {
		return copySplits(splits), bill.Invalid(bill.ReasonUnbalanced, err.Error())
	}
	return out, bill.OK()
}

// LockAmount pins userID's amount to an explicit value (clamped to
// [0, total]) and redistributes the remainder over the other unlocked
// participants proportionally to their prior weights. Locked participants
// keep their values exactly.
func LockAmount(splits []bill.ItemSplit, total money.Money, userID string, amount money.Money) ([]bill.ItemSplit, bill.Status) {
	if amount < 0 {
		amount = 0
	}
	if amount > total {
		amount = total
	}
	return lock(splits, total, userID, amount, nil)
}

// LockPercentage is LockAmount for a percentage value (clamped to
// [0, 100]); the pinned amount is derived from the percentage exactly once
// and the declared percentage is kept on the split.
func LockPercentage(splits []bill.ItemSplit, total money.Money, userID string, pct float64) ([]bill.ItemSplit, bill.Status) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	amount := money.Money(decimal.NewFromInt(int64(total)).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(0).IntPart())
	return lock(splits, total, userID, amount, &pct)
}

// ResetToEqual clears all locks and reseeds the context equally over the
// given participants, in order.
func ResetToEqual(mode bill.AllocationMode, userIDs []string, total money.Money) ([]bill.ItemSplit, bill.Status) {
	if len(userIDs) == 0 {
		return nil, bill.Invalid(bill.ReasonEmptyParticipants, "no participants to reset")
	}
	return seedEqual(mode, userIDs, total)
}

// Valid is the confirmability predicate for a context: Equal mode needs at
// least one participant, the custom modes need amounts summing to the total
// (the half-cent tolerance collapses to exactness in integer cents).
func Valid(mode bill.AllocationMode, splits []bill.ItemSplit, total money.Money) bill.Status {
	if mode == bill.ModeEqual {
		if len(splits) == 0 {
			return bill.Invalid(bill.ReasonEmptyParticipants, "select at least one participant")
		}
		return bill.OK()
	}

	var sum money.Money
	for _, s := range splits {
		sum += s.Amount
	}
	if sum != total {
		return bill.Invalid(bill.ReasonUnbalanced,
			fmt.Sprintf("splits sum to %s, total is %s", sum, total))
	}
	return bill.OK()
}

func lock(splits []bill.ItemSplit, total money.Money, userID string, amount money.Money, declaredPct *float64) ([]bill.ItemSplit, bill.Status) {
	out := copySplits(splits)
	target := -1
	for i := range out {
		if out[i].UserID == userID {
			target = i
			break
		}
	}
	if target < 0 {
		out = append(out, bill.ItemSplit{UserID: userID})
		target = len(out) - 1
	}

	out[target].Amount = amount
	out[target].Locked = true
	if declaredPct != nil {
		out[target].Percentage = *declaredPct
	} else {
		out[target].Percentage = amount.PercentOf(total)
	}

	// Remainder over the unlocked participants, weighted by their prior
	// amounts. Over-locked states (Σ locked > total) leave the unlocked
	// at zero and are surfaced by Valid, not coerced here.
	var lockedSum money.Money
	var unlocked []int
	var weights []float64
	allZero := true
	for i, s := range out {
		if s.Locked {
			lockedSum += s.Amount
			continue
		}
		unlocked = append(unlocked, i)
		weights = append(weights, float64(s.Amount))
		if s.Amount != 0 {
			allZero = false
		}
	}

	if len(unlocked) > 0 {
		remainder := total - lockedSum
		if remainder < 0 {
			remainder = 0
		}
		if allZero {
			for i := range weights {
				weights[i] = 1
			}
		}
		shares, err := money.Distribute(remainder, weights)
		if err != nil {
			return copySplits(splits), bill.Invalid(bill.ReasonUnbalanced, err.Error())
		}
		for j, i := range unlocked {
			out[i].Amount = shares[j]
			out[i].Percentage = shares[j].PercentOf(total)
		}
	}

	return out, bill.OK()
}

// rebalance redistributes declared across the given splits: locked entries
// keep their exact amounts, unlocked entries share the rest by their prior
// relative amounts, equally when all were zero.
func rebalance(splits []bill.ItemSplit, declared, total money.Money) ([]bill.ItemSplit, error) {
	out := copySplits(splits)

	var lockedSum money.Money
	var unlocked []int
	var weights []float64
	allZero := true
	for i, s := range out {
		if s.Locked {
			lockedSum += s.Amount
			continue
		}
		unlocked = append(unlocked, i)
		weights = append(weights, float64(s.Amount))
		if s.Amount != 0 {
			allZero = false
		}
	}

	if len(unlocked) == 0 {
		return out, nil
	}

	remainder := declared - lockedSum
	if remainder < 0 {
		remainder = 0
	}
	if allZero {
		for i := range weights {
			weights[i] = 1
		}
	}
	shares, err := money.Distribute(remainder, weights)
	if err != nil {
		return nil, err
	}
	for j, i := range unlocked {
		out[i].Amount = shares[j]
		out[i].Percentage = shares[j].PercentOf(total)
	}
	return out, nil
}

func seedEqual(mode bill.AllocationMode, userIDs []string, total money.Money) ([]bill.ItemSplit, bill.Status) {
	strategy := &split.Equal{}
	splits, err := strategy.Apply(total, split.EqualInputs(userIDs))
	if err != nil {
		return nil, bill.Invalid(bill.ReasonEmptyParticipants, err.Error())
	}
	if mode == bill.ModeShares {
		for i := range splits {
			splits[i].Shares = 1
		}
	}
	return splits, bill.OK()
}

func copySplits(splits []bill.ItemSplit) []bill.ItemSplit {
	if splits == nil {
		return nil
	}
	out := make([]bill.ItemSplit, len(splits))
	copy(out, splits)
	return out
}
