// Package engine exposes the split allocation engine as a set of pure
// commands over a caller-owned State. Every command is a synchronous
// function from (state, command) to (new state, status): no I/O, no hidden
// globals, no retained state. The caller owns the snapshot, applies
// commands in order, and persists or renders whatever comes back.
package engine

import (
	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/calculator"
	"github.com/tallyhq/splitbill/money"
)

// State is the engine's working snapshot: the bill being allocated, the
// participant roster, and the user issuing item select/deselect commands.
// States are values; commands return modified copies and never touch the
// input.
type State struct {
	Bill   bill.Bill
	Roster []bill.Participant

	// ActorID is the participant behind SelectItem/DeselectItem.
	ActorID string

	// EqualLookTolerance overrides calculator.EqualLookTolerance when
	// positive. It controls when a join against custom splits re-seeds
	// equally instead of demanding manual resolution.
	EqualLookTolerance float64
}

// Context identifies an allocation context: a single item, or the
// whole-bill simple amount when ItemID is empty.
type Context struct {
	ItemID string
}

// BillContext addresses the whole-bill simple amount.
var BillContext = Context{}

// ItemContext addresses one item.
func ItemContext(itemID string) Context {
	return Context{ItemID: itemID}
}

// Value is one participant's explicitly entered figure. Exactly one field
// should be set; which one must match the context's active mode.
type Value struct {
	Amount     *money.Money
	Percentage *float64
	Shares     *float64
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Bill = s.Bill.Clone()
	out.Roster = make([]bill.Participant, len(s.Roster))
	copy(out.Roster, s.Roster)
	return out
}

// Validity returns the confirmability predicate for a context.
func (s State) Validity(ctx Context) bill.Status {
	target, ok := s.resolve(ctx)
	if !ok {
		return bill.Invalid(bill.ReasonUnknownContext, "no such item: "+ctx.ItemID)
	}
	return calculator.Valid(*target.mode, *target.splits, target.total)
}

// Result aggregates the current snapshot into per-participant shares.
func (s State) Result() (bill.AllocationResult, error) {
	return calculator.Aggregate(s.Bill)
}

func (s State) tolerance() float64 {
	if s.EqualLookTolerance > 0 {
		return s.EqualLookTolerance
	}
	return calculator.EqualLookTolerance
}

// resolved is a located allocation context; mode and splits point into the
// state, so resolve is only called on freshly cloned states.
type resolved struct {
	total  money.Money
	mode   *bill.AllocationMode
	splits *[]bill.ItemSplit
}

func (s *State) resolve(ctx Context) (resolved, bool) {
	if ctx.ItemID == "" {
		return resolved{total: s.Bill.Amount, mode: &s.Bill.Mode, splits: &s.Bill.Splits}, true
	}
	it := s.Bill.Item(ctx.ItemID)
	if it == nil {
		return resolved{}, false
	}
	return resolved{total: it.NetPrice(), mode: &it.Mode, splits: &it.Splits}, true
}

// members returns the context's current participant ids in split order,
// falling back to the selected roster when the context is empty.
func (s *State) members(splits []bill.ItemSplit) []string {
	if len(splits) > 0 {
		ids := make([]string, len(splits))
		for i, sp := range splits {
			ids[i] = sp.UserID
		}
		return ids
	}
	return bill.SelectedIDs(s.Roster)
}
