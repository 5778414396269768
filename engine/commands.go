package engine

import (
	"fmt"
	"log/slog"

	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/calculator"
	"github.com/tallyhq/splitbill/money"
	"github.com/tallyhq/splitbill/split"
)

// SelectItem toggles the acting user onto an item. In Equal mode the split
// is recomputed over the larger set; against uniform-looking custom splits
// the item is re-seeded equally; against genuinely custom splits the
// command returns NeedsResolution and leaves the item untouched.
func (s State) SelectItem(itemID string) (State, bill.Status) {
	return s.AddParticipant(ItemContext(itemID), s.ActorID)
}

// DeselectItem toggles the acting user off an item, redistributing their
// share to the remaining participants.
func (s State) DeselectItem(itemID string) (State, bill.Status) {
	return s.RemoveParticipant(ItemContext(itemID), s.ActorID)
}

// AddParticipant joins a participant to an allocation context.
func (s State) AddParticipant(ctx Context, userID string) (State, bill.Status) {
	if userID == "" {
		return s, bill.Invalid(bill.ReasonUnknownContext, "no user to add")
	}

	next := s.Clone()
	target, ok := next.resolve(ctx)
	if !ok {
		return s, unknownItem(ctx)
	}

	splits, status := calculator.Join(*target.mode, *target.splits, target.total, userID, s.tolerance())
	if !status.Valid {
		slog.Debug("join rejected", "user_id", userID, "reason", status.Reason)
		return s, status
	}
	*target.splits = splits
	next.setSelected(userID, true)
	return next, status
}

// RemoveParticipant removes a participant from an allocation context and
// hands their share to whoever remains.
func (s State) RemoveParticipant(ctx Context, userID string) (State, bill.Status) {
	next := s.Clone()
	target, ok := next.resolve(ctx)
	if !ok {
		return s, unknownItem(ctx)
	}

	splits, status := calculator.Leave(*target.splits, target.total, userID)
	if !status.Valid {
		slog.Debug("leave rejected", "user_id", userID, "reason", status.Reason)
		return s, status
	}
	*target.splits = splits
	if ctx.ItemID == "" {
		next.setSelected(userID, false)
	}
	return next, status
}

// SetMode switches an allocation context to a different mode. Membership is
// preserved across every switch. Switching to Equal or Shares re-seeds an
// equal starting point and clears locks; switching between the custom modes
// keeps the existing amounts (with percentages re-derived) so prior custom
// data survives.
func (s State) SetMode(ctx Context, mode bill.AllocationMode) (State, bill.Status) {
	if _, err := split.New(mode); err != nil {
		return s, bill.Invalid(bill.ReasonUnknownContext, err.Error())
	}

	next := s.Clone()
	target, ok := next.resolve(ctx)
	if !ok {
		return s, unknownItem(ctx)
	}
	if *target.mode == mode {
		return next, bill.OK()
	}

	previous := *target.mode
	*target.mode = mode

	switch mode {
	case bill.ModeEqual, bill.ModeShares:
		members := memberIDs(*target.splits)
		if len(members) == 0 {
			*target.splits = nil
			return next, calculator.Valid(mode, nil, target.total)
		}
		seeded, status := calculator.ResetToEqual(mode, members, target.total)
		if !status.Valid {
			return s, status
		}
		*target.splits = seeded
	default:
		// Amount or Percentage: keep the figures, refresh the derived
		// percentage so amount and percentage stay in agreement. Coming
		// from Equal with no custom data this is already an equal seed,
		// so validity holds immediately.
		out := make([]bill.ItemSplit, len(*target.splits))
		copy(out, *target.splits)
		for i := range out {
			out[i].Percentage = out[i].Amount.PercentOf(target.total)
			out[i].Shares = 0
		}
		*target.splits = out
	}

	slog.Debug("mode switched", "item_id", ctx.ItemID, "from", previous, "to", mode)
	return next, calculator.Valid(mode, *target.splits, target.total)
}

// SetParticipantValue records an explicitly entered figure for one
// participant: an amount or percentage lock in Amount/Percentage mode, or
// a share count in Shares mode. The value kind must match the context's
// active mode.
func (s State) SetParticipantValue(ctx Context, userID string, v Value) (State, bill.Status) {
	next := s.Clone()
	target, ok := next.resolve(ctx)
	if !ok {
		return s, unknownItem(ctx)
	}

	var splits []bill.ItemSplit
	var status bill.Status
	switch {
	case *target.mode == bill.ModeAmount && v.Amount != nil:
		splits, status = calculator.LockAmount(*target.splits, target.total, userID, *v.Amount)
	case *target.mode == bill.ModePercentage && v.Percentage != nil:
		splits, status = calculator.LockPercentage(*target.splits, target.total, userID, *v.Percentage)
	case *target.mode == bill.ModeShares && v.Shares != nil:
		splits, status = setShares(*target.splits, target.total, userID, *v.Shares)
	default:
		return s, bill.Invalid(bill.ReasonUnknownContext,
			fmt.Sprintf("value does not match the active %s mode", *target.mode))
	}

	if !status.Valid {
		slog.Debug("value rejected", "user_id", userID, "reason", status.Reason)
		return s, status
	}
	*target.splits = splits
	return next, status
}

// ResetToEqual clears all locks on a context and reseeds it equally over
// its current members (or the selected roster when the context is empty).
func (s State) ResetToEqual(ctx Context) (State, bill.Status) {
	next := s.Clone()
	target, ok := next.resolve(ctx)
	if !ok {
		return s, unknownItem(ctx)
	}

	splits, status := calculator.ResetToEqual(*target.mode, next.members(*target.splits), target.total)
	if !status.Valid {
		return s, status
	}
	*target.splits = splits
	return next, status
}

// setShares updates one participant's share count and re-applies the
// Shares strategy over the whole context.
func setShares(splits []bill.ItemSplit, total money.Money, userID string, count float64) ([]bill.ItemSplit, bill.Status) {
	if count <= 0 {
		return splits, bill.Invalid(bill.ReasonUnbalanced, "share count must be positive")
	}

	inputs := make([]split.Input, 0, len(splits)+1)
	found := false
	for _, sp := range splits {
		n := sp.Shares
		if n <= 0 {
			n = 1
		}
		if sp.UserID == userID {
			n = count
			found = true
		}
		shares := n
		inputs = append(inputs, split.Input{UserID: sp.UserID, Shares: &shares})
	}
	if !found {
		shares := count
		inputs = append(inputs, split.Input{UserID: userID, Shares: &shares})
	}

	out, err := (&split.Shares{}).Apply(total, inputs)
	if err != nil {
		return splits, bill.Invalid(bill.ReasonUnbalanced, err.Error())
	}
	return out, bill.OK()
}

func memberIDs(splits []bill.ItemSplit) []string {
	ids := make([]string, len(splits))
	for i, sp := range splits {
		ids[i] = sp.UserID
	}
	return ids
}

func (s *State) setSelected(userID string, selected bool) {
	for i := range s.Roster {
		if s.Roster[i].UserID == userID {
			s.Roster[i].IsSelected = selected
			return
		}
	}
}

func unknownItem(ctx Context) bill.Status {
	return bill.Invalid(bill.ReasonUnknownContext, "no such item: "+ctx.ItemID)
}
