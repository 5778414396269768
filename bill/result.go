package bill

import "github.com/tallyhq/splitbill/money"

// Reason classifies a validation status. Every reason is a routine,
// user-recoverable condition during interactive editing, represented as
// data, never thrown.
type Reason string

const (
	// ReasonOK means the allocation is consistent and confirmable.
	ReasonOK Reason = "OK"

	// ReasonUnbalanced means declared amounts or percentages do not sum
	// to the expected total beyond tolerance. Not auto-corrected; the UI
	// blocks confirmation until the user fixes it.
	ReasonUnbalanced Reason = "UNBALANCED_ALLOCATION"

	// ReasonEmptyParticipants means Equal mode has zero selected
	// participants.
	ReasonEmptyParticipants Reason = "EMPTY_PARTICIPANT_SET"

	// ReasonDegenerateTaxBase means proportional tax/tip was requested
	// against a zero item cost; shares come back all zero.
	ReasonDegenerateTaxBase Reason = "DEGENERATE_TAX_BASE"

	// ReasonNeedsResolution means a participant joined a context holding
	// custom unequal data; the engine will not silently rebalance and the
	// caller must present a split editor.
	ReasonNeedsResolution Reason = "NEEDS_RESOLUTION"

	// ReasonUnknownContext means the command referenced an item or
	// participant the snapshot does not contain.
	ReasonUnknownContext Reason = "UNKNOWN_CONTEXT"
)

// Status is the validity outcome of a command or an aggregation. Valid
// drives whether the caller's confirm action is enabled.
type Status struct {
	Valid  bool
	Reason Reason
	Detail string
}

// OK is the all-clear status.
func OK() Status {
	return Status{Valid: true, Reason: ReasonOK}
}

// Invalid builds a blocking status with the given reason.
func Invalid(reason Reason, detail string) Status {
	return Status{Valid: false, Reason: reason, Detail: detail}
}

// PersonItem is one participant's share of a single item, for display.
type PersonItem struct {
	ItemID string
	Name   string
	Amount money.Money
}

// PersonShare is one participant's final breakdown of the bill.
type PersonShare struct {
	// UserID references the participant.
	UserID string

	// ItemsShare is the sum of the participant's split amounts across
	// all items, after the bill-level discount.
	ItemsShare money.Money

	// TaxShare and TipShare are the participant's portions of the
	// bill-level charges, per the bill's share modes.
	TaxShare money.Money
	TipShare money.Money

	// Total is ItemsShare + TaxShare + TipShare.
	Total money.Money

	// OwesPayer is what this participant owes the bill's payer: their
	// Total, or zero for the payer themselves. Zero when the bill has
	// no payer.
	OwesPayer money.Money

	// Items lists the line items behind ItemsShare with this person's
	// portion of each.
	Items []PersonItem
}

// AllocationResult is the aggregated outcome for a whole bill: one share
// per participating user plus the validation status.
type AllocationResult struct {
	// Shares is ordered by first appearance (roster order, then item
	// order for users outside the roster), so output is deterministic.
	Shares []PersonShare

	// Status reports whether the allocation reconciles; degenerate but
	// tolerated states (zero item cost with nonzero tax) stay valid with
	// an explanatory reason.
	Status Status
}

// Share returns the share row for the given user, or nil.
func (r AllocationResult) Share(userID string) *PersonShare {
	for i := range r.Shares {
		if r.Shares[i].UserID == userID {
			return &r.Shares[i]
		}
	}
	return nil
}

// Total returns the sum of all per-person totals.
func (r AllocationResult) Total() money.Money {
	var sum money.Money
	for _, s := range r.Shares {
		sum += s.Total
	}
	return sum
}
