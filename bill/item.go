package bill

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/tallyhq/splitbill/money"
)

// AllocationMode identifies how an allocation context (an item, or the
// whole-bill simple amount) divides its total among participants.
// Exactly one mode is active per context.
type AllocationMode string

const (
	// ModeEqual divides the total evenly among selected participants.
	ModeEqual AllocationMode = "EQUAL"

	// ModeAmount uses explicit per-participant amounts that must sum
	// to the total.
	ModeAmount AllocationMode = "AMOUNT"

	// ModePercentage uses per-participant percentages that must sum to 100.
	ModePercentage AllocationMode = "PERCENTAGE"

	// ModeShares uses positive share counts (default 1 per participant).
	ModeShares AllocationMode = "SHARES"
)

// Item represents a single line item on a bill.
//
// Price is per unit; the splitter explodes multi-quantity items into
// UnitItems before allocation so each unit carries a cent-exact slice of
// the discount and splits.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the item description (e.g. "Pizza", "Beer").
	Name string

	// Price is the per-unit price.
	Price money.Money

	// LineTotal, when nonzero, is the authoritative gross amount for the
	// whole line (receipt scans often carry line totals that are not an
	// exact multiple of a unit price). Zero means Price·Quantity.
	LineTotal money.Money

	// Quantity is the number of units; always positive.
	Quantity int

	// Discount is the per-line reduction, spread across units on explode.
	Discount money.Money

	// Category is an optional grouping label for display.
	Category string

	// Mode is the active allocation mode for this item.
	Mode AllocationMode

	// Splits are the per-participant allocations, in entry order.
	// Order matters: the rounding allocator and the unit packer are
	// deterministic in split order.
	Splits []ItemSplit
}

// NewItem creates an item with a generated ID and Equal mode.
func NewItem(name string, price money.Money, quantity int) Item {
	return Item{
		ID:       uuid.New().String(),
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Mode:     ModeEqual,
	}
}

// GrossPrice returns the line's gross amount: LineTotal when set,
// otherwise price·quantity.
func (it Item) GrossPrice() money.Money {
	if it.LineTotal != 0 {
		return it.LineTotal
	}
	return it.Price.Mul(it.Quantity)
}

// NetPrice returns the line's gross amount minus its discount.
func (it Item) NetPrice() money.Money {
	return it.GrossPrice() - it.Discount
}

// SplitTotal returns the sum of the item's split amounts.
func (it Item) SplitTotal() money.Money {
	var sum money.Money
	for _, s := range it.Splits {
		sum += s.Amount
	}
	return sum
}

// Split returns a pointer to the split for the given user, or nil.
func (it *Item) Split(userID string) *ItemSplit {
	for i := range it.Splits {
		if it.Splits[i].UserID == userID {
			return &it.Splits[i]
		}
	}
	return nil
}

// Participants returns the user ids with a split on this item, sorted.
func (it Item) Participants() []string {
	ids := make([]string, 0, len(it.Splits))
	for _, s := range it.Splits {
		ids = append(ids, s.UserID)
	}
	sort.Strings(ids)
	return ids
}

// Validate rejects negative prices/discounts and non-positive quantities.
func (it Item) Validate() error {
	if it.Price < 0 || it.LineTotal < 0 {
		return fmt.Errorf("item %q: %w", it.Name, ErrNegativePrice)
	}
	if it.Quantity <= 0 {
		return fmt.Errorf("item %q: %w", it.Name, ErrInvalidQuantity)
	}
	if it.Discount < 0 {
		return fmt.Errorf("item %q: %w", it.Name, ErrNegativeDiscount)
	}
	return nil
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	out.Splits = cloneSplits(it.Splits)
	return out
}

// ItemSplit is one participant's allocated portion of an item. Amount and
// Percentage are always both populated and agree within one cent equivalent,
// so stale readers never see them diverge.
type ItemSplit struct {
	// UserID references the participant; the engine never owns participants.
	UserID string

	// Amount is this participant's portion in minor units.
	Amount money.Money

	// Percentage is the portion as a percentage of the context total.
	Percentage float64

	// Shares is the share count in Shares mode; zero otherwise.
	Shares float64

	// Locked marks an explicitly entered value that redistribution
	// must never alter.
	Locked bool
}

// UnitItem is a quantity-1 slice of a multi-quantity Item, produced by the
// splitter and owned exclusively by its output. Unit items are never
// persisted directly; they are re-collapsed for display or re-aggregated
// for totals.
type UnitItem struct {
	Item

	// ParentID is the exploded Item's id.
	ParentID string

	// Index is the unit's position, 0-based, within the parent.
	Index int

	// Unclaimed is the portion of the unit's net price not yet assigned
	// to any participant.
	Unclaimed money.Money
}

func cloneSplits(splits []ItemSplit) []ItemSplit {
	if splits == nil {
		return nil
	}
	out := make([]ItemSplit, len(splits))
	copy(out, splits)
	return out
}
