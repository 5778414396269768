package bill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tallyhq/splitbill/money"
)

// ShareMode selects how a bill-level charge (tax or tip) is allocated.
type ShareMode string

const (
	// ShareEqual divides the charge evenly across all bill participants.
	ShareEqual ShareMode = "EQUAL"

	// ShareProportional divides the charge in proportion to each
	// participant's share of the item cost.
	ShareProportional ShareMode = "PROPORTIONAL"
)

// Hard failures. These indicate caller bugs, not user-recoverable states,
// and abort the computation for the offending item.
var (
	ErrNegativePrice    = errors.New("item price cannot be negative")
	ErrNegativeDiscount = errors.New("discount cannot be negative")
	ErrInvalidQuantity  = errors.New("item quantity must be positive")
)

// Bill represents a single-currency bill to be divided among participants.
//
// When Items is empty the bill is a "simple" amount: Amount holds the figure
// to divide and Mode/Splits hold the whole-bill allocation. When Items is
// non-empty, allocation happens per item and Amount is ignored.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Title is the human-readable name for the bill.
	// Auto-generated from participants when left empty.
	Title string

	// Currency is the ISO 4217 code used for display formatting.
	// The engine never converts between currencies.
	Currency string

	// Items are the line items, in caller order.
	Items []Item

	// Amount is the whole-bill figure for item-less simple bills.
	Amount money.Money

	// Mode and Splits carry the whole-bill allocation for simple bills.
	Mode   AllocationMode
	Splits []ItemSplit

	// Tax and Tip are bill-level charges on top of the item cost.
	Tax money.Money
	Tip money.Money

	// Discount is a bill-level reduction applied before tax and tip.
	Discount money.Money

	// TaxMode and TipMode select equal or proportional allocation.
	TaxMode ShareMode
	TipMode ShareMode

	// PayerID is the participant who paid the bill. Optional; when set,
	// the allocation result reports what each participant owes the payer.
	PayerID string
}

// New creates a bill with a generated ID and sane defaults
// (proportional tax and tip, equal whole-bill mode).
func New(title string, participants []string) Bill {
	if title == "" {
		title = generateTitle(participants)
	}
	return Bill{
		ID:      uuid.New().String(),
		Title:   title,
		Mode:    ModeEqual,
		TaxMode: ShareProportional,
		TipMode: ShareProportional,
	}
}

// ItemCost returns Σ(price·quantity − discount) across all items,
// the base the bill-level discount, tax, and tip apply to.
func (b Bill) ItemCost() money.Money {
	if len(b.Items) == 0 {
		return b.Amount
	}
	var cost money.Money
	for _, it := range b.Items {
		cost += it.NetPrice()
	}
	return cost
}

// Total returns the invariant bill total:
// item cost − bill discount + tax + tip.
func (b Bill) Total() money.Money {
	return b.ItemCost() - b.Discount + b.Tax + b.Tip
}

// Item returns a pointer to the item with the given id, or nil.
func (b *Bill) Item(itemID string) *Item {
	for i := range b.Items {
		if b.Items[i].ID == itemID {
			return &b.Items[i]
		}
	}
	return nil
}

// Validate rejects programmer-error states: negative amounts and
// non-positive quantities. User-recoverable states are Status values,
// never errors.
func (b Bill) Validate() error {
	if b.Tax < 0 || b.Tip < 0 {
		return fmt.Errorf("bill %s: %w", b.ID, ErrNegativePrice)
	}
	if b.Discount < 0 {
		return fmt.Errorf("bill %s: %w", b.ID, ErrNegativeDiscount)
	}
	for _, it := range b.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy. Commands operate on copies so the caller's
// snapshot is never mutated in place.
func (b Bill) Clone() Bill {
	out := b
	out.Splits = cloneSplits(b.Splits)
	out.Items = make([]Item, len(b.Items))
	for i, it := range b.Items {
		out.Items[i] = it.Clone()
	}
	return out
}

func generateTitle(participants []string) string {
	switch len(participants) {
	case 0:
		return "Split"
	case 1:
		return participants[0]
	case 2:
		return participants[0] + " & " + participants[1]
	default:
		return fmt.Sprintf("%s +%d", strings.Join(participants[:2], ", "), len(participants)-2)
	}
}
