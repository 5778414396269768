package calculator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/money"
)

// unitSuffix matches the "(i/Q)" suffix Explode appends to unit names.
var unitSuffix = regexp.MustCompile(`\s*\(\d+/\d+\)$`)

// Explode expands an item with quantity Q into Q unit items. Each unit gets
// a cent-exact slice of the line's gross price; the parent's per-unit price
// when the gross divides evenly, which it does unless a LineTotal override
// is set. The line discount is spread across units by the rounding
// allocator, and existing splits are greedily packed into units
// in split order, splitting a participant's balance across two adjacent
// units only when a unit fills up. The packing is deterministic and
// idempotent: repeated calls with unchanged input produce identical output.
//
// Returns a hard error for negative prices/discounts or non-positive
// quantities; those are caller bugs, not user states.
func Explode(item bill.Item) ([]bill.UnitItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	q := item.Quantity
	prices, err := money.Even(item.GrossPrice(), q)
	if err != nil {
		return nil, fmt.Errorf("item %q: distributing price: %w", item.Name, err)
	}
	discounts, err := money.Even(item.Discount, q)
	if err != nil {
		return nil, fmt.Errorf("item %q: distributing discount: %w", item.Name, err)
	}

	// Remaining balances to pack, in split order.
	balances := make([]bill.ItemSplit, len(item.Splits))
	copy(balances, item.Splits)

	units := make([]bill.UnitItem, q)
	for u := 0; u < q; u++ {
		unit := item.Clone()
		unit.ID = fmt.Sprintf("%s#%d", item.ID, u+1)
		unit.Quantity = 1
		unit.Price = prices[u]
		unit.LineTotal = 0
		unit.Discount = discounts[u]
		unit.Splits = nil
		if q > 1 {
			unit.Name = fmt.Sprintf("%s (%d/%d)", item.Name, u+1, q)
		}

		capacity := unit.Price - unit.Discount
		var filled money.Money
		for len(balances) > 0 {
			head := &balances[0]
			take := head.Amount
			if room := capacity - filled; take > room {
				take = room
			}
			if take <= 0 && head.Amount > 0 {
				break // unit full; balance continues on the next unit
			}

			unit.Splits = append(unit.Splits, bill.ItemSplit{
				UserID:     head.UserID,
				Amount:     take,
				Percentage: take.PercentOf(capacity),
				Shares:     head.Shares,
				Locked:     head.Locked,
			})
			filled += take
			head.Amount -= take
			if head.Amount > 0 {
				break
			}
			balances = balances[1:]
		}

		units[u] = bill.UnitItem{
			Item:      unit,
			ParentID:  item.ID,
			Index:     u,
			Unclaimed: capacity - filled,
		}
	}

	return units, nil
}

// Collapse re-groups unit items that share a normalized name, unit price,
// and participant set into one synthetic row for display. Groups of one
// pass through unchanged. Collapse never mutates the units; it is a pure
// projection; edits made on a collapsed row must be fanned out by the
// caller to every constituent unit identically.
func Collapse(units []bill.UnitItem) []bill.Item {
	type group struct {
		item  bill.Item
		count int
	}

	var order []string
	groups := make(map[string]*group)

	for _, u := range units {
		name := NormalizeName(u.Name)
		key := fmt.Sprintf("%s|%d|%s", name, u.Price, strings.Join(u.Participants(), ","))

		g, ok := groups[key]
		if !ok {
			groups[key] = &group{item: u.Item.Clone(), count: 1}
			order = append(order, key)
			continue
		}

		g.count++
		g.item.Quantity += u.Quantity
		g.item.Discount += u.Discount
		for _, s := range u.Splits {
			if merged := g.item.Split(s.UserID); merged != nil {
				merged.Amount += s.Amount
				merged.Locked = merged.Locked || s.Locked
			} else {
				g.item.Splits = append(g.item.Splits, s)
			}
		}
	}

	out := make([]bill.Item, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.count > 1 {
			g.item.Name = NormalizeName(g.item.Name)
		}
		net := g.item.NetPrice()
		for i := range g.item.Splits {
			g.item.Splits[i].Percentage = g.item.Splits[i].Amount.PercentOf(net)
		}
		out = append(out, g.item)
	}
	return out
}

// NormalizeName strips the "(i/Q)" unit suffix from an item name.
func NormalizeName(name string) string {
	return strings.TrimSpace(unitSuffix.ReplaceAllString(name, ""))
}
