package calculator

import (
	"fmt"
	"log/slog"

	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/money"
)

// Aggregate folds a bill's per-item splits and its bill-level discount,
// tax, and tip into one final share per participant.
//
// Participation for tax and tip purposes is "has a split anywhere on the
// bill", independent of per-item selection. Proportional charges are based
// only on participants with a nonzero items share; a zero item cost with a
// nonzero proportional charge yields all-zero shares with a
// DegenerateTaxBase reason: logged, never fatal.
//
// The returned status is the bill-wide confirmability: invalid when any
// item's allocation does not reconcile, or when a nonzero bill has no
// participants at all.
func Aggregate(b bill.Bill) (bill.AllocationResult, error) {
	if err := b.Validate(); err != nil {
		return bill.AllocationResult{}, fmt.Errorf("aggregate bill %s: %w", b.ID, err)
	}

	order, byUser := collectShares(b)

	if len(order) == 0 {
		status := bill.OK()
		if b.Total() != 0 {
			status = bill.Invalid(bill.ReasonEmptyParticipants, "bill has no participants")
		}
		return bill.AllocationResult{Status: status}, nil
	}

	status := contextsValid(b)

	// Bill-level discount comes off the item shares proportionally before
	// tax and tip.
	applyDiscount(b, order, byUser)

	itemWeights := make([]float64, len(order))
	var itemBase money.Money
	for i, id := range order {
		itemWeights[i] = float64(byUser[id].ItemsShare)
		itemBase += byUser[id].ItemsShare
	}

	degenerate := false
	taxShares, deg := chargeShares(b.Tax, b.TaxMode, "tax", itemBase, itemWeights, len(order))
	degenerate = degenerate || deg
	tipShares, deg := chargeShares(b.Tip, b.TipMode, "tip", itemBase, itemWeights, len(order))
	degenerate = degenerate || deg

	shares := make([]bill.PersonShare, len(order))
	for i, id := range order {
		ps := byUser[id]
		ps.TaxShare = taxShares[i]
		ps.TipShare = tipShares[i]
		ps.Total = ps.ItemsShare + ps.TaxShare + ps.TipShare
		if b.PayerID != "" && id != b.PayerID {
			ps.OwesPayer = ps.Total
		}
		shares[i] = *ps
	}

	if degenerate && status.Valid {
		status.Reason = bill.ReasonDegenerateTaxBase
		status.Detail = "proportional charge against zero item cost; shares are zero"
	}

	return bill.AllocationResult{Shares: shares, Status: status}, nil
}

// collectShares walks the bill's allocation contexts and accumulates each
// participant's items share and per-item breakdown, ordered by first
// appearance.
func collectShares(b bill.Bill) ([]string, map[string]*bill.PersonShare) {
	var order []string
	byUser := make(map[string]*bill.PersonShare)

	touch := func(userID string) *bill.PersonShare {
		if ps, ok := byUser[userID]; ok {
			return ps
		}
		ps := &bill.PersonShare{UserID: userID}
		byUser[userID] = ps
		order = append(order, userID)
		return ps
	}

	if len(b.Items) == 0 {
		for _, s := range b.Splits {
			ps := touch(s.UserID)
			ps.ItemsShare += s.Amount
		}
		return order, byUser
	}

	for _, it := range b.Items {
		for _, s := range it.Splits {
			ps := touch(s.UserID)
			ps.ItemsShare += s.Amount
			ps.Items = append(ps.Items, bill.PersonItem{
				ItemID: it.ID,
				Name:   it.Name,
				Amount: s.Amount,
			})
		}
	}
	return order, byUser
}

// contextsValid checks every allocation context's validity predicate.
func contextsValid(b bill.Bill) bill.Status {
	if len(b.Items) == 0 {
		return Valid(b.Mode, b.Splits, b.Amount)
	}
	for _, it := range b.Items {
		if st := Valid(it.Mode, it.Splits, it.NetPrice()); !st.Valid {
			st.Detail = fmt.Sprintf("item %q: %s", it.Name, st.Detail)
			return st
		}
	}
	return bill.OK()
}

func applyDiscount(b bill.Bill, order []string, byUser map[string]*bill.PersonShare) {
	if b.Discount == 0 {
		return
	}

	weights := make([]float64, len(order))
	var base money.Money
	for i, id := range order {
		weights[i] = float64(byUser[id].ItemsShare)
		base += byUser[id].ItemsShare
	}
	if base == 0 {
		slog.Debug("bill discount skipped: zero item cost", "bill_id", b.ID, "discount", b.Discount)
		return
	}

	shares, err := money.Distribute(b.Discount, weights)
	if err != nil {
		slog.Warn("bill discount not distributable", "bill_id", b.ID, "error", err)
		return
	}
	for i, id := range order {
		byUser[id].ItemsShare -= shares[i]
	}
}

// chargeShares allocates one bill-level charge (tax or tip) per its mode.
// The second return reports a degenerate proportional base.
func chargeShares(charge money.Money, mode bill.ShareMode, label string, base money.Money, itemWeights []float64, n int) ([]money.Money, bool) {
	zeros := make([]money.Money, n)
	if charge == 0 || n == 0 {
		return zeros, false
	}

	if mode == bill.ShareEqual {
		shares, err := money.Even(charge, n)
		if err != nil {
			return zeros, false
		}
		return shares, false
	}

	if base == 0 {
		slog.Warn("proportional charge against zero item cost",
			"charge", label,
			"amount", charge,
		)
		return zeros, true
	}

	shares, err := money.Distribute(charge, itemWeights)
	if err != nil {
		slog.Warn("charge not distributable", "charge", label, "error", err)
		return zeros, true
	}
	return shares, false
}
