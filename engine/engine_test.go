package engine

import (
	"testing"

	"github.com/tallyhq/splitbill/bill"
	"github.com/tallyhq/splitbill/money"
)

func amt(cents money.Money) *money.Money { return &cents }
func pct(p float64) *float64             { return &p }
func cnt(n float64) *float64             { return &n }

// testState builds a two-item bill split between alice and bob, with carol
// on the roster but not yet selected. The pizza is shared equally; the wine
// is alice's alone.
func testState(t *testing.T) State {
	t.Helper()

	b := bill.New("Dinner", []string{"Alice", "Bob", "Carol"})
	pizza := bill.NewItem("Pizza", 3000, 1)
	pizza.ID = "pizza"
	pizza.Splits = []bill.ItemSplit{
		{UserID: "alice", Amount: 1500, Percentage: 50},
		{UserID: "bob", Amount: 1500, Percentage: 50},
	}
	wine := bill.NewItem("Wine", 2400, 1)
	wine.ID = "wine"
	wine.Splits = []bill.ItemSplit{
		{UserID: "alice", Amount: 2400, Percentage: 100},
	}
	b.Items = []bill.Item{pizza, wine}

	return State{
		Bill: b,
		Roster: []bill.Participant{
			{UserID: "alice", Name: "Alice", IsSelected: true},
			{UserID: "bob", Name: "Bob", IsSelected: true},
			{UserID: "carol", Name: "Carol"},
		},
		ActorID: "carol",
	}
}

func itemSplits(t *testing.T, s State, itemID string) []bill.ItemSplit {
	t.Helper()
	it := s.Bill.Item(itemID)
	if it == nil {
		t.Fatalf("item %q missing from state", itemID)
	}
	return it.Splits
}

func TestSelectItem(t *testing.T) {
	s := testState(t)

	next, status := s.SelectItem("pizza")
	if !status.Valid {
		t.Fatalf("SelectItem failed: %s (%s)", status.Reason, status.Detail)
	}

	splits := itemSplits(t, next, "pizza")
	if len(splits) != 3 {
		t.Fatalf("expected 3 splits after join, got %d", len(splits))
	}
	var sum money.Money
	for _, sp := range splits {
		sum += sp.Amount
	}
	if sum != 3000 {
		t.Errorf("joined splits sum to %d, want 3000", sum)
	}
	if sp := next.Bill.Item("pizza").Split("carol"); sp == nil || sp.Amount != 1000 {
		t.Errorf("carol's split = %+v, want amount 1000", sp)
	}

	// The command must not touch the input state.
	if got := len(itemSplits(t, s, "pizza")); got != 2 {
		t.Errorf("original state mutated: %d splits", got)
	}
	if s.Roster[2].IsSelected {
		t.Error("original roster mutated")
	}
	if !next.Roster[2].IsSelected {
		t.Error("actor not marked selected in new state")
	}
}

func TestDeselectItemRedistributes(t *testing.T) {
	s := testState(t)
	s.ActorID = "bob"

	next, status := s.DeselectItem("pizza")
	if !status.Valid {
		t.Fatalf("DeselectItem failed: %s (%s)", status.Reason, status.Detail)
	}

	splits := itemSplits(t, next, "pizza")
	if len(splits) != 1 || splits[0].UserID != "alice" || splits[0].Amount != 3000 {
		t.Errorf("after leave got %+v, want alice owning 3000", splits)
	}
	// Item-scoped leave must not deselect bob from the whole bill.
	if !next.Roster[1].IsSelected {
		t.Error("bob deselected from roster by an item-scoped leave")
	}
}

func TestSelectItemAgainstCustomSplits(t *testing.T) {
	s := testState(t)
	pizza := s.Bill.Item("pizza")
	pizza.Mode = bill.ModeAmount
	pizza.Splits = []bill.ItemSplit{
		{UserID: "alice", Amount: 2000, Percentage: 66.67},
		{UserID: "bob", Amount: 1000, Percentage: 33.33},
	}

	next, status := s.SelectItem("pizza")
	if status.Valid {
		t.Fatal("expected join against custom splits to be rejected")
	}
	if status.Reason != bill.ReasonNeedsResolution {
		t.Errorf("reason = %s, want %s", status.Reason, bill.ReasonNeedsResolution)
	}
	if got := itemSplits(t, next, "pizza"); len(got) != 2 {
		t.Errorf("rejected command changed splits: %+v", got)
	}
}

func TestSelectItemWithWidenedTolerance(t *testing.T) {
	s := testState(t)
	pizza := s.Bill.Item("pizza")
	pizza.Mode = bill.ModeAmount
	pizza.Splits = []bill.ItemSplit{
		{UserID: "alice", Amount: 1800, Percentage: 60},
		{UserID: "bob", Amount: 1200, Percentage: 40},
	}
	s.EqualLookTolerance = 25

	next, status := s.SelectItem("pizza")
	if !status.Valid {
		t.Fatalf("join within widened tolerance failed: %s", status.Detail)
	}
	if got := len(itemSplits(t, next, "pizza")); got != 3 {
		t.Errorf("expected equal re-seed over 3, got %d splits", got)
	}
}

func TestAddParticipantUnknownItem(t *testing.T) {
	s := testState(t)
	_, status := s.AddParticipant(ItemContext("nope"), "carol")
	if status.Valid || status.Reason != bill.ReasonUnknownContext {
		t.Errorf("status = %+v, want unknown context", status)
	}
}

func TestBillContextCommands(t *testing.T) {
	s := testState(t)
	s.Bill.Items = nil
	s.Bill.Amount = 6000
	s.Bill.Splits = []bill.ItemSplit{
		{UserID: "alice", Amount: 3000, Percentage: 50},
		{UserID: "bob", Amount: 3000, Percentage: 50},
	}

	next, status := s.AddParticipant(BillContext, "carol")
	if !status.Valid {
		t.Fatalf("whole-bill join failed: %s", status.Detail)
	}
	if got := len(next.Bill.Splits); got != 3 {
		t.Fatalf("expected 3 bill splits, got %d", got)
	}

	next, status = next.RemoveParticipant(BillContext, "carol")
	if !status.Valid {
		t.Fatalf("whole-bill leave failed: %s", status.Detail)
	}
	if got := len(next.Bill.Splits); got != 2 {
		t.Errorf("expected 2 bill splits after leave, got %d", got)
	}
	if next.Roster[2].IsSelected {
		t.Error("carol still selected after whole-bill leave")
	}
}

func TestSetMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     bill.AllocationMode
		validate func(t *testing.T, next State, status bill.Status)
	}{
		{
			name: "to amount keeps figures",
			mode: bill.ModeAmount,
			validate: func(t *testing.T, next State, status bill.Status) {
				if !status.Valid {
					t.Fatalf("switch rejected: %s", status.Detail)
				}
				splits := itemSplits(t, next, "pizza")
				if splits[0].Amount != 1500 || splits[1].Amount != 1500 {
					t.Errorf("amounts changed on mode switch: %+v", splits)
				}
				if splits[0].Percentage != 50 {
					t.Errorf("percentage not re-derived: %v", splits[0].Percentage)
				}
			},
		},
		{
			name: "to shares reseeds",
			mode: bill.ModeShares,
			validate: func(t *testing.T, next State, status bill.Status) {
				if !status.Valid {
					t.Fatalf("switch rejected: %s", status.Detail)
				}
				for _, sp := range itemSplits(t, next, "pizza") {
					if sp.Shares != 1 {
						t.Errorf("share count = %v, want 1", sp.Shares)
					}
				}
			},
		},
		{
			name: "same mode is a no-op",
			mode: bill.ModeEqual,
			validate: func(t *testing.T, next State, status bill.Status) {
				if !status.Valid {
					t.Fatalf("no-op switch rejected: %s", status.Detail)
				}
			},
		},
		{
			name: "unknown mode rejected",
			mode: bill.AllocationMode("LOTTERY"),
			validate: func(t *testing.T, next State, status bill.Status) {
				if status.Valid {
					t.Fatal("expected unknown mode to be rejected")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testState(t)
			next, status := s.SetMode(ItemContext("pizza"), tt.mode)
			tt.validate(t, next, status)
		})
	}
}

func TestSetModeToEqualClearsLocks(t *testing.T) {
	s := testState(t)
	pizza := s.Bill.Item("pizza")
	pizza.Mode = bill.ModeAmount
	pizza.Splits[0].Locked = true

	next, status := s.SetMode(ItemContext("pizza"), bill.ModeEqual)
	if !status.Valid {
		t.Fatalf("switch to equal failed: %s", status.Detail)
	}
	for _, sp := range itemSplits(t, next, "pizza") {
		if sp.Locked {
			t.Errorf("lock survived switch to equal: %+v", sp)
		}
	}
}

func TestSetParticipantValue(t *testing.T) {
	tests := []struct {
		name     string
		mode     bill.AllocationMode
		value    Value
		validate func(t *testing.T, next State, status bill.Status)
	}{
		{
			name:  "amount lock redistributes",
			mode:  bill.ModeAmount,
			value: Value{Amount: amt(2000)},
			validate: func(t *testing.T, next State, status bill.Status) {
				if !status.Valid {
					t.Fatalf("lock rejected: %s", status.Detail)
				}
				sp := next.Bill.Item("pizza").Split("alice")
				if sp.Amount != 2000 || !sp.Locked {
					t.Fatalf("alice = %+v, want locked 2000", sp)
				}
				if bob := next.Bill.Item("pizza").Split("bob"); bob.Amount != 1000 {
					t.Errorf("bob absorbs %d, want 1000", bob.Amount)
				}
			},
		},
		{
			name:  "percentage lock keeps declared figure",
			mode:  bill.ModePercentage,
			value: Value{Percentage: pct(25)},
			validate: func(t *testing.T, next State, status bill.Status) {
				if !status.Valid {
					t.Fatalf("lock rejected: %s", status.Detail)
				}
				sp := next.Bill.Item("pizza").Split("alice")
				if sp.Percentage != 25 || sp.Amount != 750 || !sp.Locked {
					t.Errorf("alice = %+v, want locked 25%% of 3000", sp)
				}
			},
		},
		{
			name:  "share count reweights",
			mode:  bill.ModeShares,
			value: Value{Shares: cnt(2)},
			validate: func(t *testing.T, next State, status bill.Status) {
				if !status.Valid {
					t.Fatalf("share update rejected: %s", status.Detail)
				}
				if sp := next.Bill.Item("pizza").Split("alice"); sp.Amount != 2000 || sp.Shares != 2 {
					t.Errorf("alice = %+v, want 2 shares worth 2000", sp)
				}
				if sp := next.Bill.Item("pizza").Split("bob"); sp.Amount != 1000 {
					t.Errorf("bob = %+v, want 1000", sp)
				}
			},
		},
		{
			name:  "kind must match mode",
			mode:  bill.ModeAmount,
			value: Value{Percentage: pct(25)},
			validate: func(t *testing.T, next State, status bill.Status) {
				if status.Valid {
					t.Fatal("expected mismatched value kind to be rejected")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testState(t)
			s.Bill.Item("pizza").Mode = tt.mode
			next, status := s.SetParticipantValue(ItemContext("pizza"), "alice", tt.value)
			tt.validate(t, next, status)
		})
	}
}

func TestResetToEqual(t *testing.T) {
	s := testState(t)
	pizza := s.Bill.Item("pizza")
	pizza.Mode = bill.ModeAmount
	pizza.Splits = []bill.ItemSplit{
		{UserID: "alice", Amount: 2500, Percentage: 83.33, Locked: true},
		{UserID: "bob", Amount: 500, Percentage: 16.67},
	}

	next, status := s.ResetToEqual(ItemContext("pizza"))
	if !status.Valid {
		t.Fatalf("reset failed: %s", status.Detail)
	}
	for _, sp := range itemSplits(t, next, "pizza") {
		if sp.Amount != 1500 || sp.Locked {
			t.Errorf("after reset got %+v, want unlocked 1500", sp)
		}
	}
}

func TestValidity(t *testing.T) {
	s := testState(t)

	if status := s.Validity(ItemContext("pizza")); !status.Valid {
		t.Errorf("balanced item reported invalid: %+v", status)
	}

	s.Bill.Item("pizza").Mode = bill.ModeAmount
	s.Bill.Item("pizza").Splits[0].Amount = 1400
	status := s.Validity(ItemContext("pizza"))
	if status.Valid || status.Reason != bill.ReasonUnbalanced {
		t.Errorf("short allocation reported %+v, want unbalanced", status)
	}

	if status := s.Validity(ItemContext("nope")); status.Reason != bill.ReasonUnknownContext {
		t.Errorf("missing item reported %+v", status)
	}
}

func TestResultConservesTotal(t *testing.T) {
	s := testState(t)
	s.Bill.Tip = 540
	s.Bill.TipMode = bill.ShareProportional

	result, err := s.Result()
	if err != nil {
		t.Fatalf("Result returned error: %v", err)
	}
	if !result.Status.Valid {
		t.Fatalf("result invalid: %s (%s)", result.Status.Reason, result.Status.Detail)
	}
	if got, want := result.Total(), s.Bill.Total(); got != want {
		t.Errorf("result total = %d, bill total = %d", got, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := testState(t)
	next := s.Clone()
	next.Bill.Item("pizza").Splits[0].Amount = 1
	next.Roster[0].IsSelected = false

	if itemSplits(t, s, "pizza")[0].Amount != 1500 {
		t.Error("clone shares split storage with the original")
	}
	if !s.Roster[0].IsSelected {
		t.Error("clone shares roster storage with the original")
	}
}
