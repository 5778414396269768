package bill

// Participant is a roster entry. The engine references participants by user
// id only; accounts, avatars, and membership live with the caller.
type Participant struct {
	// UserID is the stable identifier used throughout the engine.
	UserID string

	// Name is display metadata, carried through untouched.
	Name string

	// IsSelected marks the participant as included in Equal-mode splits.
	// Ignored by the other modes.
	IsSelected bool
}

// SelectedIDs returns the user ids of selected participants, in roster order.
func SelectedIDs(roster []Participant) []string {
	var ids []string
	for _, p := range roster {
		if p.IsSelected {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}
