// apps/go-server/internal/deck/deck.go
//
// Card snapshots handed to practice sessions.
// Sessions never see the live set: Snapshot copies the cards and orders them
// by Position, so later edits to the set do not leak into a running session.

package deck

import (
	"cmp"
	"errors"
	"slices"
)

// ErrEmpty is returned when a session is started with no cards.
var ErrEmpty = errors.New("deck: no cards")

// Card is one front/back pair of a set.
type Card struct {
	ID       string `json:"id"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Position int    `json:"position"`
}

// Snapshot returns a copy of cards ordered by Position (stable for ties).
func Snapshot(cards []Card) ([]Card, error) {
	if len(cards) == 0 {
		return nil, ErrEmpty
	}
	out := slices.Clone(cards)
	slices.SortStableFunc(out, func(a, b Card) int { return cmp.Compare(a.Position, b.Position) })
	return out, nil
}
