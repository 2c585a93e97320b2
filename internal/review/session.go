// apps/go-server/internal/review/session.go
//
// Flip-card review: step through a set one card at a time, turning each card
// over to see its back. Nothing is graded or scored.

package review

import (
	"math/rand/v2"
	"slices"

	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
)

// Session is one flip-review run. Not safe for concurrent use.
type Session struct {
	cards   []deck.Card
	index   int
	flipped bool
}

// View is a read-only snapshot of a review session.
type View struct {
	Card     deck.Card `json:"card"`
	Index    int       `json:"index"`
	Total    int       `json:"total"`
	Flipped  bool      `json:"flipped"`
	Progress float64   `json:"progress"` // 0..1, position of the current card
}

// New starts a review over a snapshot of cards.
func New(cards []deck.Card) (*Session, error) {
	snap, err := deck.Snapshot(cards)
	if err != nil {
		return nil, err
	}
	return &Session{cards: snap}, nil
}

// Flip turns the current card over.
func (s *Session) Flip() { s.flipped = !s.flipped }

// Next moves forward one card, face up. No-op on the last card.
func (s *Session) Next() bool {
	if s.index >= len(s.cards)-1 {
		return false
	}
	s.index++
	s.flipped = false
	return true
}

// Prev moves back one card, face up. No-op on the first card.
func (s *Session) Prev() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	s.flipped = false
	return true
}

// Shuffle reorders the cards uniformly at random and returns to the first one.
func (s *Session) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(s.cards), func(i, j int) { s.cards[i], s.cards[j] = s.cards[j], s.cards[i] })
	s.Reset()
}

// Reset returns to the first card, face up. The current order is kept.
func (s *Session) Reset() {
	s.index = 0
	s.flipped = false
}

// Cards returns a copy of the cards in their current order.
func (s *Session) Cards() []deck.Card { return slices.Clone(s.cards) }

// View returns a snapshot suitable for rendering.
func (s *Session) View() View {
	return View{
		Card:     s.cards[s.index],
		Index:    s.index,
		Total:    len(s.cards),
		Flipped:  s.flipped,
		Progress: float64(s.index+1) / float64(len(s.cards)),
	}
}
