// apps/go-server/internal/write/types.go
//
// Type definitions for written-recall practice.
// Defines:
//   - Phase:   where the session is in its submit → grade → advance cycle.
//   - Score:   first-attempt outcome of a card (round 1 only).
//   - Summary: terminal result of a session.
//   - View:    snapshot of the session for the presentation layer.

package write

import (
	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
	"github.com/robalobadob/flashcards/apps/go-server/internal/worddiff"
)

// Phase is the state of a write session.
type Phase string

const (
	PhasePresenting Phase = "presenting" // waiting for an answer to the current card
	PhaseGraded     Phase = "graded"     // answer graded, waiting for advance
	PhaseComplete   Phase = "complete"   // every card answered correctly in some round
)

// Score is the round-1 result of a card. It is never rewritten after round 1.
type Score struct {
	FirstTryCorrect bool `json:"firstTryCorrect"`
}

// Summary is reported once the session is complete.
type Summary struct {
	FirstTryCorrect int `json:"firstTryCorrect"`
	TotalCards      int `json:"totalCards"`
	Rounds          int `json:"rounds"`
}

// View is a read-only snapshot of a session.
type View struct {
	Phase    Phase            `json:"phase"`
	Round    int              `json:"round"`
	Index    int              `json:"index"`
	QueueLen int              `json:"queueLen"`
	Card     *deck.Card       `json:"card,omitempty"`
	Result   *worddiff.Result `json:"result,omitempty"`
	Summary  *Summary         `json:"summary,omitempty"`
}
