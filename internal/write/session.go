// apps/go-server/internal/write/session.go
//
// Written-recall session: one card at a time, graded with worddiff.
// Responsibilities:
//   - Submit:   grade the typed answer against the card back.
//   - Override: accept an answer the grader rejected.
//   - Advance:  move to the next card, requeue misses into a new round,
//               or finish once a round has no misses.
//
// State transitions:
//   presenting --Submit--> graded --Advance--> presenting | complete
//
// Calls made from the wrong phase are no-ops and report false.
// A Session is not safe for concurrent use; callers serialise access.

package write

import (
	"maps"
	"slices"
	"strings"

	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
	"github.com/robalobadob/flashcards/apps/go-server/internal/worddiff"
)

// Session holds the state of one written-recall run over a card snapshot.
type Session struct {
	all          []deck.Card
	queue        []deck.Card
	index        int
	round        int
	phase        Phase
	result       *worddiff.Result
	scores       map[string]Score // round-1 outcomes, keyed by card id
	roundResults map[string]bool  // outcomes of the current round only
}

// New starts a session over a snapshot of cards.
// Returns deck.ErrEmpty if there are no cards.
func New(cards []deck.Card) (*Session, error) {
	snap, err := deck.Snapshot(cards)
	if err != nil {
		return nil, err
	}
	s := &Session{all: snap}
	s.Restart()
	return s, nil
}

// Restart begins again from round 1 over the full card set with fresh scores.
func (s *Session) Restart() {
	s.queue = slices.Clone(s.all)
	s.index = 0
	s.round = 1
	s.phase = PhasePresenting
	s.result = nil
	s.scores = make(map[string]Score, len(s.all))
	s.roundResults = make(map[string]bool, len(s.all))
}

// Submit grades answer against the current card's back.
// Blank answers and calls outside the presenting phase are ignored.
func (s *Session) Submit(answer string) (worddiff.Result, bool) {
	if s.phase != PhasePresenting || strings.TrimSpace(answer) == "" {
		return worddiff.Result{}, false
	}
	card := s.queue[s.index]
	res := worddiff.Diff(answer, card.Back)
	s.result = &res
	s.phase = PhaseGraded

	s.roundResults[card.ID] = res.IsCorrect
	if s.round == 1 {
		if _, seen := s.scores[card.ID]; !seen {
			s.scores[card.ID] = Score{FirstTryCorrect: res.IsCorrect}
		}
	}
	return res, true
}

// Override marks the current graded answer as correct.
// Only valid while graded with an incorrect result.
func (s *Session) Override() bool {
	if s.phase != PhaseGraded || s.result == nil || !s.result.Override() {
		return false
	}
	card := s.queue[s.index]
	s.roundResults[card.ID] = true
	if s.round == 1 {
		s.scores[card.ID] = Score{FirstTryCorrect: true}
	}
	return true
}

// Advance leaves the graded phase.
//   - More cards in the queue: present the next one.
//   - Queue exhausted with misses: the misses, in queue order, become the next round.
//   - Queue exhausted without misses: the session is complete.
func (s *Session) Advance() bool {
	if s.phase != PhaseGraded {
		return false
	}
	s.result = nil

	if s.index < len(s.queue)-1 {
		s.index++
		s.phase = PhasePresenting
		return true
	}

	var missed []deck.Card
	for _, c := range s.queue {
		if ok, graded := s.roundResults[c.ID]; graded && !ok {
			missed = append(missed, c)
		}
	}
	if len(missed) == 0 {
		s.phase = PhaseComplete
		return true
	}

	s.queue = missed
	s.index = 0
	s.round++
	s.roundResults = make(map[string]bool, len(missed))
	s.phase = PhasePresenting
	return true
}

// Phase reports the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Round reports the current round, starting at 1.
func (s *Session) Round() int { return s.round }

// Queue returns a copy of the cards in the current round.
func (s *Session) Queue() []deck.Card { return slices.Clone(s.queue) }

// Current returns the card being asked, if the session is not complete.
func (s *Session) Current() (deck.Card, bool) {
	if s.phase == PhaseComplete {
		return deck.Card{}, false
	}
	return s.queue[s.index], true
}

// Scores returns a copy of the first-try scores recorded so far.
func (s *Session) Scores() map[string]Score { return maps.Clone(s.scores) }

// Summary reports first-try correctness over the whole set and rounds taken.
func (s *Session) Summary() Summary {
	correct := 0
	for _, sc := range s.scores {
		if sc.FirstTryCorrect {
			correct++
		}
	}
	return Summary{FirstTryCorrect: correct, TotalCards: len(s.all), Rounds: s.round}
}

// View returns a snapshot suitable for rendering.
func (s *Session) View() View {
	v := View{
		Phase:    s.phase,
		Round:    s.round,
		Index:    s.index,
		QueueLen: len(s.queue),
	}
	if c, ok := s.Current(); ok {
		v.Card = &c
	}
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	if s.phase == PhaseComplete {
		sum := s.Summary()
		v.Summary = &sum
	}
	return v
}
