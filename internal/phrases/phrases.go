// apps/go-server/internal/phrases/phrases.go
//
// Completion phrases shown when a write or match session finishes.

package phrases

import (
	"errors"
	"math/rand/v2"

	"github.com/robalobadob/flashcards/apps/go-server/assets"
)

// List is a fixed set of phrases.
type List struct {
	phrases []string
}

// Load reads the embedded phrase list.
func Load() (*List, error) {
	ps, err := assets.PhraseList()
	if err != nil {
		return nil, err
	}
	return New(ps)
}

// New builds a List from ps. At least one phrase is required.
func New(ps []string) (*List, error) {
	if len(ps) == 0 {
		return nil, errors.New("phrases: empty list")
	}
	return &List{phrases: append([]string(nil), ps...)}, nil
}

// Pick returns a phrase chosen uniformly at random from rng.
func (l *List) Pick(rng *rand.Rand) string {
	return l.phrases[rng.IntN(len(l.phrases))]
}

// Len reports how many phrases are loaded.
func (l *List) Len() int { return len(l.phrases) }
