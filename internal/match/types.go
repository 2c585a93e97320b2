// apps/go-server/internal/match/types.go
//
// Core type definitions for the tile-matching game.
// Defines:
//   - Side/Tile:     one clickable face of a card.
//   - Phase:         playing → round_complete → (playing | game_complete).
//   - SelectOutcome: what a tile selection did.
//   - View/Summary:  snapshots for the presentation layer.

package match

// DefaultRoundSize is the number of cards per round.
const DefaultRoundSize = 6

// Side says which face of a card a tile shows.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// Tile is one face of one card. Tiles of the same card match only across sides.
type Tile struct {
	ID     string `json:"id"`
	CardID string `json:"cardId"`
	Side   Side   `json:"side"`
	Text   string `json:"text"`
}

// Phase is the state of a game.
type Phase string

const (
	PhasePlaying       Phase = "playing"
	PhaseRoundComplete Phase = "round_complete"
	PhaseGameComplete  Phase = "game_complete"
)

// SelectOutcome reports the effect of a tile selection.
type SelectOutcome string

const (
	OutcomeIgnored       SelectOutcome = "ignored"
	OutcomeSelected      SelectOutcome = "selected"
	OutcomeMatched       SelectOutcome = "matched"
	OutcomeMismatch      SelectOutcome = "mismatch"
	OutcomeRoundComplete SelectOutcome = "round_complete"
)

// Summary is reported when the game is complete.
type Summary struct {
	TotalElapsedSeconds int `json:"totalElapsedSeconds"`
	TotalMistakes       int `json:"totalMistakes"`
	TotalRounds         int `json:"totalRounds"`
}

// TileView is a tile plus its per-round flags.
type TileView struct {
	Tile
	Selected bool `json:"selected"`
	Matched  bool `json:"matched"`
	Shaking  bool `json:"shaking"`
}

// View is a read-only snapshot of a game.
type View struct {
	Phase               Phase      `json:"phase"`
	RoundIndex          int        `json:"roundIndex"`
	TotalRounds         int        `json:"totalRounds"`
	Tiles               []TileView `json:"tiles"`
	Mistakes            int        `json:"mistakes"`
	ElapsedSeconds      int        `json:"elapsedSeconds"`
	TimerRunning        bool       `json:"timerRunning"`
	TotalElapsedSeconds int        `json:"totalElapsedSeconds"`
	TotalMistakes       int        `json:"totalMistakes"`
	Summary             *Summary   `json:"summary,omitempty"`
}
