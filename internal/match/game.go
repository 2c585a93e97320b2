// apps/go-server/internal/match/game.go
//
// Round-based tile-matching game.
// Responsibilities:
//   - Partition the card snapshot into consecutive rounds of roundSize cards.
//   - Build one front and one back tile per card and shuffle them.
//   - Track selection, matches, mistakes and the round timer.
//   - Fold each finished round into game totals.
//
// Time is not read here: the owner calls Tick once per second and Settle
// after the mismatch delay (see Runner). That keeps Game deterministic and
// free of goroutines.
//
// A Game is not safe for concurrent use.

package match

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
	"github.com/robalobadob/flashcards/apps/go-server/internal/markup"
)

// Game is a whole matching run over a card snapshot.
type Game struct {
	cards       []deck.Card
	roundSize   int
	totalRounds int
	rng         *rand.Rand

	phase         Phase
	roundIndex    int
	totalElapsed  int
	totalMistakes int
	round         round

	// settleSeq identifies the pending mismatch. Bumped on every mismatch and
	// every new round so a stale Settle is ignored.
	settleSeq uint64
}

// round is the per-round state, reset by startRound.
type round struct {
	tiles        []Tile
	selected     []string
	matched      map[string]bool
	shaking      bool
	mistakes     int
	elapsed      int
	timerRunning bool
}

// New creates a game over a snapshot of cards.
// roundSize < 1 falls back to DefaultRoundSize. A nil rng gets a randomly seeded one.
func New(cards []deck.Card, roundSize int, rng *rand.Rand) (*Game, error) {
	snap, err := deck.Snapshot(cards)
	if err != nil {
		return nil, err
	}
	if roundSize < 1 {
		roundSize = DefaultRoundSize
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g := &Game{
		cards:       snap,
		roundSize:   roundSize,
		totalRounds: (len(snap) + roundSize - 1) / roundSize,
		rng:         rng,
	}
	g.startRound()
	return g, nil
}

// startRound builds and shuffles the tiles of g.roundIndex and clears round state.
func (g *Game) startRound() {
	start := g.roundIndex * g.roundSize
	end := min(start+g.roundSize, len(g.cards))
	cards := g.cards[start:end]

	tiles := make([]Tile, 0, 2*len(cards))
	for i, c := range cards {
		tiles = append(tiles, Tile{ID: fmt.Sprintf("f-%d", i), CardID: c.ID, Side: SideFront, Text: markup.Strip(c.Front)})
	}
	for i, c := range cards {
		tiles = append(tiles, Tile{ID: fmt.Sprintf("b-%d", i), CardID: c.ID, Side: SideBack, Text: markup.Strip(c.Back)})
	}
	g.rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })

	g.round = round{tiles: tiles, matched: make(map[string]bool, len(tiles))}
	g.phase = PhasePlaying
	g.settleSeq++
}

// Select handles a click on tileID.
//
// Ignored when the round is not being played, the tile is unknown, already
// matched or already selected, or a mismatched pair is still waiting to settle.
// The first accepted selection of a round starts its timer.
//
// On the second selection the pair matches iff both tiles belong to the same
// card and show different sides. A mismatch counts a mistake and leaves the
// pair selected until Settle is called with SettleToken().
func (g *Game) Select(tileID string) SelectOutcome {
	if g.phase != PhasePlaying {
		return OutcomeIgnored
	}
	r := &g.round
	tile, ok := g.tile(tileID)
	if !ok || r.matched[tileID] || len(r.selected) == 2 || slices.Contains(r.selected, tileID) {
		return OutcomeIgnored
	}

	r.timerRunning = true
	r.selected = append(r.selected, tileID)
	if len(r.selected) < 2 {
		return OutcomeSelected
	}

	first, _ := g.tile(r.selected[0])
	if first.CardID == tile.CardID && first.Side != tile.Side {
		r.matched[first.ID] = true
		r.matched[tile.ID] = true
		r.selected = nil
		if len(r.matched) == len(r.tiles) {
			g.completeRound()
			return OutcomeRoundComplete
		}
		return OutcomeMatched
	}

	r.mistakes++
	r.shaking = true
	g.settleSeq++
	return OutcomeMismatch
}

// completeRound stops the timer and credits the round to the totals.
// The tick in progress when the last pair was matched counts as a full second.
func (g *Game) completeRound() {
	r := &g.round
	r.timerRunning = false
	r.elapsed++
	g.totalElapsed += r.elapsed
	g.totalMistakes += r.mistakes
	g.phase = PhaseRoundComplete
}

// SettleToken identifies the mismatch currently waiting to settle.
func (g *Game) SettleToken() uint64 { return g.settleSeq }

// Settle clears a mismatched pair. It is a no-op unless token is the current
// SettleToken and a mismatch is pending.
func (g *Game) Settle(token uint64) bool {
	if token != g.settleSeq || !g.round.shaking {
		return false
	}
	g.round.shaking = false
	g.round.selected = nil
	return true
}

// Tick advances the round timer by one second while it is running.
func (g *Game) Tick() bool {
	if g.phase != PhasePlaying || !g.round.timerRunning {
		return false
	}
	g.round.elapsed++
	return true
}

// NextRound leaves a completed round: it starts the next one, or completes
// the game after the last round.
func (g *Game) NextRound() bool {
	if g.phase != PhaseRoundComplete {
		return false
	}
	if g.roundIndex+1 >= g.totalRounds {
		g.phase = PhaseGameComplete
		return true
	}
	g.roundIndex++
	g.startRound()
	return true
}

// Restart returns to the first round with totals reset and a fresh shuffle.
func (g *Game) Restart() {
	g.roundIndex = 0
	g.totalElapsed = 0
	g.totalMistakes = 0
	g.startRound()
}

func (g *Game) tile(id string) (Tile, bool) {
	for _, t := range g.round.tiles {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}

// Phase reports the current phase.
func (g *Game) Phase() Phase { return g.phase }

// TimerRunning reports whether the round timer is counting.
func (g *Game) TimerRunning() bool { return g.round.timerRunning }

// TotalRounds reports how many rounds the card set splits into.
func (g *Game) TotalRounds() int { return g.totalRounds }

// Tiles returns a copy of the current round's tiles in display order.
func (g *Game) Tiles() []Tile { return slices.Clone(g.round.tiles) }

// Summary reports the accumulated totals.
func (g *Game) Summary() Summary {
	return Summary{
		TotalElapsedSeconds: g.totalElapsed,
		TotalMistakes:       g.totalMistakes,
		TotalRounds:         g.totalRounds,
	}
}

// View returns a snapshot suitable for rendering.
func (g *Game) View() View {
	r := g.round
	tiles := make([]TileView, len(r.tiles))
	for i, t := range r.tiles {
		sel := slices.Contains(r.selected, t.ID)
		tiles[i] = TileView{
			Tile:     t,
			Selected: sel,
			Matched:  r.matched[t.ID],
			Shaking:  sel && r.shaking,
		}
	}
	v := View{
		Phase:               g.phase,
		RoundIndex:          g.roundIndex,
		TotalRounds:         g.totalRounds,
		Tiles:               tiles,
		Mistakes:            r.mistakes,
		ElapsedSeconds:      r.elapsed,
		TimerRunning:        r.timerRunning,
		TotalElapsedSeconds: g.totalElapsed,
		TotalMistakes:       g.totalMistakes,
	}
	if g.phase == PhaseGameComplete {
		s := g.Summary()
		v.Summary = &s
	}
	return v
}
