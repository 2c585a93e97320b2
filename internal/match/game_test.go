package match

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
)

func makeCards(n int) []deck.Card {
	cards := make([]deck.Card, n)
	for i := range cards {
		cards[i] = deck.Card{
			ID:       fmt.Sprintf("card-%d", i),
			Front:    fmt.Sprintf("**front** %d", i),
			Back:     fmt.Sprintf("back %d", i),
			Position: i,
		}
	}
	return cards
}

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func newGame(t *testing.T, n, roundSize int) *Game {
	t.Helper()
	g, err := New(makeCards(n), roundSize, seeded())
	require.NoError(t, err)
	return g
}

// tileID finds the id of the tile showing side of cardID in the current round.
func tileID(t *testing.T, g *Game, cardID string, side Side) string {
	t.Helper()
	for _, tl := range g.Tiles() {
		if tl.CardID == cardID && tl.Side == side {
			return tl.ID
		}
	}
	t.Fatalf("no %s tile for %s", side, cardID)
	return ""
}

// solveRound matches every pair in the current round.
func solveRound(t *testing.T, g *Game) {
	t.Helper()
	seen := map[string]bool{}
	for _, tl := range g.Tiles() {
		if seen[tl.CardID] {
			continue
		}
		seen[tl.CardID] = true
		g.Select(tileID(t, g, tl.CardID, SideFront))
		g.Select(tileID(t, g, tl.CardID, SideBack))
	}
	require.Equal(t, PhaseRoundComplete, g.Phase())
}

func TestNew_Empty(t *testing.T) {
	t.Parallel()

	_, err := New(nil, DefaultRoundSize, seeded())
	assert.ErrorIs(t, err, deck.ErrEmpty)
}

func TestRounds_Partition(t *testing.T) {
	t.Parallel()

	g := newGame(t, 10, 6)
	assert.Equal(t, 2, g.TotalRounds())
	assert.Len(t, g.Tiles(), 12)

	for _, tl := range g.Tiles() {
		var idx int
		_, err := fmt.Sscanf(tl.CardID, "card-%d", &idx)
		require.NoError(t, err)
		assert.Less(t, idx, 6, "round 1 holds the first six cards")
	}

	solveRound(t, g)
	require.True(t, g.NextRound())
	assert.Len(t, g.Tiles(), 8)
	for _, tl := range g.Tiles() {
		var idx int
		_, err := fmt.Sscanf(tl.CardID, "card-%d", &idx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 6)
	}
}

func TestRounds_DefaultSize(t *testing.T) {
	t.Parallel()

	g := newGame(t, 13, 0)
	assert.Equal(t, 3, g.TotalRounds())
}

func TestTiles_StripMarkup(t *testing.T) {
	t.Parallel()

	g := newGame(t, 1, 6)
	for _, tl := range g.Tiles() {
		if tl.Side == SideFront {
			assert.Equal(t, "front 0", tl.Text)
		}
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	t.Parallel()

	a := newGame(t, 6, 6)
	b := newGame(t, 6, 6)
	assert.Equal(t, a.Tiles(), b.Tiles(), "same seed, same order")
}

func TestSelect_Match(t *testing.T) {
	t.Parallel()

	g := newGame(t, 3, 6)
	assert.False(t, g.TimerRunning())

	assert.Equal(t, OutcomeSelected, g.Select(tileID(t, g, "card-1", SideBack)))
	assert.True(t, g.TimerRunning(), "first selection starts the timer")
	assert.Equal(t, OutcomeMatched, g.Select(tileID(t, g, "card-1", SideFront)))

	v := g.View()
	matched := 0
	for _, tv := range v.Tiles {
		if tv.Matched {
			matched++
			assert.Equal(t, "card-1", tv.CardID)
		}
		assert.False(t, tv.Selected)
	}
	assert.Equal(t, 2, matched)
	assert.Equal(t, 0, v.Mistakes)
}

func TestSelect_SameSideNeverMatches(t *testing.T) {
	t.Parallel()

	// Two cards sharing an id give two front tiles with the same card id.
	cards := []deck.Card{
		{ID: "dup", Front: "a", Back: "x", Position: 0},
		{ID: "dup", Front: "b", Back: "y", Position: 1},
	}
	g, err := New(cards, 6, seeded())
	require.NoError(t, err)

	assert.Equal(t, OutcomeSelected, g.Select("f-0"))
	assert.Equal(t, OutcomeMismatch, g.Select("f-1"))
	assert.Equal(t, 1, g.View().Mistakes)
}

func TestSelect_MismatchBlocksUntilSettled(t *testing.T) {
	t.Parallel()

	g := newGame(t, 3, 6)
	a := tileID(t, g, "card-0", SideFront)
	b := tileID(t, g, "card-1", SideBack)
	c := tileID(t, g, "card-2", SideFront)

	g.Select(a)
	require.Equal(t, OutcomeMismatch, g.Select(b))
	token := g.SettleToken()

	v := g.View()
	assert.Equal(t, 1, v.Mistakes)
	shaking := 0
	for _, tv := range v.Tiles {
		if tv.Shaking {
			shaking++
		}
	}
	assert.Equal(t, 2, shaking)

	assert.Equal(t, OutcomeIgnored, g.Select(c), "no selection while a pair is settling")

	assert.False(t, g.Settle(token-1), "stale token")
	require.True(t, g.Settle(token))
	assert.False(t, g.Settle(token), "already settled")

	for _, tv := range g.View().Tiles {
		assert.False(t, tv.Selected)
		assert.False(t, tv.Shaking)
	}
	assert.Equal(t, OutcomeSelected, g.Select(c))
}

func TestSelect_Ignored(t *testing.T) {
	t.Parallel()

	g := newGame(t, 2, 6)
	f0 := tileID(t, g, "card-0", SideFront)
	b0 := tileID(t, g, "card-0", SideBack)

	assert.Equal(t, OutcomeIgnored, g.Select("nope"))
	assert.False(t, g.TimerRunning(), "ignored selection does not start the timer")

	g.Select(f0)
	assert.Equal(t, OutcomeIgnored, g.Select(f0), "already selected")
	g.Select(b0)
	assert.Equal(t, OutcomeIgnored, g.Select(f0), "already matched")
}

func TestRoundComplete_StopsTimer(t *testing.T) {
	t.Parallel()

	g := newGame(t, 2, 6)
	g.Select(tileID(t, g, "card-0", SideFront))
	g.Tick()
	g.Tick()
	g.Select(tileID(t, g, "card-1", SideBack)) // mistake
	g.Settle(g.SettleToken())
	g.Tick()

	g.Select(tileID(t, g, "card-0", SideFront))
	g.Select(tileID(t, g, "card-0", SideBack))
	g.Select(tileID(t, g, "card-1", SideFront))
	assert.Equal(t, OutcomeRoundComplete, g.Select(tileID(t, g, "card-1", SideBack)))

	v := g.View()
	assert.Equal(t, PhaseRoundComplete, v.Phase)
	assert.False(t, v.TimerRunning)
	assert.Equal(t, 4, v.ElapsedSeconds, "three ticks plus the completing tick")
	assert.Equal(t, 4, v.TotalElapsedSeconds)
	assert.Equal(t, 1, v.TotalMistakes)

	assert.False(t, g.Tick())
	assert.Equal(t, OutcomeIgnored, g.Select(tileID(t, g, "card-0", SideFront)))
	assert.Equal(t, 4, g.View().ElapsedSeconds)
}

func TestNextRound_OnlyFromRoundComplete(t *testing.T) {
	t.Parallel()

	g := newGame(t, 7, 6)
	assert.False(t, g.NextRound())

	solveRound(t, g)
	require.True(t, g.NextRound())
	assert.Equal(t, PhasePlaying, g.Phase())
	v := g.View()
	assert.Equal(t, 1, v.RoundIndex)
	assert.Equal(t, 0, v.ElapsedSeconds)
	assert.False(t, v.TimerRunning)

	solveRound(t, g)
	require.True(t, g.NextRound())
	assert.Equal(t, PhaseGameComplete, g.Phase())
	assert.False(t, g.NextRound())

	v = g.View()
	require.NotNil(t, v.Summary)
	assert.Equal(t, Summary{TotalElapsedSeconds: 2, TotalMistakes: 0, TotalRounds: 2}, *v.Summary)
}

func TestRestart(t *testing.T) {
	t.Parallel()

	g := newGame(t, 8, 6)
	g.Select(tileID(t, g, "card-0", SideFront))
	g.Select(tileID(t, g, "card-1", SideBack))
	pending := g.SettleToken()
	g.Tick()

	g.Restart()
	v := g.View()
	assert.Equal(t, PhasePlaying, v.Phase)
	assert.Equal(t, 0, v.RoundIndex)
	assert.Equal(t, 0, v.Mistakes)
	assert.Equal(t, 0, v.ElapsedSeconds)
	assert.Equal(t, 0, v.TotalMistakes)
	assert.Len(t, v.Tiles, 12)
	assert.False(t, g.Settle(pending), "mismatch from before restart cannot settle the new round")
}
