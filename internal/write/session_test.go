package write

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
)

func fiveCards() []deck.Card {
	return []deck.Card{
		{ID: "c1", Front: "capital of France", Back: "Paris", Position: 0},
		{ID: "c2", Front: "capital of Italy", Back: "Rome", Position: 1},
		{ID: "c3", Front: "capital of Spain", Back: "Madrid", Position: 2},
		{ID: "c4", Front: "capital of Peru", Back: "Lima", Position: 3},
		{ID: "c5", Front: "capital of Chad", Back: "N'Djamena", Position: 4},
	}
}

// answerAll submits the card back (or "wrong") for each card in the current queue.
func answerAll(t *testing.T, s *Session, wrong map[string]bool) {
	t.Helper()
	for s.Phase() == PhasePresenting {
		c, ok := s.Current()
		require.True(t, ok)
		answer := c.Back
		if wrong[c.ID] {
			answer = "no idea"
		}
		_, ok = s.Submit(answer)
		require.True(t, ok)
		startRound := s.Round()
		require.True(t, s.Advance())
		if s.Round() != startRound {
			return
		}
	}
}

func queueIDs(s *Session) []string {
	var ids []string
	for _, c := range s.Queue() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestNew_Empty(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	assert.ErrorIs(t, err, deck.ErrEmpty)
}

func TestNew_OrdersByPosition(t *testing.T) {
	t.Parallel()

	s, err := New([]deck.Card{{ID: "b", Position: 1}, {ID: "a", Position: 0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, queueIDs(s))
}

func TestSubmit_BlankIsNoop(t *testing.T) {
	t.Parallel()

	s, err := New(fiveCards())
	require.NoError(t, err)

	_, ok := s.Submit("   \n")
	assert.False(t, ok)
	assert.Equal(t, PhasePresenting, s.Phase())
	assert.Empty(t, s.Scores())
}

func TestSubmit_OnlyWhilePresenting(t *testing.T) {
	t.Parallel()

	s, err := New(fiveCards())
	require.NoError(t, err)

	_, ok := s.Submit("Paris")
	require.True(t, ok)
	_, ok = s.Submit("Paris")
	assert.False(t, ok, "second submit before advance is ignored")
	assert.Equal(t, PhaseGraded, s.Phase())
}

func TestOverride(t *testing.T) {
	t.Parallel()

	s, err := New(fiveCards())
	require.NoError(t, err)

	res, ok := s.Submit("London")
	require.True(t, ok)
	require.False(t, res.IsCorrect)

	require.True(t, s.Override())
	v := s.View()
	require.NotNil(t, v.Result)
	assert.True(t, v.Result.IsCorrect)
	assert.True(t, v.Result.Overridden)
	assert.True(t, v.Result.CorrectWords[0].Missing, "word markers are preserved")
	assert.False(t, v.Result.UserWords[0].Correct)
	assert.Equal(t, Score{FirstTryCorrect: true}, s.Scores()["c1"])

	assert.False(t, s.Override(), "override of a correct answer is a no-op")
}

func TestOverride_NotGraded(t *testing.T) {
	t.Parallel()

	s, err := New(fiveCards())
	require.NoError(t, err)
	assert.False(t, s.Override())
}

func TestAdvance_NotGraded(t *testing.T) {
	t.Parallel()

	s, err := New(fiveCards())
	require.NoError(t, err)
	assert.False(t, s.Advance())
	assert.Equal(t, 0, s.View().Index)
}

func TestRequeue_MissedCardsInOrder(t *testing.T) {
	t.Parallel()

	s, err := New(fiveCards())
	require.NoError(t, err)

	answerAll(t, s, map[string]bool{"c4": true, "c2": true})
	require.Equal(t, 2, s.Round())
	assert.Equal(t, []string{"c2", "c4"}, queueIDs(s))
	assert.Equal(t, PhasePresenting, s.Phase())
	assert.Equal(t, 0, s.View().Index)

	// Round 2: get c2 right, c4 wrong again.
	answerAll(t, s, map[string]bool{"c4": true})
	require.Equal(t, 3, s.Round())
	assert.Equal(t, []string{"c4"}, queueIDs(s))

	scores := s.Scores()
	require.Len(t, scores, 5)
	assert.False(t, scores["c2"].FirstTryCorrect, "later rounds never rewrite first-try scores")
	assert.False(t, scores["c4"].FirstTryCorrect)
	assert.True(t, scores["c1"].FirstTryCorrect)

	answerAll(t, s, nil)
	assert.Equal(t, PhaseComplete, s.Phase())
	assert.Equal(t, Summary{FirstTryCorrect: 3, TotalCards: 5, Rounds: 3}, s.Summary())

	_, ok := s.Current()
	assert.False(t, ok)
	v := s.View()
	require.NotNil(t, v.Summary)
	assert.Nil(t, v.Card)
}

func TestOverride_LaterRoundLeavesScores(t *testing.T) {
	t.Parallel()

	s, err := New(fiveCards())
	require.NoError(t, err)

	answerAll(t, s, map[string]bool{"c3": true})
	require.Equal(t, 2, s.Round())

	_, ok := s.Submit("wrong again")
	require.True(t, ok)
	require.True(t, s.Override())
	assert.False(t, s.Scores()["c3"].FirstTryCorrect)

	require.True(t, s.Advance())
	assert.Equal(t, PhaseComplete, s.Phase(), "overridden answers count as correct for the round")
}

func TestAllCorrect_CompletesInOneRound(t *testing.T) {
	t.Parallel()

	s, err := New(fiveCards())
	require.NoError(t, err)

	answerAll(t, s, nil)
	assert.Equal(t, PhaseComplete, s.Phase())
	assert.Equal(t, Summary{FirstTryCorrect: 5, TotalCards: 5, Rounds: 1}, s.Summary())
	assert.False(t, s.Advance())
}

func TestRestart(t *testing.T) {
	t.Parallel()

	s, err := New(fiveCards())
	require.NoError(t, err)

	answerAll(t, s, map[string]bool{"c1": true})
	require.Equal(t, 2, s.Round())

	s.Restart()
	assert.Equal(t, 1, s.Round())
	assert.Empty(t, s.Scores())
	assert.Len(t, s.Queue(), 5)
	assert.Equal(t, PhasePresenting, s.Phase())
}
