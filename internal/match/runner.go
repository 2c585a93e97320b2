// apps/go-server/internal/match/runner.go
//
// Runner drives a Game in real (or fake) time.
// Responsibilities:
//   - Run a one-second ticker while the round timer is running.
//   - Schedule the mismatch settle callback.
//   - Serialise input events and callbacks on one mutex.
//   - Cancel every pending callback on Close, so a torn-down session is never
//     mutated afterwards.

package match

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// DefaultSettleDelay is how long a mismatched pair stays selected.
const DefaultSettleDelay = 500 * time.Millisecond

// Runner owns one Game and its timers.
type Runner struct {
	mu          sync.Mutex
	game        *Game
	clock       clockwork.Clock
	settleDelay time.Duration
	log         zerolog.Logger

	ticker   clockwork.Ticker
	tickDone chan struct{}
	settle   clockwork.Timer
	closed   bool
}

// NewRunner wraps g. A nil clock uses the real clock.
func NewRunner(g *Game, clock clockwork.Clock, settleDelay time.Duration, logger zerolog.Logger) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{game: g, clock: clock, settleDelay: settleDelay, log: logger}
}

// Select forwards a tile click to the game and starts/stops timers to match.
func (r *Runner) Select(tileID string) (View, SelectOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.game.View(), OutcomeIgnored
	}

	out := r.game.Select(tileID)
	switch out {
	case OutcomeMismatch:
		r.scheduleSettle(r.game.SettleToken())
	case OutcomeRoundComplete:
		v := r.game.View()
		r.log.Info().
			Int("round", v.RoundIndex+1).
			Int("elapsed", v.ElapsedSeconds).
			Int("mistakes", v.Mistakes).
			Msg("match round complete")
	}
	r.syncTicker()
	return r.game.View(), out
}

// NextRound moves past a completed round.
func (r *Runner) NextRound() (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.game.View(), false
	}
	ok := r.game.NextRound()
	if ok && r.game.Phase() == PhaseGameComplete {
		s := r.game.Summary()
		r.log.Info().
			Int("elapsed", s.TotalElapsedSeconds).
			Int("mistakes", s.TotalMistakes).
			Int("rounds", s.TotalRounds).
			Msg("match game complete")
	}
	r.cancelSettle()
	r.syncTicker()
	return r.game.View(), ok
}

// Restart resets the game to its first round.
func (r *Runner) Restart() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.game.View()
	}
	r.game.Restart()
	r.cancelSettle()
	r.syncTicker()
	return r.game.View()
}

// View returns a snapshot of the game.
func (r *Runner) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.View()
}

// Close cancels the ticker and any pending settle. Safe to call more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.stopTicker()
	r.cancelSettle()
	r.log.Debug().Msg("match runner closed")
}

// syncTicker runs the ticker iff the round timer is running. Caller holds mu.
func (r *Runner) syncTicker() {
	running := r.game.TimerRunning()
	switch {
	case running && r.ticker == nil:
		r.ticker = r.clock.NewTicker(time.Second)
		r.tickDone = make(chan struct{})
		go r.tickLoop(r.ticker, r.tickDone)
	case !running && r.ticker != nil:
		r.stopTicker()
	}
}

func (r *Runner) stopTicker() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	close(r.tickDone)
	r.ticker, r.tickDone = nil, nil
}

func (r *Runner) tickLoop(t clockwork.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-t.Chan():
			r.mu.Lock()
			select {
			case <-done:
				// stopped while this tick waited for the lock
				r.mu.Unlock()
				return
			default:
			}
			r.game.Tick()
			r.mu.Unlock()
		}
	}
}

// scheduleSettle arms the settle callback for token. Caller holds mu.
func (r *Runner) scheduleSettle(token uint64) {
	r.cancelSettle()
	r.settle = r.clock.AfterFunc(r.settleDelay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return
		}
		r.game.Settle(token)
	})
}

func (r *Runner) cancelSettle() {
	if r.settle != nil {
		r.settle.Stop()
		r.settle = nil
	}
}
