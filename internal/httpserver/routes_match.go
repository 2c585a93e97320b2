// apps/go-server/internal/httpserver/routes_match.go
//
// Tile-matching mode:
//   - POST   /sets/{setID}/match      → start a game
//   - GET    /match/{id}              → current view (timer included)
//   - POST   /match/{id}/select       → click {tileId}
//   - POST   /match/{id}/next-round   → leave a completed round
//   - POST   /match/{id}/restart      → back to round 1, fresh shuffle
//   - DELETE /match/{id}              → end the game and cancel its timers
//
// Timers run server-side in match.Runner, so polling GET shows the clock
// ticking and a mismatched pair clearing on its own.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flashcards/apps/go-server/internal/match"
)

type matchSession struct {
	setID  string
	runner *match.Runner
	phrase string
}

type matchView struct {
	ID    string `json:"id"`
	SetID string `json:"setId"`
	match.View
	Outcome match.SelectOutcome `json:"outcome,omitempty"`
	Phrase  string              `json:"phrase,omitempty"`
}

func (ms *matchSession) view(id string, v match.View) matchView {
	out := matchView{ID: id, SetID: ms.setID, View: v}
	if v.Phase == match.PhaseGameComplete {
		out.Phrase = ms.phrase
	}
	return out
}

func (s *Server) mountMatchRoutes(r chi.Router) {
	r.Route("/match/{id}", func(r chi.Router) {
		r.Get("/", s.handleMatchView)
		r.Delete("/", endSession(s.matches))
		r.Post("/select", s.handleMatchSelect)
		r.Post("/next-round", s.handleMatchNextRound)
		r.Post("/restart", s.handleMatchRestart)
	})
}

func (s *Server) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	setID, cards, ok := s.sessionCards(w, r)
	if !ok {
		return
	}
	rng := s.newRand()
	g, err := match.New(cards, s.cfg.Session.MatchRoundSize, rng)
	if err != nil {
		startFailed(w, r, err)
		return
	}
	uid := currentUser(r).ID
	runner := match.NewRunner(g, s.clock, s.cfg.Session.MatchSettleDelay, sessionLogger(r, "match", uid, setID))
	ms := &matchSession{setID: setID, runner: runner, phrase: s.phrases.Pick(rng)}
	e := s.matches.Put(r.Context(), uid, ms)
	log.Debug().Str("session", e.ID).Str("set", setID).Int("rounds", g.TotalRounds()).Msg("match session started")

	writeJSON(w, http.StatusCreated, ms.view(e.ID, runner.View()))
}

func (s *Server) handleMatchView(w http.ResponseWriter, r *http.Request) {
	e, ok := lookup(w, r, s.matches)
	if !ok {
		return
	}
	var v matchView
	e.Do(func(ms *matchSession) { v = ms.view(e.ID, ms.runner.View()) })
	writeJSON(w, http.StatusOK, v)
}

type selectReq struct {
	TileID string `json:"tileId"`
}

// handleMatchSelect forwards a click. Ignored clicks are not errors: the
// outcome says what happened.
func (s *Server) handleMatchSelect(w http.ResponseWriter, r *http.Request) {
	var body selectReq
	if err := decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	e, ok := lookup(w, r, s.matches)
	if !ok {
		return
	}
	var v matchView
	e.Do(func(ms *matchSession) {
		mv, out := ms.runner.Select(body.TileID)
		v = ms.view(e.ID, mv)
		v.Outcome = out
	})
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleMatchNextRound(w http.ResponseWriter, r *http.Request) {
	e, ok := lookup(w, r, s.matches)
	if !ok {
		return
	}
	var (
		v    matchView
		done bool
	)
	e.Do(func(ms *matchSession) {
		mv, moved := ms.runner.NextRound()
		v, done = ms.view(e.ID, mv), moved
	})
	if !done {
		invalidTransition(w, v)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleMatchRestart(w http.ResponseWriter, r *http.Request) {
	e, ok := lookup(w, r, s.matches)
	if !ok {
		return
	}
	var v matchView
	e.Do(func(ms *matchSession) { v = ms.view(e.ID, ms.runner.Restart()) })
	writeJSON(w, http.StatusOK, v)
}
