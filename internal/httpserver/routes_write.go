// apps/go-server/internal/httpserver/routes_write.go
//
// Written-recall mode:
//   - POST   /sets/{setID}/write     → start a session
//   - GET    /write/{id}             → current view
//   - POST   /write/{id}/submit      → grade {answer}
//   - POST   /write/{id}/override    → accept a rejected answer
//   - POST   /write/{id}/advance     → next card / next round / complete
//   - POST   /write/{id}/restart     → start over from round 1
//   - DELETE /write/{id}             → end the session

package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flashcards/apps/go-server/internal/worddiff"
	"github.com/robalobadob/flashcards/apps/go-server/internal/write"
)

type writeSession struct {
	setID  string
	sess   *write.Session
	phrase string
}

type writeView struct {
	ID       string           `json:"id"`
	SetID    string           `json:"setId"`
	Phase    write.Phase      `json:"phase"`
	Round    int              `json:"round"`
	Index    int              `json:"index"`
	QueueLen int              `json:"queueLen"`
	Card     *cardView        `json:"card,omitempty"`
	Result   *worddiff.Result `json:"result,omitempty"`
	Summary  *write.Summary   `json:"summary,omitempty"`
	Phrase   string           `json:"phrase,omitempty"`
}

func (ws *writeSession) view(id string) writeView {
	v := ws.sess.View()
	out := writeView{
		ID:       id,
		SetID:    ws.setID,
		Phase:    v.Phase,
		Round:    v.Round,
		Index:    v.Index,
		QueueLen: v.QueueLen,
		Result:   v.Result,
		Summary:  v.Summary,
	}
	if v.Card != nil {
		cv := newCardView(*v.Card)
		out.Card = &cv
	}
	if v.Phase == write.PhaseComplete {
		out.Phrase = ws.phrase
	}
	return out
}

func (s *Server) mountWriteRoutes(r chi.Router) {
	r.Route("/write/{id}", func(r chi.Router) {
		r.Get("/", s.writeAction(nil))
		r.Delete("/", endSession(s.writes))
		r.Post("/submit", s.handleWriteSubmit)
		r.Post("/override", s.writeAction(func(ws *writeSession) bool { return ws.sess.Override() }))
		r.Post("/advance", s.writeAction(func(ws *writeSession) bool { return ws.sess.Advance() }))
		r.Post("/restart", s.writeAction(func(ws *writeSession) bool {
			ws.sess.Restart()
			return true
		}))
	})
}

func (s *Server) handleStartWrite(w http.ResponseWriter, r *http.Request) {
	setID, cards, ok := s.sessionCards(w, r)
	if !ok {
		return
	}
	sess, err := write.New(cards)
	if err != nil {
		startFailed(w, r, err)
		return
	}
	ws := &writeSession{setID: setID, sess: sess, phrase: s.phrases.Pick(s.newRand())}
	e := s.writes.Put(r.Context(), currentUser(r).ID, ws)
	log.Debug().Str("session", e.ID).Str("set", setID).Int("cards", len(cards)).Msg("write session started")

	var v writeView
	e.Do(func(ws *writeSession) { v = ws.view(e.ID) })
	writeJSON(w, http.StatusCreated, v)
}

type submitReq struct {
	Answer string `json:"answer"`
}

// handleWriteSubmit grades an answer. A blank answer changes nothing and is not an error.
func (s *Server) handleWriteSubmit(w http.ResponseWriter, r *http.Request) {
	var body submitReq
	if err := decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	blank := strings.TrimSpace(body.Answer) == ""
	s.writeAction(func(ws *writeSession) bool {
		if blank {
			return true
		}
		_, ok := ws.sess.Submit(body.Answer)
		return ok
	})(w, r)
}

// writeAction runs act on the session under its lock and answers with the
// resulting view, or 409 when act reports an illegal transition.
// A nil act just returns the view.
func (s *Server) writeAction(act func(ws *writeSession) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := lookup(w, r, s.writes)
		if !ok {
			return
		}
		var (
			v    writeView
			done = true
		)
		e.Do(func(ws *writeSession) {
			if act != nil {
				done = act(ws)
			}
			v = ws.view(e.ID)
		})
		if !done {
			invalidTransition(w, v)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}
