// apps/go-server/internal/httpserver/routes_review.go
//
// Flip-card review mode:
//   - POST   /sets/{setID}/review    → start a review
//   - GET    /review/{id}            → current view
//   - POST   /review/{id}/flip|next|prev|shuffle|reset
//   - DELETE /review/{id}            → end the review

package httpserver

import (
	"math/rand/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/flashcards/apps/go-server/internal/review"
)

type reviewSession struct {
	setID string
	sess  *review.Session
	rng   *rand.Rand
}

type reviewView struct {
	ID       string   `json:"id"`
	SetID    string   `json:"setId"`
	Card     cardView `json:"card"`
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Flipped  bool     `json:"flipped"`
	Progress float64  `json:"progress"`
}

func (rs *reviewSession) view(id string) reviewView {
	v := rs.sess.View()
	return reviewView{
		ID:       id,
		SetID:    rs.setID,
		Card:     newCardView(v.Card),
		Index:    v.Index,
		Total:    v.Total,
		Flipped:  v.Flipped,
		Progress: v.Progress,
	}
}

func (s *Server) mountReviewRoutes(r chi.Router) {
	r.Route("/review/{id}", func(r chi.Router) {
		r.Get("/", s.reviewAction(nil))
		r.Delete("/", endSession(s.reviews))
		r.Post("/flip", s.reviewAction(func(rs *reviewSession) bool {
			rs.sess.Flip()
			return true
		}))
		r.Post("/next", s.reviewAction(func(rs *reviewSession) bool { return rs.sess.Next() }))
		r.Post("/prev", s.reviewAction(func(rs *reviewSession) bool { return rs.sess.Prev() }))
		r.Post("/shuffle", s.reviewAction(func(rs *reviewSession) bool {
			rs.sess.Shuffle(rs.rng)
			return true
		}))
		r.Post("/reset", s.reviewAction(func(rs *reviewSession) bool {
			rs.sess.Reset()
			return true
		}))
	})
}

func (s *Server) handleStartReview(w http.ResponseWriter, r *http.Request) {
	setID, cards, ok := s.sessionCards(w, r)
	if !ok {
		return
	}
	sess, err := review.New(cards)
	if err != nil {
		startFailed(w, r, err)
		return
	}
	rs := &reviewSession{setID: setID, sess: sess, rng: s.newRand()}
	e := s.reviews.Put(r.Context(), currentUser(r).ID, rs)

	var v reviewView
	e.Do(func(rs *reviewSession) { v = rs.view(e.ID) })
	writeJSON(w, http.StatusCreated, v)
}

// reviewAction mirrors writeAction for review sessions.
func (s *Server) reviewAction(act func(rs *reviewSession) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := lookup(w, r, s.reviews)
		if !ok {
			return
		}
		var (
			v    reviewView
			done = true
		)
		e.Do(func(rs *reviewSession) {
			if act != nil {
				done = act(rs)
			}
			v = rs.view(e.ID)
		})
		if !done {
			invalidTransition(w, v)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}
