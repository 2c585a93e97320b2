// apps/go-server/internal/httpserver/routes_sets.go
//
// Set management:
//   - GET    /sets          → caller's sets, newest first
//   - POST   /sets          → create
//   - GET    /sets/{setID}  → one set with cards
//   - PUT    /sets/{setID}  → replace title, description and cards
//   - DELETE /sets/{setID}  → delete
//
// Study sessions started on a set keep their own snapshot, so editing or
// deleting a set never changes a session in progress.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
	"github.com/robalobadob/flashcards/apps/go-server/internal/markup"
	"github.com/robalobadob/flashcards/apps/go-server/internal/sets"
)

// cardView is a card as sent to clients, with rendered markup.
type cardView struct {
	ID        string `json:"id"`
	Front     string `json:"front"`
	Back      string `json:"back"`
	FrontHTML string `json:"frontHtml"`
	BackHTML  string `json:"backHtml"`
	Position  int    `json:"position"`
}

func newCardView(c deck.Card) cardView {
	return cardView{
		ID:        c.ID,
		Front:     c.Front,
		Back:      c.Back,
		FrontHTML: markup.RenderHTML(c.Front),
		BackHTML:  markup.RenderHTML(c.Back),
		Position:  c.Position,
	}
}

// setView is a set with rendered cards.
type setView struct {
	sets.Set
	Cards []cardView `json:"cards,omitempty"`
}

func newSetView(st *sets.Set) setView {
	v := setView{Set: *st}
	for _, c := range st.Cards {
		v.Cards = append(v.Cards, newCardView(c))
	}
	return v
}

func (s *Server) mountSetRoutes(r chi.Router) {
	r.Route("/sets", func(r chi.Router) {
		r.Get("/", s.handleListSets)
		r.Post("/", s.handleCreateSet)
		r.Get("/{setID}", s.handleGetSet)
		r.Put("/{setID}", s.handleUpdateSet)
		r.Delete("/{setID}", s.handleDeleteSet)

		// study sessions over a snapshot of the set
		r.Post("/{setID}/write", s.handleStartWrite)
		r.Post("/{setID}/match", s.handleStartMatch)
		r.Post("/{setID}/review", s.handleStartReview)
	})
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	list, err := s.sets.List(r.Context(), currentUser(r).ID)
	if err != nil {
		writeInternal(w, r, err, "list sets")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadSet(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSetView(st))
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var in sets.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	st, err := s.sets.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		s.writeSetError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("set", st.ID).Int("cards", st.CardCount).Msg("set created")
	writeJSON(w, http.StatusCreated, newSetView(st))
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var in sets.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	st, err := s.sets.Update(r.Context(), currentUser(r).ID, chi.URLParam(r, "setID"), in)
	if err != nil {
		s.writeSetError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSetView(st))
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	if err := s.sets.Delete(r.Context(), currentUser(r).ID, chi.URLParam(r, "setID")); err != nil {
		s.writeSetError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// loadSet fetches {setID} for the current user, answering 404/500 itself.
func (s *Server) loadSet(w http.ResponseWriter, r *http.Request) (*sets.Set, bool) {
	st, err := s.sets.Get(r.Context(), currentUser(r).ID, chi.URLParam(r, "setID"))
	if err != nil {
		s.writeSetError(w, r, err)
		return nil, false
	}
	return st, true
}

func (s *Server) writeSetError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *sets.ValidationError
	switch {
	case errors.Is(err, sets.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "validation",
			"field":   ve.Field,
			"message": ve.Message,
		})
	default:
		writeInternal(w, r, err, "sets")
	}
}
