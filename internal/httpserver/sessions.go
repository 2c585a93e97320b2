// apps/go-server/internal/httpserver/sessions.go
//
// Shared plumbing for the study-mode routes: starting a session from a set
// and resolving {id} to a session owned by the caller.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
	"github.com/robalobadob/flashcards/apps/go-server/internal/store"
)

// lookup resolves the {id} URL param in m for the current user, answering 404 itself.
func lookup[T any](w http.ResponseWriter, r *http.Request, m *store.Memory[T]) (*store.Entry[T], bool) {
	e, err := m.Get(r.Context(), currentUser(r).ID, chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session_not_found")
		return nil, false
	}
	if err != nil {
		writeInternal(w, r, err, "lookup session")
		return nil, false
	}
	return e, true
}

// endSession deletes {id} from m for the current user.
func endSession[T any](m *store.Memory[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Delete(r.Context(), currentUser(r).ID, chi.URLParam(r, "id")); err != nil {
			writeError(w, http.StatusNotFound, "session_not_found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// sessionCards loads {setID} for the current user and returns its cards.
// It answers the request itself when ok is false.
func (s *Server) sessionCards(w http.ResponseWriter, r *http.Request) (setID string, cards []deck.Card, ok bool) {
	st, ok := s.loadSet(w, r)
	if !ok {
		return "", nil, false
	}
	if len(st.Cards) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "empty_set")
		return "", nil, false
	}
	return st.ID, st.Cards, true
}

// startFailed answers a session constructor error.
func startFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, deck.ErrEmpty) {
		writeError(w, http.StatusUnprocessableEntity, "empty_set")
		return
	}
	writeInternal(w, r, err, "start session")
}
