// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the flashcards backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health", /auth/signup|login|logout.
//   - Authenticated endpoints: /auth/me, /sets CRUD, and the three study modes
//     (/write, /match, /review) backed by in-memory session stores.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Sessions belong to the user that started them; anyone else gets 404.
//   - Illegal study transitions answer 409 with the unchanged view.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flashcards/apps/go-server/internal/auth"
	"github.com/robalobadob/flashcards/apps/go-server/internal/config"
	"github.com/robalobadob/flashcards/apps/go-server/internal/phrases"
	"github.com/robalobadob/flashcards/apps/go-server/internal/sets"
	"github.com/robalobadob/flashcards/apps/go-server/internal/store"
)

// UserStore is the account storage the server needs.
type UserStore interface {
	Create(ctx context.Context, username, password string) (*auth.User, error)
	Authenticate(ctx context.Context, username, password string) (*auth.User, error)
	FindByID(ctx context.Context, id string) (*auth.User, error)
}

// SetStore is the set storage the server needs.
type SetStore interface {
	List(ctx context.Context, userID string) ([]sets.Set, error)
	Get(ctx context.Context, userID, id string) (*sets.Set, error)
	Create(ctx context.Context, userID string, in sets.Input) (*sets.Set, error)
	Update(ctx context.Context, userID, id string, in sets.Input) (*sets.Set, error)
	Delete(ctx context.Context, userID, id string) error
}

// Deps bundles everything New needs.
type Deps struct {
	Config  *config.Config
	Users   UserStore
	Tokens  *auth.Tokens
	Sets    SetStore
	Phrases *phrases.List

	// Clock drives match timers and session expiry. Nil uses the real clock.
	Clock clockwork.Clock
	// NewRand returns the randomness for one session. Nil seeds from the runtime.
	NewRand func() *rand.Rand
}

// Server bundles router, stores and session state.
type Server struct {
	r       *chi.Mux
	cfg     *config.Config
	users   UserStore
	tokens  *auth.Tokens
	sets    SetStore
	phrases *phrases.List
	clock   clockwork.Clock
	newRand func() *rand.Rand

	writes  *store.Memory[*writeSession]
	matches *store.Memory[*matchSession]
	reviews *store.Memory[*reviewSession]
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     d.Config,
		users:   d.Users,
		tokens:  d.Tokens,
		sets:    d.Sets,
		phrases: d.Phrases,
		clock:   d.Clock,
		newRand: d.NewRand,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.newRand == nil {
		s.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) }
	}

	ttl := d.Config.Session.TTL
	s.writes = store.NewMemory(ttl, store.WithClock[*writeSession](s.clock))
	s.matches = store.NewMemory(ttl,
		store.WithClock[*matchSession](s.clock),
		store.WithCloseHook(func(m *matchSession) { m.runner.Close() }),
	)
	s.reviews = store.NewMemory(ttl, store.WithClock[*reviewSession](s.clock))

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "flashcards-go",
			"endpoints": []string{"/health", "/auth/*", "/sets", "/write/{id}", "/match/{id}", "/review/{id}"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.mountAuthRoutes()

	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		s.mountSetRoutes(r)
		s.mountWriteRoutes(r)
		s.mountMatchRoutes(r)
		s.mountReviewRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.r }

// Sweep drops study sessions idle past the session TTL and returns how many went.
func (s *Server) Sweep(now time.Time) int {
	n := s.writes.Sweep(now) + s.matches.Sweep(now) + s.reviews.Sweep(now)
	if n > 0 {
		log.Info().Int("sessions", n).Msg("expired idle sessions")
	}
	return n
}

// Close ends every live session, stopping match timers.
func (s *Server) Close() {
	s.writes.Close()
	s.matches.Close()
	s.reviews.Close()
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.Server.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one log line per request; 5xx at error level.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	l := hlog.FromRequest(r)
	var ev *zerolog.Event
	if status >= http.StatusInternalServerError {
		ev = l.Error()
	} else {
		ev = l.Info()
	}
	ev.Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Str("req_id", chimw.GetReqID(r.Context())).
		Msg("request")
})

// ------------------------------- helpers -----------------------------------

const maxBodyBytes = 1 << 20

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeInternal logs err against the request and answers 500.
func writeInternal(w http.ResponseWriter, r *http.Request, err error, msg string) {
	hlog.FromRequest(r).Error().Err(err).Msg(msg)
	writeError(w, http.StatusInternalServerError, "internal")
}

// invalidTransition answers 409 with the unchanged view.
func invalidTransition(w http.ResponseWriter, view any) {
	writeJSON(w, http.StatusConflict, map[string]any{"error": "invalid_transition", "view": view})
}

// sessionLogger is the logger handed to long-lived session components.
func sessionLogger(r *http.Request, kind, userID, setID string) zerolog.Logger {
	return log.With().
		Str("mode", kind).
		Str("user", userID).
		Str("set", setID).
		Str("req_id", chimw.GetReqID(r.Context())).
		Logger()
}
