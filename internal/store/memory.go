// apps/go-server/internal/store/memory.go
//
// In-memory store for live study sessions (write, match, review).
// Sessions are ephemeral: they are lost when the process restarts.
//
// Characteristics:
//   - Entries are keyed by a random id and belong to one owner (user id).
//     Looking up another owner's entry behaves exactly like a missing one.
//   - Concurrency-safe via RWMutex on the map; each entry additionally
//     serialises access to its value (Entry.Do).
//   - Entries idle for longer than the TTL are removed by Sweep.
//   - An optional close hook runs for every entry that leaves the store,
//     so values owning timers can release them.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrNotFound is returned for unknown ids and for entries owned by someone else.
var ErrNotFound = errors.New("store: not found")

// Entry is one stored session.
type Entry[T any] struct {
	ID    string
	Owner string

	mu       sync.Mutex // guards value
	value    T
	lastUsed time.Time // guarded by the owning Memory's mu
}

// Do runs fn with exclusive access to the entry's value.
func (e *Entry[T]) Do(fn func(v T)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.value)
}

// Memory is a map-backed session store.
type Memory[T any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[T]
	ttl     time.Duration
	clock   clockwork.Clock
	onClose func(T)
}

// Option configures a Memory.
type Option[T any] func(*Memory[T])

// WithClock replaces the real clock, mostly for tests.
func WithClock[T any](c clockwork.Clock) Option[T] {
	return func(m *Memory[T]) { m.clock = c }
}

// WithCloseHook registers fn to run when an entry is deleted, swept or closed.
func WithCloseHook[T any](fn func(T)) Option[T] {
	return func(m *Memory[T]) { m.onClose = fn }
}

// NewMemory constructs a store evicting entries idle longer than ttl.
func NewMemory[T any](ttl time.Duration, opts ...Option[T]) *Memory[T] {
	m := &Memory[T]{
		entries: make(map[string]*Entry[T]),
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Put stores v for owner under a fresh id.
func (m *Memory[T]) Put(ctx context.Context, owner string, v T) *Entry[T] {
	e := &Entry[T]{
		ID:       uuid.NewString(),
		Owner:    owner,
		value:    v,
		lastUsed: m.clock.Now(),
	}
	m.mu.Lock()
	m.entries[e.ID] = e
	m.mu.Unlock()
	return e
}

// Get looks up id for owner and marks it used.
func (m *Memory[T]) Get(ctx context.Context, owner, id string) (*Entry[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.Owner != owner {
		return nil, ErrNotFound
	}
	e.lastUsed = m.clock.Now()
	return e, nil
}

// Delete removes id for owner and runs the close hook.
func (m *Memory[T]) Delete(ctx context.Context, owner, id string) error {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok || e.Owner != owner {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.entries, id)
	m.mu.Unlock()

	m.close(e)
	return nil
}

// Sweep removes entries idle for longer than the TTL at now and returns how
// many were removed.
func (m *Memory[T]) Sweep(now time.Time) int {
	var stale []*Entry[T]
	m.mu.Lock()
	for id, e := range m.entries {
		if now.Sub(e.lastUsed) > m.ttl {
			stale = append(stale, e)
			delete(m.entries, id)
		}
	}
	m.mu.Unlock()

	for _, e := range stale {
		m.close(e)
	}
	return len(stale)
}

// Close removes every entry, running the close hook for each.
func (m *Memory[T]) Close() {
	m.mu.Lock()
	all := m.entries
	m.entries = make(map[string]*Entry[T])
	m.mu.Unlock()

	for _, e := range all {
		m.close(e)
	}
}

// Len reports the number of stored entries.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory[T]) close(e *Entry[T]) {
	if m.onClose == nil {
		return
	}
	e.Do(m.onClose)
}
