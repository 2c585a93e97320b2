// apps/go-server/internal/sets/repository.go
//
// SQLite persistence for sets and their cards.
// Responsibilities:
//   - CRUD scoped to the owning user; foreign sets look missing.
//   - Card positions are 0..n-1 in input order and rewritten on every update.
//   - Timestamps are stored as fixed-width UTC text so they sort lexically.

package sets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Repository stores sets in SQLite.
type Repository struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewRepository wraps db. A nil clock uses the real clock.
func NewRepository(db *sql.DB, clock clockwork.Clock) *Repository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Repository{db: db, clock: clock}
}

// List returns userID's sets, most recently updated first, without cards.
func (r *Repository) List(ctx context.Context, userID string) ([]Set, error) {
	query, args, err := psql.
		Select("s.id", "s.user_id", "s.title", "s.description", "s.created_at", "s.updated_at", "COUNT(c.id)").
		From("sets s").
		LeftJoin("cards c ON c.set_id = s.id").
		Where(sq.Eq{"s.user_id": userID}).
		GroupBy("s.id").
		OrderBy("s.updated_at DESC", "s.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	out := []Set{}
	for rows.Next() {
		var (
			s                Set
			created, updated string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &created, &updated, &s.CardCount); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		s.CreatedAt, s.UpdatedAt = parseTime(created), parseTime(updated)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns one set with its cards ordered by position.
func (r *Repository) Get(ctx context.Context, userID, id string) (*Set, error) {
	query, args, err := psql.
		Select("id", "user_id", "title", "description", "created_at", "updated_at").
		From("sets").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get: %w", err)
	}

	var (
		s                Set
		created, updated string
	)
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get set: %w", err)
	}
	s.CreatedAt, s.UpdatedAt = parseTime(created), parseTime(updated)

	if s.Cards, err = r.cards(ctx, s.ID); err != nil {
		return nil, err
	}
	s.CardCount = len(s.Cards)
	return &s, nil
}

func (r *Repository) cards(ctx context.Context, setID string) ([]deck.Card, error) {
	query, args, err := psql.
		Select("id", "front", "back", "position").
		From("cards").
		Where(sq.Eq{"set_id": setID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cards: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	out := []deck.Card{}
	for rows.Next() {
		var c deck.Card
		if err := rows.Scan(&c.ID, &c.Front, &c.Back, &c.Position); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create normalizes and validates in, then stores it as a new set for userID.
func (r *Repository) Create(ctx context.Context, userID string, in Input) (*Set, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := r.clock.Now().UTC().Format(timeLayout)

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := psql.
			Insert("sets").
			Columns("id", "user_id", "title", "description", "created_at", "updated_at").
			Values(id, userID, in.Title, in.Description, now, now).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert set: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert set: %w", err)
		}
		return insertCards(ctx, tx, id, in.Cards)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, id)
}

// Update replaces the title, description and every card of an existing set.
func (r *Repository) Update(ctx context.Context, userID, id string, in Input) (*Set, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := r.clock.Now().UTC().Format(timeLayout)
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := psql.
			Update("sets").
			Set("title", in.Title).
			Set("description", in.Description).
			Set("updated_at", now).
			Where(sq.Eq{"id": id, "user_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update set: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update set: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}

		query, args, err = psql.Delete("cards").Where(sq.Eq{"set_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete cards: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete cards: %w", err)
		}
		return insertCards(ctx, tx, id, in.Cards)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, id)
}

// Delete removes a set; its cards go with it.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	query, args, err := psql.
		Delete("sets").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete set: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func insertCards(ctx context.Context, tx *sql.Tx, setID string, cards []CardInput) error {
	if len(cards) == 0 {
		return nil
	}
	ins := psql.Insert("cards").Columns("id", "set_id", "front", "back", "position")
	for i, c := range cards {
		ins = ins.Values(uuid.NewString(), setID, c.Front, c.Back, i)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert cards: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert cards: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction, committing on nil and rolling back otherwise.
func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// parseTime parses a stored timestamp; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
