// apps/go-server/internal/auth/users.go
//
// User accounts stored in SQLite.
// Responsibilities:
//   - Signup rules for usernames and passwords.
//   - Case-insensitive username uniqueness.
//   - bcrypt password hashing and verification.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("auth: username taken")
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	ErrUserNotFound       = errors.New("auth: user not found")
	// ErrInvalidInput is wrapped with a human-readable reason.
	ErrInvalidInput = errors.New("auth: invalid input")
)

// User is an account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Users is the SQLite user repository.
type Users struct {
	db   *sql.DB
	cost int
}

// NewUsers wraps db. cost <= 0 uses bcrypt.DefaultCost.
func NewUsers(db *sql.DB, cost int) *Users {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Users{db: db, cost: cost}
}

func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return fmt.Errorf("%w: username must be 3-24 chars", ErrInvalidInput)
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username: letters, numbers, underscore only", ErrInvalidInput)
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return fmt.Errorf("%w: password must be 8-100 chars", ErrInvalidInput)
	}
	return nil
}

// Create validates, hashes and inserts a new user.
func (u *Users) Create(ctx context.Context, username, password string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, password); err != nil {
		return nil, err
	}
	if _, err := u.findOne(ctx, sq.Expr("lower(username) = lower(?)", username)); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	query, args, err := psql.
		Insert("users").
		Columns("id", "username", "password_hash", "created_at").
		Values(user.ID, user.Username, user.PasswordHash, user.CreatedAt.Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert user: %w", err)
	}
	if _, err := u.db.ExecContext(ctx, query, args...); err != nil {
		// the unique index catches a concurrent signup for the same name
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user when username and password match.
func (u *Users) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := u.findOne(ctx, sq.Expr("lower(username) = lower(?)", normalizeUsername(username)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindByID loads a user by id.
func (u *Users) FindByID(ctx context.Context, id string) (*User, error) {
	return u.findOne(ctx, sq.Eq{"id": id})
}

func (u *Users) findOne(ctx context.Context, where sq.Sqlizer) (*User, error) {
	query, args, err := psql.
		Select("id", "username", "password_hash", "created_at").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find user: %w", err)
	}
	var (
		user    User
		created string
	)
	err = u.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Username, &user.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &user, nil
}
