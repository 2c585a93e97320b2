package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/flashcards/apps/go-server/internal/database/testdb"
)

func newUsers(t *testing.T) *Users {
	t.Helper()
	return NewUsers(testdb.New(t), bcrypt.MinCost)
}

func TestUsers_CreateAndAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users := newUsers(t)

	u, err := users.Create(ctx, "  Alice_1 ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "Alice_1", u.Username)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)

	got, err := users.Authenticate(ctx, "alice_1", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "alice_1", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	byID, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice_1", byID.Username)

	_, err = users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUsers_UsernameTakenIgnoresCase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users := newUsers(t)

	_, err := users.Create(ctx, "bob", "password1")
	require.NoError(t, err)
	_, err = users.Create(ctx, "BOB", "password2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUsers_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users := newUsers(t)

	tests := []struct {
		name, username, password string
	}{
		{"short username", "ab", "password1"},
		{"long username", "abcdefghijklmnopqrstuvwxy", "password1"},
		{"bad characters", "bad name", "password1"},
		{"short password", "carol", "short"},
	}
	for _, tt := range tests {
		_, err := users.Create(ctx, tt.username, tt.password)
		assert.ErrorIs(t, err, ErrInvalidInput, tt.name)
	}
}

func TestTokens_SignVerify(t *testing.T) {
	t.Parallel()

	clk := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	tokens := NewTokens("secret", 24*time.Hour, clk)

	tok, exp, err := tokens.Sign(&User{ID: "u1", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(24*time.Hour), exp)

	claims, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ID)
	assert.Equal(t, "alice", claims.Username)

	clk.Advance(25 * time.Hour)
	_, err = tokens.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestTokens_Rejects(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", time.Hour, nil)
	other := NewTokens("other", time.Hour, nil)

	tok, _, err := other.Sign(&User{ID: "u1", Username: "alice"})
	require.NoError(t, err)
	_, err = tokens.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = tokens.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "u1", "username": "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	missing, _, err := tokens.Sign(&User{ID: "", Username: "alice"})
	require.NoError(t, err)
	_, err = tokens.Verify(missing)
	assert.ErrorIs(t, err, ErrInvalidToken, "claims without id")
}
