// apps/go-server/internal/sets/model.go
//
// Flashcard sets owned by a user, and the input accepted to create or edit one.

package sets

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/flashcards/apps/go-server/internal/deck"
)

var (
	// ErrNotFound is returned for missing sets and sets owned by another user.
	ErrNotFound = errors.New("sets: not found")
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("sets: invalid input")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Set is a titled collection of cards.
type Set struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	CardCount   int         `json:"cardCount"`
	Cards       []deck.Card `json:"cards,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CardInput is one card as submitted by the client.
type CardInput struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Input is the body of a create or update request.
type Input struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Cards       []CardInput `json:"cards"`
}

// Normalize trims every field and drops cards blank on both sides.
func (in *Input) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	kept := make([]CardInput, 0, len(in.Cards))
	for _, c := range in.Cards {
		c.Front = strings.TrimSpace(c.Front)
		c.Back = strings.TrimSpace(c.Back)
		if c.Front == "" && c.Back == "" {
			continue
		}
		kept = append(kept, c)
	}
	in.Cards = kept
}

// Validate checks a normalized input.
func (in Input) Validate() error {
	if in.Title == "" {
		return &ValidationError{Field: "title", Message: "required"}
	}
	if len(in.Cards) == 0 {
		return &ValidationError{Field: "cards", Message: "at least one card is required"}
	}
	return nil
}
