// Package seed loads the demo account used for local development.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"notely/internal/apperr"
	"notely/internal/category"
	"notely/internal/note"
	"notely/internal/user"
)

const (
	DemoEmail    = "tonys-dev@mail.com"
	DemoUsername = "TonyS-dev"
	DemoPassword = "password123"
)

type users interface {
	Create(ctx context.Context, in user.CreateInput) (user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
}

type categories interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string) (category.Category, error)
}

type notes interface {
	Create(ctx context.Context, ownerID uuid.UUID, in note.CreateInput) (note.Note, error)
}

type Seeder struct {
	Users      users
	Categories categories
	Notes      notes
	Log        zerolog.Logger
}

// Result reports what Run created. Created is false when the demo user
// already existed and nothing was written.
type Result struct {
	Created bool
	UserID  uuid.UUID
}

func (s *Seeder) Run(ctx context.Context) (Result, error) {
	existing, err := s.Users.FindByEmail(ctx, DemoEmail)
	switch {
	case err == nil:
		s.Log.Info().Str("user_id", existing.ID.String()).Msg("demo data already present")
		return Result{UserID: existing.ID}, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return Result{}, fmt.Errorf("seed: lookup demo user: %w", err)
	}

	u, err := s.Users.Create(ctx, user.CreateInput{
		Email:    DemoEmail,
		Username: DemoUsername,
		Password: DemoPassword,
	})
	if err != nil {
		return Result{}, fmt.Errorf("seed: create user: %w", err)
	}

	var catIDs []uuid.UUID
	for _, name := range []string{"Work", "Personal"} {
		c, err := s.Categories.Create(ctx, u.ID, name)
		if err != nil {
			return Result{}, fmt.Errorf("seed: create category %q: %w", name, err)
		}
		catIDs = append(catIDs, c.ID)
	}

	if _, err := s.Notes.Create(ctx, u.ID, note.CreateInput{
		Title:       "Sample Note",
		Content:     "This is a sample note.",
		CategoryIDs: catIDs,
	}); err != nil {
		return Result{}, fmt.Errorf("seed: create note: %w", err)
	}

	s.Log.Info().Str("user_id", u.ID.String()).Str("email", DemoEmail).Msg("demo data created")
	return Result{Created: true, UserID: u.ID}, nil
}
