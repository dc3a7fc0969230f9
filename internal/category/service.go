package category

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"notely/internal/apperr"
	"notely/internal/metrics"
)

type repository interface {
	Create(ctx context.Context, c *Category) error
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]Category, error)
}

type Service struct {
	repo repository
	log  zerolog.Logger
}

func NewService(repo repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "category").Logger()}
}

// Create adds a category for ownerID. Names are unique per owner.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, name string) (Category, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return Category{}, apperr.Invalid("name", "is required")
	case utf8.RuneCountInString(name) > MaxNameLen:
		return Category{}, apperr.Invalid("name", fmt.Sprintf("must be at most %d characters", MaxNameLen))
	}

	c := Category{Name: name, UserID: ownerID}
	if err := s.repo.Create(ctx, &c); err != nil {
		return Category{}, fmt.Errorf("category.Create: %w", err)
	}

	metrics.CategoriesCreatedTotal.Inc()
	s.log.Debug().Str("user_id", ownerID.String()).Str("category_id", c.ID.String()).Msg("category created")
	return c, nil
}

func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]Category, error) {
	cats, err := s.repo.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("category.ListForOwner: %w", err)
	}
	return cats, nil
}
