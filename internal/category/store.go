package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"notely/internal/apperr"
	"notely/internal/db"
)

type Store struct {
	DB *gorm.DB
}

func (s *Store) Create(ctx context.Context, c *Category) error {
	return db.MapError(s.DB.WithContext(ctx).Create(c).Error)
}

func (s *Store) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]Category, error) {
	out := []Category{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name asc").
		Find(&out).Error
	return out, db.MapError(err)
}

// OwnedByIDs resolves ids to categories owned by ownerID, inside tx.
// A missing id and one owned by someone else both yield apperr.ErrNotFound.
func OwnedByIDs(tx *gorm.DB, ownerID uuid.UUID, ids []uuid.UUID) ([]Category, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return []Category{}, nil
	}

	var cats []Category
	if err := tx.Where("user_id = ? AND id IN ?", ownerID, ids).Find(&cats).Error; err != nil {
		return nil, db.MapError(err)
	}
	if len(cats) != len(ids) {
		return nil, fmt.Errorf("%w: one or more categories were not found", apperr.ErrNotFound)
	}
	return cats, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
