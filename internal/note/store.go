package note

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"notely/internal/apperr"
	"notely/internal/category"
	"notely/internal/db"
)

// Store is the gorm-backed note repository. Every query is owner-scoped.
type Store struct {
	DB *gorm.DB
}

func (s *Store) Create(ctx context.Context, n *Note, categoryIDs []uuid.UUID) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats, err := category.OwnedByIDs(tx, n.UserID, categoryIDs)
		if err != nil {
			return err
		}
		n.Categories = cats
		// join rows only; categories already exist
		return tx.Omit("Categories.*").Create(n).Error
	})
	return db.MapError(err)
}

func (s *Store) Duplicate(ctx context.Context, id, ownerID uuid.UUID) (Note, error) {
	var dup Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src Note
		if err := findOwned(tx, id, ownerID, &src); err != nil {
			return err
		}
		dup = Note{
			Title:      CopyTitle(src.Title),
			Content:    src.Content,
			IsActive:   src.IsActive,
			UserID:     ownerID,
			Categories: src.Categories,
		}
		return tx.Omit("Categories.*").Create(&dup).Error
	})
	return dup, db.MapError(err)
}

func (s *Store) List(ctx context.Context, ownerID uuid.UUID, active bool, offset, limit int) ([]Note, int64, error) {
	var total int64
	err := s.DB.WithContext(ctx).Model(&Note{}).
		Where("user_id = ? AND is_active = ?", ownerID, active).
		Count(&total).Error
	if err != nil {
		return nil, 0, db.MapError(err)
	}

	rows := []Note{}
	err = s.DB.WithContext(ctx).
		Preload("Categories", orderByName).
		Where("user_id = ? AND is_active = ?", ownerID, active).
		Order("updated_at desc").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, db.MapError(err)
	}
	return rows, total, nil
}

func (s *Store) Update(ctx context.Context, id, ownerID uuid.UUID, p Patch) (Note, error) {
	var out Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n Note
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, ownerID).
			First(&n).Error; err != nil {
			return err
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		if p.Title != nil {
			updates["title"] = *p.Title
		}
		if p.Content != nil {
			updates["content"] = *p.Content
		}
		if err := tx.Model(&n).Updates(updates).Error; err != nil {
			return err
		}

		if p.CategoryIDs != nil {
			cats, err := category.OwnedByIDs(tx, ownerID, *p.CategoryIDs)
			if err != nil {
				return err
			}
			assoc := tx.Model(&n).Association("Categories")
			if len(cats) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(cats)
			}
			if err != nil {
				return fmt.Errorf("replace categories: %w", err)
			}
		}

		return findOwned(tx, id, ownerID, &out)
	})
	return out, db.MapError(err)
}

// SetActive flips the archive flag with a single conditional UPDATE.
func (s *Store) SetActive(ctx context.Context, id, ownerID uuid.UUID, active bool) (Note, error) {
	var out Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Note{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Updates(map[string]any{"is_active": active, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return findOwned(tx, id, ownerID, &out)
	})
	return out, db.MapError(err)
}

// Remove deletes in one statement conditioned on id and owner.
func (s *Store) Remove(ctx context.Context, id, ownerID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&Note{})
	if res.Error != nil {
		return db.MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func findOwned(tx *gorm.DB, id, ownerID uuid.UUID, out *Note) error {
	return tx.Preload("Categories", orderByName).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(out).Error
}

func orderByName(tx *gorm.DB) *gorm.DB {
	return tx.Order("name asc")
}
