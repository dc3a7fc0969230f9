package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"notely/internal/db"
)

// Store is the gorm-backed user repository.
type Store struct {
	DB *gorm.DB
}

func (s *Store) Create(ctx context.Context, u *User) error {
	return db.MapError(s.DB.WithContext(ctx).Create(u).Error)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return u, db.MapError(err)
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return u, db.MapError(err)
}
