package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"notely/internal/apperr"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, apperr.ErrNotFound},
		{"unique email", &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}, apperr.ErrConflict},
		{"wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), apperr.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperr.ErrNotFound},
		{"not null", &pgconn.PgError{Code: "23502", ColumnName: "title"}, apperr.ErrValidation},
		{"too long", &pgconn.PgError{Code: "22001"}, apperr.ErrValidation},
		{"bad uuid text", &pgconn.PgError{Code: "22P02"}, apperr.ErrValidation},
		{"canceled passes through", context.Canceled, context.Canceled},
		{"unknown passes through", plain, plain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tc.in), tc.want)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}

func TestMapError_ConflictMessage(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_categories_user_name"})
	assert.EqualError(t, err, "conflict: category already exists")
}

func TestMapError_ValidationNamesColumn(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: "23502", ColumnName: "title"})
	var ve *apperr.ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "title", ve.Fields[0].Field)
	}
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := Migrations().Open("00001_init.sql")
	if assert.NoError(t, err) {
		_ = entries.Close()
	}
}
