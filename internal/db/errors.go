package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"notely/internal/apperr"
)

// PostgreSQL SQLSTATE codes translated by MapError.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
	codeInvalidText         = "22P02"
)

// MapError translates driver errors into apperr sentinels.
// Errors it does not recognise are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", apperr.ErrConflict, describe(pgErr, "record already exists"))
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, "referenced record not found")
	case codeNotNullViolation:
		return apperr.Invalid(column(pgErr), "is required")
	case codeStringTooLong:
		return apperr.Invalid(column(pgErr), "value too long")
	case codeCheckViolation, codeInvalidText:
		return apperr.Invalid(column(pgErr), "invalid value")
	default:
		return err
	}
}

func describe(pgErr *pgconn.PgError, fallback string) string {
	switch pgErr.ConstraintName {
	case "uq_users_email":
		return "email already registered"
	case "uq_categories_user_name":
		return "category already exists"
	}
	return fallback
}

func column(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	return "value"
}
