package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// base carries the handle and per-query timeout shared by the gorm
// repositories.
type base struct {
	db      *gorm.DB
	timeout time.Duration
}

func (b base) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if b.timeout <= 0 {
		return b.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	return b.db.WithContext(ctx), cancel
}

// translate classifies a driver error. Unique violations become conflicts,
// foreign key violations become not-found, anything else is a store error.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.As(err); ok {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return httperr.Conflict("duplicate_record", "a record with the same key already exists")
		case pgForeignKeyViolation:
			return httperr.NotFound("reference_not_found", "a referenced record does not exist")
		}
	}
	return httperr.Store(op, err)
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound error with the given
// code and translates anything else.
func notFoundOr(op string, err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound(code, message)
	}
	return translate(op, err)
}

// conflictAs renames a generic conflict to a domain specific one.
func conflictAs(err error, code, message string) error {
	if httperr.IsKind(err, httperr.KindConflict) {
		return httperr.Conflict(code, message)
	}
	return err
}
