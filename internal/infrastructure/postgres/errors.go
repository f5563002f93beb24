package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/apperror"
)

// SQLSTATE codes with a dedicated diagnostic.
const (
	codeUndefinedTable      = "42P01"
	codeInvalidPassword     = "28P01"
	codeInvalidAuthSpec     = "28000"
	codeForeignKeyViolation = "23503"
)

// translateError maps driver errors onto repository sentinels or tagged internal errors.
// op names the failing operation for logs.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable:
			return apperror.Internal("required database table does not exist", fmt.Errorf("%s: %w", op, err))
		case codeInvalidPassword, codeInvalidAuthSpec:
			return apperror.Internal("cannot connect to database with provided credentials", fmt.Errorf("%s: %w", op, err))
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, errors.Join(repository.ErrNotFound, err))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
