package repository

import (
	"context"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

// UserDirectory resolves token subjects to active accounts.
type UserDirectory interface {
	// FindActiveByID returns ErrNotFound when the user does not exist or is inactive.
	// Any other error is a backend failure.
	FindActiveByID(ctx context.Context, id string) (*entity.User, error)
}
