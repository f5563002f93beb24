package application

import (
	"context"
	"errors"
	"io"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/apperror"
)

// AssetStore stores uploaded hero banners outside the database. Blogs reference
// assets by name only.
type AssetStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) error
	Remove(ctx context.Context, name string) error
	URL(name string) string
}

// BlogIndexer keeps the search index in step with blog mutations.
type BlogIndexer interface {
	Sync(ctx context.Context, b *entity.Blog) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]int64, error)
}

// mapRepoErr turns repository errors into tagged application errors. internalMsg is
// what clients see when the failure is unexpected.
func mapRepoErr(err error, notFoundMsg, internalMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(notFoundMsg)
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperror.Internal(internalMsg, err)
}
