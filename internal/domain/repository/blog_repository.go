package repository

import (
	"context"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

// BlogRepository defines blog post persistence. Lists are ordered newest first.
type BlogRepository interface {
	Create(ctx context.Context, d entity.BlogDraft) (*entity.Blog, error)
	List(ctx context.Context, publishedOnly bool) ([]entity.Blog, error)
	GetByID(ctx context.Context, id int64) (*entity.Blog, error)
	// Update overwrites the draft fields; a nil HeroBanner keeps the stored one.
	Update(ctx context.Context, id int64, d entity.BlogDraft) (*entity.Blog, error)
	// TogglePublish flips is_published in a single statement and returns the new value.
	TogglePublish(ctx context.Context, id int64) (bool, error)
	// Delete removes the post and its comments.
	Delete(ctx context.Context, id int64) error
}
