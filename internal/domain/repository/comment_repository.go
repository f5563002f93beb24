package repository

import (
	"context"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

// CommentRepository defines comment persistence.
type CommentRepository interface {
	// CreateOnPublished inserts the comment only if its blog exists and is published,
	// atomically. It returns ErrBlogNotFound or ErrBlogNotPublished otherwise.
	CreateOnPublished(ctx context.Context, c entity.Comment) (*entity.Comment, error)
	ListByBlog(ctx context.Context, blogID int64) ([]entity.Comment, error)
	CountByBlog(ctx context.Context, blogID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
