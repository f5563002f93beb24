package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
)

type CommentRepository struct {
	db *DB
}

func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) CreateOnPublished(_ context.Context, in entity.Comment) (*entity.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	b, ok := r.db.blogs[in.BlogID]
	if !ok {
		return nil, repository.ErrBlogNotFound
	}
	if !b.IsPublished {
		return nil, repository.ErrBlogNotPublished
	}
	r.db.nextComment++
	now := r.db.now()
	c := &entity.Comment{
		ID:          r.db.nextComment,
		BlogID:      in.BlogID,
		AuthorName:  in.AuthorName,
		CommentText: in.CommentText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.db.comments[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *CommentRepository) ListByBlog(_ context.Context, blogID int64) ([]entity.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]entity.Comment, 0)
	for _, c := range r.db.comments {
		if c.BlogID == blogID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *CommentRepository) CountByBlog(_ context.Context, blogID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for _, c := range r.db.comments {
		if c.BlogID == blogID {
			n++
		}
	}
	return n, nil
}

func (r *CommentRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.comments, id)
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
