package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
)

type BlogRepository struct {
	db *DB
}

func NewBlogRepository(db *DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) Create(_ context.Context, d entity.BlogDraft) (*entity.Blog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.nextBlog++
	now := r.db.now()
	b := &entity.Blog{
		ID:          r.db.nextBlog,
		HeroBanner:  cloneString(d.HeroBanner),
		Title:       d.Title,
		Subtitle:    cloneString(d.Subtitle),
		Content:     d.Content,
		AuthorName:  d.AuthorName,
		IsPublished: d.IsPublished,
		PublishDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.db.blogs[b.ID] = b
	return cloneBlog(b), nil
}

func (r *BlogRepository) List(_ context.Context, publishedOnly bool) ([]entity.Blog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]entity.Blog, 0, len(r.db.blogs))
	for _, b := range r.db.blogs {
		if publishedOnly && !b.IsPublished {
			continue
		}
		out = append(out, *cloneBlog(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *BlogRepository) GetByID(_ context.Context, id int64) (*entity.Blog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	b, ok := r.db.blogs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneBlog(b), nil
}

func (r *BlogRepository) Update(_ context.Context, id int64, d entity.BlogDraft) (*entity.Blog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	b, ok := r.db.blogs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b.Title = d.Title
	b.Subtitle = cloneString(d.Subtitle)
	b.Content = d.Content
	b.AuthorName = d.AuthorName
	b.IsPublished = d.IsPublished
	if d.HeroBanner != nil {
		b.HeroBanner = cloneString(d.HeroBanner)
	}
	b.UpdatedAt = r.db.now()
	return cloneBlog(b), nil
}

func (r *BlogRepository) TogglePublish(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	b, ok := r.db.blogs[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	b.IsPublished = !b.IsPublished
	b.UpdatedAt = r.db.now()
	return b.IsPublished, nil
}

func (r *BlogRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.blogs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.blogs, id)
	for cid, c := range r.db.comments {
		if c.BlogID == id {
			delete(r.db.comments, cid)
		}
	}
	return nil
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
