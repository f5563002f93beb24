package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
)

const blogColumns = `id, hero_banner, title, subtitle, content, author_name, is_published, publish_date, created_at, updated_at`

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

func scanBlog(row pgx.Row) (*entity.Blog, error) {
	b := &entity.Blog{}
	if err := row.Scan(&b.ID, &b.HeroBanner, &b.Title, &b.Subtitle, &b.Content, &b.AuthorName,
		&b.IsPublished, &b.PublishDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BlogRepository) Create(ctx context.Context, d entity.BlogDraft) (*entity.Blog, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blogs (hero_banner, title, subtitle, content, author_name, is_published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+blogColumns,
		d.HeroBanner, d.Title, d.Subtitle, d.Content, d.AuthorName, d.IsPublished)

	b, err := scanBlog(row)
	if err != nil {
		return nil, translateError("create blog", err)
	}
	return b, nil
}

func (r *BlogRepository) List(ctx context.Context, publishedOnly bool) ([]entity.Blog, error) {
	q := `SELECT ` + blogColumns + ` FROM blogs`
	if publishedOnly {
		q += ` WHERE is_published = true`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, translateError("list blogs", err)
	}
	defer rows.Close()

	out := make([]entity.Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, translateError("scan blog", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list blogs", err)
	}
	return out, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*entity.Blog, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id)
	b, err := scanBlog(row)
	if err != nil {
		return nil, translateError("get blog", err)
	}
	return b, nil
}

func (r *BlogRepository) Update(ctx context.Context, id int64, d entity.BlogDraft) (*entity.Blog, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE blogs
		SET title = $1, subtitle = $2, content = $3, author_name = $4, is_published = $5,
		    hero_banner = COALESCE($6, hero_banner), updated_at = now()
		WHERE id = $7
		RETURNING `+blogColumns,
		d.Title, d.Subtitle, d.Content, d.AuthorName, d.IsPublished, d.HeroBanner, id)

	b, err := scanBlog(row)
	if err != nil {
		return nil, translateError("update blog", err)
	}
	return b, nil
}

func (r *BlogRepository) TogglePublish(ctx context.Context, id int64) (bool, error) {
	var published bool
	err := r.pool.QueryRow(ctx, `
		UPDATE blogs
		SET is_published = NOT is_published, updated_at = now()
		WHERE id = $1
		RETURNING is_published
	`, id).Scan(&published)
	if err != nil {
		return false, translateError("toggle publish", err)
	}
	return published, nil
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return translateError("delete blog", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
