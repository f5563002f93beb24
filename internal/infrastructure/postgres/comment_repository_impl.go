package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
)

const commentColumns = `id, blog_id, author_name, comment_text, created_at, updated_at`

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{}
	if err := row.Scan(&c.ID, &c.BlogID, &c.AuthorName, &c.CommentText, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateOnPublished inserts through a SELECT on the locked blog row, so a concurrent
// unpublish or delete is either seen or waited for.
func (r *CommentRepository) CreateOnPublished(ctx context.Context, in entity.Comment) (*entity.Comment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blog_comments (blog_id, author_name, comment_text)
		SELECT b.id, $2, $3
		FROM blogs b
		WHERE b.id = $1 AND b.is_published = true
		FOR SHARE
		RETURNING `+commentColumns,
		in.BlogID, in.AuthorName, in.CommentText)

	c, err := scanComment(row)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		terr := translateError("add comment", err)
		if errors.Is(terr, repository.ErrNotFound) {
			return nil, repository.ErrBlogNotFound
		}
		return nil, terr
	}

	var published bool
	err = r.pool.QueryRow(ctx, `SELECT is_published FROM blogs WHERE id = $1`, in.BlogID).Scan(&published)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrBlogNotFound
	}
	if err != nil {
		return nil, translateError("check blog", err)
	}
	return nil, repository.ErrBlogNotPublished
}

func (r *CommentRepository) ListByBlog(ctx context.Context, blogID int64) ([]entity.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+`
		FROM blog_comments
		WHERE blog_id = $1
		ORDER BY created_at DESC, id DESC
	`, blogID)
	if err != nil {
		return nil, translateError("list comments", err)
	}
	defer rows.Close()

	out := make([]entity.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, translateError("scan comment", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list comments", err)
	}
	return out, nil
}

func (r *CommentRepository) CountByBlog(ctx context.Context, blogID int64) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_comments WHERE blog_id = $1`, blogID).Scan(&n); err != nil {
		return 0, translateError("count comments", err)
	}
	return n, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM blog_comments WHERE id = $1`, id)
	if err != nil {
		return translateError("delete comment", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
