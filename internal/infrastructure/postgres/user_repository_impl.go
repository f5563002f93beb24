package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindActiveByID loads an active user and its highest role (admin first).
func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*entity.User, error) {
	// Non-UUID subjects can never match; answer without a round trip so a malformed
	// claim is not mistaken for a backend failure.
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT u.id::text, u.email, u.name, u.is_active, u.created_at, u.updated_at,
		       COALESCE((
		           SELECT r.name
		           FROM user_roles ur
		           JOIN roles r ON r.id = ur.role_id
		           WHERE ur.user_id = u.id
		           ORDER BY (r.name = 'admin') DESC, r.name
		           LIMIT 1
		       ), '') AS role
		FROM users u
		WHERE u.id = $1 AND u.is_active = true
	`, id)

	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.Role); err != nil {
		return nil, translateError("find active user", err)
	}
	return u, nil
}

// Upsert creates or refreshes a user by email and assigns role. Used by the seeder.
func (r *UserRepository) Upsert(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translateError("begin upsert user", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, name = EXCLUDED.name,
		    is_active = EXCLUDED.is_active, updated_at = now()
		RETURNING id::text, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.IsActive).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return translateError("upsert user", err)
	}

	if u.Role != "" {
		var roleID string
		if err := tx.QueryRow(ctx, `
			INSERT INTO roles (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET updated_at = now()
			RETURNING id::text
		`, u.Role).Scan(&roleID); err != nil {
			return translateError("upsert role", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, u.ID, roleID); err != nil {
			return translateError("assign role", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return translateError("commit upsert user", err)
	}
	return nil
}

var _ repository.UserDirectory = (*UserRepository)(nil)
