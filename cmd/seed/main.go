package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-blog-api/config"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	pginfra "github.com/oksasatya/go-blog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// Seeds an admin account into a migrated database and prints a signed access
// token for it. SEED_ADMIN_EMAIL, SEED_ADMIN_NAME and SEED_ADMIN_PASSWORD override
// the defaults.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 0, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	email := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	name := envOr("SEED_ADMIN_NAME", "Blog Admin")
	password := envOr("SEED_ADMIN_PASSWORD", "password123")
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	admin := &entity.User{Email: email, Password: hash, Name: name, Role: entity.RoleAdmin, IsActive: true}
	if err := users.Upsert(ctx, admin); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s name=%s password=%s\n", admin.ID, admin.Email, admin.Name, password)

	token, exp, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL).GenerateAccessToken(admin.ID, admin.Email)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Printf("access token (expires %s):\n%s\n", exp.Format("2006-01-02 15:04:05 MST"), token)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
