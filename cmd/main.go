package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/go-blog-api/config"
	"github.com/oksasatya/go-blog-api/internal/container"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-blog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-blog-api/internal/infrastructure/search"
	"github.com/oksasatya/go-blog-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/internal/router"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	started := time.Now()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()
	if cfg.IsProduction() && cfg.JWTSecret == "devjwtsecret" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	ctx := context.Background()

	c := &container.Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
	}

	switch cfg.DBDriver {
	case "memory":
		useMemory(c)
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		// Run migrations using database/sql with pgx stdlib
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		c.PGPool = pool
		c.Users = pginfra.NewUserRepository(pool)
		c.Blogs = pginfra.NewBlogRepository(pool)
		c.Comments = pginfra.NewCommentRepository(pool)
	default:
		log.Fatalf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	// Redis backs rate limiting only; without it limits are off
	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		if err := helpers.RedisPing(ctx, rdb, 2*time.Second); err != nil {
			logger.WithError(err).Warn("redis unreachable, rate limiting fails open")
		}
		defer func() { _ = rdb.Close() }()
		c.Redis = rdb
	}

	// Hero banners: GCS when a bucket is configured, local disk otherwise
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		c.GCS = gcsClient
		c.Assets = storage.NewGCSStore(gcsClient, cfg.GCSBucket, "hero-banners")
	} else {
		local, err := storage.NewLocalStore(cfg.UploadsDir, cfg.UploadsPublicBase)
		if err != nil {
			log.Fatalf("failed to prepare uploads dir: %v", err)
		}
		c.Assets = local
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to init elasticsearch client: %v", err)
	}
	if es != nil {
		c.ES = es
		c.Index = search.NewBlogIndex(es, cfg.ESBlogsIndex)
	}

	// Gin engine and global middleware
	r := gin.New()
	r.HandleMethodNotAllowed = false
	r.MaxMultipartMemory = cfg.UploadsMaxBytes
	if err := middleware.TrustProxies(r, cfg.TrustedProxyList()); err != nil {
		log.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		// no allowlist configured: any origin, without credentials
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))

	reg := router.NewRegistry(r)
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		reg.Use(middleware.AccessLog(logger))
	}
	router.InitModules(reg, c, started)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{"port": cfg.Port, "db_driver": cfg.DBDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

// useMemory wires the in-process store and seeds a development admin whose token
// is logged once at startup.
func useMemory(c *container.Container) {
	db := memory.New()
	admin := entity.User{
		ID:       uuid.NewString(),
		Email:    "admin@example.com",
		Name:     "Development Admin",
		Role:     entity.RoleAdmin,
		IsActive: true,
	}
	c.Users = memory.NewUserDirectory(admin)
	c.Blogs = memory.NewBlogRepository(db)
	c.Comments = memory.NewCommentRepository(db)

	token, exp, err := c.JWT.GenerateAccessToken(admin.ID, admin.Email)
	if err != nil {
		log.Fatalf("failed to sign development token: %v", err)
	}
	c.Logger.WithFields(logrus.Fields{
		"user_id":    admin.ID,
		"email":      admin.Email,
		"expires_at": exp,
		"token":      token,
	}).Warn("memory driver: data is not persisted; development admin token issued")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
