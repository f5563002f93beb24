package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/config"
	"github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// Container holds the components constructed at startup. It is built once in main
// and passed to the router; nothing in it is a package-level singleton.
//
// Optional backends (PGPool, Redis, GCS, ES) are nil when not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	JWT    *helpers.JWTManager

	Users    repository.UserDirectory
	Blogs    repository.BlogRepository
	Comments repository.CommentRepository
	Assets   application.AssetStore
	Index    application.BlogIndexer
}

// ExposeCause reports whether internal error causes may be sent to clients.
func (c *Container) ExposeCause() bool {
	return !c.Config.IsProduction()
}
