package router

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/container"
	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/router/modules"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

type BlogModuleDeps struct {
	Service *application.BlogService
	Handler *handlers.BlogHandler
}

type CommentModuleDeps struct {
	Service *application.CommentService
	Handler *handlers.CommentHandler
}

func buildAuth(c *container.Container) *application.AuthService {
	return application.NewAuthService(
		c.JWT,
		c.Users,
		c.Logger,
		c.Config.AuthLookupTimeout,
		c.Config.AuthDegradeOnLookupError,
	)
}

func buildBlogDeps(c *container.Container) BlogModuleDeps {
	service := application.NewBlogService(c.Blogs, c.Assets, c.Index, c.Logger, c.Config.UploadsMaxBytes)
	return BlogModuleDeps{
		Service: service,
		Handler: handlers.NewBlogHandler(service, c.Logger, c.ExposeCause()),
	}
}

func buildCommentDeps(c *container.Container) CommentModuleDeps {
	service := application.NewCommentService(c.Comments, c.Logger)
	return CommentModuleDeps{
		Service: service,
		Handler: handlers.NewCommentHandler(service, c.Logger, c.ExposeCause()),
	}
}

func buildHealth(c *container.Container, started time.Time) *handlers.HealthHandler {
	h := handlers.NewHealthHandler(started, 2*time.Second, c.Logger)
	if c.PGPool != nil {
		h.Add("database", func(ctx context.Context) error { return c.PGPool.Ping(ctx) })
	}
	if c.Redis != nil {
		h.Add("redis", func(ctx context.Context) error { return helpers.RedisPing(ctx, c.Redis, time.Second) })
	}
	if c.ES != nil {
		h.Add("elasticsearch", func(ctx context.Context) error {
			res, err := c.ES.Ping(c.ES.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer res.Body.Close()
			if res.IsError() {
				return errors.New(res.Status())
			}
			return nil
		})
	}
	return h
}

// InitModules wires every feature module from the container and registers the
// engine-level routes (health, uploads, 404). Call it once during startup.
func InitModules(r *Registry, c *container.Container, started time.Time) {
	auth := buildAuth(c)
	blogDeps := buildBlogDeps(c)
	commentDeps := buildCommentDeps(c)

	r.Add(modules.NewBlogModule(blogDeps.Handler, auth, c))
	r.Add(modules.NewCommentModule(commentDeps.Handler, c))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c))
	}

	r.Engine.GET("/health", buildHealth(c, started).Health)
	if c.GCS == nil && c.Config.UploadsDir != "" {
		r.Engine.Static(c.Config.UploadsPublicBase, c.Config.UploadsDir)
	}
	r.Engine.NoRoute(handlers.NotFound)
}
