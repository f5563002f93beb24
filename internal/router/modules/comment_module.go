package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-api/internal/container"
	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
)

// CommentModule wires the public comment routes. Writes are rate limited per IP.
type CommentModule struct {
	Handler *handlers.CommentHandler
	C       *container.Container
}

func NewCommentModule(h *handlers.CommentHandler, c *container.Container) *CommentModule {
	return &CommentModule{Handler: h, C: c}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	cfg := m.C.Config
	writes := middleware.RateLimit(m.C.Redis, cfg.RateLimitWrites, cfg.RateLimitWindow, middleware.KeyByIPAndPath(), nil)

	comments := rg.Group("/comments")
	{
		comments.POST("", writes, m.Handler.Add)
		comments.GET("/blog/:blogId", m.Handler.ListByBlog)
		comments.GET("/count/:blogId", m.Handler.CountByBlog)
		comments.DELETE("/:id", writes, m.Handler.Delete)
	}
}
