package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/container"
	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
)

// BlogModule wires blog routes.
// Authenticated: POST /api/blogs, GET /api/blogs
// Optional auth: GET /api/blogs/published, GET /api/blogs/search, GET /api/blogs/:id
// Admin: PUT /api/blogs/:id, PATCH /api/blogs/:id/publish, DELETE /api/blogs/:id
type BlogModule struct {
	Handler *handlers.BlogHandler
	Auth    *application.AuthService
	C       *container.Container
}

// formOverhead is the allowance for multipart framing and text fields on top of
// the banner size limit.
const formOverhead = 64 << 10

func NewBlogModule(h *handlers.BlogHandler, auth *application.AuthService, c *container.Container) *BlogModule {
	return &BlogModule{Handler: h, Auth: auth, C: c}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	expose := m.C.ExposeCause()
	cfg := m.C.Config

	authed := middleware.Auth(m.Auth, expose)
	optional := middleware.OptionalAuth(m.Auth)
	admin := middleware.RequireAdmin(expose)
	writes := middleware.RateLimit(m.C.Redis, cfg.RateLimitWrites, cfg.RateLimitWindow, middleware.KeyByUserID(), nil)
	body := middleware.BodyLimit(cfg.UploadsMaxBytes + formOverhead)

	blogs := rg.Group("/blogs")
	{
		blogs.GET("/published", optional, m.Handler.ListPublished)
		blogs.GET("/search", optional, m.Handler.Search)
		blogs.GET("/:id", optional, m.Handler.Get)

		blogs.POST("", authed, writes, body, m.Handler.Create)
		blogs.GET("", authed, m.Handler.List)

		blogs.PUT("/:id", authed, admin, writes, body, m.Handler.Update)
		blogs.PATCH("/:id/publish", authed, admin, writes, m.Handler.TogglePublish)
		blogs.DELETE("/:id", authed, admin, writes, m.Handler.Delete)
	}
}
