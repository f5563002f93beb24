package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/pkg/response"
)

const (
	CtxIdentityKey  = "identity"
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxUserNameKey  = "userName"
	CtxUserRoleKey  = "userRole"
)

func setIdentity(c *gin.Context, id *entity.Identity) {
	c.Set(CtxIdentityKey, id)
	c.Set(CtxUserIDKey, id.ID)
	c.Set(CtxUserEmailKey, id.Email)
	c.Set(CtxUserNameKey, id.Name)
	c.Set(CtxUserRoleKey, id.Role)
}

// IdentityFrom returns the caller attached by Auth or OptionalAuth, or nil.
func IdentityFrom(c *gin.Context) *entity.Identity {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*entity.Identity)
	return id
}

// Auth requires a valid bearer token for an active user. It sets the identity and
// userID, userEmail, userName and userRole in the Gin context on success.
func Auth(svc *application.AuthService, exposeCause bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _, err := svc.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			response.Abort(c, err, exposeCause)
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth attaches the identity when the token resolves and otherwise lets the
// request through anonymously.
func OptionalAuth(svc *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := svc.AuthenticateOptional(c.Request.Context(), c.GetHeader("Authorization")); id != nil {
			setIdentity(c, id)
		}
		c.Next()
	}
}

// RequireAdmin must be chained after Auth.
func RequireAdmin(exposeCause bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := application.RequireAdmin(IdentityFrom(c)); err != nil {
			response.Abort(c, err, exposeCause)
			return
		}
		c.Next()
	}
}
