package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"vistapos/internal/core/apperror"
	appctx "vistapos/internal/core/context"
)

// JWTValidator turns a bearer token into the caller it was issued to.
// Implemented by auth.JWTService.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth requires a valid bearer token and puts the caller on the request
// context for services and the logger.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWith(c, apperror.NewUnauthorized("missing authorization header"))
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") {
			abortWith(c, apperror.NewUnauthorized("invalid authorization header format"))
			return
		}

		user, err := validator.ValidateToken(token)
		if err != nil {
			abortWith(c, apperror.NewUnauthorized("invalid token"))
			return
		}

		c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
		c.Set("user_id", user.UserID)
		c.Set("role", user.Role)

		c.Next()
	}
}

// RequireAdmin restricts a route to admin users. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortWith(c, apperror.NewUnauthorized("authentication required"))
			return
		}
		if !user.IsAdmin {
			abortWith(c, apperror.NewForbidden("admin role required"))
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
