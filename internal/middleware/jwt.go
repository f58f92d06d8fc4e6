package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradeview-api/internal/service"
	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
	"github.com/noah-isme/gradeview-api/pkg/response"
)

// ContextClaimsKey is the gin context key storing validated JWT claims.
const ContextClaimsKey = "currentClaims"

// ContextSessionKey is the gin context key storing the resolved session.
const ContextSessionKey = "currentSession"

// JWT protects routes by requiring a valid access token and a live
// backing session. The session is resolved once here so handlers never
// touch Redis themselves; a JWT whose session lapsed is rejected as
// expired even when the token itself is still within its lifetime.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		session, err := authService.Session(c.Request.Context(), claims)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}
