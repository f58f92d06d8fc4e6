package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradeview-api/internal/middleware"
	"github.com/noah-isme/gradeview-api/internal/models"
	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func sessionFromContext(c *gin.Context) *models.Session {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// periodFromQuery parses the reporting-period selector; absence means
// the portal's current period (negative index).
func periodFromQuery(c *gin.Context) (int, error) {
	raw := c.Query("period")
	if raw == "" {
		return -1, nil
	}
	period, err := strconv.Atoi(raw)
	if err != nil || period < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "period must be a non-negative integer")
	}
	return period, nil
}

func refreshFromQuery(c *gin.Context) bool {
	return c.Query("refresh") == "true"
}
