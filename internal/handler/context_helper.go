package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tez-capital/cms-api/internal/middleware"
	"github.com/tez-capital/cms-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// langFromQuery returns the requested content language, defaulting to
// Indonesian.
func langFromQuery(c *gin.Context) string {
	lang := strings.ToLower(strings.TrimSpace(c.DefaultQuery("lang", "id")))
	if lang != "en" {
		lang = "id"
	}
	return lang
}

func pageFromQuery(c *gin.Context) (int, int) {
	page := 1
	size := 20
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}
	return page, size
}
