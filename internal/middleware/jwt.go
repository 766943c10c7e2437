package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jansamvad/police-feedback-api/internal/models"
	"github.com/jansamvad/police-feedback-api/internal/service"
	appErrors "github.com/jansamvad/police-feedback-api/pkg/errors"
	"github.com/jansamvad/police-feedback-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentAdmin"

// JWT protects routes by requiring a valid admin bearer token.
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

		claims, err := authService.ParseToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// CurrentAdmin extracts the claims stored by JWT, when any.
func CurrentAdmin(c *gin.Context) (*models.AdminClaims, bool) {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*models.AdminClaims)
	return claims, ok
}
