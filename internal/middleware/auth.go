// internal/middleware/auth.go
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abhi7515/shopdev/internal/models"
	"github.com/abhi7515/shopdev/internal/utils"
)

const (
	// APIKeyHeader carries the widget's shared secret.
	APIKeyHeader = "X-SDK-API-Key"

	tenantContextKey = "tenant"
	shopContextKey   = "shop"
)

// APIKeyAuth authenticates widget requests by the shared-secret key and
// loads the tenant config into the request context. Missing key, unknown key
// and disabled tenant all answer the same 401.
func APIKeyAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(APIKeyHeader)
		if apiKey == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		var tenant models.TenantConfig
		err := db.WithContext(c.Request.Context()).
			Where("api_key = ?", apiKey).
			First(&tenant).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.InternalErrorResponse(c)
				c.Abort()
				return
			}
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		if !tenant.Enabled {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(tenantContextKey, &tenant)
		c.Next()
	}
}

// AdminAuth authenticates merchant dashboard requests with a bearer JWT and
// resolves the shop's tenant config.
func AdminAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := utils.ValidateAdminToken(parts[1])
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		var tenant models.TenantConfig
		err = db.WithContext(c.Request.Context()).
			Where("shop = ?", claims.Shop).
			First(&tenant).Error
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(tenantContextKey, &tenant)
		c.Set(shopContextKey, claims.Shop)
		c.Next()
	}
}

// TenantFromContext retrieves the authenticated tenant set by APIKeyAuth or
// AdminAuth.
func TenantFromContext(c *gin.Context) (*models.TenantConfig, bool) {
	value, exists := c.Get(tenantContextKey)
	if !exists {
		return nil, false
	}
	tenant, ok := value.(*models.TenantConfig)
	return tenant, ok
}
