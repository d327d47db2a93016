// internal/handlers/products.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhi7515/shopdev/internal/middleware"
	"github.com/abhi7515/shopdev/internal/services"
	"github.com/abhi7515/shopdev/internal/utils"
)

const recommendationLimit = 5

type ProductHandler struct {
	catalog *services.CatalogService
}

func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// GET /v1/sdk/products?q=|id=|limit=
func (h *ProductHandler) GetProducts(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	ctx := c.Request.Context()

	if productID := c.Query("id"); productID != "" {
		product, err := h.catalog.GetProduct(ctx, tenant.Shop, productID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		recommendations, err := h.catalog.Recommend(ctx, tenant.Shop, productID, recommendationLimit)
		if err != nil {
			// A failed recommendation lookup never hides the product itself.
			logrus.WithError(err).WithField("product", productID).Warn("Failed to fetch recommendations")
			recommendations = nil
		}

		utils.SuccessResponse(c, gin.H{
			"product":         product,
			"recommendations": recommendations,
		})
		return
	}

	if query := c.Query("q"); query != "" {
		products, err := h.catalog.Search(ctx, tenant.Shop, query)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{
			"products": products,
			"total":    len(products),
			"query":    query,
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	products, err := h.catalog.List(ctx, tenant.Shop, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
		"total":    len(products),
	})
}
