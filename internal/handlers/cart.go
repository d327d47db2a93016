// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhi7515/shopdev/internal/middleware"
	"github.com/abhi7515/shopdev/internal/services"
	"github.com/abhi7515/shopdev/internal/storefront"
	"github.com/abhi7515/shopdev/internal/utils"
)

// StorefrontFactory builds a storefront client for a shop. Injected so
// handlers stay testable without the real upstream.
type StorefrontFactory func(shop string) *storefront.Client

type CartHandler struct {
	cart       *services.CartService
	assistant  *services.AssistantService
	analytics  *services.AnalyticsService
	storefront StorefrontFactory
}

func NewCartHandler(cart *services.CartService, assistant *services.AssistantService, analytics *services.AnalyticsService, factory StorefrontFactory) *CartHandler {
	return &CartHandler{
		cart:       cart,
		assistant:  assistant,
		analytics:  analytics,
		storefront: factory,
	}
}

type CartRequest struct {
	Action         string     `json:"action" validate:"required,oneof=add remove update get checkout"`
	ConversationID uuid.UUID  `json:"conversation_id" validate:"required"`
	ProductID      string     `json:"product_id,omitempty"`
	VariantID      string     `json:"variant_id,omitempty"`
	Quantity       int        `json:"quantity,omitempty"`
	CartItemID     *uuid.UUID `json:"cart_item_id,omitempty"`
	NewQuantity    int        `json:"new_quantity,omitempty"`
}

// POST /v1/sdk/cart
func (h *CartHandler) HandleCart(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ctx := c.Request.Context()

	// Cart actions only touch conversations owned by this shop.
	conversation, err := h.assistant.GetConversation(ctx, tenant.Shop, req.ConversationID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	switch req.Action {
	case "add":
		item, err := h.cart.Add(ctx, tenant.Shop, conversation.ID, req.ProductID, req.VariantID, req.Quantity)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if err := h.analytics.RecordCartAdd(ctx, tenant.Shop, conversation.ID); err != nil {
			logrus.WithError(err).Warn("Failed to record cart add")
		}
		utils.CreatedResponse(c, gin.H{
			"cart_item": item,
			"message":   "Added " + item.Title + " to cart",
		})

	case "remove":
		if req.CartItemID == nil {
			utils.BadRequestResponse(c, "cart_item_id is required", nil)
			return
		}
		if err := h.cart.Remove(ctx, *req.CartItemID); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"message": "Item removed from cart"})

	case "update":
		if req.CartItemID == nil {
			utils.BadRequestResponse(c, "cart_item_id is required", nil)
			return
		}
		item, err := h.cart.UpdateQuantity(ctx, *req.CartItemID, req.NewQuantity)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"cart_item": item})

	case "get":
		items, err := h.cart.List(ctx, conversation.ID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		total, err := h.cart.Total(ctx, conversation.ID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{
			"items":      items,
			"total":      total.StringFixed(2),
			"item_count": len(items),
		})

	case "checkout":
		result, err := h.cart.Checkout(ctx, conversation.ID, h.storefront(tenant.Shop))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if err := h.analytics.RecordCheckoutInitiated(ctx, tenant.Shop, conversation.ID); err != nil {
			logrus.WithError(err).Warn("Failed to record checkout")
		}
		utils.SuccessResponse(c, gin.H{
			"checkout_url": result.CheckoutURL,
			"cart_id":      result.CartID,
		})

	default:
		utils.BadRequestResponse(c, "Invalid action", nil)
	}
}
