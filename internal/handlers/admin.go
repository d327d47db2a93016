// internal/handlers/admin.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abhi7515/shopdev/internal/middleware"
	"github.com/abhi7515/shopdev/internal/models"
	"github.com/abhi7515/shopdev/internal/services"
	"github.com/abhi7515/shopdev/internal/utils"
)

type AdminHandler struct {
	db         *gorm.DB
	catalog    *services.CatalogService
	analytics  *services.AnalyticsService
	storefront StorefrontFactory
}

func NewAdminHandler(db *gorm.DB, catalog *services.CatalogService, analytics *services.AnalyticsService, factory StorefrontFactory) *AdminHandler {
	return &AdminHandler{
		db:         db,
		catalog:    catalog,
		analytics:  analytics,
		storefront: factory,
	}
}

// GET /v1/admin/config
func (h *AdminHandler) GetConfig(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	utils.SuccessResponse(c, gin.H{"config": tenant})
}

type UpdateConfigRequest struct {
	Enabled        *bool    `json:"enabled,omitempty"`
	Provider       string   `json:"provider,omitempty" validate:"omitempty,oneof=openai anthropic"`
	Model          string   `json:"model,omitempty"`
	ProviderKey    string   `json:"provider_key,omitempty"`
	MaxTokens      *int     `json:"max_tokens,omitempty" validate:"omitempty,min=1,max=4096"`
	Temperature    *float64 `json:"temperature,omitempty" validate:"omitempty,min=0,max=2"`
	CustomPrompt   *string  `json:"custom_prompt,omitempty"`
	WelcomeMessage *string  `json:"welcome_message,omitempty"`
	WidgetPosition string   `json:"widget_position,omitempty" validate:"omitempty,oneof=bottom-right bottom-left"`
	PrimaryColor   string   `json:"primary_color,omitempty"`
	AccentColor    string   `json:"accent_color,omitempty"`
}

// PUT /v1/admin/config
func (h *AdminHandler) UpdateConfig(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	updates := make(map[string]interface{})
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.Provider != "" {
		updates["provider"] = req.Provider
	}
	if req.Model != "" {
		updates["model"] = req.Model
	}
	if req.ProviderKey != "" {
		updates["provider_key"] = req.ProviderKey
	}
	if req.MaxTokens != nil {
		updates["max_tokens"] = *req.MaxTokens
	}
	if req.Temperature != nil {
		updates["temperature"] = *req.Temperature
	}
	if req.CustomPrompt != nil {
		updates["custom_prompt"] = *req.CustomPrompt
	}
	if req.WelcomeMessage != nil {
		updates["welcome_message"] = *req.WelcomeMessage
	}
	if req.WidgetPosition != "" {
		updates["widget_position"] = req.WidgetPosition
	}
	if req.PrimaryColor != "" {
		updates["primary_color"] = req.PrimaryColor
	}
	if req.AccentColor != "" {
		updates["accent_color"] = req.AccentColor
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).
			Model(&models.TenantConfig{}).
			Where("shop = ?", tenant.Shop).
			Updates(updates).Error; err != nil {
			utils.InternalErrorResponse(c)
			return
		}
	}

	var updated models.TenantConfig
	if err := h.db.WithContext(c.Request.Context()).
		Where("shop = ?", tenant.Shop).
		First(&updated).Error; err != nil {
		utils.InternalErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, gin.H{"config": updated})
}

// POST /v1/admin/config/regenerate-key
func (h *AdminHandler) RegenerateKey(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		utils.InternalErrorResponse(c)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.TenantConfig{}).
		Where("shop = ?", tenant.Shop).
		Update("api_key", apiKey).Error; err != nil {
		utils.InternalErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, gin.H{"api_key": apiKey})
}

// POST /v1/admin/sync?force=true
func (h *AdminHandler) TriggerSync(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	source := h.storefront(tenant.Shop)

	var result *services.SyncResult
	var err error
	if force {
		result, err = h.catalog.SyncAll(c.Request.Context(), tenant.Shop, source)
	} else {
		result, err = h.catalog.ScheduledSync(c.Request.Context(), tenant.Shop, source)
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"result": result})
}

// GET /v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	stats, err := h.analytics.ShopStats(c.Request.Context(), tenant.Shop)
	if err != nil {
		utils.InternalErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}
