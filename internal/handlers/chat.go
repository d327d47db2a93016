// internal/handlers/chat.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/abhi7515/shopdev/internal/middleware"
	"github.com/abhi7515/shopdev/internal/services"
	"github.com/abhi7515/shopdev/internal/utils"
)

type ChatHandler struct {
	assistant *services.AssistantService
}

func NewChatHandler(assistant *services.AssistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// POST /v1/sdk/chat
func (h *ChatHandler) HandleChat(c *gin.Context) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req services.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	response, err := h.assistant.HandleMessage(c.Request.Context(), tenant, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, response)
}
