// internal/services/assistant_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/abhi7515/shopdev/internal/apperrors"
	"github.com/abhi7515/shopdev/internal/intent"
	"github.com/abhi7515/shopdev/internal/llm"
	"github.com/abhi7515/shopdev/internal/models"
)

// ProviderFactory builds the chat-completion capability from a tenant's
// settings. Injected so tests can substitute a fake provider.
type ProviderFactory func(tenant *models.TenantConfig) (llm.Provider, error)

// AssistantService runs one conversation turn: persist the user message,
// extract intent, assemble bounded context, call the model, persist the
// reply. It never executes cart mutations itself; the extracted intent is
// informational for the caller.
type AssistantService struct {
	db          *gorm.DB
	catalog     *CatalogService
	cart        *CartService
	prompts     *PromptBuilder
	analytics   *AnalyticsService
	newProvider ProviderFactory
}

type ChatRequest struct {
	Message        string     `json:"message" validate:"required"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	SessionID      string     `json:"session_id,omitempty"`
}

type ChatResponse struct {
	ConversationID uuid.UUID         `json:"conversation_id"`
	Message        string            `json:"message"`
	Intent         intent.Intent     `json:"intent"`
	Cart           []models.CartItem `json:"cart"`
	TokensUsed     int               `json:"tokens_used"`
}

func NewAssistantService(db *gorm.DB, catalog *CatalogService, cart *CartService, prompts *PromptBuilder, analytics *AnalyticsService, newProvider ProviderFactory) *AssistantService {
	return &AssistantService{
		db:          db,
		catalog:     catalog,
		cart:        cart,
		prompts:     prompts,
		analytics:   analytics,
		newProvider: newProvider,
	}
}

// NewProviderFromTenant is the production ProviderFactory.
func NewProviderFromTenant(timeout time.Duration) ProviderFactory {
	return func(tenant *models.TenantConfig) (llm.Provider, error) {
		return llm.New(tenant.Provider, llm.Options{
			Model:       tenant.Model,
			APIKey:      tenant.ProviderKey,
			MaxTokens:   tenant.MaxTokens,
			Temperature: tenant.Temperature,
			Timeout:     timeout,
		})
	}
}

func (s *AssistantService) HandleMessage(ctx context.Context, tenant *models.TenantConfig, req *ChatRequest) (*ChatResponse, error) {
	// The outer surface checks the gate too, but this call spends the model
	// budget, so it re-verifies.
	if tenant == nil || !tenant.Enabled {
		return nil, apperrors.Auth("assistant is not enabled")
	}
	if req.Message == "" {
		return nil, apperrors.Validation("message is required")
	}

	conversation, err := s.loadOrCreateConversation(ctx, tenant, req)
	if err != nil {
		return nil, err
	}

	userMessage := &models.Message{
		ConversationID: conversation.ID,
		Role:           models.MessageRoleUser,
		Content:        req.Message,
	}
	if err := s.db.WithContext(ctx).Create(userMessage).Error; err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	// Side-channel signal for the caller; never blocks the model call.
	extracted := intent.Extract(req.Message)

	products, err := s.catalog.List(ctx, tenant.Shop, 100)
	if err != nil {
		return nil, err
	}
	cartItems, err := s.cart.List(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}

	systemPrompt := s.prompts.BuildSystemPrompt(PromptContext{
		ShopName:          tenant.Shop,
		Products:          products,
		CartItemCount:     len(cartItems),
		PreviousInterests: conversation.Metadata,
		CustomPrompt:      tenant.CustomPrompt,
	})

	history, err := s.loadMessages(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}

	provider, err := s.newProvider(tenant)
	if err != nil {
		return nil, err
	}

	// On provider failure nothing is persisted past the user message: a
	// failed turn must never leave a partial assistant reply behind.
	completion, err := provider.Generate(ctx, systemPrompt, s.prompts.WindowMessages(history))
	if err != nil {
		return nil, err
	}

	assistantMessage := &models.Message{
		ConversationID: conversation.ID,
		Role:           models.MessageRoleAssistant,
		Content:        completion.Content,
	}
	if err := s.db.WithContext(ctx).Create(assistantMessage).Error; err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	if err := s.analytics.BumpMessages(ctx, tenant.Shop, conversation.ID, 2); err != nil {
		logrus.WithError(err).WithField("conversation", conversation.ID).Warn("Failed to update chat analytics")
	}

	return &ChatResponse{
		ConversationID: conversation.ID,
		Message:        completion.Content,
		Intent:         extracted,
		Cart:           cartItems,
		TokensUsed:     completion.TokensUsed,
	}, nil
}

// GetConversation loads a conversation scoped to the shop.
func (s *AssistantService) GetConversation(ctx context.Context, shop string, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.WithContext(ctx).
		Where("id = ? AND shop = ?", id, shop).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("conversation")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return &conversation, nil
}

func (s *AssistantService) loadOrCreateConversation(ctx context.Context, tenant *models.TenantConfig, req *ChatRequest) (*models.Conversation, error) {
	if req.ConversationID != nil {
		var conversation models.Conversation
		err := s.db.WithContext(ctx).
			Where("id = ? AND shop = ?", *req.ConversationID, tenant.Shop).
			First(&conversation).Error
		if err == nil {
			return &conversation, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to fetch conversation: %w", err)
		}
		// Unknown id falls through to a fresh conversation.
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("session_%d", time.Now().UnixNano())
	}

	conversation := &models.Conversation{
		Shop:      tenant.Shop,
		SessionID: sessionID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conversation).Error; err != nil {
			return err
		}
		if tenant.WelcomeMessage == "" {
			return nil
		}
		return tx.Create(&models.Message{
			ConversationID: conversation.ID,
			Role:           models.MessageRoleSystem,
			Content:        tenant.WelcomeMessage,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return conversation, nil
}

// loadMessages returns the conversation history in strict append order.
func (s *AssistantService) loadMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return messages, nil
}
