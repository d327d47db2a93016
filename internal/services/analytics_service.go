// internal/services/analytics_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abhi7515/shopdev/internal/models"
)

// AnalyticsService keeps per-conversation counters for the merchant
// dashboard. Counters are best-effort: a failed bump never fails the turn
// that triggered it.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) BumpMessages(ctx context.Context, shop string, conversationID uuid.UUID, count int) error {
	return s.upsert(ctx, shop, conversationID, func(a *models.ChatAnalytics) {
		a.MessageCount += count
	})
}

func (s *AnalyticsService) RecordCartAdd(ctx context.Context, shop string, conversationID uuid.UUID) error {
	return s.upsert(ctx, shop, conversationID, func(a *models.ChatAnalytics) {
		a.ProductsAddedCart++
	})
}

func (s *AnalyticsService) RecordCheckoutInitiated(ctx context.Context, shop string, conversationID uuid.UUID) error {
	return s.upsert(ctx, shop, conversationID, func(a *models.ChatAnalytics) {
		a.CheckoutInitiated = true
	})
}

func (s *AnalyticsService) upsert(ctx context.Context, shop string, conversationID uuid.UUID, apply func(*models.ChatAnalytics)) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.ChatAnalytics
		err := tx.Where("conversation_id = ?", conversationID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = models.ChatAnalytics{Shop: shop, ConversationID: conversationID}
			apply(&record)
			return tx.Create(&record).Error
		}
		if err != nil {
			return err
		}
		apply(&record)
		return tx.Save(&record).Error
	})
}

// Stats is the dashboard aggregate for one shop.
type Stats struct {
	TotalConversations int64 `json:"total_conversations"`
	TotalMessages      int64 `json:"total_messages"`
	Checkouts          int64 `json:"checkouts"`
	Conversions        int64 `json:"conversions"`
}

func (s *AnalyticsService) ShopStats(ctx context.Context, shop string) (*Stats, error) {
	var stats Stats

	if err := s.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("shop = ?", shop).Count(&stats.TotalConversations).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.shop = ?", shop).
		Count(&stats.TotalMessages).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.ChatAnalytics{}).
		Where("shop = ? AND checkout_initiated = ?", shop, true).
		Count(&stats.Checkouts).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.ChatAnalytics{}).
		Where("shop = ? AND checkout_completed = ?", shop, true).
		Count(&stats.Conversions).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
