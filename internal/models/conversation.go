// internal/models/conversation.go
package models

import (
	"github.com/google/uuid"
)

// Conversation is created on the first message from a widget session.
// Retention is an external concern; nothing here deletes conversations.
type Conversation struct {
	BaseModel
	Shop      string `json:"shop" gorm:"size:255;not null;index"`
	SessionID string `json:"session_id" gorm:"size:255;index"`
	// Metadata carries opaque "previous interests" for the prompt context.
	Metadata string `json:"metadata" gorm:"type:text"`

	// Relationships
	Messages  []Message  `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
	CartItems []CartItem `json:"cart_items,omitempty" gorm:"foreignKey:ConversationID"`
}

// Message is append-only; insertion order is chronological order.
type Message struct {
	BaseModel
	ConversationID uuid.UUID   `json:"conversation_id" gorm:"type:uuid;not null;index:idx_messages_conv_created,priority:1"`
	Role           MessageRole `json:"role" gorm:"type:varchar(20);not null"`
	Content        string      `json:"content" gorm:"type:text;not null"`
}

// ChatAnalytics aggregates per-conversation counters for the merchant
// dashboard.
type ChatAnalytics struct {
	BaseModel
	Shop              string    `json:"shop" gorm:"size:255;index"`
	ConversationID    uuid.UUID `json:"conversation_id" gorm:"type:uuid;uniqueIndex"`
	MessageCount      int       `json:"message_count" gorm:"default:0"`
	ProductsAddedCart int       `json:"products_added_cart" gorm:"default:0"`
	CheckoutInitiated bool      `json:"checkout_initiated" gorm:"default:false"`
	CheckoutCompleted bool      `json:"checkout_completed" gorm:"default:false"`
}
