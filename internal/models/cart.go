// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a ledger line owned by a conversation. Price is a snapshot
// taken at add time and never re-priced afterwards.
type CartItem struct {
	BaseModel
	ConversationID uuid.UUID       `json:"conversation_id" gorm:"type:uuid;not null;index"`
	ProductID      string          `json:"product_id" gorm:"size:255;not null"`
	VariantID      string          `json:"variant_id" gorm:"size:255;not null"`
	Quantity       int             `json:"quantity" gorm:"not null;default:1"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(12,4);not null"`
	Title          string          `json:"title" gorm:"size:512"`
	ImageURL       string          `json:"image_url" gorm:"size:2048"`
}
