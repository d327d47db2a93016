// internal/models/product.go
package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a cached storefront product. The upstream identifier is opaque
// and only unique per shop, so (shop, id) is the primary key.
type Product struct {
	ID             string              `json:"id" gorm:"primaryKey;size:255"`
	Shop           string              `json:"shop" gorm:"primaryKey;size:255;index:idx_products_shop_synced,priority:1"`
	Title          string              `json:"title" gorm:"size:255;not null"`
	Description    string              `json:"description" gorm:"type:text"`
	Vendor         string              `json:"vendor" gorm:"size:255"`
	ProductType    string              `json:"product_type" gorm:"size:255"`
	Tags           pq.StringArray      `json:"tags" gorm:"type:text[]"`
	PriceAmount    decimal.Decimal     `json:"price_amount" gorm:"type:decimal(12,2)"`
	CurrencyCode   string              `json:"currency_code" gorm:"size:10"`
	CompareAtPrice decimal.NullDecimal `json:"compare_at_price" gorm:"type:decimal(12,2)"`
	Available      bool                `json:"available"`
	// Denormalized lowercase columns kept in step by Upsert so substring
	// search and tag matching stay inside the store.
	SearchText string    `json:"-" gorm:"type:text"`
	TagsText   string    `json:"-" gorm:"type:text"`
	LastSynced time.Time `json:"last_synced" gorm:"index:idx_products_shop_synced,priority:2"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Images   []ProductImage `json:"images" gorm:"foreignKey:ProductID,Shop;references:ID,Shop;constraint:OnDelete:CASCADE"`
	Variants []Variant      `json:"variants" gorm:"foreignKey:ProductID,Shop;references:ID,Shop;constraint:OnDelete:CASCADE"`
}

// ProductImage keeps the upstream image ordering via Position.
type ProductImage struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	ProductID string `json:"-" gorm:"size:255;index"`
	Shop      string `json:"-" gorm:"size:255;index"`
	Position  int    `json:"position"`
	URL       string `json:"url" gorm:"size:2048"`
	AltText   string `json:"alt_text" gorm:"size:512"`
}

// Variant identifiers are globally unique across a shop's catalog, so the
// primary key mirrors the product one.
type Variant struct {
	ID                string              `json:"id" gorm:"primaryKey;size:255"`
	Shop              string              `json:"shop" gorm:"primaryKey;size:255"`
	ProductID         string              `json:"product_id" gorm:"size:255;index"`
	Position          int                 `json:"position"`
	Title             string              `json:"title" gorm:"size:255"`
	Available         bool                `json:"available"`
	QuantityAvailable *int                `json:"quantity_available"`
	PriceAmount       decimal.Decimal     `json:"price_amount" gorm:"type:decimal(12,2)"`
	CompareAtPrice    decimal.NullDecimal `json:"compare_at_price" gorm:"type:decimal(12,2)"`
	Options           StringMap           `json:"options" gorm:"type:jsonb"`
	ImageURL          string              `json:"image_url" gorm:"size:2048"`
	ImageAltText      string              `json:"image_alt_text" gorm:"size:512"`
}
