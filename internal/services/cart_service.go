// internal/services/cart_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/abhi7515/shopdev/internal/apperrors"
	"github.com/abhi7515/shopdev/internal/models"
	"github.com/abhi7515/shopdev/internal/storefront"
)

// CheckoutSource is the slice of the source adapter the cart needs for the
// checkout handoff.
type CheckoutSource interface {
	CreateCart(ctx context.Context, items []storefront.LineItem) (*storefront.Cart, error)
}

type CartService struct {
	db      *gorm.DB
	catalog *CatalogService
}

type CheckoutResult struct {
	CartID      string `json:"cart_id"`
	CheckoutURL string `json:"checkout_url"`
}

func NewCartService(db *gorm.DB, catalog *CatalogService) *CartService {
	return &CartService{db: db, catalog: catalog}
}

// Add appends a line item to the conversation's cart. The variant must exist
// in the shop's catalog cache; its price is snapshotted and never re-priced.
func (s *CartService) Add(ctx context.Context, shop string, conversationID uuid.UUID, productID, variantID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.catalog.GetProduct(ctx, shop, productID)
	if err != nil {
		return nil, err
	}

	var variant *models.Variant
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			variant = &product.Variants[i]
			break
		}
	}
	if variant == nil {
		return nil, apperrors.NotFound("variant")
	}

	item := &models.CartItem{
		ConversationID: conversationID,
		ProductID:      productID,
		VariantID:      variantID,
		Quantity:       quantity,
		Price:          variant.PriceAmount,
		Title:          fmt.Sprintf("%s - %s", product.Title, variant.Title),
	}
	if len(product.Images) > 0 {
		item.ImageURL = product.Images[0].URL
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return item, nil
}

// Remove deletes a cart item. Removal is idempotent: deleting an id that is
// already gone succeeds as a no-op.
func (s *CartService) Remove(ctx context.Context, cartItemID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", cartItemID).Error; err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// UpdateQuantity sets a new quantity on a line item. Quantities below 1 are
// rejected; the item keeps its price snapshot.
func (s *CartService) UpdateQuantity(ctx context.Context, cartItemID uuid.UUID, newQuantity int) (*models.CartItem, error) {
	if newQuantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1, use remove instead")
	}

	// Single UPDATE so a concurrent identical call cannot lose the write.
	result := s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", newQuantity)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("cart item")
	}

	var item models.CartItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", cartItemID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload cart item: %w", err)
	}
	return &item, nil
}

// List returns the conversation's cart in insertion order.
func (s *CartService) List(ctx context.Context, conversationID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

// Total sums price x quantity over the cart, rounded half-up to cents for
// currency display.
func (s *CartService) Total(ctx context.Context, conversationID uuid.UUID) (decimal.Decimal, error) {
	items, err := s.List(ctx, conversationID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2), nil
}

// Checkout hands the ledger lines to the storefront, which owns the actual
// purchase flow, and returns its checkout URL.
func (s *CartService) Checkout(ctx context.Context, conversationID uuid.UUID, source CheckoutSource) (*CheckoutResult, error) {
	items, err := s.List(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.Validation("cart is empty")
	}

	lines := make([]storefront.LineItem, len(items))
	for i, item := range items {
		lines[i] = storefront.LineItem{VariantID: item.VariantID, Quantity: item.Quantity}
	}

	cart, err := source.CreateCart(ctx, lines)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{CartID: cart.ID, CheckoutURL: cart.CheckoutURL}, nil
}
