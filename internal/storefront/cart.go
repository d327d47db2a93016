// internal/storefront/cart.go
package storefront

import (
	"context"

	"github.com/abhi7515/shopdev/internal/apperrors"
)

const createCartMutation = `
mutation CreateCart($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      id
      checkoutUrl
    }
    userErrors {
      field
      message
    }
  }
}`

const addToCartMutation = `
mutation AddToCart($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      id
      checkoutUrl
    }
    userErrors {
      field
      message
    }
  }
}`

// LineItem is a checkout line: the provider calls the variant id the
// merchandise id.
type LineItem struct {
	VariantID string `json:"merchandiseId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the provider-side cart created for checkout handoff.
type Cart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
}

type cartPayload struct {
	Cart       *Cart       `json:"cart"`
	UserErrors []UserError `json:"userErrors"`
}

// CreateCart creates an upstream cart from the given lines and returns the
// checkout handoff. Any userErrors entry is a hard failure carrying the
// provider's field and message detail.
func (c *Client) CreateCart(ctx context.Context, items []LineItem) (*Cart, error) {
	lines := make([]map[string]interface{}, len(items))
	for i, item := range items {
		lines[i] = map[string]interface{}{
			"merchandiseId": item.VariantID,
			"quantity":      item.Quantity,
		}
	}

	var data struct {
		CartCreate cartPayload `json:"cartCreate"`
	}
	err := c.execute(ctx, createCartMutation, map[string]interface{}{
		"input": map[string]interface{}{"lines": lines},
	}, &data)
	if err != nil {
		return nil, err
	}

	if len(data.CartCreate.UserErrors) > 0 {
		return nil, apperrors.Upstream("cart create rejected: "+joinUserErrors(data.CartCreate.UserErrors), nil)
	}
	if data.CartCreate.Cart == nil {
		return nil, apperrors.Upstream("cart create returned no cart", nil)
	}

	return data.CartCreate.Cart, nil
}

// AddToCart appends lines to an existing upstream cart.
func (c *Client) AddToCart(ctx context.Context, cartID string, items []LineItem) (*Cart, error) {
	lines := make([]map[string]interface{}, len(items))
	for i, item := range items {
		lines[i] = map[string]interface{}{
			"merchandiseId": item.VariantID,
			"quantity":      item.Quantity,
		}
	}

	var data struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}
	err := c.execute(ctx, addToCartMutation, map[string]interface{}{
		"cartId": cartID,
		"lines":  lines,
	}, &data)
	if err != nil {
		return nil, err
	}

	if len(data.CartLinesAdd.UserErrors) > 0 {
		return nil, apperrors.Upstream("cart lines add rejected: "+joinUserErrors(data.CartLinesAdd.UserErrors), nil)
	}
	if data.CartLinesAdd.Cart == nil {
		return nil, apperrors.Upstream("cart lines add returned no cart", nil)
	}

	return data.CartLinesAdd.Cart, nil
}
