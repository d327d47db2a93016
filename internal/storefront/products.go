// internal/storefront/products.go
package storefront

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/abhi7515/shopdev/internal/apperrors"
	"github.com/abhi7515/shopdev/internal/models"
)

const productFields = `
  id
  title
  description
  vendor
  productType
  tags
  availableForSale
  priceRange {
    minVariantPrice {
      amount
      currencyCode
    }
  }
  compareAtPriceRange {
    minVariantPrice {
      amount
      currencyCode
    }
  }
  images(first: 5) {
    edges {
      node {
        url
        altText
      }
    }
  }
  variants(first: 10) {
    edges {
      node {
        id
        title
        availableForSale
        quantityAvailable
        priceV2 {
          amount
          currencyCode
        }
        compareAtPriceV2 {
          amount
          currencyCode
        }
        selectedOptions {
          name
          value
        }
        image {
          url
          altText
        }
      }
    }
  }
`

const productsQuery = `
query GetProducts($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {` + productFields + `}
    }
  }
}`

const productByIDQuery = `
query GetProduct($id: ID!) {
  product(id: $id) {` + productFields + `}
}`

type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type variantNode struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	AvailableForSale  bool       `json:"availableForSale"`
	QuantityAvailable *int       `json:"quantityAvailable"`
	PriceV2           *moneyNode `json:"priceV2"`
	CompareAtPriceV2  *moneyNode `json:"compareAtPriceV2"`
	SelectedOptions   []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"selectedOptions"`
	Image *imageNode `json:"image"`
}

type productNode struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Vendor           string   `json:"vendor"`
	ProductType      string   `json:"productType"`
	Tags             []string `json:"tags"`
	AvailableForSale bool     `json:"availableForSale"`
	PriceRange       struct {
		MinVariantPrice *moneyNode `json:"minVariantPrice"`
	} `json:"priceRange"`
	CompareAtPriceRange struct {
		MinVariantPrice *moneyNode `json:"minVariantPrice"`
	} `json:"compareAtPriceRange"`
	Images struct {
		Edges []struct {
			Node imageNode `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// FetchAllProducts pages through the whole catalog with a cursor and returns
// the normalized products for this shop.
func (c *Client) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	var all []models.Product
	var after *string

	for {
		variables := map[string]interface{}{"first": defaultPageSize}
		if after != nil {
			variables["after"] = *after
		}

		var data struct {
			Products struct {
				PageInfo pageInfo `json:"pageInfo"`
				Edges    []struct {
					Node productNode `json:"node"`
				} `json:"edges"`
			} `json:"products"`
		}
		if err := c.execute(ctx, productsQuery, variables, &data); err != nil {
			return nil, err
		}

		for _, edge := range data.Products.Edges {
			all = append(all, c.transformProduct(edge.Node))
		}

		if !data.Products.PageInfo.HasNextPage {
			break
		}
		cursor := data.Products.PageInfo.EndCursor
		after = &cursor
	}

	return all, nil
}

// GetProduct fetches a single product by its upstream id.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var data struct {
		Product *productNode `json:"product"`
	}
	if err := c.execute(ctx, productByIDQuery, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, apperrors.NotFound("product")
	}

	product := c.transformProduct(*data.Product)
	return &product, nil
}

func parseMoney(m *moneyNode) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func parseNullMoney(m *moneyNode) decimal.NullDecimal {
	if m == nil || m.Amount == "" {
		return decimal.NullDecimal{}
	}
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: amount, Valid: true}
}

// transformProduct normalizes a raw node. Missing fields get defined
// defaults: empty strings, empty slices, null compare-at price.
func (c *Client) transformProduct(node productNode) models.Product {
	currency := "USD"
	if node.PriceRange.MinVariantPrice != nil && node.PriceRange.MinVariantPrice.CurrencyCode != "" {
		currency = node.PriceRange.MinVariantPrice.CurrencyCode
	}

	product := models.Product{
		ID:             node.ID,
		Shop:           c.shop,
		Title:          node.Title,
		Description:    node.Description,
		Vendor:         node.Vendor,
		ProductType:    node.ProductType,
		Tags:           node.Tags,
		PriceAmount:    parseMoney(node.PriceRange.MinVariantPrice),
		CurrencyCode:   currency,
		CompareAtPrice: parseNullMoney(node.CompareAtPriceRange.MinVariantPrice),
		Available:      node.AvailableForSale,
	}

	for i, edge := range node.Images.Edges {
		product.Images = append(product.Images, models.ProductImage{
			ProductID: node.ID,
			Shop:      c.shop,
			Position:  i,
			URL:       edge.Node.URL,
			AltText:   edge.Node.AltText,
		})
	}

	for i, edge := range node.Variants.Edges {
		v := edge.Node
		variant := models.Variant{
			ID:                v.ID,
			Shop:              c.shop,
			ProductID:         node.ID,
			Position:          i,
			Title:             v.Title,
			Available:         v.AvailableForSale,
			QuantityAvailable: v.QuantityAvailable,
			PriceAmount:       parseMoney(v.PriceV2),
			CompareAtPrice:    parseNullMoney(v.CompareAtPriceV2),
			Options:           models.StringMap{},
		}
		for _, opt := range v.SelectedOptions {
			variant.Options[opt.Name] = opt.Value
		}
		if v.Image != nil {
			variant.ImageURL = v.Image.URL
			variant.ImageAltText = v.Image.AltText
		}
		product.Variants = append(product.Variants, variant)
	}

	return product
}
