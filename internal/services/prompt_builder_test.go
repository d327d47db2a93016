// internal/services/prompt_builder_test.go
package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhi7515/shopdev/internal/models"
)

func TestBuildSystemPromptSections(t *testing.T) {
	builder := NewPromptBuilder(30)

	prompt := builder.BuildSystemPrompt(PromptContext{
		ShopName: "test-shop.example.com",
		Products: []models.Product{
			{
				ID:           "gid://product/1",
				Title:        "Blue Shirt",
				Description:  "Soft cotton",
				PriceAmount:  decimal.RequireFromString("19.99"),
				CurrencyCode: "USD",
				Available:    true,
			},
		},
		CartItemCount:     2,
		PreviousInterests: "jackets",
		CustomPrompt:      "Always mention free shipping.",
	})

	assert.Contains(t, prompt, "You are an AI shopping assistant for test-shop.example.com")
	assert.Contains(t, prompt, "AVAILABLE PRODUCTS (1 products):")
	assert.Contains(t, prompt, "- Blue Shirt (ID: gid://product/1) - 19.99 USD - Soft cotton")
	assert.Contains(t, prompt, "- Cart Items: 2")
	assert.Contains(t, prompt, "- Customer Previous Interests: jackets")
	assert.Contains(t, prompt, "CUSTOM INSTRUCTIONS:\nAlways mention free shipping.")
	assert.NotContains(t, prompt, "[OUT OF STOCK]")
}

func TestBuildSystemPromptDefaults(t *testing.T) {
	builder := NewPromptBuilder(30)

	prompt := builder.BuildSystemPrompt(PromptContext{ShopName: "test-shop.example.com"})

	assert.Contains(t, prompt, "AVAILABLE PRODUCTS (0 products):")
	assert.Contains(t, prompt, "No products available")
	assert.Contains(t, prompt, "- Customer Previous Interests: None")
	assert.NotContains(t, prompt, "CUSTOM INSTRUCTIONS")
}

func TestBuildSystemPromptOutOfStock(t *testing.T) {
	builder := NewPromptBuilder(30)

	prompt := builder.BuildSystemPrompt(PromptContext{
		ShopName: "test-shop.example.com",
		Products: []models.Product{{
			ID:           "gid://product/1",
			Title:        "Sold Out Hat",
			PriceAmount:  decimal.RequireFromString("9.50"),
			CurrencyCode: "USD",
			Available:    false,
		}},
	})

	assert.Contains(t, prompt, "- Sold Out Hat (ID: gid://product/1) - 9.50 USD - No description [OUT OF STOCK]")
}

func TestBuildSystemPromptTruncatesDescription(t *testing.T) {
	builder := NewPromptBuilder(30)
	long := strings.Repeat("x", 150)

	prompt := builder.BuildSystemPrompt(PromptContext{
		ShopName: "test-shop.example.com",
		Products: []models.Product{{
			ID:           "gid://product/1",
			Title:        "Wordy",
			Description:  long,
			PriceAmount:  decimal.Zero,
			CurrencyCode: "USD",
			Available:    true,
		}},
	})

	assert.Contains(t, prompt, strings.Repeat("x", 100))
	assert.NotContains(t, prompt, strings.Repeat("x", 101))
}

func TestBuildSystemPromptCapsProductCount(t *testing.T) {
	builder := NewPromptBuilder(30)

	products := make([]models.Product, 60)
	for i := range products {
		products[i] = models.Product{
			ID:           fmt.Sprintf("gid://product/%d", i),
			Title:        fmt.Sprintf("Product %d", i),
			PriceAmount:  decimal.Zero,
			CurrencyCode: "USD",
			Available:    true,
		}
	}

	prompt := builder.BuildSystemPrompt(PromptContext{
		ShopName: "test-shop.example.com",
		Products: products,
	})

	// The header reports the full catalog size; the excerpt stops at 50.
	assert.Contains(t, prompt, "AVAILABLE PRODUCTS (60 products):")
	assert.Contains(t, prompt, "Product 49 (ID: gid://product/49)")
	assert.NotContains(t, prompt, "Product 50 (ID: gid://product/50)")
}

func TestWindowMessages(t *testing.T) {
	builder := NewPromptBuilder(3)

	messages := make([]models.Message, 5)
	for i := range messages {
		role := models.MessageRoleUser
		if i%2 == 1 {
			role = models.MessageRoleAssistant
		}
		messages[i] = models.Message{Role: role, Content: fmt.Sprintf("message %d", i)}
	}

	windowed := builder.WindowMessages(messages)
	require.Len(t, windowed, 3)
	assert.Equal(t, "message 2", windowed[0].Content)
	assert.Equal(t, "message 4", windowed[2].Content)
	assert.Equal(t, "user", windowed[2].Role)
}

func TestWindowMessagesKeepsSystemMessages(t *testing.T) {
	builder := NewPromptBuilder(2)

	messages := []models.Message{
		{Role: models.MessageRoleSystem, Content: "welcome"},
		{Role: models.MessageRoleUser, Content: "one"},
		{Role: models.MessageRoleAssistant, Content: "two"},
		{Role: models.MessageRoleUser, Content: "three"},
	}

	windowed := builder.WindowMessages(messages)
	require.Len(t, windowed, 3)
	assert.Equal(t, "system", windowed[0].Role)
	assert.Equal(t, "welcome", windowed[0].Content)
	assert.Equal(t, "two", windowed[1].Content)
	assert.Equal(t, "three", windowed[2].Content)
}

func TestWindowMessagesShortHistory(t *testing.T) {
	builder := NewPromptBuilder(30)

	windowed := builder.WindowMessages([]models.Message{
		{Role: models.MessageRoleUser, Content: "hi"},
	})
	require.Len(t, windowed, 1)
	assert.Equal(t, "hi", windowed[0].Content)
}
