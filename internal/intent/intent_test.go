// internal/intent/intent_test.go
package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAddWithFilters(t *testing.T) {
	result := Extract("I want to add 3 red shirts under $50")

	assert.Equal(t, ActionAddToCart, result.Action)
	assert.Equal(t, 3, result.Quantity)
	assert.Equal(t, "red", result.Filters.Color)
	require.NotNil(t, result.Filters.MaxPrice)
	assert.Equal(t, 50, *result.Filters.MaxPrice)
}

func TestExtractActionPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Action
	}{
		{"add wins over search", "I want to see shoes", ActionAddToCart},
		{"add wins over checkout", "buy this and checkout", ActionAddToCart},
		{"remove wins over checkout", "remove it before I pay", ActionRemoveFromCart},
		{"checkout alone", "let me pay now", ActionCheckout},
		{"done shopping is checkout", "I'm done shopping", ActionCheckout},
		{"compare", "what's the difference between these two", ActionCompare},
		{"search", "show me some jackets", ActionSearch},
		{"none", "hello there", ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.message).Action)
		})
	}
}

func TestExtractQuantity(t *testing.T) {
	assert.Equal(t, 2, Extract("add 2 items please").Quantity)
	assert.Equal(t, 5, Extract("I need 5 pieces").Quantity)

	// No number defaults to one.
	assert.Equal(t, 1, Extract("add a shirt to my cart").Quantity)

	// A dollar amount is a price filter, never a quantity.
	result := Extract("find shirts under $50")
	assert.Equal(t, 1, result.Quantity)
	require.NotNil(t, result.Filters.MaxPrice)
	assert.Equal(t, 50, *result.Filters.MaxPrice)
}

func TestExtractPriceFilterRequiresPhrase(t *testing.T) {
	// A bare amount with no comparison phrase is not a filter.
	assert.Nil(t, Extract("the $50 shirt").Filters.MaxPrice)

	for _, phrase := range []string{
		"under $30", "less than $30", "cheaper than $30", "below $30",
	} {
		result := Extract("shirts " + phrase)
		require.NotNil(t, result.Filters.MaxPrice, phrase)
		assert.Equal(t, 30, *result.Filters.MaxPrice, phrase)
	}

	result := Extract("show me jackets over $100")
	require.NotNil(t, result.Filters.MinPrice)
	assert.Equal(t, 100, *result.Filters.MinPrice)
	assert.Nil(t, result.Filters.MaxPrice)
}

func TestExtractColorNormalization(t *testing.T) {
	assert.Equal(t, "gray", Extract("show me grey pants").Filters.Color)
	assert.Equal(t, "gray", Extract("show me gray pants").Filters.Color)
	assert.Equal(t, "blue", Extract("a BLUE jacket").Filters.Color)
	assert.Empty(t, Extract("a nice jacket").Filters.Color)
}

func TestExtractSize(t *testing.T) {
	assert.Equal(t, "MEDIUM", Extract("a medium hoodie").Filters.Size)
	assert.Equal(t, "XL", Extract("do you have this in xl").Filters.Size)

	// Word boundaries keep "small" out of "smallest" and "l" out of "blue".
	assert.Empty(t, Extract("the smallest blue one").Filters.Size)
}

func TestExtractDeterministic(t *testing.T) {
	message := "I want to add 3 red shirts under $50"
	first := Extract(message)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Extract(message))
	}
}
