// internal/services/prompt_builder.go
package services

import (
	"fmt"
	"strings"

	"github.com/abhi7515/shopdev/internal/llm"
	"github.com/abhi7515/shopdev/internal/models"
)

// contextProductLimit bounds the catalog excerpt regardless of catalog size.
// Larger catalogs are truncated, not sampled.
const contextProductLimit = 50

const descriptionExcerptLen = 100

// PromptContext is the bounded snapshot the assembler turns into a system
// prompt.
type PromptContext struct {
	ShopName          string
	Products          []models.Product
	CartItemCount     int
	PreviousInterests string
	CustomPrompt      string
}

// PromptBuilder renders the system prompt and windows conversation history.
type PromptBuilder struct {
	historyLimit int
}

func NewPromptBuilder(historyLimit int) *PromptBuilder {
	if historyLimit <= 0 {
		historyLimit = 30
	}
	return &PromptBuilder{historyLimit: historyLimit}
}

// BuildSystemPrompt assembles the instruction block: role, catalog excerpt,
// cart state, behavioral guidelines and the tenant's optional custom
// instructions.
func (b *PromptBuilder) BuildSystemPrompt(ctx PromptContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an AI shopping assistant for %s. Your role is to help customers find products, answer questions, and guide them through their shopping journey.\n\n", ctx.ShopName)

	sb.WriteString("CAPABILITIES:\n")
	sb.WriteString("- Search and recommend products based on customer needs\n")
	sb.WriteString("- Answer product-related questions (features, sizes, materials, etc.)\n")
	sb.WriteString("- Help customers compare products\n")
	sb.WriteString("- Assist with adding items to cart\n")
	sb.WriteString("- Guide checkout process\n")
	sb.WriteString("- Provide personalized shopping advice\n\n")

	fmt.Fprintf(&sb, "AVAILABLE PRODUCTS (%d products):\n", len(ctx.Products))
	sb.WriteString(b.formatProducts(ctx.Products))
	sb.WriteString("\n\n")

	sb.WriteString("CURRENT CONVERSATION CONTEXT:\n")
	fmt.Fprintf(&sb, "- Cart Items: %d\n", ctx.CartItemCount)
	interests := ctx.PreviousInterests
	if interests == "" {
		interests = "None"
	}
	fmt.Fprintf(&sb, "- Customer Previous Interests: %s\n\n", interests)

	sb.WriteString("GUIDELINES:\n")
	sb.WriteString("1. Be friendly, helpful, and concise\n")
	sb.WriteString("2. When recommending products, reference them by name with clear details\n")
	sb.WriteString("3. If a product is out of stock, suggest alternatives\n")
	sb.WriteString("4. Always confirm before adding items to cart\n")
	sb.WriteString("5. Use natural, conversational language\n")
	sb.WriteString("6. If you don't have information, be honest\n")
	sb.WriteString("7. Focus on understanding customer needs before suggesting products\n")
	sb.WriteString("8. Highlight product benefits and use cases\n")
	sb.WriteString("9. Use markdown formatting for better readability\n")

	if ctx.CustomPrompt != "" {
		sb.WriteString("\nCUSTOM INSTRUCTIONS:\n")
		sb.WriteString(ctx.CustomPrompt)
		sb.WriteString("\n")
	}

	sb.WriteString("\nRemember: Your goal is to provide an exceptional shopping experience that's better than traditional search.")

	return sb.String()
}

// formatProducts renders the catalog excerpt, capped at contextProductLimit
// entries to bound the payload.
func (b *PromptBuilder) formatProducts(products []models.Product) string {
	if len(products) == 0 {
		return "No products available"
	}

	if len(products) > contextProductLimit {
		products = products[:contextProductLimit]
	}

	lines := make([]string, 0, len(products))
	for _, p := range products {
		desc := p.Description
		if desc == "" {
			desc = "No description"
		} else if runes := []rune(desc); len(runes) > descriptionExcerptLen {
			desc = string(runes[:descriptionExcerptLen])
		}

		marker := ""
		if !p.Available {
			marker = " [OUT OF STOCK]"
		}

		lines = append(lines, fmt.Sprintf("- %s (ID: %s) - %s %s - %s%s",
			p.Title, p.ID, p.PriceAmount.StringFixed(2), p.CurrencyCode, desc, marker))
	}

	return strings.Join(lines, "\n")
}

// WindowMessages converts persisted messages into model turns, keeping only
// the most recent historyLimit user/assistant entries so the payload cannot
// grow without bound as conversations age. System messages survive the cut.
func (b *PromptBuilder) WindowMessages(messages []models.Message) []llm.ChatMessage {
	if len(messages) > b.historyLimit {
		turns := 0
		for _, m := range messages {
			if m.Role != models.MessageRoleSystem {
				turns++
			}
		}

		drop := turns - b.historyLimit
		kept := make([]models.Message, 0, len(messages)-drop)
		for _, m := range messages {
			if m.Role != models.MessageRoleSystem && drop > 0 {
				drop--
				continue
			}
			kept = append(kept, m)
		}
		messages = kept
	}

	out := make([]llm.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
