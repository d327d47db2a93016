// internal/intent/intent.go

// Package intent turns a raw chat message into a structured shopping intent.
// This is deliberately a rule-based classifier, not a model call: it runs
// synchronously and the same input always yields the same intent.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

type Action string

const (
	ActionSearch         Action = "search"
	ActionAddToCart      Action = "add_to_cart"
	ActionRemoveFromCart Action = "remove_from_cart"
	ActionCheckout       Action = "checkout"
	ActionCompare        Action = "compare"
	ActionNone           Action = "none"
)

// Filters narrows a product lookup. Zero values mean "not set".
type Filters struct {
	MaxPrice *int   `json:"max_price,omitempty"`
	MinPrice *int   `json:"min_price,omitempty"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
}

// Intent is ephemeral: it is returned to the caller alongside the model
// reply and never persisted.
type Intent struct {
	Action   Action  `json:"action"`
	Quantity int     `json:"quantity"`
	Filters  Filters `json:"filters"`
}

var (
	addPattern      = regexp.MustCompile(`add|want|need|buy|purchase|get|order`)
	removePattern   = regexp.MustCompile(`remove|delete|take out`)
	checkoutPattern = regexp.MustCompile(`checkout|pay|complete|finish|done shopping`)
	comparePattern  = regexp.MustCompile(`compare|difference|versus|vs\.`)
	searchPattern   = regexp.MustCompile(`show|find|search|looking for|want to see`)

	// First integer token not attached to a dollar sign; dollar amounts are
	// price filters, not quantities.
	quantityPattern = regexp.MustCompile(`(?:^|[^$\d])(\d+)\s*(?:items?|pieces?|units?)?`)

	// The amount is anchored to the comparison phrase so a leading quantity
	// ("add 3 shirts under $50") never masquerades as the price cap.
	maxPricePattern = regexp.MustCompile(`(?:under|less than|cheaper than|below)\s*\$?(\d+)`)
	minPricePattern = regexp.MustCompile(`(?:over|more than|above|at least)\s*\$?(\d+)`)
)

var colors = []string{
	"red", "blue", "green", "black", "white", "yellow",
	"pink", "purple", "orange", "brown", "gray", "grey",
}

var sizes = []string{"xs", "small", "medium", "large", "xl", "xxl", "s", "m", "l"}

var sizePatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(sizes))
	for i, size := range sizes {
		patterns[i] = regexp.MustCompile(`\b` + size + `\b`)
	}
	return patterns
}()

// Extract classifies the message. Action detection follows a fixed
// precedence, first match wins: add_to_cart, remove_from_cart, checkout,
// compare, search, none.
func Extract(message string) Intent {
	lower := strings.ToLower(message)

	result := Intent{
		Action:   ActionNone,
		Quantity: 1,
	}

	switch {
	case addPattern.MatchString(lower):
		result.Action = ActionAddToCart
	case removePattern.MatchString(lower):
		result.Action = ActionRemoveFromCart
	case checkoutPattern.MatchString(lower):
		result.Action = ActionCheckout
	case comparePattern.MatchString(lower):
		result.Action = ActionCompare
	case searchPattern.MatchString(lower):
		result.Action = ActionSearch
	}

	if m := quantityPattern.FindStringSubmatch(message); m != nil {
		if qty, err := strconv.Atoi(m[1]); err == nil {
			result.Quantity = qty
		}
	}

	if m := maxPricePattern.FindStringSubmatch(lower); m != nil {
		if price, err := strconv.Atoi(m[1]); err == nil {
			result.Filters.MaxPrice = &price
		}
	}
	if m := minPricePattern.FindStringSubmatch(lower); m != nil {
		if price, err := strconv.Atoi(m[1]); err == nil {
			result.Filters.MinPrice = &price
		}
	}

	for _, color := range colors {
		if strings.Contains(lower, color) {
			// Grey is the same filter value as gray.
			if color == "grey" {
				color = "gray"
			}
			result.Filters.Color = color
			break
		}
	}

	for i, pattern := range sizePatterns {
		if pattern.MatchString(lower) {
			result.Filters.Size = strings.ToUpper(sizes[i])
			break
		}
	}

	return result
}
