// internal/storefront/client.go
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abhi7515/shopdev/internal/apperrors"
)

const defaultPageSize = 250

// Client talks to the storefront GraphQL API for a single shop. It is a pure
// read/one-shot-mutation client: no retries, the caller decides.
type Client struct {
	shop        string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	endpoint    string
}

func NewClient(shop, accessToken, apiVersion string, timeout time.Duration) *Client {
	return &Client{
		shop:        shop,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient:  &http.Client{Timeout: timeout},
		endpoint:    fmt.Sprintf("https://%s/api/%s/graphql.json", shop, apiVersion),
	}
}

// WithEndpoint overrides the API endpoint. Used by tests.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

func (c *Client) Shop() string {
	return c.shop
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// UserError is a provider-reported, user-facing mutation error. Both field
// and message must survive to the caller.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func joinUserErrors(errs []UserError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(e.Field) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(e.Field, "."), e.Message))
		} else {
			parts = append(parts, e.Message)
		}
	}
	return strings.Join(parts, ", ")
}

// execute posts a GraphQL query and decodes the data payload into out.
// Transport failures, non-2xx responses and protocol-level errors all map to
// an upstream error.
func (c *Client) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return apperrors.Upstream("failed to encode storefront request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.Upstream("failed to build storefront request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Upstream("storefront API request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.Upstream(fmt.Sprintf("storefront API error: %s", resp.Status), nil)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return apperrors.Upstream("failed to decode storefront response", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return apperrors.Upstream("GraphQL errors: "+strings.Join(messages, "; "), nil)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return apperrors.Upstream("failed to decode storefront data", err)
		}
	}

	return nil
}
