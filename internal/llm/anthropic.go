// internal/llm/anthropic.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/abhi7515/shopdev/internal/apperrors"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
)

type anthropicProvider struct {
	opts     Options
	client   *http.Client
	endpoint string
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system"`
	Messages    []ChatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *anthropicProvider) Generate(ctx context.Context, systemPrompt string, messages []ChatMessage) (*Completion, error) {
	// The messages API only accepts user/assistant roles; anything else is
	// folded into a user turn.
	apiMessages := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "assistant"
		}
		apiMessages = append(apiMessages, ChatMessage{Role: role, Content: m.Content})
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       p.opts.Model,
		MaxTokens:   p.opts.MaxTokens,
		Temperature: p.opts.Temperature,
		System:      systemPrompt,
		Messages:    apiMessages,
	})
	if err != nil {
		return nil, apperrors.Upstream("failed to encode Anthropic request", err)
	}

	endpoint := p.endpoint
	if endpoint == "" {
		endpoint = anthropicEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Upstream("failed to build Anthropic request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.opts.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("Anthropic API request failed", err)
	}
	defer resp.Body.Close()

	var payload anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Upstream("failed to decode Anthropic response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := "unknown error"
		if payload.Error != nil {
			message = payload.Error.Message
		}
		return nil, apperrors.Upstream("Anthropic API error: "+message, nil)
	}

	if len(payload.Content) == 0 {
		return nil, apperrors.Upstream("Anthropic returned no content", nil)
	}

	return &Completion{
		Content:    payload.Content[0].Text,
		TokensUsed: payload.Usage.InputTokens + payload.Usage.OutputTokens,
	}, nil
}
