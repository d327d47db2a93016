// internal/llm/openai.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/abhi7515/shopdev/internal/apperrors"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

type openAIProvider struct {
	opts     Options
	client   *http.Client
	endpoint string
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *openAIProvider) Generate(ctx context.Context, systemPrompt string, messages []ChatMessage) (*Completion, error) {
	apiMessages := make([]ChatMessage, 0, len(messages)+1)
	apiMessages = append(apiMessages, ChatMessage{Role: "system", Content: systemPrompt})
	apiMessages = append(apiMessages, messages...)

	body, err := json.Marshal(openAIRequest{
		Model:       p.opts.Model,
		Messages:    apiMessages,
		MaxTokens:   p.opts.MaxTokens,
		Temperature: p.opts.Temperature,
	})
	if err != nil {
		return nil, apperrors.Upstream("failed to encode OpenAI request", err)
	}

	endpoint := p.endpoint
	if endpoint == "" {
		endpoint = openAIEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Upstream("failed to build OpenAI request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.opts.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("OpenAI API request failed", err)
	}
	defer resp.Body.Close()

	var payload openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Upstream("failed to decode OpenAI response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := "unknown error"
		if payload.Error != nil {
			message = payload.Error.Message
		}
		return nil, apperrors.Upstream("OpenAI API error: "+message, nil)
	}

	if len(payload.Choices) == 0 {
		return nil, apperrors.Upstream("OpenAI returned no choices", nil)
	}

	return &Completion{
		Content:    payload.Choices[0].Message.Content,
		TokensUsed: payload.Usage.TotalTokens,
	}, nil
}
