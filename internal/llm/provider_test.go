// internal/llm/provider_test.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhi7515/shopdev/internal/apperrors"
	"github.com/abhi7515/shopdev/internal/models"
)

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("mystery", Options{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestNewKnownProviders(t *testing.T) {
	for _, name := range []models.ProviderName{models.ProviderOpenAI, models.ProviderAnthropic} {
		provider, err := New(name, Options{APIKey: "key"})
		require.NoError(t, err)
		assert.NotNil(t, provider)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, "gpt-4", opts.Model)
	assert.Equal(t, 500, opts.MaxTokens)
	assert.Equal(t, 0.7, opts.Temperature)
	assert.Equal(t, 60*time.Second, opts.Timeout)
}

func TestOpenAIGenerate(t *testing.T) {
	var captured openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []interface{}{
				map[string]interface{}{"message": map[string]interface{}{"role": "assistant", "content": "Hello!"}},
			},
			"usage": map[string]interface{}{"total_tokens": 42},
		})
	}))
	defer server.Close()

	provider := &openAIProvider{
		opts:     Options{Model: "gpt-4o-mini", APIKey: "sk-test", MaxTokens: 100, Temperature: 0.5}.withDefaults(),
		client:   server.Client(),
		endpoint: server.URL,
	}

	completion, err := provider.Generate(context.Background(), "be helpful", []ChatMessage{
		{Role: "user", Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", completion.Content)
	assert.Equal(t, 42, completion.TokensUsed)

	// System prompt is prepended as the first message.
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "be helpful", captured.Messages[0].Content)
	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, 100, captured.MaxTokens)
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"message": "Incorrect API key provided"},
		})
	}))
	defer server.Close()

	provider := &openAIProvider{
		opts:     Options{APIKey: "bad"}.withDefaults(),
		client:   server.Client(),
		endpoint: server.URL,
	}

	_, err := provider.Generate(context.Background(), "sys", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestAnthropicGenerate(t *testing.T) {
	var captured anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []interface{}{
				map[string]interface{}{"type": "text", "text": "Hi there!"},
			},
			"usage": map[string]interface{}{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer server.Close()

	provider := &anthropicProvider{
		opts:     Options{Model: "claude-3-5-haiku-latest", APIKey: "sk-ant-test"}.withDefaults(),
		client:   server.Client(),
		endpoint: server.URL,
	}

	completion, err := provider.Generate(context.Background(), "be helpful", []ChatMessage{
		{Role: "system", Content: "welcome note"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", completion.Content)
	assert.Equal(t, 15, completion.TokensUsed)

	// System prompt travels in its own field; stray roles fold into user.
	assert.Equal(t, "be helpful", captured.System)
	require.Len(t, captured.Messages, 3)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
}

func TestAnthropicGenerateEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []interface{}{},
			"usage":   map[string]interface{}{},
		})
	}))
	defer server.Close()

	provider := &anthropicProvider{
		opts:     Options{APIKey: "key"}.withDefaults(),
		client:   server.Client(),
		endpoint: server.URL,
	}

	_, err := provider.Generate(context.Background(), "sys", nil)
	assert.True(t, apperrors.IsUpstream(err))
}
