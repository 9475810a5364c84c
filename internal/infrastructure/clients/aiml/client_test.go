package aiml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	"github.com/zatekoja/learnplan/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*config.AIMLConfig)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.AIMLConfig{
		APIKey:          "test-key",
		BaseURL:         server.URL,
		Model:           "test-model",
		TimeoutSeconds:  2,
		RateLimitRPM:    -1,
		BreakerFailures: 5,
		BreakerCooldown: time.Minute,
	}
	if mutate != nil {
		mutate(cfg)
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(&config.AIMLConfig{})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestSuggest_SendsChatRequest(t *testing.T) {
	var captured chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		chatReply(w, "```json\n[{\"title\":\"Tour of Go\",\"url\":\"https://go.dev/tour\",\"difficulty\":1}]\n```")
	}, nil)

	result := client.Suggest(context.Background(), "learn go")

	require.True(t, result.OK(), "unexpected outcome %s: %v", result.Outcome, result.Err)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "Tour of Go", result.Suggestions[0].Title)
	assert.Equal(t, 1, result.Suggestions[0].Difficulty)

	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, SystemPrompt, captured.Messages[0].Content)
	assert.Equal(t, "learn go", captured.Messages[1].Content)
	assert.Equal(t, 0.3, captured.Temperature)
	assert.Equal(t, 0.7, captured.TopP)
	assert.Equal(t, 1.0, captured.FrequencyPenalty)
	assert.Equal(t, 2000, captured.MaxTokens)
	assert.Equal(t, 50, captured.TopK)
}

func TestSuggest_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		outcome providers.SuggestionOutcome
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			outcome: providers.SuggestionExternalFailure,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			outcome: providers.SuggestionExternalFailure,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
			outcome: providers.SuggestionExternalFailure,
		},
		{
			name: "prose instead of json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				chatReply(w, "Here are some great resources!")
			},
			outcome: providers.SuggestionParseFailure,
		},
		{
			name: "object instead of array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				chatReply(w, `{"title":"x"}`)
			},
			outcome: providers.SuggestionParseFailure,
		},
		{
			name: "empty array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				chatReply(w, "[]")
			},
			outcome: providers.SuggestionOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, nil)
			result := client.Suggest(context.Background(), "prompt")
			assert.Equal(t, tt.outcome, result.Outcome)
			if tt.outcome != providers.SuggestionOK {
				assert.Error(t, result.Err)
				assert.Empty(t, result.Suggestions)
			}
		})
	}
}

func TestSuggest_TransportTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		chatReply(w, "[]")
	}, nil)
	client.httpClient.Timeout = 50 * time.Millisecond

	result := client.Suggest(context.Background(), "prompt")

	assert.Equal(t, providers.SuggestionExternalFailure, result.Outcome)
}

func TestSuggest_SingleAttempt(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	client.Suggest(context.Background(), "prompt")

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSuggest_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *config.AIMLConfig) {
		cfg.BreakerFailures = 2
	})

	for i := 0; i < 4; i++ {
		result := client.Suggest(context.Background(), "prompt")
		assert.Equal(t, providers.SuggestionExternalFailure, result.Outcome)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSuggest_ParseFailureDoesNotTripBreaker(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		chatReply(w, "not json")
	}, func(cfg *config.AIMLConfig) {
		cfg.BreakerFailures = 1
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, providers.SuggestionParseFailure, client.Suggest(context.Background(), "p").Outcome)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSuggest_RateLimited(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		chatReply(w, "[]")
	}, func(cfg *config.AIMLConfig) {
		cfg.RateLimitRPM = 1
		cfg.RateLimitBurst = 1
	})

	first := client.Suggest(context.Background(), "p")
	second := client.Suggest(context.Background(), "p")

	assert.True(t, first.OK())
	assert.Equal(t, providers.SuggestionExternalFailure, second.Outcome)
	assert.ErrorIs(t, second.Err, ErrRateLimited)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
