package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guruganeshkannan/Afterlife/internal/config"
)

func TestGenerateProfile(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: "warm and direct"}},
			},
		})
	}))
	defer server.Close()

	gen := NewChatGenerator(config.AIConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL,
		Model:   "gpt-4",
	})

	profile, err := gen.GenerateProfile(context.Background(), []string{"sample one", "sample two"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "warm and direct", profile["writing_style"])
	assert.Equal(t, 2, profile["sample_count"])
}

func TestGenerateProfileCapsSamples(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Content: "ok"}},
			},
		})
	}))
	defer server.Close()

	gen := NewChatGenerator(config.AIConfig{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-4"})

	samples := make([]string, 10)
	for i := range samples {
		samples[i] = "sample"
	}
	profile, err := gen.GenerateProfile(context.Background(), samples)
	require.NoError(t, err)
	assert.Equal(t, maxSamples, profile["sample_count"])
}

func TestGenerateProfileWithoutKey(t *testing.T) {
	gen := NewChatGenerator(config.AIConfig{})
	_, err := gen.GenerateProfile(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateProfileServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gen := NewChatGenerator(config.AIConfig{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-4"})
	_, err := gen.GenerateProfile(context.Background(), []string{"x"})
	assert.Error(t, err)
}
