package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Guruganeshkannan/Afterlife/internal/config"
	"github.com/Guruganeshkannan/Afterlife/internal/model"
)

// maxSamples caps how many samples go into one prompt to stay within the
// model's token limit.
const maxSamples = 5

// ProfileGenerator analyzes a user's writing samples into a personality
// profile. Callers never see the HTTP client behind it.
type ProfileGenerator interface {
	GenerateProfile(ctx context.Context, writingSamples []string) (model.JSONMap, error)
}

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("text-generation service is not configured")

var _ ProfileGenerator = (*ChatGenerator)(nil)

// ChatGenerator calls an OpenAI-compatible chat-completions endpoint.
type ChatGenerator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewChatGenerator builds a generator from AI configuration.
func NewChatGenerator(cfg config.AIConfig) *ChatGenerator {
	return &ChatGenerator{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// GenerateProfile asks the model to describe the writing style found in the
// given samples and wraps the answer in a profile document.
func (g *ChatGenerator) GenerateProfile(ctx context.Context, writingSamples []string) (model.JSONMap, error) {
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if len(writingSamples) > maxSamples {
		writingSamples = writingSamples[:maxSamples]
	}

	prompt := fmt.Sprintf(
		"Analyze the following writing samples and describe the writing style:\n%s",
		strings.Join(writingSamples, "\n"))

	styleDescription, err := g.complete(ctx, "You are a writing style analyzer.", prompt)
	if err != nil {
		return nil, err
	}

	return model.JSONMap{
		"writing_style": styleDescription,
		"sample_count":  len(writingSamples),
		"generated_at":  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *ChatGenerator) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
