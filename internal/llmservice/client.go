package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"schema-link/internal/config"
)

// Generator is the single-method capability the agent and synthesizer depend
// on. Production wraps a hosted model; tests inject a canned-response fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client generates text through a langchaingo model.
type Client struct {
	llm llms.Model
}

// NewClient builds a generator for the configured provider.
func NewClient(cfg *config.LLMConfig) (*Client, error) {
	var (
		llm llms.Model
		err error
	)
	switch cfg.Provider {
	case "ollama":
		llm, err = ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
	default:
		llm, err = openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	return &Client{llm: llm}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	log.Debug().Int("prompt_chars", len(prompt)).Msg("Generating content")
	return llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
}
