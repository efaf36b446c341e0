package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/askora-ai/askora/internal/domain"
	"github.com/askora-ai/askora/internal/metrics"
)

const systemPrompt = "You are an expert assistant for a product catalog. " +
	"Answer using ONLY the information in the provided context. " +
	"If the context is insufficient, say which specific data is missing. " +
	"Reference product names, prices, and characteristics explicitly, and " +
	"compare options objectively when more than one is relevant."

// Generator produces answers via the OpenAI-compatible chat completion API.
type Generator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// GeneratorConfig holds the generation provider settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible chat generator.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
}

// Generate implements domain.Generator. The call is bounded by the configured
// timeout; any failure is wrapped with domain.ErrGenerationUnavailable so the
// pipeline can fall back to the templated summary.
func (g *Generator) Generate(ctx context.Context, contextText, question string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf("CATALOG CONTEXT:\n%s\n\nUSER QUESTION: %s", contextText, question)

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("generation timed out after %s: %w", g.timeout, domain.ErrGenerationUnavailable)
		}
		return "", fmt.Errorf("chat completion: %w: %w", domain.ErrGenerationUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}
