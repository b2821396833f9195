package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/cv-coach/internal/metrics"
)

// Oracle is the external text-generation service: a prompt goes in, raw text
// comes out. Callers parse and validate the text themselves.
type Oracle interface {
	Evaluate(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into a vector for reference-guidance retrieval.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiOptions struct {
	APIKey      string
	Model       string
	EmbedModel  string
	Temperature float32
	// Timeout bounds a single oracle call; zero means no limit.
	Timeout time.Duration
	// BaseURL overrides the Gemini endpoint.
	BaseURL string
}

type GeminiService struct {
	client      *genai.Client
	modelName   string
	embedModel  string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, logger *zap.Logger) (*GeminiService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{
		client:      client,
		modelName:   opts.Model,
		embedModel:  opts.EmbedModel,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		logger:      logger,
	}, nil
}

// Evaluate implements Oracle. It makes exactly one call; failures are not retried.
func (g *GeminiService) Evaluate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		g.logger.Warn("gemini generate content failed", zap.String("model", g.modelName), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrUpstream)
	}

	text := resp.Text()
	if text == "" {
		g.logger.Warn("gemini response had no text", zap.Int("candidates", len(resp.Candidates)))
		return "", fmt.Errorf("%w: no text content in response", ErrUpstream)
	}

	return text, nil
}

// GenerateEmbedding implements Embedder.
func (g *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	// ~10000 tokens is the embedding input ceiling
	text = truncateUTF8(text, maxEmbeddingInputBytes)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

const maxEmbeddingInputBytes = 40000

// truncateUTF8 cuts text to at most max bytes without splitting a rune.
func truncateUTF8(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func (g *GeminiService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

// callOracle wraps one oracle round-trip with latency and outcome metrics.
func callOracle(ctx context.Context, oracle Oracle, operation, prompt string) (string, error) {
	start := time.Now()
	text, err := oracle.Evaluate(ctx, prompt)
	metrics.ObserveOracleCall(operation, err, time.Since(start))
	return text, err
}
