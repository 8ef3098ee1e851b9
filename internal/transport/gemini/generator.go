package gemini

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"github.com/duma2005/moviedeck/internal/domain"
	"github.com/duma2005/moviedeck/internal/metrics"
)

const provider = "gemini"

// Generator produces chat answers with the Gemini API.
type Generator struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// Config holds the generation provider settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// New creates a Gemini-backed generator.
func New(ctx context.Context, cfg *Config) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Generator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}, nil
}

// Generate asks the model for an answer. An empty candidate list yields
// an empty string without error, so the caller can fall back.
func (g *Generator) Generate(ctx context.Context, system, user string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: user}}}}, cfg)
	duration := time.Since(start)

	if err != nil {
		metrics.GeneratorRequestsTotal.WithLabelValues(provider, g.model, "error").Inc()
		return "", fmt.Errorf("generate content: %w: %s", domain.ErrGeneratorUnavailable, err)
	}

	metrics.GeneratorRequestsTotal.WithLabelValues(provider, g.model, "success").Inc()
	metrics.GeneratorRequestDuration.WithLabelValues(provider, g.model).Observe(duration.Seconds())

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		g.logger.Warn("Empty generation response", zap.String("model", g.model))
		return "", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
