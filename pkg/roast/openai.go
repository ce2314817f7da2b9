package roast

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	roastDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spillzone",
		Subsystem: "roast",
		Name:      "generation_duration_seconds",
		Help:      "Duration of AI roast generation requests",
	}, []string{"model"})

	roastFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spillzone",
		Subsystem: "roast",
		Name:      "generation_failures_total",
		Help:      "Number of AI roast generation failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI roast generator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGenerator produces roasts via the OpenAI chat completion API, falling
// back to the template list when the request fails.
type OpenAIGenerator struct {
	client   *openai.Client
	cfg      OpenAIConfig
	fallback *TemplateGenerator
	tracer   trace.Tracer
	logger   zerolog.Logger
}

// NewOpenAIGenerator builds a generator using the provided configuration.
func NewOpenAIGenerator(cfg OpenAIConfig, fallback *TemplateGenerator) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if fallback == nil {
		return nil, fmt.Errorf("fallback template generator is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 120
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.9
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	client := openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey))

	return &OpenAIGenerator{
		client:   client,
		cfg:      cfg,
		fallback: fallback,
		tracer:   otel.Tracer("github.com/spillzone/spillzone-api/pkg/roast/openai"),
		logger:   logger.With().Str("component", "roast_openai").Logger(),
	}, nil
}

// Roast asks the model for a one-liner. Any failure falls back to the
// template list so confession creation never blocks on the AI provider.
func (g *OpenAIGenerator) Roast(parent context.Context, content, tag string) (string, error) {
	ctx, span := g.tracer.Start(parent, "roast.generate", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.String("tag", tag),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: roastSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildRoastPrompt(content, tag),
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	roastDuration.WithLabelValues(g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		roastFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.Warn().Err(err).Msg("openai roast failed, using template fallback")
		return g.fallback.Roast(ctx, content, tag)
	}

	if len(resp.Choices) == 0 {
		roastFailures.WithLabelValues(g.cfg.Model).Inc()
		g.logger.Warn().Msg("openai returned no choices, using template fallback")
		return g.fallback.Roast(ctx, content, tag)
	}

	line := strings.TrimSpace(resp.Choices[0].Message.Content)
	if line == "" {
		return g.fallback.Roast(ctx, content, tag)
	}

	return line, nil
}

func roastSystemPrompt() string {
	return "You write one-line playful roasts for anonymous confessions on a social app. " +
		"Be witty, never cruel, never reference real people, and keep it under 150 characters."
}

func buildRoastPrompt(content, tag string) string {
	builder := strings.Builder{}
	builder.WriteString("Category: ")
	builder.WriteString(tag)
	builder.WriteString("\nConfession: ")
	builder.WriteString(content)
	builder.WriteString("\nReturn a single roast line, no quotes.")
	return builder.String()
}
