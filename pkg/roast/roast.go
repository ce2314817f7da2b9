// Package roast generates the short reaction strings attached to confessions
// and the canned bot lines posted into mood rooms.
package roast

import (
	"context"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"
)

// Generator produces a roast for a confession.
type Generator interface {
	Roast(ctx context.Context, content, tag string) (string, error)
}

// TemplateGenerator picks a roast pseudo-randomly from a per-tag template list.
type TemplateGenerator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewTemplateGenerator builds a template-backed generator. The seed makes
// selection deterministic under test.
func NewTemplateGenerator(seed int64, logger zerolog.Logger) *TemplateGenerator {
	return &TemplateGenerator{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger.With().Str("component", "roast_templates").Logger(),
	}
}

// Roast selects a template for the tag. Unknown tags fall back to the
// #CringeText list so every confession still gets a roast.
func (g *TemplateGenerator) Roast(_ context.Context, _ string, tag string) (string, error) {
	templates, ok := roastTemplates[tag]
	if !ok {
		templates = roastTemplates[FallbackTag]
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return templates[g.rng.Intn(len(templates))], nil
}

// BotLine returns a canned bot message for the given mood room.
func (g *TemplateGenerator) BotLine(roomID string) string {
	lines, ok := botLines[roomID]
	if !ok {
		lines = botLines["lonely"]
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return lines[g.rng.Intn(len(lines))]
}
