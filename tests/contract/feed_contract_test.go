package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/handler"
	"github.com/spillzone/spillzone-api/internal/models"
)

type stubConfessionService struct {
	feed dto.FeedResponse
}

func (s stubConfessionService) Feed(context.Context, int) dto.FeedResponse { return s.feed }

func (s stubConfessionService) Create(context.Context, dto.ConfessionCreateRequest) (dto.ConfessionResponse, error) {
	return dto.ConfessionResponse{}, nil
}

func (s stubConfessionService) React(context.Context, uint, string) error { return nil }

func (s stubConfessionService) Vote(context.Context, uint, string) error { return nil }

func TestConfessionFeedContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "feed.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := dto.FeedResponse{
		Source: dto.FeedSourceLive,
		Items: []dto.ConfessionResponse{
			{
				ID:      7,
				Content: "my situationship sent a voice memo apology",
				Tag:     "#Ghosted",
				Roast:   "A voice memo apology is just a podcast nobody subscribed to.",
				Reactions: map[string]int64{
					models.ReactionLaugh: 12, models.ReactionSkull: 3,
					models.ReactionShocked: 1, models.ReactionCry: 0,
				},
				Poll:      map[string]int64{models.PollYou: 4, models.PollThem: 9, models.PollBoth: 2},
				CreatedAt: now.Add(-time.Hour),
				ExpiresAt: now.Add(23 * time.Hour),
			},
		},
	}

	confessionHandler := handler.NewConfessionHandler(stubConfessionService{feed: feed}, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/confessions")
	confessionHandler.Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/confessions/feed", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestSampleFallbackFeedContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "feed.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	feed := dto.FeedResponse{
		Source:          dto.FeedSourceSample,
		ConnectionError: "dial tcp 127.0.0.1:5432: connect: connection refused",
		Items:           []dto.ConfessionResponse{},
	}

	confessionHandler := handler.NewConfessionHandler(stubConfessionService{feed: feed}, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/confessions")
	confessionHandler.Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/confessions/feed", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "sample", resp.Header.Get("X-Feed-Source"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.NoError(t, schema.Validate(payload))
}
