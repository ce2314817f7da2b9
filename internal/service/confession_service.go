package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/observability"
	"github.com/spillzone/spillzone-api/internal/repository"
	"github.com/spillzone/spillzone-api/internal/sample"
	"github.com/spillzone/spillzone-api/pkg/roast"
)

// ErrTagUnknown indicates the confession tag is not part of the fixed category set.
var ErrTagUnknown = errors.New("unknown confession tag")

// ErrCounterUnknown indicates a reaction or poll key outside the fixed sets.
var ErrCounterUnknown = errors.New("unknown counter key")

// ErrContentEmpty indicates user input reduced to nothing after sanitization.
var ErrContentEmpty = errors.New("content is empty after sanitization")

const feedCacheKey = "feed:v1"

// StatsRecorder receives profile stat bumps triggered by content creation.
type StatsRecorder interface {
	RecordConfessionShared(ctx context.Context, userID, tag string) error
}

// ConfessionService exposes the anonymous confession feed use-cases.
type ConfessionService interface {
	Feed(ctx context.Context, limit int) dto.FeedResponse
	Create(ctx context.Context, payload dto.ConfessionCreateRequest) (dto.ConfessionResponse, error)
	React(ctx context.Context, id uint, key string) error
	Vote(ctx context.Context, id uint, option string) error
}

type confessionService struct {
	repo      repository.ConfessionRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	roaster   roast.Generator
	stats     StatsRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewConfessionService constructs the confession feed service.
func NewConfessionService(repo repository.ConfessionRepository, cache *redis.Client, cacheTTL time.Duration, roaster roast.Generator, stats StatsRecorder, validate *validator.Validate, logger zerolog.Logger) ConfessionService {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Second
	}

	return &confessionService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		roaster:   roaster,
		stats:     stats,
		validator: validate,
		logger:    logger.With().Str("component", "confession_service").Logger(),
		tracer:    otel.Tracer("github.com/spillzone/spillzone-api/internal/service/confession"),
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// Feed returns the newest live confessions. When the store is unreachable the
// bundled sample feed is served instead, flagged with the connection error so
// clients can show the banner. Live and sample items are never mixed.
func (s *confessionService) Feed(ctx context.Context, limit int) dto.FeedResponse {
	now := s.now()

	if cached, ok := s.cachedFeed(ctx, limit); ok {
		observability.FeedRequests().WithLabelValues("hit").Inc()
		return cached
	}

	confessions, err := s.repo.ListLive(ctx, now, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("feed fetch failed, serving sample data")
		observability.FeedRequests().WithLabelValues("fallback").Inc()
		return dto.FeedResponse{
			Source:          dto.FeedSourceSample,
			ConnectionError: err.Error(),
			Items:           sample.Feed(now),
		}
	}

	response := dto.FeedResponse{
		Source: dto.FeedSourceLive,
		Items:  dto.NewConfessionResponseSlice(confessions),
	}

	s.storeFeedCache(ctx, limit, response)
	observability.FeedRequests().WithLabelValues("miss").Inc()

	return response
}

func (s *confessionService) Create(ctx context.Context, payload dto.ConfessionCreateRequest) (dto.ConfessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ConfessionResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.ConfessionResponse{}, ErrContentEmpty
	}

	if !roast.KnownTag(payload.Tag) {
		return dto.ConfessionResponse{}, fmt.Errorf("%w: %s", ErrTagUnknown, payload.Tag)
	}

	if err := roast.Moderate(content); err != nil {
		return dto.ConfessionResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "confession.create", trace.WithAttributes(
		attribute.String("confession.tag", payload.Tag),
	))
	defer span.End()

	line, err := s.roaster.Roast(spanCtx, content, payload.Tag)
	if err != nil {
		span.RecordError(err)
		return dto.ConfessionResponse{}, fmt.Errorf("generate roast: %w", err)
	}

	createdAt := s.now()
	confession := models.Confession{
		Content:   content,
		Tag:       payload.Tag,
		Roast:     line,
		UserID:    strings.TrimSpace(payload.UserID),
		CreatedAt: createdAt,
		ExpiresAt: models.ExpiryFrom(createdAt),
	}

	if err := s.repo.Create(spanCtx, &confession); err != nil {
		span.RecordError(err)
		return dto.ConfessionResponse{}, err
	}

	s.invalidateFeedCache(spanCtx)
	observability.ConfessionsCreated().WithLabelValues(confession.Tag).Inc()
	s.logger.Info().Uint("confession_id", confession.ID).Str("tag", confession.Tag).Msg("confession created")

	if s.stats != nil && confession.UserID != "" {
		if err := s.stats.RecordConfessionShared(spanCtx, confession.UserID, confession.Tag); err != nil {
			s.logger.Warn().Err(err).Str("user_id", confession.UserID).Msg("failed to record confession stats")
		}
	}

	return dto.NewConfessionResponse(confession), nil
}

// React bumps one reaction counter. The increment runs server-side as a single
// UPDATE expression, so concurrent reactions from different clients all land.
func (s *confessionService) React(ctx context.Context, id uint, key string) error {
	if models.ReactionColumn(key) == "" {
		return fmt.Errorf("%w: %s", ErrCounterUnknown, key)
	}

	if err := s.repo.IncrementReaction(ctx, id, key, s.now()); err != nil {
		return err
	}

	observability.ReactionsTotal().WithLabelValues(key).Inc()
	return nil
}

// Vote bumps one poll counter, with the same atomicity guarantee as React.
func (s *confessionService) Vote(ctx context.Context, id uint, option string) error {
	if models.PollColumn(option) == "" {
		return fmt.Errorf("%w: %s", ErrCounterUnknown, option)
	}

	if err := s.repo.IncrementPoll(ctx, id, option, s.now()); err != nil {
		return err
	}

	observability.PollVotesTotal().WithLabelValues(option).Inc()
	return nil
}

func (s *confessionService) cachedFeed(ctx context.Context, limit int) (dto.FeedResponse, bool) {
	if s.cache == nil {
		return dto.FeedResponse{}, false
	}

	cached, err := s.cache.Get(ctx, s.feedKey(limit)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read feed cache")
		}
		return dto.FeedResponse{}, false
	}

	var response dto.FeedResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		return dto.FeedResponse{}, false
	}

	return response, true
}

func (s *confessionService) storeFeedCache(ctx context.Context, limit int, response dto.FeedResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, s.feedKey(limit), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store feed cache")
	}
}

func (s *confessionService) invalidateFeedCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	iter := s.cache.Scan(ctx, 0, feedCacheKey+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate feed cache")
		}
	}
}

func (s *confessionService) feedKey(limit int) string {
	return fmt.Sprintf("%s:%d", feedCacheKey, limit)
}
