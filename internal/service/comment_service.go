package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/observability"
	"github.com/spillzone/spillzone-api/internal/repository"
)

const commentBufferSize = 16

// ErrConfessionExpired indicates the target confession aged out of the feed.
var ErrConfessionExpired = errors.New("confession has expired")

// CommentService exposes per-confession comment threads with realtime pushes.
type CommentService interface {
	List(ctx context.Context, confessionID uint, limit int) ([]dto.CommentResponse, error)
	Create(ctx context.Context, confessionID uint, payload dto.CommentCreateRequest) (dto.CommentResponse, error)
	Subscribe(confessionID uint) (<-chan dto.CommentResponse, func())
	Start(ctx context.Context)
}

type commentService struct {
	repo        repository.CommentRepository
	confessions repository.ConfessionRepository
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	broker      *commentBroker
	nodeID      string
	now         func() time.Time
	pseudonym   func() string
}

type commentEvent struct {
	Source  string              `json:"source"`
	Comment dto.CommentResponse `json:"comment"`
	SentAt  time.Time           `json:"sent_at"`
}

// commentBroker fans comment inserts out to in-process subscribers, scoped by
// confession id. Each insert is delivered to a given subscriber exactly once.
type commentBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan dto.CommentResponse]struct{}
}

// NewCommentService constructs a comment service.
func NewCommentService(repo repository.CommentRepository, confessions repository.ConfessionRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, validate *validator.Validate, logger zerolog.Logger) CommentService {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":comments"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".comments"
	}

	return &commentService{
		repo:        repo,
		confessions: confessions,
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		validator:   validate,
		logger:      logger.With().Str("component", "comment_service").Logger(),
		tracer:      otel.Tracer("github.com/spillzone/spillzone-api/internal/service/comment"),
		sanitizer:   bluemonday.StrictPolicy(),
		broker: &commentBroker{
			subscribers: make(map[uint]map[chan dto.CommentResponse]struct{}),
		},
		nodeID: uuid.NewString(),
		now:    time.Now,
		pseudonym: func() string {
			return fmt.Sprintf("User%d", rand.Intn(1000))
		},
	}
}

func (s *commentService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *commentService) List(ctx context.Context, confessionID uint, limit int) ([]dto.CommentResponse, error) {
	comments, err := s.repo.ListByConfession(ctx, confessionID, s.now(), limit)
	if err != nil {
		return nil, err
	}
	return dto.NewCommentResponseSlice(comments), nil
}

func (s *commentService) Create(ctx context.Context, confessionID uint, payload dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if text == "" {
		return dto.CommentResponse{}, ErrContentEmpty
	}

	// Commenting on an expired or missing confession is rejected up front.
	confession, err := s.confessions.Get(ctx, confessionID)
	if err != nil {
		return dto.CommentResponse{}, err
	}

	createdAt := s.now()
	if confession.Expired(createdAt) {
		return dto.CommentResponse{}, ErrConfessionExpired
	}

	author := strings.TrimSpace(s.sanitizer.Sanitize(payload.Author))
	if author == "" {
		author = s.pseudonym()
	}

	spanCtx, span := s.tracer.Start(ctx, "comment.create", trace.WithAttributes(
		attribute.Int("comment.confession_id", int(confessionID)),
	))
	defer span.End()

	comment := models.Comment{
		ConfessionID: confessionID,
		Author:       author,
		Text:         text,
		CreatedAt:    createdAt,
		ExpiresAt:    models.ExpiryFrom(createdAt),
	}

	if err := s.repo.Create(spanCtx, &comment); err != nil {
		span.RecordError(err)
		return dto.CommentResponse{}, err
	}

	response := dto.NewCommentResponse(comment)
	s.broker.broadcast(confessionID, response)
	if err := s.publish(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish comment event")
	}

	observability.CommentsCreated().Inc()

	return response, nil
}

// Subscribe opens a push channel for new comments on one confession. The
// returned cleanup must be called when the consumer goes away.
func (s *commentService) Subscribe(confessionID uint) (<-chan dto.CommentResponse, func()) {
	channel := make(chan dto.CommentResponse, commentBufferSize)

	s.broker.subscribe(confessionID, channel)
	observability.CommentSubscribersActive().Inc()

	cleanup := func() {
		s.broker.unsubscribe(confessionID, channel)
		observability.CommentSubscribersActive().Dec()
	}

	return channel, cleanup
}

func (s *commentService) publish(ctx context.Context, comment dto.CommentResponse) error {
	event := commentEvent{
		Source:  s.nodeID,
		Comment: comment,
		SentAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *commentService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("comment redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *commentService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "spillzone-comments", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats comments subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain comment nats subscription")
		}
	}()
}

func (s *commentService) handleEvent(payload []byte) {
	var event commentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid comment event payload")
		return
	}

	// Local inserts already reached subscribers via the broker; only remote
	// node events are replayed, so each comment is delivered exactly once.
	if event.Source == s.nodeID {
		return
	}

	s.broker.broadcast(event.Comment.ConfessionID, event.Comment)
}

func (b *commentBroker) subscribe(confessionID uint, ch chan dto.CommentResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[confessionID]; !exists {
		b.subscribers[confessionID] = make(map[chan dto.CommentResponse]struct{})
	}
	b.subscribers[confessionID][ch] = struct{}{}
}

func (b *commentBroker) unsubscribe(confessionID uint, ch chan dto.CommentResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[confessionID]; ok {
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(b.subscribers, confessionID)
		}
	}
}

func (b *commentBroker) broadcast(confessionID uint, comment dto.CommentResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers := b.subscribers[confessionID]
	for ch := range subscribers {
		select {
		case ch <- comment:
		default:
		}
	}
}
