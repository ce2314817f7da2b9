package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/observability"
	"github.com/spillzone/spillzone-api/internal/repository"
	"github.com/spillzone/spillzone-api/pkg/roast"
)

const (
	chatRedisTTL       = 30 * time.Minute
	chatSendBufferSize = 32
)

// ErrRoomNotLocked indicates the sender holds no active lock on the room they
// tried to post into. Chat activity is scoped to the locked room only.
var ErrRoomNotLocked = errors.New("sender not locked into room")

// ChatConnectionOptions wraps metadata extracted during the HTTP upgrade.
type ChatConnectionOptions struct {
	UserID        string
	RoomID        string
	CorrelationID string
	Context       context.Context
}

// ChatService manages mood room websocket connections and message delivery.
type ChatService interface {
	ServeConnection(conn *websocket.Conn, opts ChatConnectionOptions)
	History(ctx context.Context, roomID string, query dto.ChatHistoryQuery) ([]dto.ChatMessageResponse, error)
	Send(ctx context.Context, roomID, userID string, payload dto.ChatSendRequest) (dto.ChatMessageResponse, error)
	Start(ctx context.Context)
}

type chatService struct {
	repo        repository.ChatRepository
	locks       MoodLockService
	bot         *roast.TemplateGenerator
	redis       *redis.Client
	redisStream string
	redisCache  string
	nats        *nats.Conn
	natsSubject string
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	hub         *chatHub
	nodeID      string
	keepAlive   time.Duration
	now         func() time.Time
}

// chatHub keeps track of active websocket clients per room and handles broadcasting.
type chatHub struct {
	mu    sync.RWMutex
	rooms map[string]map[*chatClient]struct{}
	log   zerolog.Logger
}

type chatClient struct {
	conn    *websocket.Conn
	send    chan dto.ChatMessageResponse
	options ChatConnectionOptions
	service *chatService
	closed  chan struct{}
	once    sync.Once
	baseCtx context.Context
}

type chatEvent struct {
	Source  string                  `json:"source"`
	Message dto.ChatMessageResponse `json:"message"`
	SentAt  time.Time               `json:"sent_at"`
}

// NewChatService creates a mood room chat service instance. keepAlive sets the
// websocket ping interval and falls back to 30s when unset.
func NewChatService(repo repository.ChatRepository, locks MoodLockService, bot *roast.TemplateGenerator, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, keepAlive time.Duration, validate *validator.Validate, logger zerolog.Logger) ChatService {
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}

	hub := &chatHub{
		rooms: make(map[string]map[*chatClient]struct{}),
		log:   logger.With().Str("component", "chat_hub").Logger(),
	}

	streamChannel := ""
	cachePrefix := ""
	natsSubject := ""
	if channelBase != "" {
		streamChannel = channelBase + ":chat"
		cachePrefix = channelBase + ":chat:last"
		natsSubject = strings.ReplaceAll(channelBase, ":", ".") + ".chat"
	}

	return &chatService{
		repo:        repo,
		locks:       locks,
		bot:         bot,
		redis:       redisClient,
		redisStream: streamChannel,
		redisCache:  cachePrefix,
		nats:        natsConn,
		natsSubject: natsSubject,
		validator:   validate,
		logger:      logger.With().Str("component", "chat_service").Logger(),
		tracer:      otel.Tracer("github.com/spillzone/spillzone-api/internal/service/chat"),
		sanitizer:   bluemonday.StrictPolicy(),
		hub:         hub,
		nodeID:      uuid.NewString(),
		keepAlive:   keepAlive,
		now:         time.Now,
	}
}

func (s *chatService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *chatService) ServeConnection(conn *websocket.Conn, opts ChatConnectionOptions) {
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	client := &chatClient{
		conn:    conn,
		send:    make(chan dto.ChatMessageResponse, chatSendBufferSize),
		options: opts,
		service: s,
		closed:  make(chan struct{}),
		baseCtx: baseCtx,
	}

	s.hub.register(client)
	observability.ChatConnectionsTotal().Inc()

	s.ensureGreeting(baseCtx, opts.RoomID)

	if last := s.fetchLastMessage(baseCtx, opts.RoomID); last != nil {
		select {
		case client.send <- *last:
		default:
			s.logger.Debug().Str("room_id", opts.RoomID).Msg("dropping cached chat message due to slow consumer")
		}
	}

	go client.writer()
	client.reader()
}

func (s *chatService) History(ctx context.Context, roomID string, query dto.ChatHistoryQuery) ([]dto.ChatMessageResponse, error) {
	if _, ok := models.MoodRoomByID(roomID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomUnknown, roomID)
	}

	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListByRoom(ctx, roomID, s.now(), query.Limit)
	if err != nil {
		return nil, err
	}

	return dto.NewChatMessageResponseSlice(messages), nil
}

// Send persists a user message and broadcasts it. The sender must hold an
// active mood lock on the target room.
func (s *chatService) Send(ctx context.Context, roomID, userID string, payload dto.ChatSendRequest) (dto.ChatMessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChatMessageResponse{}, err
	}

	if _, ok := models.MoodRoomByID(roomID); !ok {
		return dto.ChatMessageResponse{}, fmt.Errorf("%w: %s", ErrRoomUnknown, roomID)
	}

	active, err := s.locks.ActiveRoom(ctx, userID)
	if err != nil {
		return dto.ChatMessageResponse{}, err
	}
	if active != roomID {
		return dto.ChatMessageResponse{}, ErrRoomNotLocked
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if clean == "" {
		return dto.ChatMessageResponse{}, ErrContentEmpty
	}

	if err := roast.Moderate(clean); err != nil {
		return dto.ChatMessageResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "chat.broadcast", trace.WithAttributes(
		attribute.String("chat.room_id", roomID),
		attribute.String("chat.user_id", userID),
	))
	defer span.End()

	return s.persistAndBroadcast(spanCtx, models.ChatMessage{
		RoomID: roomID,
		UserID: userID,
		Text:   clean,
	})
}

// ensureGreeting seeds an empty room with a bot welcome line so new arrivals
// never face a blank history.
func (s *chatService) ensureGreeting(ctx context.Context, roomID string) {
	room, ok := models.MoodRoomByID(roomID)
	if !ok || s.bot == nil {
		return
	}

	_, err := s.repo.LatestByRoom(ctx, roomID, s.now())
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn().Err(err).Str("room_id", roomID).Msg("failed to check room history")
		return
	}

	greeting := s.bot.BotLine(roomID)
	if greeting == "" {
		greeting = fmt.Sprintf("Welcome to the %s room. %s", room.Mood, room.Description)
	}

	if _, err := s.persistAndBroadcast(ctx, models.ChatMessage{
		RoomID: roomID,
		Text:   greeting,
		IsBot:  true,
	}); err != nil {
		s.logger.Warn().Err(err).Str("room_id", roomID).Msg("failed to seed bot greeting")
	}
}

func (s *chatService) persistAndBroadcast(ctx context.Context, model models.ChatMessage) (dto.ChatMessageResponse, error) {
	createdAt := s.now()
	model.CreatedAt = createdAt
	model.ExpiresAt = models.ExpiryFrom(createdAt)

	if err := s.repo.Save(ctx, &model); err != nil {
		return dto.ChatMessageResponse{}, err
	}

	response := dto.NewChatMessageResponse(model)
	s.cacheLastMessage(ctx, response)
	s.hub.broadcast(response.RoomID, response)
	if err := s.publish(ctx, response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish chat event")
	}

	kind := "user"
	if model.IsBot {
		kind = "bot"
	}
	observability.ChatMessagesSent().WithLabelValues(kind).Inc()

	return response, nil
}

func (s *chatService) cacheLastMessage(ctx context.Context, message dto.ChatMessageResponse) {
	if s.redis == nil || s.redisCache == "" {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal chat message for cache")
		return
	}

	key := fmt.Sprintf("%s:%s", s.redisCache, message.RoomID)
	if err := s.redis.Set(ctx, key, payload, chatRedisTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache chat message")
	}
}

func (s *chatService) fetchLastMessage(ctx context.Context, roomID string) *dto.ChatMessageResponse {
	if s.redis == nil || s.redisCache == "" {
		return nil
	}

	key := fmt.Sprintf("%s:%s", s.redisCache, roomID)
	result, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var message dto.ChatMessageResponse
	if err := json.Unmarshal([]byte(result), &message); err != nil {
		s.logger.Warn().Err(err).Msg("failed to unmarshal cached chat message")
		return nil
	}

	return &message
}

func (s *chatService) publish(ctx context.Context, message dto.ChatMessageResponse) error {
	event := chatEvent{
		Source:  s.nodeID,
		Message: message,
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

func (s *chatService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("chat redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *chatService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "spillzone-chat", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats chat subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain chat nats subscription")
		}
	}()
}

func (s *chatService) handleEvent(data []byte) {
	var event chatEvent
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid chat event")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	s.hub.broadcast(event.Message.RoomID, event.Message)
}

func (h *chatHub) register(client *chatClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := client.options.RoomID
	if _, exists := h.rooms[room]; !exists {
		h.rooms[room] = make(map[*chatClient]struct{})
	}
	h.rooms[room][client] = struct{}{}
	h.log.Debug().Str("room_id", room).Str("user_id", client.options.UserID).Msg("chat client connected")
}

func (h *chatHub) unregister(client *chatClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := client.options.RoomID
	if clients, ok := h.rooms[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	h.log.Debug().Str("room_id", room).Str("user_id", client.options.UserID).Msg("chat client disconnected")
}

func (h *chatHub) broadcast(roomID string, message dto.ChatMessageResponse) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.rooms[roomID]
	for client := range clients {
		select {
		case client.send <- message:
		default:
			h.log.Warn().Str("room_id", roomID).Str("user_id", client.options.UserID).Msg("dropping chat message for slow client")
		}
	}
}

func (c *chatClient) reader() {
	defer c.close()

	connCtx := c.baseCtx
	if connCtx == nil {
		connCtx = context.Background()
	}

	for {
		var payload dto.ChatSendRequest
		if err := c.conn.ReadJSON(&payload); err != nil {
			c.service.logger.Debug().Err(err).Msg("chat read loop ended")
			return
		}

		if _, err := c.service.Send(connCtx, c.options.RoomID, c.options.UserID, payload); err != nil {
			c.service.logger.Warn().Err(err).Msg("failed to process chat message")
			continue
		}
	}
}

func (c *chatClient) writer() {
	defer c.close()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.service.logger.Debug().Err(err).Msg("chat write loop terminated")
				return
			}
		case <-time.After(c.service.keepAlive):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Msg("chat ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *chatClient) close() {
	c.once.Do(func() {
		close(c.closed)
		c.service.hub.unregister(c)
		_ = c.conn.Close()
	})
}
