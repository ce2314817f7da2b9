package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/middleware"
	"github.com/spillzone/spillzone-api/internal/models"
	"github.com/spillzone/spillzone-api/internal/service"
	"github.com/spillzone/spillzone-api/internal/utils"
	"github.com/spillzone/spillzone-api/pkg/roast"
)

// ChatHandler wires mood room endpoints including the websocket upgrade.
type ChatHandler struct {
	service service.ChatService
	logger  zerolog.Logger
}

// NewChatHandler creates a chat handler instance.
func NewChatHandler(service service.ChatService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register binds chat routes under the provided router group.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Get("/rooms", h.rooms)
	router.Get("/rooms/:room/history", h.history)
	router.Post("/rooms/:room/messages", h.send)

	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("request_ctx", requestContext(c))
			c.Locals("correlation_id", middleware.GetCorrelationID(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *ChatHandler) rooms(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "mood rooms", dto.NewMoodRoomResponseSlice(models.MoodRooms))
}

func (h *ChatHandler) history(c *fiber.Ctx) error {
	roomID := strings.TrimSpace(c.Params("room"))

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	messages, err := h.service.History(requestContext(c), roomID, dto.ChatHistoryQuery{Limit: limit})
	if err != nil {
		if errors.Is(err, service.ErrRoomUnknown) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch chat history")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch chat history")
	}

	return utils.SendSuccess(c, "chat history", messages)
}

func (h *ChatHandler) send(c *fiber.Ctx) error {
	roomID := strings.TrimSpace(c.Params("room"))
	handle := callerHandle(c)
	if handle == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user handle required")
	}

	var payload dto.ChatSendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	message, err := h.service.Send(requestContext(c), roomID, handle, payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrContentEmpty):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrRoomUnknown):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, roast.ErrContentRejected):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrRoomNotLocked):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to send chat message")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to send chat message")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message sent", message)
}

func (h *ChatHandler) handleConnection(conn *websocket.Conn) {
	handle := strings.TrimSpace(conn.Query("handle"))
	if handle == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusUnauthorized, "handle required"))
		_ = conn.Close()
		return
	}

	roomID := strings.TrimSpace(conn.Query("room_id"))
	if _, ok := models.MoodRoomByID(roomID); !ok {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "unknown room"))
		_ = conn.Close()
		return
	}

	correlation := fmt.Sprint(conn.Locals("correlation_id"))
	baseCtx, _ := conn.Locals("request_ctx").(context.Context)

	opts := service.ChatConnectionOptions{
		UserID:        handle,
		RoomID:        roomID,
		CorrelationID: correlation,
		Context:       baseCtx,
	}

	h.logger.Info().Str("handle", handle).Str("room_id", roomID).Msg("chat websocket connected")
	h.service.ServeConnection(conn, opts)
	h.logger.Info().Str("handle", handle).Str("room_id", roomID).Msg("chat websocket disconnected")
}
