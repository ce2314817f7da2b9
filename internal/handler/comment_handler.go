package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/service"
	"github.com/spillzone/spillzone-api/internal/utils"
	"github.com/spillzone/spillzone-api/pkg/roast"
)

// CommentHandler serves per-confession comment threads, including the SSE
// stream used for realtime delivery.
type CommentHandler struct {
	service service.CommentService
	logger  zerolog.Logger
}

// NewCommentHandler constructs the handler instance.
func NewCommentHandler(service service.CommentService, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		logger:  logger.With().Str("component", "comment_handler").Logger(),
	}
}

// Register wires the comment routes under the confession group.
func (h *CommentHandler) Register(router fiber.Router) {
	router.Get("/:id/comments", h.list)
	router.Post("/:id/comments", h.create)
	router.Get("/:id/comments/stream", h.stream)
}

func (h *CommentHandler) list(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid confession id")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	comments, err := h.service.List(requestContext(c), id, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list comments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list comments")
	}

	return utils.SendSuccess(c, "comments", comments)
}

func (h *CommentHandler) create(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid confession id")
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.service.Create(requestContext(c), id, payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrContentEmpty):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, roast.ErrContentRejected):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, service.ErrConfessionExpired):
			return utils.SendError(c, fiber.StatusNotFound, "confession not found or expired")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create comment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create comment")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment created", comment)
}

func (h *CommentHandler) stream(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid confession id")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(requestContext(c))
	stream, cleanup := h.service.Subscribe(id)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cleanup()
			cancel()
		}()

		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case comment, ok := <-stream:
				if !ok {
					return
				}
				if err := writeCommentEvent(w, comment); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write comment event")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write comment keepalive")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

func writeCommentEvent(w *bufio.Writer, comment dto.CommentResponse) error {
	payload, err := json.Marshal(comment)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: comment\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}
