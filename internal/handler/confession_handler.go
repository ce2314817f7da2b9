package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/service"
	"github.com/spillzone/spillzone-api/internal/utils"
	"github.com/spillzone/spillzone-api/pkg/roast"
)

// ConfessionHandler serves the confession feed endpoints.
type ConfessionHandler struct {
	service service.ConfessionService
	logger  zerolog.Logger
}

// NewConfessionHandler constructs the handler instance.
func NewConfessionHandler(service service.ConfessionService, logger zerolog.Logger) *ConfessionHandler {
	return &ConfessionHandler{
		service: service,
		logger:  logger.With().Str("component", "confession_handler").Logger(),
	}
}

// Register wires the confession routes.
func (h *ConfessionHandler) Register(router fiber.Router) {
	router.Get("/feed", h.feed)
	router.Post("/", h.create)
	router.Post("/:id/reactions/:key", h.react)
	router.Post("/:id/poll/:option", h.vote)
}

func (h *ConfessionHandler) feed(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	result := h.service.Feed(requestContext(c), limit)
	if result.Source == dto.FeedSourceSample {
		c.Set("X-Feed-Source", dto.FeedSourceSample)
	}

	return utils.SendSuccess(c, "confession feed", result)
}

func (h *ConfessionHandler) create(c *fiber.Ctx) error {
	var payload dto.ConfessionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.UserID == "" {
		payload.UserID = callerHandle(c)
	}

	confession, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrTagUnknown), errors.Is(err, service.ErrContentEmpty):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, roast.ErrContentRejected):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create confession")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create confession")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "confession created", confession)
}

func (h *ConfessionHandler) react(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid confession id")
	}

	if err := h.service.React(requestContext(c), id, c.Params("key")); err != nil {
		return h.counterError(c, err, "failed to record reaction")
	}

	return utils.SendSuccess(c, "reaction recorded", nil)
}

func (h *ConfessionHandler) vote(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid confession id")
	}

	if err := h.service.Vote(requestContext(c), id, c.Params("option")); err != nil {
		return h.counterError(c, err, "failed to record vote")
	}

	return utils.SendSuccess(c, "vote recorded", nil)
}

func (h *ConfessionHandler) counterError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrCounterUnknown):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "confession not found or expired")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
