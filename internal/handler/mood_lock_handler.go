package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/service"
	"github.com/spillzone/spillzone-api/internal/utils"
)

// MoodLockHandler serves the mood selection and lock status endpoints.
type MoodLockHandler struct {
	service service.MoodLockService
	logger  zerolog.Logger
}

// NewMoodLockHandler constructs the handler instance.
func NewMoodLockHandler(service service.MoodLockService, logger zerolog.Logger) *MoodLockHandler {
	return &MoodLockHandler{
		service: service,
		logger:  logger.With().Str("component", "mood_lock_handler").Logger(),
	}
}

// Register wires the mood lock routes.
func (h *MoodLockHandler) Register(router fiber.Router) {
	router.Post("/select", h.selectRoom)
	router.Get("/status", h.status)
}

func (h *MoodLockHandler) selectRoom(c *fiber.Ctx) error {
	handle := callerHandle(c)
	if handle == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user handle required")
	}

	var payload dto.MoodSelectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	status, err := h.service.Select(requestContext(c), handle, payload.RoomID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomUnknown):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrMoodLocked):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to select mood room")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to select mood room")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "mood locked", status)
}

func (h *MoodLockHandler) status(c *fiber.Ctx) error {
	handle := callerHandle(c)
	if handle == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user handle required")
	}

	status, err := h.service.Status(requestContext(c), handle)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch mood status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch mood status")
	}

	return utils.SendSuccess(c, "mood status", status)
}
