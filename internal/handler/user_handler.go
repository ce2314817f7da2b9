package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/spillzone/spillzone-api/internal/service"
	"github.com/spillzone/spillzone-api/internal/utils"
)

// UserHandler serves the anonymous account endpoints.
type UserHandler struct {
	service service.ProfileService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler instance.
func NewUserHandler(service service.ProfileService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires the user routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Post("/sign-in", h.signIn)
	router.Get("/me", h.me)
	router.Get("/me/badges", h.badges)
}

func (h *UserHandler) signIn(c *fiber.Ctx) error {
	user, err := h.service.SignIn(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create anonymous account")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create anonymous account")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "signed in", user)
}

func (h *UserHandler) me(c *fiber.Ctx) error {
	handle := callerHandle(c)
	if handle == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user handle required")
	}

	user, err := h.service.Get(requestContext(c), handle)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch profile")
	}

	return utils.SendSuccess(c, "profile", user)
}

func (h *UserHandler) badges(c *fiber.Ctx) error {
	handle := callerHandle(c)
	if handle == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user handle required")
	}

	badges, err := h.service.Badges(requestContext(c), handle)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch badges")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch badges")
	}

	return utils.SendSuccess(c, "badges", badges)
}
