package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/spillzone/spillzone-api/internal/dto"
	"github.com/spillzone/spillzone-api/internal/service"
	"github.com/spillzone/spillzone-api/internal/utils"
)

// GameHandler serves the mini-game session endpoints.
type GameHandler struct {
	service service.GameService
	logger  zerolog.Logger
}

// NewGameHandler constructs the handler instance.
func NewGameHandler(service service.GameService, logger zerolog.Logger) *GameHandler {
	return &GameHandler{
		service: service,
		logger:  logger.With().Str("component", "game_handler").Logger(),
	}
}

// Register wires the game routes.
func (h *GameHandler) Register(router fiber.Router) {
	router.Post("/sessions", h.saveSession)
	router.Get("/leaderboard", h.leaderboard)
}

func (h *GameHandler) saveSession(c *fiber.Ctx) error {
	var payload dto.GameSessionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.UserID == "" {
		payload.UserID = callerHandle(c)
	}

	session, err := h.service.SaveSession(requestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to save game session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save game session")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session recorded", session)
}

func (h *GameHandler) leaderboard(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.Leaderboard(requestContext(c), c.Query("game_type"), limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch leaderboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch leaderboard")
	}

	return utils.SendSuccess(c, "leaderboard", entries)
}
