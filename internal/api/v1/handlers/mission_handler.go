// internal/api/v1/handlers/mission_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/service"
	"github.com/nadzifan/quran-companion-be/internal/utils"
	"github.com/rs/zerolog/log"
)

type MissionHandler struct {
	MissionService service.MissionService
	CheckinService service.CheckinService
	Validate       *validator.Validate
}

func NewMissionHandler(
	missionService service.MissionService,
	checkinService service.CheckinService,
) *MissionHandler {
	return &MissionHandler{
		MissionService: missionService,
		CheckinService: checkinService,
		Validate:       validator.New(),
	}
}

// --- Error Handling Helper ---
func handleMissionError(c *fiber.Ctx, err error, operation string) error {
	log := log.With().Str("operation", operation).Logger()

	switch {
	case errors.Is(err, service.ErrMissionNotFound):
		log.Warn().Err(err).Msg("Mission not found")
		return c.Status(fiber.StatusNotFound).JSON(models.Response{Success: false, Message: "Mission not found"})
	case errors.Is(err, service.ErrNoProgress):
		log.Warn().Err(err).Msg("No progress for this period")
		return c.Status(fiber.StatusNotFound).JSON(models.Response{Success: false, Message: "No progress recorded for this mission in the current period"})
	case errors.Is(err, service.ErrMissionNotCompleted):
		log.Warn().Err(err).Msg("Mission not completed yet")
		return c.Status(fiber.StatusConflict).JSON(models.Response{Success: false, Message: "Mission is not completed yet"})
	case errors.Is(err, service.ErrUnsupportedEvent):
		log.Warn().Err(err).Msg("Unsupported event code")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Unsupported event code"})
	case errors.Is(err, service.ErrInvalidAyahRange):
		log.Warn().Err(err).Msg("Invalid ayah range")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invalid surah or ayah range"})
	}

	log.Error().Err(err).Msg("Internal server error")
	return c.Status(fiber.StatusInternalServerError).JSON(models.Response{Success: false, Message: "An internal error occurred"})
}

// GetBoard godoc
// @Summary Get Mission Board
// @Description Retrieves the mission board for the logged-in user: check-in state, daily/weekly/special missions with progress, and wallet balance.
// @Tags Missions
// @Produce json
// @Success 200 {object} models.Response{data=models.MissionBoard} "Mission board retrieved"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /missions [get]
func (h *MissionHandler) GetBoard(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	ctx := c.Context()
	board, err := h.MissionService.GetBoard(ctx, userID)
	if err != nil {
		return handleMissionError(c, err, "GetBoard")
	}

	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Mission board retrieved", Data: board})
}

// GetCheckinStatus godoc
// @Summary Get Daily Check-in Status
// @Description Returns today's check-in state (claimable flag, day index, streak, scheduled reward) without mutating anything.
// @Tags Missions - Check-in
// @Produce json
// @Success 200 {object} models.Response{data=models.CheckinStatus} "Check-in status retrieved"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /missions/checkin [get]
func (h *MissionHandler) GetCheckinStatus(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	ctx := c.Context()
	status, err := h.CheckinService.GetStatus(ctx, userID)
	if err != nil {
		return handleMissionError(c, err, "GetCheckinStatus")
	}

	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Check-in status retrieved", Data: status})
}

// DoCheckin godoc
// @Summary Perform Daily Check-in
// @Description Records today's check-in exactly once and pays the scheduled reward. Repeated calls on the same date return already=true without mutation.
// @Tags Missions - Check-in
// @Produce json
// @Success 200 {object} models.Response{data=models.CheckinResult} "Check-in processed"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /missions/checkin [post]
func (h *MissionHandler) DoCheckin(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	ctx := c.Context()
	result, err := h.CheckinService.DoCheckin(ctx, userID)
	if err != nil {
		return handleMissionError(c, err, "DoCheckin")
	}

	message := "Check-in recorded"
	if result.Already {
		message = "Already checked in today"
	}
	log.Info().Int("user_id", userID).Int("day_index", result.DayIndex).Int("streak", result.Streak).Bool("already", result.Already).Msg("Handler: Check-in processed")
	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: message, Data: result})
}

// SubmitEvent godoc
// @Summary Submit Activity Event
// @Description Routes one activity event (quran_read, audio_listen, video_watch, ad_rewarded) to every active mission it can advance.
// @Tags Missions
// @Accept json
// @Produce json
// @Param event body models.SubmitEventInput true "Activity event payload"
// @Success 200 {object} models.Response{data=[]models.EventApplication} "Event applied"
// @Failure 400 {object} models.Response "Invalid payload or event"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /missions/events [post]
func (h *MissionHandler) SubmitEvent(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	input := new(models.SubmitEventInput)
	if err := c.BodyParser(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Failed to parse SubmitEvent request body")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := h.Validate.Struct(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Validation failed for SubmitEvent input")
		errorDetails := utils.FormatValidationErrors(err)
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{
			Success: false, Message: "Validation failed", Data: errorDetails,
		})
	}

	ctx := c.Context()
	applications, err := h.MissionService.SubmitEvent(ctx, userID, input)
	if err != nil {
		return handleMissionError(c, err, "SubmitEvent")
	}

	log.Info().Int("user_id", userID).Str("event_code", string(input.Code)).Int("missions_advanced", len(applications)).Msg("Handler: Activity event applied")
	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Event applied", Data: applications})
}

// ClaimMission godoc
// @Summary Claim Mission Reward
// @Description Pays out a completed mission exactly once. A repeated claim returns already_claimed=true without mutation.
// @Tags Missions
// @Produce json
// @Param code path string true "Mission code"
// @Success 200 {object} models.Response{data=models.ClaimResult} "Claim processed"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 404 {object} models.Response "Mission or progress not found"
// @Failure 409 {object} models.Response "Mission not completed yet"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /missions/{code}/claim [post]
func (h *MissionHandler) ClaimMission(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	missionCode := c.Params("code")
	if missionCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Mission code is required"})
	}

	ctx := c.Context()
	result, err := h.MissionService.Claim(ctx, userID, missionCode)
	if err != nil {
		return handleMissionError(c, err, "ClaimMission")
	}

	message := "Mission reward claimed"
	if result.AlreadyClaimed {
		message = "Mission reward already claimed"
	}
	log.Info().Int("user_id", userID).Str("mission_code", missionCode).Bool("already_claimed", result.AlreadyClaimed).Msg("Handler: Mission claim processed")
	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: message, Data: result})
}
