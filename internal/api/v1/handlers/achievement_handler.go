// internal/api/v1/handlers/achievement_handler.go
package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/service"
	"github.com/nadzifan/quran-companion-be/internal/utils"
	"github.com/rs/zerolog/log"
)

type AchievementHandler struct {
	AchievementService service.AchievementService
}

func NewAchievementHandler(achievementService service.AchievementService) *AchievementHandler {
	return &AchievementHandler{AchievementService: achievementService}
}

// GetCatalog godoc
// @Summary Get Achievement Catalog
// @Description Retrieves the full achievement catalog.
// @Tags Achievements
// @Produce json
// @Success 200 {object} models.Response{data=[]models.AchievementMaster} "Catalog retrieved"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /achievements [get]
func (h *AchievementHandler) GetCatalog(c *fiber.Ctx) error {
	ctx := c.Context()
	catalog, err := h.AchievementService.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to get achievement catalog")
		return c.Status(fiber.StatusInternalServerError).JSON(models.Response{Success: false, Message: "An internal error occurred"})
	}

	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Achievement catalog retrieved", Data: catalog})
}

// GetMyAchievements godoc
// @Summary Get My Achievements
// @Description Retrieves the achievement catalog with the logged-in user's ownership flags.
// @Tags Achievements
// @Produce json
// @Success 200 {object} models.Response{data=[]models.AchievementWithOwnership} "Achievements retrieved"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /achievements/me [get]
func (h *AchievementHandler) GetMyAchievements(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	ctx := c.Context()
	achievements, err := h.AchievementService.ListForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("Handler: Failed to get user achievements")
		return c.Status(fiber.StatusInternalServerError).JSON(models.Response{Success: false, Message: "An internal error occurred"})
	}

	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Achievements retrieved", Data: achievements})
}
