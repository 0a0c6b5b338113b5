// internal/api/v1/handlers/khatam_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/repository"
	"github.com/nadzifan/quran-companion-be/internal/service"
	"github.com/nadzifan/quran-companion-be/internal/utils"
	"github.com/rs/zerolog/log"
)

type KhatamHandler struct {
	KhatamService service.KhatamService
	Validate      *validator.Validate
}

func NewKhatamHandler(khatamService service.KhatamService) *KhatamHandler {
	return &KhatamHandler{
		KhatamService: khatamService,
		Validate:      validator.New(),
	}
}

// --- Error Handling Helper ---
func handleKhatamError(c *fiber.Ctx, err error, operation string) error {
	log := log.With().Str("operation", operation).Logger()

	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		log.Warn().Err(err).Msg("Plan not found")
		return c.Status(fiber.StatusNotFound).JSON(models.Response{Success: false, Message: "Khatam plan not found"})
	case errors.Is(err, service.ErrNoActivePlan):
		log.Warn().Err(err).Msg("No active plan")
		return c.Status(fiber.StatusNotFound).JSON(models.Response{Success: false, Message: "No active khatam plan"})
	case errors.Is(err, service.ErrInviteInvalid):
		log.Warn().Err(err).Msg("Invalid or expired invite")
		return c.Status(fiber.StatusNotFound).JSON(models.Response{Success: false, Message: "Invite is invalid or expired"})
	case errors.Is(err, service.ErrPlanAlreadyActive):
		log.Warn().Err(err).Msg("Active plan already exists")
		return c.Status(fiber.StatusConflict).JSON(models.Response{Success: false, Message: "An active khatam plan already exists"})
	case errors.Is(err, service.ErrPlanAlreadyGrouped):
		log.Warn().Err(err).Msg("Plan already grouped")
		return c.Status(fiber.StatusConflict).JSON(models.Response{Success: false, Message: "Plan is already part of a group"})
	case errors.Is(err, service.ErrAlreadyMember):
		log.Warn().Err(err).Msg("Already a member")
		return c.Status(fiber.StatusConflict).JSON(models.Response{Success: false, Message: "You are already a member of this group"})
	case errors.Is(err, repository.ErrGroupFull):
		log.Warn().Err(err).Msg("Group full")
		return c.Status(fiber.StatusConflict).JSON(models.Response{Success: false, Message: "Khatam group is already full"})
	}

	log.Error().Err(err).Msg("Internal server error")
	return c.Status(fiber.StatusInternalServerError).JSON(models.Response{Success: false, Message: "An internal error occurred"})
}

// ==========================================================
// --- Plan Lifecycle ---
// ==========================================================

// CreatePlan godoc
// @Summary Create Khatam Plan
// @Description Starts a new khatam attempt for the logged-in user. Rejected while another plan is active.
// @Tags Khatam - Plans
// @Accept json
// @Produce json
// @Param plan body models.CreatePlanInput true "Plan payload"
// @Success 201 {object} models.Response{data=models.KhatamPlan} "Plan created"
// @Failure 400 {object} models.Response "Invalid payload"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 409 {object} models.Response "Active plan already exists"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /khatam/plans [post]
func (h *KhatamHandler) CreatePlan(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	input := new(models.CreatePlanInput)
	if err := c.BodyParser(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Failed to parse CreatePlan request body")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := h.Validate.Struct(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Validation failed for CreatePlan input")
		errorDetails := utils.FormatValidationErrors(err)
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{
			Success: false, Message: "Validation failed", Data: errorDetails,
		})
	}

	ctx := c.Context()
	plan, err := h.KhatamService.CreatePlan(ctx, userID, input)
	if err != nil {
		return handleKhatamError(c, err, "CreatePlan")
	}

	log.Info().Int("user_id", userID).Int("plan_id", plan.ID).Int("khatam_number", plan.KhatamNumber).Msg("Handler: Khatam plan created")
	return c.Status(fiber.StatusCreated).JSON(models.Response{Success: true, Message: "Khatam plan created", Data: plan})
}

// UpdatePlan godoc
// @Summary Update Khatam Plan
// @Description Adjusts target_date / reading_type of a plan owned by the logged-in user.
// @Tags Khatam - Plans
// @Accept json
// @Produce json
// @Param planId path int true "Plan ID"
// @Param plan body models.UpdatePlanInput true "Fields to update"
// @Success 200 {object} models.Response "Plan updated"
// @Failure 400 {object} models.Response "Invalid payload"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 404 {object} models.Response "Plan not found"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /khatam/plans/{planId} [patch]
func (h *KhatamHandler) UpdatePlan(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	planID, err := strconv.Atoi(c.Params("planId"))
	if err != nil {
		log.Warn().Err(err).Str("param", c.Params("planId")).Msg("Handler: Invalid plan ID parameter for UpdatePlan")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invalid plan ID parameter"})
	}

	input := new(models.UpdatePlanInput)
	if err := c.BodyParser(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Failed to parse UpdatePlan request body")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := h.Validate.Struct(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Validation failed for UpdatePlan input")
		errorDetails := utils.FormatValidationErrors(err)
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{
			Success: false, Message: "Validation failed", Data: errorDetails,
		})
	}

	ctx := c.Context()
	if err := h.KhatamService.UpdatePlan(ctx, userID, planID, input); err != nil {
		return handleKhatamError(c, err, "UpdatePlan")
	}

	log.Info().Int("user_id", userID).Int("plan_id", planID).Msg("Handler: Khatam plan updated")
	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Khatam plan updated"})
}

// DeletePlan godoc
// @Summary Delete Khatam Plan
// @Description Removes a plan owned by the logged-in user, detaching it from its group if needed.
// @Tags Khatam - Plans
// @Produce json
// @Param planId path int true "Plan ID"
// @Success 200 {object} models.Response "Plan deleted"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 404 {object} models.Response "Plan not found"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /khatam/plans/{planId} [delete]
func (h *KhatamHandler) DeletePlan(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	planID, err := strconv.Atoi(c.Params("planId"))
	if err != nil {
		log.Warn().Err(err).Str("param", c.Params("planId")).Msg("Handler: Invalid plan ID parameter for DeletePlan")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invalid plan ID parameter"})
	}

	ctx := c.Context()
	if err := h.KhatamService.DeletePlan(ctx, userID, planID); err != nil {
		return handleKhatamError(c, err, "DeletePlan")
	}

	log.Info().Int("user_id", userID).Int("plan_id", planID).Msg("Handler: Khatam plan deleted")
	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Khatam plan deleted"})
}

// GetActivePlan godoc
// @Summary Get Active Khatam Plan
// @Description Retrieves the logged-in user's active plan with aggregated reading progress and group details when grouped.
// @Tags Khatam - Plans
// @Produce json
// @Success 200 {object} models.Response{data=models.ActivePlanView} "Active plan retrieved"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 404 {object} models.Response "No active plan"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /khatam/plans/active [get]
func (h *KhatamHandler) GetActivePlan(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	ctx := c.Context()
	view, err := h.KhatamService.GetActivePlan(ctx, userID)
	if err != nil {
		return handleKhatamError(c, err, "GetActivePlan")
	}

	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Active khatam plan retrieved", Data: view})
}

// RecordProgress godoc
// @Summary Record Khatam Reading Progress
// @Description Records one read ayah against the logged-in user's active plan. Duplicate ayah records are no-ops.
// @Tags Khatam - Progress
// @Accept json
// @Produce json
// @Param progress body models.RecordProgressInput true "Progress payload"
// @Success 200 {object} models.Response "Progress recorded"
// @Failure 400 {object} models.Response "Invalid payload"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 404 {object} models.Response "No active plan"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /khatam/progress [post]
func (h *KhatamHandler) RecordProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	input := new(models.RecordProgressInput)
	if err := c.BodyParser(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Failed to parse RecordProgress request body")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := h.Validate.Struct(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Validation failed for RecordProgress input")
		errorDetails := utils.FormatValidationErrors(err)
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{
			Success: false, Message: "Validation failed", Data: errorDetails,
		})
	}

	ctx := c.Context()
	if err := h.KhatamService.RecordProgress(ctx, userID, input); err != nil {
		return handleKhatamError(c, err, "RecordProgress")
	}

	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Reading progress recorded"})
}

// ==========================================================
// --- Group Coordination ---
// ==========================================================

// CreateGroup godoc
// @Summary Create Khatam Group
// @Description Creates a reading group with the logged-in user's active plan as creator and generates an invite token and code.
// @Tags Khatam - Groups
// @Accept json
// @Produce json
// @Param group body models.CreateGroupInput true "Group payload"
// @Success 201 {object} models.Response{data=models.GroupView} "Group created"
// @Failure 400 {object} models.Response "Invalid payload"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 404 {object} models.Response "No active plan"
// @Failure 409 {object} models.Response "Plan already grouped"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /khatam/groups [post]
func (h *KhatamHandler) CreateGroup(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	input := new(models.CreateGroupInput)
	if err := c.BodyParser(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Failed to parse CreateGroup request body")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := h.Validate.Struct(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Validation failed for CreateGroup input")
		errorDetails := utils.FormatValidationErrors(err)
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{
			Success: false, Message: "Validation failed", Data: errorDetails,
		})
	}

	ctx := c.Context()
	view, err := h.KhatamService.CreateGroup(ctx, userID, input)
	if err != nil {
		return handleKhatamError(c, err, "CreateGroup")
	}

	log.Info().Int("user_id", userID).Int("group_id", view.ID).Msg("Handler: Khatam group created")
	return c.Status(fiber.StatusCreated).JSON(models.Response{Success: true, Message: "Khatam group created", Data: view})
}

// JoinGroup godoc
// @Summary Join Khatam Group
// @Description Joins the logged-in user to a group by invite token. Juz assignments are redistributed among all members.
// @Tags Khatam - Groups
// @Accept json
// @Produce json
// @Param join body models.JoinGroupInput true "Join payload"
// @Success 200 {object} models.Response{data=models.GroupView} "Joined group"
// @Failure 400 {object} models.Response "Invalid payload"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 404 {object} models.Response "Invite invalid or expired"
// @Failure 409 {object} models.Response "Group full or already a member"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /khatam/groups/join [post]
func (h *KhatamHandler) JoinGroup(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	input := new(models.JoinGroupInput)
	if err := c.BodyParser(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Failed to parse JoinGroup request body")
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := h.Validate.Struct(input); err != nil {
		log.Warn().Err(err).Msg("Handler: Validation failed for JoinGroup input")
		errorDetails := utils.FormatValidationErrors(err)
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{
			Success: false, Message: "Validation failed", Data: errorDetails,
		})
	}

	ctx := c.Context()
	view, err := h.KhatamService.JoinGroup(ctx, userID, input)
	if err != nil {
		return handleKhatamError(c, err, "JoinGroup")
	}

	log.Info().Int("user_id", userID).Int("group_id", view.ID).Msg("Handler: User joined khatam group")
	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Joined khatam group", Data: view})
}

// GetInviteSummary godoc
// @Summary Resolve Group Invite
// @Description Public endpoint that resolves an invite token to a group summary (name, target date, member count).
// @Tags Khatam - Groups
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} models.Response{data=models.GroupInviteSummary} "Invite resolved"
// @Failure 404 {object} models.Response "Invite invalid or expired"
// @Failure 500 {object} models.Response "Internal server error"
// @Router /khatam/groups/invite/{token} [get]
func (h *KhatamHandler) GetInviteSummary(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.Response{Success: false, Message: "Invite token is required"})
	}

	ctx := c.Context()
	summary, err := h.KhatamService.GetInviteSummary(ctx, token)
	if err != nil {
		return handleKhatamError(c, err, "GetInviteSummary")
	}

	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Invite resolved", Data: summary})
}
