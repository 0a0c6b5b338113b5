// internal/api/v1/handlers/wallet_handler.go
package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/service"
	"github.com/nadzifan/quran-companion-be/internal/utils"
	"github.com/rs/zerolog/log"
)

type WalletHandler struct {
	WalletService service.WalletService
}

func NewWalletHandler(walletService service.WalletService) *WalletHandler {
	return &WalletHandler{WalletService: walletService}
}

// GetMyWallet godoc
// @Summary Get My Wallet Balance
// @Description Retrieves the star balance for the logged-in user. A zero wallet is provisioned on first read.
// @Tags Wallet
// @Produce json
// @Success 200 {object} models.Response{data=models.UserWallet} "Wallet retrieved"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /wallet [get]
func (h *WalletHandler) GetMyWallet(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	ctx := c.Context()
	wallet, err := h.WalletService.GetWallet(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("Handler: Failed to get wallet")
		return c.Status(fiber.StatusInternalServerError).JSON(models.Response{Success: false, Message: "An internal error occurred"})
	}

	return c.Status(http.StatusOK).JSON(models.Response{Success: true, Message: "Wallet retrieved", Data: wallet})
}

// GetMyWalletHistory godoc
// @Summary Get My Reward Ledger History
// @Description Retrieves the reward ledger for the logged-in user (paginated, newest first).
// @Tags Wallet
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} utils.PaginatedResponseGeneric "Ledger history retrieved"
// @Failure 401 {object} models.Response "Unauthorized"
// @Failure 500 {object} models.Response "Internal server error"
// @Security ApiKeyAuth
// @Router /wallet/history [get]
func (h *WalletHandler) GetMyWalletHistory(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromJWT(c)
	if err != nil {
		log.Error().Err(err).Msg("Handler: Failed to extract userID from JWT")
		return c.Status(fiber.StatusUnauthorized).JSON(models.Response{Success: false, Message: "Unauthorized: Invalid token"})
	}

	pagination := utils.ParsePaginationParams(c)
	ctx := c.Context()

	entries, totalCount, err := h.WalletService.GetHistory(ctx, userID, pagination.Page, pagination.Limit)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("Handler: Failed to get wallet history")
		return c.Status(fiber.StatusInternalServerError).JSON(models.Response{Success: false, Message: "An internal error occurred"})
	}

	meta := utils.BuildPaginationMeta(totalCount, pagination.Limit, pagination.Page)
	response := utils.NewPaginatedResponse("Reward ledger retrieved successfully", entries, meta)

	return c.Status(http.StatusOK).JSON(response)
}
