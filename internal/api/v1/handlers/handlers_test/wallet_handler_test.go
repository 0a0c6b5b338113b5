package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/api/v1/handlers"
	"github.com/nadzifan/quran-companion-be/internal/models"
	serviceMocks "github.com/nadzifan/quran-companion-be/internal/service/mocks"
	"github.com/nadzifan/quran-companion-be/internal/utils/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupWalletHandler() (*fiber.App, *handlers.WalletHandler, *serviceMocks.MockWalletService) {
	mockWalletService := new(serviceMocks.MockWalletService)
	walletHandler := handlers.NewWalletHandler(mockWalletService)

	app := fiber.New()
	return app, walletHandler, mockWalletService
}

func TestWalletHandler_GetMyWallet(t *testing.T) {
	userID := 1

	tests := []struct {
		name           string
		setupMock      func(mockSvc *serviceMocks.MockWalletService)
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name: "Success",
			setupMock: func(mockSvc *serviceMocks.MockWalletService) {
				mockSvc.On("GetWallet", mock.Anything, userID).Return(&models.UserWallet{
					UserID: userID,
					Stars:  125,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Wallet retrieved",
			},
		},
		{
			name: "Internal Error",
			setupMock: func(mockSvc *serviceMocks.MockWalletService) {
				mockSvc.On("GetWallet", mock.Anything, userID).Return(nil, errors.New("internal server error: could not load wallet"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "An internal error occurred",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, handler, mockWalletService := setupWalletHandler()

			app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
			app.Get("/api/v1/wallet", handler.GetMyWallet)

			tc.setupMock(mockWalletService)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil)

			resp, err := app.Test(req, -1)
			assert.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			var result map[string]interface{}
			err = json.NewDecoder(resp.Body).Decode(&result)
			assert.NoError(t, err)

			assert.Equal(t, tc.expectedBody["success"], result["success"])
			assert.Equal(t, tc.expectedBody["message"], result["message"])

			mockWalletService.AssertExpectations(t)
		})
	}
}

func TestWalletHandler_GetMyWalletHistory(t *testing.T) {
	userID := 1
	defaultPage := 1
	defaultLimit := 10

	t.Run("Success - With Pagination Meta", func(t *testing.T) {
		app, handler, mockWalletService := setupWalletHandler()

		app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
		app.Get("/api/v1/wallet/history", handler.GetMyWalletHistory)

		entries := []models.RewardLedgerEntry{
			{ID: 2, UserID: userID, Source: models.RewardSourceMissionClaim, PointsChange: 20, BalanceAfter: 35, CreatedAt: time.Now()},
			{ID: 1, UserID: userID, Source: models.RewardSourceCheckin, PointsChange: 15, BalanceAfter: 15, CreatedAt: time.Now()},
		}
		mockWalletService.On("GetHistory", mock.Anything, userID, defaultPage, defaultLimit).Return(entries, 2, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/history", nil)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]interface{}
		err = json.NewDecoder(resp.Body).Decode(&result)
		assert.NoError(t, err)

		assert.Equal(t, true, result["success"])
		assert.Equal(t, "Reward ledger retrieved successfully", result["message"])
		assert.Equal(t, map[string]interface{}{
			"total_items":  float64(2),
			"current_page": float64(defaultPage),
			"per_page":     float64(defaultLimit),
			"total_pages":  float64(1),
		}, result["meta"])
		assert.NotNil(t, result["data"])

		mockWalletService.AssertExpectations(t)
	})

	t.Run("Internal Error", func(t *testing.T) {
		app, handler, mockWalletService := setupWalletHandler()

		app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
		app.Get("/api/v1/wallet/history", handler.GetMyWalletHistory)

		mockWalletService.On("GetHistory", mock.Anything, userID, defaultPage, defaultLimit).Return(nil, 0, errors.New("internal server error: could not load ledger"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/history", nil)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		mockWalletService.AssertExpectations(t)
	})
}
