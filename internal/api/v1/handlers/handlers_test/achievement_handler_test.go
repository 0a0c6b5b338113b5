package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/api/v1/handlers"
	"github.com/nadzifan/quran-companion-be/internal/models"
	serviceMocks "github.com/nadzifan/quran-companion-be/internal/service/mocks"
	"github.com/nadzifan/quran-companion-be/internal/utils/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAchievementHandler() (*fiber.App, *handlers.AchievementHandler, *serviceMocks.MockAchievementService) {
	mockAchievementService := new(serviceMocks.MockAchievementService)
	achievementHandler := handlers.NewAchievementHandler(mockAchievementService)

	app := fiber.New()
	return app, achievementHandler, mockAchievementService
}

func TestAchievementHandler_GetCatalog(t *testing.T) {
	userID := 1

	tests := []struct {
		name           string
		setupMock      func(mockSvc *serviceMocks.MockAchievementService)
		expectedStatus int
		expectedBody   map[string]interface{}
		expectedCount  int
	}{
		{
			name: "Success",
			setupMock: func(mockSvc *serviceMocks.MockAchievementService) {
				mockSvc.On("List", mock.Anything).Return([]models.AchievementMaster{
					{ID: 1, Title: "Langkah Pertama", Subtitle: "Check-in pertamamu"},
					{ID: 2, Title: "Pendiri", Subtitle: "Membuat grup khatam"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Achievement catalog retrieved",
			},
			expectedCount: 2,
		},
		{
			name: "Internal Error",
			setupMock: func(mockSvc *serviceMocks.MockAchievementService) {
				mockSvc.On("List", mock.Anything).Return(nil, errors.New("internal server error: could not load catalog"))
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
			app, handler, mockAchievementService := setupAchievementHandler()

			app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
			app.Get("/api/v1/achievements", handler.GetCatalog)

			tc.setupMock(mockAchievementService)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/achievements", nil)

			resp, err := app.Test(req, -1)
			assert.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			var result map[string]interface{}
			err = json.NewDecoder(resp.Body).Decode(&result)
			assert.NoError(t, err)

			assert.Equal(t, tc.expectedBody["success"], result["success"])
			assert.Equal(t, tc.expectedBody["message"], result["message"])

			if tc.expectedCount > 0 {
				data, ok := result["data"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, data, tc.expectedCount)
			}

			mockAchievementService.AssertExpectations(t)
		})
	}
}

func TestAchievementHandler_GetMyAchievements(t *testing.T) {
	userID := 1

	t.Run("Success - Ownership Flags Included", func(t *testing.T) {
		app, handler, mockAchievementService := setupAchievementHandler()

		app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
		app.Get("/api/v1/achievements/me", handler.GetMyAchievements)

		mockAchievementService.On("ListForUser", mock.Anything, userID).Return([]models.AchievementWithOwnership{
			{AchievementMaster: models.AchievementMaster{ID: 1, Title: "Langkah Pertama"}, IsOwned: true},
			{AchievementMaster: models.AchievementMaster{ID: 2, Title: "Pendiri"}, IsOwned: false},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/achievements/me", nil)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]interface{}
		err = json.NewDecoder(resp.Body).Decode(&result)
		assert.NoError(t, err)

		assert.Equal(t, true, result["success"])
		assert.Equal(t, "Achievements retrieved", result["message"])

		data, ok := result["data"].([]interface{})
		assert.True(t, ok)
		assert.Len(t, data, 2)

		first, ok := data[0].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, true, first["is_owned"])

		mockAchievementService.AssertExpectations(t)
	})

	t.Run("Internal Error", func(t *testing.T) {
		app, handler, mockAchievementService := setupAchievementHandler()

		app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
		app.Get("/api/v1/achievements/me", handler.GetMyAchievements)

		mockAchievementService.On("ListForUser", mock.Anything, userID).Return(nil, errors.New("internal server error: could not load achievements"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/achievements/me", nil)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		mockAchievementService.AssertExpectations(t)
	})
}
