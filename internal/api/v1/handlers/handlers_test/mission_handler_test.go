package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/api/v1/handlers"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/service"
	serviceMocks "github.com/nadzifan/quran-companion-be/internal/service/mocks"
	"github.com/nadzifan/quran-companion-be/internal/utils/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupMissionHandler() (*fiber.App, *handlers.MissionHandler, *serviceMocks.MockMissionService, *serviceMocks.MockCheckinService) {
	mockMissionService := new(serviceMocks.MockMissionService)
	mockCheckinService := new(serviceMocks.MockCheckinService)

	missionHandler := handlers.NewMissionHandler(mockMissionService, mockCheckinService)

	app := fiber.New()
	return app, missionHandler, mockMissionService, mockCheckinService
}

func TestMissionHandler_DoCheckin(t *testing.T) {
	userID := 1

	tests := []struct {
		name           string
		setupMock      func(mockSvc *serviceMocks.MockCheckinService)
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name: "Success - First Checkin Of The Day",
			setupMock: func(mockSvc *serviceMocks.MockCheckinService) {
				mockSvc.On("DoCheckin", mock.Anything, userID).Return(&models.CheckinResult{
					Already:  false,
					DayIndex: 3,
					Streak:   3,
					Reward:   15,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Check-in recorded",
			},
		},
		{
			name: "Success - Already Checked In",
			setupMock: func(mockSvc *serviceMocks.MockCheckinService) {
				mockSvc.On("DoCheckin", mock.Anything, userID).Return(&models.CheckinResult{
					Already:  true,
					DayIndex: 3,
					Streak:   3,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Already checked in today",
			},
		},
		{
			name: "Internal Error",
			setupMock: func(mockSvc *serviceMocks.MockCheckinService) {
				mockSvc.On("DoCheckin", mock.Anything, userID).Return(nil, errors.New("internal server error: could not start operation"))
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
			app, handler, _, mockCheckinService := setupMissionHandler()

			app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
			app.Post("/api/v1/missions/checkin", handler.DoCheckin)

			tc.setupMock(mockCheckinService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/missions/checkin", nil)

			resp, err := app.Test(req, -1)
			assert.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			var result map[string]interface{}
			err = json.NewDecoder(resp.Body).Decode(&result)
			assert.NoError(t, err)

			assert.Equal(t, tc.expectedBody["success"], result["success"])
			assert.Equal(t, tc.expectedBody["message"], result["message"])

			mockCheckinService.AssertExpectations(t)
		})
	}
}

func TestMissionHandler_SubmitEvent(t *testing.T) {
	userID := 1

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(mockSvc *serviceMocks.MockMissionService)
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name: "Success - Quran Read Event",
			body: models.SubmitEventInput{
				Code:      string(models.EventQuranRead),
				Surah:     2,
				AyahStart: 1,
				AyahEnd:   10,
			},
			setupMock: func(mockSvc *serviceMocks.MockMissionService) {
				mockSvc.On("SubmitEvent", mock.Anything, userID, mock.AnythingOfType("*models.SubmitEventInput")).Return([]models.EventApplication{
					{MissionID: 1, MissionCode: "daily_read_verses", ProgressBefore: 0, ProgressAfter: 10, Status: models.ProgressStatusInProgress},
					{MissionID: 2, MissionCode: "weekly_read_verses", ProgressBefore: 0, ProgressAfter: 10, Status: models.ProgressStatusInProgress},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Event applied",
			},
		},
		{
			name: "Invalid Event Code",
			body: map[string]interface{}{"code": "unknown_event"},
			setupMock: func(mockSvc *serviceMocks.MockMissionService) {
				// Validasi gagal sebelum service dipanggil
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "Validation failed",
			},
		},
		{
			name: "Invalid Ayah Range",
			body: models.SubmitEventInput{
				Code:      string(models.EventQuranRead),
				Surah:     2,
				AyahStart: 200,
				AyahEnd:   100,
			},
			setupMock: func(mockSvc *serviceMocks.MockMissionService) {
				mockSvc.On("SubmitEvent", mock.Anything, userID, mock.AnythingOfType("*models.SubmitEventInput")).Return(nil, service.ErrInvalidAyahRange)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "Invalid surah or ayah range",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, handler, mockMissionService, _ := setupMissionHandler()

			app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
			app.Post("/api/v1/missions/events", handler.SubmitEvent)

			tc.setupMock(mockMissionService)

			bodyBytes, err := json.Marshal(tc.body)
			assert.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/missions/events", bytes.NewReader(bodyBytes))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			assert.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			var result map[string]interface{}
			err = json.NewDecoder(resp.Body).Decode(&result)
			assert.NoError(t, err)

			assert.Equal(t, tc.expectedBody["success"], result["success"])
			assert.Equal(t, tc.expectedBody["message"], result["message"])

			mockMissionService.AssertExpectations(t)
		})
	}
}

func TestMissionHandler_ClaimMission(t *testing.T) {
	userID := 1

	tests := []struct {
		name           string
		missionCode    string
		setupMock      func(mockSvc *serviceMocks.MockMissionService, code string)
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name:        "Success",
			missionCode: "daily_read_verses",
			setupMock: func(mockSvc *serviceMocks.MockMissionService, code string) {
				mockSvc.On("Claim", mock.Anything, userID, code).Return(&models.ClaimResult{
					AlreadyClaimed: false,
					MissionID:      1,
					Reward:         20,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Mission reward claimed",
			},
		},
		{
			name:        "Already Claimed",
			missionCode: "daily_read_verses",
			setupMock: func(mockSvc *serviceMocks.MockMissionService, code string) {
				mockSvc.On("Claim", mock.Anything, userID, code).Return(&models.ClaimResult{
					AlreadyClaimed: true,
					MissionID:      1,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Mission reward already claimed",
			},
		},
		{
			name:        "Mission Not Completed",
			missionCode: "daily_read_verses",
			setupMock: func(mockSvc *serviceMocks.MockMissionService, code string) {
				mockSvc.On("Claim", mock.Anything, userID, code).Return(nil, service.ErrMissionNotCompleted)
			},
			expectedStatus: http.StatusConflict,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "Mission is not completed yet",
			},
		},
		{
			name:        "Mission Not Found",
			missionCode: "nonexistent_mission",
			setupMock: func(mockSvc *serviceMocks.MockMissionService, code string) {
				mockSvc.On("Claim", mock.Anything, userID, code).Return(nil, service.ErrMissionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "Mission not found",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, handler, mockMissionService, _ := setupMissionHandler()

			app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
			app.Post("/api/v1/missions/:code/claim", handler.ClaimMission)

			tc.setupMock(mockMissionService, tc.missionCode)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/missions/"+tc.missionCode+"/claim", nil)

			resp, err := app.Test(req, -1)
			assert.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			var result map[string]interface{}
			err = json.NewDecoder(resp.Body).Decode(&result)
			assert.NoError(t, err)

			assert.Equal(t, tc.expectedBody["success"], result["success"])
			assert.Equal(t, tc.expectedBody["message"], result["message"])

			mockMissionService.AssertExpectations(t)
		})
	}
}
