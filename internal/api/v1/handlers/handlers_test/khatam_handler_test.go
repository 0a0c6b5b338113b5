package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/api/v1/handlers"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/repository"
	"github.com/nadzifan/quran-companion-be/internal/service"
	serviceMocks "github.com/nadzifan/quran-companion-be/internal/service/mocks"
	"github.com/nadzifan/quran-companion-be/internal/utils/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupKhatamHandler() (*fiber.App, *handlers.KhatamHandler, *serviceMocks.MockKhatamService) {
	mockKhatamService := new(serviceMocks.MockKhatamService)
	khatamHandler := handlers.NewKhatamHandler(mockKhatamService)

	app := fiber.New()
	return app, khatamHandler, mockKhatamService
}

func TestKhatamHandler_CreatePlan(t *testing.T) {
	userID := 1

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(mockSvc *serviceMocks.MockKhatamService)
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name: "Success",
			body: models.CreatePlanInput{
				StartDate:  "2026-09-01",
				TargetDate: "2026-10-01",
			},
			setupMock: func(mockSvc *serviceMocks.MockKhatamService) {
				mockSvc.On("CreatePlan", mock.Anything, userID, mock.AnythingOfType("*models.CreatePlanInput")).Return(&models.KhatamPlan{
					ID:           1,
					UserID:       userID,
					KhatamNumber: 1,
					Status:       models.KhatamStatusActive,
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Khatam plan created",
			},
		},
		{
			name: "Active Plan Already Exists",
			body: models.CreatePlanInput{
				StartDate:  "2026-09-01",
				TargetDate: "2026-10-01",
			},
			setupMock: func(mockSvc *serviceMocks.MockKhatamService) {
				mockSvc.On("CreatePlan", mock.Anything, userID, mock.AnythingOfType("*models.CreatePlanInput")).Return(nil, service.ErrPlanAlreadyActive)
			},
			expectedStatus: http.StatusConflict,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "An active khatam plan already exists",
			},
		},
		{
			name: "Invalid Date Format",
			body: map[string]interface{}{
				"start_date":  "01-09-2026",
				"target_date": "2026-10-01",
			},
			setupMock: func(mockSvc *serviceMocks.MockKhatamService) {
				// Validasi gagal sebelum service dipanggil
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "Validation failed",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, handler, mockKhatamService := setupKhatamHandler()

			app.Use(test_utils.MockJWTMiddleware(userID, "reader_user"))
			app.Post("/api/v1/khatam/plans", handler.CreatePlan)

			tc.setupMock(mockKhatamService)

			bodyBytes, err := json.Marshal(tc.body)
			assert.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/khatam/plans", bytes.NewReader(bodyBytes))
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

			mockKhatamService.AssertExpectations(t)
		})
	}
}

func TestKhatamHandler_JoinGroup(t *testing.T) {
	userID := 2

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(mockSvc *serviceMocks.MockKhatamService)
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name: "Success",
			body: models.JoinGroupInput{InviteToken: "ABCDEF234567"},
			setupMock: func(mockSvc *serviceMocks.MockKhatamService) {
				mockSvc.On("JoinGroup", mock.Anything, userID, mock.AnythingOfType("*models.JoinGroupInput")).Return(&models.GroupView{
					ID:          1,
					Name:        "Khatam Keluarga",
					TargetDate:  time.Now().AddDate(0, 1, 0),
					Status:      models.KhatamStatusActive,
					MemberCount: 2,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Joined khatam group",
			},
		},
		{
			name: "Invalid Invite Token",
			body: models.JoinGroupInput{InviteToken: "EXPIREDTOKEN"},
			setupMock: func(mockSvc *serviceMocks.MockKhatamService) {
				mockSvc.On("JoinGroup", mock.Anything, userID, mock.AnythingOfType("*models.JoinGroupInput")).Return(nil, service.ErrInviteInvalid)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "Invite is invalid or expired",
			},
		},
		{
			name: "Group Full",
			body: models.JoinGroupInput{InviteToken: "FULLGROUP234"},
			setupMock: func(mockSvc *serviceMocks.MockKhatamService) {
				mockSvc.On("JoinGroup", mock.Anything, userID, mock.AnythingOfType("*models.JoinGroupInput")).Return(nil, repository.ErrGroupFull)
			},
			expectedStatus: http.StatusConflict,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "Khatam group is already full",
			},
		},
		{
			name: "Already A Member",
			body: models.JoinGroupInput{InviteToken: "ABCDEF234567"},
			setupMock: func(mockSvc *serviceMocks.MockKhatamService) {
				mockSvc.On("JoinGroup", mock.Anything, userID, mock.AnythingOfType("*models.JoinGroupInput")).Return(nil, service.ErrAlreadyMember)
			},
			expectedStatus: http.StatusConflict,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "You are already a member of this group",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, handler, mockKhatamService := setupKhatamHandler()

			app.Use(test_utils.MockJWTMiddleware(userID, "joiner_user"))
			app.Post("/api/v1/khatam/groups/join", handler.JoinGroup)

			tc.setupMock(mockKhatamService)

			bodyBytes, err := json.Marshal(tc.body)
			assert.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/khatam/groups/join", bytes.NewReader(bodyBytes))
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

			mockKhatamService.AssertExpectations(t)
		})
	}
}

func TestKhatamHandler_GetInviteSummary(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		setupMock      func(mockSvc *serviceMocks.MockKhatamService, token string)
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name:  "Success",
			token: "ABCDEF234567",
			setupMock: func(mockSvc *serviceMocks.MockKhatamService, token string) {
				mockSvc.On("GetInviteSummary", mock.Anything, token).Return(&models.GroupInviteSummary{
					GroupID:     1,
					Name:        "Khatam Keluarga",
					TargetDate:  time.Now().AddDate(0, 1, 0),
					MemberCount: 3,
					CreatorID:   1,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success": true,
				"message": "Invite resolved",
			},
		},
		{
			name:  "Invite Not Found",
			token: "UNKNOWNTOKEN",
			setupMock: func(mockSvc *serviceMocks.MockKhatamService, token string) {
				mockSvc.On("GetInviteSummary", mock.Anything, token).Return(nil, service.ErrInviteInvalid)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody: map[string]interface{}{
				"success": false,
				"message": "Invite is invalid or expired",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, handler, mockKhatamService := setupKhatamHandler()

			// Endpoint publik: tidak perlu JWT middleware
			app.Get("/api/v1/khatam/groups/invite/:token", handler.GetInviteSummary)

			tc.setupMock(mockKhatamService, tc.token)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/khatam/groups/invite/"+tc.token, nil)

			resp, err := app.Test(req, -1)
			assert.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			var result map[string]interface{}
			err = json.NewDecoder(resp.Body).Decode(&result)
			assert.NoError(t, err)

			assert.Equal(t, tc.expectedBody["success"], result["success"])
			assert.Equal(t, tc.expectedBody["message"], result["message"])

			mockKhatamService.AssertExpectations(t)
		})
	}
}
