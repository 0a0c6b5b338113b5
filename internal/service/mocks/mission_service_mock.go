package mocks

import (
	"context"

	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockMissionService struct {
	mock.Mock
}

func (m *MockMissionService) GetBoard(ctx context.Context, userID int) (*models.MissionBoard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MissionBoard), args.Error(1)
}

func (m *MockMissionService) SubmitEvent(ctx context.Context, userID int, input *models.SubmitEventInput) ([]models.EventApplication, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EventApplication), args.Error(1)
}

func (m *MockMissionService) Claim(ctx context.Context, userID int, missionCode string) (*models.ClaimResult, error) {
	args := m.Called(ctx, userID, missionCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClaimResult), args.Error(1)
}
