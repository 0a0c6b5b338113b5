package mocks

import (
	"context"

	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) List(ctx context.Context) ([]models.AchievementMaster, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AchievementMaster), args.Error(1)
}

func (m *MockAchievementService) ListForUser(ctx context.Context, userID int) ([]models.AchievementWithOwnership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AchievementWithOwnership), args.Error(1)
}

func (m *MockAchievementService) Unlock(ctx context.Context, userID int, descriptor service.AchievementDescriptor) {
	m.Called(ctx, userID, descriptor)
}

func (m *MockAchievementService) CheckUnlockAll(ctx context.Context, userID int) {
	m.Called(ctx, userID)
}
