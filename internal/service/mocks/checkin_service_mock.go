package mocks

import (
	"context"

	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockCheckinService struct {
	mock.Mock
}

func (m *MockCheckinService) GetStatus(ctx context.Context, userID int) (*models.CheckinStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckinStatus), args.Error(1)
}

func (m *MockCheckinService) DoCheckin(ctx context.Context, userID int) (*models.CheckinResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckinResult), args.Error(1)
}
