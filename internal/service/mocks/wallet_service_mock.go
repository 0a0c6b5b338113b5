package mocks

import (
	"context"

	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetWallet(ctx context.Context, userID int) (*models.UserWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserWallet), args.Error(1)
}

func (m *MockWalletService) GetHistory(ctx context.Context, userID int, page, limit int) ([]models.RewardLedgerEntry, int, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.RewardLedgerEntry), args.Int(1), args.Error(2)
}
