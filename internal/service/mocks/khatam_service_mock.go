package mocks

import (
	"context"

	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockKhatamService struct {
	mock.Mock
}

func (m *MockKhatamService) CreatePlan(ctx context.Context, userID int, input *models.CreatePlanInput) (*models.KhatamPlan, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KhatamPlan), args.Error(1)
}

func (m *MockKhatamService) UpdatePlan(ctx context.Context, userID int, planID int, input *models.UpdatePlanInput) error {
	args := m.Called(ctx, userID, planID, input)
	return args.Error(0)
}

func (m *MockKhatamService) DeletePlan(ctx context.Context, userID int, planID int) error {
	args := m.Called(ctx, userID, planID)
	return args.Error(0)
}

func (m *MockKhatamService) GetActivePlan(ctx context.Context, userID int) (*models.ActivePlanView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ActivePlanView), args.Error(1)
}

func (m *MockKhatamService) RecordProgress(ctx context.Context, userID int, input *models.RecordProgressInput) error {
	args := m.Called(ctx, userID, input)
	return args.Error(0)
}

func (m *MockKhatamService) CreateGroup(ctx context.Context, userID int, input *models.CreateGroupInput) (*models.GroupView, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupView), args.Error(1)
}

func (m *MockKhatamService) JoinGroup(ctx context.Context, userID int, input *models.JoinGroupInput) (*models.GroupView, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupView), args.Error(1)
}

func (m *MockKhatamService) GetInviteSummary(ctx context.Context, token string) (*models.GroupInviteSummary, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupInviteSummary), args.Error(1)
}
