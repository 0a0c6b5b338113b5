// internal/service/service.go
package service

import (
	"context"

	"github.com/nadzifan/quran-companion-be/internal/models"
)

// Service Layer Interfaces define the business logic operations.
// Handlers will depend on these interfaces, not directly on repositories.

// CheckinService defines operations for the daily check-in streak engine.
type CheckinService interface {
	// GetStatus derives today's check-in state (claimable, day index, streak,
	// reward) without mutating anything.
	GetStatus(ctx context.Context, userID int) (*models.CheckinStatus, error)

	// DoCheckin records today's check-in exactly once and pays the scheduled
	// reward through the ledger. A repeated call on the same date returns
	// {already: true} without mutation.
	DoCheckin(ctx context.Context, userID int) (*models.CheckinResult, error)
}

// MissionService defines operations for mission progress, events, and claims.
type MissionService interface {
	// GetBoard assembles the mission board: check-in grid state, mission
	// sections (daily/weekly/special) with the user's progress, and wallet balance.
	GetBoard(ctx context.Context, userID int) (*models.MissionBoard, error)

	// SubmitEvent routes one activity event to every active mission it can
	// advance and applies the increments atomically.
	SubmitEvent(ctx context.Context, userID int, input *models.SubmitEventInput) ([]models.EventApplication, error)

	// Claim pays out a completed mission exactly once.
	// A repeated claim returns {already_claimed: true} without mutation.
	Claim(ctx context.Context, userID int, missionCode string) (*models.ClaimResult, error)
}

// WalletService defines read operations over the wallet and its ledger.
// Semua mutasi saldo terjadi lewat repository.WalletRepository.AddStarsTx
// di dalam transaksi milik service lain.
type WalletService interface {
	// GetWallet returns the user's balance, provisioning a zero wallet on first read.
	GetWallet(ctx context.Context, userID int) (*models.UserWallet, error)

	// GetHistory returns the user's reward ledger (paginated, newest first).
	GetHistory(ctx context.Context, userID int, page, limit int) ([]models.RewardLedgerEntry, int, error)
}

// KhatamService defines the khatam plan lifecycle and group coordination.
type KhatamService interface {
	// CreatePlan starts a new khatam attempt; rejected while another plan is active.
	CreatePlan(ctx context.Context, userID int, input *models.CreatePlanInput) (*models.KhatamPlan, error)

	// UpdatePlan adjusts target_date / reading_type of an owned plan.
	UpdatePlan(ctx context.Context, userID int, planID int, input *models.UpdatePlanInput) error

	// DeletePlan removes an owned plan, detaching it from its group and
	// redistributing juz among remaining members (or completing an emptied group).
	DeletePlan(ctx context.Context, userID int, planID int) error

	// GetActivePlan returns the user's active plan with aggregated progress;
	// marks the plan completed when a solo reader has covered all 30 juz.
	GetActivePlan(ctx context.Context, userID int) (*models.ActivePlanView, error)

	// RecordProgress records a read ayah/juz against the user's active plan.
	RecordProgress(ctx context.Context, userID int, input *models.RecordProgressInput) error

	// CreateGroup creates a reading group with the caller's active plan as creator.
	CreateGroup(ctx context.Context, userID int, input *models.CreateGroupInput) (*models.GroupView, error)

	// JoinGroup adds the caller to a group by invite token and redistributes juz.
	JoinGroup(ctx context.Context, userID int, input *models.JoinGroupInput) (*models.GroupView, error)

	// GetInviteSummary resolves a public invite token to a group summary.
	GetInviteSummary(ctx context.Context, token string) (*models.GroupInviteSummary, error)
}

// AchievementService defines the badge catalog and the best-effort unlocker.
type AchievementService interface {
	// List returns the full achievement catalog.
	List(ctx context.Context) ([]models.AchievementMaster, error)

	// ListForUser returns the catalog with the user's ownership flags.
	ListForUser(ctx context.Context, userID int) ([]models.AchievementWithOwnership, error)

	// Unlock grants a badge idempotently. Best-effort: kegagalan hanya
	// di-log, tidak pernah menggagalkan flow pemanggilnya.
	Unlock(ctx context.Context, userID int, descriptor AchievementDescriptor)

	// CheckUnlockAll grants the meta badge once the user owns every
	// non-meta achievement. Best-effort seperti Unlock.
	CheckUnlockAll(ctx context.Context, userID int)
}
