// internal/service/achievement_service_impl.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nadzifan/quran-companion-be/internal/repository"
	zlog "github.com/rs/zerolog/log"

	"github.com/nadzifan/quran-companion-be/internal/models"
)

// AchievementDescriptor mengidentifikasi satu badge di katalog lewat pasangan
// (title, subtitle), sama seperti kunci lookup di tabel achievement_masters.
type AchievementDescriptor struct {
	Title    string
	Subtitle string
}

// Katalog descriptor yang dipakai engine. Baris katalognya sendiri di-seed
// di luar service ini; descriptor yang tidak ada di tabel hanya menghasilkan
// log warning saat unlock.
var (
	AchFirstPlan        = AchievementDescriptor{"Niat yang Teguh", "Membuat plan khatam pertama"}
	AchIndividualKhatam = AchievementDescriptor{"Khatam Mandiri", "Menamatkan 30 juz seorang diri"}
	AchKhatamOnTime     = AchievementDescriptor{"Tepat Waktu", "Khatam sebelum tanggal target"}
	AchCreateGroup      = AchievementDescriptor{"Penggerak", "Membuat grup khatam"}
	AchFirstJoinGroup   = AchievementDescriptor{"Bergabung", "Bergabung ke grup khatam pertama"}
	AchGroupKhatam      = AchievementDescriptor{"Khatam Bersama", "Menamatkan khatam dalam grup"}
	AchGroupSolid       = AchievementDescriptor{"Satu Tujuan", "Semua anggota grup menuntaskan jatahnya"}
	AchGroupOnTime      = AchievementDescriptor{"Grup Tepat Waktu", "Grup khatam sebelum tanggal target"}
	AchRamadanKhatam    = AchievementDescriptor{"Berkah Ramadan", "Khatam grup di bulan Ramadan"}
	AchRamadanCreate3   = AchievementDescriptor{"Ajak Sahur", "Membuat grup beranggota 3+ di bulan Ramadan"}
	AchRamadanJoin3     = AchievementDescriptor{"Ikut Tarawih", "Bergabung ke grup beranggota 3+ di bulan Ramadan"}
	AchStreakSeven      = AchievementDescriptor{"Istiqamah", "Check-in 7 hari berturut-turut"}
	AchCheckinThirty    = AchievementDescriptor{"Sebulan Penuh", "30 kali check-in"}
	AchAllBadges        = AchievementDescriptor{"Kolektor", "Memiliki semua badge"}
)

type achievementServiceImpl struct {
	achievementRepo repository.AchievementRepository
}

// NewAchievementService creates a new instance of AchievementService.
func NewAchievementService(achievementRepo repository.AchievementRepository) AchievementService {
	return &achievementServiceImpl{achievementRepo: achievementRepo}
}

// List mengambil seluruh katalog badge.
func (s *achievementServiceImpl) List(ctx context.Context) ([]models.AchievementMaster, error) {
	achievements, err := s.achievementRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not load achievements")
	}
	return achievements, nil
}

// ListForUser mengambil katalog + flag kepemilikan user.
func (s *achievementServiceImpl) ListForUser(ctx context.Context, userID int) ([]models.AchievementWithOwnership, error) {
	achievements, err := s.achievementRepo.GetAllWithOwnership(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not load achievements")
	}
	return achievements, nil
}

// Unlock memberi badge secara idempoten. Best-effort: dipanggil setelah
// transaksi utama pemanggil commit, dan kegagalan apa pun hanya di-log.
// Flow check-in/claim/khatam tidak boleh gagal gara-gara badge.
func (s *achievementServiceImpl) Unlock(ctx context.Context, userID int, descriptor AchievementDescriptor) {
	achievement, err := s.achievementRepo.FindByTitleSubtitle(ctx, descriptor.Title, descriptor.Subtitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			zlog.Warn().Str("title", descriptor.Title).Msg("Service: Achievement descriptor not in catalog, skipping unlock")
		} else {
			zlog.Error().Err(err).Str("title", descriptor.Title).Msg("Service: Error resolving achievement for unlock")
		}
		return
	}

	inserted, err := s.achievementRepo.UpsertOwnership(ctx, userID, achievement.ID, time.Now())
	if err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Str("title", descriptor.Title).Msg("Service: Error unlocking achievement")
		return
	}
	if inserted {
		zlog.Info().Int("user_id", userID).Str("title", descriptor.Title).Msg("Achievement unlocked")
		s.CheckUnlockAll(ctx, userID)
	}
}

// CheckUnlockAll memberi badge meta kalau user sudah memiliki semua badge non-meta.
func (s *achievementServiceImpl) CheckUnlockAll(ctx context.Context, userID int) {
	owned, err := s.achievementRepo.CountOwnedNonMeta(ctx, userID)
	if err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("Service: Error counting owned achievements")
		return
	}
	total, err := s.achievementRepo.CountNonMeta(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("Service: Error counting achievement catalog")
		return
	}
	if total == 0 || owned < total {
		return
	}

	achievement, err := s.achievementRepo.FindByTitleSubtitle(ctx, AchAllBadges.Title, AchAllBadges.Subtitle)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			zlog.Error().Err(err).Msg("Service: Error resolving meta achievement")
		}
		return
	}

	inserted, err := s.achievementRepo.UpsertOwnership(ctx, userID, achievement.ID, time.Now())
	if err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("Service: Error unlocking meta achievement")
		return
	}
	if inserted {
		zlog.Info().Int("user_id", userID).Msg("Meta achievement unlocked: user owns every badge")
	}
}
