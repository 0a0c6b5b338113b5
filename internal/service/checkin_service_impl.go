// internal/service/checkin_service_impl.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/period"
	"github.com/nadzifan/quran-companion-be/internal/repository"
	zlog "github.com/rs/zerolog/log"
)

// Kode misi check-in harian di katalog misi.
const missionCodeDailyCheckin = "daily_checkin"

// defaultCycleLength dipakai kalau milestone_rules misi tidak menyebut cycle_length.
const defaultCycleLength = 28

// ErrCheckinMissionMissing: katalog misi tidak punya baris daily_checkin.
var ErrCheckinMissionMissing = errors.New("daily checkin mission is not configured")

type checkinServiceImpl struct {
	pool        *pgxpool.Pool
	periods     *period.Service
	missionRepo repository.MissionRepository
	checkinRepo repository.CheckinRepository
	walletRepo  repository.WalletRepository
	achievement AchievementService
}

// NewCheckinService creates a new instance of CheckinService.
func NewCheckinService(
	pool *pgxpool.Pool,
	periods *period.Service,
	missionRepo repository.MissionRepository,
	checkinRepo repository.CheckinRepository,
	walletRepo repository.WalletRepository,
	achievement AchievementService,
) CheckinService {
	return &checkinServiceImpl{
		pool:        pool,
		periods:     periods,
		missionRepo: missionRepo,
		checkinRepo: checkinRepo,
		walletRepo:  walletRepo,
		achievement: achievement,
	}
}

// checkinDerivation adalah hasil derivasi murni state check-in untuk satu hari.
type checkinDerivation struct {
	DayIndex  int
	Streak    int
	Reward    int
	Milestone bool
}

// deriveCheckin menurunkan day index, streak, dan reward hari ini dari baris
// check-in terakhir. Fungsi murni supaya gampang diuji tanpa DB.
//   - belum pernah check-in: dayIndex 1, streak 1 (hari ini memulai run baru)
//   - terakhir kemarin: dayIndex lanjut siklus (wrap di cycle_length), streak +1
//   - bolong lebih dari sehari: reset dayIndex 1, streak 1
func deriveCheckin(mission *models.Mission, prior *models.UserDailyCheckin, today time.Time) checkinDerivation {
	cycle := defaultCycleLength
	var rules *models.MilestoneRules
	if mission != nil {
		rules = mission.MilestoneRules
	}
	if rules != nil && rules.CycleLength > 0 {
		cycle = rules.CycleLength
	}

	// Check-in pertama seumur hidup tetap menghitung dirinya sendiri: run baru
	// mulai di streak 1, sama seperti cabang reset setelah bolong.
	d := checkinDerivation{DayIndex: 1, Streak: 1}
	if prior != nil {
		yesterday := today.AddDate(0, 0, -1)
		if sameDate(prior.CheckinDate, yesterday) {
			d.DayIndex = (prior.DayIndex % cycle) + 1
			d.Streak = prior.StreakCount + 1
		} else {
			d.DayIndex = 1
			d.Streak = 1
		}
	}

	d.Reward = checkinReward(mission, rules, d.DayIndex)
	if rules != nil {
		for _, day := range rules.MilestoneDays {
			if day == d.DayIndex {
				d.Milestone = true
				break
			}
		}
	}
	return d
}

// checkinReward mencari reward hari ke-N dari tabel per-hari, fallback ke base_reward.
func checkinReward(mission *models.Mission, rules *models.MilestoneRules, dayIndex int) int {
	if rules != nil && rules.DailyRewards != nil {
		if reward, ok := rules.DailyRewards[strconv.Itoa(dayIndex)]; ok {
			return reward
		}
	}
	if mission != nil {
		return mission.BaseReward
	}
	return 0
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// GetStatus menurunkan state check-in hari ini tanpa mutasi.
func (s *checkinServiceImpl) GetStatus(ctx context.Context, userID int) (*models.CheckinStatus, error) {
	mission, err := s.checkinMission(ctx)
	if err != nil {
		return nil, err
	}

	today := s.periods.Today()

	todayRow, err := s.checkinRepo.GetCheckinByDate(ctx, userID, today)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("internal server error: could not read checkin state")
	}
	if todayRow != nil {
		// Sudah check-in: tampilkan nilai yang tersimpan, tidak claimable lagi.
		return &models.CheckinStatus{
			Claimable:   false,
			DayIndex:    todayRow.DayIndex,
			Streak:      todayRow.StreakCount,
			RewardToday: todayRow.RewardStars,
		}, nil
	}

	prior, err := s.checkinRepo.GetLastCheckinBefore(ctx, userID, today)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("internal server error: could not read checkin history")
	}

	d := deriveCheckin(mission, prior, today)
	return &models.CheckinStatus{
		Claimable:   true,
		DayIndex:    d.DayIndex,
		Streak:      d.Streak,
		RewardToday: d.Reward,
	}, nil
}

// errCheckinRaceLost: insert kalah race unique (user_id, checkin_date);
// diterjemahkan DoCheckin menjadi hasil {already: true}.
var errCheckinRaceLost = errors.New("checkin insert lost uniqueness race")

// DoCheckin mencatat check-in hari ini tepat satu kali dan membayar reward-nya.
func (s *checkinServiceImpl) DoCheckin(ctx context.Context, userID int) (*models.CheckinResult, error) {
	result, err := s.doCheckinOnce(ctx, userID)
	if errors.Is(err, errCheckinRaceLost) {
		// Pemenang race sudah menulis baris hari ini; baca ulang untuk respon.
		today := s.periods.Today()
		todayRow, readErr := s.checkinRepo.GetCheckinByDate(ctx, userID, today)
		if readErr != nil {
			return nil, fmt.Errorf("internal server error: could not read checkin state")
		}
		return &models.CheckinResult{
			Already:  true,
			DayIndex: todayRow.DayIndex,
			Streak:   todayRow.StreakCount,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	// Badge istiqamah: best-effort setelah commit, tidak mempengaruhi hasil check-in.
	if !result.Already {
		if result.Streak == 7 {
			s.achievement.Unlock(ctx, userID, AchStreakSeven)
		}
		if total, countErr := s.checkinRepo.CountCheckins(ctx, userID); countErr == nil && total == 30 {
			s.achievement.Unlock(ctx, userID, AchCheckinThirty)
		}
	}

	return result, nil
}

func (s *checkinServiceImpl) doCheckinOnce(ctx context.Context, userID int) (result *models.CheckinResult, err error) {
	mission, err := s.checkinMission(ctx)
	if err != nil {
		return nil, err
	}

	today := s.periods.Today()
	dateKey := s.periods.DailyKey(today)

	// --- 1. Mulai Transaksi ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("Service: Failed to begin transaction for checkin")
		return nil, fmt.Errorf("internal server error: could not start operation")
	}

	// --- 2. Defer Rollback/Commit ---
	defer func() {
		if p := recover(); p != nil {
			zlog.Error().Msgf("Service: Panic recovered during checkin: %v", p)
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			rbErr := tx.Rollback(ctx)
			if rbErr != nil {
				zlog.Error().Err(rbErr).Msg("Service: Failed to rollback checkin transaction")
			}
		} else {
			err = tx.Commit(ctx)
			if err != nil {
				zlog.Error().Err(err).Int("user_id", userID).Msg("Service: Failed to commit checkin transaction")
				err = fmt.Errorf("internal server error: could not finalize operation")
			}
		}
	}()

	// --- 3. Re-derive state di dalam transaksi ---
	todayRow, err := s.checkinRepo.GetCheckinByDateTx(ctx, tx, userID, today)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("internal server error: could not read checkin state")
		return nil, err // Rollback
	}
	if todayRow != nil {
		// Idempotent no-op: sudah check-in hari ini.
		err = nil
		return &models.CheckinResult{
			Already:  true,
			DayIndex: todayRow.DayIndex,
			Streak:   todayRow.StreakCount,
		}, nil
	}

	prior, err := s.checkinRepo.GetLastCheckinBeforeTx(ctx, tx, userID, today)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("internal server error: could not read checkin history")
		return nil, err // Rollback
	}
	err = nil

	d := deriveCheckin(mission, prior, today)

	// --- 4. Insert baris check-in (unique (user_id, checkin_date) = backstop idempotensi) ---
	_, err = s.checkinRepo.CreateCheckinTx(ctx, tx, &models.UserDailyCheckin{
		UserID:      userID,
		CheckinDate: today,
		DayIndex:    d.DayIndex,
		StreakCount: d.Streak,
		RewardStars: d.Reward,
	})
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			// Kalah race dengan request check-in lain di hari yang sama.
			zlog.Warn().Int("user_id", userID).Str("date", dateKey).Msg("Service: Concurrent checkin lost the insert race")
			err = errCheckinRaceLost
			return nil, err // Rollback, diterjemahkan oleh DoCheckin
		}
		zlog.Error().Err(err).Int("user_id", userID).Msg("Service: Failed to insert checkin row")
		err = fmt.Errorf("internal server error: could not record checkin")
		return nil, err // Rollback
	}

	// --- 5. Bayar reward lewat ledger ---
	balance, err := s.walletRepo.AddStarsTx(ctx, tx, userID, d.Reward, models.RewardSourceCheckin, dateKey, map[string]interface{}{
		"day_index": d.DayIndex,
		"streak":    d.Streak,
	})
	if err != nil {
		err = fmt.Errorf("internal server error: could not pay checkin reward")
		return nil, err // Rollback
	}

	result = &models.CheckinResult{
		DayIndex:  d.DayIndex,
		Streak:    d.Streak,
		Reward:    d.Reward,
		Milestone: d.Milestone,
		Wallet:    balance,
	}

	return result, nil
}

// checkinMission mengambil definisi misi check-in dari katalog.
func (s *checkinServiceImpl) checkinMission(ctx context.Context) (*models.Mission, error) {
	mission, err := s.missionRepo.GetMissionByCode(ctx, missionCodeDailyCheckin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			zlog.Error().Msg("Service: Daily checkin mission missing from catalog")
			return nil, ErrCheckinMissionMissing
		}
		return nil, fmt.Errorf("internal server error: could not load checkin mission")
	}
	return mission, nil
}
