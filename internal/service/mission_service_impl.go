// internal/service/mission_service_impl.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/period"
	"github.com/nadzifan/quran-companion-be/internal/repository"
	zlog "github.com/rs/zerolog/log"
)

// Definisikan error spesifik untuk service layer
var (
	ErrUnsupportedEvent    = errors.New("unsupported event code")
	ErrInvalidAyahRange    = errors.New("invalid ayah range")
	ErrMissionNotFound     = errors.New("mission not found")
	ErrNoProgress          = errors.New("no progress recorded for this mission")
	ErrMissionNotCompleted = errors.New("mission is not completed yet")
)

// Misi event tanpa window eksplisit dianggap berlaku 10 tahun sejak dibuat.
const defaultEventWindowYears = 10

// eventMissionRoutes adalah tabel routing statis event -> kode misi yang bisa
// dimajukan. Satu event bisa memajukan misi harian dan mingguan sekaligus.
// Tabel ini sengaja eksplisit (bukan data di DB) supaya penambahan event code
// baru selalu lewat review bersama switch increment-nya.
var eventMissionRoutes = map[models.EventCode][]string{
	models.EventQuranRead:   {"daily_read_verses", "weekly_read_verses"},
	models.EventAudioListen: {"daily_listen_audio", "weekly_listen_audio"},
	models.EventVideoWatch:  {"daily_watch_video"},
	models.EventAdRewarded:  {"daily_ad_rewarded"},
}

type missionServiceImpl struct {
	pool         *pgxpool.Pool
	periods      *period.Service
	missionRepo  repository.MissionRepository
	progressRepo repository.MissionProgressRepository
	walletRepo   repository.WalletRepository
	verseRepo    repository.VerseRepository
	checkinSvc   CheckinService
}

// NewMissionService creates a new instance of MissionService.
func NewMissionService(
	pool *pgxpool.Pool,
	periods *period.Service,
	missionRepo repository.MissionRepository,
	progressRepo repository.MissionProgressRepository,
	walletRepo repository.WalletRepository,
	verseRepo repository.VerseRepository,
	checkinSvc CheckinService,
) MissionService {
	return &missionServiceImpl{
		pool:         pool,
		periods:      periods,
		missionRepo:  missionRepo,
		progressRepo: progressRepo,
		walletRepo:   walletRepo,
		verseRepo:    verseRepo,
		checkinSvc:   checkinSvc,
	}
}

// periodWindow menurunkan (key, start, end) periode berjalan sebuah misi.
// Misi daily/weekly ikut batas hari/minggu lokal; misi event memakai satu
// periode sepanjang window aktifnya.
func (s *missionServiceImpl) periodWindow(m *models.Mission, now time.Time) (string, time.Time, time.Time) {
	switch m.Period {
	case models.MissionPeriodDaily:
		return s.periods.DailyKey(now), s.periods.DayStart(now), s.periods.DayEnd(now)
	case models.MissionPeriodWeekly:
		return s.periods.WeeklyKey(now), s.periods.WeekStart(now), s.periods.WeekEnd(now)
	default:
		start := m.CreatedAt
		if m.ActiveFrom != nil {
			start = *m.ActiveFrom
		}
		end := start.AddDate(defaultEventWindowYears, 0, 0)
		if m.ActiveTo != nil {
			end = *m.ActiveTo
		}
		return "event", start, end
	}
}

// countVersesInRange: jumlah ayat dalam rentang [a1, a2], atau 0 kalau
// rentangnya mustahil. Satu-satunya pertahanan terhadap caller yang
// menggelembungkan kredit baca dengan rentang palsu.
func countVersesInRange(ayahStart, ayahEnd, versesCount int) int {
	if ayahStart <= 0 || ayahEnd < ayahStart || ayahEnd > versesCount {
		return 0
	}
	return ayahEnd - ayahStart + 1
}

// countVersesInRangeChecked memvalidasi rentang ayat terhadap jumlah ayat asli surah
// di content store, lalu menghitung jumlah ayat dalam rentang.
func (s *missionServiceImpl) countVersesInRangeChecked(ctx context.Context, surah, ayahStart, ayahEnd int) (int, error) {
	if surah < 1 || surah > 114 {
		return 0, ErrInvalidAyahRange
	}
	versesCount, err := s.verseRepo.GetVerseCount(ctx, surah)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrInvalidAyahRange
		}
		return 0, fmt.Errorf("internal server error: could not validate ayah range")
	}
	verses := countVersesInRange(ayahStart, ayahEnd, versesCount)
	if verses == 0 {
		return 0, ErrInvalidAyahRange
	}
	return verses, nil
}

// eventIncrement menghitung kenaikan progress dari satu event.
// Switch-nya exhaustive terhadap EventCode; kode baru harus ditambah di sini
// DAN di eventMissionRoutes.
func (s *missionServiceImpl) eventIncrement(ctx context.Context, input *models.SubmitEventInput) (int, error) {
	switch models.EventCode(input.Code) {
	case models.EventQuranRead:
		return s.countVersesInRangeChecked(ctx, input.Surah, input.AyahStart, input.AyahEnd)
	case models.EventAudioListen:
		return input.Seconds, nil
	case models.EventVideoWatch:
		// Hanya tontonan selesai yang dihitung; partial watch tidak dapat kredit.
		if input.Completed {
			return 1, nil
		}
		return 0, nil
	case models.EventAdRewarded:
		return 1, nil
	default:
		return 0, ErrUnsupportedEvent
	}
}

// GetBoard menyusun mission board: grid check-in, section misi per periode,
// dan saldo wallet.
func (s *missionServiceImpl) GetBoard(ctx context.Context, userID int) (*models.MissionBoard, error) {
	now := s.periods.Now()

	checkinStatus, err := s.checkinSvc.GetStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	missions, err := s.missionRepo.GetActiveMissions(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not load missions")
	}

	// Periode berjalan dibuat lazy di sini juga supaya board menampilkan
	// progress 0 untuk periode yang belum tersentuh event.
	type boardEntry struct {
		mission  models.Mission
		periodID int
	}
	entries := []boardEntry{}
	periodIDs := []int{}
	for _, m := range missions {
		if m.Code == missionCodeDailyCheckin {
			continue // grid check-in punya section sendiri
		}
		key, start, end := s.periodWindow(&m, now)
		p, perr := s.missionRepo.GetOrCreatePeriod(ctx, m.ID, key, start, end)
		if perr != nil {
			return nil, fmt.Errorf("internal server error: could not resolve mission period")
		}
		entries = append(entries, boardEntry{mission: m, periodID: p.ID})
		periodIDs = append(periodIDs, p.ID)
	}

	progressByPeriod, err := s.progressRepo.GetProgressByPeriodIDs(ctx, userID, periodIDs)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not load mission progress")
	}

	board := &models.MissionBoard{
		Checkin: *checkinStatus,
		Daily:   []models.MissionWithProgress{},
		Weekly:  []models.MissionWithProgress{},
		Special: []models.MissionWithProgress{},
	}
	for _, e := range entries {
		item := models.MissionWithProgress{Mission: e.mission}
		if prog, ok := progressByPeriod[e.periodID]; ok {
			p := prog
			item.Progress = &p
		}
		switch e.mission.Period {
		case models.MissionPeriodDaily:
			board.Daily = append(board.Daily, item)
		case models.MissionPeriodWeekly:
			board.Weekly = append(board.Weekly, item)
		default:
			board.Special = append(board.Special, item)
		}
	}

	wallet, err := s.walletRepo.GetWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not load wallet")
	}
	board.Wallet = wallet.Stars

	return board, nil
}

// SubmitEvent memajukan semua misi aktif yang ter-route dari satu event,
// dalam satu transaksi. Engine ini akumulator, bukan deduplikator: event
// duplikat disaring idempotency gate di lapisan HTTP.
func (s *missionServiceImpl) SubmitEvent(ctx context.Context, userID int, input *models.SubmitEventInput) (applications []models.EventApplication, err error) {
	code := models.EventCode(input.Code)
	routedCodes, ok := eventMissionRoutes[code]
	if !ok {
		return nil, ErrUnsupportedEvent
	}

	// Validasi + hitung increment sebelum menyentuh state apa pun.
	increment, err := s.eventIncrement(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.periods.Now()
	applications = []models.EventApplication{}
	if increment <= 0 {
		// Contoh: video_watch yang belum selesai. Tidak ada yang dimajukan.
		return applications, nil
	}

	missions, err := s.missionRepo.GetMissionsByCodes(ctx, routedCodes, now)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not load missions")
	}
	if len(missions) == 0 {
		return applications, nil
	}

	// --- 1. Mulai Transaksi ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("Service: Failed to begin transaction for event application")
		return nil, fmt.Errorf("internal server error: could not start operation")
	}

	// --- 2. Defer Rollback/Commit ---
	defer func() {
		if p := recover(); p != nil {
			zlog.Error().Msgf("Service: Panic recovered during event application: %v", p)
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			rbErr := tx.Rollback(ctx)
			if rbErr != nil {
				zlog.Error().Err(rbErr).Msg("Service: Failed to rollback event transaction")
			}
		} else {
			err = tx.Commit(ctx)
			if err != nil {
				zlog.Error().Err(err).Int("user_id", userID).Str("event", input.Code).Msg("Service: Failed to commit event transaction")
				err = fmt.Errorf("internal server error: could not finalize operation")
			}
		}
	}()

	// --- 3. Terapkan increment ke tiap misi ---
	for i := range missions {
		m := &missions[i]

		key, start, end := s.periodWindow(m, now)
		periodRow, perr := s.missionRepo.GetOrCreatePeriodTx(ctx, tx, m.ID, key, start, end)
		if perr != nil {
			err = fmt.Errorf("internal server error: could not resolve mission period")
			return nil, err // Rollback
		}

		progress, perr := s.progressRepo.GetOrCreateProgressTx(ctx, tx, userID, periodRow.ID)
		if perr != nil {
			err = fmt.Errorf("internal server error: could not resolve mission progress")
			return nil, err // Rollback
		}

		// Claimed bersifat terminal: tidak ada akumulasi lagi.
		if progress.Status == models.ProgressStatusClaimed {
			continue
		}

		before := progress.ProgressValue
		after := before + increment
		status := progress.Status
		if status == models.ProgressStatusInProgress && after >= m.TargetValue {
			status = models.ProgressStatusCompleted
		}

		if uerr := s.progressRepo.UpdateProgressTx(ctx, tx, progress.ID, after, status, now); uerr != nil {
			err = fmt.Errorf("internal server error: could not update mission progress")
			return nil, err // Rollback
		}

		applications = append(applications, models.EventApplication{
			MissionID:      m.ID,
			MissionCode:    m.Code,
			ProgressBefore: before,
			ProgressAfter:  after,
			Status:         status,
		})
	}

	zlog.Info().Int("user_id", userID).Str("event", input.Code).Int("increment", increment).Int("missions", len(applications)).Msg("Activity event applied")
	return applications, nil
}

// Claim membayar reward misi yang sudah completed, tepat satu kali.
// Lock baris progress + transisi ke claimed terjadi SEBELUM ledger dipanggil,
// semuanya dalam satu transaksi; itulah yang mencegah double payout.
func (s *missionServiceImpl) Claim(ctx context.Context, userID int, missionCode string) (result *models.ClaimResult, err error) {
	mission, err := s.missionRepo.GetMissionByCode(ctx, missionCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMissionNotFound
		}
		return nil, fmt.Errorf("internal server error: could not load mission")
	}

	now := s.periods.Now()

	// --- 1. Mulai Transaksi ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("Service: Failed to begin transaction for mission claim")
		return nil, fmt.Errorf("internal server error: could not start operation")
	}

	// --- 2. Defer Rollback/Commit ---
	defer func() {
		if p := recover(); p != nil {
			zlog.Error().Msgf("Service: Panic recovered during mission claim: %v", p)
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			rbErr := tx.Rollback(ctx)
			if rbErr != nil {
				zlog.Error().Err(rbErr).Msg("Service: Failed to rollback claim transaction")
			}
		} else {
			err = tx.Commit(ctx)
			if err != nil {
				zlog.Error().Err(err).Int("user_id", userID).Str("mission", missionCode).Msg("Service: Failed to commit claim transaction")
				err = fmt.Errorf("internal server error: could not finalize operation")
			}
		}
	}()

	// --- 3. Resolve periode berjalan + lock baris progress ---
	key, start, end := s.periodWindow(mission, now)
	periodRow, err := s.missionRepo.GetOrCreatePeriodTx(ctx, tx, mission.ID, key, start, end)
	if err != nil {
		err = fmt.Errorf("internal server error: could not resolve mission period")
		return nil, err // Rollback
	}

	progress, err := s.progressRepo.LockProgressTx(ctx, tx, userID, periodRow.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNoProgress
			return nil, err // Rollback
		}
		err = fmt.Errorf("internal server error: could not load mission progress")
		return nil, err // Rollback
	}

	// --- 4. Validasi status ---
	if progress.Status == models.ProgressStatusClaimed {
		// Idempoten: sudah pernah dibayar, bukan error.
		zlog.Info().Int("user_id", userID).Str("mission", missionCode).Msg("Service: Claim repeated on already-claimed mission")
		return &models.ClaimResult{AlreadyClaimed: true}, nil
	}
	if progress.Status != models.ProgressStatusCompleted {
		err = ErrMissionNotCompleted
		return nil, err // Rollback
	}

	// --- 5. Transisi ke claimed, lalu payout ---
	if err = s.progressRepo.MarkClaimedTx(ctx, tx, progress.ID); err != nil {
		err = fmt.Errorf("internal server error: could not update claim status")
		return nil, err // Rollback
	}

	balance, err := s.walletRepo.AddStarsTx(ctx, tx, userID, mission.BaseReward, models.RewardSourceMissionClaim, mission.Code, map[string]interface{}{
		"period_key": periodRow.PeriodKey,
	})
	if err != nil {
		err = fmt.Errorf("internal server error: could not pay mission reward")
		return nil, err // Rollback
	}

	result = &models.ClaimResult{
		MissionID: mission.ID,
		Reward:    mission.BaseReward,
		Wallet:    balance,
	}

	zlog.Info().Int("user_id", userID).Str("mission", missionCode).Int("reward", mission.BaseReward).Msg("Mission reward claimed")
	return result, nil
}
