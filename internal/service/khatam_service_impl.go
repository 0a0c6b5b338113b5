// internal/service/khatam_service_impl.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/period"
	"github.com/nadzifan/quran-companion-be/internal/repository"
	"github.com/nadzifan/quran-companion-be/internal/utils"
	zlog "github.com/rs/zerolog/log"
)

// Definisikan error spesifik untuk service layer
var (
	ErrPlanAlreadyActive  = errors.New("an active khatam plan already exists")
	ErrPlanNotFound       = errors.New("khatam plan not found")
	ErrNoActivePlan       = errors.New("no active khatam plan")
	ErrPlanAlreadyGrouped = errors.New("plan is already in another group")
	ErrAlreadyMember      = errors.New("user is already a member of this group")
	ErrInviteInvalid      = errors.New("invite is invalid or expired")
)

const (
	totalJuz          = 30
	groupCapacity     = 30
	inviteTokenLength = 12
	inviteCodeLength  = 4
	dateLayout        = "2006-01-02"

	// Insert khatam_number di-retry kalau kalah race di unique constraint.
	planCreateAttempts = 3
)

type khatamServiceImpl struct {
	pool        *pgxpool.Pool
	periods     *period.Service
	khatamRepo  repository.KhatamRepository
	groupRepo   repository.KhatamGroupRepository
	achievement AchievementService
}

// NewKhatamService creates a new instance of KhatamService.
func NewKhatamService(
	pool *pgxpool.Pool,
	periods *period.Service,
	khatamRepo repository.KhatamRepository,
	groupRepo repository.KhatamGroupRepository,
	achievement AchievementService,
) KhatamService {
	return &khatamServiceImpl{
		pool:        pool,
		periods:     periods,
		khatamRepo:  khatamRepo,
		groupRepo:   groupRepo,
		achievement: achievement,
	}
}

// ====================================================================================
// Distribusi juz (fungsi murni)
// ====================================================================================

type juzRange struct {
	Start int
	End   int
}

// splitJuzRanges membagi 30 juz se-rata mungkin ke n member: base = 30/n,
// sisa 30%n dibagikan satu juz ekstra ke member-member pertama. Hasilnya
// rentang kontigu yang mempartisi 1..30 tanpa celah/tumpang tindih.
// n di luar 1..30 mengembalikan nil (tidak ada pembagian yang valid).
func splitJuzRanges(memberCount int) []juzRange {
	if memberCount < 1 || memberCount > totalJuz {
		return nil
	}

	base := totalJuz / memberCount
	remainder := totalJuz % memberCount

	ranges := make([]juzRange, 0, memberCount)
	next := 1
	for i := 0; i < memberCount; i++ {
		size := base
		if i < remainder {
			size++
		}
		ranges = append(ranges, juzRange{Start: next, End: next + size - 1})
		next += size
	}
	return ranges
}

// orderMembersForSplit mengurutkan member untuk distribusi juz: berdasarkan
// waktu join, dengan creator ditaruh paling akhir di antara join time yang sama.
func orderMembersForSplit(members []models.KhatamGroupMember) []models.KhatamGroupMember {
	ordered := make([]models.KhatamGroupMember, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].JoinedAt.Equal(ordered[j].JoinedAt) {
			return ordered[j].Role == models.GroupRoleCreator && ordered[i].Role != models.GroupRoleCreator
		}
		return ordered[i].JoinedAt.Before(ordered[j].JoinedAt)
	})
	return ordered
}

// redistributeJuzTx menulis ulang jatah juz seluruh member grup.
// Member di luar kapasitas 30 membuat pembagian tidak valid; di-log dan no-op.
func (s *khatamServiceImpl) redistributeJuzTx(ctx context.Context, tx pgx.Tx, groupID int, members []models.KhatamGroupMember) error {
	ranges := splitJuzRanges(len(members))
	if ranges == nil {
		zlog.Warn().Int("group_id", groupID).Int("members", len(members)).Msg("Service: Cannot distribute juz for this member count, skipping")
		return nil
	}

	ordered := orderMembersForSplit(members)
	for i, m := range ordered {
		if err := s.groupRepo.UpdateMemberRangeTx(ctx, tx, m.ID, ranges[i].Start, ranges[i].End); err != nil {
			return err
		}
	}
	return nil
}

// ====================================================================================
// Plan lifecycle
// ====================================================================================

// CreatePlan memulai percobaan khatam baru.
func (s *khatamServiceImpl) CreatePlan(ctx context.Context, userID int, input *models.CreatePlanInput) (*models.KhatamPlan, error) {
	startDate, err := time.ParseInLocation(dateLayout, input.StartDate, s.periods.Location())
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	targetDate, err := time.ParseInLocation(dateLayout, input.TargetDate, s.periods.Location())
	if err != nil {
		return nil, fmt.Errorf("invalid target_date: %w", err)
	}

	// Pre-flight: satu plan aktif per user.
	if _, err := s.khatamRepo.GetActivePlan(ctx, userID); err == nil {
		return nil, ErrPlanAlreadyActive
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("internal server error: could not check active plan")
	}

	plan, err := s.createPlanWithRetry(ctx, userID, startDate, targetDate, input.ReadingType)
	if err != nil {
		return nil, err
	}

	// Badge plan pertama: best-effort setelah commit.
	if plan.KhatamNumber == 1 {
		s.achievement.Unlock(ctx, userID, AchFirstPlan)
	}

	return plan, nil
}

// createPlanWithRetry menjalankan transaksi insert plan, diulang kalau kalah
// race pada unique (user_id, khatam_number). Penomoran MAX+1 sendiri tidak
// atomik antar request; constraint + retry yang menjaminnya.
func (s *khatamServiceImpl) createPlanWithRetry(ctx context.Context, userID int, startDate, targetDate time.Time, readingType string) (*models.KhatamPlan, error) {
	for attempt := 1; attempt <= planCreateAttempts; attempt++ {
		plan, err := s.createPlanOnce(ctx, userID, startDate, targetDate, readingType)
		if err == nil {
			return plan, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "active") {
				// Unique partial index satu-plan-aktif: bukan race nomor, stop.
				return nil, ErrPlanAlreadyActive
			}
			zlog.Warn().Int("user_id", userID).Int("attempt", attempt).Msg("Service: Khatam number collision, retrying plan creation")
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("internal server error: could not allocate khatam number")
}

func (s *khatamServiceImpl) createPlanOnce(ctx context.Context, userID int, startDate, targetDate time.Time, readingType string) (plan *models.KhatamPlan, err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("Service: Failed to begin transaction for plan creation")
		return nil, fmt.Errorf("internal server error: could not start operation")
	}

	defer func() {
		if p := recover(); p != nil {
			zlog.Error().Msgf("Service: Panic recovered during plan creation: %v", p)
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			rbErr := tx.Rollback(ctx)
			if rbErr != nil {
				zlog.Error().Err(rbErr).Msg("Service: Failed to rollback plan creation transaction")
			}
		} else {
			err = tx.Commit(ctx)
			if err != nil {
				zlog.Error().Err(err).Int("user_id", userID).Msg("Service: Failed to commit plan creation transaction")
				err = fmt.Errorf("internal server error: could not finalize operation")
			}
		}
	}()

	plan, err = s.insertPlanTx(ctx, tx, userID, startDate, targetDate, readingType)
	if err != nil {
		return nil, err // Rollback
	}
	return plan, nil
}

// insertPlanTx: alokasi khatam_number (MAX+1) + insert dalam transaksi yang sama.
func (s *khatamServiceImpl) insertPlanTx(ctx context.Context, tx pgx.Tx, userID int, startDate, targetDate time.Time, readingType string) (*models.KhatamPlan, error) {
	number, err := s.khatamRepo.NextKhatamNumberTx(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not allocate khatam number")
	}

	plan := &models.KhatamPlan{
		UserID:       userID,
		KhatamNumber: number,
		StartDate:    startDate,
		TargetDate:   targetDate,
		ReadingType:  readingType,
		Status:       models.KhatamStatusActive,
	}

	id, err := s.khatamRepo.CreatePlanTx(ctx, tx, plan)
	if err != nil {
		return nil, err // Error constraint diteruskan mentah untuk retry/translate
	}
	plan.ID = id

	zlog.Info().Int("user_id", userID).Int("plan_id", id).Int("khatam_number", number).Msg("Khatam plan created")
	return plan, nil
}

// UpdatePlan memperbarui target_date / reading_type plan milik user.
func (s *khatamServiceImpl) UpdatePlan(ctx context.Context, userID int, planID int, input *models.UpdatePlanInput) error {
	var targetDate *time.Time
	if input.TargetDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, input.TargetDate, s.periods.Location())
		if err != nil {
			return fmt.Errorf("invalid target_date: %w", err)
		}
		targetDate = &parsed
	}
	var readingType *string
	if input.ReadingType != "" {
		readingType = &input.ReadingType
	}

	err := s.khatamRepo.UpdatePlan(ctx, planID, userID, targetDate, readingType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("internal server error: could not update plan")
	}
	return nil
}

// DeletePlan menghapus plan milik user. Kalau plan tergabung di grup:
// keanggotaannya ikut dihapus, lalu grup yang kosong ditandai selesai,
// atau jatah juz dibagi ulang ke member tersisa. Catatan: jalur ini TIDAK
// mengecek ulang completion grup setelah redistribusi.
func (s *khatamServiceImpl) DeletePlan(ctx context.Context, userID int, planID int) (err error) {
	plan, err := s.khatamRepo.GetPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("internal server error: could not load plan")
	}
	if plan.UserID != userID {
		return ErrPlanNotFound // jangan bocorkan keberadaan plan orang lain
	}

	// --- 1. Mulai Transaksi ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("Service: Failed to begin transaction for plan deletion")
		return fmt.Errorf("internal server error: could not start operation")
	}

	// --- 2. Defer Rollback/Commit ---
	defer func() {
		if p := recover(); p != nil {
			zlog.Error().Msgf("Service: Panic recovered during plan deletion: %v", p)
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			rbErr := tx.Rollback(ctx)
			if rbErr != nil {
				zlog.Error().Err(rbErr).Msg("Service: Failed to rollback plan deletion transaction")
			}
		} else {
			err = tx.Commit(ctx)
			if err != nil {
				zlog.Error().Err(err).Int("plan_id", planID).Msg("Service: Failed to commit plan deletion transaction")
				err = fmt.Errorf("internal server error: could not finalize operation")
			}
		}
	}()

	// --- 3. Lepas keanggotaan grup (kalau ada) ---
	groupID, err := s.groupRepo.RemoveMemberByPlanTx(ctx, tx, planID)
	hadGroup := true
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("internal server error: could not detach plan from group")
			return err // Rollback
		}
		hadGroup = false
		err = nil
	}

	// --- 4. Hapus plan + catatan bacanya ---
	if err = s.khatamRepo.DeletePlanTx(ctx, tx, planID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrPlanNotFound
			return err // Rollback
		}
		err = fmt.Errorf("internal server error: could not delete plan")
		return err // Rollback
	}

	// --- 5. Rapikan grup yang ditinggalkan ---
	if hadGroup {
		members, merr := s.groupRepo.GetMembersTx(ctx, tx, groupID)
		if merr != nil {
			err = fmt.Errorf("internal server error: could not load remaining members")
			return err // Rollback
		}
		if len(members) == 0 {
			if err = s.groupRepo.MarkGroupCompletedTx(ctx, tx, groupID); err != nil {
				err = fmt.Errorf("internal server error: could not close emptied group")
				return err // Rollback
			}
		} else if err = s.redistributeJuzTx(ctx, tx, groupID, members); err != nil {
			err = fmt.Errorf("internal server error: could not redistribute juz")
			return err // Rollback
		}
	}

	return nil
}

// GetActivePlan mengembalikan plan aktif + agregasi progress. Pembaca solo
// yang sudah menyentuh 30 juz ditandai selesai di sini.
func (s *khatamServiceImpl) GetActivePlan(ctx context.Context, userID int) (*models.ActivePlanView, error) {
	plan, err := s.khatamRepo.GetActivePlan(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActivePlan
		}
		return nil, fmt.Errorf("internal server error: could not load active plan")
	}

	// "Juz terakhir dibaca" = jumlah juz distinct yang sudah tersentuh.
	lastJuz, err := s.khatamRepo.CountDistinctJuz(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not aggregate reading progress")
	}

	view := &models.ActivePlanView{Plan: plan, LastJuz: lastJuz}

	group, err := s.groupRepo.GetGroupByPlanID(ctx, plan.ID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("internal server error: could not load group")
		}

		// Solo reader: 30 juz tersentuh berarti khatam.
		if lastJuz >= totalJuz {
			now := s.periods.Now()
			if err := s.khatamRepo.MarkPlanCompleted(ctx, plan.ID, now); err != nil {
				return nil, fmt.Errorf("internal server error: could not complete plan")
			}
			completedAt := now
			plan.Status = models.KhatamStatusCompleted
			plan.CompletedAt = &completedAt

			s.achievement.Unlock(ctx, userID, AchIndividualKhatam)
			if now.Before(plan.TargetDate) {
				s.achievement.Unlock(ctx, userID, AchKhatamOnTime)
			}
			s.achievement.CheckUnlockAll(ctx, userID)
		}
		return view, nil
	}

	members, err := s.groupRepo.GetMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not load group members")
	}

	view.Group = s.groupView(group, len(members))
	view.Members = make([]models.GroupMemberView, 0, len(members))
	for _, m := range members {
		juzRead, jerr := s.khatamRepo.CountDistinctJuz(ctx, m.KhatamPlanID)
		if jerr != nil {
			return nil, fmt.Errorf("internal server error: could not aggregate member progress")
		}
		shareSize := m.JuzEnd - m.JuzStart + 1
		view.Members = append(view.Members, models.GroupMemberView{
			UserID:   m.UserID,
			Role:     m.Role,
			JuzStart: m.JuzStart,
			JuzEnd:   m.JuzEnd,
			JuzRead:  juzRead,
			// Aproksimasi yang disengaja: total juz distinct dibandingkan
			// ukuran jatah, bukan juz di dalam rentang jatahnya.
			Done: juzRead >= shareSize,
		})
	}

	return view, nil
}

// RecordProgress mencatat satu ayat terbaca pada plan aktif user. Untuk member
// grup, jatah yang tuntas menandai plan selesai dan memicu cek completion grup.
func (s *khatamServiceImpl) RecordProgress(ctx context.Context, userID int, input *models.RecordProgressInput) error {
	plan, err := s.khatamRepo.GetActivePlan(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoActivePlan
		}
		return fmt.Errorf("internal server error: could not load active plan")
	}

	err = s.khatamRepo.RecordProgress(ctx, &models.KhatamProgress{
		KhatamID: plan.ID,
		Surah:    input.Surah,
		AyahID:   input.AyahID,
		Juz:      input.Juz,
	})
	if err != nil {
		return fmt.Errorf("internal server error: could not record progress")
	}

	group, err := s.groupRepo.GetGroupByPlanID(ctx, plan.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // solo: completion dicek saat GetActivePlan
		}
		return fmt.Errorf("internal server error: could not load group")
	}

	// Cek tuntasnya jatah member (aproksimasi: total distinct vs ukuran jatah).
	members, err := s.groupRepo.GetMembers(ctx, group.ID)
	if err != nil {
		return fmt.Errorf("internal server error: could not load group members")
	}
	var mine *models.KhatamGroupMember
	for i := range members {
		if members[i].KhatamPlanID == plan.ID {
			mine = &members[i]
			break
		}
	}
	if mine == nil {
		return nil
	}

	juzRead, err := s.khatamRepo.CountDistinctJuz(ctx, plan.ID)
	if err != nil {
		return fmt.Errorf("internal server error: could not aggregate reading progress")
	}
	shareSize := mine.JuzEnd - mine.JuzStart + 1
	if juzRead >= shareSize && plan.Status == models.KhatamStatusActive {
		if err := s.khatamRepo.MarkPlanCompleted(ctx, plan.ID, s.periods.Now()); err != nil {
			return fmt.Errorf("internal server error: could not complete plan")
		}
		s.checkGroupCompletion(ctx, group)
	}

	return nil
}

// ====================================================================================
// Group coordination
// ====================================================================================

// CreateGroup membuat grup baca dengan plan aktif caller sebagai creator.
func (s *khatamServiceImpl) CreateGroup(ctx context.Context, userID int, input *models.CreateGroupInput) (*models.GroupView, error) {
	view, err := s.createGroupOnce(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	// Badge penggerak grup: best-effort setelah commit.
	s.achievement.Unlock(ctx, userID, AchCreateGroup)
	return view, nil
}

func (s *khatamServiceImpl) createGroupOnce(ctx context.Context, userID int, input *models.CreateGroupInput) (view *models.GroupView, err error) {
	plan, err := s.khatamRepo.GetActivePlan(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActivePlan
		}
		return nil, fmt.Errorf("internal server error: could not load active plan")
	}

	if _, err := s.groupRepo.GetGroupByPlanID(ctx, plan.ID); err == nil {
		return nil, ErrPlanAlreadyGrouped
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("internal server error: could not check group membership")
	}

	targetDate, err := time.ParseInLocation(dateLayout, input.TargetDate, s.periods.Location())
	if err != nil {
		return nil, fmt.Errorf("invalid target_date: %w", err)
	}

	inviteToken, err := utils.GenerateRandomString(inviteTokenLength)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not generate invite token")
	}
	inviteCode, err := utils.GenerateNumericCode(inviteCodeLength)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not generate invite code")
	}

	group := &models.KhatamGroup{
		Name:            input.Name,
		CreatedByUserID: userID,
		TargetDate:      targetDate,
		InviteToken:     inviteToken,
		InviteCode:      inviteCode,
		InviteExpiresAt: targetDate, // undangan berlaku sampai target grup
		Status:          models.KhatamStatusActive,
	}

	// --- 1. Mulai Transaksi ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("Service: Failed to begin transaction for group creation")
		return nil, fmt.Errorf("internal server error: could not start operation")
	}

	// --- 2. Defer Rollback/Commit ---
	defer func() {
		if p := recover(); p != nil {
			zlog.Error().Msgf("Service: Panic recovered during group creation: %v", p)
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			rbErr := tx.Rollback(ctx)
			if rbErr != nil {
				zlog.Error().Err(rbErr).Msg("Service: Failed to rollback group creation transaction")
			}
		} else {
			err = tx.Commit(ctx)
			if err != nil {
				zlog.Error().Err(err).Int("user_id", userID).Msg("Service: Failed to commit group creation transaction")
				err = fmt.Errorf("internal server error: could not finalize operation")
			}
		}
	}()

	// --- 3. Insert grup + creator sebagai member pertama dengan jatah 1..30 ---
	groupID, err := s.groupRepo.CreateGroupTx(ctx, tx, group)
	if err != nil {
		err = fmt.Errorf("internal server error: could not create group")
		return nil, err // Rollback
	}
	group.ID = groupID

	err = s.groupRepo.AddMemberTx(ctx, tx, &models.KhatamGroupMember{
		GroupID:      groupID,
		UserID:       userID,
		KhatamPlanID: plan.ID,
		Role:         models.GroupRoleCreator,
		JuzStart:     1,
		JuzEnd:       totalJuz,
	}, groupCapacity)
	if err != nil {
		err = s.translateMemberInsertErr(err)
		return nil, err // Rollback
	}

	view = s.groupView(group, 1)

	zlog.Info().Int("group_id", groupID).Int("creator_id", userID).Msg("Khatam group created")
	return view, nil
}

// JoinGroup menggabungkan caller ke grup lewat invite token, lalu membagi
// ulang jatah juz ke seluruh member.
func (s *khatamServiceImpl) JoinGroup(ctx context.Context, userID int, input *models.JoinGroupInput) (*models.GroupView, error) {
	view, creatorID, err := s.joinGroupOnce(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	// Badge join (+ badge musiman Ramadan): best-effort setelah commit.
	s.achievement.Unlock(ctx, userID, AchFirstJoinGroup)
	if view.MemberCount >= 3 && utils.IsRamadan(s.periods.Now()) {
		s.achievement.Unlock(ctx, userID, AchRamadanJoin3)
		s.achievement.Unlock(ctx, creatorID, AchRamadanCreate3)
	}
	return view, nil
}

func (s *khatamServiceImpl) joinGroupOnce(ctx context.Context, userID int, input *models.JoinGroupInput) (view *models.GroupView, creatorID int, err error) {
	group, err := s.groupRepo.GetGroupByInviteToken(ctx, input.InviteToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrInviteInvalid
		}
		return nil, 0, fmt.Errorf("internal server error: could not resolve invite")
	}
	if group.Status != models.KhatamStatusActive {
		return nil, 0, ErrInviteInvalid
	}
	creatorID = group.CreatedByUserID

	// Pre-flight kapasitas; guard atomiknya ada di statement insert member.
	memberCount, err := s.groupRepo.CountMembers(ctx, group.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("internal server error: could not count members")
	}
	if memberCount >= groupCapacity {
		return nil, 0, repository.ErrGroupFull
	}

	// Resolve plan yang akan ditautkan.
	var plan *models.KhatamPlan
	createdPlan := false
	if input.KhatamPlanID != 0 {
		plan, err = s.khatamRepo.GetPlanByID(ctx, input.KhatamPlanID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, 0, ErrPlanNotFound
			}
			return nil, 0, fmt.Errorf("internal server error: could not load plan")
		}
		if plan.UserID != userID || plan.Status != models.KhatamStatusActive {
			return nil, 0, ErrPlanNotFound
		}
	} else {
		plan, err = s.khatamRepo.GetActivePlan(ctx, userID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, fmt.Errorf("internal server error: could not load active plan")
		}
		if plan == nil {
			createdPlan = true
		}
	}

	// --- 1. Mulai Transaksi ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("Service: Failed to begin transaction for group join")
		return nil, 0, fmt.Errorf("internal server error: could not start operation")
	}

	// --- 2. Defer Rollback/Commit ---
	defer func() {
		if p := recover(); p != nil {
			zlog.Error().Msgf("Service: Panic recovered during group join: %v", p)
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			rbErr := tx.Rollback(ctx)
			if rbErr != nil {
				zlog.Error().Err(rbErr).Msg("Service: Failed to rollback group join transaction")
			}
		} else {
			err = tx.Commit(ctx)
			if err != nil {
				zlog.Error().Err(err).Int("user_id", userID).Int("group_id", group.ID).Msg("Service: Failed to commit group join transaction")
				err = fmt.Errorf("internal server error: could not finalize operation")
			}
		}
	}()

	// --- 3. Buat plan baru kalau caller belum punya (clone setelan creator) ---
	if createdPlan {
		creatorPlan, cerr := s.khatamRepo.GetActivePlan(ctx, group.CreatedByUserID)
		start := s.periods.Today()
		target := group.TargetDate
		readingType := ""
		if cerr == nil {
			target = creatorPlan.TargetDate
			readingType = creatorPlan.ReadingType
		}
		plan, err = s.insertPlanTx(ctx, tx, userID, start, target, readingType)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				err = fmt.Errorf("internal server error: could not allocate khatam number")
			}
			return nil, 0, err // Rollback
		}
	}

	// --- 4. Insert member (guard kapasitas + unique plan/user di constraint) ---
	err = s.groupRepo.AddMemberTx(ctx, tx, &models.KhatamGroupMember{
		GroupID:      group.ID,
		UserID:       userID,
		KhatamPlanID: plan.ID,
		Role:         models.GroupRoleMember,
		JuzStart:     0, // jatah final ditulis redistribusi di bawah
		JuzEnd:       0,
	}, groupCapacity)
	if err != nil {
		err = s.translateMemberInsertErr(err)
		return nil, 0, err // Rollback
	}

	// --- 5. Bagi ulang jatah juz ke seluruh member ---
	members, err := s.groupRepo.GetMembersTx(ctx, tx, group.ID)
	if err != nil {
		err = fmt.Errorf("internal server error: could not load members")
		return nil, 0, err // Rollback
	}
	if err = s.redistributeJuzTx(ctx, tx, group.ID, members); err != nil {
		err = fmt.Errorf("internal server error: could not redistribute juz")
		return nil, 0, err // Rollback
	}

	view = s.groupView(group, len(members))

	zlog.Info().Int("group_id", group.ID).Int("user_id", userID).Int("members", len(members)).Msg("User joined khatam group")
	return view, creatorID, nil
}

// GetInviteSummary me-resolve invite token publik menjadi ringkasan grup.
func (s *khatamServiceImpl) GetInviteSummary(ctx context.Context, token string) (*models.GroupInviteSummary, error) {
	group, err := s.groupRepo.GetGroupByInviteToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInviteInvalid
		}
		return nil, fmt.Errorf("internal server error: could not resolve invite")
	}

	memberCount, err := s.groupRepo.CountMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not count members")
	}

	return &models.GroupInviteSummary{
		GroupID:     group.ID,
		Name:        group.Name,
		TargetDate:  group.TargetDate,
		MemberCount: memberCount,
		CreatorID:   group.CreatedByUserID,
	}, nil
}

// checkGroupCompletion menutup grup kalau tidak ada member yang plan-nya
// belum selesai, lalu membagikan badge completion ke seluruh member.
// Best-effort: dipanggil di luar transaksi utama, kegagalan hanya di-log.
func (s *khatamServiceImpl) checkGroupCompletion(ctx context.Context, group *models.KhatamGroup) {
	members, err := s.groupRepo.GetMembers(ctx, group.ID)
	if err != nil {
		zlog.Error().Err(err).Int("group_id", group.ID).Msg("Service: Error loading members for completion check")
		return
	}

	for _, m := range members {
		plan, perr := s.khatamRepo.GetPlanByID(ctx, m.KhatamPlanID)
		if perr != nil {
			zlog.Error().Err(perr).Int("plan_id", m.KhatamPlanID).Msg("Service: Error loading member plan for completion check")
			return
		}
		if plan.Status != models.KhatamStatusCompleted {
			return // masih ada yang belum tuntas
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		zlog.Error().Err(err).Int("group_id", group.ID).Msg("Service: Failed to begin transaction for group completion")
		return
	}
	if err := s.groupRepo.MarkGroupCompletedTx(ctx, tx, group.ID); err != nil {
		_ = tx.Rollback(ctx)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		zlog.Error().Err(err).Int("group_id", group.ID).Msg("Service: Failed to commit group completion")
		return
	}

	now := s.periods.Now()
	onTime := now.Before(group.TargetDate)
	ramadan := utils.IsRamadan(now)
	for _, m := range members {
		s.achievement.Unlock(ctx, m.UserID, AchGroupKhatam)
		s.achievement.Unlock(ctx, m.UserID, AchGroupSolid)
		if onTime {
			s.achievement.Unlock(ctx, m.UserID, AchGroupOnTime)
		}
		if ramadan {
			s.achievement.Unlock(ctx, m.UserID, AchRamadanKhatam)
		}
		s.achievement.CheckUnlockAll(ctx, m.UserID)
	}

	zlog.Info().Int("group_id", group.ID).Int("members", len(members)).Msg("Khatam group completed")
}

// translateMemberInsertErr menerjemahkan error insert member ke error domain.
func (s *khatamServiceImpl) translateMemberInsertErr(err error) error {
	if errors.Is(err, repository.ErrGroupFull) {
		return repository.ErrGroupFull
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "plan") {
			return ErrPlanAlreadyGrouped
		}
		return ErrAlreadyMember
	}
	zlog.Error().Err(err).Msg("Service: Failed to insert group member")
	return fmt.Errorf("internal server error: could not add group member")
}

func (s *khatamServiceImpl) groupView(group *models.KhatamGroup, memberCount int) *models.GroupView {
	return &models.GroupView{
		ID:          group.ID,
		Name:        group.Name,
		TargetDate:  group.TargetDate,
		InviteToken: group.InviteToken,
		InviteCode:  group.InviteCode,
		Status:      group.Status,
		MemberCount: memberCount,
	}
}
