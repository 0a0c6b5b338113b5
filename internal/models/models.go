package models

import (
	"time"
)

// ====================================================================================
// Mission & Progress
// ====================================================================================

type MissionType string

const (
	MissionTypeCheckin MissionType = "checkin"
	MissionTypeCounter MissionType = "counter"
	MissionTypeBoolean MissionType = "boolean"
)

type MissionPeriodType string

const (
	MissionPeriodDaily  MissionPeriodType = "daily"
	MissionPeriodWeekly MissionPeriodType = "weekly"
	MissionPeriodEvent  MissionPeriodType = "event"
)

// MilestoneRules adalah aturan tambahan misi (disimpan sebagai JSONB).
// DailyRewards di-key dengan day index dalam bentuk string ("1".."28")
// karena JSON object key selalu string.
type MilestoneRules struct {
	CycleLength   int            `json:"cycle_length,omitempty"`
	DailyRewards  map[string]int `json:"daily_rewards,omitempty"`
	MilestoneDays []int          `json:"milestone_days,omitempty"`
}

type Mission struct {
	ID             int               `json:"id"`
	Code           string            `json:"code" validate:"required"`
	Title          string            `json:"title" validate:"required,min=3,max=100"`
	Description    string            `json:"description,omitempty"`
	Type           MissionType       `json:"type" validate:"required,oneof=checkin counter boolean"`
	Period         MissionPeriodType `json:"period" validate:"required,oneof=daily weekly event"`
	TargetValue    int               `json:"target_value" validate:"required,gt=0"`
	BaseReward     int               `json:"base_reward" validate:"gte=0"`
	MilestoneRules *MilestoneRules   `json:"milestone_rules,omitempty"`
	IsActive       bool              `json:"is_active"`
	ActiveFrom     *time.Time        `json:"active_from,omitempty"`
	ActiveTo       *time.Time        `json:"active_to,omitempty"`
	CreatedAt      time.Time         `json:"created_at,omitzero"`
	UpdatedAt      time.Time         `json:"updated_at,omitzero"`
}

// MissionPeriod adalah satu kemunculan konkret dari periode misi
// (misal: misi mingguan untuk ISO week 2025-W38). Unik per (mission_id, period_key).
type MissionPeriod struct {
	ID        int       `json:"id"`
	MissionID int       `json:"mission_id"`
	PeriodKey string    `json:"period_key"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type ProgressStatus string

const (
	ProgressStatusInProgress ProgressStatus = "in_progress"
	ProgressStatusCompleted  ProgressStatus = "completed"
	ProgressStatusClaimed    ProgressStatus = "claimed"
)

// UserMissionProgress unik per (user_id, mission_period_id).
// Status hanya bergerak maju: in_progress -> completed -> claimed.
type UserMissionProgress struct {
	ID              int            `json:"id"`
	UserID          int            `json:"user_id"`
	MissionPeriodID int            `json:"mission_period_id"`
	ProgressValue   int            `json:"progress_value"`
	Status          ProgressStatus `json:"status"`
	LastEventAt     *time.Time     `json:"last_event_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at,omitzero"`
	UpdatedAt       time.Time      `json:"updated_at,omitzero"`
}

// ====================================================================================
// Check-in
// ====================================================================================

// UserDailyCheckin dibuat tepat satu kali per (user_id, checkin_date),
// immutable setelah insert.
type UserDailyCheckin struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	CheckinDate time.Time `json:"checkin_date"`
	DayIndex    int       `json:"day_index"`
	StreakCount int       `json:"streak_count"`
	RewardStars int       `json:"reward_stars"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// ====================================================================================
// Wallet & Reward Ledger
// ====================================================================================

type RewardSource string

const (
	RewardSourceCheckin      RewardSource = "checkin"
	RewardSourceMissionClaim RewardSource = "mission_claim"
	RewardSourceConvert      RewardSource = "convert"
	RewardSourceTopup        RewardSource = "topup"
	RewardSourceAdS2S        RewardSource = "ad_s2s"
)

// UserWallet menyimpan saldo bintang ter-cache; hanya dimutasi oleh Reward Ledger
// di bawah row lock.
type UserWallet struct {
	UserID    int       `json:"user_id"`
	Stars     int       `json:"stars"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// RewardLedgerEntry bersifat append-only; balance_after adalah snapshot saldo
// wallet tepat setelah entry ini.
type RewardLedgerEntry struct {
	ID           int                    `json:"id"`
	UserID       int                    `json:"user_id"`
	Source       RewardSource           `json:"source"`
	SourceRef    string                 `json:"source_ref,omitempty"`
	PointsChange int                    `json:"points_change"`
	BalanceAfter int                    `json:"balance_after"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at,omitzero"`
}

// ====================================================================================
// Khatam (plan, progress, group)
// ====================================================================================

type KhatamStatus string

const (
	KhatamStatusActive    KhatamStatus = "active"
	KhatamStatusCompleted KhatamStatus = "completed"
)

// KhatamPlan: satu percobaan khatam (menamatkan 30 juz) milik satu user.
// Maksimal satu plan 'active' per user.
type KhatamPlan struct {
	ID           int          `json:"id"`
	UserID       int          `json:"user_id"`
	KhatamNumber int          `json:"khatam_number"`
	StartDate    time.Time    `json:"start_date"`
	TargetDate   time.Time    `json:"target_date"`
	ReadingType  string       `json:"reading_type,omitempty"`
	Status       KhatamStatus `json:"status"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at,omitzero"`
	UpdatedAt    time.Time    `json:"updated_at,omitzero"`
}

// KhatamProgress mencatat ayat/juz yang sudah dibaca dalam sebuah plan.
// Unik per (khatam_id, ayah_id); insert duplikat adalah no-op.
type KhatamProgress struct {
	ID        int       `json:"id"`
	KhatamID  int       `json:"khatam_id"`
	Surah     int       `json:"surah"`
	AyahID    int       `json:"ayah_id"`
	Juz       int       `json:"juz"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type KhatamGroup struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	CreatedByUserID int          `json:"created_by_user_id"`
	TargetDate      time.Time    `json:"target_date"`
	InviteToken     string       `json:"invite_token,omitempty"`
	InviteCode      string       `json:"invite_code,omitempty"`
	InviteExpiresAt time.Time    `json:"invite_expires_at"`
	Status          KhatamStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at,omitzero"`
	UpdatedAt       time.Time    `json:"updated_at,omitzero"`
}

type GroupRole string

const (
	GroupRoleCreator GroupRole = "creator"
	GroupRoleMember  GroupRole = "member"
)

// KhatamGroupMember: unik per (group_id, user_id) dan per (khatam_plan_id),
// jadi satu plan hanya boleh tergabung di satu grup. Rentang juz semua member
// mempartisi 1..30 tanpa celah/tumpang tindih.
type KhatamGroupMember struct {
	ID           int         `json:"id"`
	GroupID      int         `json:"group_id"`
	UserID       int         `json:"user_id"`
	KhatamPlanID int         `json:"khatam_plan_id"`
	Role         GroupRole   `json:"role"`
	JuzStart     int         `json:"juz_start"`
	JuzEnd       int         `json:"juz_end"`
	JoinedAt     time.Time   `json:"joined_at,omitzero"`
	Plan         *KhatamPlan `json:"plan,omitempty"`
}

// ====================================================================================
// Achievements
// ====================================================================================

// AchievementMaster adalah katalog statis; pair (title, subtitle) dipakai
// sebagai kunci lookup saat unlock. IsMeta menandai badge "own everything"
// yang tidak ikut dihitung dalam pengecekan unlock-all.
type AchievementMaster struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	IsMeta    bool      `json:"is_meta,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// UserAchievement: unik per (user_id, achievement_id); unlock bersifat monoton.
type UserAchievement struct {
	ID            int        `json:"id"`
	UserID        int        `json:"user_id"`
	AchievementID int        `json:"achievement_id"`
	IsOwned       bool       `json:"is_owned"`
	OwnedAt       *time.Time `json:"owned_at,omitempty"`
}

// AchievementWithOwnership untuk response katalog + flag kepemilikan user.
type AchievementWithOwnership struct {
	AchievementMaster
	IsOwned bool       `json:"is_owned"`
	OwnedAt *time.Time `json:"owned_at,omitempty"`
}

// ====================================================================================
// Content store (read-only collaborator)
// ====================================================================================

// Surah hanya dibaca untuk validasi rentang ayat (verses_count).
type Surah struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	VersesCount int    `json:"verses_count"`
}

// ====================================================================================
// Activity events
// ====================================================================================

type EventCode string

const (
	EventQuranRead   EventCode = "quran_read"
	EventAudioListen EventCode = "audio_listen"
	EventVideoWatch  EventCode = "video_watch"
	EventAdRewarded  EventCode = "ad_rewarded"
)

// SubmitEventInput adalah body untuk POST /missions/events.
// Field payload yang relevan tergantung Code.
type SubmitEventInput struct {
	Code      string `json:"code" validate:"required,oneof=quran_read audio_listen video_watch ad_rewarded"`
	Surah     int    `json:"surah,omitempty" validate:"omitempty,gte=1,lte=114"`
	AyahStart int    `json:"ayah_start,omitempty" validate:"omitempty,gt=0"`
	AyahEnd   int    `json:"ayah_end,omitempty" validate:"omitempty,gt=0"`
	Seconds   int    `json:"seconds,omitempty" validate:"omitempty,gte=0"`
	Completed bool   `json:"completed,omitempty"`
}

// EventApplication adalah hasil per-misi dari satu event yang di-apply.
type EventApplication struct {
	MissionID      int            `json:"mission_id"`
	MissionCode    string         `json:"mission_code"`
	ProgressBefore int            `json:"progress_before"`
	ProgressAfter  int            `json:"progress_after"`
	Status         ProgressStatus `json:"status"`
}

// ====================================================================================
// Check-in & claim results
// ====================================================================================

type CheckinStatus struct {
	Claimable   bool `json:"claimable"`
	DayIndex    int  `json:"day_index"`
	Streak      int  `json:"streak"`
	RewardToday int  `json:"reward_today"`
}

type CheckinResult struct {
	Already   bool `json:"already"`
	DayIndex  int  `json:"day_index"`
	Streak    int  `json:"streak"`
	Reward    int  `json:"reward"`
	Milestone bool `json:"milestone"`
	Wallet    int  `json:"wallet"`
}

type ClaimResult struct {
	AlreadyClaimed bool `json:"already_claimed"`
	MissionID      int  `json:"mission_id,omitempty"`
	Reward         int  `json:"reward,omitempty"`
	Wallet         int  `json:"wallet,omitempty"`
}

// MissionWithProgress menggabungkan definisi misi dengan progress user
// pada periode berjalan (nil jika belum ada event).
type MissionWithProgress struct {
	Mission  Mission              `json:"mission"`
	Progress *UserMissionProgress `json:"progress,omitempty"`
}

// MissionBoard adalah response GET /missions: grid check-in + section misi + saldo.
type MissionBoard struct {
	Checkin CheckinStatus         `json:"checkin"`
	Daily   []MissionWithProgress `json:"daily"`
	Weekly  []MissionWithProgress `json:"weekly"`
	Special []MissionWithProgress `json:"special"`
	Wallet  int                   `json:"wallet"`
}

// ====================================================================================
// Khatam inputs & views
// ====================================================================================

type CreatePlanInput struct {
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	TargetDate  string `json:"target_date" validate:"required,datetime=2006-01-02"`
	ReadingType string `json:"reading_type,omitempty" validate:"omitempty,max=50"`
}

type UpdatePlanInput struct {
	TargetDate  string `json:"target_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReadingType string `json:"reading_type,omitempty" validate:"omitempty,max=50"`
}

type RecordProgressInput struct {
	Surah  int `json:"surah" validate:"required,gte=1,lte=114"`
	AyahID int `json:"ayah_id" validate:"required,gt=0"`
	Juz    int `json:"juz" validate:"required,gte=1,lte=30"`
}

type CreateGroupInput struct {
	Name       string `json:"name" validate:"required,min=3,max=100"`
	TargetDate string `json:"target_date" validate:"required,datetime=2006-01-02"`
}

type JoinGroupInput struct {
	InviteToken  string `json:"invite_token" validate:"required"`
	KhatamPlanID int    `json:"khatam_plan_id,omitempty" validate:"omitempty,gt=0"`
}

// ActivePlanView: plan aktif user + agregasi progress; Group/Members terisi
// jika plan tergabung dalam grup.
type ActivePlanView struct {
	Plan    *KhatamPlan       `json:"plan,omitempty"`
	LastJuz int               `json:"last_juz"`
	Group   *GroupView        `json:"group,omitempty"`
	Members []GroupMemberView `json:"members,omitempty"`
}

type GroupView struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	TargetDate  time.Time    `json:"target_date"`
	InviteToken string       `json:"invite_token,omitempty"`
	InviteCode  string       `json:"invite_code,omitempty"`
	Status      KhatamStatus `json:"status"`
	MemberCount int          `json:"member_count"`
}

type GroupMemberView struct {
	UserID   int       `json:"user_id"`
	Role     GroupRole `json:"role"`
	JuzStart int       `json:"juz_start"`
	JuzEnd   int       `json:"juz_end"`
	JuzRead  int       `json:"juz_read"`
	Done     bool      `json:"done"`
}

// GroupInviteSummary untuk lookup publik berdasarkan invite token.
type GroupInviteSummary struct {
	GroupID     int       `json:"group_id"`
	Name        string    `json:"name"`
	TargetDate  time.Time `json:"target_date"`
	MemberCount int       `json:"member_count"`
	CreatorID   int       `json:"creator_id"`
}

// ====================================================================================
// Response standar API
// ====================================================================================

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
