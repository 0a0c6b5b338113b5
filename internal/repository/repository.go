// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nadzifan/quran-companion-be/internal/models"
)

// File ini mendefinisikan **interfaces** untuk Data Access Layer (DAL).
// Interface ini berfungsi sebagai **kontrak** yang menentukan operasi data apa saja
// yang harus bisa dilakukan oleh implementasi repository konkret (misal: *_repo.go).
// Penggunaan interface memungkinkan decoupling (pemisahan) antara lapisan handler/service
// dengan implementasi akses data spesifik (misal: PostgreSQL).

// ====================================================================================
// Mission Repository
// ====================================================================================

// MissionRepository: Kontrak untuk operasi data terkait definisi Misi dan periodenya.
type MissionRepository interface {
	// GetActiveMissions mendapatkan semua misi aktif pada waktu tertentu
	// (is_active = true dan `at` berada dalam window active_from..active_to).
	GetActiveMissions(ctx context.Context, at time.Time) ([]models.Mission, error)

	// GetMissionByCode mencari misi berdasarkan kodenya.
	// Mengembalikan pgx.ErrNoRows jika tidak ditemukan.
	GetMissionByCode(ctx context.Context, code string) (*models.Mission, error)

	// GetMissionsByCodes mendapatkan misi aktif yang kodenya ada dalam daftar.
	// Dipakai saat routing activity event ke misi-misi yang terpengaruh.
	GetMissionsByCodes(ctx context.Context, codes []string, at time.Time) ([]models.Mission, error)

	// GetOrCreatePeriod mendapatkan baris MissionPeriod untuk (missionID, periodKey),
	// membuatnya secara lazy jika belum ada. Aman terhadap insert bersamaan
	// (ON CONFLICT pada unique (mission_id, period_key)).
	GetOrCreatePeriod(ctx context.Context, missionID int, periodKey string, startsAt, endsAt time.Time) (*models.MissionPeriod, error)

	// --- Metode Transaksional ---

	// GetOrCreatePeriodTx seperti GetOrCreatePeriod, dalam konteks transaksi.
	GetOrCreatePeriodTx(ctx context.Context, tx pgx.Tx, missionID int, periodKey string, startsAt, endsAt time.Time) (*models.MissionPeriod, error)
}

// ====================================================================================
// Mission Progress Repository
// ====================================================================================

// MissionProgressRepository: Kontrak untuk operasi data progress misi per user per periode.
type MissionProgressRepository interface {
	// GetProgressByPeriodIDs mendapatkan progress user untuk sekumpulan periode sekaligus.
	// Hasil di-key dengan mission_period_id; periode tanpa progress tidak muncul di map.
	GetProgressByPeriodIDs(ctx context.Context, userID int, periodIDs []int) (map[int]models.UserMissionProgress, error)

	// --- Metode Transaksional ---

	// GetOrCreateProgressTx mendapatkan baris progress, membuatnya (progress 0,
	// status in_progress) jika belum ada, lalu mengembalikan baris terkunci FOR UPDATE.
	GetOrCreateProgressTx(ctx context.Context, tx pgx.Tx, userID, missionPeriodID int) (*models.UserMissionProgress, error)

	// LockProgressTx mengunci baris progress yang sudah ada (FOR UPDATE) tanpa membuat baru.
	// Mengembalikan pgx.ErrNoRows jika baris tidak ada.
	LockProgressTx(ctx context.Context, tx pgx.Tx, userID, missionPeriodID int) (*models.UserMissionProgress, error)

	// UpdateProgressTx memperbarui nilai progress, status, dan last_event_at sebuah baris.
	UpdateProgressTx(ctx context.Context, tx pgx.Tx, id int, progressValue int, status models.ProgressStatus, lastEventAt time.Time) error

	// MarkClaimedTx menandai baris progress menjadi 'claimed'.
	MarkClaimedTx(ctx context.Context, tx pgx.Tx, id int) error
}

// ====================================================================================
// Checkin Repository
// ====================================================================================

// CheckinRepository: Kontrak untuk operasi data check-in harian.
// Baris check-in bersifat immutable; unique (user_id, checkin_date) adalah
// pengaman idempotensi terakhir.
type CheckinRepository interface {
	// GetCheckinByDate mencari baris check-in user pada tanggal tertentu.
	// Mengembalikan pgx.ErrNoRows jika user belum check-in di tanggal itu.
	GetCheckinByDate(ctx context.Context, userID int, date time.Time) (*models.UserDailyCheckin, error)

	// GetLastCheckinBefore mencari check-in terakhir user sebelum tanggal tertentu.
	// Mengembalikan pgx.ErrNoRows jika belum pernah check-in sama sekali.
	GetLastCheckinBefore(ctx context.Context, userID int, date time.Time) (*models.UserDailyCheckin, error)

	// CountCheckins menghitung total check-in seumur hidup user (untuk achievements).
	CountCheckins(ctx context.Context, userID int) (int, error)

	// --- Metode Transaksional ---

	// GetCheckinByDateTx seperti GetCheckinByDate, dalam konteks transaksi.
	GetCheckinByDateTx(ctx context.Context, tx pgx.Tx, userID int, date time.Time) (*models.UserDailyCheckin, error)

	// GetLastCheckinBeforeTx seperti GetLastCheckinBefore, dalam konteks transaksi.
	GetLastCheckinBeforeTx(ctx context.Context, tx pgx.Tx, userID int, date time.Time) (*models.UserDailyCheckin, error)

	// CreateCheckinTx menyimpan baris check-in baru. Pelanggaran unique
	// (user_id, checkin_date) dikembalikan apa adanya agar service bisa
	// menerjemahkannya menjadi "sudah check-in hari ini".
	CreateCheckinTx(ctx context.Context, tx pgx.Tx, checkin *models.UserDailyCheckin) (int, error)
}

// ====================================================================================
// Wallet Repository
// ====================================================================================

// WalletRepository: Kontrak untuk saldo bintang dan Reward Ledger.
// Saldo hanya boleh berubah lewat AddStarsTx supaya ledger dan wallet
// tidak pernah berbeda.
type WalletRepository interface {
	// GetWallet mendapatkan wallet user, membuat baris bersaldo nol secara lazy
	// jika user belum punya wallet.
	GetWallet(ctx context.Context, userID int) (*models.UserWallet, error)

	// GetLedgerByUserID mendapatkan riwayat ledger user (terbaru dulu) dengan paginasi.
	// Mengembalikan slice entry, total jumlah entry, dan error jika ada.
	GetLedgerByUserID(ctx context.Context, userID int, page, limit int) ([]models.RewardLedgerEntry, int, error)

	// --- Metode Transaksional ---

	// AddStarsTx menambahkan delta ke saldo user secara atomik:
	// provisioning baris wallet (upsert nol), kunci baris (FOR UPDATE),
	// hitung saldo baru, update wallet, lalu append satu entry ledger
	// dengan balance_after = saldo baru. Mengembalikan saldo setelah mutasi.
	AddStarsTx(ctx context.Context, tx pgx.Tx, userID int, delta int, source models.RewardSource, sourceRef string, metadata map[string]interface{}) (int, error)
}

// ====================================================================================
// Khatam Repository (plan + progress baca)
// ====================================================================================

// KhatamRepository: Kontrak untuk operasi data plan khatam dan catatan ayat terbaca.
type KhatamRepository interface {
	// GetActivePlan mencari plan berstatus 'active' milik user.
	// Mengembalikan pgx.ErrNoRows jika tidak ada.
	GetActivePlan(ctx context.Context, userID int) (*models.KhatamPlan, error)

	// GetPlanByID mencari plan berdasarkan ID.
	GetPlanByID(ctx context.Context, id int) (*models.KhatamPlan, error)

	// UpdatePlan memperbarui target_date / reading_type sebuah plan milik user.
	// Mengembalikan pgx.ErrNoRows jika plan tidak ada atau bukan milik user.
	UpdatePlan(ctx context.Context, id int, userID int, targetDate *time.Time, readingType *string) error

	// MarkPlanCompleted menandai plan selesai (status completed + completed_at).
	MarkPlanCompleted(ctx context.Context, id int, at time.Time) error

	// RecordProgress mencatat satu ayat terbaca untuk sebuah plan.
	// Duplikat (khatam_id, ayah_id) adalah no-op (ON CONFLICT DO NOTHING).
	RecordProgress(ctx context.Context, progress *models.KhatamProgress) error

	// CountDistinctJuz menghitung jumlah juz berbeda yang sudah tersentuh dalam plan.
	// Nilai ini yang dipakai sebagai "juz terakhir dibaca" dan penggerak completion.
	CountDistinctJuz(ctx context.Context, khatamID int) (int, error)

	// --- Metode Transaksional ---

	// NextKhatamNumberTx menghitung nomor khatam berikutnya untuk user (MAX+1).
	// Dipakai bersama CreatePlanTx dalam loop retry unique constraint.
	NextKhatamNumberTx(ctx context.Context, tx pgx.Tx, userID int) (int, error)

	// CreatePlanTx menyimpan plan baru. Pelanggaran unique
	// (user_id, khatam_number) dikembalikan apa adanya untuk di-retry.
	CreatePlanTx(ctx context.Context, tx pgx.Tx, plan *models.KhatamPlan) (int, error)

	// DeletePlanTx menghapus plan beserta catatan progress bacanya.
	DeletePlanTx(ctx context.Context, tx pgx.Tx, id int) error
}

// ====================================================================================
// Khatam Group Repository
// ====================================================================================

// KhatamGroupRepository: Kontrak untuk operasi data grup khatam dan keanggotaannya.
type KhatamGroupRepository interface {
	// GetGroupByInviteToken mencari grup berdasarkan invite token yang masih berlaku.
	// Mengembalikan pgx.ErrNoRows jika token tidak dikenal atau sudah kedaluwarsa.
	GetGroupByInviteToken(ctx context.Context, token string) (*models.KhatamGroup, error)

	// GetGroupByPlanID mencari grup yang memuat plan tertentu sebagai member.
	// Mengembalikan pgx.ErrNoRows jika plan tidak tergabung di grup mana pun.
	GetGroupByPlanID(ctx context.Context, planID int) (*models.KhatamGroup, error)

	// GetMembers mendapatkan member grup terurut berdasarkan joined_at.
	GetMembers(ctx context.Context, groupID int) ([]models.KhatamGroupMember, error)

	// CountMembers menghitung jumlah member grup.
	CountMembers(ctx context.Context, groupID int) (int, error)

	// --- Metode Transaksional ---

	// CreateGroupTx menyimpan grup baru.
	CreateGroupTx(ctx context.Context, tx pgx.Tx, group *models.KhatamGroup) (int, error)

	// AddMemberTx menambahkan member baru. Insert di-guard kapasitas grup
	// di SQL-nya; jika grup sudah penuh tidak ada baris yang tertulis dan
	// ErrGroupFull dikembalikan. Pelanggaran unique khatam_plan_id
	// dikembalikan apa adanya (plan sudah tergabung di grup lain).
	AddMemberTx(ctx context.Context, tx pgx.Tx, member *models.KhatamGroupMember, capacity int) error

	// GetMembersTx mendapatkan member grup terurut joined_at, terkunci FOR UPDATE
	// (dipakai saat redistribusi jatah juz).
	GetMembersTx(ctx context.Context, tx pgx.Tx, groupID int) ([]models.KhatamGroupMember, error)

	// UpdateMemberRangeTx memperbarui jatah juz seorang member.
	UpdateMemberRangeTx(ctx context.Context, tx pgx.Tx, memberID int, juzStart, juzEnd int) error

	// RemoveMemberByPlanTx menghapus keanggotaan berdasarkan plan.
	// Mengembalikan group_id keanggotaan yang terhapus, atau pgx.ErrNoRows.
	RemoveMemberByPlanTx(ctx context.Context, tx pgx.Tx, planID int) (int, error)

	// MarkGroupCompletedTx menandai grup selesai.
	MarkGroupCompletedTx(ctx context.Context, tx pgx.Tx, groupID int) error
}

// ====================================================================================
// Achievement Repository
// ====================================================================================

// AchievementRepository: Kontrak untuk katalog achievement dan kepemilikan user.
type AchievementRepository interface {
	// GetAll mendapatkan seluruh katalog achievement.
	GetAll(ctx context.Context) ([]models.AchievementMaster, error)

	// GetAllWithOwnership mendapatkan katalog + flag kepemilikan untuk satu user.
	GetAllWithOwnership(ctx context.Context, userID int) ([]models.AchievementWithOwnership, error)

	// FindByTitleSubtitle mencari achievement berdasarkan pasangan (title, subtitle).
	// Mengembalikan pgx.ErrNoRows jika tidak ada di katalog.
	FindByTitleSubtitle(ctx context.Context, title, subtitle string) (*models.AchievementMaster, error)

	// UpsertOwnership mencatat kepemilikan achievement (ON CONFLICT DO NOTHING).
	// Mengembalikan true jika baris baru tertulis, false jika sudah dimiliki.
	UpsertOwnership(ctx context.Context, userID, achievementID int, at time.Time) (bool, error)

	// CountOwnedNonMeta menghitung achievement non-meta yang dimiliki user.
	CountOwnedNonMeta(ctx context.Context, userID int) (int, error)

	// CountNonMeta menghitung total achievement non-meta di katalog.
	CountNonMeta(ctx context.Context) (int, error)
}

// ====================================================================================
// Verse Repository (content store, read-only)
// ====================================================================================

// VerseRepository: Kontrak baca-saja ke content store.
type VerseRepository interface {
	// GetVerseCount mendapatkan jumlah ayat sebuah surah.
	// Mengembalikan pgx.ErrNoRows jika nomor surah tidak dikenal.
	GetVerseCount(ctx context.Context, surah int) (int, error)
}
