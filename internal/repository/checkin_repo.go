// internal/repository/checkin_repo.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nadzifan/quran-companion-be/internal/models"
	zlog "github.com/rs/zerolog/log"
)

type checkinRepo struct {
	db *pgxpool.Pool
}

// NewCheckinRepository membuat instance baru CheckinRepository.
func NewCheckinRepository(db *pgxpool.Pool) CheckinRepository {
	return &checkinRepo{db: db}
}

const checkinColumns = `id, user_id, checkin_date, day_index, streak_count, reward_stars, created_at`

func scanCheckinRow(row pgx.Row, c *models.UserDailyCheckin) error {
	return row.Scan(&c.ID, &c.UserID, &c.CheckinDate, &c.DayIndex, &c.StreakCount, &c.RewardStars, &c.CreatedAt)
}

// GetCheckinByDate mengambil baris check-in user pada tanggal tertentu.
// `date` dibandingkan sebagai tanggal kalender, bukan timestamp.
func (r *checkinRepo) GetCheckinByDate(ctx context.Context, userID int, date time.Time) (*models.UserDailyCheckin, error) {
	query := `SELECT ` + checkinColumns + `
	          FROM user_daily_checkins
	          WHERE user_id = $1 AND checkin_date = $2::date`

	var c models.UserDailyCheckin
	err := scanCheckinRow(r.db.QueryRow(ctx, query, userID, date), &c)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("user_id", userID).Time("date", date).Msg("Error getting checkin by date")
		return nil, fmt.Errorf("error getting checkin for user %d: %w", userID, err)
	}
	return &c, nil
}

// GetLastCheckinBefore mengambil check-in terakhir user sebelum `date`
// (untuk derivasi streak: yang penting tanggal terakhir, bukan semua riwayat).
func (r *checkinRepo) GetLastCheckinBefore(ctx context.Context, userID int, date time.Time) (*models.UserDailyCheckin, error) {
	query := `SELECT ` + checkinColumns + `
	          FROM user_daily_checkins
	          WHERE user_id = $1 AND checkin_date < $2::date
	          ORDER BY checkin_date DESC
	          LIMIT 1`

	var c models.UserDailyCheckin
	err := scanCheckinRow(r.db.QueryRow(ctx, query, userID, date), &c)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("user_id", userID).Msg("Error getting last checkin")
		return nil, fmt.Errorf("error getting last checkin for user %d: %w", userID, err)
	}
	return &c, nil
}

// CountCheckins menghitung total check-in seumur hidup user.
func (r *checkinRepo) CountCheckins(ctx context.Context, userID int) (int, error) {
	query := `SELECT COUNT(*) FROM user_daily_checkins WHERE user_id = $1`
	var total int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("Error counting checkins")
		return 0, fmt.Errorf("error counting checkins for user %d: %w", userID, err)
	}
	return total, nil
}

// --- Metode Tx untuk Service Layer ---

// GetCheckinByDateTx seperti GetCheckinByDate, dalam konteks transaksi.
func (r *checkinRepo) GetCheckinByDateTx(ctx context.Context, tx pgx.Tx, userID int, date time.Time) (*models.UserDailyCheckin, error) {
	query := `SELECT ` + checkinColumns + `
	          FROM user_daily_checkins
	          WHERE user_id = $1 AND checkin_date = $2::date`

	var c models.UserDailyCheckin
	err := scanCheckinRow(tx.QueryRow(ctx, query, userID, date), &c)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("user_id", userID).Time("date", date).Msg("RepoTx: Error getting checkin by date")
		return nil, fmt.Errorf("repoTx error getting checkin for user %d: %w", userID, err)
	}
	return &c, nil
}

// GetLastCheckinBeforeTx seperti GetLastCheckinBefore, dalam konteks transaksi.
func (r *checkinRepo) GetLastCheckinBeforeTx(ctx context.Context, tx pgx.Tx, userID int, date time.Time) (*models.UserDailyCheckin, error) {
	query := `SELECT ` + checkinColumns + `
	          FROM user_daily_checkins
	          WHERE user_id = $1 AND checkin_date < $2::date
	          ORDER BY checkin_date DESC
	          LIMIT 1`

	var c models.UserDailyCheckin
	err := scanCheckinRow(tx.QueryRow(ctx, query, userID, date), &c)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("user_id", userID).Msg("RepoTx: Error getting last checkin")
		return nil, fmt.Errorf("repoTx error getting last checkin for user %d: %w", userID, err)
	}
	return &c, nil
}

// CreateCheckinTx menyimpan baris check-in baru.
// Error 23505 pada unique (user_id, checkin_date) TIDAK diterjemahkan di sini;
// service yang memutuskan itu berarti "sudah check-in hari ini".
func (r *checkinRepo) CreateCheckinTx(ctx context.Context, tx pgx.Tx, checkin *models.UserDailyCheckin) (int, error) {
	query := `INSERT INTO user_daily_checkins (user_id, checkin_date, day_index, streak_count, reward_stars)
	          VALUES ($1, $2::date, $3, $4, $5)
	          RETURNING id`

	var id int
	err := tx.QueryRow(ctx, query,
		checkin.UserID,
		checkin.CheckinDate,
		checkin.DayIndex,
		checkin.StreakCount,
		checkin.RewardStars,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	zlog.Info().Int("user_id", checkin.UserID).Int("day_index", checkin.DayIndex).Int("streak", checkin.StreakCount).Msg("Daily checkin recorded")
	return id, nil
}
