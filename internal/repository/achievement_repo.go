// internal/repository/achievement_repo.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nadzifan/quran-companion-be/internal/models"
	zlog "github.com/rs/zerolog/log"
)

type achievementRepo struct {
	db *pgxpool.Pool
}

// NewAchievementRepository membuat instance baru AchievementRepository.
func NewAchievementRepository(db *pgxpool.Pool) AchievementRepository {
	return &achievementRepo{db: db}
}

// GetAll mengambil seluruh katalog achievement.
func (r *achievementRepo) GetAll(ctx context.Context) ([]models.AchievementMaster, error) {
	query := `SELECT id, title, subtitle, is_meta, created_at FROM achievement_masters ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zlog.Error().Err(err).Msg("Error querying achievement catalog")
		return nil, fmt.Errorf("error getting achievements: %w", err)
	}
	defer rows.Close()

	achievements := []models.AchievementMaster{}
	for rows.Next() {
		var a models.AchievementMaster
		var subtitle sql.NullString
		if scanErr := rows.Scan(&a.ID, &a.Title, &subtitle, &a.IsMeta, &a.CreatedAt); scanErr != nil {
			return achievements, fmt.Errorf("error scanning achievement data: %w", scanErr)
		}
		if subtitle.Valid {
			a.Subtitle = subtitle.String
		}
		achievements = append(achievements, a)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return achievements, fmt.Errorf("error iterating achievement data: %w", rowsErr)
	}
	return achievements, nil
}

// GetAllWithOwnership mengambil katalog + status kepemilikan satu user
// (LEFT JOIN, jadi achievement yang belum dimiliki tetap muncul).
func (r *achievementRepo) GetAllWithOwnership(ctx context.Context, userID int) ([]models.AchievementWithOwnership, error) {
	query := `SELECT a.id, a.title, a.subtitle, a.is_meta, a.created_at,
	                 COALESCE(ua.is_owned, false), ua.owned_at
	          FROM achievement_masters a
	          LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = $1
	          ORDER BY a.id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("Error querying achievements with ownership")
		return nil, fmt.Errorf("error getting achievements for user %d: %w", userID, err)
	}
	defer rows.Close()

	achievements := []models.AchievementWithOwnership{}
	for rows.Next() {
		var a models.AchievementWithOwnership
		var subtitle sql.NullString
		var ownedAt sql.NullTime
		if scanErr := rows.Scan(&a.ID, &a.Title, &subtitle, &a.IsMeta, &a.CreatedAt, &a.IsOwned, &ownedAt); scanErr != nil {
			return achievements, fmt.Errorf("error scanning achievement ownership data: %w", scanErr)
		}
		if subtitle.Valid {
			a.Subtitle = subtitle.String
		}
		if ownedAt.Valid {
			a.OwnedAt = &ownedAt.Time
		}
		achievements = append(achievements, a)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return achievements, fmt.Errorf("error iterating achievement ownership data: %w", rowsErr)
	}
	return achievements, nil
}

// FindByTitleSubtitle mencari achievement berdasarkan pasangan (title, subtitle).
// Pasangan ini adalah kunci lookup saat unlock.
func (r *achievementRepo) FindByTitleSubtitle(ctx context.Context, title, subtitle string) (*models.AchievementMaster, error) {
	query := `SELECT id, title, subtitle, is_meta, created_at
	          FROM achievement_masters
	          WHERE title = $1 AND COALESCE(subtitle, '') = $2`

	var a models.AchievementMaster
	var sub sql.NullString
	err := r.db.QueryRow(ctx, query, title, subtitle).Scan(&a.ID, &a.Title, &sub, &a.IsMeta, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Str("title", title).Msg("Error finding achievement by title")
		return nil, fmt.Errorf("error finding achievement %q: %w", title, err)
	}
	if sub.Valid {
		a.Subtitle = sub.String
	}
	return &a, nil
}

// UpsertOwnership mencatat kepemilikan. Mengembalikan true hanya jika
// baris baru tertulis (unlock pertama kali).
func (r *achievementRepo) UpsertOwnership(ctx context.Context, userID, achievementID int, at time.Time) (bool, error) {
	query := `INSERT INTO user_achievements (user_id, achievement_id, is_owned, owned_at)
	          VALUES ($1, $2, true, $3)
	          ON CONFLICT (user_id, achievement_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, userID, achievementID, at)
	if err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Int("achievement_id", achievementID).Msg("Error upserting achievement ownership")
		return false, fmt.Errorf("error unlocking achievement %d for user %d: %w", achievementID, userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountOwnedNonMeta menghitung achievement non-meta yang dimiliki user.
func (r *achievementRepo) CountOwnedNonMeta(ctx context.Context, userID int) (int, error) {
	query := `SELECT COUNT(*)
	          FROM user_achievements ua
	          JOIN achievement_masters a ON a.id = ua.achievement_id
	          WHERE ua.user_id = $1 AND ua.is_owned = true AND a.is_meta = false`

	var total int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("Error counting owned achievements")
		return 0, fmt.Errorf("error counting owned achievements for user %d: %w", userID, err)
	}
	return total, nil
}

// CountNonMeta menghitung total achievement non-meta di katalog.
func (r *achievementRepo) CountNonMeta(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM achievement_masters WHERE is_meta = false`
	var total int
	if err := r.db.QueryRow(ctx, query).Scan(&total); err != nil {
		zlog.Error().Err(err).Msg("Error counting achievement catalog")
		return 0, fmt.Errorf("error counting achievements: %w", err)
	}
	return total, nil
}
