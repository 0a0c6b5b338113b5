// internal/repository/mission_progress_repo.go
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

type missionProgressRepo struct {
	db *pgxpool.Pool
}

// NewMissionProgressRepository membuat instance baru MissionProgressRepository.
func NewMissionProgressRepository(db *pgxpool.Pool) MissionProgressRepository {
	return &missionProgressRepo{db: db}
}

const progressColumns = `
	id, user_id, mission_period_id, progress_value, status, last_event_at, created_at, updated_at`

func scanProgressRow(row pgx.Row, p *models.UserMissionProgress) error {
	var lastEventAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.UserID, &p.MissionPeriodID, &p.ProgressValue, &p.Status,
		&lastEventAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if lastEventAt.Valid {
		p.LastEventAt = &lastEventAt.Time
	}
	return nil
}

// GetProgressByPeriodIDs mengambil progress user untuk banyak periode sekaligus
// (dipakai saat menyusun mission board, satu query untuk semua section).
func (r *missionProgressRepo) GetProgressByPeriodIDs(ctx context.Context, userID int, periodIDs []int) (map[int]models.UserMissionProgress, error) {
	result := map[int]models.UserMissionProgress{}
	if len(periodIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + progressColumns + `
	          FROM user_mission_progress
	          WHERE user_id = $1 AND mission_period_id = ANY($2)`

	rows, err := r.db.Query(ctx, query, userID, periodIDs)
	if err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("Error querying progress by period IDs")
		return nil, fmt.Errorf("error getting progress rows for user %d: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.UserMissionProgress
		if scanErr := scanProgressRow(rows, &p); scanErr != nil {
			return result, fmt.Errorf("error scanning progress data: %w", scanErr)
		}
		result[p.MissionPeriodID] = p
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return result, fmt.Errorf("error iterating progress data: %w", rowsErr)
	}
	return result, nil
}

// --- Metode Tx untuk Service Layer ---

// GetOrCreateProgressTx: insert idempoten lalu ambil baris terkunci.
// Insert dan lock dipisah supaya baris yang sudah ada tetap ter-lock FOR UPDATE.
func (r *missionProgressRepo) GetOrCreateProgressTx(ctx context.Context, tx pgx.Tx, userID, missionPeriodID int) (*models.UserMissionProgress, error) {
	insertQuery := `INSERT INTO user_mission_progress (user_id, mission_period_id, progress_value, status)
	                VALUES ($1, $2, 0, 'in_progress')
	                ON CONFLICT (user_id, mission_period_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insertQuery, userID, missionPeriodID); err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Int("mission_period_id", missionPeriodID).Msg("RepoTx: Error provisioning progress row")
		return nil, fmt.Errorf("repoTx error provisioning progress for user %d period %d: %w", userID, missionPeriodID, err)
	}

	return r.LockProgressTx(ctx, tx, userID, missionPeriodID)
}

// LockProgressTx mengambil baris progress dengan FOR UPDATE.
func (r *missionProgressRepo) LockProgressTx(ctx context.Context, tx pgx.Tx, userID, missionPeriodID int) (*models.UserMissionProgress, error) {
	query := `SELECT ` + progressColumns + `
	          FROM user_mission_progress
	          WHERE user_id = $1 AND mission_period_id = $2
	          FOR UPDATE`

	var p models.UserMissionProgress
	err := scanProgressRow(tx.QueryRow(ctx, query, userID, missionPeriodID), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("user_id", userID).Int("mission_period_id", missionPeriodID).Msg("RepoTx: Error locking progress row")
		return nil, fmt.Errorf("repoTx error locking progress for user %d period %d: %w", userID, missionPeriodID, err)
	}
	return &p, nil
}

// UpdateProgressTx menulis nilai progress dan status baru.
func (r *missionProgressRepo) UpdateProgressTx(ctx context.Context, tx pgx.Tx, id int, progressValue int, status models.ProgressStatus, lastEventAt time.Time) error {
	query := `UPDATE user_mission_progress
	          SET progress_value = $2, status = $3, last_event_at = $4, updated_at = NOW()
	          WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, progressValue, status, lastEventAt)
	if err != nil {
		zlog.Error().Err(err).Int("progress_id", id).Msg("RepoTx: Error updating progress row")
		return fmt.Errorf("repoTx error updating progress %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkClaimedTx menandai progress menjadi claimed. Transisi status dijaga
// di query-nya: hanya baris 'completed' yang bisa berpindah.
func (r *missionProgressRepo) MarkClaimedTx(ctx context.Context, tx pgx.Tx, id int) error {
	query := `UPDATE user_mission_progress
	          SET status = 'claimed', updated_at = NOW()
	          WHERE id = $1 AND status = 'completed'`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		zlog.Error().Err(err).Int("progress_id", id).Msg("RepoTx: Error marking progress claimed")
		return fmt.Errorf("repoTx error claiming progress %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
