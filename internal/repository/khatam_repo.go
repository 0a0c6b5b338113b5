// internal/repository/khatam_repo.go
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

type khatamRepo struct {
	db *pgxpool.Pool
}

// NewKhatamRepository membuat instance baru KhatamRepository.
func NewKhatamRepository(db *pgxpool.Pool) KhatamRepository {
	return &khatamRepo{db: db}
}

const khatamPlanColumns = `
	id, user_id, khatam_number, start_date, target_date, reading_type,
	status, completed_at, created_at, updated_at`

func scanPlanRow(row pgx.Row, p *models.KhatamPlan) error {
	var readingType sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.UserID, &p.KhatamNumber, &p.StartDate, &p.TargetDate,
		&readingType, &p.Status, &completedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if readingType.Valid {
		p.ReadingType = readingType.String
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return nil
}

// GetActivePlan mengambil plan aktif user. Unique partial index pada
// (user_id) WHERE status = 'active' menjamin maksimal satu baris.
func (r *khatamRepo) GetActivePlan(ctx context.Context, userID int) (*models.KhatamPlan, error) {
	query := `SELECT ` + khatamPlanColumns + `
	          FROM khatam_plans
	          WHERE user_id = $1 AND status = 'active'`

	var p models.KhatamPlan
	err := scanPlanRow(r.db.QueryRow(ctx, query, userID), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("user_id", userID).Msg("Error getting active khatam plan")
		return nil, fmt.Errorf("error getting active plan for user %d: %w", userID, err)
	}
	return &p, nil
}

// GetPlanByID mengambil plan berdasarkan ID.
func (r *khatamRepo) GetPlanByID(ctx context.Context, id int) (*models.KhatamPlan, error) {
	query := `SELECT ` + khatamPlanColumns + ` FROM khatam_plans WHERE id = $1`

	var p models.KhatamPlan
	err := scanPlanRow(r.db.QueryRow(ctx, query, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("plan_id", id).Msg("Error getting khatam plan by ID")
		return nil, fmt.Errorf("error getting plan %d: %w", id, err)
	}
	return &p, nil
}

// UpdatePlan memperbarui field opsional plan. Kepemilikan dicek di WHERE
// supaya user tidak bisa menyentuh plan orang lain.
func (r *khatamRepo) UpdatePlan(ctx context.Context, id int, userID int, targetDate *time.Time, readingType *string) error {
	query := `UPDATE khatam_plans
	          SET target_date = COALESCE($3, target_date),
	              reading_type = COALESCE($4, reading_type),
	              updated_at = NOW()
	          WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID, targetDate, readingType)
	if err != nil {
		zlog.Error().Err(err).Int("plan_id", id).Msg("Error updating khatam plan")
		return fmt.Errorf("error updating plan %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkPlanCompleted: transisi active -> completed. Idempoten; plan yang sudah
// completed tidak tersentuh.
func (r *khatamRepo) MarkPlanCompleted(ctx context.Context, id int, at time.Time) error {
	query := `UPDATE khatam_plans
	          SET status = 'completed', completed_at = $2, updated_at = NOW()
	          WHERE id = $1 AND status = 'active'`

	_, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		zlog.Error().Err(err).Int("plan_id", id).Msg("Error marking khatam plan completed")
		return fmt.Errorf("error completing plan %d: %w", id, err)
	}
	zlog.Info().Int("plan_id", id).Msg("Khatam plan marked completed")
	return nil
}

// RecordProgress mencatat satu ayat terbaca. Duplikat adalah no-op.
func (r *khatamRepo) RecordProgress(ctx context.Context, progress *models.KhatamProgress) error {
	query := `INSERT INTO khatam_progress (khatam_id, surah, ayah_id, juz)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (khatam_id, ayah_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, progress.KhatamID, progress.Surah, progress.AyahID, progress.Juz)
	if err != nil {
		zlog.Error().Err(err).Int("khatam_id", progress.KhatamID).Int("ayah_id", progress.AyahID).Msg("Error recording khatam progress")
		return fmt.Errorf("error recording progress for plan %d: %w", progress.KhatamID, err)
	}
	return nil
}

// CountDistinctJuz menghitung jumlah juz berbeda yang sudah tersentuh.
func (r *khatamRepo) CountDistinctJuz(ctx context.Context, khatamID int) (int, error) {
	query := `SELECT COUNT(DISTINCT juz) FROM khatam_progress WHERE khatam_id = $1`
	var total int
	if err := r.db.QueryRow(ctx, query, khatamID).Scan(&total); err != nil {
		zlog.Error().Err(err).Int("khatam_id", khatamID).Msg("Error counting distinct juz")
		return 0, fmt.Errorf("error counting juz for plan %d: %w", khatamID, err)
	}
	return total, nil
}

// --- Metode Tx untuk Service Layer ---

// NextKhatamNumberTx menghitung nomor khatam berikutnya (MAX+1). Race antar
// request ditangani oleh unique (user_id, khatam_number) + retry di service.
func (r *khatamRepo) NextKhatamNumberTx(ctx context.Context, tx pgx.Tx, userID int) (int, error) {
	query := `SELECT COALESCE(MAX(khatam_number), 0) + 1 FROM khatam_plans WHERE user_id = $1`
	var next int
	if err := tx.QueryRow(ctx, query, userID).Scan(&next); err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("RepoTx: Error getting next khatam number")
		return 0, fmt.Errorf("repoTx error getting next khatam number for user %d: %w", userID, err)
	}
	return next, nil
}

// CreatePlanTx menyimpan plan baru. Error constraint dikembalikan mentah
// supaya service bisa membedakan retry (23505 khatam_number) dari konflik
// plan aktif ganda.
func (r *khatamRepo) CreatePlanTx(ctx context.Context, tx pgx.Tx, plan *models.KhatamPlan) (int, error) {
	query := `INSERT INTO khatam_plans (user_id, khatam_number, start_date, target_date, reading_type, status)
	          VALUES ($1, $2, $3, $4, $5, 'active')
	          RETURNING id`

	var readingType sql.NullString
	if plan.ReadingType != "" {
		readingType = sql.NullString{String: plan.ReadingType, Valid: true}
	}

	var id int
	err := tx.QueryRow(ctx, query, plan.UserID, plan.KhatamNumber, plan.StartDate, plan.TargetDate, readingType).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeletePlanTx menghapus plan beserta catatan bacanya.
func (r *khatamRepo) DeletePlanTx(ctx context.Context, tx pgx.Tx, id int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM khatam_progress WHERE khatam_id = $1`, id); err != nil {
		zlog.Error().Err(err).Int("plan_id", id).Msg("RepoTx: Error deleting khatam progress rows")
		return fmt.Errorf("repoTx error deleting progress for plan %d: %w", id, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM khatam_plans WHERE id = $1`, id)
	if err != nil {
		zlog.Error().Err(err).Int("plan_id", id).Msg("RepoTx: Error deleting khatam plan")
		return fmt.Errorf("repoTx error deleting plan %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	zlog.Info().Int("plan_id", id).Msg("Khatam plan deleted")
	return nil
}
