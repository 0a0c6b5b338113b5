// internal/repository/mission_repo.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nadzifan/quran-companion-be/internal/models"
	zlog "github.com/rs/zerolog/log"
)

type missionRepo struct {
	db *pgxpool.Pool
}

// NewMissionRepository membuat instance baru MissionRepository.
func NewMissionRepository(db *pgxpool.Pool) MissionRepository {
	return &missionRepo{db: db}
}

const missionColumns = `
	id, code, title, description, type, period, target_value, base_reward,
	milestone_rules, is_active, active_from, active_to, created_at, updated_at`

// scanMissionRow scan satu baris misi, termasuk unmarshal milestone_rules (JSONB).
func scanMissionRow(row pgx.Row, m *models.Mission) error {
	var description sql.NullString
	var rulesRaw []byte
	var activeFrom, activeTo sql.NullTime

	err := row.Scan(
		&m.ID, &m.Code, &m.Title, &description, &m.Type, &m.Period,
		&m.TargetValue, &m.BaseReward, &rulesRaw, &m.IsActive,
		&activeFrom, &activeTo, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if description.Valid {
		m.Description = description.String
	}
	if activeFrom.Valid {
		m.ActiveFrom = &activeFrom.Time
	}
	if activeTo.Valid {
		m.ActiveTo = &activeTo.Time
	}
	if len(rulesRaw) > 0 {
		var rules models.MilestoneRules
		if err := json.Unmarshal(rulesRaw, &rules); err != nil {
			return fmt.Errorf("error unmarshaling milestone rules for mission %d: %w", m.ID, err)
		}
		m.MilestoneRules = &rules
	}
	return nil
}

// GetActiveMissions mengambil semua misi aktif pada waktu `at`.
// Misi tanpa window (active_from/active_to NULL) selalu dianggap masuk window.
func (r *missionRepo) GetActiveMissions(ctx context.Context, at time.Time) ([]models.Mission, error) {
	query := `SELECT ` + missionColumns + `
	          FROM missions
	          WHERE is_active = true
	            AND (active_from IS NULL OR active_from <= $1)
	            AND (active_to IS NULL OR active_to >= $1)
	          ORDER BY id`

	rows, err := r.db.Query(ctx, query, at)
	if err != nil {
		zlog.Error().Err(err).Msg("Error querying active missions")
		return nil, fmt.Errorf("error getting active missions: %w", err)
	}
	defer rows.Close()

	missions := []models.Mission{}
	for rows.Next() {
		var m models.Mission
		if scanErr := scanMissionRow(rows, &m); scanErr != nil {
			zlog.Warn().Err(scanErr).Msg("Error scanning mission row")
			return missions, fmt.Errorf("error scanning mission data: %w", scanErr)
		}
		missions = append(missions, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		zlog.Error().Err(rowsErr).Msg("Error iterating mission rows")
		return missions, fmt.Errorf("error iterating mission data: %w", rowsErr)
	}
	return missions, nil
}

// GetMissionByCode mengambil satu misi berdasarkan kode (aktif maupun tidak).
func (r *missionRepo) GetMissionByCode(ctx context.Context, code string) (*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE code = $1`

	var m models.Mission
	err := scanMissionRow(r.db.QueryRow(ctx, query, code), &m)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Str("code", code).Msg("Error getting mission by code")
		return nil, fmt.Errorf("error getting mission %s: %w", code, err)
	}
	return &m, nil
}

// GetMissionsByCodes mengambil misi aktif yang kodenya ada dalam daftar.
// Kode yang tidak dikenal atau misinya nonaktif diabaikan diam-diam.
func (r *missionRepo) GetMissionsByCodes(ctx context.Context, codes []string, at time.Time) ([]models.Mission, error) {
	if len(codes) == 0 {
		return []models.Mission{}, nil
	}

	query := `SELECT ` + missionColumns + `
	          FROM missions
	          WHERE code = ANY($1)
	            AND is_active = true
	            AND (active_from IS NULL OR active_from <= $2)
	            AND (active_to IS NULL OR active_to >= $2)
	          ORDER BY id`

	rows, err := r.db.Query(ctx, query, codes, at)
	if err != nil {
		zlog.Error().Err(err).Strs("codes", codes).Msg("Error querying missions by codes")
		return nil, fmt.Errorf("error getting missions by codes: %w", err)
	}
	defer rows.Close()

	missions := []models.Mission{}
	for rows.Next() {
		var m models.Mission
		if scanErr := scanMissionRow(rows, &m); scanErr != nil {
			return missions, fmt.Errorf("error scanning mission data: %w", scanErr)
		}
		missions = append(missions, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return missions, fmt.Errorf("error iterating mission data: %w", rowsErr)
	}
	return missions, nil
}

// getOrCreatePeriod: upsert idempoten pada unique (mission_id, period_key).
// ON CONFLICT DO UPDATE dengan nilai yang sama dipakai agar RETURNING selalu
// mengembalikan baris, termasuk saat baris sudah ada.
func getOrCreatePeriod(ctx context.Context, q queryRower, missionID int, periodKey string, startsAt, endsAt time.Time) (*models.MissionPeriod, error) {
	query := `INSERT INTO mission_periods (mission_id, period_key, starts_at, ends_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (mission_id, period_key)
	          DO UPDATE SET period_key = EXCLUDED.period_key
	          RETURNING id, mission_id, period_key, starts_at, ends_at, created_at`

	var p models.MissionPeriod
	err := q.QueryRow(ctx, query, missionID, periodKey, startsAt, endsAt).Scan(
		&p.ID, &p.MissionID, &p.PeriodKey, &p.StartsAt, &p.EndsAt, &p.CreatedAt,
	)
	if err != nil {
		zlog.Error().Err(err).Int("mission_id", missionID).Str("period_key", periodKey).Msg("Error upserting mission period")
		return nil, fmt.Errorf("error getting or creating period %s for mission %d: %w", periodKey, missionID, err)
	}
	return &p, nil
}

// queryRower mengabstraksi pgxpool.Pool dan pgx.Tx untuk helper bersama.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *missionRepo) GetOrCreatePeriod(ctx context.Context, missionID int, periodKey string, startsAt, endsAt time.Time) (*models.MissionPeriod, error) {
	return getOrCreatePeriod(ctx, r.db, missionID, periodKey, startsAt, endsAt)
}

func (r *missionRepo) GetOrCreatePeriodTx(ctx context.Context, tx pgx.Tx, missionID int, periodKey string, startsAt, endsAt time.Time) (*models.MissionPeriod, error) {
	return getOrCreatePeriod(ctx, tx, missionID, periodKey, startsAt, endsAt)
}
