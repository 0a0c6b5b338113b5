// internal/repository/khatam_group_repo.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nadzifan/quran-companion-be/internal/models"
	zlog "github.com/rs/zerolog/log"
)

// ErrGroupFull dikembalikan AddMemberTx ketika guard kapasitas di SQL menolak insert.
var ErrGroupFull = errors.New("khatam group is already full")

type khatamGroupRepo struct {
	db *pgxpool.Pool
}

// NewKhatamGroupRepository membuat instance baru KhatamGroupRepository.
func NewKhatamGroupRepository(db *pgxpool.Pool) KhatamGroupRepository {
	return &khatamGroupRepo{db: db}
}

const khatamGroupColumns = `
	id, name, created_by_user_id, target_date, invite_token, invite_code,
	invite_expires_at, status, created_at, updated_at`

func scanGroupRow(row pgx.Row, g *models.KhatamGroup) error {
	return row.Scan(
		&g.ID, &g.Name, &g.CreatedByUserID, &g.TargetDate, &g.InviteToken,
		&g.InviteCode, &g.InviteExpiresAt, &g.Status, &g.CreatedAt, &g.UpdatedAt,
	)
}

// GetGroupByInviteToken mengambil grup dengan invite token yang masih berlaku.
// Token kedaluwarsa diperlakukan sama dengan token tak dikenal.
func (r *khatamGroupRepo) GetGroupByInviteToken(ctx context.Context, token string) (*models.KhatamGroup, error) {
	query := `SELECT ` + khatamGroupColumns + `
	          FROM khatam_groups
	          WHERE invite_token = $1 AND invite_expires_at > NOW()`

	var g models.KhatamGroup
	err := scanGroupRow(r.db.QueryRow(ctx, query, token), &g)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Msg("Error getting khatam group by invite token")
		return nil, fmt.Errorf("error getting group by invite token: %w", err)
	}
	return &g, nil
}

// GetGroupByPlanID mengambil grup yang memuat plan tertentu.
func (r *khatamGroupRepo) GetGroupByPlanID(ctx context.Context, planID int) (*models.KhatamGroup, error) {
	query := `SELECT g.id, g.name, g.created_by_user_id, g.target_date, g.invite_token,
	                 g.invite_code, g.invite_expires_at, g.status, g.created_at, g.updated_at
	          FROM khatam_groups g
	          JOIN khatam_group_members m ON m.group_id = g.id
	          WHERE m.khatam_plan_id = $1`

	var g models.KhatamGroup
	err := scanGroupRow(r.db.QueryRow(ctx, query, planID), &g)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("plan_id", planID).Msg("Error getting khatam group by plan ID")
		return nil, fmt.Errorf("error getting group for plan %d: %w", planID, err)
	}
	return &g, nil
}

const memberColumns = `id, group_id, user_id, khatam_plan_id, role, juz_start, juz_end, joined_at`

func scanMemberRows(rows pgx.Rows) ([]models.KhatamGroupMember, error) {
	members := []models.KhatamGroupMember{}
	for rows.Next() {
		var m models.KhatamGroupMember
		err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.KhatamPlanID, &m.Role, &m.JuzStart, &m.JuzEnd, &m.JoinedAt)
		if err != nil {
			return members, fmt.Errorf("error scanning group member data: %w", err)
		}
		members = append(members, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return members, fmt.Errorf("error iterating group member data: %w", rowsErr)
	}
	return members, nil
}

// GetMembers mengambil member grup terurut joined_at (urutan join dipakai
// saat distribusi jatah juz).
func (r *khatamGroupRepo) GetMembers(ctx context.Context, groupID int) ([]models.KhatamGroupMember, error) {
	query := `SELECT ` + memberColumns + `
	          FROM khatam_group_members
	          WHERE group_id = $1
	          ORDER BY joined_at, id`

	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		zlog.Error().Err(err).Int("group_id", groupID).Msg("Error querying group members")
		return nil, fmt.Errorf("error getting members of group %d: %w", groupID, err)
	}
	defer rows.Close()

	return scanMemberRows(rows)
}

// CountMembers menghitung jumlah member grup.
func (r *khatamGroupRepo) CountMembers(ctx context.Context, groupID int) (int, error) {
	query := `SELECT COUNT(*) FROM khatam_group_members WHERE group_id = $1`
	var total int
	if err := r.db.QueryRow(ctx, query, groupID).Scan(&total); err != nil {
		zlog.Error().Err(err).Int("group_id", groupID).Msg("Error counting group members")
		return 0, fmt.Errorf("error counting members of group %d: %w", groupID, err)
	}
	return total, nil
}

// --- Metode Tx untuk Service Layer ---

// CreateGroupTx menyimpan grup baru.
func (r *khatamGroupRepo) CreateGroupTx(ctx context.Context, tx pgx.Tx, group *models.KhatamGroup) (int, error) {
	query := `INSERT INTO khatam_groups (name, created_by_user_id, target_date, invite_token, invite_code, invite_expires_at, status)
	          VALUES ($1, $2, $3, $4, $5, $6, 'active')
	          RETURNING id`

	var id int
	err := tx.QueryRow(ctx, query,
		group.Name,
		group.CreatedByUserID,
		group.TargetDate,
		group.InviteToken,
		group.InviteCode,
		group.InviteExpiresAt,
	).Scan(&id)
	if err != nil {
		zlog.Error().Err(err).Str("name", group.Name).Msg("RepoTx: Error creating khatam group")
		return 0, fmt.Errorf("repoTx error creating group: %w", err)
	}

	zlog.Info().Int("group_id", id).Int("creator_id", group.CreatedByUserID).Msg("Khatam group created")
	return id, nil
}

// AddMemberTx menambahkan member. Kapasitas dicek di subquery insert-nya:
// kalau grup sudah penuh tidak ada baris tertulis dan ErrGroupFull dikembalikan.
// Pelanggaran unique khatam_plan_id (23505) dikembalikan mentah untuk
// diterjemahkan service menjadi "plan sudah tergabung di grup lain".
func (r *khatamGroupRepo) AddMemberTx(ctx context.Context, tx pgx.Tx, member *models.KhatamGroupMember, capacity int) error {
	query := `INSERT INTO khatam_group_members (group_id, user_id, khatam_plan_id, role, juz_start, juz_end)
	          SELECT $1, $2, $3, $4, $5, $6
	          WHERE (SELECT COUNT(*) FROM khatam_group_members WHERE group_id = $1) < $7`

	tag, err := tx.Exec(ctx, query,
		member.GroupID,
		member.UserID,
		member.KhatamPlanID,
		member.Role,
		member.JuzStart,
		member.JuzEnd,
		capacity,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGroupFull
	}

	zlog.Info().Int("group_id", member.GroupID).Int("user_id", member.UserID).Msg("Member added to khatam group")
	return nil
}

// GetMembersTx mengambil member grup terkunci FOR UPDATE, urutan joined_at.
func (r *khatamGroupRepo) GetMembersTx(ctx context.Context, tx pgx.Tx, groupID int) ([]models.KhatamGroupMember, error) {
	query := `SELECT ` + memberColumns + `
	          FROM khatam_group_members
	          WHERE group_id = $1
	          ORDER BY joined_at, id
	          FOR UPDATE`

	rows, err := tx.Query(ctx, query, groupID)
	if err != nil {
		zlog.Error().Err(err).Int("group_id", groupID).Msg("RepoTx: Error locking group members")
		return nil, fmt.Errorf("repoTx error locking members of group %d: %w", groupID, err)
	}
	defer rows.Close()

	return scanMemberRows(rows)
}

// UpdateMemberRangeTx memperbarui jatah juz seorang member.
func (r *khatamGroupRepo) UpdateMemberRangeTx(ctx context.Context, tx pgx.Tx, memberID int, juzStart, juzEnd int) error {
	query := `UPDATE khatam_group_members SET juz_start = $2, juz_end = $3 WHERE id = $1`

	tag, err := tx.Exec(ctx, query, memberID, juzStart, juzEnd)
	if err != nil {
		zlog.Error().Err(err).Int("member_id", memberID).Msg("RepoTx: Error updating member juz range")
		return fmt.Errorf("repoTx error updating range for member %d: %w", memberID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// RemoveMemberByPlanTx menghapus keanggotaan sebuah plan dan mengembalikan
// group_id-nya (untuk lanjut redistribusi / cek grup kosong).
func (r *khatamGroupRepo) RemoveMemberByPlanTx(ctx context.Context, tx pgx.Tx, planID int) (int, error) {
	query := `DELETE FROM khatam_group_members WHERE khatam_plan_id = $1 RETURNING group_id`

	var groupID int
	err := tx.QueryRow(ctx, query, planID).Scan(&groupID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("plan_id", planID).Msg("RepoTx: Error removing group membership")
		return 0, fmt.Errorf("repoTx error removing membership for plan %d: %w", planID, err)
	}
	return groupID, nil
}

// MarkGroupCompletedTx menandai grup selesai.
func (r *khatamGroupRepo) MarkGroupCompletedTx(ctx context.Context, tx pgx.Tx, groupID int) error {
	query := `UPDATE khatam_groups
	          SET status = 'completed', updated_at = NOW()
	          WHERE id = $1 AND status = 'active'`

	if _, err := tx.Exec(ctx, query, groupID); err != nil {
		zlog.Error().Err(err).Int("group_id", groupID).Msg("RepoTx: Error marking group completed")
		return fmt.Errorf("repoTx error completing group %d: %w", groupID, err)
	}

	zlog.Info().Int("group_id", groupID).Msg("Khatam group marked completed")
	return nil
}
