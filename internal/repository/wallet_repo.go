// internal/repository/wallet_repo.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nadzifan/quran-companion-be/internal/models"
	zlog "github.com/rs/zerolog/log"
)

type walletRepo struct {
	db *pgxpool.Pool
}

// NewWalletRepository membuat instance baru WalletRepository.
func NewWalletRepository(db *pgxpool.Pool) WalletRepository {
	return &walletRepo{db: db}
}

// GetWallet mengambil wallet user; baris bersaldo nol dibuat secara lazy
// agar pembaca tidak perlu membedakan "belum punya wallet" dan "saldo nol".
func (r *walletRepo) GetWallet(ctx context.Context, userID int) (*models.UserWallet, error) {
	query := `INSERT INTO user_wallets (user_id, stars)
	          VALUES ($1, 0)
	          ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
	          RETURNING user_id, stars, updated_at`

	var w models.UserWallet
	err := r.db.QueryRow(ctx, query, userID).Scan(&w.UserID, &w.Stars, &w.UpdatedAt)
	if err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("Error getting wallet")
		return nil, fmt.Errorf("error getting wallet for user %d: %w", userID, err)
	}
	return &w, nil
}

// GetLedgerByUserID mengambil riwayat ledger user (terbaru dulu, paginated).
func (r *walletRepo) GetLedgerByUserID(ctx context.Context, userID int, page, limit int) ([]models.RewardLedgerEntry, int, error) {
	countQuery := `SELECT COUNT(*) FROM reward_ledger WHERE user_id = $1`
	var totalCount int
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&totalCount); err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("Error counting ledger entries")
		return nil, 0, fmt.Errorf("error counting ledger entries for user %d: %w", userID, err)
	}
	if totalCount == 0 {
		return []models.RewardLedgerEntry{}, 0, nil
	}

	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, user_id, source, source_ref, points_change, balance_after, metadata, created_at
	          FROM reward_ledger
	          WHERE user_id = $1
	          ORDER BY created_at DESC, id DESC
	          LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("Error querying ledger entries")
		return nil, totalCount, fmt.Errorf("error getting ledger entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	entries := []models.RewardLedgerEntry{}
	for rows.Next() {
		var e models.RewardLedgerEntry
		var sourceRef sql.NullString
		var metadataRaw []byte

		scanErr := rows.Scan(&e.ID, &e.UserID, &e.Source, &sourceRef, &e.PointsChange, &e.BalanceAfter, &metadataRaw, &e.CreatedAt)
		if scanErr != nil {
			zlog.Warn().Err(scanErr).Int("user_id", userID).Msg("Error scanning ledger row")
			return entries, totalCount, fmt.Errorf("error scanning ledger data: %w", scanErr)
		}

		if sourceRef.Valid {
			e.SourceRef = sourceRef.String
		}
		if len(metadataRaw) > 0 {
			if err := json.Unmarshal(metadataRaw, &e.Metadata); err != nil {
				return entries, totalCount, fmt.Errorf("error unmarshaling ledger metadata for entry %d: %w", e.ID, err)
			}
		}

		entries = append(entries, e)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		zlog.Error().Err(rowsErr).Int("user_id", userID).Msg("Error iterating ledger rows")
		return entries, totalCount, fmt.Errorf("error iterating ledger data: %w", rowsErr)
	}

	return entries, totalCount, nil
}

// --- Metode Tx untuk Service Layer ---

// AddStarsTx memutasi saldo secara atomik: upsert baris wallet, kunci FOR UPDATE,
// hitung saldo baru, update wallet, append ledger dengan snapshot balance_after.
// Semua entry ledger ditulis lewat jalur ini agar ledger dan wallet tidak
// pernah berbeda.
func (r *walletRepo) AddStarsTx(ctx context.Context, tx pgx.Tx, userID int, delta int, source models.RewardSource, sourceRef string, metadata map[string]interface{}) (int, error) {
	// 1. Provisioning lazy baris wallet (no-op kalau sudah ada)
	provisionQuery := `INSERT INTO user_wallets (user_id, stars) VALUES ($1, 0)
	                   ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.Exec(ctx, provisionQuery, userID); err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("RepoTx: Error provisioning wallet row")
		return 0, fmt.Errorf("repoTx error provisioning wallet for user %d: %w", userID, err)
	}

	// 2. Kunci baris wallet, serialisasi mutasi bersamaan pada user yang sama
	var balance int
	lockQuery := `SELECT stars FROM user_wallets WHERE user_id = $1 FOR UPDATE`
	if err := tx.QueryRow(ctx, lockQuery, userID).Scan(&balance); err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("RepoTx: Error locking wallet row")
		return 0, fmt.Errorf("repoTx error locking wallet for user %d: %w", userID, err)
	}

	newBalance := balance + delta

	// 3. Update saldo ter-cache
	updateQuery := `UPDATE user_wallets SET stars = $2, updated_at = NOW() WHERE user_id = $1`
	if _, err := tx.Exec(ctx, updateQuery, userID, newBalance); err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Msg("RepoTx: Error updating wallet balance")
		return 0, fmt.Errorf("repoTx error updating wallet for user %d: %w", userID, err)
	}

	// 4. Append entry ledger dengan snapshot saldo
	var metadataRaw []byte
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return 0, fmt.Errorf("repoTx error marshaling ledger metadata: %w", err)
		}
		metadataRaw = raw
	}

	var ref sql.NullString
	if sourceRef != "" {
		ref = sql.NullString{String: sourceRef, Valid: true}
	}

	ledgerQuery := `INSERT INTO reward_ledger (user_id, source, source_ref, points_change, balance_after, metadata)
	                VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.Exec(ctx, ledgerQuery, userID, source, ref, delta, newBalance, metadataRaw); err != nil {
		zlog.Error().Err(err).Int("user_id", userID).Str("source", string(source)).Msg("RepoTx: Error appending ledger entry")
		return 0, fmt.Errorf("repoTx error appending ledger entry for user %d: %w", userID, err)
	}

	zlog.Info().Int("user_id", userID).Int("delta", delta).Int("balance_after", newBalance).Str("source", string(source)).Msg("Stars added to wallet")
	return newBalance, nil
}
