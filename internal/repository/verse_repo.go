// internal/repository/verse_repo.go
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	zlog "github.com/rs/zerolog/log"
)

type verseRepo struct {
	db *pgxpool.Pool
}

// NewVerseRepository membuat instance baru VerseRepository.
// Tabel surahs adalah data statis content store; repository ini baca-saja.
func NewVerseRepository(db *pgxpool.Pool) VerseRepository {
	return &verseRepo{db: db}
}

// GetVerseCount mengambil jumlah ayat sebuah surah.
func (r *verseRepo) GetVerseCount(ctx context.Context, surah int) (int, error) {
	query := `SELECT verses_count FROM surahs WHERE id = $1`

	var count int
	err := r.db.QueryRow(ctx, query, surah).Scan(&count)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, pgx.ErrNoRows
		}
		zlog.Error().Err(err).Int("surah", surah).Msg("Error getting verse count")
		return 0, fmt.Errorf("error getting verse count for surah %d: %w", surah, err)
	}
	return count, nil
}
