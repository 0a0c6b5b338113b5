// internal/database/redis.go
package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

// NewRedisClient membuat dan memverifikasi koneksi klien Redis.
// Redis dipakai sebagai gate idempotency untuk endpoint mutasi
// (check-in, event aktivitas, klaim misi).
//
// Konfigurasi dibaca dari environment variables:
//   - REDIS_ADDR     (wajib, misal "localhost:6379")
//   - REDIS_PASSWORD (opsional)
//   - REDIS_DB       (opsional, default 0)
func NewRedisClient() (*redis.Client, error) {
	zlog.Info().Msg("Initializing Redis client...")

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		zlog.Error().Msg("REDIS_ADDR environment variable is not set.")
		return nil, fmt.Errorf("missing required redis configuration environment variable REDIS_ADDR")
	}

	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		parsed, err := strconv.Atoi(dbStr)
		if err != nil {
			zlog.Error().Err(err).Str("redis_db", dbStr).Msg("Invalid REDIS_DB value")
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		db = parsed
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	// Verifikasi koneksi awal dengan ping ber-timeout.
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		zlog.Error().Err(err).Str("addr", addr).Msg("Redis ping failed. Closing unusable client.")
		_ = client.Close()
		return nil, fmt.Errorf("unable to ping redis at %s: %w", addr, err)
	}

	zlog.Info().Str("addr", addr).Int("db", db).Msg("Successfully connected to Redis!")
	return client, nil
}
