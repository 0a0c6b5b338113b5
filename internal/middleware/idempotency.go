// internal/middleware/idempotency.go
package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/utils"
	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

// HeaderIdempotencyKey adalah header yang dikirim klien untuk menandai request
// mutasi yang boleh di-retry dengan aman.
const HeaderIdempotencyKey = "Idempotency-Key"

// Idempotency menggagalkan request duplikat dengan gate SET NX di Redis.
// Kunci gate di-scope per user + route + Idempotency-Key, jadi retry klien
// (network flaky, double tap) tidak menghasilkan mutasi ganda. Request tanpa
// header diteruskan begitu saja; lapisan service tetap punya guard uniqueness
// sendiri di database.
//
// WAJIB dipasang setelah Protected() supaya claims user sudah ada di Locals.
func Idempotency(rdb *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			return c.Next()
		}

		claims, ok := c.Locals("user").(*utils.JwtClaims)
		if !ok {
			zlog.Error().Str("path", c.Path()).Msg("Idempotency middleware ran without authenticated user. Ensure Protected middleware runs first.")
			return c.Status(fiber.StatusUnauthorized).JSON(models.Response{
				Success: false, Message: "Unauthorized: Missing token",
			})
		}

		gateKey := fmt.Sprintf("idem:%d:%s:%s:%s", claims.UserID, c.Method(), c.Path(), key)

		// SET NX: hanya request pertama yang mendapat gate.
		acquired, err := rdb.SetNX(c.Context(), gateKey, 1, ttl).Result()
		if err != nil {
			// Redis down tidak boleh memblokir mutasi; guard database tetap jalan.
			zlog.Warn().Err(err).Str("gate_key", gateKey).Msg("Idempotency gate unavailable, letting request through")
			return c.Next()
		}
		if !acquired {
			zlog.Info().Int("user_id", claims.UserID).Str("path", c.Path()).Str("idempotency_key", key).Msg("Duplicate request blocked by idempotency gate")
			return c.Status(fiber.StatusConflict).JSON(models.Response{
				Success: false, Message: "Duplicate request: this operation was already processed",
			})
		}

		err = c.Next()
		if err != nil {
			// Request gagal: lepaskan gate supaya retry klien tidak tertolak.
			if delErr := rdb.Del(c.Context(), gateKey).Err(); delErr != nil {
				zlog.Warn().Err(delErr).Str("gate_key", gateKey).Msg("Failed to release idempotency gate after error")
			}
		}
		return err
	}
}
