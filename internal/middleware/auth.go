// internal/middleware/auth.go
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/utils"
	zlog "github.com/rs/zerolog/log"
)

// Protected adalah middleware Fiber yang memastikan request membawa token JWT
// yang valid. Wajib dijalankan sebelum handler yang membutuhkan identitas user.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// --- 1. Ekstrak Token dari Header Authorization ---
		tokenString := utils.ExtractToken(c)
		if tokenString == "" {
			zlog.Warn().Str("path", c.Path()).Str("ip", c.IP()).Msg("Protected route access attempt without token")
			return c.Status(fiber.StatusUnauthorized).JSON(models.Response{
				Success: false, Message: "Unauthorized: Missing token",
			})
		}

		// --- 2. Validasi Token JWT ---
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			zlog.Warn().Err(err).Str("path", c.Path()).Str("ip", c.IP()).Msg("Protected route access attempt with invalid token")
			return c.Status(fiber.StatusUnauthorized).JSON(models.Response{
				Success: false, Message: "Unauthorized: Invalid token",
			})
		}

		// --- 3. Simpan Claims ke Locals ---
		// Handler/middleware selanjutnya mengambil identitas user dari sini.
		c.Locals("user", claims)

		zlog.Debug().Str("username", claims.Username).Int("user_id", claims.UserID).Msg("JWT authenticated, proceeding")
		return c.Next()
	}
}
