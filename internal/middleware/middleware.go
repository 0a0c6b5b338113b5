// internal/middleware/middleware.go
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// SetupGlobalMiddleware mendaftarkan middleware standar untuk semua request.
// Urutan pendaftaran penting: recover paling awal, kompresi mendekati akhir.
func SetupGlobalMiddleware(app *fiber.App) {
	// --- 1. Recover Middleware ---
	// Menangkap panic dari handler agar server tidak crash.
	app.Use(recover.New())
	zlog.Info().Msg("Recover middleware registered")

	// --- 2. Request ID Middleware ---
	// Menambahkan header 'X-Request-ID' untuk tracing log.
	app.Use(requestid.New())
	zlog.Info().Msg("RequestID middleware registered")

	// --- 3. CORS Middleware ---
	app.Use(cors.New(cors.Config{
		// Ganti dengan daftar origin aplikasi mobile/web di production.
		AllowOrigins: "http://localhost:5173, http://127.0.0.1:5173, http://localhost:3001",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))
	zlog.Info().Msg("CORS middleware registered")

	// --- 4. Rate Limiter Middleware ---
	// Event bacaan/audio bisa datang sering; batasnya dibuat longgar.
	app.Use(limiter.New(limiter.Config{
		Max:               300,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
	}))
	zlog.Info().Msg("Rate limiter middleware registered")

	// --- 5. Logger Request Middleware (Custom Zerolog) ---
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		statusCode := c.Response().StatusCode()

		requestID := ""
		if idStr, ok := c.Locals("requestid").(string); ok {
			requestID = idStr
		}

		var logEvent *zerolog.Event
		if err != nil {
			logEvent = zlog.Warn().Err(err)
		} else {
			logEvent = zlog.Info()
			if statusCode >= 500 {
				logEvent = zlog.Error()
			} else if statusCode >= 400 {
				logEvent = zlog.Warn()
			}
		}

		loggerWithFields := logEvent.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", statusCode).
			Dur("latency", latency).
			Str("ip", c.IP()).
			Str("user_agent", c.Get(fiber.HeaderUserAgent))

		if requestID != "" {
			loggerWithFields = loggerWithFields.Str("request_id", requestID)
		}

		loggerWithFields.Msg("Request handled")

		// Kembalikan error agar ditangani ErrorHandler global.
		return err
	})
	zlog.Info().Msg("Request logger middleware registered")

	// --- 6. Compression Middleware ---
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	zlog.Info().Msg("Compress middleware registered")
}
