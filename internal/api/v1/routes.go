package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/internal/api/v1/handlers"
	"github.com/nadzifan/quran-companion-be/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// File ini bertanggung jawab untuk mendefinisikan dan mendaftarkan semua rute
// (endpoints) untuk API versi 1 (/api/v1).

// idempotencyTTL adalah masa berlaku gate Idempotency-Key untuk endpoint mutasi.
const idempotencyTTL = 24 * time.Hour

// SetupRoutes mengkonfigurasi dan mendaftarkan semua rute API v1 ke instance
// aplikasi Fiber. Semua rute butuh JWT kecuali /health dan resolve invite publik.
func SetupRoutes(
	app *fiber.App,
	rdb *redis.Client,
	missionHandler *handlers.MissionHandler,
	walletHandler *handlers.WalletHandler,
	khatamHandler *handlers.KhatamHandler,
	achievementHandler *handlers.AchievementHandler,
) {
	api := app.Group("/api/v1")

	idempotent := middleware.Idempotency(rdb, idempotencyTTL)

	// =========================================================================
	// Rute Misi & Check-in (Memerlukan Autentikasi)
	// =========================================================================
	missions := api.Group("/missions", middleware.Protected())
	{
		// GET  /api/v1/missions - Papan misi: check-in grid, misi daily/weekly/special, saldo
		missions.Get("/", missionHandler.GetBoard)
		// GET  /api/v1/missions/checkin - Status check-in hari ini (tanpa mutasi)
		missions.Get("/checkin", missionHandler.GetCheckinStatus)
		// POST /api/v1/missions/checkin - Check-in harian (sekali per tanggal)
		missions.Post("/checkin", idempotent, missionHandler.DoCheckin)
		// POST /api/v1/missions/events - Kirim event aktivitas (baca/dengar/nonton/iklan)
		missions.Post("/events", idempotent, missionHandler.SubmitEvent)
		// POST /api/v1/missions/:code/claim - Klaim hadiah misi yang sudah selesai
		missions.Post("/:code/claim", idempotent, missionHandler.ClaimMission)
	}

	// =========================================================================
	// Rute Wallet (Memerlukan Autentikasi)
	// =========================================================================
	wallet := api.Group("/wallet", middleware.Protected())
	{
		// GET /api/v1/wallet - Saldo bintang saat ini
		wallet.Get("/", walletHandler.GetMyWallet)
		// GET /api/v1/wallet/history - Riwayat ledger reward (paginasi)
		wallet.Get("/history", walletHandler.GetMyWalletHistory)
	}

	// =========================================================================
	// Rute Khatam (Memerlukan Autentikasi, kecuali resolve invite)
	// =========================================================================
	khatam := api.Group("/khatam")
	{
		// GET /api/v1/khatam/groups/invite/:token - Resolve invite publik (tanpa JWT)
		khatam.Get("/groups/invite/:token", khatamHandler.GetInviteSummary)

		plans := khatam.Group("/plans", middleware.Protected())
		{
			// POST   /api/v1/khatam/plans - Mulai percobaan khatam baru
			plans.Post("/", khatamHandler.CreatePlan)
			// GET    /api/v1/khatam/plans/active - Plan aktif + agregasi progress
			plans.Get("/active", khatamHandler.GetActivePlan)
			// PATCH  /api/v1/khatam/plans/:planId - Ubah target_date / reading_type
			plans.Patch("/:planId", khatamHandler.UpdatePlan)
			// DELETE /api/v1/khatam/plans/:planId - Hapus plan (lepas dari grup bila perlu)
			plans.Delete("/:planId", khatamHandler.DeletePlan)
		}

		// POST /api/v1/khatam/progress - Catat satu ayat terbaca
		khatam.Post("/progress", middleware.Protected(), khatamHandler.RecordProgress)

		groups := khatam.Group("/groups", middleware.Protected())
		{
			// POST /api/v1/khatam/groups - Buat grup baca dari plan aktif
			groups.Post("/", khatamHandler.CreateGroup)
			// POST /api/v1/khatam/groups/join - Gabung grup lewat invite token
			groups.Post("/join", khatamHandler.JoinGroup)
		}
	}

	// =========================================================================
	// Rute Achievement (Memerlukan Autentikasi)
	// =========================================================================
	achievements := api.Group("/achievements", middleware.Protected())
	{
		// GET /api/v1/achievements - Katalog badge lengkap
		achievements.Get("/", achievementHandler.GetCatalog)
		// GET /api/v1/achievements/me - Katalog + flag kepemilikan user
		achievements.Get("/me", achievementHandler.GetMyAchievements)
	}

	// =========================================================================
	// Rute Lain-lain / Utilitas (Publik)
	// =========================================================================
	// GET /api/v1/health - Endpoint publik untuk memeriksa status kesehatan API
	api.Get("/health", HealthCheck)
}

// HealthCheck godoc
// @Summary Check API Health Status
// @Description Public endpoint to verify that the API is running and responsive.
// @Tags Public, Health
// @ID health-check-v1
// @Produce json
// @Success 200 {object} map[string]string "{"status":"UP"}"
// @Router /health [get]
func HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "UP"})
}
