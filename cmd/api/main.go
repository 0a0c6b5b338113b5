package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nadzifan/quran-companion-be/configs"
	v1 "github.com/nadzifan/quran-companion-be/internal/api/v1"
	"github.com/nadzifan/quran-companion-be/internal/api/v1/handlers"
	"github.com/nadzifan/quran-companion-be/internal/database"
	applogger "github.com/nadzifan/quran-companion-be/internal/logger"
	appmiddleware "github.com/nadzifan/quran-companion-be/internal/middleware"
	"github.com/nadzifan/quran-companion-be/internal/period"
	"github.com/nadzifan/quran-companion-be/internal/repository"
	"github.com/nadzifan/quran-companion-be/internal/service"
	zlog "github.com/rs/zerolog/log"

	// Import untuk Swagger/OpenAPI documentation
	_ "github.com/nadzifan/quran-companion-be/docs" // Import side effect untuk registrasi docs Swagger yang digenerate
	fiberSwagger "github.com/swaggo/fiber-swagger"  // Middleware Fiber untuk menyajikan Swagger UI
)

// --- Anotasi Global Swagger/OpenAPI ---
// Anotasi ini dibaca oleh 'swag init' untuk menghasilkan dokumentasi API.
// @title Quran Companion BE API
// @version 1.0
// @description API backend for mission, reward, check-in, khatam, and achievement features of the Quran companion app.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3001
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description "Type 'Bearer YOUR_JWT_TOKEN' into the value field."
// --- Akhir Anotasi Swagger ---

// main adalah fungsi entry point aplikasi Go.
func main() {
	// --- Langkah 0: Load Konfigurasi dari .env ---
	// Harus dijalankan sebelum komponen lain yang bergantung pada env vars.
	configs.LoadConfig()

	// --- Langkah 1: Setup Logger (Zerolog) ---
	logCloser := applogger.SetupLogger()
	if logCloser != nil {
		defer func() {
			zlog.Info().Msg("Closing log file...")
			if err := logCloser.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "[ERROR] Failed to close log file: %v\n", err)
			}
		}()
	}
	zlog.Info().Msg("Configuration loaded")

	// --- Langkah 2: Koneksi ke Database (PostgreSQL) dan Redis ---
	dbPool, err := database.NewPgxPool()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Could not connect to the database")
	}
	defer dbPool.Close()
	zlog.Info().Msg("Database connection pool established")

	rdb, err := database.NewRedisClient()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Could not connect to Redis")
	}
	defer rdb.Close()
	zlog.Info().Msg("Redis client established")

	// --- Langkah 3: Zona Waktu Periode ---
	// Semua kunci periode (harian/mingguan) dan tanggal check-in dihitung
	// pada zona waktu aplikasi, bukan UTC server.
	loc, err := time.LoadLocation(os.Getenv("APP_TIMEZONE"))
	if err != nil {
		zlog.Fatal().Err(err).Str("timezone", os.Getenv("APP_TIMEZONE")).Msg("Invalid APP_TIMEZONE")
	}
	periods := period.NewService(loc)
	zlog.Info().Str("timezone", loc.String()).Msg("Period service initialized")

	// --- Langkah 4: Inisialisasi Lapisan Repository ---
	missionRepo := repository.NewMissionRepository(dbPool)
	progressRepo := repository.NewMissionProgressRepository(dbPool)
	checkinRepo := repository.NewCheckinRepository(dbPool)
	walletRepo := repository.NewWalletRepository(dbPool)
	khatamRepo := repository.NewKhatamRepository(dbPool)
	groupRepo := repository.NewKhatamGroupRepository(dbPool)
	achievementRepo := repository.NewAchievementRepository(dbPool)
	verseRepo := repository.NewVerseRepository(dbPool)
	zlog.Info().Msg("Repositories initialized")

	// --- Langkah 5: Inisialisasi Lapisan Service ---
	achievementService := service.NewAchievementService(achievementRepo)
	checkinService := service.NewCheckinService(dbPool, periods, missionRepo, checkinRepo, walletRepo, achievementService)
	missionService := service.NewMissionService(dbPool, periods, missionRepo, progressRepo, walletRepo, verseRepo, checkinService)
	walletService := service.NewWalletService(walletRepo)
	khatamService := service.NewKhatamService(dbPool, periods, khatamRepo, groupRepo, achievementService)
	zlog.Info().Msg("Services initialized")

	// --- Langkah 6: Inisialisasi Lapisan Handler ---
	missionHandler := handlers.NewMissionHandler(missionService, checkinService)
	walletHandler := handlers.NewWalletHandler(walletService)
	khatamHandler := handlers.NewKhatamHandler(khatamService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	zlog.Info().Msg("Handlers initialized")

	// --- Langkah 7: Setup Aplikasi Fiber ---
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	zlog.Info().Msg("Fiber app initialized")

	// --- Langkah 8: Setup Middleware Global dan Rute ---
	appmiddleware.SetupGlobalMiddleware(app)

	// Swagger UI: http://<host>/swagger/index.html
	app.Get("/swagger/*", fiberSwagger.WrapHandler)
	zlog.Info().Msg("Swagger UI endpoint registered at /swagger/*")

	v1.SetupRoutes(
		app,
		rdb,
		missionHandler,
		walletHandler,
		khatamHandler,
		achievementHandler,
	)
	zlog.Info().Msg("API v1 routes registered")

	// --- Langkah 9: Start Server HTTP ---
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = "3000"
	}

	zlog.Info().Msgf("Server is starting on port %s...", appPort)
	startErr := app.Listen(fmt.Sprintf(":%s", appPort))
	if startErr != nil {
		zlog.Fatal().Err(startErr).Msg("Failed to start server")
	}
}
