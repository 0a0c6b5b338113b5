// configs/config.go
package configs

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
)

// File ini bertanggung jawab untuk memuat konfigurasi aplikasi dari environment
// variables: memuat file .env (jika ada) dan memvalidasi variabel wajib.

// LoadConfig dipanggil di awal main untuk memuat konfigurasi.
// Variabel yang sudah ada di environment TIDAK ditimpa oleh nilai dari .env.
// Jika ada variabel wajib yang hilang, aplikasi dihentikan paksa.
func LoadConfig() {
	fmt.Fprintln(os.Stderr, "[INFO] Loading application configuration...")

	// --- Langkah 1: Coba Muat Variabel dari File .env ---
	// Gunakan fmt karena logger utama mungkin belum siap saat fungsi ini dipanggil.
	err := godotenv.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "[WARN] No .env file found or error loading it. Reading environment variables directly.")
	} else {
		fmt.Fprintln(os.Stderr, "[INFO] Loaded environment variables from .env file (if found).")
	}

	// --- Langkah 2: Validasi Keberadaan Variabel Lingkungan Wajib ---
	requiredVars := []string{
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD", // Meskipun nilainya bisa kosong, variabelnya harus ada
		"DB_NAME",
		"APP_PORT",
		"JWT_SECRET",
		"APP_TIMEZONE", // Zona waktu periode misi & check-in, misal Asia/Jakarta
		"REDIS_ADDR",   // Alamat Redis untuk gate idempotency, misal localhost:6379
	}

	fmt.Fprintf(os.Stderr, "[INFO] Validating %d required environment variables...\n", len(requiredVars))
	missingVars := []string{}

	for _, varName := range requiredVars {
		if os.Getenv(varName) == "" {
			missingVars = append(missingVars, varName)
			fmt.Fprintf(os.Stderr, "[ERROR] Required environment variable '%s' is not set.\n", varName)
		}
	}

	if len(missingVars) > 0 {
		zlog.Fatal().Strs("missing_variables", missingVars).Msg("Missing required environment variables. Application cannot start.")
	}

	zlog.Info().Msg("All required environment variables are set. Configuration loaded successfully.")
}
