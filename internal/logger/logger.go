// internal/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger mengkonfigurasi logger global Zerolog berdasarkan environment
// variables. Mendukung output konsol (human-readable atau JSON) dan opsional
// file log dengan rotasi lumberjack.
//
// Mengembalikan io.Closer file logger (jika aktif) yang harus ditutup di main,
// atau nil jika file logging tidak aktif.
//
// Variabel environment yang didukung:
//   - LOG_LEVEL: trace, debug, info, warn, error, fatal, panic. Default: info.
//   - LOG_FORMAT: 'json' atau lainnya untuk human-readable. Default: human-readable.
//   - LOG_FILE_ENABLED: 'true'/'false'. Default: false.
//   - LOG_FILE_PATH: Default: ./logs/app.log.
//   - LOG_FILE_MAX_SIZE_MB, LOG_FILE_MAX_BACKUPS, LOG_FILE_MAX_AGE_DAYS, LOG_FILE_COMPRESS.
func SetupLogger() io.Closer {
	// --- Konfigurasi Tingkat Log Global ---
	logLevelStr := os.Getenv("LOG_LEVEL")
	logLevel, err := zerolog.ParseLevel(logLevelStr)
	if err != nil || logLevelStr == "" {
		logLevel = zerolog.InfoLevel
		// Gunakan fmt ke Stderr karena logger mungkin belum siap.
		fmt.Fprintf(os.Stderr, "[WARN] Invalid or missing LOG_LEVEL env var ('%s'), using default: %s\n", logLevelStr, logLevel.String())
	}
	zerolog.SetGlobalLevel(logLevel)

	// --- Konfigurasi Writer (Output Tujuan Log) ---
	var writers []io.Writer

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat != "json" {
		// Human-readable, cocok untuk development di terminal.
		consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		writers = append(writers, consoleWriter)
	} else {
		// JSON standar, cocok untuk sistem log management.
		writers = append(writers, os.Stderr)
	}

	// --- Konfigurasi File Writer (Opsional, dengan Rotasi) ---
	var fileCloser io.Closer
	logFileEnabled, _ := strconv.ParseBool(os.Getenv("LOG_FILE_ENABLED"))

	if logFileEnabled {
		logFilePath := os.Getenv("LOG_FILE_PATH")
		if logFilePath == "" {
			logFilePath = "./logs/app.log"
		}

		logDir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(logDir, 0744); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Can't create log directory '%s': %v. File logging disabled.\n", logDir, err)
		} else {
			maxSizeMB, _ := strconv.Atoi(os.Getenv("LOG_FILE_MAX_SIZE_MB"))
			if maxSizeMB <= 0 {
				maxSizeMB = 100
			}
			maxBackups, _ := strconv.Atoi(os.Getenv("LOG_FILE_MAX_BACKUPS"))
			if maxBackups <= 0 {
				maxBackups = 5
			}
			maxAgeDays, _ := strconv.Atoi(os.Getenv("LOG_FILE_MAX_AGE_DAYS"))
			if maxAgeDays <= 0 {
				maxAgeDays = 30
			}
			compressLogs, _ := strconv.ParseBool(os.Getenv("LOG_FILE_COMPRESS"))

			fileWriter := &lumberjack.Logger{
				Filename:   logFilePath,
				MaxSize:    maxSizeMB,
				MaxBackups: maxBackups,
				MaxAge:     maxAgeDays,
				Compress:   compressLogs,
			}
			writers = append(writers, fileWriter)
			fileCloser = fileWriter
		}
	}

	// --- Atur Logger Global Zerolog ---
	multiWriter := zerolog.MultiLevelWriter(writers...)
	log.Logger = zerolog.New(multiWriter).With().Timestamp().Caller().Logger()

	log.Info().Msgf("Global logger initialized. Level: %s. Format: %s. File Logging: %t.",
		zerolog.GlobalLevel().String(),
		logFormat,
		logFileEnabled && fileCloser != nil)

	return fileCloser
}
