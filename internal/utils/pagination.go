// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	zlog "github.com/rs/zerolog/log"
)

// Utilitas pagination untuk endpoint list (saat ini riwayat reward ledger).

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit membatasi ukuran halaman supaya satu request tidak menyeret
	// ribuan baris ledger sekaligus.
	MaxLimit = 100
)

// PaginationQuery menampung parameter pagination yang sudah divalidasi,
// siap dipakai untuk klausa LIMIT/OFFSET.
type PaginationQuery struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePaginationParams membaca 'page' dan 'limit' dari query string.
// Nilai hilang/tidak valid jatuh ke default; limit dipangkas di MaxLimit.
func ParsePaginationParams(c *fiber.Ctx) PaginationQuery {
	pageStr := c.Query("page", strconv.Itoa(DefaultPage))
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		if pageStr != strconv.Itoa(DefaultPage) {
			zlog.Warn().Str("query_param", "page").Str("value", pageStr).Int("default", DefaultPage).Msg("Invalid 'page' query parameter, using default")
		}
		page = DefaultPage
	}

	limitStr := c.Query("limit", strconv.Itoa(DefaultLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		if limitStr != strconv.Itoa(DefaultLimit) {
			zlog.Warn().Str("query_param", "limit").Str("value", limitStr).Int("default", DefaultLimit).Msg("Invalid 'limit' query parameter, using default")
		}
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		zlog.Warn().Int("requested_limit", limit).Int("max_limit", MaxLimit).Msg("Requested 'limit' exceeds maximum allowed, capping")
		limit = MaxLimit
	}

	return PaginationQuery{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// PaginationMeta adalah metadata halaman yang dikirim bersama data,
// dipakai frontend untuk membangun kontrol navigasi.
type PaginationMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// BuildPaginationMeta menghitung metadata dari total item hasil COUNT(*),
// limit terpakai, dan halaman yang diminta.
func BuildPaginationMeta(totalItems, limit, page int) PaginationMeta {
	totalPages := 0
	if totalItems > 0 && limit > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(limit)))
	} else if totalItems > 0 {
		totalPages = 1
	}

	// CurrentPage dijaga konsisten dengan TotalPages walau data halaman
	// yang diminta kosong.
	currentPage := page
	if currentPage > totalPages && totalPages > 0 {
		currentPage = totalPages
	} else if totalPages == 0 && currentPage > 1 {
		currentPage = 1
	}

	return PaginationMeta{
		CurrentPage: currentPage,
		PerPage:     limit,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
	}
}

// PaginatedResponse membungkus data terpaginasi + metadatanya dalam format
// response standar aplikasi. T adalah tipe item, misal models.RewardLedgerEntry.
type PaginatedResponse[T any] struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    []T            `json:"data"`
	Meta    PaginationMeta `json:"meta"`
}

// NewPaginatedResponse membuat PaginatedResponse[T]; data nil dinormalkan
// menjadi slice kosong supaya JSON-nya `[]`, bukan `null`.
func NewPaginatedResponse[T any](message string, data []T, meta PaginationMeta) PaginatedResponse[T] {
	if data == nil {
		data = make([]T, 0)
	}
	return PaginatedResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// PaginatedResponseGeneric hanya untuk dokumentasi Swagger: swag tidak
// mendukung generics, jadi Data direpresentasikan sebagai []interface{}.
// Jangan dipakai sebagai tipe response di kode; pakai PaginatedResponse[T].
type PaginatedResponseGeneric struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    []interface{}  `json:"data"`
	Meta    PaginationMeta `json:"meta"`
}
