// internal/utils/hijri.go
package utils

import (
	"time"

	"github.com/hablullah/go-hijri"
	zlog "github.com/rs/zerolog/log"
)

// Bulan ke-9 kalender Hijriah.
const ramadanMonth = 9

// IsRamadan memeriksa apakah sebuah waktu jatuh di bulan Ramadan menurut
// kalender Umm al-Qura. Dipakai untuk badge musiman; kalau konversi gagal
// anggap saja bukan Ramadan.
func IsRamadan(t time.Time) bool {
	hijriDate, err := hijri.CreateUmmAlQuraDate(t)
	if err != nil {
		zlog.Warn().Err(err).Time("at", t).Msg("Failed to convert date to Hijri calendar")
		return false
	}
	return hijriDate.Month == ramadanMonth
}
