// internal/period/period.go
package period

import (
	"fmt"
	"time"
)

// Package period menurunkan kunci periode dan batas waktunya dari waktu dinding.
// Semua derivasi memakai satu *time.Location (dari APP_TIMEZONE) supaya
// pergantian hari konsisten untuk seluruh engine.

// Service menghitung period key dan batas periode dalam satu timezone tetap.
type Service struct {
	loc *time.Location
}

// NewService membuat Service dengan timezone aplikasi.
func NewService(loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{loc: loc}
}

// Location mengembalikan timezone aplikasi.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now mengembalikan waktu sekarang di timezone aplikasi.
func (s *Service) Now() time.Time {
	return time.Now().In(s.loc)
}

// Today mengembalikan tanggal hari ini (jam 00:00) di timezone aplikasi.
func (s *Service) Today() time.Time {
	return s.DayStart(s.Now())
}

// DailyKey: kunci periode harian, format YYYY-MM-DD.
func (s *Service) DailyKey(t time.Time) string {
	return t.In(s.loc).Format("2006-01-02")
}

// WeeklyKey: kunci periode mingguan berbasis ISO week, format YYYY-Www.
// Tahun yang dipakai adalah tahun ISO, bukan tahun kalender
// (31 Desember bisa jatuh di W01 tahun berikutnya).
func (s *Service) WeeklyKey(t time.Time) string {
	year, week := t.In(s.loc).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// DayStart: awal hari (00:00:00) dari t di timezone aplikasi.
func (s *Service) DayStart(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// DayEnd: awal hari berikutnya; batas periode bersifat [start, end).
func (s *Service) DayEnd(t time.Time) time.Time {
	return s.DayStart(t).AddDate(0, 0, 1)
}

// WeekStart: Senin 00:00 dari minggu ISO yang memuat t.
func (s *Service) WeekStart(t time.Time) time.Time {
	day := s.DayStart(t)
	// time.Weekday: Minggu=0 .. Sabtu=6; minggu ISO mulai Senin.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekEnd: Senin 00:00 minggu berikutnya.
func (s *Service) WeekEnd(t time.Time) time.Time {
	return s.WeekStart(t).AddDate(0, 0, 7)
}
