package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakarta(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func TestDailyKey(t *testing.T) {
	loc := jakarta(t)
	svc := NewService(loc)

	// 2025-09-15 23:30 UTC = 2025-09-16 06:30 WIB
	utc := time.Date(2025, 9, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-09-16", svc.DailyKey(utc))
	assert.Equal(t, "2025-09-15", NewService(time.UTC).DailyKey(utc))
}

func TestWeeklyKey(t *testing.T) {
	svc := NewService(time.UTC)

	testCases := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"mid week", time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC), "2025-W38"},
		{"monday start", time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), "2025-W38"},
		{"sunday end", time.Date(2025, 9, 21, 23, 59, 59, 0, time.UTC), "2025-W38"},
		// 31 Des 2024 masuk ISO week 1 tahun 2025
		{"iso year rollover", time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC), "2025-W01"},
		// 1 Jan 2021 masih ISO week 53 tahun 2020
		{"iso year lag", time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC), "2020-W53"},
		{"single digit week padded", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), "2025-W04"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, svc.WeeklyKey(tc.input))
		})
	}
}

func TestDayBounds(t *testing.T) {
	loc := jakarta(t)
	svc := NewService(loc)

	at := time.Date(2025, 9, 16, 14, 45, 10, 0, loc)
	start := svc.DayStart(at)
	end := svc.DayEnd(at)

	assert.Equal(t, time.Date(2025, 9, 16, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 9, 17, 0, 0, 0, 0, loc), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestWeekBounds(t *testing.T) {
	svc := NewService(time.UTC)

	testCases := []struct {
		name  string
		input time.Time
		start time.Time
	}{
		{"wednesday", time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC), time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"monday itself", time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"sunday maps back", time.Date(2025, 9, 21, 23, 0, 0, 0, time.UTC), time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.start, svc.WeekStart(tc.input))
			assert.Equal(t, tc.start.AddDate(0, 0, 7), svc.WeekEnd(tc.input))
		})
	}
}

func TestNilLocationFallsBackToUTC(t *testing.T) {
	svc := NewService(nil)
	assert.Equal(t, time.UTC, svc.Location())
}
