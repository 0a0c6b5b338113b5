package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCountVersesInRange(t *testing.T) {
	tests := []struct {
		name        string
		ayahStart   int
		ayahEnd     int
		versesCount int
		expected    int
	}{
		{name: "Full Surah", ayahStart: 1, ayahEnd: 7, versesCount: 7, expected: 7},
		{name: "Partial Range", ayahStart: 5, ayahEnd: 10, versesCount: 286, expected: 6},
		{name: "Single Ayah", ayahStart: 255, ayahEnd: 255, versesCount: 286, expected: 1},
		{name: "Start Below One", ayahStart: 0, ayahEnd: 10, versesCount: 286, expected: 0},
		{name: "End Before Start", ayahStart: 10, ayahEnd: 5, versesCount: 286, expected: 0},
		{name: "End Beyond Surah Length", ayahStart: 280, ayahEnd: 300, versesCount: 286, expected: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, countVersesInRange(tc.ayahStart, tc.ayahEnd, tc.versesCount))
		})
	}
}

// stubVerseRepo menjawab GetVerseCount dari tabel statis, tanpa DB.
type stubVerseRepo struct {
	counts map[int]int
}

func (r *stubVerseRepo) GetVerseCount(_ context.Context, surah int) (int, error) {
	count, ok := r.counts[surah]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return count, nil
}

func TestEventIncrement(t *testing.T) {
	svc := &missionServiceImpl{
		verseRepo: &stubVerseRepo{counts: map[int]int{1: 7, 2: 286}},
	}
	ctx := context.Background()

	tests := []struct {
		name        string
		input       models.SubmitEventInput
		expected    int
		expectedErr error
	}{
		{
			name:     "Quran Read Counts Verses In Range",
			input:    models.SubmitEventInput{Code: string(models.EventQuranRead), Surah: 2, AyahStart: 1, AyahEnd: 10},
			expected: 10,
		},
		{
			name:        "Quran Read Rejects Reversed Range",
			input:       models.SubmitEventInput{Code: string(models.EventQuranRead), Surah: 2, AyahStart: 5, AyahEnd: 3},
			expectedErr: ErrInvalidAyahRange,
		},
		{
			name:        "Quran Read Rejects Range Beyond Surah",
			input:       models.SubmitEventInput{Code: string(models.EventQuranRead), Surah: 1, AyahStart: 1, AyahEnd: 8},
			expectedErr: ErrInvalidAyahRange,
		},
		{
			name:        "Quran Read Rejects Unknown Surah",
			input:       models.SubmitEventInput{Code: string(models.EventQuranRead), Surah: 99, AyahStart: 1, AyahEnd: 1},
			expectedErr: ErrInvalidAyahRange,
		},
		{
			name:     "Audio Listen Credits Seconds",
			input:    models.SubmitEventInput{Code: string(models.EventAudioListen), Seconds: 120},
			expected: 120,
		},
		{
			name:     "Completed Video Counts Once",
			input:    models.SubmitEventInput{Code: string(models.EventVideoWatch), Completed: true},
			expected: 1,
		},
		{
			name:     "Partial Video Gets No Credit",
			input:    models.SubmitEventInput{Code: string(models.EventVideoWatch), Completed: false},
			expected: 0,
		},
		{
			name:     "Rewarded Ad Counts Once",
			input:    models.SubmitEventInput{Code: string(models.EventAdRewarded)},
			expected: 1,
		},
		{
			name:        "Unknown Code Rejected",
			input:       models.SubmitEventInput{Code: "push_notification_opened"},
			expectedErr: ErrUnsupportedEvent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.eventIncrement(ctx, &tc.input)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEventMissionRoutesCoverAllCodes(t *testing.T) {
	for _, code := range []models.EventCode{
		models.EventQuranRead,
		models.EventAudioListen,
		models.EventVideoWatch,
		models.EventAdRewarded,
	} {
		assert.NotEmpty(t, eventMissionRoutes[code], "event %s has no routed missions", code)
	}
}
