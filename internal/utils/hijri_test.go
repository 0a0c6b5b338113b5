package utils_test

import (
	"testing"
	"time"

	"github.com/nadzifan/quran-companion-be/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestIsRamadan(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{
			// Ramadan 1446 H berlangsung 1-29 Maret 2025 (Umm al-Qura).
			name:     "Mid Ramadan 1446",
			date:     time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "Shawwal After Eid",
			date:     time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name:     "Shaban Before Ramadan",
			date:     time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC),
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, utils.IsRamadan(tc.date))
		})
	}
}
