package service

import (
	"testing"
	"time"

	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/stretchr/testify/assert"
)

func checkinMissionFixture() *models.Mission {
	return &models.Mission{
		ID:         1,
		Code:       missionCodeDailyCheckin,
		Type:       models.MissionTypeCheckin,
		Period:     models.MissionPeriodDaily,
		BaseReward: 5,
		MilestoneRules: &models.MilestoneRules{
			CycleLength:   28,
			DailyRewards:  map[string]int{"1": 5, "7": 15, "28": 50},
			MilestoneDays: []int{7, 14, 21, 28},
		},
	}
}

func TestDeriveCheckin(t *testing.T) {
	mission := checkinMissionFixture()
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		prior    *models.UserDailyCheckin
		expected checkinDerivation
	}{
		{
			name:     "First Ever Checkin Starts A Run",
			prior:    nil,
			expected: checkinDerivation{DayIndex: 1, Streak: 1, Reward: 5},
		},
		{
			name: "Consecutive Day Continues Streak",
			prior: &models.UserDailyCheckin{
				CheckinDate: today.AddDate(0, 0, -1),
				DayIndex:    6,
				StreakCount: 6,
			},
			expected: checkinDerivation{DayIndex: 7, Streak: 7, Reward: 15, Milestone: true},
		},
		{
			name: "Gap Resets Day Index And Streak",
			prior: &models.UserDailyCheckin{
				CheckinDate: today.AddDate(0, 0, -3),
				DayIndex:    20,
				StreakCount: 20,
			},
			expected: checkinDerivation{DayIndex: 1, Streak: 1, Reward: 5},
		},
		{
			name: "Cycle Wraps After Last Day",
			prior: &models.UserDailyCheckin{
				CheckinDate: today.AddDate(0, 0, -1),
				DayIndex:    28,
				StreakCount: 28,
			},
			expected: checkinDerivation{DayIndex: 1, Streak: 29, Reward: 5},
		},
		{
			name: "Day Without Explicit Reward Falls Back To Base",
			prior: &models.UserDailyCheckin{
				CheckinDate: today.AddDate(0, 0, -1),
				DayIndex:    2,
				StreakCount: 2,
			},
			expected: checkinDerivation{DayIndex: 3, Streak: 3, Reward: 5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := deriveCheckin(mission, tc.prior, today)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDeriveCheckin_TwoConsecutiveDays(t *testing.T) {
	// Hari pertama disimpan apa adanya; hari kedua harus lanjut ke
	// dayIndex 2 dan streak 2, bukan mengulang dari 1.
	mission := checkinMissionFixture()
	day1 := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	first := deriveCheckin(mission, nil, day1)
	assert.Equal(t, 1, first.DayIndex)
	assert.Equal(t, 1, first.Streak)

	second := deriveCheckin(mission, &models.UserDailyCheckin{
		CheckinDate: day1,
		DayIndex:    first.DayIndex,
		StreakCount: first.Streak,
	}, day2)
	assert.Equal(t, 2, second.DayIndex)
	assert.Equal(t, 2, second.Streak)
}

func TestDeriveCheckin_DefaultCycleLength(t *testing.T) {
	// Misi tanpa milestone_rules: cycle jatuh ke default 28.
	mission := &models.Mission{Code: missionCodeDailyCheckin, BaseReward: 5}
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	prior := &models.UserDailyCheckin{
		CheckinDate: today.AddDate(0, 0, -1),
		DayIndex:    defaultCycleLength,
		StreakCount: defaultCycleLength,
	}

	got := deriveCheckin(mission, prior, today)
	assert.Equal(t, 1, got.DayIndex)
	assert.Equal(t, defaultCycleLength+1, got.Streak)
	assert.Equal(t, 5, got.Reward)
	assert.False(t, got.Milestone)
}

func TestSameDate(t *testing.T) {
	base := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)

	assert.True(t, sameDate(base, time.Date(2026, 8, 30, 0, 1, 0, 0, time.UTC)))
	assert.False(t, sameDate(base, base.AddDate(0, 0, 1)))
	assert.False(t, sameDate(base, base.AddDate(-1, 0, 0)))
}

func TestCheckinReward(t *testing.T) {
	mission := checkinMissionFixture()

	assert.Equal(t, 15, checkinReward(mission, mission.MilestoneRules, 7))
	assert.Equal(t, 50, checkinReward(mission, mission.MilestoneRules, 28))
	assert.Equal(t, 5, checkinReward(mission, mission.MilestoneRules, 3))
	assert.Equal(t, 0, checkinReward(nil, nil, 1))
}
