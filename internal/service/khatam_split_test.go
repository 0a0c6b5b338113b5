package service

import (
	"testing"
	"time"

	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSplitJuzRanges(t *testing.T) {
	t.Run("Single Member Gets Everything", func(t *testing.T) {
		ranges := splitJuzRanges(1)
		assert.Equal(t, []juzRange{{Start: 1, End: 30}}, ranges)
	})

	t.Run("Remainder Goes To First Members", func(t *testing.T) {
		// 30 / 4 = 7 sisa 2: dua member pertama dapat 8 juz.
		ranges := splitJuzRanges(4)
		assert.Equal(t, []juzRange{
			{Start: 1, End: 8},
			{Start: 9, End: 16},
			{Start: 17, End: 23},
			{Start: 24, End: 30},
		}, ranges)
	})

	t.Run("Thirty Members Get One Juz Each", func(t *testing.T) {
		ranges := splitJuzRanges(30)
		assert.Len(t, ranges, 30)
		for i, r := range ranges {
			assert.Equal(t, i+1, r.Start)
			assert.Equal(t, i+1, r.End)
		}
	})

	t.Run("Invalid Member Counts Return Nil", func(t *testing.T) {
		assert.Nil(t, splitJuzRanges(0))
		assert.Nil(t, splitJuzRanges(-1))
		assert.Nil(t, splitJuzRanges(31))
	})

	t.Run("Every Count Partitions 1 To 30 Exactly", func(t *testing.T) {
		for n := 1; n <= 30; n++ {
			ranges := splitJuzRanges(n)
			assert.Len(t, ranges, n)

			next := 1
			for _, r := range ranges {
				assert.Equal(t, next, r.Start, "member count %d", n)
				assert.GreaterOrEqual(t, r.End, r.Start, "member count %d", n)
				next = r.End + 1
			}
			assert.Equal(t, 31, next, "member count %d", n)
		}
	})
}

func TestOrderMembersForSplit(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Ordered By Join Time", func(t *testing.T) {
		members := []models.KhatamGroupMember{
			{ID: 3, Role: models.GroupRoleMember, JoinedAt: base.Add(2 * time.Hour)},
			{ID: 1, Role: models.GroupRoleCreator, JoinedAt: base},
			{ID: 2, Role: models.GroupRoleMember, JoinedAt: base.Add(1 * time.Hour)},
		}

		ordered := orderMembersForSplit(members)
		assert.Equal(t, []int{1, 2, 3}, []int{ordered[0].ID, ordered[1].ID, ordered[2].ID})
	})

	t.Run("Creator Goes Last On Equal Join Time", func(t *testing.T) {
		members := []models.KhatamGroupMember{
			{ID: 1, Role: models.GroupRoleCreator, JoinedAt: base},
			{ID: 2, Role: models.GroupRoleMember, JoinedAt: base},
			{ID: 3, Role: models.GroupRoleMember, JoinedAt: base},
		}

		ordered := orderMembersForSplit(members)
		assert.Equal(t, models.GroupRoleCreator, ordered[len(ordered)-1].Role)
		assert.Equal(t, 1, ordered[len(ordered)-1].ID)
	})

	t.Run("Input Slice Is Not Mutated", func(t *testing.T) {
		members := []models.KhatamGroupMember{
			{ID: 2, Role: models.GroupRoleMember, JoinedAt: base.Add(time.Hour)},
			{ID: 1, Role: models.GroupRoleCreator, JoinedAt: base},
		}

		_ = orderMembersForSplit(members)
		assert.Equal(t, 2, members[0].ID)
		assert.Equal(t, 1, members[1].ID)
	})
}
