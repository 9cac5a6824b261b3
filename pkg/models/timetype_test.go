package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/tempo/pkg/models"
)

func TestClassifyTime(t *testing.T) {
	tests := []struct {
		name string
		time models.TimeOfDay
		want models.TimeType
	}{
		{"midnight belongs to early night", models.MustTimeOfDay(0, 0, 0), models.TimeTypeEarlyNight},
		{"just before three", models.MustTimeOfDay(2, 59, 0), models.TimeTypeEarlyNight},
		{"three o'clock starts night", models.MustTimeOfDay(3, 0, 0), models.TimeTypeNight},
		{"six starts early morning", models.MustTimeOfDay(6, 0, 0), models.TimeTypeEarlyMorning},
		{"nine starts morning", models.MustTimeOfDay(9, 0, 0), models.TimeTypeMorning},
		{"noon starts early afternoon", models.MustTimeOfDay(12, 0, 0), models.TimeTypeEarlyAfternoon},
		{"fifteen starts afternoon", models.MustTimeOfDay(15, 0, 0), models.TimeTypeAfternoon},
		{"eighteen starts early evening", models.MustTimeOfDay(18, 0, 0), models.TimeTypeEarlyEvening},
		{"twenty-one starts evening", models.MustTimeOfDay(21, 0, 0), models.TimeTypeEvening},
		{"last minute of the day", models.MustTimeOfDay(23, 59, 0), models.TimeTypeEvening},
		{"half past two in the morning", models.MustTimeOfDay(2, 30, 0), models.TimeTypeEarlyNight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.ClassifyTime(tt.time))
		})
	}
}

// Every minute of the day must land in exactly one bucket.
func TestTimeRangesPartitionTheDay(t *testing.T) {
	for hour := range 24 {
		for minute := range 60 {
			matches := 0

			for _, timeType := range models.TimeTypes() {
				r, ok := timeType.Range()
				require.True(t, ok)

				minutes := hour*60 + minute
				if minutes >= r.Start && minutes < r.End {
					matches++
				}
			}

			assert.Equalf(t, 1, matches, "%02d:%02d covered by %d buckets", hour, minute, matches)
		}
	}
}

func TestTimeTypeLabel(t *testing.T) {
	assert.Equal(t, "Early Morning", models.TimeTypeEarlyMorning.Label())
	assert.Equal(t, "Evening", models.TimeTypeEvening.Label())
	assert.Equal(t, "Unknown", models.TimeType("bogus").Label())
}

func TestRecommendedSlots(t *testing.T) {
	slots := models.TimeTypeEarlyMorning.RecommendedSlots()

	require.Len(t, slots, 3)
	assert.Equal(t, "06:00:00", slots[0].String())
	assert.Equal(t, "07:00:00", slots[1].String())
	assert.Equal(t, "08:00:00", slots[2].String())

	assert.Nil(t, models.TimeType("bogus").RecommendedSlots())
}

func TestTimeTypesAreInDayOrder(t *testing.T) {
	types := models.TimeTypes()
	require.Len(t, types, 8)

	previousEnd := 0

	for _, timeType := range types {
		r, ok := timeType.Range()
		require.True(t, ok)
		assert.Equal(t, previousEnd, r.Start, "bucket %s should start where the previous one ends", timeType)
		previousEnd = r.End
	}

	assert.Equal(t, 24*60, previousEnd)
}
