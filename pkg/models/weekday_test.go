package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/tempo/pkg/models"
)

func TestCronWeekdayConversion(t *testing.T) {
	tests := []struct {
		day  models.Weekday
		cron int
	}{
		{models.Monday, 1},
		{models.Tuesday, 2},
		{models.Wednesday, 3},
		{models.Thursday, 4},
		{models.Friday, 5},
		{models.Saturday, 6},
		{models.Sunday, 0},
	}

	for _, tt := range tests {
		t.Run(tt.day.String(), func(t *testing.T) {
			assert.Equal(t, tt.cron, tt.day.CronWeekday())

			back, err := models.WeekdayFromCron(tt.cron)
			require.NoError(t, err)
			assert.Equal(t, tt.day, back, "conversion must round-trip")
		})
	}
}

func TestWeekdayFromCron_OutOfRange(t *testing.T) {
	for _, cronDay := range []int{-1, 7, 12} {
		_, err := models.WeekdayFromCron(cronDay)
		assert.ErrorIs(t, err, models.ErrInvalidWeekday)
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	for offset := range 7 {
		day := models.WeekdayOf(monday.AddDate(0, 0, offset))
		assert.Equal(t, models.Weekday(offset), day)
	}
}

func TestFormatDays(t *testing.T) {
	tests := []struct {
		name string
		days []models.Weekday
		want string
	}{
		{"empty", nil, "No days selected"},
		{"all seven", []models.Weekday{
			models.Monday, models.Tuesday, models.Wednesday, models.Thursday,
			models.Friday, models.Saturday, models.Sunday,
		}, "Every day"},
		{"weekdays", []models.Weekday{
			models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday,
		}, "Weekdays"},
		{"weekends", []models.Weekday{models.Saturday, models.Sunday}, "Weekends"},
		{"two ordinary days", []models.Weekday{models.Monday, models.Wednesday}, "Mon, Wed"},
		{"unsorted input is sorted", []models.Weekday{models.Friday, models.Monday}, "Mon, Fri"},
		{"duplicates collapse", []models.Weekday{
			models.Saturday, models.Sunday, models.Saturday,
		}, "Weekends"},
		{"five days including weekend is not weekdays", []models.Weekday{
			models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Saturday,
		}, "Mon, Tue, Wed, Thu, Sat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.FormatDays(tt.days))
		})
	}
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, "Monday", models.Monday.String())
	assert.Equal(t, "Sun", models.Sunday.Short())
	assert.Equal(t, "Weekday(9)", models.Weekday(9).String())
	assert.False(t, models.Weekday(7).Valid())
}
