package models

// TimeType buckets a time of day into one of 8 fixed ranges. Spreading
// trigger times across buckets is how the scheduler balances load, and
// the bucket label is what the presentation layer shows next to a
// trigger's time.
type TimeType string

const (
	TimeTypeEarlyMorning   TimeType = "early_morning"
	TimeTypeMorning        TimeType = "morning"
	TimeTypeEarlyAfternoon TimeType = "early_afternoon"
	TimeTypeAfternoon      TimeType = "afternoon"
	TimeTypeEarlyEvening   TimeType = "early_evening"
	TimeTypeEvening        TimeType = "evening"
	TimeTypeEarlyNight     TimeType = "early_night"
	TimeTypeNight          TimeType = "night"
)

// TimeRange is a half-open [Start, End) range of minutes since midnight.
type TimeRange struct {
	Start int
	End   int
	Label string
}

const minutesPerDay = 24 * 60

// timeRanges partitions the full day. The evening range runs to 24:00
// rather than wrapping; midnight itself belongs to early_night.
var timeRanges = map[TimeType]TimeRange{
	TimeTypeEarlyMorning:   {Start: 6 * 60, End: 9 * 60, Label: "Early Morning"},
	TimeTypeMorning:        {Start: 9 * 60, End: 12 * 60, Label: "Morning"},
	TimeTypeEarlyAfternoon: {Start: 12 * 60, End: 15 * 60, Label: "Early Afternoon"},
	TimeTypeAfternoon:      {Start: 15 * 60, End: 18 * 60, Label: "Afternoon"},
	TimeTypeEarlyEvening:   {Start: 18 * 60, End: 21 * 60, Label: "Early Evening"},
	TimeTypeEvening:        {Start: 21 * 60, End: minutesPerDay, Label: "Evening"},
	TimeTypeEarlyNight:     {Start: 0, End: 3 * 60, Label: "Early Night"},
	TimeTypeNight:          {Start: 3 * 60, End: 6 * 60, Label: "Night"},
}

// ClassifyTime maps a time of day to its bucket. The ranges cover the
// whole day, so the morning fallback is unreachable; it exists so a
// future range edit cannot make this function return an empty bucket.
func ClassifyTime(t TimeOfDay) TimeType {
	minutes := t.Minutes()

	for timeType, r := range timeRanges {
		if minutes >= r.Start && minutes < r.End {
			return timeType
		}
	}

	return TimeTypeMorning
}

// Label returns the human-facing name of the bucket.
func (tt TimeType) Label() string {
	if r, ok := timeRanges[tt]; ok {
		return r.Label
	}

	return "Unknown"
}

// Range returns the bucket's minute range and whether the bucket exists.
func (tt TimeType) Range() (TimeRange, bool) {
	r, ok := timeRanges[tt]

	return r, ok
}

// RecommendedSlots lists the on-the-hour times inside the bucket, offered
// by the API as suggested trigger times.
func (tt TimeType) RecommendedSlots() []TimeOfDay {
	r, ok := timeRanges[tt]
	if !ok {
		return nil
	}

	slots := make([]TimeOfDay, 0, 3)
	for h := r.Start / 60; h < r.End/60; h++ {
		slots = append(slots, TimeOfDay{Hour: h, set: true})
	}

	return slots
}

// TimeTypes returns all buckets in day order starting at midnight.
func TimeTypes() []TimeType {
	return []TimeType{
		TimeTypeEarlyNight,
		TimeTypeNight,
		TimeTypeEarlyMorning,
		TimeTypeMorning,
		TimeTypeEarlyAfternoon,
		TimeTypeAfternoon,
		TimeTypeEarlyEvening,
		TimeTypeEvening,
	}
}
