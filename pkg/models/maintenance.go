package models

// MaintenanceWindow is a fixed time range on a set of weekdays during
// which the platform performs maintenance. Triggers scheduled inside a
// window still run; the overlap is surfaced as an advisory warning only.
type MaintenanceWindow struct {
	Start TimeOfDay
	End   TimeOfDay
	Days  []Weekday
	Label string
}

// maintenanceWindows is the platform maintenance calendar.
var maintenanceWindows = []MaintenanceWindow{
	{
		Start: TimeOfDay{Hour: 2, set: true},
		End:   TimeOfDay{Hour: 3, set: true},
		Days:  []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday},
		Label: "Daily maintenance 02:00-03:00",
	},
	{
		Start: TimeOfDay{Hour: 5, set: true},
		End:   TimeOfDay{Hour: 6, set: true},
		Days:  []Weekday{Sunday},
		Label: "Sunday maintenance 05:00-06:00",
	},
}

// MaintenanceWindows returns a copy of the maintenance calendar.
func MaintenanceWindows() []MaintenanceWindow {
	return append([]MaintenanceWindow(nil), maintenanceWindows...)
}

// Covers reports whether the window applies to the schedule: the
// schedule's time falls inside [Start, End) and the day sets intersect.
func (w MaintenanceWindow) Covers(s Schedule) bool {
	if !s.Time.IsSet() {
		return false
	}

	minutes := s.Time.Minutes()
	if minutes < w.Start.Minutes() || minutes >= w.End.Minutes() {
		return false
	}

	for _, day := range w.Days {
		if s.RunsOn(day) {
			return true
		}
	}

	return false
}

// HasMaintenanceConflict reports whether any maintenance window covers
// the schedule.
func HasMaintenanceConflict(s Schedule) bool {
	for _, window := range maintenanceWindows {
		if window.Covers(s) {
			return true
		}
	}

	return false
}
