package activity

// TimeOfDayFor maps an hour of the day onto its bucket.
// Ranges are half-open: [6,12) morning, [12,18) afternoon, [18,23) evening, the rest night.
func TimeOfDayFor(hour int) TimeOfDay {
	hour %= 24
	if hour < 0 {
		hour += 24
	}
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18 && hour < 23:
		return Evening
	default:
		return Night
	}
}
