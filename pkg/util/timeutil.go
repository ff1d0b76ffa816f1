package util

import "time"

// LocalTime converts t into a fixed UTC offset (seconds) when one is known,
// otherwise into fallback. A nil fallback leaves t untouched.
func LocalTime(t time.Time, offset *int, fallback *time.Location) time.Time {
	if offset != nil {
		return t.In(time.FixedZone("", *offset))
	}
	if fallback != nil {
		return t.In(fallback)
	}
	return t
}
