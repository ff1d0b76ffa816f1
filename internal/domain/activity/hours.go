package activity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// weekdayLinePattern matches "Monday: 9:00 AM – 5:00 PM" (en-dash separator).
var weekdayLinePattern = regexp.MustCompile(`^(\w+): (\d{1,2}):(\d{2}) (AM|PM) – (\d{1,2}):(\d{2}) (AM|PM)$`)

// Google emits U+202F / U+2009 around the meridiem and the dash on newer payloads.
var spaceNormalizer = strings.NewReplacer("\u202f", " ", "\u2009", " ", "\u00a0", " ")

// ParseOpeningHours converts weekly schedule lines into an OpeningHours table.
// Lines that do not match the expected format are skipped.
func ParseOpeningHours(lines []string) OpeningHours {
	table := make(OpeningHours, len(lines))
	for _, line := range lines {
		normalized := strings.TrimSpace(spaceNormalizer.Replace(line))
		m := weekdayLinePattern.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		open, ok := to24Hour(m[2], m[3], m[4])
		if !ok {
			continue
		}
		closing, ok := to24Hour(m[5], m[6], m[7])
		if !ok {
			continue
		}
		table[m[1]] = DayHours{Open: open, Close: closing}
	}
	return table
}

func to24Hour(hour, minute, meridiem string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 1 || h > 12 {
		return "", false
	}
	mm, err := strconv.Atoi(minute)
	if err != nil || mm > 59 {
		return "", false
	}
	h %= 12
	if meridiem == "PM" {
		h += 12
	}
	return fmt.Sprintf("%02d:%02d", h, mm), true
}

// IsOpenAt reports whether t falls inside the posted range for t's weekday.
// Ranges crossing midnight are compared literally and evaluate as closed.
func (h OpeningHours) IsOpenAt(t time.Time) bool {
	day, ok := h[t.Weekday().String()]
	if !ok {
		return false
	}
	now := t.Format("15:04")
	return day.Open <= now && now <= day.Close
}
