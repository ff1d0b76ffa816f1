package activity

import "time"

// Suggestion is a single (place, activity) pair shown to a user.
type Suggestion struct {
	Place    string `json:"place"`
	Activity string `json:"activity"`
}

// Weather is the snapshot returned by the weather provider.
type Weather struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
	// TimezoneOffset is the city's shift from UTC in seconds, when known.
	TimezoneOffset *int `json:"-"`
}

// Coordinates is the payload accepted by the weather endpoint.
type Coordinates struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// StartResult is returned after the initial weather + suggestion flow.
type StartResult struct {
	Status     string       `json:"status"`
	Weather    Weather      `json:"weather"`
	Activities []Suggestion `json:"activities"`
}

// RefreshRequest asks for something other than a dismissed suggestion.
type RefreshRequest struct {
	DismissedActivity string `json:"dismissed_activity"`
	Place             string `json:"place"`
}

// RefreshResult carries either new activities or an informational message.
type RefreshResult struct {
	NewActivity []Suggestion `json:"new_activity,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// NoNewActivitiesMessage is returned when a refresh produced nothing usable.
const NoNewActivitiesMessage = "No new activities available"

// TimeOfDay buckets the local hour.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// DayHours is an opening range in 24-hour HH:MM local clock strings.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OpeningHours maps weekday names ("Monday") to their opening range.
// A missing weekday means the hours are unknown and the place is treated as closed.
type OpeningHours map[string]DayHours

// SessionState is the per-session context used to serve refreshes.
type SessionState struct {
	City               string    `json:"city"`
	WeatherDescription string    `json:"weatherDescription"`
	TimeOfDay          TimeOfDay `json:"timeOfDay"`
	TimezoneOffset     *int      `json:"timezoneOffset,omitempty"`
	SeenActivities     []string  `json:"seenActivities"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Config wires runtime knobs for the activity domain.
type Config struct {
	Model             string
	Temperature       float32
	Prompt            string
	BatchSize         int
	Timezone          *time.Location
	LookupConcurrency int
	HoursCacheTTL     time.Duration
}
