package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	apperrors "github.com/yanqian/activity-finder/pkg/errors"
	"github.com/yanqian/activity-finder/pkg/util"
)

// Service serves the initial suggestion batch and "something else" refreshes.
type Service interface {
	Start(ctx context.Context, sessionID string, coords Coordinates) (StartResult, error)
	Refresh(ctx context.Context, sessionID string, req RefreshRequest) (RefreshResult, error)
}

// WeatherClient fetches current conditions for a coordinate.
type WeatherClient interface {
	Current(ctx context.Context, lat, lon float64) (Weather, error)
}

// CandidateSource produces unfiltered suggestion batches.
type CandidateSource interface {
	Generate(ctx context.Context, in GenerationInput) []Suggestion
}

// OpenFilter keeps the suggestions that are open at a given instant.
type OpenFilter interface {
	FilterOpen(ctx context.Context, candidates []Suggestion, now time.Time) []Suggestion
}

type service struct {
	cfg       Config
	weather   WeatherClient
	generator CandidateSource
	hours     OpenFilter
	tracker   *Tracker
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the refresh orchestrator.
func NewService(cfg Config, weather WeatherClient, generator *Generator, hours *HoursLookup, store SessionStore, logger *slog.Logger) Service {
	if cfg.Timezone == nil {
		cfg.Timezone = time.Local
	}
	return &service{
		cfg:       cfg,
		weather:   weather,
		generator: generator,
		hours:     hours,
		tracker:   NewTracker(store),
		logger:    logger.With("component", "activity.service"),
		now:       time.Now,
	}
}

func (s *service) Start(ctx context.Context, sessionID string, coords Coordinates) (StartResult, error) {
	lat, lon, err := validateCoordinates(coords)
	if err != nil {
		return StartResult{}, apperrors.Wrap("invalid_input", "lat and lon must be valid coordinates", err)
	}
	if strings.TrimSpace(sessionID) == "" {
		return StartResult{}, apperrors.Wrap("missing_session", "session is required", nil)
	}

	weather, err := s.weather.Current(ctx, lat, lon)
	if err != nil {
		return StartResult{}, apperrors.Wrap("upstream_unavailable", "failed to fetch weather data", err)
	}
	now := util.LocalTime(s.now(), weather.TimezoneOffset, s.cfg.Timezone)
	timeOfDay := TimeOfDayFor(now.Hour())
	s.logger.Info("weather fetched", "city", weather.City, "description", weather.Description, "time_of_day", timeOfDay)

	unlock := s.tracker.Lock(sessionID)
	defer unlock()

	state, _, err := s.tracker.Load(ctx, sessionID)
	if err != nil {
		return StartResult{}, apperrors.Wrap("session_error", "failed to load session", err)
	}
	state.City = weather.City
	state.WeatherDescription = weather.Description
	state.TimeOfDay = timeOfDay
	state.TimezoneOffset = weather.TimezoneOffset

	candidates := s.generator.Generate(ctx, GenerationInput{
		WeatherDescription: weather.Description,
		TimeOfDay:          timeOfDay,
		City:               weather.City,
	})
	open := s.hours.FilterOpen(ctx, Dedupe(candidates), now)
	fresh := ExcludeSeen(open, state.SeenActivities)

	state.SeenActivities = MarkSeen(state.SeenActivities, places(fresh)...)
	state.UpdatedAt = s.now().UTC()
	if err := s.tracker.Save(ctx, sessionID, state); err != nil {
		return StartResult{}, apperrors.Wrap("session_error", "failed to save session", err)
	}
	s.logger.Info("suggestions served", "city", weather.City, "generated", len(candidates), "open", len(open), "served", len(fresh))

	return StartResult{
		Status:     "success",
		Weather:    weather,
		Activities: fresh,
	}, nil
}

func (s *service) Refresh(ctx context.Context, sessionID string, req RefreshRequest) (RefreshResult, error) {
	dismissed := strings.TrimSpace(req.DismissedActivity)
	place := strings.TrimSpace(req.Place)
	if dismissed == "" && place == "" {
		return RefreshResult{}, apperrors.Wrap("invalid_input", "dismissed_activity or place is required", nil)
	}
	if place == "" {
		place = dismissed
	}
	if strings.TrimSpace(sessionID) == "" {
		return RefreshResult{}, apperrors.Wrap("missing_session", "no weather context for this session", nil)
	}

	unlock := s.tracker.Lock(sessionID)
	defer unlock()

	state, ok, err := s.tracker.Load(ctx, sessionID)
	if err != nil {
		return RefreshResult{}, apperrors.Wrap("session_error", "failed to load session", err)
	}
	if !ok || state.City == "" {
		return RefreshResult{}, apperrors.Wrap("missing_session", "no weather context for this session", nil)
	}

	state.SeenActivities = Forget(state.SeenActivities, place)
	now := util.LocalTime(s.now(), state.TimezoneOffset, s.cfg.Timezone)

	candidates := s.generator.Generate(ctx, GenerationInput{
		WeatherDescription: state.WeatherDescription,
		TimeOfDay:          state.TimeOfDay,
		City:               state.City,
		Exclusion:          exclusionHint(dismissed, place),
	})
	open := s.hours.FilterOpen(ctx, Dedupe(candidates), now)
	fresh := ExcludeSeen(open, state.SeenActivities)

	var result RefreshResult
	if len(fresh) == 0 {
		result.Message = NoNewActivitiesMessage
	} else {
		state.SeenActivities = MarkSeen(state.SeenActivities, fresh[0].Place)
		result.NewActivity = fresh
	}
	state.UpdatedAt = s.now().UTC()
	if err := s.tracker.Save(ctx, sessionID, state); err != nil {
		return RefreshResult{}, apperrors.Wrap("session_error", "failed to save session", err)
	}
	s.logger.Info("refresh served", "dismissed", place, "generated", len(candidates), "open", len(open), "served", len(fresh))
	return result, nil
}

func validateCoordinates(c Coordinates) (float64, float64, error) {
	if c.Lat == nil || c.Lon == nil {
		return 0, 0, errors.New("lat and lon are required")
	}
	lat, lon := *c.Lat, *c.Lon
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("lat out of range: %v", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("lon out of range: %v", lon)
	}
	return lat, lon, nil
}

func exclusionHint(dismissed, place string) string {
	if dismissed != "" && dismissed != place {
		return fmt.Sprintf("Do not suggest %q at %s again.", dismissed, place)
	}
	return fmt.Sprintf("Do not suggest %s again.", place)
}

func places(items []Suggestion) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Place)
	}
	return out
}
