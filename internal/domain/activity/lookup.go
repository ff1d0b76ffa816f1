package activity

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultLookupConcurrency = 4

// PlacesClient is the places directory used to resolve opening hours.
type PlacesClient interface {
	// SearchPlace returns the identifier of the first text-search hit.
	SearchPlace(ctx context.Context, name string) (string, bool, error)
	// PlaceOpeningHours returns the weekly opening-hours lines for a place.
	PlaceOpeningHours(ctx context.Context, placeID string) ([]string, bool, error)
}

// HoursRecord is what the hours cache keeps per place. Found=false caches a
// definitive "no hours" answer from the directory.
type HoursRecord struct {
	Hours OpeningHours `json:"hours,omitempty"`
	Found bool         `json:"found"`
}

// HoursCache stores resolved opening hours keyed by place name.
type HoursCache interface {
	Get(ctx context.Context, key string) (HoursRecord, bool, error)
	Set(ctx context.Context, key string, record HoursRecord, ttl time.Duration) error
}

// HoursLookup resolves place names to opening hours through the places
// directory, with a TTL cache in front and duplicate in-flight lookups collapsed.
type HoursLookup struct {
	client      PlacesClient
	cache       HoursCache
	ttl         time.Duration
	concurrency int
	group       singleflight.Group
	logger      *slog.Logger
}

// NewHoursLookup wires the lookup. A nil cache disables caching.
func NewHoursLookup(cfg Config, client PlacesClient, cache HoursCache, logger *slog.Logger) *HoursLookup {
	concurrency := cfg.LookupConcurrency
	if concurrency <= 0 {
		concurrency = defaultLookupConcurrency
	}
	return &HoursLookup{
		client:      client,
		cache:       cache,
		ttl:         cfg.HoursCacheTTL,
		concurrency: concurrency,
		logger:      logger.With("component", "activity.hours_lookup"),
	}
}

// Lookup returns the opening hours for place, or false when they cannot be resolved.
func (l *HoursLookup) Lookup(ctx context.Context, place string) (OpeningHours, bool) {
	key := cacheKey(place)
	if key == "" {
		return nil, false
	}
	if rec, ok := l.fromCache(ctx, key); ok {
		return rec.Hours, rec.Found
	}

	// Callers joining this key share the result, so one caller's cancellation
	// must not cut the lookup short for the others.
	v, _, _ := l.group.Do(key, func() (any, error) {
		rec, definitive := l.resolve(context.WithoutCancel(ctx), place)
		if definitive {
			l.toCache(ctx, key, rec)
		}
		return rec, nil
	})
	rec := v.(HoursRecord)
	return rec.Hours, rec.Found
}

// FilterOpen keeps the candidates that are open at now, in their original order.
func (l *HoursLookup) FilterOpen(ctx context.Context, candidates []Suggestion, now time.Time) []Suggestion {
	open := make([]bool, len(candidates))
	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			hours, ok := l.Lookup(ctx, candidate.Place)
			open[i] = ok && hours.IsOpenAt(now)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Suggestion, 0, len(candidates))
	for i, candidate := range candidates {
		if open[i] {
			out = append(out, candidate)
		}
	}
	return out
}

// resolve performs the two-step directory lookup. The bool reports whether the
// answer is definitive and therefore safe to cache.
func (l *HoursLookup) resolve(ctx context.Context, place string) (HoursRecord, bool) {
	placeID, found, err := l.client.SearchPlace(ctx, place)
	if err != nil {
		l.logger.Warn("place search failed", "place", place, "error", err)
		return HoursRecord{}, false
	}
	if !found {
		return HoursRecord{}, true
	}
	lines, found, err := l.client.PlaceOpeningHours(ctx, placeID)
	if err != nil {
		l.logger.Warn("place details failed", "place", place, "place_id", placeID, "error", err)
		return HoursRecord{}, false
	}
	if !found {
		return HoursRecord{}, true
	}
	return HoursRecord{Hours: ParseOpeningHours(lines), Found: true}, true
}

func (l *HoursLookup) fromCache(ctx context.Context, key string) (HoursRecord, bool) {
	if l.cache == nil || l.ttl <= 0 {
		return HoursRecord{}, false
	}
	rec, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		l.logger.Warn("hours cache read failed", "key", key, "error", err)
		return HoursRecord{}, false
	}
	return rec, ok
}

func (l *HoursLookup) toCache(ctx context.Context, key string, rec HoursRecord) {
	if l.cache == nil || l.ttl <= 0 {
		return
	}
	if err := l.cache.Set(ctx, key, rec, l.ttl); err != nil {
		l.logger.Warn("hours cache write failed", "key", key, "error", err)
	}
}

func cacheKey(place string) string {
	return strings.ToLower(strings.Join(strings.Fields(place), " "))
}
