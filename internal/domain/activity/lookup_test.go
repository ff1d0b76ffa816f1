package activity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var weekdayHours = []string{
	"Monday: 9:00 AM – 5:00 PM",
	"Tuesday: 9:00 AM – 5:00 PM",
}

func TestLookupResolvesAndParses(t *testing.T) {
	places := newStubPlaces()
	places.ids["Museum"] = "m1"
	places.hours["m1"] = weekdayHours
	lookup := NewHoursLookup(Config{}, places, nil, newTestLogger())

	hours, ok := lookup.Lookup(context.Background(), "Museum")
	require.True(t, ok)
	require.Equal(t, DayHours{Open: "09:00", Close: "17:00"}, hours["Monday"])
}

func TestLookupAbsentCases(t *testing.T) {
	places := newStubPlaces()
	places.ids["No Hours"] = "p1"
	places.ids["Broken"] = "p2"
	places.detailsErr["p2"] = errors.New("status=500")
	lookup := NewHoursLookup(Config{}, places, nil, newTestLogger())

	_, ok := lookup.Lookup(context.Background(), "Unknown")
	require.False(t, ok)
	_, ok = lookup.Lookup(context.Background(), "No Hours")
	require.False(t, ok)
	_, ok = lookup.Lookup(context.Background(), "Broken")
	require.False(t, ok)
	_, ok = lookup.Lookup(context.Background(), "   ")
	require.False(t, ok)
}

func TestLookupUsesCache(t *testing.T) {
	places := newStubPlaces()
	places.ids["Museum"] = "m1"
	places.hours["m1"] = weekdayHours
	cache := newStubHoursCache()
	lookup := NewHoursLookup(Config{HoursCacheTTL: time.Hour}, places, cache, newTestLogger())

	for i := 0; i < 3; i++ {
		_, ok := lookup.Lookup(context.Background(), "Museum")
		require.True(t, ok)
	}
	_, ok := lookup.Lookup(context.Background(), "  museum ")
	require.True(t, ok)
	require.Equal(t, 1, places.searchCalls())

	_, ok = lookup.Lookup(context.Background(), "Nowhere")
	require.False(t, ok)
	_, ok = lookup.Lookup(context.Background(), "Nowhere")
	require.False(t, ok)
	require.Equal(t, 2, places.searchCalls())
}

func TestLookupDoesNotCacheFailures(t *testing.T) {
	places := newStubPlaces()
	places.searchErr = errors.New("timeout")
	cache := newStubHoursCache()
	lookup := NewHoursLookup(Config{HoursCacheTTL: time.Hour}, places, cache, newTestLogger())

	lookup.Lookup(context.Background(), "Museum")
	lookup.Lookup(context.Background(), "Museum")
	require.Equal(t, 2, places.searchCalls())
	require.Empty(t, cache.entries)
}

func TestFilterOpenPreservesOrder(t *testing.T) {
	places := newStubPlaces()
	for _, name := range []string{"A", "B", "C", "D"} {
		places.ids[name] = "id-" + name
	}
	places.hours["id-A"] = weekdayHours
	places.hours["id-B"] = []string{"Monday: 6:00 PM – 11:00 PM"}
	places.hours["id-D"] = weekdayHours
	lookup := NewHoursLookup(Config{LookupConcurrency: 2}, places, nil, newTestLogger())

	monday := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	got := lookup.FilterOpen(context.Background(), []Suggestion{{Place: "A"}, {Place: "B"}, {Place: "C"}, {Place: "D"}}, monday)
	require.Equal(t, []Suggestion{{Place: "A"}, {Place: "D"}}, got)
}

func TestLookupSharedCallSurvivesCallerCancel(t *testing.T) {
	places := &blockingPlaces{entered: make(chan struct{}), release: make(chan struct{})}
	lookup := NewHoursLookup(Config{}, places, nil, newTestLogger())

	ctxA, cancelA := context.WithCancel(context.Background())
	foundA := make(chan bool, 1)
	go func() {
		_, ok := lookup.Lookup(ctxA, "Museum")
		foundA <- ok
	}()
	<-places.entered

	foundB := make(chan bool, 1)
	go func() {
		_, ok := lookup.Lookup(context.Background(), "Museum")
		foundB <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	cancelA()
	close(places.release)

	require.True(t, <-foundB)
	require.True(t, <-foundA)
	require.Equal(t, int32(1), places.searches.Load())
}

// blockingPlaces holds the first search until released and then fails if the
// context it was given has been cancelled.
type blockingPlaces struct {
	entered  chan struct{}
	release  chan struct{}
	once     sync.Once
	searches atomic.Int32
}

func (b *blockingPlaces) SearchPlace(ctx context.Context, _ string) (string, bool, error) {
	b.searches.Add(1)
	b.once.Do(func() { close(b.entered) })
	<-b.release
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return "m1", true, nil
}

func (b *blockingPlaces) PlaceOpeningHours(ctx context.Context, _ string) ([]string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return weekdayHours, true, nil
}

type stubPlaces struct {
	mu         sync.Mutex
	ids        map[string]string
	hours      map[string][]string
	detailsErr map[string]error
	searchErr  error
	searches   int
}

func newStubPlaces() *stubPlaces {
	return &stubPlaces{
		ids:        make(map[string]string),
		hours:      make(map[string][]string),
		detailsErr: make(map[string]error),
	}
}

func (s *stubPlaces) SearchPlace(_ context.Context, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches++
	if s.searchErr != nil {
		return "", false, s.searchErr
	}
	id, ok := s.ids[name]
	return id, ok, nil
}

func (s *stubPlaces) PlaceOpeningHours(_ context.Context, placeID string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.detailsErr[placeID]; err != nil {
		return nil, false, err
	}
	lines, ok := s.hours[placeID]
	return lines, ok, nil
}

func (s *stubPlaces) searchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searches
}

type stubHoursCache struct {
	mu      sync.Mutex
	entries map[string]HoursRecord
}

func newStubHoursCache() *stubHoursCache {
	return &stubHoursCache{entries: make(map[string]HoursRecord)}
}

func (c *stubHoursCache) Get(_ context.Context, key string) (HoursRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.entries[key]
	return rec, ok, nil
}

func (c *stubHoursCache) Set(_ context.Context, key string, rec HoursRecord, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = rec
	return nil
}
