package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/activity-finder/internal/infra/upstream"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("key", srv.URL, upstream.Policy{Timeout: time.Second, Backoff: time.Millisecond})
}

func TestSearchPlace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/textsearch/json", r.URL.Path)
		require.Equal(t, "Hassan II Mosque", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"place_id":"abc"},{"place_id":"def"}]}`))
	})

	id, found, err := client.SearchPlace(context.Background(), "Hassan II Mosque")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "abc", id)
}

func TestSearchPlaceZeroResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	_, found, err := client.SearchPlace(context.Background(), "Nowhere")
	require.NoError(t, err)
	require.False(t, found)
}

func TestSearchPlaceDenied(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
	})

	_, _, err := client.SearchPlace(context.Background(), "Anything")
	require.ErrorIs(t, err, upstream.ErrUnavailable)
}

func TestPlaceOpeningHours(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/details/json", r.URL.Path)
		require.Equal(t, "abc", r.URL.Query().Get("place_id"))
		require.Equal(t, "opening_hours", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"status":"OK","result":{"opening_hours":{"weekday_text":["Monday: 9:00 AM – 5:00 PM","Tuesday: Closed"]}}}`))
	})

	lines, found, err := client.PlaceOpeningHours(context.Background(), "abc")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"Monday: 9:00 AM – 5:00 PM", "Tuesday: Closed"}, lines)
}

func TestPlaceOpeningHoursMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":{}}`))
	})

	_, found, err := client.PlaceOpeningHours(context.Background(), "abc")
	require.NoError(t, err)
	require.False(t, found)
}

func TestPlaceOpeningHoursServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := client.PlaceOpeningHours(context.Background(), "abc")
	require.ErrorIs(t, err, upstream.ErrUnavailable)
}
