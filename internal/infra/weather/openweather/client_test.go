package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/activity-finder/internal/infra/upstream"
)

const forecastFixture = `{
  "cod": "200",
  "list": [
    {"main": {"temp": 22.4}, "weather": [{"description": "clear sky", "icon": "01d"}]},
    {"main": {"temp": 19.0}, "weather": [{"description": "few clouds", "icon": "02n"}]}
  ],
  "city": {"name": "Casablanca", "timezone": 3600}
}`

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forecast", r.URL.Path)
		require.Equal(t, "33.57", r.URL.Query().Get("lat"))
		require.Equal(t, "-7.59", r.URL.Query().Get("lon"))
		require.Equal(t, "key", r.URL.Query().Get("appid"))
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		_, _ = w.Write([]byte(forecastFixture))
	}))
	defer srv.Close()

	client := NewClient("key", srv.URL, "", upstream.Policy{Timeout: time.Second})
	weather, err := client.Current(context.Background(), 33.57, -7.59)
	require.NoError(t, err)
	require.Equal(t, "Casablanca", weather.City)
	require.Equal(t, 22.4, weather.Temperature)
	require.Equal(t, "clear sky", weather.Description)
	require.Equal(t, "01d", weather.Icon)
	require.NotNil(t, weather.TimezoneOffset)
	require.Equal(t, 3600, *weather.TimezoneOffset)
}

func TestCurrentUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad", srv.URL, "metric", upstream.Policy{Timeout: time.Second, MaxRetries: 1, Backoff: time.Millisecond})
	_, err := client.Current(context.Background(), 0, 0)
	require.ErrorIs(t, err, upstream.ErrUnavailable)
}

func TestNormalizeRequiresSlots(t *testing.T) {
	_, err := normalize(forecastResponse{})
	require.Error(t, err)
}
