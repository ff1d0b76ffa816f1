package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/activity-finder/internal/domain/activity"
	"github.com/yanqian/activity-finder/internal/infra/upstream"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client reads current conditions from the OpenWeatherMap forecast API.
type Client struct {
	apiKey     string
	baseURL    string
	units      string
	policy     upstream.Policy
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL, units string, policy upstream.Policy) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if strings.TrimSpace(units) == "" {
		units = "metric"
	}
	if policy.Name == "" {
		policy.Name = "openweather"
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(base, "/"),
		units:      units,
		policy:     policy,
		httpClient: &http.Client{},
	}
}

// Current returns the first forecast slot for the coordinate.
func (c *Client) Current(ctx context.Context, lat, lon float64) (activity.Weather, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("appid", c.apiKey)
	query.Set("units", c.units)
	endpoint := c.baseURL + "/forecast?" + query.Encode()

	var body []byte
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		body, err = c.get(ctx, endpoint)
		return err
	})
	if err != nil {
		return activity.Weather{}, err
	}

	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return activity.Weather{}, fmt.Errorf("decode weather response: %w", err)
	}
	return normalize(raw)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := upstream.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("weather request error: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}
	return body, nil
}

type forecastResponse struct {
	City struct {
		Name     string `json:"name"`
		Timezone *int   `json:"timezone"`
	} `json:"city"`
	List []forecastSlot `json:"list"`
}

type forecastSlot struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func normalize(raw forecastResponse) (activity.Weather, error) {
	if len(raw.List) == 0 {
		return activity.Weather{}, errors.New("weather response has no forecast slots")
	}
	slot := raw.List[0]
	w := activity.Weather{
		City:           raw.City.Name,
		Temperature:    slot.Main.Temp,
		TimezoneOffset: raw.City.Timezone,
	}
	if len(slot.Weather) > 0 {
		w.Description = slot.Weather[0].Description
		w.Icon = slot.Weather[0].Icon
	}
	return w, nil
}
