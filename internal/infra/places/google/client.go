package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/yanqian/activity-finder/internal/domain/activity"
	"github.com/yanqian/activity-finder/internal/infra/upstream"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Client resolves places and their opening hours via the Google Places web service.
type Client struct {
	apiKey     string
	baseURL    string
	policy     upstream.Policy
	httpClient *http.Client
}

// NewClient builds a Places API client.
func NewClient(apiKey, baseURL string, policy upstream.Policy) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if policy.Name == "" {
		policy.Name = "google_places"
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(base, "/"),
		policy:     policy,
		httpClient: &http.Client{},
	}
}

// SearchPlace runs a text search and returns the first result's place_id.
func (c *Client) SearchPlace(ctx context.Context, name string) (string, bool, error) {
	query := url.Values{}
	query.Set("query", name)
	query.Set("key", c.apiKey)

	var raw struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Results      []struct {
			PlaceID string `json:"place_id"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, "/textsearch/json?"+query.Encode(), &raw); err != nil {
		return "", false, err
	}
	switch raw.Status {
	case "OK", "ZERO_RESULTS":
	default:
		return "", false, fmt.Errorf("%w: google_places: text search status=%s %s", upstream.ErrUnavailable, raw.Status, raw.ErrorMessage)
	}
	if len(raw.Results) == 0 || raw.Results[0].PlaceID == "" {
		return "", false, nil
	}
	return raw.Results[0].PlaceID, true, nil
}

// PlaceOpeningHours fetches the weekday_text lines for a place.
func (c *Client) PlaceOpeningHours(ctx context.Context, placeID string) ([]string, bool, error) {
	query := url.Values{}
	query.Set("place_id", placeID)
	query.Set("fields", "opening_hours")
	query.Set("key", c.apiKey)

	var raw struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Result       struct {
			OpeningHours *struct {
				WeekdayText []string `json:"weekday_text"`
			} `json:"opening_hours"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, "/details/json?"+query.Encode(), &raw); err != nil {
		return nil, false, err
	}
	switch raw.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS":
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("%w: google_places: details status=%s %s", upstream.ErrUnavailable, raw.Status, raw.ErrorMessage)
	}
	if raw.Result.OpeningHours == nil || len(raw.Result.OpeningHours.WeekdayText) == 0 {
		return nil, false, nil
	}
	return raw.Result.OpeningHours.WeekdayText, true, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	var body []byte
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("build places request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("places request failed: %w", err)
		}
		defer resp.Body.Close()
		if err := upstream.CheckResponse(resp); err != nil {
			return fmt.Errorf("places request error: %w", err)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}

var _ activity.PlacesClient = (*Client)(nil)
