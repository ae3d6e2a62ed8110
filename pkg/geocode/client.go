package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
)

// Result is a successful forward-geocoding lookup.
type Result struct {
	Lat       float64
	Lon       float64
	StateCode string
	Postcode  string
}

// Client resolves a free-form location string. A nil result with a nil error
// means the provider found no match, which is a normal, handled case.
type Client interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

const (
	requestTimeout = 5 * time.Second
	// one retry on transient failure, no more
	maxAttempts = 2
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewClient(logger *slog.Logger, baseURL string, apiKey string) *client {
	return &client{
		logger:  logger,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// client talks to an OpenCage-style forward geocoding endpoint.
type client struct {
	logger  *slog.Logger
	baseURL string
	apiKey  string
	client  *http.Client
}

type response struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
		Components struct {
			StateCode string `json:"state_code"`
			Postcode  string `json:"postcode"`
		} `json:"components"`
	} `json:"results"`
}

func (c client) Geocode(ctx context.Context, query string) (*Result, error) {
	requestURL := fmt.Sprintf("%s?q=%s&key=%s&limit=1", c.baseURL, url.QueryEscape(query), url.QueryEscape(c.apiKey))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, retryable, err := c.geocodeOnce(ctx, requestURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.logger.WarnContext(ctx, "Geocoding attempt failed", "attempt", attempt, "error", err)
	}

	return nil, errdef.NewUnavailable("geocoding provider unavailable: %v", lastErr)
}

func (c client) geocodeOnce(ctx context.Context, requestURL string) (*Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("geocoding provider returned %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("geocoding provider returned %s", resp.Status)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("failed to decode geocoding response: %v", err)
	}

	if len(body.Results) == 0 {
		return nil, false, nil
	}

	first := body.Results[0]
	if first.Geometry.Lat < -90 || first.Geometry.Lat > 90 || first.Geometry.Lng < -180 || first.Geometry.Lng > 180 {
		// out-of-range coordinates are treated as no result
		c.logger.WarnContext(ctx, "Geocoding provider returned out-of-range coordinates",
			"lat", first.Geometry.Lat, "lon", first.Geometry.Lng)
		return nil, false, nil
	}

	return &Result{
		Lat:       first.Geometry.Lat,
		Lon:       first.Geometry.Lng,
		StateCode: first.Components.StateCode,
		Postcode:  first.Components.Postcode,
	}, false, nil
}
