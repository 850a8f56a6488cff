package tranzy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.tranzy.ai/v1/opendata"

// Client talks to the Tranzy open data API. The bulk endpoints degrade to an
// empty collection on any failure; only the per-shape endpoint is rate limited
// upstream and carries a retry policy.
type Client struct {
	BaseURL  string
	APIKey   string
	AgencyID string

	HTTPClient *http.Client

	// Pacing and retry policy for the rate limited shapes endpoint.
	ShapeRequestInterval time.Duration
	ShapeInitialBackoff  time.Duration
	ShapeMaxAttempts     int

	limiter *rate.Limiter
}

func NewClient(baseURL string, apiKey string, agencyID string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	requestInterval := 1500 * time.Millisecond

	return &Client{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		AgencyID: agencyID,

		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},

		ShapeRequestInterval: requestInterval,
		ShapeInitialBackoff:  2 * time.Second,
		ShapeMaxAttempts:     3,

		// Burst of 1 keeps shape requests strictly serial, 2 req/s budget.
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
	}
}

func (client *Client) get(ctx context.Context, resource string, params url.Values, destination interface{}) error {
	requestURL := fmt.Sprintf("%s/%s", client.BaseURL, resource)
	if len(params) > 0 {
		requestURL = fmt.Sprintf("%s?%s", requestURL, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("X-API-KEY", client.APIKey)
	if client.AgencyID != "" {
		req.Header.Set("X-Agency-Id", client.AgencyID)
	}

	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return errRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s returned status %d", resource, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(destination)
}

// fetchCollection wraps a bulk endpoint. An empty collection means "no data
// available" and is never an error; callers must not treat it as fatal.
func fetchCollection[T any](client *Client, ctx context.Context, resource string) []T {
	var records []T

	err := client.get(ctx, resource, nil, &records)
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Msg("Failed to fetch collection")
		return []T{}
	}

	return records
}

func (client *Client) Routes(ctx context.Context) []RouteRecord {
	return fetchCollection[RouteRecord](client, ctx, "routes")
}

func (client *Client) Stops(ctx context.Context) []StopRecord {
	return fetchCollection[StopRecord](client, ctx, "stops")
}

func (client *Client) Trips(ctx context.Context) []TripRecord {
	return fetchCollection[TripRecord](client, ctx, "trips")
}

func (client *Client) StopTimes(ctx context.Context) []StopTimeRecord {
	return fetchCollection[StopTimeRecord](client, ctx, "stop_times")
}
