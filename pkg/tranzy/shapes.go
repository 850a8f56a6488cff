package tranzy

import (
	"context"
	"errors"
	"net/url"
	"sort"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

var errRateLimited = errors.New("upstream rate limit hit")

// Shapes fetches the geometry for every distinct shape referenced by trips.
// The endpoint is rate limited upstream so requests run strictly serially,
// paced by the client's token bucket. A 429 response is retried with
// exponential backoff up to ShapeMaxAttempts; any other error abandons that
// shape immediately. A shape that cannot be fetched is omitted from the
// result map rather than failing the batch.
func (client *Client) Shapes(ctx context.Context, trips []TripRecord) map[string][]ShapePoint {
	shapeIDSet := map[string]bool{}
	for _, trip := range trips {
		if trip.ShapeID != "" {
			shapeIDSet[trip.ShapeID] = true
		}
	}

	shapeIDs := make([]string, 0, len(shapeIDSet))
	for shapeID := range shapeIDSet {
		shapeIDs = append(shapeIDs, shapeID)
	}
	sort.Strings(shapeIDs)

	shapes := map[string][]ShapePoint{}

	for _, shapeID := range shapeIDs {
		points, err := client.fetchShape(ctx, shapeID)
		if err != nil {
			log.Warn().Err(err).Str("shape", shapeID).Msg("Failed to fetch shape")
			continue
		}

		shapes[shapeID] = points
	}

	return shapes
}

func (client *Client) fetchShape(ctx context.Context, shapeID string) ([]ShapePoint, error) {
	var points []ShapePoint

	attempt := 0
	operation := func() error {
		if err := client.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		attempt++

		params := url.Values{}
		params.Set("shape_id", shapeID)

		err := client.get(ctx, "shapes", params, &points)
		if errors.Is(err, errRateLimited) {
			log.Info().Str("shape", shapeID).Int("attempt", attempt).Int("max", client.ShapeMaxAttempts).Msg("Rate limit hit, backing off")
			return err
		}
		if err != nil {
			// Not a rate limit problem, retrying will not help.
			return backoff.Permanent(err)
		}

		return nil
	}

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = client.ShapeInitialBackoff
	retryBackoff.Multiplier = 2
	retryBackoff.RandomizationFactor = 0
	retryBackoff.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(retryBackoff, uint64(client.ShapeMaxAttempts-1)), ctx))
	if err != nil {
		return nil, err
	}

	return points, nil
}
