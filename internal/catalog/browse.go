package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"filmdesk/internal/services"
)

// Latest returns the most recently added works of the given kind.
func (c *Client) Latest(ctx context.Context, kind string) ([]Work, error) {
	path := "/works/latest"
	query := url.Values{}
	if kind = strings.TrimSpace(kind); kind != "" {
		query.Set("type", kind)
	}
	endpoint := c.endpoint(path)
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	data, err := c.do(ctx, request{method: http.MethodGet, url: endpoint, path: path})
	if err != nil {
		return nil, err
	}
	raw := unwrapEnvelope(data, "data", "works")
	if isNull(raw) {
		return nil, nil
	}
	var works []Work
	if err := json.Unmarshal(raw, &works); err != nil {
		return nil, services.Wrap(services.ErrTransport, "catalog", "latest works", "decode response", err)
	}
	return works, nil
}

// LatestMixed returns latest films followed by latest series, truncated to
// limit. Both lists are fetched concurrently.
func (c *Client) LatestMixed(ctx context.Context, limit int) ([]Work, error) {
	var films, series []Work
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		films, err = c.Latest(groupCtx, KindFilm)
		return err
	})
	group.Go(func() error {
		var err error
		series, err = c.Latest(groupCtx, KindSeries)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	works := append(films, series...)
	if limit > 0 && len(works) > limit {
		works = works[:limit]
	}
	return works, nil
}

// AverageRatings fetches aggregate ratings keyed by work id.
func (c *Client) AverageRatings(ctx context.Context, ids []string) (map[string]Rating, error) {
	if len(ids) == 0 {
		return map[string]Rating{}, nil
	}
	path := "/ratings/average"
	body := struct {
		WorkIDs []string `json:"workIds"`
	}{WorkIDs: ids}
	data, err := c.do(ctx, request{method: http.MethodPost, url: c.endpoint(path), path: path, jsonBody: body})
	if err != nil {
		return nil, err
	}
	raw := unwrapEnvelope(data, "data", "ratings")
	ratings := map[string]Rating{}
	if isNull(raw) {
		return ratings, nil
	}
	if err := json.Unmarshal(raw, &ratings); err != nil {
		return nil, services.Wrap(services.ErrTransport, "catalog", "average ratings", "decode response", err)
	}
	return ratings, nil
}
