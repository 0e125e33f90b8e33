package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
)

// GeocodeClient resolves free-text postal codes to coordinates through the
// place-index service.
type GeocodeClient struct {
	baseURL string
	index   string
	client  *http.Client
}

// NewGeocodeClient creates a new GeocodeClient.
func NewGeocodeClient(baseURL, index string) *GeocodeClient {
	return &GeocodeClient{
		baseURL: baseURL,
		index:   index,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Search resolves text to coordinates. A lookup that finds nothing returns
// (nil, nil); callers treat that the same as an upstream failure and abort.
func (c *GeocodeClient) Search(ctx context.Context, text string) (*models.Coordinates, error) {
	path := fmt.Sprintf("%s/v1/indexes/%s/search?text=%s",
		c.baseURL,
		url.PathEscape(c.index),
		url.QueryEscape(text),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned %d", resp.StatusCode)
	}

	var coords models.Coordinates
	if err := json.NewDecoder(resp.Body).Decode(&coords); err != nil {
		return nil, err
	}
	return &coords, nil
}
