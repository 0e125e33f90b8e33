package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
)

// orderingURLRe finds the Uber Eats storefront link inside a store's listing
// HTML. The listing format is upstream's and can change without notice; a
// store whose listing yields no match is treated as not orderable.
var orderingURLRe = regexp.MustCompile(`(https?://www\.ubereats\.com[^ "]*)`)

// ExtractOrderingURL pulls the Uber Eats URL out of a store listing, if any.
func ExtractOrderingURL(rec models.StoreRecord) (string, bool) {
	match := orderingURLRe.FindStringSubmatch(rec.ListingHTML)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// LocatorClient queries the store-locator endpoint for stores near a
// coordinate pair.
type LocatorClient struct {
	endpoint string
	client   *http.Client
}

// NewLocatorClient creates a new LocatorClient.
func NewLocatorClient(endpoint string) *LocatorClient {
	return &LocatorClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Nearby returns stores around (lat, lng) ordered closest-first, as upstream
// reports them.
func (c *LocatorClient) Nearby(ctx context.Context, lat, lng float64, radius, category int) ([]models.StoreRecord, error) {
	form := url.Values{}
	form.Set("action", "get_stores")
	form.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	form.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	form.Set("radius", strconv.Itoa(radius))
	form.Set("categories[0]", strconv.Itoa(category))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// Upstream rejects requests without a plausible Referer.
	req.Header.Set("Referer", fmt.Sprintf("https://chatime.com/locations/?category=%d&radius=%d", category, radius))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store locator returned %d", resp.StatusCode)
	}

	var stores []models.StoreRecord
	if err := json.NewDecoder(resp.Body).Decode(&stores); err != nil {
		return nil, err
	}
	return stores, nil
}
