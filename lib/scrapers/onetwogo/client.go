// onetwogo scrapes the 12go trip-search API, one (route, date) cell
// per request, normalizing its loosely-typed trip entries into flat
// records.
package onetwogo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farescan-backend/lib/currency"
	"farescan-backend/lib/models"
	"farescan-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/onetwogo")

const ProviderTag = "12go"

const defaultBaseURL = "https://12go.asia"
const searchPath = "/api/nuxt/en/trips/search"

// the upstream rejects requests that do not look like they came from
// a desktop browser
var browserHeaders = map[string]string{
	"accept":             "application/json, text/plain, */*",
	"accept-language":    "en-US,en;q=0.9",
	"sec-ch-ua":          `"Chromium";v="123", "Not:A-Brand";v="8"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"Windows"`,
	"sec-fetch-dest":     "empty",
	"sec-fetch-mode":     "cors",
	"sec-fetch-site":     "same-origin",
	"user-agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

type Client struct {
	http    *resty.Client
	baseURL string
}

func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

func NewClientWithBaseURL(baseURL string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeaders(browserHeaders)
	client.SetTimeout(time.Second * 15)

	// 4 requests max per second, shared across all workers
	limiter := rate.NewLimiter(4, 4)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, "scrapers/onetwogo/http")

	return &Client{http: client, baseURL: baseURL}
}

type searchResponse struct {
	Operators map[string]operatorEntry `json:"operators"`
	Trips     []map[string]any         `json:"trips"`
}

type operatorEntry struct {
	Name string `json:"name"`
}

// FetchDay issues one search request for a (route, date) cell and
// returns the normalized records. Errors cover the whole cell (network
// failure, non-2xx status, unparseable body); per-trip problems only
// null out the affected fields.
func (c *Client) FetchDay(ctx context.Context, route models.Route, date string, rates currency.RateTable) ([]models.TripRecord, error) {
	ctx, span := tracer.Start(ctx, "FetchDay")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from":      route.OriginID,
			"to":        route.DestinationID,
			"fromslug":  route.OriginSlug,
			"toslug":    route.DestinationSlug,
			"people":    "1",
			"date":      date,
			"direction": "departure",
		}).
		Get(searchPath)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("upstream returned status %d", res.StatusCode())
	}

	var payload searchResponse
	if err := json.Unmarshal(res.Body(), &payload); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	return c.normalize(route, date, payload, rates), nil
}

func (c *Client) routeURL(route models.Route) string {
	return fmt.Sprintf("%s/en/travel/%s/%s", c.baseURL, route.OriginSlug, route.DestinationSlug)
}
