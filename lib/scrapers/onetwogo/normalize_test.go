package onetwogo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"farescan-backend/lib/currency"
	"farescan-backend/lib/models"

	"github.com/stretchr/testify/require"
)

var testRoute = models.Route{
	Origin:          "Bangkok",
	Destination:     "Chiang Mai",
	OriginSlug:      "bangkok",
	DestinationSlug: "chiang-mai",
	OriginID:        "1447",
	DestinationID:   "1615",
}

const searchPayload = `{
	"operators": {"77": {"name": "Siam Lines"}},
	"trips": [
		{
			"visible": true,
			"bookable": true,
			"transport_type": "bus",
			"operator_id": 77,
			"departure_time": "21:30",
			"arrival_time": "05:15",
			"travel_options": [{"price": {"fxcode": "THB", "value": 750}}]
		},
		{
			"visible": false,
			"transport_type": "bus",
			"travel_options": [{"price": {"fxcode": "THB", "value": 400}}]
		},
		{
			"transport_type": "train",
			"operator_name": "Eastern Rail",
			"departure_time": 1735689600,
			"params": {"price": {"fxcode": "ZZZ", "value": 100}}
		},
		{
			"travel_options": [{"operator_name": "Green Travels"}],
			"segments": [{"price": {"fxcode": "USD", "value": 0, "display_value": 42}}]
		}
	]
}`

func searchTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL(srv.URL)
}

func TestFetchDay(t *testing.T) {
	var query url.Values
	client := searchTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(searchPayload))
	})

	rates := currency.RateTable{"THB": 0.42, "USD": 0.012}
	records, err := client.FetchDay(context.Background(), testRoute, "2025-06-20", rates)
	require.NoError(t, err)

	require.Equal(t, "1447", query.Get("from"))
	require.Equal(t, "1615", query.Get("to"))
	require.Equal(t, "bangkok", query.Get("fromslug"))
	require.Equal(t, "1", query.Get("people"))
	require.Equal(t, "2025-06-20", query.Get("date"))

	// the not-visible entry is skipped
	require.Len(t, records, 3)
	for _, rec := range records {
		require.Equal(t, "Bangkok", rec.Origin)
		require.Equal(t, "Chiang Mai", rec.Destination)
		require.Equal(t, "2025-06-20", rec.Date)
		require.Equal(t, ProviderTag, rec.Provider)
		require.Contains(t, rec.RouteURL, "/en/travel/bangkok/chiang-mai")
	}

	overnight := records[0]
	require.Equal(t, "bus", *overnight.TransportType)
	require.Equal(t, "Siam Lines", *overnight.Operator)
	require.Equal(t, "2025-06-20 21:30", *overnight.DepartureTime)
	require.Equal(t, "2025-06-20 05:15", *overnight.ArrivalTime)
	require.Equal(t, "7h 45m", *overnight.Duration)
	require.Equal(t, float64(750), *overnight.Price)
	require.Equal(t, "THB", *overnight.Currency)
	require.InDelta(t, 1785.71, *overnight.PriceINR, 0.01)

	train := records[1]
	require.Equal(t, "Eastern Rail", *train.Operator)
	require.NotNil(t, train.DepartureTime)
	require.Nil(t, train.ArrivalTime)
	require.Nil(t, train.Duration)
	require.Equal(t, "ZZZ", *train.Currency)
	require.Equal(t, float64(100), *train.Price)
	// unconvertible currency keeps the record but nulls the
	// converted price
	require.Nil(t, train.PriceINR)

	sparse := records[2]
	require.Equal(t, "Green Travels", *sparse.Operator)
	require.Nil(t, sparse.TransportType)
	require.Nil(t, sparse.DepartureTime)
	require.Equal(t, "USD", *sparse.Currency)
	require.Equal(t, float64(42), *sparse.Price)
	require.InDelta(t, 3500, *sparse.PriceINR, 0.01)
}

func TestFetchDayUpstreamError(t *testing.T) {
	client := searchTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.FetchDay(context.Background(), testRoute, "2025-06-20", currency.RateTable{})
	require.Error(t, err)
}

func TestFetchDayMalformedBody(t *testing.T) {
	client := searchTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>blocked</html>"))
	})

	_, err := client.FetchDay(context.Background(), testRoute, "2025-06-20", currency.RateTable{})
	require.Error(t, err)
}

func TestFetchDayEmptyTrips(t *testing.T) {
	client := searchTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"operators": {}, "trips": []}`))
	})

	records, err := client.FetchDay(context.Background(), testRoute, "2025-06-20", currency.RateTable{})
	require.NoError(t, err)
	require.Empty(t, records)
}
