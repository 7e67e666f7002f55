package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func rateServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolvePrimarySource(t *testing.T) {
	primary := rateServer(t, 200, `{"rates":{"USD":0.012,"THB":0.42}}`)
	secondary := rateServer(t, 200, `{"rates":{"USD":99}}`)

	r := NewResolver("INR")
	r.Sources = []Source{
		{Name: "primary", URL: primary.URL},
		{Name: "secondary", URL: secondary.URL},
	}

	table := r.Resolve(context.Background())
	require.Equal(t, 0.012, table["USD"])
	require.Equal(t, float64(1), table["INR"])
}

func TestResolveEscalatesToSecondary(t *testing.T) {
	primary := rateServer(t, 500, `oops`)
	secondary := rateServer(t, 200, `{"rates":{"USD":0.013}}`)

	r := NewResolver("INR")
	r.Sources = []Source{
		{Name: "primary", URL: primary.URL},
		{Name: "secondary", URL: secondary.URL},
	}

	table := r.Resolve(context.Background())
	require.Equal(t, 0.013, table["USD"])
	require.Equal(t, float64(1), table["INR"])
}

func TestResolveStaticFallback(t *testing.T) {
	broken := rateServer(t, 200, `not json`)

	r := NewResolver("INR")
	r.Sources = []Source{{Name: "broken", URL: broken.URL}}

	table := r.Resolve(context.Background())
	require.Equal(t, fallbackRates["USD"], table["USD"])
	require.Equal(t, float64(1), table["INR"])
}

func TestResolveDoesNotMutateFallback(t *testing.T) {
	broken := rateServer(t, 500, ``)

	r := NewResolver("INR")
	r.Sources = []Source{{Name: "broken", URL: broken.URL}}

	usd := fallbackRates["USD"]
	first := r.Resolve(context.Background())
	first["USD"] = 12345
	second := r.Resolve(context.Background())

	require.Equal(t, usd, fallbackRates["USD"])
	require.Equal(t, usd, second["USD"])
}

func TestRateForPatchesFromFallback(t *testing.T) {
	// live table without LAK: the lookup should fill the gap from
	// static data instead of reporting absent
	table := RateTable{"USD": 0.012}

	rate, ok := RateFor(table, "LAK")
	require.True(t, ok)
	require.Equal(t, fallbackRates["LAK"], rate)

	_, ok = RateFor(table, "XXX")
	require.False(t, ok)
}

func TestConvert(t *testing.T) {
	table := RateTable{"USD": 0.012}

	got := Convert(table, "USD", 12)
	require.NotNil(t, got)
	require.Equal(t, float64(1000), *got)

	require.Nil(t, Convert(table, "XXX", 12))
	require.Nil(t, Convert(RateTable{"BAD": 0}, "BAD", 12))
}
