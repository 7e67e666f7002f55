// currency resolves conversion rates between the currencies the
// upstream quotes prices in and the common currency every record is
// normalized to.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"farescan-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// RateTable maps a currency code to units of that currency per one
// unit of the common currency. Resolved once per run and treated as
// read-only afterwards.
type RateTable map[string]float64

// static rates used when no live source is reachable, or when a live
// table is missing a single currency. Never mutated.
var fallbackRates = RateTable{
	"INR": 1,
	"USD": 0.012,
	"EUR": 0.011,
	"GBP": 0.0095,
	"AED": 0.044,
	"THB": 0.42,
	"SGD": 0.016,
	"MYR": 0.055,
	"IDR": 190,
	"PHP": 0.68,
	"VND": 295,
	"LAK": 255,
	"KHR": 49,
	"NPR": 1.6,
	"LKR": 3.6,
	"BDT": 1.43,
	"CNY": 0.085,
	"JPY": 1.78,
}

// Source is one REST rate-table endpoint returning a `rates` map
// relative to the common currency.
type Source struct {
	Name string
	URL  string
}

type Resolver struct {
	Sources []Source

	http   *resty.Client
	common string
}

func NewResolver(common string) *Resolver {
	client := resty.New()
	client.SetTimeout(time.Second * 5)
	telemetry.InstrumentResty(client, "currency/http")

	return &Resolver{
		Sources: []Source{
			{Name: "er-api", URL: "https://open.er-api.com/v6/latest/" + common},
			{Name: "frankfurter", URL: "https://api.frankfurter.app/latest?from=" + common},
		},
		http:   client,
		common: common,
	}
}

// Resolve queries the sources in priority order and falls back to the
// static table wholesale when none responds. It never fails; at worst
// the run proceeds on the static rates. The returned table always
// maps the common currency to 1.
func (r *Resolver) Resolve(ctx context.Context) RateTable {
	for _, src := range r.Sources {
		table, err := r.fetch(ctx, src)
		if err != nil {
			slog.WarnContext(ctx, "rate source failed", "source", src.Name, "err", err)
			continue
		}
		slog.InfoContext(ctx, "resolved currency rates", "source", src.Name, "currencies", len(table))
		table[r.common] = 1
		return table
	}

	slog.WarnContext(ctx, "all rate sources failed, using static fallback table")
	table := make(RateTable, len(fallbackRates)+1)
	for code, rate := range fallbackRates {
		table[code] = rate
	}
	table[r.common] = 1
	return table
}

func (r *Resolver) fetch(ctx context.Context, src Source) (RateTable, error) {
	res, err := r.http.R().SetContext(ctx).Get(src.URL)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("rate source returned status %d", res.StatusCode())
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(res.Body(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rate source returned no rates")
	}

	table := make(RateTable, len(payload.Rates))
	for code, rate := range payload.Rates {
		table[code] = rate
	}
	return table, nil
}

// RateFor looks up a currency, patching individual gaps in a live
// table from the static fallback before reporting absent.
func RateFor(table RateTable, code string) (float64, bool) {
	if rate, ok := table[code]; ok {
		return rate, true
	}
	rate, ok := fallbackRates[code]
	return rate, ok
}

// Convert returns the common-currency equivalent of an amount, or nil
// when no rate is known for the currency.
func Convert(table RateTable, code string, amount float64) *float64 {
	rate, ok := RateFor(table, code)
	if !ok || rate <= 0 {
		return nil
	}
	converted := math.Round(amount/rate*100) / 100
	return &converted
}
