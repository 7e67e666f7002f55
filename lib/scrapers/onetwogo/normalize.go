package onetwogo

import (
	"log/slog"

	"farescan-backend/lib/chrono"
	"farescan-backend/lib/currency"
	"farescan-backend/lib/models"
)

const timestampLayout = "2006-01-02 15:04"

func (c *Client) normalize(route models.Route, date string, payload searchResponse, rates currency.RateTable) []models.TripRecord {
	var records []models.TripRecord
	for _, trip := range payload.Trips {
		if flaggedOff(trip["visible"]) || flaggedOff(trip["bookable"]) {
			continue
		}
		records = append(records, c.normalizeTrip(route, date, trip, payload.Operators, rates))
	}
	return records
}

// flaggedOff reports whether a visibility/bookability flag is
// explicitly false. Most entries omit the flags entirely, which
// counts as on.
func flaggedOff(v any) bool {
	switch flag := v.(type) {
	case bool:
		return !flag
	case float64:
		return flag == 0
	}
	return false
}

func (c *Client) normalizeTrip(
	route models.Route,
	date string,
	trip map[string]any,
	operators map[string]operatorEntry,
	rates currency.RateTable,
) models.TripRecord {
	rec := models.TripRecord{
		RouteURL:    c.routeURL(route),
		Origin:      route.Origin,
		Destination: route.Destination,
		Date:        date,
		Provider:    ProviderTag,
	}

	if transport, ok := asString(trip["transport_type"]); ok {
		rec.TransportType = &transport
	}

	rec.Operator = resolveOperator(trip, operators)

	code, amount := tripPrice(trip)
	if code != "" {
		rec.Currency = &code
	}
	rec.Price = amount
	if code != "" && amount != nil {
		rec.PriceINR = currency.Convert(rates, code, *amount)
		if rec.PriceINR == nil {
			slog.Warn("no conversion rate for currency",
				"currency", code,
				"origin", route.Origin,
				"destination", route.Destination,
				"date", date)
		}
	}

	departure, depOK := chrono.ParseFlexible(trip["departure_time"], date)
	arrival, arrOK := chrono.ParseFlexible(trip["arrival_time"], date)
	if depOK {
		formatted := departure.Format(timestampLayout)
		rec.DepartureTime = &formatted
	}
	if arrOK {
		formatted := arrival.Format(timestampLayout)
		rec.ArrivalTime = &formatted
	}
	if depOK && arrOK {
		label := chrono.DurationLabel(departure, arrival)
		rec.Duration = &label
	}

	return rec
}

type priceCandidate struct {
	location string
	object   any
}

// priceCandidates lists every place a trip entry may carry a price,
// in priority order: per-travel-option price, the top-level params
// price, then per-segment prices.
func priceCandidates(trip map[string]any) []priceCandidate {
	var candidates []priceCandidate

	if options, ok := asSlice(trip["travel_options"]); ok {
		for _, option := range options {
			if obj, ok := asMap(option); ok {
				candidates = append(candidates, priceCandidate{"travel option", obj["price"]})
			}
		}
	}
	if params, ok := asMap(trip["params"]); ok {
		candidates = append(candidates, priceCandidate{"params", params["price"]})
	}
	if segments, ok := asSlice(trip["segments"]); ok {
		for _, segment := range segments {
			if obj, ok := asMap(segment); ok {
				candidates = append(candidates, priceCandidate{"segment", obj["price"]})
			}
		}
	}
	return candidates
}

// tripPrice applies the extractor across the candidate locations,
// stopping at the first that yields both a currency and an amount. A
// currency seen without any amount is still kept so the record can
// report it alongside a null price.
func tripPrice(trip map[string]any) (string, *float64) {
	var firstCode string
	for _, candidate := range priceCandidates(trip) {
		code, amount := ExtractPrice(candidate.object)
		if code != "" && amount != nil {
			return code, amount
		}
		if firstCode == "" {
			firstCode = code
		}
	}
	return firstCode, nil
}

// resolveOperator prefers the trip's inline operator name, then a
// travel option's inline name, and only then the id lookup against
// the per-response operator directory.
func resolveOperator(trip map[string]any, operators map[string]operatorEntry) *string {
	if name, ok := asString(trip["operator_name"]); ok {
		return &name
	}

	if options, ok := asSlice(trip["travel_options"]); ok {
		for _, option := range options {
			obj, ok := asMap(option)
			if !ok {
				continue
			}
			if name, ok := asString(obj["operator_name"]); ok {
				return &name
			}
		}
	}

	id := stringifyID(trip["operator_id"])
	if id == "" {
		return nil
	}
	if entry, ok := operators[id]; ok && entry.Name != "" {
		name := entry.Name
		return &name
	}
	return nil
}
