package onetwogo

import "log/slog"

// amountStrategy is one named way of recovering a usable amount from
// a price object whose primary value field is missing or non-positive.
// Strategies run in declaration order; the first positive hit wins.
type amountStrategy struct {
	name  string
	probe func(obj map[string]any) (float64, bool)
}

var amountStrategies = []amountStrategy{
	{
		name: "display value",
		probe: func(obj map[string]any) (float64, bool) {
			return positiveNumber(obj["display_value"])
		},
	},
	{
		name: "amount field",
		probe: func(obj map[string]any) (float64, bool) {
			return positiveNumber(obj["amount"])
		},
	},
	{
		name: "list-item value",
		probe: func(obj map[string]any) (float64, bool) {
			items, ok := asSlice(obj["items"])
			if !ok || len(items) == 0 {
				return 0, false
			}
			first, ok := asMap(items[0])
			if !ok {
				return 0, false
			}
			return positiveNumber(first["value"])
		},
	},
}

func positiveNumber(v any) (float64, bool) {
	n, ok := asNumber(v)
	return n, ok && n > 0
}

// ExtractPrice pulls a (currency code, amount) pair out of one price
// object. The amount is nil when no positive value can be found; the
// currency is empty when the input is not a price object at all.
func ExtractPrice(v any) (string, *float64) {
	obj, ok := asMap(v)
	if !ok {
		return "", nil
	}

	code, ok := asString(obj["fxcode"])
	if !ok {
		return "", nil
	}

	if n, ok := positiveNumber(obj["value"]); ok {
		return code, &n
	}
	for _, strategy := range amountStrategies {
		if n, ok := strategy.probe(obj); ok {
			slog.Debug("price amount recovered", "strategy", strategy.name, "currency", code)
			return code, &n
		}
	}
	return code, nil
}
