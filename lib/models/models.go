package models

// Route is one origin/destination pair the scraper is configured to
// query. Routes are loaded once at startup and never mutated.
type Route struct {
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	OriginSlug      string `json:"origin_slug"`
	DestinationSlug string `json:"destination_slug"`
	OriginID        string `json:"origin_id"`
	DestinationID   string `json:"destination_id"`
}

// TripRecord is the flat output schema shared with the dashboard
// backend. Origin, Destination and Date are always set; the pointer
// fields stay nil (JSON null) when the upstream payload was missing
// or unparseable for that field. A missing price must never be
// reported as zero.
type TripRecord struct {
	RouteURL      string   `json:"route_url"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	Date          string   `json:"date"`
	DepartureTime *string  `json:"departure_time"`
	ArrivalTime   *string  `json:"arrival_time"`
	TransportType *string  `json:"transport_type"`
	Duration      *string  `json:"duration"`
	Price         *float64 `json:"price"`
	Currency      *string  `json:"currency"`
	PriceINR      *float64 `json:"price_inr"`
	Operator      *string  `json:"operator"`
	Provider      string   `json:"provider"`
}
