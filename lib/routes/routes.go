package routes

import (
	"encoding/json"
	"fmt"
	"os"

	"farescan-backend/lib/models"
)

// Load reads the static route list. This is the only fatal input of
// the scraper: without routes there is nothing to schedule, so the
// caller should exit on error.
func Load(path string) ([]models.Route, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var routes []models.Route
	err = json.Unmarshal(contents, &routes)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("route list %q is empty", path)
	}

	for i, r := range routes {
		if r.Origin == "" || r.Destination == "" {
			return nil, fmt.Errorf("route %d in %q is missing an origin or destination", i, path)
		}
	}
	return routes, nil
}
