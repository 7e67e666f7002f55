// collector schedules the full (route x day) scan, runs the fetches
// under a bounded worker pool and writes the aggregated result set.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"farescan-backend/lib/chrono"
	"farescan-backend/lib/currency"
	"farescan-backend/lib/models"
	"farescan-backend/lib/timezone"
	"farescan-backend/lib/tripstore"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("services/collector")

type Config struct {
	DaysAhead     int
	MaxConcurrent int
	OutputFile    string
}

// Fetcher scrapes one (route, date) cell. Implementations may fail
// per call; the collector contains those failures.
type Fetcher interface {
	FetchDay(ctx context.Context, route models.Route, date string, rates currency.RateTable) ([]models.TripRecord, error)
}

// Task is one (route, date) unit of scheduled work.
type Task struct {
	Route models.Route
	Date  string
}

// BuildTasks takes the Cartesian product of the routes and the next
// daysAhead calendar dates. All dates are derived from a single "now"
// so the whole run scans one consistent window, even if execution
// crosses midnight.
func BuildTasks(routes []models.Route, daysAhead int) []Task {
	today := timezone.Now()

	tasks := make([]Task, 0, len(routes)*daysAhead)
	for _, route := range routes {
		for day := 0; day < daysAhead; day++ {
			tasks = append(tasks, Task{
				Route: route,
				Date:  today.AddDate(0, 0, day).Format(chrono.DateLayout),
			})
		}
	}
	return tasks
}

type Summary struct {
	Elapsed      time.Duration
	TaskCount    int
	FailedCells  int
	TotalRecords int
	RouteRecords map[string]int
	// 0 when the run was not archived
	RunID int64
}

type Service struct {
	// Archive is optional; when set, completed runs are pushed to it
	Archive *tripstore.Store

	fetcher  Fetcher
	resolver *currency.Resolver
	routes   []models.Route
	cfg      Config
}

func NewService(fetcher Fetcher, resolver *currency.Resolver, routes []models.Route, cfg Config) *Service {
	return &Service{
		fetcher:  fetcher,
		resolver: resolver,
		routes:   routes,
		cfg:      cfg,
	}
}

// Run executes the whole scan to completion. A failed cell is logged
// and contributes zero records; only a failure to write the output
// artifact is returned as an error.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	start := timezone.Now()

	// the rate table is resolved exactly once, before any fetch
	// starts, and is read-only from here on
	rates := s.resolver.Resolve(ctx)

	tasks := BuildTasks(s.routes, s.cfg.DaysAhead)
	slog.InfoContext(ctx, "starting scan",
		"routes", len(s.routes),
		"tasks", len(tasks),
		"max_concurrent", s.cfg.MaxConcurrent)

	limit := s.cfg.MaxConcurrent
	if limit < 1 {
		limit = 1
	}

	var (
		mu           sync.Mutex
		records      = []models.TripRecord{}
		failedCells  int
		routeRecords = map[string]int{}
	)

	var group errgroup.Group
	group.SetLimit(limit)
	for _, task := range tasks {
		task := task
		group.Go(func() error {
			recs, err := s.fetcher.FetchDay(ctx, task.Route, task.Date, rates)
			if err != nil {
				slog.ErrorContext(ctx, "cell failed",
					"origin", task.Route.Origin,
					"destination", task.Route.Destination,
					"date", task.Date,
					"err", err)
				mu.Lock()
				failedCells++
				mu.Unlock()
				// contained: a failed cell never aborts its siblings
				return nil
			}

			mu.Lock()
			records = append(records, recs...)
			routeRecords[routeKey(task.Route)] += len(recs)
			mu.Unlock()
			return nil
		})
	}
	group.Wait()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return Summary{}, err
	}
	err = os.WriteFile(s.cfg.OutputFile, data, 0644)
	if err != nil {
		return Summary{}, fmt.Errorf("write output artifact: %w", err)
	}

	summary := Summary{
		Elapsed:      time.Since(start),
		TaskCount:    len(tasks),
		FailedCells:  failedCells,
		TotalRecords: len(records),
		RouteRecords: routeRecords,
	}

	if s.Archive != nil {
		runID, err := s.Archive.Push(ctx, tripstore.PushRequest{
			StartedAt:  start,
			FinishedAt: timezone.Now(),
			Records:    records,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to archive run", "err", err)
		} else {
			summary.RunID = runID
		}
	}

	slog.InfoContext(ctx, "scan finished",
		"elapsed", summary.Elapsed,
		"records", summary.TotalRecords,
		"failed_cells", summary.FailedCells)
	return summary, nil
}

func routeKey(route models.Route) string {
	return fmt.Sprintf("%s -> %s", route.Origin, route.Destination)
}
