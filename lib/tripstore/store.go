// tripstore archives completed scrape runs in sqlite so degraded runs
// (low record counts) can be spotted after the fact.
package tripstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"farescan-backend/lib/models"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

// Open opens a local sqlite file or a remote libsql database
// depending on the DSN scheme, applying the schema if needed.
func Open(dsn string) (*sql.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(dsn, "libsql://") {
		driver = "libsql"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(Schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return nil, err
	}
	return db, nil
}

type PushRequest struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []models.TripRecord
}

// Push inserts one run with its records in a single transaction and
// returns the run id.
func (s Store) Push(ctx context.Context, req PushRequest) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, record_count) VALUES (?, ?, ?)`,
		req.StartedAt.Unix(), req.FinishedAt.Unix(), len(req.Records),
	)
	if err != nil {
		return 0, err
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (
			run_id, route_url, origin, destination, date,
			departure_time, arrival_time, transport_type, duration,
			price, currency, price_inr, operator, provider
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, rec := range req.Records {
		_, err = stmt.ExecContext(ctx,
			runID, rec.RouteURL, rec.Origin, rec.Destination, rec.Date,
			rec.DepartureTime, rec.ArrivalTime, rec.TransportType, rec.Duration,
			rec.Price, rec.Currency, rec.PriceINR, rec.Operator, rec.Provider,
		)
		if err != nil {
			return 0, err
		}
	}

	return runID, tx.Commit()
}

type RunSummary struct {
	ID          int64
	StartedAt   time.Time
	FinishedAt  time.Time
	RecordCount int64
}

// Runs returns the most recent run summaries, newest first.
func (s Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, record_count
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var started, finished int64
		err = rows.Scan(&run.ID, &started, &finished, &run.RecordCount)
		if err != nil {
			return nil, err
		}
		run.StartedAt = time.Unix(started, 0)
		run.FinishedAt = time.Unix(finished, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunRecords reads back the records archived for one run.
func (s Store) RunRecords(ctx context.Context, runID int64) ([]models.TripRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT route_url, origin, destination, date,
			departure_time, arrival_time, transport_type, duration,
			price, currency, price_inr, operator, provider
		FROM trips WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TripRecord
	for rows.Next() {
		var rec models.TripRecord
		err = rows.Scan(
			&rec.RouteURL, &rec.Origin, &rec.Destination, &rec.Date,
			&rec.DepartureTime, &rec.ArrivalTime, &rec.TransportType, &rec.Duration,
			&rec.Price, &rec.Currency, &rec.PriceINR, &rec.Operator, &rec.Provider,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
