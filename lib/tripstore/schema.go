package tripstore

const Schema = `
CREATE TABLE runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at INTEGER NOT NULL,
    finished_at INTEGER NOT NULL,
    record_count INTEGER NOT NULL
);

CREATE TABLE trips (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id),
    route_url TEXT NOT NULL,
    origin TEXT NOT NULL,
    destination TEXT NOT NULL,
    date TEXT NOT NULL,
    departure_time TEXT,
    arrival_time TEXT,
    transport_type TEXT,
    duration TEXT,
    price REAL,
    currency TEXT,
    price_inr REAL,
    operator TEXT,
    provider TEXT NOT NULL
);

CREATE INDEX trips_run_id ON trips(run_id);
CREATE INDEX trips_route ON trips(origin, destination, date);
`
