package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"co_monitoring/internal/models"
)

const sqliteDriverName = "sqlite"

const schemaReadings = `
CREATE TABLE IF NOT EXISTS readings (
    tent_id TEXT NOT NULL,
    ts INTEGER NOT NULL,
    temperature_c REAL NOT NULL,
    humidity_pct REAL NOT NULL,
    co_ppm REAL NOT NULL
);
`

const indexReadings = `
CREATE INDEX IF NOT EXISTS idx_readings_tent_ts ON readings (tent_id, ts DESC);
`

// InitDB opens/creates the SQLite readings database and ensures the schema.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Single connection: SQLite handles concurrent writers poorly, and the
	// in-memory database used by tests lives per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	for _, stmt := range []string{schemaReadings, indexReadings} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

const insertReadingSQL = `
INSERT INTO readings (tent_id, ts, temperature_c, humidity_pct, co_ppm)
VALUES (?, ?, ?, ?, ?)
`

// ReadingStore appends readings to the local structured-storage table the
// local query engine reads from.
type ReadingStore struct {
	db *sql.DB
}

func NewReadingStore(db *sql.DB) *ReadingStore {
	return &ReadingStore{db: db}
}

func (s *ReadingStore) Append(ctx context.Context, r models.TelemetryReading) error {
	_, err := s.db.ExecContext(ctx, insertReadingSQL,
		r.TentID, r.Timestamp, r.TemperatureC, r.HumidityPct, r.COPpm,
	)
	return err
}
