package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

// The table and column names follow the CTA L daily ridership database so an
// existing export opens without conversion. Every statement is IF NOT EXISTS
// for the same reason.
var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS Stations (
    Station_ID INTEGER PRIMARY KEY,
    Station_Name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS Stops (
    Stop_ID INTEGER PRIMARY KEY,
    Station_ID INTEGER NOT NULL REFERENCES Stations(Station_ID),
    Stop_Name TEXT NOT NULL,
    Direction TEXT,
    ADA INTEGER NOT NULL DEFAULT 0,
    Latitude REAL,
    Longitude REAL
);

CREATE TABLE IF NOT EXISTS Lines (
    Line_ID INTEGER PRIMARY KEY,
    Color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS StopDetails (
    Stop_ID INTEGER NOT NULL REFERENCES Stops(Stop_ID),
    Line_ID INTEGER NOT NULL REFERENCES Lines(Line_ID),
    PRIMARY KEY (Stop_ID, Line_ID)
);

CREATE TABLE IF NOT EXISTS Ridership (
    Station_ID INTEGER NOT NULL REFERENCES Stations(Station_ID),
    Ride_Date TEXT NOT NULL,
    Type_of_Day TEXT NOT NULL,
    Num_Riders INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "Index ridership by station and date for yearly series",
		SQL: `
CREATE INDEX IF NOT EXISTS idx_ridership_station_date ON Ridership(Station_ID, Ride_Date);
CREATE INDEX IF NOT EXISTS idx_stations_name ON Stations(Station_Name);
`,
	},
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		log.Printf("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}

		log.Printf("migrations: completed %d", m.Version)
	}

	return nil
}

func (s *Store) ensureMigrationsTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (s *Store) MigrationVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
