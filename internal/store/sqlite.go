package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lox/ctaridership/internal/metrics"
	"github.com/lox/ctaridership/internal/models"
)

const DefaultQueryTimeout = 30 * time.Second

// Store is the read side of the ridership database. All queries are
// parameterized; user supplied patterns only ever travel as values.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

type Option func(*Store)

// WithQueryTimeout bounds every query issued by the store. Zero disables the bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Store) { s.queryTimeout = d }
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, queryTimeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WaitReady pings the database until it answers and the Stations table is
// readable. Busy or locked databases are retried with exponential backoff;
// anything else fails immediately.
func (s *Store) WaitReady(ctx context.Context) error {
	operation := func() error {
		if err := s.db.PingContext(ctx); err != nil {
			if isBusy(err) {
				return err
			}
			return backoff.Permanent(fmt.Errorf("ping: %w", err))
		}
		var n int64
		if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM Stations").Scan(&n); err != nil {
			if isBusy(err) {
				return err
			}
			return backoff.Permanent(fmt.Errorf("check schema: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	notify := func(err error, wait time.Duration) {
		log.Printf("store: database not ready, retrying in %s: %v", wait, err)
	}
	return backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify)
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// begin scopes a query to the store timeout. The returned func must be called
// with the query's final error to release the context and record metrics.
func (s *Store) begin(ctx context.Context, query string) (context.Context, func(error)) {
	cancel := context.CancelFunc(func() {})
	if s.queryTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
	}
	start := time.Now()
	return ctx, func(err error) {
		cancel()
		metrics.QueryLatency.WithLabelValues(query).Observe(time.Since(start).Seconds())
		status := "ok"
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			status = "timeout"
		case err != nil:
			status = "error"
		}
		metrics.QueriesTotal.WithLabelValues(query, status).Inc()
	}
}

func (s *Store) FindStations(ctx context.Context, pattern string) (stations []models.Station, err error) {
	ctx, done := s.begin(ctx, "find_stations")
	defer func() { done(err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT Station_ID, Station_Name
		FROM Stations
		WHERE Station_Name LIKE ?
		ORDER BY Station_Name ASC
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("find stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st models.Station
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

func (s *Store) FindLines(ctx context.Context, pattern string) (lines []models.Line, err error) {
	ctx, done := s.begin(ctx, "find_lines")
	defer func() { done(err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT Line_ID, Color
		FROM Lines
		WHERE Color LIKE ?
		ORDER BY Color ASC
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("find lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.Line
		if err := rows.Scan(&l.ID, &l.Color); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *Store) UpsertStation(ctx context.Context, st models.Station) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO Stations (Station_ID, Station_Name)
		VALUES (?, ?)
		ON CONFLICT(Station_ID) DO UPDATE SET
			Station_Name = excluded.Station_Name
	`, st.ID, st.Name)
	return err
}

func (s *Store) UpsertStop(ctx context.Context, stop models.Stop) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO Stops (Stop_ID, Station_ID, Stop_Name, Direction, ADA, Latitude, Longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(Stop_ID) DO UPDATE SET
			Station_ID = excluded.Station_ID,
			Stop_Name = excluded.Stop_Name,
			Direction = excluded.Direction,
			ADA = excluded.ADA,
			Latitude = excluded.Latitude,
			Longitude = excluded.Longitude
	`, stop.ID, stop.StationID, stop.Name, stop.Direction, stop.Accessible, stop.Latitude, stop.Longitude)
	return err
}

func (s *Store) UpsertLine(ctx context.Context, l models.Line) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO Lines (Line_ID, Color)
		VALUES (?, ?)
		ON CONFLICT(Line_ID) DO UPDATE SET
			Color = excluded.Color
	`, l.ID, l.Color)
	return err
}

func (s *Store) AddStopToLine(ctx context.Context, stopID, lineID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO StopDetails (Stop_ID, Line_ID)
		VALUES (?, ?)
		ON CONFLICT(Stop_ID, Line_ID) DO NOTHING
	`, stopID, lineID)
	return err
}
