package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lox/ctaridership/internal/models"
)

// LineStops lists the stops served by every line whose colour matches the
// pattern, ordered by stop name. A stop with no recorded direction has an
// empty Direction.
func (s *Store) LineStops(ctx context.Context, colorPattern string) (stops []models.LineStop, err error) {
	ctx, done := s.begin(ctx, "line_stops")
	defer func() { done(err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT Stop_Name, Direction, ADA
		FROM Stops
		JOIN StopDetails ON Stops.Stop_ID = StopDetails.Stop_ID
		JOIN Lines ON StopDetails.Line_ID = Lines.Line_ID
		WHERE Color LIKE ?
		ORDER BY Stop_Name ASC
	`, colorPattern)
	if err != nil {
		return nil, fmt.Errorf("line stops: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st models.LineStop
		var direction sql.NullString
		if err := rows.Scan(&st.Name, &direction, &st.Accessible); err != nil {
			return nil, fmt.Errorf("scan line stop: %w", err)
		}
		st.Direction = direction.String
		stops = append(stops, st)
	}
	return stops, rows.Err()
}

// LineStations lists the distinct stations (with stop coordinates) served by
// lines whose colour matches the pattern, ordered by station name. Missing
// coordinates read as zero, which falls outside any map extent.
func (s *Store) LineStations(ctx context.Context, colorPattern string) (stations []models.Station, err error) {
	ctx, done := s.begin(ctx, "line_stations")
	defer func() { done(err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT Stations.Station_ID, Station_Name, Latitude, Longitude
		FROM Stations
		JOIN Stops ON Stations.Station_ID = Stops.Station_ID
		JOIN StopDetails ON Stops.Stop_ID = StopDetails.Stop_ID
		JOIN Lines ON StopDetails.Line_ID = Lines.Line_ID
		WHERE Color LIKE ?
		ORDER BY Station_Name ASC
	`, colorPattern)
	if err != nil {
		return nil, fmt.Errorf("line stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st models.Station
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&st.ID, &st.Name, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan line station: %w", err)
		}
		st.Latitude, st.Longitude = lat.Float64, lon.Float64
		stations = append(stations, st)
	}
	return stations, rows.Err()
}
