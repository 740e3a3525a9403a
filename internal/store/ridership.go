package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lox/ctaridership/internal/models"
)

const dateLayout = "2006-01-02"

// InsertRidership writes ridership rows in a single transaction. Nothing is
// written if any row fails ValidateRecord.
func (s *Store) InsertRidership(ctx context.Context, records ...models.RidershipRecord) error {
	if err := validateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ridership insert: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO Ridership (Station_ID, Ride_Date, Type_of_Day, Num_Riders)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare ridership insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.StationID, r.Date.Format(dateLayout), string(r.DayType), r.Riders); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert ridership for station %d on %s: %w", r.StationID, r.Date.Format(dateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ridership insert: %w", err)
	}
	return nil
}

// TotalRidership is the grand total of riders across every ridership row.
func (s *Store) TotalRidership(ctx context.Context) (total int64, err error) {
	ctx, done := s.begin(ctx, "total_ridership")
	defer func() { done(err) }()

	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(Num_Riders), 0) FROM Ridership").Scan(&total); err != nil {
		return 0, fmt.Errorf("total ridership: %w", err)
	}
	return total, nil
}

func (s *Store) Stats(ctx context.Context) (stats *models.Stats, err error) {
	ctx, done := s.begin(ctx, "stats")
	defer func() { done(err) }()

	stats = &models.Stats{ByDayType: make(map[models.DayType]int64)}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT count(*) FROM Stations", &stats.Stations},
		{"SELECT count(*) FROM Stops", &stats.Stops},
		{"SELECT count(*) FROM Ridership", &stats.Entries},
		{"SELECT COALESCE(SUM(Num_Riders), 0) FROM Ridership", &stats.Total},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats %q: %w", c.query, err)
		}
	}

	var first, last sql.NullString
	if err := s.db.QueryRowContext(ctx, "SELECT MIN(date(Ride_Date)), MAX(date(Ride_Date)) FROM Ridership").Scan(&first, &last); err != nil {
		return nil, fmt.Errorf("stats date range: %w", err)
	}
	if first.Valid {
		if stats.FirstDate, err = time.Parse(dateLayout, first.String); err != nil {
			return nil, fmt.Errorf("parse first ride date: %w", err)
		}
	}
	if last.Valid {
		if stats.LastDate, err = time.Parse(dateLayout, last.String); err != nil {
			return nil, fmt.Errorf("parse last ride date: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT Type_of_Day, SUM(Num_Riders) FROM Ridership GROUP BY Type_of_Day")
	if err != nil {
		return nil, fmt.Errorf("stats by day type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dayType string
		var riders int64
		if err := rows.Scan(&dayType, &riders); err != nil {
			return nil, fmt.Errorf("scan day type total: %w", err)
		}
		stats.ByDayType[models.DayType(dayType)] = riders
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

type grouping struct {
	label string
	from  string
}

var groupings = map[models.GroupKey]grouping{
	models.ByStation: {
		label: "Stations.Station_Name",
		from:  "Ridership JOIN Stations ON Ridership.Station_ID = Stations.Station_ID",
	},
	models.ByMonth: {
		label: "strftime('%m', Ride_Date)",
		from:  "Ridership",
	},
	models.ByYear: {
		label: "strftime('%Y', Ride_Date)",
		from:  "Ridership",
	},
}

// Value orderings break ties on the label in opposite directions so that the
// ascending ordering is exactly the reverse of the descending one.
var orderings = map[models.Ordering]string{
	models.ByKeyAsc:    "label ASC",
	models.ByValueDesc: "riders DESC, label ASC",
	models.ByValueAsc:  "riders ASC, label DESC",
}

// GroupTotals sums riders per group. A limit of zero or less returns every group.
func (s *Store) GroupTotals(ctx context.Context, key models.GroupKey, order models.Ordering, limit int) (totals []models.GroupTotal, err error) {
	g, ok := groupings[key]
	if !ok {
		return nil, fmt.Errorf("unknown group key %d", key)
	}
	orderBy, ok := orderings[order]
	if !ok {
		return nil, fmt.Errorf("unknown ordering %d", order)
	}

	ctx, done := s.begin(ctx, "group_totals_"+key.String())
	defer func() { done(err) }()

	query := fmt.Sprintf(`
		SELECT %s AS label, SUM(Num_Riders) AS riders
		FROM %s
		GROUP BY label
		ORDER BY %s`, g.label, g.from, orderBy)
	var args []any
	if limit > 0 {
		query += "\n\t\tLIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("group totals by %s: %w", key, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.GroupTotal
		if err := rows.Scan(&t.Label, &t.Riders); err != nil {
			return nil, fmt.Errorf("scan group total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// DailyRidership returns one station's rows for a calendar year in ascending
// date order.
func (s *Store) DailyRidership(ctx context.Context, stationID int64, year int) (counts []models.DailyCount, err error) {
	ctx, done := s.begin(ctx, "daily_ridership")
	defer func() { done(err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date(Ride_Date), Num_Riders
		FROM Ridership
		WHERE Station_ID = ? AND strftime('%Y', Ride_Date) = ?
		ORDER BY date(Ride_Date) ASC
	`, stationID, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, fmt.Errorf("daily ridership for station %d: %w", stationID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var dateStr string
		var c models.DailyCount
		if err := rows.Scan(&dateStr, &c.Riders); err != nil {
			return nil, fmt.Errorf("scan daily ridership: %w", err)
		}
		if c.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parse ride date %q: %w", dateStr, err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
