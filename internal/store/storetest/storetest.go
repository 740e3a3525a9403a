// Package storetest opens migrated in-memory stores and seeds them with a
// small slice of the CTA network for tests.
package storetest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/ctaridership/internal/models"
	"github.com/lox/ctaridership/internal/store"
)

// Fixture station IDs.
const (
	ClarkLake  int64 = 40380
	StateLake  int64 = 40260
	Jackson    int64 = 40560
	UICHalsted int64 = 40350
)

// Fixture totals, derived from Ridership below.
const (
	TotalRiders     int64 = 75000
	ClarkLakeRiders int64 = 45000
	StateLakeRiders int64 = 12500
	JacksonRiders   int64 = 17000
	UICRiders       int64 = 500
	WeekdayRiders   int64 = 62500
	SaturdayRiders  int64 = 9000
	SundayRiders    int64 = 3500
)

var Stations = []models.Station{
	{ID: ClarkLake, Name: "Clark/Lake"},
	{ID: StateLake, Name: "State/Lake"},
	{ID: Jackson, Name: "Jackson/State"},
	{ID: UICHalsted, Name: "UIC-Halsted"},
}

var Stops = []models.Stop{
	{ID: 30074, StationID: ClarkLake, Name: "Clark/Lake (Inner Loop)", Direction: "E", Accessible: true, Latitude: 41.885737, Longitude: -87.630886},
	{ID: 30075, StationID: ClarkLake, Name: "Clark/Lake (Outer Loop)", Direction: "W", Accessible: true, Latitude: 41.885737, Longitude: -87.630886},
	{ID: 30050, StationID: StateLake, Name: "State/Lake (Inner Loop)", Direction: "W", Accessible: false, Latitude: 41.88574, Longitude: -87.627835},
	{ID: 30110, StationID: Jackson, Name: "Jackson/State (Howard-bound)", Direction: "N", Accessible: true, Latitude: 41.878153, Longitude: -87.627596},
	{ID: 30069, StationID: UICHalsted, Name: "UIC-Halsted (Forest Pk-bound)", Direction: "W", Accessible: true, Latitude: 41.875474, Longitude: -87.649707},
}

var Lines = []models.Line{
	{ID: 1, Color: "Red"},
	{ID: 2, Color: "Blue"},
	{ID: 3, Color: "Brown"},
	{ID: 4, Color: "Purple-Express"},
}

// StopLines maps stop IDs to the lines serving them.
var StopLines = map[int64][]int64{
	30074: {3, 4},
	30075: {3},
	30050: {3},
	30110: {1},
	30069: {2},
}

var Ridership = []models.RidershipRecord{
	{StationID: ClarkLake, Date: Date(2021, 1, 4), DayType: models.Weekday, Riders: 10000},
	{StationID: ClarkLake, Date: Date(2021, 1, 9), DayType: models.Saturday, Riders: 4000},
	{StationID: ClarkLake, Date: Date(2022, 1, 3), DayType: models.Weekday, Riders: 12000},
	{StationID: ClarkLake, Date: Date(2022, 1, 4), DayType: models.Weekday, Riders: 11000},
	{StationID: ClarkLake, Date: Date(2022, 1, 8), DayType: models.Saturday, Riders: 5000},
	{StationID: ClarkLake, Date: Date(2022, 1, 9), DayType: models.SundayHoliday, Riders: 3000},
	{StationID: StateLake, Date: Date(2022, 1, 4), DayType: models.Weekday, Riders: 6500},
	{StationID: StateLake, Date: Date(2022, 1, 3), DayType: models.Weekday, Riders: 6000},
	{StationID: Jackson, Date: Date(2021, 1, 4), DayType: models.Weekday, Riders: 8000},
	{StationID: Jackson, Date: Date(2022, 2, 1), DayType: models.Weekday, Riders: 9000},
	{StationID: UICHalsted, Date: Date(2022, 1, 9), DayType: models.SundayHoliday, Riders: 500},
}

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// New returns a migrated, empty in-memory store.
func New(t *testing.T) *store.Store {
	t.Helper()
	st, _ := Open(t)
	return st
}

// Open is New plus the underlying database, for tests that need rows the
// store API cannot write.
func Open(t *testing.T) (*store.Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Each pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st, db
}

// Seeded returns a store holding the fixture network.
func Seeded(t *testing.T) *store.Store {
	t.Helper()
	st := New(t)
	Seed(t, st)
	return st
}

func Seed(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	for _, s := range Stations {
		if err := st.UpsertStation(ctx, s); err != nil {
			t.Fatalf("UpsertStation %d: %v", s.ID, err)
		}
	}
	for _, s := range Stops {
		if err := st.UpsertStop(ctx, s); err != nil {
			t.Fatalf("UpsertStop %d: %v", s.ID, err)
		}
	}
	for _, l := range Lines {
		if err := st.UpsertLine(ctx, l); err != nil {
			t.Fatalf("UpsertLine %d: %v", l.ID, err)
		}
	}
	for stopID, lineIDs := range StopLines {
		for _, lineID := range lineIDs {
			if err := st.AddStopToLine(ctx, stopID, lineID); err != nil {
				t.Fatalf("AddStopToLine %d/%d: %v", stopID, lineID, err)
			}
		}
	}
	if err := st.InsertRidership(ctx, Ridership...); err != nil {
		t.Fatalf("InsertRidership: %v", err)
	}
}

// Year returns one ridership row per consecutive day of year starting on
// 1 January, skipping the ordinal day numbers listed in missing.
func Year(stationID int64, year int, days int, missing ...int) []models.RidershipRecord {
	skip := make(map[int]bool, len(missing))
	for _, d := range missing {
		skip[d] = true
	}
	var out []models.RidershipRecord
	for d := 1; d <= days; d++ {
		if skip[d] {
			continue
		}
		out = append(out, models.RidershipRecord{
			StationID: stationID,
			Date:      time.Date(year, 1, d, 0, 0, 0, 0, time.UTC),
			DayType:   models.Weekday,
			Riders:    int64(1000 + d),
		})
	}
	return out
}
