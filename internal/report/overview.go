package report

import (
	"context"
	"fmt"
	"time"

	"github.com/lox/ctaridership/internal/models"
)

type StatsSource interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// DayTypeShare is the ridership of one day type and its share of the grand total.
type DayTypeShare struct {
	DayType models.DayType
	Riders  int64
	Percent float64
}

type Overview struct {
	Stations  int64
	Stops     int64
	Entries   int64
	FirstDate time.Time
	LastDate  time.Time
	Total     int64
	DayTypes  []DayTypeShare
}

// BuildOverview gathers the general statistics shown at startup. A database
// with no ridership fails with ErrDivideByZero when computing the shares.
func BuildOverview(ctx context.Context, src StatsSource) (*Overview, error) {
	stats, err := src.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("general stats: %w", err)
	}

	o := &Overview{
		Stations:  stats.Stations,
		Stops:     stats.Stops,
		Entries:   stats.Entries,
		FirstDate: stats.FirstDate,
		LastDate:  stats.LastDate,
		Total:     stats.Total,
	}
	for _, dt := range models.DayTypes {
		riders := stats.ByDayType[dt]
		pct, err := Percent(riders, stats.Total)
		if err != nil {
			return o, fmt.Errorf("%s share: %w", dt.Label(), err)
		}
		o.DayTypes = append(o.DayTypes, DayTypeShare{DayType: dt, Riders: riders, Percent: pct})
	}
	return o, nil
}
