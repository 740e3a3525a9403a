// Package compare builds two stations' daily ridership for one year as
// ordinal series, ready to print as a boundary preview or to chart.
//
// Series are aligned by position, not by calendar date: point i of the first
// station is compared with point i of the second even when one of them is
// missing days. Callers that need date alignment must do it themselves.
package compare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lox/ctaridership/internal/models"
	"github.com/lox/ctaridership/internal/resolve"
)

// PreviewSize is how many leading and trailing points a preview shows.
const PreviewSize = 5

// Side labels tag errors with the input that caused them.
const (
	FirstSide  = "station 1"
	SecondSide = "station 2"
)

// ErrEmptySeries is wrapped by every *SeriesError.
var ErrEmptySeries = errors.New("no ridership for the requested year")

// SeriesError reports a resolved station with no rows in the requested year.
type SeriesError struct {
	Side    string
	Station models.Station
	Year    int
}

func (e *SeriesError) Error() string {
	return fmt.Sprintf("%s: %s has no ridership in %d", e.Side, e.Station.Name, e.Year)
}

func (e *SeriesError) Unwrap() error { return ErrEmptySeries }

type Source interface {
	resolve.StationFinder
	DailyRidership(ctx context.Context, stationID int64, year int) ([]models.DailyCount, error)
}

// Point is one day of a series. Index is the 1-based position of the row in
// ascending date order, which is the day of year only when no dates are missing.
type Point struct {
	Index  int
	Date   time.Time
	Riders int64
}

type Series struct {
	Station models.Station
	Points  []Point
}

// NewSeries numbers counts 1..n in the order given. counts must already be in
// ascending date order.
func NewSeries(st models.Station, counts []models.DailyCount) Series {
	points := make([]Point, len(counts))
	for i, c := range counts {
		points[i] = Point{Index: i + 1, Date: c.Date, Riders: c.Riders}
	}
	return Series{Station: st, Points: points}
}

func (s Series) Len() int { return len(s.Points) }

// Preview returns the first and last PreviewSize points. Short series are
// returned whole, each point once.
func (s Series) Preview() []Point {
	n := len(s.Points)
	var out []Point
	for _, p := range s.Points {
		if p.Index <= PreviewSize || p.Index > n-PreviewSize {
			out = append(out, p)
		}
	}
	return out
}

// Values returns rider counts as floats for charting.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = float64(p.Riders)
	}
	return out
}

type Request struct {
	First  string // station name pattern
	Second string
	Year   int

	// FirstStation, when set, is the already resolved first station and
	// First is not looked up again.
	FirstStation *models.Station
}

type Comparison struct {
	Year   int
	First  Series
	Second Series
}

// Axis is the shared x axis: the ordinal indices of the first series.
func (c *Comparison) Axis() []int {
	axis := make([]int, len(c.First.Points))
	for i, p := range c.First.Points {
		axis[i] = p.Index
	}
	return axis
}

// Resolve looks up one side of a comparison. Callers that prompt for the
// stations one at a time use it to reject a bad first station early and
// pass the result on as Request.FirstStation.
func Resolve(ctx context.Context, src resolve.StationFinder, pattern, side string) (models.Station, error) {
	return resolve.Station(ctx, src, pattern, side)
}

// Compare resolves both patterns, stopping at the first that does not name
// exactly one station, then loads each station's series for the year.
func Compare(ctx context.Context, src Source, req Request) (*Comparison, error) {
	var first models.Station
	if req.FirstStation != nil {
		first = *req.FirstStation
	} else {
		var err error
		if first, err = Resolve(ctx, src, req.First, FirstSide); err != nil {
			return nil, err
		}
	}
	second, err := Resolve(ctx, src, req.Second, SecondSide)
	if err != nil {
		return nil, err
	}

	c := &Comparison{Year: req.Year}
	if c.First, err = load(ctx, src, first, req.Year, FirstSide); err != nil {
		return nil, err
	}
	if c.Second, err = load(ctx, src, second, req.Year, SecondSide); err != nil {
		return nil, err
	}
	return c, nil
}

func load(ctx context.Context, src Source, st models.Station, year int, side string) (Series, error) {
	counts, err := src.DailyRidership(ctx, st.ID, year)
	if err != nil {
		return Series{}, fmt.Errorf("%s ridership: %w", side, err)
	}
	if len(counts) == 0 {
		return Series{}, &SeriesError{Side: side, Station: st, Year: year}
	}
	return NewSeries(st, counts), nil
}
