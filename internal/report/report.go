// Package report computes grouped ridership sums and their share of the
// grand total, plus the database overview and per-line listings.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/ctaridership/internal/models"
)

var ErrDivideByZero = errors.New("grand total ridership is zero")

// Source is the slice of the store the reporter reads.
type Source interface {
	GroupTotals(ctx context.Context, key models.GroupKey, order models.Ordering, limit int) ([]models.GroupTotal, error)
	TotalRidership(ctx context.Context) (int64, error)
}

type Query struct {
	Key   models.GroupKey
	Order models.Ordering
	Limit int // zero or less means every group
}

// Row is one group with its raw share of the grand total, in percent.
type Row struct {
	Label   string
	Riders  int64
	Percent float64
}

// Run re-queries the source on every call. Percentages are taken against the
// grand total of the whole table, never against the limited rows returned.
func Run(ctx context.Context, src Source, q Query) ([]Row, error) {
	totals, err := src.GroupTotals(ctx, q.Key, q.Order, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("ridership by %s: %w", q.Key, err)
	}
	grand, err := src.TotalRidership(ctx)
	if err != nil {
		return nil, fmt.Errorf("grand total: %w", err)
	}

	rows := make([]Row, 0, len(totals))
	for _, t := range totals {
		pct, err := Percent(t.Riders, grand)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Label: t.Label, Riders: t.Riders, Percent: pct})
	}
	return rows, nil
}

// Percent returns 100*part/total.
func Percent(part, total int64) (float64, error) {
	if total == 0 {
		return 0, ErrDivideByZero
	}
	return 100 * float64(part) / float64(total), nil
}

// Standard reports offered by the console.
var (
	AllStations   = Query{Key: models.ByStation, Order: models.ByKeyAsc}
	TopStations   = Query{Key: models.ByStation, Order: models.ByValueDesc, Limit: 10}
	LeastStations = Query{Key: models.ByStation, Order: models.ByValueAsc, Limit: 10}
	ByMonth       = Query{Key: models.ByMonth, Order: models.ByKeyAsc}
	ByYear        = Query{Key: models.ByYear, Order: models.ByKeyAsc}
)
