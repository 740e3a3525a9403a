package report

import (
	"context"
	"fmt"

	"github.com/lox/ctaridership/internal/models"
	"github.com/lox/ctaridership/internal/resolve"
)

type LineSource interface {
	LineStops(ctx context.Context, colorPattern string) ([]models.LineStop, error)
	LineStations(ctx context.Context, colorPattern string) ([]models.Station, error)
}

// LineStops lists every stop on the lines matching colorPattern. Several
// matching lines are merged rather than treated as ambiguous.
func LineStops(ctx context.Context, src LineSource, colorPattern string) ([]models.LineStop, error) {
	stops, err := src.LineStops(ctx, colorPattern)
	if err != nil {
		return nil, fmt.Errorf("stops for line %q: %w", colorPattern, err)
	}
	if len(stops) == 0 {
		return nil, resolve.NotFoundError("line", colorPattern)
	}
	return stops, nil
}

// LineStations lists the stations, with coordinates, on the lines matching colorPattern.
func LineStations(ctx context.Context, src LineSource, colorPattern string) ([]models.Station, error) {
	stations, err := src.LineStations(ctx, colorPattern)
	if err != nil {
		return nil, fmt.Errorf("stations for line %q: %w", colorPattern, err)
	}
	if len(stations) == 0 {
		return nil, resolve.NotFoundError("line", colorPattern)
	}
	return stations, nil
}
