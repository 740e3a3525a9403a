package console

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lox/ctaridership/internal/chart"
	"github.com/lox/ctaridership/internal/compare"
	"github.com/lox/ctaridership/internal/format"
	"github.com/lox/ctaridership/internal/report"
	"github.com/lox/ctaridership/internal/resolve"
)

var errBadYear = errors.New("year is not a number")

var commands = map[string]func(*App, context.Context) error{
	"1": (*App).listStations,
	"2": (*App).allStations,
	"3": (*App).topStations,
	"4": (*App).leastStations,
	"5": (*App).lineStops,
	"6": (*App).byMonth,
	"7": (*App).byYear,
	"8": (*App).compareStations,
	"9": (*App).lineMap,
}

const (
	stationPrompt = "\nEnter partial station name (wildcards _ and %): "
	linePrompt    = "\nEnter a line color (e.g. Red or Yellow): "
)

func (a *App) listStations(ctx context.Context) error {
	pattern, err := a.prompt(stationPrompt)
	if err != nil {
		return err
	}

	r, err := resolve.Stations(ctx, a.store, pattern)
	if err != nil {
		return err
	}
	if r.Kind() == resolve.NotFound {
		a.println("**No stations found...")
		return nil
	}
	for _, st := range r.Candidates {
		a.printf("%d : %s\n", st.ID, st.Name)
	}
	return nil
}

func (a *App) allStations(ctx context.Context) error {
	return a.stationReport(ctx, "** ridership all stations **", report.AllStations)
}

func (a *App) topStations(ctx context.Context) error {
	return a.stationReport(ctx, "** top-10 stations **", report.TopStations)
}

func (a *App) leastStations(ctx context.Context) error {
	return a.stationReport(ctx, "** least-10 stations **", report.LeastStations)
}

func (a *App) stationReport(ctx context.Context, header string, q report.Query) error {
	a.println(header)
	rows, err := report.Run(ctx, a.store, q)
	if err != nil {
		return err
	}
	for _, r := range rows {
		a.printf("%s : %s\n", r.Label, format.Share(r.Riders, r.Percent))
	}
	return nil
}

func (a *App) lineStops(ctx context.Context) error {
	lineName, err := a.prompt(linePrompt)
	if err != nil {
		return err
	}

	stops, err := report.LineStops(ctx, a.store, lineName)
	if err != nil {
		return err
	}
	for _, s := range stops {
		accessible := "no"
		if s.Accessible {
			accessible = "yes"
		}
		a.printf("%s : direction =  %s (accessible? %s)\n", s.Name, s.Direction, accessible)
	}
	return nil
}

func (a *App) byMonth(ctx context.Context) error {
	a.println("** ridership by month **")
	return a.periodReport(ctx, report.ByMonth, "month", "monthly ridership", func(label string) string {
		return label
	})
}

func (a *App) byYear(ctx context.Context) error {
	a.println("** ridership by year **")
	return a.periodReport(ctx, report.ByYear, "year", "yearly ridership", func(label string) string {
		// Two digit years keep the axis readable.
		if len(label) == 4 {
			return label[2:]
		}
		return label
	})
}

func (a *App) periodReport(ctx context.Context, q report.Query, kind, title string, axisLabel func(string) string) error {
	rows, err := report.Run(ctx, a.store, q)
	if err != nil {
		return err
	}
	for _, r := range rows {
		a.printf("%s  :  %s\n", r.Label, format.Count(r.Riders))
	}

	ok, err := a.confirmPlot()
	if err != nil || !ok {
		return err
	}

	line := &chart.Line{
		Title:  title,
		XLabel: kind,
		YLabel: "number of riders",
		Series: []chart.Series{{Color: chart.Blue}},
	}
	for _, r := range rows {
		line.X = append(line.X, axisLabel(r.Label))
		line.Series[0].Values = append(line.Series[0].Values, float64(r.Riders))
	}
	a.plotted(a.plotter.PlotLine(kind, line))
	return nil
}

func (a *App) compareStations(ctx context.Context) error {
	yearText, err := a.prompt("\nYear to compare against? ")
	if err != nil {
		return err
	}
	first, err := a.prompt("\nEnter station 1 (wildcards _ and %): ")
	if err != nil {
		return err
	}
	// Reject a bad first station before asking for the second.
	st1, err := compare.Resolve(ctx, a.store, first, compare.FirstSide)
	if err != nil {
		return err
	}
	second, err := a.prompt("\nEnter station 2 (wildcards _ and %): ")
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearText))
	if err != nil {
		return fmt.Errorf("%w: %q", errBadYear, yearText)
	}

	c, err := compare.Compare(ctx, a.store, compare.Request{
		First:        first,
		FirstStation: &st1,
		Second:       second,
		Year:         year,
	})
	if err != nil {
		return err
	}

	for i, s := range []compare.Series{c.First, c.Second} {
		a.printf("Station %d: %d %s\n", i+1, s.Station.ID, s.Station.Name)
		for _, p := range s.Preview() {
			a.printf("%s %d\n", format.Date(p.Date), p.Riders)
		}
	}

	ok, err := a.confirmPlot()
	if err != nil || !ok {
		return err
	}

	axis := c.Axis()
	line := &chart.Line{
		Title:  fmt.Sprintf("riders each day of %d", c.Year),
		XLabel: "day",
		YLabel: "number of riders",
		X:      make([]string, len(axis)),
		Series: []chart.Series{
			{Label: c.First.Station.Name, Values: c.First.Values(), Color: chart.Blue},
			{Label: c.Second.Station.Name, Values: c.Second.Values(), Color: chart.Orange},
		},
	}
	for i, idx := range axis {
		line.X[i] = strconv.Itoa(idx)
	}
	a.plotted(a.plotter.PlotLine("daily", line))
	return nil
}

func (a *App) lineMap(ctx context.Context) error {
	lineName, err := a.prompt(linePrompt)
	if err != nil {
		return err
	}

	stations, err := report.LineStations(ctx, a.store, lineName)
	if err != nil {
		return err
	}
	for _, st := range stations {
		a.printf("%s : (%s, %s)\n", st.Name, coord(st.Latitude), coord(st.Longitude))
	}

	ok, err := a.confirmPlot()
	if err != nil || !ok {
		return err
	}

	dot, err := a.lineColor(ctx, lineName)
	if err != nil {
		return err
	}
	scatter := &chart.Scatter{
		Title:      strings.ToLower(lineName) + " line",
		Extent:     a.mapExtent,
		Color:      dot,
		Background: a.mapImage,
	}
	for _, st := range stations {
		scatter.Points = append(scatter.Points, chart.Point{X: st.Longitude, Y: st.Latitude, Label: st.Name})
	}
	a.plotted(a.plotter.PlotScatter("line", scatter))
	return nil
}

// lineColor picks the dot colour for a line pattern. A pattern naming one
// line uses that line's stored colour name; otherwise the pattern itself is
// tried. Unknown names fall back to the default series colour.
func (a *App) lineColor(ctx context.Context, pattern string) (color.RGBA, error) {
	name := pattern
	r, err := resolve.Lines(ctx, a.store, pattern)
	if err != nil {
		return color.RGBA{}, err
	}
	if l, ok := r.Value(); ok {
		name = l.Color
	}
	c, err := chart.LineColor(name, a.lineColors)
	if err != nil {
		return chart.Blue, nil
	}
	return c, nil
}

func (a *App) plotted(path string, err error) {
	if err != nil {
		a.printf("**Unable to plot: %v\n", err)
		return
	}
	a.printf("Chart saved to %s\n", path)
}

// coord prints a coordinate with the fewest digits that round trip.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
