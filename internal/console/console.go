// Package console runs the interactive command loop: it reads command
// tokens and answers from an input stream and writes the reports as text.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/lox/ctaridership/internal/chart"
	"github.com/lox/ctaridership/internal/compare"
	"github.com/lox/ctaridership/internal/format"
	"github.com/lox/ctaridership/internal/metrics"
	"github.com/lox/ctaridership/internal/report"
	"github.com/lox/ctaridership/internal/resolve"
)

const commandPrompt = "Please enter a command (1-9, x to exit): "

// Store is everything the commands read.
type Store interface {
	report.Source
	report.StatsSource
	report.LineSource
	compare.Source
	resolve.LineFinder
}

// Plotter receives charts the user asked for and returns where they went.
type Plotter interface {
	PlotLine(kind string, l *chart.Line) (string, error)
	PlotScatter(kind string, s *chart.Scatter) (string, error)
}

type App struct {
	store      Store
	plotter    Plotter
	in         *bufio.Scanner
	out        io.Writer
	mapImage   image.Image
	mapExtent  chart.Extent
	lineColors map[string]string
}

type Option func(*App)

// WithPlotter enables the "Plot? (y/n)" follow up on commands 6 to 9.
// Without a plotter the question is still asked and the answer ignored.
func WithPlotter(p Plotter) Option {
	return func(a *App) { a.plotter = p }
}

// WithMap sets the station map background and the extent it covers.
func WithMap(img image.Image, extent chart.Extent) Option {
	return func(a *App) {
		a.mapImage = img
		a.mapExtent = extent
	}
}

// WithLineColors overrides map dot colours by lower case line name.
func WithLineColors(colors map[string]string) Option {
	return func(a *App) { a.lineColors = colors }
}

func New(st Store, in io.Reader, out io.Writer, opts ...Option) *App {
	a := &App{
		store:     st,
		in:        bufio.NewScanner(in),
		out:       out,
		mapExtent: chart.ChicagoExtent,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run prints the overview and then serves commands until "x", end of
// input or a store failure. Unresolved names, empty results and a zero
// grand total are reported to the user and the loop continues.
func (a *App) Run(ctx context.Context) error {
	a.println("** Welcome to CTA L analysis app **")
	a.println()

	if err := a.printOverview(ctx); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		token, err := a.prompt(commandPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if token == "x" {
			return nil
		}

		err = a.dispatch(ctx, token)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		a.println()
	}
}

func (a *App) dispatch(ctx context.Context, token string) error {
	cmd, ok := commands[token]
	if !ok {
		metrics.CommandsTotal.WithLabelValues("unknown").Inc()
		a.println("**Error, unknown command, try again...")
		return nil
	}
	metrics.CommandsTotal.WithLabelValues(token).Inc()
	return a.userError(cmd(a, ctx))
}

// userError prints the message for errors the user can fix by asking
// again and swallows them. Anything else is returned.
func (a *App) userError(err error) error {
	if err == nil {
		return nil
	}

	var rerr *resolve.Error
	var serr *compare.SeriesError
	switch {
	case errors.As(err, &rerr) && rerr.Entity == "line":
		a.println("**No such line...")
	case errors.Is(err, resolve.ErrAmbiguous):
		a.printf("**Multiple stations found%s...\n", forSide(rerr))
	case errors.Is(err, resolve.ErrNotFound):
		a.printf("**No station found%s...\n", forSide(rerr))
	case errors.As(err, &serr):
		a.printf("**No ridership for %s in %d...\n", serr.Station.Name, serr.Year)
	case errors.Is(err, report.ErrDivideByZero):
		a.println("**No ridership recorded...")
	case errors.Is(err, errBadYear):
		a.println("**Year must be a number...")
	default:
		return err
	}
	return nil
}

// forSide names the input a resolution error came from, if it has one.
func forSide(err *resolve.Error) string {
	if err == nil || err.Side == "" {
		return ""
	}
	return " for " + err.Side
}

func (a *App) printOverview(ctx context.Context) error {
	o, err := report.BuildOverview(ctx, a.store)
	if err != nil && !errors.Is(err, report.ErrDivideByZero) {
		return err
	}

	a.println("General stats:")
	a.printf("  # of stations: %s\n", format.Count(o.Stations))
	a.printf("  # of stops: %s\n", format.Count(o.Stops))
	a.printf("  # of ride entries: %s\n", format.Count(o.Entries))
	if o.Entries > 0 {
		a.printf("  date range: %s - %s\n", format.Date(o.FirstDate), format.Date(o.LastDate))
	}
	a.printf("  Total ridership: %s\n", format.Count(o.Total))
	for _, d := range o.DayTypes {
		a.printf("  %s ridership: %s\n", d.DayType.Label(), format.Share(d.Riders, d.Percent))
	}
	if err != nil {
		a.println("**No ridership recorded...")
	}
	a.println()
	return nil
}

// prompt writes text without a newline and reads one line of input.
func (a *App) prompt(text string) (string, error) {
	fmt.Fprint(a.out, text)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSuffix(a.in.Text(), "\r"), nil
}

// confirmPlot asks whether to chart the rows just printed.
func (a *App) confirmPlot() (bool, error) {
	answer, err := a.prompt("Plot? (y/n) ")
	if err != nil {
		return false, err
	}
	return answer == "y" && a.plotter != nil, nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(msg string, args ...any) {
	fmt.Fprintf(a.out, msg, args...)
}
