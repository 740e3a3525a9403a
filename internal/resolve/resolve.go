// Package resolve turns a user supplied name pattern into exactly one entity,
// or explains why it could not. It never picks among several matches.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/ctaridership/internal/metrics"
	"github.com/lox/ctaridership/internal/models"
)

var (
	// ErrNotFound is wrapped when a pattern matches nothing.
	ErrNotFound = errors.New("no match")
	// ErrAmbiguous is wrapped when a pattern matches more than one entity.
	ErrAmbiguous = errors.New("multiple matches")
)

// Kind is the outcome of a resolution.
type Kind int

const (
	NotFound Kind = iota
	Ambiguous
	Resolved
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Ambiguous:
		return "ambiguous"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// StationFinder returns stations whose name matches a LIKE pattern
// (`_` one character, `%` any run), ordered by name.
type StationFinder interface {
	FindStations(ctx context.Context, pattern string) ([]models.Station, error)
}

// LineFinder returns lines whose colour matches a LIKE pattern, ordered by colour.
type LineFinder interface {
	FindLines(ctx context.Context, pattern string) ([]models.Line, error)
}

// Resolution is the outcome of matching one pattern. Candidates holds every
// match in name order so callers can report an ambiguity in full.
type Resolution[T any] struct {
	Entity     string // "station" or "line"
	Pattern    string
	Candidates []T
}

func (r Resolution[T]) Kind() Kind {
	switch len(r.Candidates) {
	case 0:
		return NotFound
	case 1:
		return Resolved
	default:
		return Ambiguous
	}
}

// Value returns the single match. ok is false unless Kind is Resolved.
func (r Resolution[T]) Value() (v T, ok bool) {
	if r.Kind() != Resolved {
		return v, false
	}
	return r.Candidates[0], true
}

// Err returns nil when resolved, otherwise an *Error tagged with side
// (for example "station 1").
func (r Resolution[T]) Err(side string) error {
	var sentinel error
	switch r.Kind() {
	case Resolved:
		return nil
	case NotFound:
		sentinel = ErrNotFound
	default:
		sentinel = ErrAmbiguous
	}
	return &Error{
		Entity:     r.Entity,
		Side:       side,
		Pattern:    r.Pattern,
		Candidates: len(r.Candidates),
		err:        sentinel,
	}
}

// Error reports a pattern that did not resolve to exactly one entity.
type Error struct {
	Entity     string
	Side       string // which input failed; empty when there is only one
	Pattern    string
	Candidates int
	err        error
}

func (e *Error) Error() string {
	subject := e.Entity
	if e.Side != "" {
		subject = e.Side
	}
	if errors.Is(e.err, ErrAmbiguous) {
		return fmt.Sprintf("%s: %d matches for %q", subject, e.Candidates, e.Pattern)
	}
	return fmt.Sprintf("%s: no match for %q", subject, e.Pattern)
}

func (e *Error) Unwrap() error { return e.err }

// NotFoundError reports a pattern that matched nothing, for listings that
// consume every match instead of resolving a single entity.
func NotFoundError(entity, pattern string) error {
	return &Error{Entity: entity, Pattern: pattern, err: ErrNotFound}
}

// Stations resolves a station name pattern.
func Stations(ctx context.Context, f StationFinder, pattern string) (Resolution[models.Station], error) {
	stations, err := f.FindStations(ctx, pattern)
	if err != nil {
		return Resolution[models.Station]{}, fmt.Errorf("resolve station %q: %w", pattern, err)
	}
	r := Resolution[models.Station]{Entity: "station", Pattern: pattern, Candidates: stations}
	metrics.ResolutionsTotal.WithLabelValues(r.Entity, r.Kind().String()).Inc()
	return r, nil
}

// Lines resolves a line colour pattern.
func Lines(ctx context.Context, f LineFinder, pattern string) (Resolution[models.Line], error) {
	lines, err := f.FindLines(ctx, pattern)
	if err != nil {
		return Resolution[models.Line]{}, fmt.Errorf("resolve line %q: %w", pattern, err)
	}
	r := Resolution[models.Line]{Entity: "line", Pattern: pattern, Candidates: lines}
	metrics.ResolutionsTotal.WithLabelValues(r.Entity, r.Kind().String()).Inc()
	return r, nil
}

// Station resolves pattern and returns the single match, or an *Error tagged
// with side when the pattern matched nothing or more than one station.
func Station(ctx context.Context, f StationFinder, pattern, side string) (models.Station, error) {
	r, err := Stations(ctx, f, pattern)
	if err != nil {
		return models.Station{}, err
	}
	if err := r.Err(side); err != nil {
		return models.Station{}, err
	}
	st, _ := r.Value()
	return st, nil
}
