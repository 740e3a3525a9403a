// Package chart renders simple line and scatter charts to PNG using only a
// bitmap font, so charts can be produced on headless machines.
package chart

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/dustin/go-humanize"
)

// ErrNoData is returned when a chart has nothing to plot.
var ErrNoData = errors.New("chart has no data")

// Size is the output image size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize matches a 6.4x4.8 inch figure at 100 dpi.
var DefaultSize = Size{Width: 640, Height: 480}

const (
	marginLeft   = 72
	marginRight  = 20
	marginTop    = 34
	marginBottom = 48
	maxXTicks    = 12
	yTicks       = 5
)

// Series is one line on a line chart. Values are matched to the chart's X
// labels by position; values past the last label are not drawn.
type Series struct {
	Label  string
	Values []float64
	Color  color.RGBA
}

// Line is a line chart with categorical x labels.
type Line struct {
	Title  string
	XLabel string
	YLabel string
	X      []string
	Series []Series
}

// Render draws the chart onto a new image.
func (l *Line) Render(size Size) (*image.RGBA, error) {
	if len(l.X) == 0 || len(l.Series) == 0 {
		return nil, ErrNoData
	}

	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	fill(img, white)

	plot := image.Rect(marginLeft, marginTop, size.Width-marginRight, size.Height-marginBottom)
	if plot.Dx() <= 0 || plot.Dy() <= 0 {
		return nil, errors.New("chart size too small")
	}

	top := niceCeil(l.maxValue())
	yAt := func(v float64) int {
		return plot.Max.Y - int(math.Round(v/top*float64(plot.Dy())))
	}
	n := len(l.X)
	xAt := func(i int) int {
		if n == 1 {
			return plot.Min.X + plot.Dx()/2
		}
		return plot.Min.X + int(math.Round(float64(i)*float64(plot.Dx())/float64(n-1)))
	}

	// Horizontal grid and y tick labels.
	for t := 0; t <= yTicks; t++ {
		v := top * float64(t) / yTicks
		y := yAt(v)
		if t > 0 {
			drawLine(img, plot.Min.X, y, plot.Max.X, y, 1, gridGray)
		}
		label := humanize.Comma(int64(v))
		drawText(img, label, plot.Min.X-6-textWidth(label), y+glyphAscent/2, labelGray)
	}

	// X tick labels, thinned to at most maxXTicks.
	step := (n + maxXTicks - 1) / maxXTicks
	for i := 0; i < n; i += step {
		x := xAt(i)
		drawLine(img, x, plot.Max.Y, x, plot.Max.Y+4, 1, axisGray)
		drawTextCentered(img, l.X[i], x, plot.Max.Y+6+glyphAscent, labelGray)
	}

	drawLine(img, plot.Min.X, plot.Min.Y, plot.Min.X, plot.Max.Y, 1, axisGray)
	drawLine(img, plot.Min.X, plot.Max.Y, plot.Max.X, plot.Max.Y, 1, axisGray)

	for _, s := range l.Series {
		count := min(len(s.Values), n)
		for i := 0; i < count; i++ {
			x, y := xAt(i), yAt(s.Values[i])
			if i > 0 {
				drawLine(img, xAt(i-1), yAt(s.Values[i-1]), x, y, 2, s.Color)
			}
			if count <= 31 {
				drawDot(img, x, y, 3, s.Color)
			}
		}
	}

	drawTextCentered(img, l.Title, size.Width/2, marginTop-12, black)
	drawTextCentered(img, l.XLabel, plot.Min.X+plot.Dx()/2, size.Height-8, black)
	drawText(img, l.YLabel, 6, marginTop-12, black)
	l.drawLegend(img, plot)

	return img, nil
}

func (l *Line) maxValue() float64 {
	var m float64
	for _, s := range l.Series {
		for i, v := range s.Values {
			if i >= len(l.X) {
				break
			}
			m = max(m, v)
		}
	}
	return m
}

func (l *Line) drawLegend(img *image.RGBA, plot image.Rectangle) {
	y := plot.Min.Y + 8
	for _, s := range l.Series {
		if s.Label == "" {
			continue
		}
		x := plot.Max.X - 16 - textWidth(s.Label)
		fillRect(img, x-4-14, y, x-4, y+4, s.Color)
		drawText(img, s.Label, x, y+glyphAscent/2+2, black)
		y += glyphHeight + 4
	}
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten so axis ticks land
// on round numbers. Zero and negative maxima give an axis of 0..1.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}
