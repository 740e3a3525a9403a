package chart

import (
	"errors"
	"image"
	"image/color"
	"math"
)

// Extent is the data window shown by a scatter chart: longitude on x,
// latitude on y for maps.
type Extent struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x" validate:"gtfield=MinX"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y" validate:"gtfield=MinY"`
}

// ChicagoExtent frames the L system.
var ChicagoExtent = Extent{MinX: -87.9277, MaxX: -87.5569, MinY: 41.7012, MaxY: 42.0868}

func (e Extent) valid() bool {
	return e.MaxX > e.MinX && e.MaxY > e.MinY
}

// Point is a labelled scatter point.
type Point struct {
	X, Y  float64
	Label string
}

// Scatter plots labelled points over an optional background image, which
// is stretched to cover the extent.
type Scatter struct {
	Title      string
	Points     []Point
	Extent     Extent
	Color      color.RGBA
	Background image.Image
}

// Render draws the chart onto a new image. Points outside the extent are
// skipped.
func (s *Scatter) Render(size Size) (*image.RGBA, error) {
	if len(s.Points) == 0 {
		return nil, ErrNoData
	}
	if !s.Extent.valid() {
		return nil, errors.New("invalid chart extent")
	}

	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	fill(img, white)

	plot := image.Rect(8, marginTop, size.Width-8, size.Height-8)
	if plot.Dx() <= 0 || plot.Dy() <= 0 {
		return nil, errors.New("chart size too small")
	}
	if s.Background != nil {
		stretchInto(img, plot, s.Background)
	}

	e := s.Extent
	for _, p := range s.Points {
		if p.X < e.MinX || p.X > e.MaxX || p.Y < e.MinY || p.Y > e.MaxY {
			continue
		}
		x := plot.Min.X + int(math.Round((p.X-e.MinX)/(e.MaxX-e.MinX)*float64(plot.Dx())))
		y := plot.Max.Y - int(math.Round((p.Y-e.MinY)/(e.MaxY-e.MinY)*float64(plot.Dy())))
		drawDot(img, x, y, 4, s.Color)
		if p.Label != "" {
			drawText(img, p.Label, x+6, y+glyphAscent/2, black)
		}
	}

	drawTextCentered(img, s.Title, size.Width/2, marginTop-12, black)
	return img, nil
}
