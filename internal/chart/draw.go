package chart

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	white     = color.RGBA{255, 255, 255, 255}
	black     = color.RGBA{0, 0, 0, 255}
	axisGray  = color.RGBA{90, 90, 90, 255}
	gridGray  = color.RGBA{225, 225, 225, 255}
	labelGray = color.RGBA{60, 60, 60, 255}
)

// The embedded 7x13 bitmap face keeps rendering free of font files.
var face font.Face = basicfont.Face7x13

const (
	glyphHeight = 13
	glyphAscent = 11
)

// drawText draws text with its baseline at (x, y).
func drawText(img *image.RGBA, text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func textWidth(text string) int {
	return font.MeasureString(face, text).Ceil()
}

// drawTextCentered centres text horizontally on x.
func drawTextCentered(img *image.RGBA, text string, x, y int, col color.Color) {
	drawText(img, text, x-textWidth(text)/2, y, col)
}

func fill(img *image.RGBA, col color.RGBA) {
	b := img.Bounds()
	fillRect(img, b.Min.X, b.Min.Y, b.Max.X, b.Max.Y, col)
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	r := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// drawLine draws a segment with Bresenham's algorithm, thickened by width
// pixels perpendicular to the major axis.
func drawLine(img *image.RGBA, x0, y0, x1, y1, width int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	steep := -dy > dx
	bounds := img.Bounds()
	plot := func(x, y int) {
		for w := -(width / 2); w <= (width-1)/2; w++ {
			px, py := x, y+w
			if steep {
				px, py = x+w, y
			}
			if (image.Point{px, py}).In(bounds) {
				img.SetRGBA(px, py, col)
			}
		}
	}

	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// drawDot fills a circle of radius r centred on (cx, cy).
func drawDot(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	bounds := img.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) > r*r {
				continue
			}
			if (image.Point{x, y}).In(bounds) {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// stretchInto draws src over dst's rect with nearest-neighbour sampling.
func stretchInto(dst *image.RGBA, rect image.Rectangle, src image.Image) {
	sb := src.Bounds()
	srcW, srcH := sb.Dx(), sb.Dy()
	if srcW == 0 || srcH == 0 || rect.Dx() == 0 || rect.Dy() == 0 {
		return
	}
	scaleX := float64(srcW) / float64(rect.Dx())
	scaleY := float64(srcH) / float64(rect.Dy())

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			srcX := int(float64(x-rect.Min.X) * scaleX)
			srcY := int(float64(y-rect.Min.Y) * scaleY)
			if srcX < srcW && srcY < srcH {
				dst.Set(x, y, src.At(sb.Min.X+srcX, sb.Min.Y+srcY))
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
