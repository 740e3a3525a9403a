package chart

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lox/ctaridership/internal/metrics"
)

func countColor(img *image.RGBA, c color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestLineRender(t *testing.T) {
	l := &Line{
		Title:  "monthly ridership",
		XLabel: "month",
		YLabel: "number of riders (x * 10^8)",
		X:      []string{"01", "02", "03"},
		Series: []Series{{Values: []float64{10, 20, 30}, Color: Blue}},
	}

	img, err := l.Render(DefaultSize)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(640, 480) {
		t.Errorf("size = %v, want 640x480", got)
	}
	if countColor(img, Blue) == 0 {
		t.Error("series colour not drawn")
	}
	if countColor(img, Orange) != 0 {
		t.Error("unexpected orange pixels")
	}
}

func TestLineRender_TruncatesLongerSeries(t *testing.T) {
	l := &Line{
		X: []string{"1", "2"},
		Series: []Series{
			{Label: "A", Values: []float64{1, 2}, Color: Blue},
			{Label: "B", Values: []float64{1, 2, 1e9}, Color: Orange},
		},
	}
	if got := l.maxValue(); got != 2 {
		t.Errorf("maxValue = %v, want 2", got)
	}
	if _, err := l.Render(DefaultSize); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestLineRender_NoData(t *testing.T) {
	for _, l := range []*Line{
		{Series: []Series{{Values: []float64{1}}}},
		{X: []string{"01"}},
	} {
		if _, err := l.Render(DefaultSize); !errors.Is(err, ErrNoData) {
			t.Errorf("Render err = %v, want ErrNoData", err)
		}
	}
}

func TestScatterRender(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 2, 2))
	red := color.RGBA{255, 0, 0, 255}
	fill(bg, red)

	s := &Scatter{
		Title:      "blue line",
		Extent:     Extent{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10},
		Color:      Blue,
		Background: bg,
		Points:     []Point{{X: 5, Y: 5}},
	}
	img, err := s.Render(Size{Width: 200, Height: 200})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got := img.RGBAAt(10, marginTop+2); got != red {
		t.Errorf("background pixel = %v, want %v", got, red)
	}
	// Plot area is (8,34)-(192,192); the centre of the extent maps to (100,113).
	if got := img.RGBAAt(100, 113); got != Blue {
		t.Errorf("centre pixel = %v, want %v", got, Blue)
	}
}

func TestScatterRender_SkipsOutsideExtent(t *testing.T) {
	s := &Scatter{
		Extent: ChicagoExtent,
		Color:  Orange,
		Points: []Point{{X: -80, Y: 40, Label: "Elsewhere"}},
	}
	img, err := s.Render(DefaultSize)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n := countColor(img, Orange); n != 0 {
		t.Errorf("drew %d pixels for a point outside the extent", n)
	}
}

func TestScatterRender_InvalidExtent(t *testing.T) {
	s := &Scatter{Points: []Point{{X: 1, Y: 1}}, Extent: Extent{MinX: 1, MaxX: 1, MinY: 0, MaxY: 1}}
	if _, err := s.Render(DefaultSize); err == nil {
		t.Fatal("expected error for empty extent")
	}
}

func TestLineColor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Red", "#c60c30"},
		{"purple-express", "#522398"},
		{"Purple-Express", "#522398"},
		{"  yellow ", "#f9e300"},
	}
	for _, tt := range tests {
		got, err := LineColor(tt.name, nil)
		if err != nil {
			t.Fatalf("LineColor(%q): %v", tt.name, err)
		}
		want, _ := ParseHex(tt.want)
		if got != want {
			t.Errorf("LineColor(%q) = %v, want %v", tt.name, got, want)
		}
	}

	got, err := LineColor("Red", map[string]string{"red": "#000"})
	if err != nil {
		t.Fatalf("LineColor override: %v", err)
	}
	if got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("override = %v, want black", got)
	}

	if _, err := LineColor("Magenta", nil); err == nil {
		t.Error("expected error for unknown line")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#1f77b4", Blue, false},
		{"ff7f0e", Orange, false},
		{"#fff", color.RGBA{255, 255, 255, 255}, false},
		{"#12345", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNiceCeil(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{7, 10},
		{10, 10},
		{11, 20},
		{45000, 50000},
		{150000, 200000},
	}
	for _, tt := range tests {
		if got := niceCeil(tt.in); got != tt.want {
			t.Errorf("niceCeil(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"monthly ridership", "monthly-ridership"},
		{"riders each day of 2022", "riders-each-day-of-2022"},
		{"purple-express line", "purple-express-line"},
		{"  ** ", "chart"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriterPlotLine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	w := NewWriter(dir, Size{Width: 320, Height: 240})
	if w.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", w.Dir(), dir)
	}
	before := testutil.ToFloat64(metrics.ChartsRendered.WithLabelValues("yearly"))

	path, err := w.PlotLine("yearly", &Line{
		Title:  "yearly ridership",
		X:      []string{"21", "22"},
		Series: []Series{{Values: []float64{22000, 53000}, Color: Blue}},
	})
	if err != nil {
		t.Fatalf("PlotLine: %v", err)
	}
	if want := filepath.Join(dir, "yearly-ridership.png"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("decoded size = %dx%d, want 320x240", cfg.Width, cfg.Height)
	}

	if got := testutil.ToFloat64(metrics.ChartsRendered.WithLabelValues("yearly")) - before; got != 1 {
		t.Errorf("charts rendered delta = %v, want 1", got)
	}
	if names := w.List(); len(names) != 1 || names[0] != "yearly-ridership.png" {
		t.Errorf("List = %v", names)
	}
}

func TestWriterPlotScatter_RenderErrorWritesNothing(t *testing.T) {
	w := NewWriter(t.TempDir(), DefaultSize)

	_, err := w.PlotScatter("line", &Scatter{Title: "red line", Extent: ChicagoExtent})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("PlotScatter err = %v, want ErrNoData", err)
	}
	if names := w.List(); len(names) != 0 {
		t.Errorf("List = %v, want empty", names)
	}
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
