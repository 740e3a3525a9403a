package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/lox/ctaridership/internal/metrics"
)

// Writer renders charts and stores them as PNG files in a directory.
type Writer struct {
	dir  string
	size Size
}

// NewWriter creates a writer for dir, creating the directory if needed.
func NewWriter(dir string, size Size) *Writer {
	if err := os.MkdirAll(dir, 0755); err != nil {
		// Save reports the failure when a chart is written.
		log.Printf("Warning: could not create chart directory: %v", err)
	}
	return &Writer{dir: dir, size: size}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// path returns the file path for a chart title.
func (w *Writer) path(title string) string {
	return filepath.Join(w.dir, slug(title)+".png")
}

// Save encodes img as PNG under a file name derived from title, replacing
// any earlier chart with the same title. It returns the written path.
func (w *Writer) Save(title string, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode chart: %w", err)
	}
	path := w.path(title)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

// PlotLine renders and saves a line chart. kind labels the chart in metrics.
func (w *Writer) PlotLine(kind string, l *Line) (string, error) {
	img, err := l.Render(w.size)
	if err != nil {
		return "", fmt.Errorf("render %s chart: %w", kind, err)
	}
	path, err := w.Save(l.Title, img)
	if err != nil {
		return "", err
	}
	metrics.ChartsRendered.WithLabelValues(kind).Inc()
	return path, nil
}

// PlotScatter renders and saves a scatter chart.
func (w *Writer) PlotScatter(kind string, s *Scatter) (string, error) {
	img, err := s.Render(w.size)
	if err != nil {
		return "", fmt.Errorf("render %s chart: %w", kind, err)
	}
	path, err := w.Save(s.Title, img)
	if err != nil {
		return "", err
	}
	metrics.ChartsRendered.WithLabelValues(kind).Inc()
	return path, nil
}

// List returns the file names of all saved charts.
func (w *Writer) List() []string {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".png" {
			names = append(names, entry.Name())
		}
	}
	return names
}

// LoadImage decodes a PNG background such as a map.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// slug turns a chart title into a file name: "riders each day of 2022"
// becomes "riders-each-day-of-2022".
func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "chart"
	}
	return s
}
