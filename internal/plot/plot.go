// Package plot renders sweep heatmaps and yearly trend charts as PNG images.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"

	"TotoSentinel/internal/model"
	"TotoSentinel/internal/sweep"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("plot: no data")

// Output file names.
const (
	PanelFile  = "toto_optimization_heatmaps.png"
	TrendsFile = "toto_yearly_trends.png"
)

// MetricFile is the single-heatmap file name for m.
func MetricFile(m sweep.Metric) string {
	return fmt.Sprintf("toto_optimization_%s.png", m)
}

// faces holds the fonts used by one image.
type faces struct {
	title font.Face
	label font.Face
	small font.Face
}

func loadFaces() (*faces, error) {
	title, err := loadFont(gobold.TTF, 16)
	if err != nil {
		return nil, err
	}
	label, err := loadFont(gomono.TTF, 12)
	if err != nil {
		return nil, err
	}
	small, err := loadFont(gomono.TTF, 10)
	if err != nil {
		return nil, err
	}
	return &faces{title: title, label: label, small: small}, nil
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveHeatmaps writes the three-metric panel and one heatmap per metric into dir.
// It returns the written paths.
func SaveHeatmaps(dir string, records []model.SweepRecord) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	panel, err := HeatmapPanel(records)
	if err != nil {
		return nil, err
	}
	var paths []string
	p := filepath.Join(dir, PanelFile)
	if err := os.WriteFile(p, panel, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", p, err)
	}
	paths = append(paths, p)

	for _, m := range sweep.Metrics {
		mx := sweep.Pivot(records, m)
		img, err := Heatmap(mx.Values, mx.RowLabels(), mx.ColLabels(), m.Title(), m.Format())
		if err != nil {
			return paths, err
		}
		p := filepath.Join(dir, MetricFile(m))
		if err := os.WriteFile(p, img, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}

	log.WithFields(log.Fields{"dir": dir, "files": len(paths)}).Info("heatmaps written")
	return paths, nil
}

// SaveTrends writes the yearly bar chart into dir.
func SaveTrends(dir string, series []model.TrendSeries) (string, error) {
	img, err := YearlyBars(series)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	p := filepath.Join(dir, TrendsFile)
	if err := os.WriteFile(p, img, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}
