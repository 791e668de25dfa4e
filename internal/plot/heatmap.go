package plot

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"TotoSentinel/internal/model"
	"TotoSentinel/internal/sweep"
)

const (
	cellW        = 44.0
	cellH        = 30.0
	marginLeft   = 72.0
	marginTop    = 50.0
	marginRight  = 90.0
	marginBottom = 56.0
	barWidth     = 14.0
	panelTitle   = 40.0
)

func heatmapSize(rows, cols int) (float64, float64) {
	return marginLeft + float64(cols)*cellW + marginRight, marginTop + float64(rows)*cellH + marginBottom
}

func checkMatrix(values [][]float64, rowLabels, colLabels []string) error {
	if len(values) == 0 || len(values[0]) == 0 {
		return ErrEmpty
	}
	if len(rowLabels) != len(values) {
		return fmt.Errorf("plot: %d row labels for %d rows", len(rowLabels), len(values))
	}
	for i, row := range values {
		if len(row) != len(colLabels) {
			return fmt.Errorf("plot: row %d has %d values for %d column labels", i, len(row), len(colLabels))
		}
	}
	return nil
}

// Heatmap renders values[row][col] as an annotated grid colored red (negative)
// through yellow (zero) to green (positive). NaN cells are grey and unlabelled.
func Heatmap(values [][]float64, rowLabels, colLabels []string, title, format string) ([]byte, error) {
	if err := checkMatrix(values, rowLabels, colLabels); err != nil {
		return nil, err
	}
	ff, err := loadFaces()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	w, h := heatmapSize(len(values), len(colLabels))
	dc := gg.NewContext(int(w), int(h))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	drawHeatmap(dc, ff, 0, 0, values, rowLabels, colLabels, title, format)
	return encode(dc)
}

// HeatmapPanel renders every sweep metric side by side.
func HeatmapPanel(records []model.SweepRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	ff, err := loadFaces()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	mats := make([]sweep.Matrix, len(sweep.Metrics))
	for i, m := range sweep.Metrics {
		mats[i] = sweep.Pivot(records, m)
	}
	w, h := heatmapSize(len(mats[0].Floors), len(mats[0].Lookbacks))

	dc := gg.NewContext(int(w)*len(mats), int(h+panelTitle))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(ff.title)
	dc.DrawStringAnchored("TOTO Strategy Analysis: Impact of Parameters",
		float64(dc.Width())/2, panelTitle/2, 0.5, 0.5)

	for i, m := range sweep.Metrics {
		mx := mats[i]
		drawHeatmap(dc, ff, float64(i)*w, panelTitle, mx.Values, mx.RowLabels(), mx.ColLabels(), m.Title(), m.Format())
	}
	return encode(dc)
}

func drawHeatmap(dc *gg.Context, ff *faces, x0, y0 float64, values [][]float64, rowLabels, colLabels []string, title, format string) {
	rows, cols := len(values), len(colLabels)
	gridX, gridY := x0+marginLeft, y0+marginTop
	gridW, gridH := float64(cols)*cellW, float64(rows)*cellH
	lim := Limit(values)

	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(ff.title)
	dc.DrawStringAnchored(title, gridX+gridW/2, y0+marginTop/2, 0.5, 0.5)

	dc.SetFontFace(ff.small)
	for r, row := range values {
		for c, v := range row {
			x, y := gridX+float64(c)*cellW, gridY+float64(r)*cellH
			fill := Diverging(v, lim)
			dc.SetColor(fill)
			dc.DrawRectangle(x, y, cellW, cellH)
			dc.Fill()
			if math.IsNaN(v) {
				continue
			}
			dc.SetColor(textOn(fill))
			dc.DrawStringAnchored(fmt.Sprintf(format, v), x+cellW/2, y+cellH/2, 0.5, 0.35)
		}
	}

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1)
	dc.DrawRectangle(gridX, gridY, gridW, gridH)
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	for c, l := range colLabels {
		dc.DrawStringAnchored(l, gridX+float64(c)*cellW+cellW/2, gridY+gridH+12, 0.5, 0.5)
	}
	for r, l := range rowLabels {
		dc.DrawStringAnchored(l, gridX-8, gridY+float64(r)*cellH+cellH/2, 1, 0.35)
	}

	dc.SetFontFace(ff.label)
	dc.DrawStringAnchored("Lookback Period (draws)", gridX+gridW/2, gridY+gridH+36, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), x0+16, gridY+gridH/2)
	dc.DrawStringAnchored("Least Weight", x0+16, gridY+gridH/2, 0.5, 0.5)
	dc.Pop()

	drawColorbar(dc, ff, gridX+gridW+16, gridY, gridH, lim)
}

func drawColorbar(dc *gg.Context, ff *faces, x, y, h, lim float64) {
	const steps = 64
	step := h / steps
	for i := 0; i < steps; i++ {
		t := 1 - (float64(i)+0.5)/steps
		dc.SetColor(Ramp(t))
		dc.DrawRectangle(x, y+float64(i)*step, barWidth, step+0.5)
		dc.Fill()
	}
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawRectangle(x, y, barWidth, h)
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(ff.small)
	for _, tick := range []struct {
		v, t float64
	}{{lim, 0}, {0, 0.5}, {-lim, 1}} {
		dc.DrawStringAnchored(tickLabel(tick.v), x+barWidth+4, y+tick.t*h, 0, 0.35)
	}
}

func tickLabel(v float64) string {
	if math.Abs(v) >= 100 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
