package plot

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/fogleman/gg"

	"TotoSentinel/internal/model"
	"TotoSentinel/internal/odds"
)

// palette cycles through series colors.
var palette = []color.RGBA{
	{31, 119, 180, 255},
	{255, 127, 14, 255},
	{44, 160, 44, 255},
	{214, 39, 40, 255},
	{148, 103, 189, 255},
	{140, 86, 75, 255},
	{227, 119, 194, 255},
	{127, 127, 127, 255},
	{188, 189, 34, 255},
	{23, 190, 207, 255},
}

const (
	chartH      = 300.0
	chartLeft   = 70.0
	chartTop    = 50.0
	chartBottom = 60.0
	legendW     = 230.0
	yTicks      = 5
)

type barChart struct {
	title  string
	ylabel string
	value  func(model.YearlyStat) float64
	format string
	ref    float64 // dashed reference line; 0 for none
}

// YearlyBars renders yearly win rate (top) and win count (bottom) as grouped bars,
// one bar per series within each year.
func YearlyBars(series []model.TrendSeries) ([]byte, error) {
	years := allYears(series)
	if len(series) == 0 || len(years) == 0 {
		return nil, ErrEmpty
	}
	ff, err := loadFaces()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	groupW := math.Max(60, float64(len(series))*12+20)
	plotW := float64(len(years)) * groupW
	width := chartLeft + plotW + legendW
	blockH := chartTop + chartH + chartBottom

	dc := gg.NewContext(int(width), int(2*blockH))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	random := odds.TotalWinProbability(odds.Toto()) * 100
	charts := []barChart{
		{
			title:  "Yearly Win Rates by Strategy Configuration",
			ylabel: "Win Rate (%)",
			value:  func(y model.YearlyStat) float64 { return y.WinRate },
			format: "%.1f",
			ref:    random,
		},
		{
			title:  "Total Number of Winning Draws per Year",
			ylabel: "Number of Wins",
			value:  func(y model.YearlyStat) float64 { return float64(y.Wins) },
			format: "%.0f",
		},
	}
	for i, c := range charts {
		drawBars(dc, ff, float64(i)*blockH, plotW, groupW, years, series, c)
	}
	return encode(dc)
}

func allYears(series []model.TrendSeries) []int {
	seen := map[int]bool{}
	for _, s := range series {
		for _, y := range s.Years {
			seen[y.Year] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func drawBars(dc *gg.Context, ff *faces, y0, plotW, groupW float64, years []int, series []model.TrendSeries, c barChart) {
	top := y0 + chartTop
	bottom := top + chartH

	maxV := c.ref
	for _, s := range series {
		for _, y := range s.Years {
			maxV = math.Max(maxV, c.value(y))
		}
	}
	if maxV <= 0 {
		maxV = 1
	}
	maxV *= 1.1
	scale := chartH / maxV

	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(ff.title)
	dc.DrawStringAnchored(c.title, chartLeft+plotW/2, y0+chartTop/2, 0.5, 0.5)

	// grid and y axis
	dc.SetFontFace(ff.small)
	dc.SetLineWidth(1)
	for i := 0; i <= yTicks; i++ {
		v := maxV * float64(i) / yTicks
		y := bottom - v*scale
		dc.SetRGBA(0, 0, 0, 0.12)
		dc.DrawLine(chartLeft, y, chartLeft+plotW, y)
		dc.Stroke()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(fmt.Sprintf(c.format, v), chartLeft-6, y, 1, 0.35)
	}

	barW := groupW * 0.8 / float64(len(series))
	col := make(map[int]int, len(years))
	for i, y := range years {
		col[y] = i
	}
	for i, s := range series {
		dc.SetColor(palette[i%len(palette)])
		offset := (float64(i) - float64(len(series)-1)/2) * barW
		for _, y := range s.Years {
			center := chartLeft + float64(col[y.Year])*groupW + groupW/2 + offset
			hgt := c.value(y) * scale
			dc.DrawRectangle(center-barW/2, bottom-hgt, barW, hgt)
			dc.Fill()
		}
	}

	dc.SetRGB(0, 0, 0)
	for i, y := range years {
		dc.DrawStringAnchored(fmt.Sprintf("%d", y), chartLeft+float64(i)*groupW+groupW/2, bottom+12, 0.5, 0.5)
	}
	dc.DrawLine(chartLeft, bottom, chartLeft+plotW, bottom)
	dc.DrawLine(chartLeft, top, chartLeft, bottom)
	dc.Stroke()

	dc.SetFontFace(ff.label)
	dc.DrawStringAnchored("Year", chartLeft+plotW/2, bottom+36, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), 16, top+chartH/2)
	dc.DrawStringAnchored(c.ylabel, 16, top+chartH/2, 0.5, 0.5)
	dc.Pop()

	legendX := chartLeft + plotW + 20
	dc.SetFontFace(ff.small)
	for i, s := range series {
		y := top + float64(i)*18
		dc.SetColor(palette[i%len(palette)])
		dc.DrawRectangle(legendX, y, 12, 12)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(fmt.Sprintf("Lookback=%d, Weight=%s", s.Lookback, model.FormatFloor(s.DecayFloor)), legendX+18, y+6, 0, 0.35)
	}

	if c.ref > 0 {
		y := bottom - c.ref*scale
		dc.SetRGBA(0.85, 0, 0, 0.6)
		dc.SetDash(6, 4)
		dc.DrawLine(chartLeft, y, chartLeft+plotW, y)
		dc.Stroke()
		dc.SetDash()
		ly := top + float64(len(series))*18
		dc.DrawLine(legendX, ly+6, legendX+12, ly+6)
		dc.Stroke()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(fmt.Sprintf("Random Guess (%.3f%%)", c.ref), legendX+18, ly+6, 0, 0.35)
	}
}
