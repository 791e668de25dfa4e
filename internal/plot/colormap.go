package plot

import (
	"image/color"
	"math"
)

// rdYlGn is the ColorBrewer red-yellow-green diverging scale, low to high.
var rdYlGn = []color.RGBA{
	{165, 0, 38, 255},
	{215, 48, 39, 255},
	{244, 109, 67, 255},
	{253, 174, 97, 255},
	{254, 224, 139, 255},
	{255, 255, 191, 255},
	{217, 239, 139, 255},
	{166, 217, 106, 255},
	{102, 189, 99, 255},
	{26, 152, 80, 255},
	{0, 104, 55, 255},
}

var missing = color.RGBA{220, 220, 220, 255}

// Ramp samples the scale at t in [0, 1]; values outside are clamped.
func Ramp(t float64) color.RGBA {
	if math.IsNaN(t) {
		return missing
	}
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(rdYlGn)-1)
	i := int(pos)
	if i >= len(rdYlGn)-1 {
		return rdYlGn[len(rdYlGn)-1]
	}
	f := pos - float64(i)
	a, b := rdYlGn[i], rdYlGn[i+1]
	return color.RGBA{
		R: lerp(a.R, b.R, f),
		G: lerp(a.G, b.G, f),
		B: lerp(a.B, b.B, f),
		A: 255,
	}
}

// Diverging maps v onto the scale with zero at the midpoint and ±limit at the ends.
func Diverging(v, limit float64) color.RGBA {
	if math.IsNaN(v) {
		return missing
	}
	if limit <= 0 {
		return Ramp(0.5)
	}
	return Ramp(0.5 + v/(2*limit))
}

// Limit is the largest absolute finite value, the symmetric range around zero.
func Limit(values [][]float64) float64 {
	var lim float64
	for _, row := range values {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lim = math.Max(lim, math.Abs(v))
		}
	}
	return lim
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

// textOn picks black or white for legibility over c.
func textOn(c color.RGBA) color.Color {
	lum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if lum < 110 {
		return color.White
	}
	return color.Black
}
