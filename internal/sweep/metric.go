package sweep

import (
	"fmt"
	"sort"

	"TotoSentinel/internal/model"
)

// Metric selects a sweep record column for ranking and plotting.
type Metric string

const (
	MetricAvgProfit Metric = "avg_profit"
	MetricWinRate   Metric = "win_rate"
	MetricNetProfit Metric = "net_profit"
)

// Metrics lists the ranked metrics in display order.
var Metrics = []Metric{MetricAvgProfit, MetricWinRate, MetricNetProfit}

// Title is the human readable heading for the metric.
func (m Metric) Title() string {
	switch m {
	case MetricAvgProfit:
		return "Average Profit per Draw ($)"
	case MetricWinRate:
		return "Win Rate (%)"
	case MetricNetProfit:
		return "Total Net Profit ($)"
	}
	return string(m)
}

// Format is the printf verb used to annotate the metric.
func (m Metric) Format() string {
	if m == MetricNetProfit {
		return "%.0f"
	}
	return "%.1f"
}

// Value extracts the metric from a record.
func (m Metric) Value(r model.SweepRecord) float64 {
	switch m {
	case MetricAvgProfit:
		return r.AvgProfit
	case MetricWinRate:
		return r.WinRate
	case MetricNetProfit:
		return float64(r.NetProfit)
	}
	return 0
}

// Best returns the record with the highest metric value. On ties the first record wins.
func Best(records []model.SweepRecord, m Metric) (model.SweepRecord, bool) {
	if len(records) == 0 {
		return model.SweepRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if m.Value(r) > m.Value(best) {
			best = r
		}
	}
	return best, true
}

// Mean averages the metric across records.
func Mean(records []model.SweepRecord, m Metric) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range records {
		sum += m.Value(r)
	}
	return sum / float64(len(records))
}

// Matrix is a metric laid out with decay floors as rows and lookbacks as columns.
type Matrix struct {
	Floors    []float64
	Lookbacks []int
	Values    [][]float64 // Values[row][col]; NaN where no record exists
}

// Pivot arranges records into a Matrix for heatmap rendering.
func Pivot(records []model.SweepRecord, m Metric) Matrix {
	floorSet := map[float64]bool{}
	lbSet := map[int]bool{}
	for _, r := range records {
		floorSet[r.DecayFloor] = true
		lbSet[r.Lookback] = true
	}
	var mx Matrix
	for f := range floorSet {
		mx.Floors = append(mx.Floors, f)
	}
	for lb := range lbSet {
		mx.Lookbacks = append(mx.Lookbacks, lb)
	}
	sort.Float64s(mx.Floors)
	sort.Ints(mx.Lookbacks)

	rowOf := make(map[float64]int, len(mx.Floors))
	for i, f := range mx.Floors {
		rowOf[f] = i
	}
	colOf := make(map[int]int, len(mx.Lookbacks))
	for i, lb := range mx.Lookbacks {
		colOf[lb] = i
	}

	mx.Values = make([][]float64, len(mx.Floors))
	for i := range mx.Values {
		row := make([]float64, len(mx.Lookbacks))
		for j := range row {
			row[j] = nan
		}
		mx.Values[i] = row
	}
	for _, r := range records {
		mx.Values[rowOf[r.DecayFloor]][colOf[r.Lookback]] = m.Value(r)
	}
	return mx
}

// RowLabels formats the floors for axis labels.
func (mx Matrix) RowLabels() []string {
	out := make([]string, len(mx.Floors))
	for i, f := range mx.Floors {
		out[i] = model.FormatFloor(f)
	}
	return out
}

// ColLabels formats the lookbacks for axis labels.
func (mx Matrix) ColLabels() []string {
	out := make([]string, len(mx.Lookbacks))
	for i, lb := range mx.Lookbacks {
		out[i] = fmt.Sprintf("%d", lb)
	}
	return out
}
