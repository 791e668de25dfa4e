package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"TotoSentinel/internal/model"
	"TotoSentinel/internal/odds"
	"TotoSentinel/internal/recorder"
	"TotoSentinel/internal/scoring"
)

func TestFormatAnalysis(t *testing.T) {
	a := &Analysis{
		Draw: model.Draw{
			ID:         4048,
			Date:       time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC),
			Winning:    []int{1, 2, 3, 4, 5, 6},
			Additional: 7,
		},
		Lookback:   5,
		DecayFloor: scoring.DefaultDecayFloor,
		Picks:      model.PickSet{1, 2, 3, 4, 5, 7},
		Table:      scoring.FrequencyTable{1: 2.5, 7: 1.0},
		Tier:       model.Tier2,
		Prize:      100000,
	}
	out := FormatAnalysis(a)
	assert.Contains(t, out, "Analysis for Draw #4048 (30/01/2025)")
	assert.Contains(t, out, "Based on 5 previous draws")
	assert.Contains(t, out, "Suggested numbers (sorted): [1, 2, 3, 4, 5, 7]")
	assert.Contains(t, out, "Prize: $100000 (Group 2)")
	assert.Contains(t, out, "Net Profit: $99999")
	assert.Contains(t, out, "Oldest analyzed draw: 10% weight")
	assert.Contains(t, out, " 1  2.500")
}

func TestFormatBacktest(t *testing.T) {
	res := &model.BacktestResult{
		Lookback:   3,
		DecayFloor: 0.1,
		Records: []model.BacktestRecord{
			{DrawID: 12, Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Picks: model.PickSet{1, 2, 3, 8, 9, 10},
				Winning: []int{1, 2, 3, 4, 5, 6}, Additional: 7, Tier: model.Tier7, Prize: 10, Profit: 9},
			{DrawID: 11, Tier: model.TierNone, Profit: -1},
		},
		TotalCost:  2,
		TotalPrize: 10,
		Wins:       1,
	}
	out := FormatBacktest(res)
	assert.Contains(t, out, "Total draws played: 2")
	assert.Contains(t, out, "Net profit/loss: $8")
	assert.Contains(t, out, "Win rate: 50.00%")
	assert.Contains(t, out, "Average return per bet: $4.00")
	assert.Contains(t, out, "Group 7: 1")
	assert.Contains(t, out, "Draw #12 (02/05/2024)")
	assert.NotContains(t, out, "Draw #11")
}

func TestFormatSweepBest(t *testing.T) {
	out := FormatSweepBest([]model.SweepRecord{
		{Lookback: 4, DecayFloor: 0.3, AvgProfit: -0.4, WinRate: 2.6, NetProfit: -400},
		{Lookback: 9, DecayFloor: 0.7, AvgProfit: -0.2, WinRate: 1.9, NetProfit: -210},
	})
	assert.Contains(t, out, "Best Win Rate (%):\nLookback Period: 4 draws")
	assert.Contains(t, out, "Best Total Net Profit ($):\nLookback Period: 9 draws")

	assert.Contains(t, FormatSweepBest(nil), "No sweep results")
}

func TestFormatOdds(t *testing.T) {
	out := FormatOdds(odds.Toto())
	assert.Contains(t, out, "Group 1 (6 numbers)")
	assert.Contains(t, out, "Group 2 (5 numbers + additional)")
	assert.Contains(t, out, "1 in 13,983,816")
	assert.Contains(t, out, "Expected value per $1 ticket: $-0.5904")
	assert.Equal(t, 7, strings.Count(out, "1 in ")-1)
}

func TestFormatComparison(t *testing.T) {
	out := FormatComparison(odds.Comparison{RandomWinRate: 1.86, BestWinRate: 2.64, MeanWinRate: 1.83, BestImprovement: 41.9, MeanImprovement: -1.6, Cells: 200})
	assert.Contains(t, out, "Strategy Best Win Rate: 2.64%")
	assert.Contains(t, out, "Best: +41.9%")
	assert.Contains(t, out, "Average: -1.6%")

	assert.Contains(t, FormatComparison(odds.Comparison{}), "no sweep results")
}

func TestFormatTrend(t *testing.T) {
	out := FormatTrend([]model.TrendSeries{{
		Lookback:   3,
		DecayFloor: 0.5,
		Years:      []model.YearlyStat{{Year: 2023, WinRate: 2.5, Wins: 2, Total: 80}},
	}})
	assert.Contains(t, out, "Lookback=3, Weight=0.5")
	assert.Contains(t, out, "2023    2.50     2     80")
}

func TestFormat_FineFloorsStayDistinct(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{
			name: "trend",
			out: FormatTrend([]model.TrendSeries{
				{Lookback: 3, DecayFloor: 0.05},
				{Lookback: 3, DecayFloor: 0.15},
			}),
			want: []string{"Lookback=3, Weight=0.05", "Lookback=3, Weight=0.15"},
		},
		{
			name: "sweep best",
			out:  FormatSweepBest([]model.SweepRecord{{Lookback: 4, DecayFloor: 0.05, WinRate: 2.6}}),
			want: []string{"Least Weight: 0.05"},
		},
		{
			name: "backtest",
			out:  FormatBacktest(&model.BacktestResult{Lookback: 5, DecayFloor: 0.15}),
			want: []string{"(least weight 0.15)"},
		},
		{
			name: "history",
			out:  FormatHistory([]recorder.SweepSummary{{RunID: "abc", BestLookback: 2, BestFloor: 0.25}}),
			want: []string{"(lookback 2, weight 0.25)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, w := range tt.want {
				assert.Contains(t, tt.out, w)
			}
		})
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "57", groupThousands(56.7))
	assert.Equal(t, "1,032", groupThousands(1032.4))
	assert.Equal(t, "13,983,816", groupThousands(13983816))
	assert.Equal(t, "774", groupThousands(774))
}

func TestFormatHistory(t *testing.T) {
	out := FormatHistory([]recorder.SweepSummary{{
		RunID:        "0f8b3c2a-1111-2222-3333-444455556666",
		Timestamp:    time.Date(2025, 2, 10, 21, 30, 0, 0, time.Local),
		LatestDraw:   4050,
		Cells:        200,
		BestLookback: 7,
		BestFloor:    0.3,
		BestWinRate:  2.64,
	}})
	assert.Contains(t, out, "2025-02-10 21:30  0f8b3c2a  draw #4050  200 cells  best win rate 2.64% (lookback 7, weight 0.3)")
	assert.Contains(t, FormatHistory(nil), "(none)")
}
