package backtest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TotoSentinel/internal/model"
	"TotoSentinel/internal/scoring"
	"TotoSentinel/internal/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// repeatingStore has draws 1..n that all share the same numbers.
func repeatingStore(t *testing.T, n int, winning []int, additional int) *store.Store {
	t.Helper()
	draws := make([]model.Draw, 0, n)
	for id := 1; id <= n; id++ {
		draws = append(draws, model.Draw{
			ID:         id,
			Date:       day(2020, time.January, 1).AddDate(0, 0, 3*id),
			Winning:    winning,
			Additional: additional,
		})
	}
	s, err := store.New(draws)
	require.NoError(t, err)
	return s
}

func TestRun_SkipsIneligibleDraws(t *testing.T) {
	s := repeatingStore(t, 10, []int{1, 2, 3, 4, 5, 6}, 7)

	res, err := Run(s, Options{Lookback: 3})
	require.NoError(t, err)
	// draws 1..3 lack three older draws
	require.Len(t, res.Records, 7)
	assert.Equal(t, 10, res.Records[0].DrawID)
	assert.Equal(t, 4, res.Records[len(res.Records)-1].DrawID)
	assert.Equal(t, 7, res.TotalCost)
}

func TestRun_RepeatedNumbersAlwaysHitJackpot(t *testing.T) {
	s := repeatingStore(t, 6, []int{5, 10, 15, 20, 25, 30}, 35)

	res, err := Run(s, Options{Lookback: 2})
	require.NoError(t, err)
	require.Len(t, res.Records, 4)
	for _, r := range res.Records {
		assert.Equal(t, model.PickSet{5, 10, 15, 20, 25, 30}, r.Picks)
		assert.Equal(t, model.Tier1, r.Tier)
		assert.Equal(t, 999999, r.Profit)
	}
	assert.Equal(t, 4, res.Wins)
	assert.Equal(t, 4000000, res.TotalPrize)
	assert.Equal(t, 4000000-4, res.NetProfit())
	assert.InDelta(t, 100.0, res.WinRate(), 1e-9)
}

func TestRun_NoLeakage(t *testing.T) {
	sentinel := []int{44, 45, 46, 47, 48, 49}
	draws := []model.Draw{
		{ID: 1, Date: day(2021, 1, 4), Winning: []int{1, 2, 3, 4, 5, 6}, Additional: 7},
		{ID: 2, Date: day(2021, 1, 7), Winning: []int{1, 2, 3, 8, 9, 10}, Additional: 11},
		{ID: 3, Date: day(2021, 1, 11), Winning: []int{2, 3, 4, 12, 13, 14}, Additional: 15},
		{ID: 4, Date: day(2021, 1, 14), Winning: sentinel, Additional: 43},
	}
	s, err := store.New(draws)
	require.NoError(t, err)

	for lookback := 1; lookback <= 3; lookback++ {
		res, err := Run(s, Options{Lookback: lookback})
		require.NoError(t, err)
		for _, r := range res.Records {
			if r.DrawID != 4 {
				continue
			}
			for _, n := range sentinel {
				assert.False(t, r.Picks.Contains(n), "lookback %d: sentinel %d leaked into picks %v", lookback, n, r.Picks)
			}
			assert.False(t, r.Picks.Contains(43))
		}
	}
}

func TestRun_DrawRange(t *testing.T) {
	s := repeatingStore(t, 20, []int{1, 2, 3, 4, 5, 6}, 7)

	tests := []struct {
		name      string
		opts      Options
		wantFirst int
		wantLast  int
		wantCount int
	}{
		{name: "unbounded", opts: Options{Lookback: 5}, wantFirst: 20, wantLast: 6, wantCount: 15},
		{name: "start only", opts: Options{Lookback: 5, StartDraw: 12}, wantFirst: 12, wantLast: 6, wantCount: 7},
		{name: "end only", opts: Options{Lookback: 5, EndDraw: 15}, wantFirst: 20, wantLast: 15, wantCount: 6},
		{name: "both", opts: Options{Lookback: 5, StartDraw: 10, EndDraw: 8}, wantFirst: 10, wantLast: 8, wantCount: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(s, tt.opts)
			require.NoError(t, err)
			require.Len(t, res.Records, tt.wantCount)
			assert.Equal(t, tt.wantFirst, res.Records[0].DrawID)
			assert.Equal(t, tt.wantLast, res.Records[len(res.Records)-1].DrawID)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	draws := make([]model.Draw, 0, 30)
	for id := 1; id <= 30; id++ {
		base := id % 40
		draws = append(draws, model.Draw{
			ID:         id,
			Date:       day(2019, 6, 1).AddDate(0, 0, 4*id),
			Winning:    []int{base + 1, base + 2, base + 4, base + 5, base + 7, base + 9},
			Additional: base + 3,
		})
	}
	s, err := store.New(draws)
	require.NoError(t, err)

	a, err := Run(s, Options{Lookback: 4, DecayFloor: 0.3})
	require.NoError(t, err)
	b, err := Run(s, Options{Lookback: 4, DecayFloor: 0.3})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_InvalidOptions(t *testing.T) {
	s := repeatingStore(t, 3, []int{1, 2, 3, 4, 5, 6}, 7)

	for _, opts := range []Options{
		{Lookback: 0},
		{Lookback: 2, DecayFloor: 1.5},
		{Lookback: 2, DecayFloor: -0.1},
		{Lookback: 2, StartDraw: 1, EndDraw: 3},
	} {
		_, err := Run(s, opts)
		assert.True(t, errors.Is(err, ErrInvalidOptions), "opts %+v", opts)
	}
}

func TestRun_ZeroOptionsReportDefaults(t *testing.T) {
	s := repeatingStore(t, 3, []int{1, 2, 3, 4, 5, 6}, 7)

	tests := []struct {
		name      string
		opts      Options
		wantFloor float64
	}{
		{name: "zero floor", opts: Options{Lookback: 1}, wantFloor: scoring.DefaultDecayFloor},
		{name: "explicit floor", opts: Options{Lookback: 1, DecayFloor: 0.05}, wantFloor: 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(s, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFloor, res.DecayFloor)
			for _, r := range res.Records {
				assert.Len(t, r.Picks, scoring.DefaultPicks)
			}
		})
	}
}

func TestRun_EmptyWhenLookbackExceedsHistory(t *testing.T) {
	s := repeatingStore(t, 3, []int{1, 2, 3, 4, 5, 6}, 7)

	res, err := Run(s, Options{Lookback: 5})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Zero(t, res.WinRate())
	assert.Zero(t, res.AvgProfit())
}

func TestWinnersAndTierCounts(t *testing.T) {
	res := &model.BacktestResult{Records: []model.BacktestRecord{
		{DrawID: 3, Tier: model.Tier7, Prize: 10},
		{DrawID: 2, Tier: model.TierNone},
		{DrawID: 1, Tier: model.Tier7, Prize: 10},
	}}
	winners := Winners(res)
	require.Len(t, winners, 2)
	assert.Equal(t, 3, winners[0].DrawID)
	assert.Equal(t, map[model.PrizeTier]int{model.Tier7: 2}, TierCounts(res))
}
