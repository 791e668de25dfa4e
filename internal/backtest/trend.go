package backtest

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"TotoSentinel/internal/model"
	"TotoSentinel/internal/store"
)

// Yearly groups backtest records by calendar year, oldest year first.
func Yearly(res *model.BacktestResult) []model.YearlyStat {
	byYear := make(map[int]*model.YearlyStat)
	for _, r := range res.Records {
		y := r.Date.Year()
		st, ok := byYear[y]
		if !ok {
			st = &model.YearlyStat{Year: y}
			byYear[y] = st
		}
		st.Total++
		if r.Prize > 0 {
			st.Wins++
		}
	}

	out := make([]model.YearlyStat, 0, len(byYear))
	for _, st := range byYear {
		st.WinRate = float64(st.Wins) / float64(st.Total) * 100
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Trend runs one backtest per (lookback, floor) pair and returns the yearly breakdown of each.
func Trend(s *store.Store, lookbacks []int, floors []float64) ([]model.TrendSeries, error) {
	series := make([]model.TrendSeries, 0, len(lookbacks)*len(floors))
	for _, lb := range lookbacks {
		for _, fl := range floors {
			log.WithFields(log.Fields{"lookback": lb, "floor": fl}).Debug("trend backtest")
			res, err := Run(s, Options{Lookback: lb, DecayFloor: fl})
			if err != nil {
				return nil, err
			}
			series = append(series, model.TrendSeries{
				Lookback:   lb,
				DecayFloor: fl,
				Years:      Yearly(res),
			})
		}
	}
	return series, nil
}
