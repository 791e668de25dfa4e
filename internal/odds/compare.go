package odds

import (
	"TotoSentinel/internal/model"
	"TotoSentinel/internal/sweep"
)

// Comparison sets the random-ticket win rate against sweep results. Rates are percentages.
type Comparison struct {
	RandomWinRate   float64
	BestWinRate     float64
	MeanWinRate     float64
	BestImprovement float64 // percent better than random
	MeanImprovement float64
	Cells           int
}

// Compare summarizes how the swept strategy win rates relate to a random ticket.
func Compare(g Game, records []model.SweepRecord) Comparison {
	c := Comparison{
		RandomWinRate: TotalWinProbability(g) * 100,
		Cells:         len(records),
	}
	if len(records) == 0 {
		return c
	}
	best, _ := sweep.Best(records, sweep.MetricWinRate)
	c.BestWinRate = best.WinRate
	c.MeanWinRate = sweep.Mean(records, sweep.MetricWinRate)
	if c.RandomWinRate > 0 {
		c.BestImprovement = (c.BestWinRate/c.RandomWinRate - 1) * 100
		c.MeanImprovement = (c.MeanWinRate/c.RandomWinRate - 1) * 100
	}
	return c
}
