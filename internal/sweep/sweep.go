package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"TotoSentinel/internal/backtest"
	"TotoSentinel/internal/model"
	"TotoSentinel/internal/store"
)

// ErrInvalidGrid is returned when a grid range is empty or has a non-positive step.
var ErrInvalidGrid = errors.New("invalid sweep grid")

// Grid is the inclusive lookback × decay-floor parameter grid.
type Grid struct {
	LookbackMin  int
	LookbackMax  int
	LookbackStep int
	FloorMin     float64
	FloorMax     float64
	FloorStep    float64
}

// DefaultGrid covers lookbacks 1..20 and floors 0.1..1.0.
func DefaultGrid() Grid {
	return Grid{
		LookbackMin: 1, LookbackMax: 20, LookbackStep: 1,
		FloorMin: 0.1, FloorMax: 1.0, FloorStep: 0.1,
	}
}

// Validate checks that both ranges are non-empty and floors stay within (0, 1].
func (g Grid) Validate() error {
	if g.LookbackStep < 1 || g.LookbackMin < 1 || g.LookbackMax < g.LookbackMin {
		return fmt.Errorf("%w: lookback %d..%d step %d", ErrInvalidGrid, g.LookbackMin, g.LookbackMax, g.LookbackStep)
	}
	if g.FloorStep <= 0 || g.FloorMin <= 0 || g.FloorMax > 1 || g.FloorMax < g.FloorMin {
		return fmt.Errorf("%w: floor %.3f..%.3f step %.3f", ErrInvalidGrid, g.FloorMin, g.FloorMax, g.FloorStep)
	}
	return nil
}

// Lookbacks enumerates the lookback axis.
func (g Grid) Lookbacks() []int {
	var out []int
	for lb := g.LookbackMin; lb <= g.LookbackMax; lb += g.LookbackStep {
		out = append(out, lb)
	}
	return out
}

// Floors enumerates the decay-floor axis. Values are computed from the index, not
// accumulated, and rounded to 1e-9 so 0.1 steps land on 0.3 rather than 0.30000000000000004.
func (g Grid) Floors() []float64 {
	n := int(math.Floor((g.FloorMax-g.FloorMin)/g.FloorStep+1e-9)) + 1
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := g.FloorMin + float64(i)*g.FloorStep
		out = append(out, math.Round(v*1e9)/1e9)
	}
	return out
}

// Size is the number of grid cells.
func (g Grid) Size() int {
	return len(g.Lookbacks()) * len(g.Floors())
}

type cell struct {
	lookback int
	floor    float64
}

func (g Grid) cells() []cell {
	lbs, fls := g.Lookbacks(), g.Floors()
	out := make([]cell, 0, len(lbs)*len(fls))
	for _, lb := range lbs {
		for _, fl := range fls {
			out = append(out, cell{lookback: lb, floor: fl})
		}
	}
	return out
}

// Run backtests every grid cell on up to workers goroutines. Records come back in grid
// order (lookback outer, floor inner) regardless of completion order.
func Run(ctx context.Context, s *store.Store, g Grid, workers int) ([]model.SweepRecord, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	cells := g.cells()
	log.WithFields(log.Fields{
		"cells":   len(cells),
		"workers": workers,
		"draws":   s.Len(),
	}).Info("starting parameter sweep")

	records := make([]model.SweepRecord, len(cells))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, c := range cells {
		i, c := i, c
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := backtest.Run(s, backtest.Options{Lookback: c.lookback, DecayFloor: c.floor})
			if err != nil {
				return fmt.Errorf("lookback %d floor %.2f: %w", c.lookback, c.floor, err)
			}
			records[i] = Summarize(res)
			log.WithFields(log.Fields{
				"cell":     fmt.Sprintf("%d/%d", i+1, len(cells)),
				"lookback": c.lookback,
				"floor":    c.floor,
			}).Debug("sweep cell done")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"cells":       len(records),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("parameter sweep completed")
	return records, nil
}

// Summarize converts a backtest result into a sweep record.
func Summarize(res *model.BacktestResult) model.SweepRecord {
	return model.SweepRecord{
		Lookback:   res.Lookback,
		DecayFloor: res.DecayFloor,
		AvgProfit:  res.AvgProfit(),
		WinRate:    res.WinRate(),
		TotalDraws: len(res.Records),
		TotalWins:  res.Wins,
		TotalCost:  res.TotalCost,
		TotalPrize: res.TotalPrize,
		NetProfit:  res.NetProfit(),
	}
}
