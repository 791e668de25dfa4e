package backtest

import (
	"errors"
	"fmt"

	"TotoSentinel/internal/model"
	"TotoSentinel/internal/prize"
	"TotoSentinel/internal/scoring"
	"TotoSentinel/internal/store"
)

// ErrInvalidOptions is returned for a lookback below 1 or a decay floor outside (0, 1].
var ErrInvalidOptions = errors.New("invalid backtest options")

// Options configures a backtest run. Zero StartDraw or EndDraw leaves that side unbounded.
type Options struct {
	Lookback   int
	DecayFloor float64 // zero means scoring.DefaultDecayFloor
	StartDraw  int     // newest draw id to include
	EndDraw    int     // oldest draw id to include
	Picks      int     // zero means scoring.DefaultPicks
}

func (o Options) withDefaults() Options {
	if o.DecayFloor == 0 {
		o.DecayFloor = scoring.DefaultDecayFloor
	}
	if o.Picks == 0 {
		o.Picks = scoring.DefaultPicks
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.Lookback < 1 {
		return fmt.Errorf("%w: lookback %d must be at least 1", ErrInvalidOptions, o.Lookback)
	}
	if o.DecayFloor <= 0 || o.DecayFloor > 1 {
		return fmt.Errorf("%w: decay floor %.3f must be in (0, 1]", ErrInvalidOptions, o.DecayFloor)
	}
	if o.Picks < 1 {
		return fmt.Errorf("%w: picks %d must be at least 1", ErrInvalidOptions, o.Picks)
	}
	if o.StartDraw != 0 && o.EndDraw != 0 && o.EndDraw > o.StartDraw {
		return fmt.Errorf("%w: end draw %d is newer than start draw %d", ErrInvalidOptions, o.EndDraw, o.StartDraw)
	}
	return nil
}

func (o Options) inRange(id int) bool {
	if o.StartDraw != 0 && id > o.StartDraw {
		return false
	}
	if o.EndDraw != 0 && id < o.EndDraw {
		return false
	}
	return true
}

// Run replays the weighted-frequency strategy over every eligible draw in the store.
// A draw is eligible when at least Lookback strictly older draws exist.
func Run(s *store.Store, opts Options) (*model.BacktestResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	res := &model.BacktestResult{Lookback: opts.Lookback, DecayFloor: opts.DecayFloor}
	draws := s.Draws()
	for i, d := range draws {
		if !opts.inRange(d.ID) {
			continue
		}
		// store is newest first, so everything after i is strictly older
		if len(draws)-i-1 < opts.Lookback {
			continue
		}
		window := draws[i+1 : i+1+opts.Lookback]
		picks := scoring.Pick(scoring.Tally(window, opts.DecayFloor), opts.Picks)
		tier, payout := prize.Grade(picks, d.Winning, d.Additional)

		res.Records = append(res.Records, model.BacktestRecord{
			DrawID:     d.ID,
			Date:       d.Date,
			Picks:      picks,
			Winning:    d.Winning,
			Additional: d.Additional,
			Tier:       tier,
			Prize:      payout,
			Profit:     payout - model.TicketCost,
		})
		res.TotalCost += model.TicketCost
		res.TotalPrize += payout
		if payout > 0 {
			res.Wins++
		}
	}
	return res, nil
}

// Winners returns only the records that won a prize.
func Winners(res *model.BacktestResult) []model.BacktestRecord {
	var out []model.BacktestRecord
	for _, r := range res.Records {
		if r.Prize > 0 {
			out = append(out, r)
		}
	}
	return out
}

// TierCounts tallies how often each tier was hit.
func TierCounts(res *model.BacktestResult) map[model.PrizeTier]int {
	counts := make(map[model.PrizeTier]int)
	for _, r := range res.Records {
		if r.Tier != model.TierNone {
			counts[r.Tier]++
		}
	}
	return counts
}
