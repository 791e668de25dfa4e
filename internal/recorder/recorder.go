package recorder

import (
	"time"

	"TotoSentinel/internal/model"
)

// BacktestRun is one finished backtest.
type BacktestRun struct {
	Result *model.BacktestResult
	Source string // draw file the backtest ran against
}

// SweepRun is one finished parameter sweep.
type SweepRun struct {
	Records    []model.SweepRecord
	LatestDraw int
	Source     string
}

// SweepSummary is the header row stored for a sweep run.
type SweepSummary struct {
	RunID        string
	Timestamp    time.Time
	Source       string
	LatestDraw   int
	Cells        int
	BestLookback int
	BestFloor    float64
	BestWinRate  float64
}

// Recorder keeps a history of analysis runs. Each Record call returns the new run id.
type Recorder interface {
	RecordBacktest(run *BacktestRun) (string, error)
	RecordSweep(run *SweepRun) (string, error)
	RecentSweeps(limit int) ([]SweepSummary, error)
	Close() error
}
