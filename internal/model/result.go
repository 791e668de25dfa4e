package model

import (
	"strconv"
	"strings"
	"time"
)

// BacktestRecord is the outcome of playing the suggested picks on one historical draw.
type BacktestRecord struct {
	DrawID     int
	Date       time.Time
	Picks      PickSet
	Winning    []int
	Additional int
	Tier       PrizeTier
	Prize      int
	Profit     int
}

// BacktestResult aggregates a full backtest run.
type BacktestResult struct {
	Lookback   int
	DecayFloor float64
	Records    []BacktestRecord
	TotalCost  int
	TotalPrize int
	Wins       int
}

// NetProfit is total prize minus total cost.
func (r *BacktestResult) NetProfit() int {
	return r.TotalPrize - r.TotalCost
}

// WinRate returns the percentage of played draws that won any prize.
func (r *BacktestResult) WinRate() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return float64(r.Wins) / float64(len(r.Records)) * 100
}

// AvgProfit returns the net profit per played draw.
func (r *BacktestResult) AvgProfit() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return float64(r.NetProfit()) / float64(len(r.Records))
}

// FormatFloor renders a decay floor at the shortest precision that keeps it
// distinct, with at least one decimal place.
func FormatFloor(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// SweepRecord is one grid cell of a parameter sweep.
type SweepRecord struct {
	Lookback   int
	DecayFloor float64
	AvgProfit  float64
	WinRate    float64 // percent
	TotalDraws int
	TotalWins  int
	TotalCost  int
	TotalPrize int
	NetProfit  int
}

// YearlyStat summarizes backtest wins within one calendar year.
type YearlyStat struct {
	Year    int
	WinRate float64 // percent
	Wins    int
	Total   int
}

// TrendSeries is the yearly breakdown for one parameter combination.
type TrendSeries struct {
	Lookback   int
	DecayFloor float64
	Years      []YearlyStat
}
