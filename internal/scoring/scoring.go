package scoring

import (
	"errors"
	"fmt"
	"sort"

	"TotoSentinel/internal/model"
	"TotoSentinel/internal/store"
)

const (
	// DefaultDecayFloor is the weight given to the oldest draw in the window.
	DefaultDecayFloor = 0.1
	// DefaultPicks is the size of a TOTO ticket.
	DefaultPicks = 6
)

// ErrInvalidFloor reports a decay floor outside (0, 1].
var ErrInvalidFloor = errors.New("invalid decay floor")

// CheckFloor returns ErrInvalidFloor unless 0 < floor <= 1.
func CheckFloor(floor float64) error {
	if !(floor > 0 && floor <= 1) {
		return fmt.Errorf("%w: %s must be in (0, 1]", ErrInvalidFloor, model.FormatFloor(floor))
	}
	return nil
}

// FrequencyTable maps a number to its accumulated recency weight.
type FrequencyTable map[int]float64

// Entry is one ranked row of a FrequencyTable.
type Entry struct {
	Number int
	Weight float64
}

// Weights returns n linearly spaced weights from 1.0 (most recent) down to floor (oldest).
func Weights(n int, floor float64) []float64 {
	if n <= 0 {
		return nil
	}
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1.0
		return w
	}
	step := (floor - 1.0) / float64(n-1)
	for i := range w {
		w[i] = 1.0 + step*float64(i)
	}
	w[n-1] = floor
	return w
}

// Tally accumulates weights over a window of draws ordered newest first.
// Winning numbers and the additional number all receive the draw's weight.
func Tally(window []model.Draw, floor float64) FrequencyTable {
	table := make(FrequencyTable)
	weights := Weights(len(window), floor)
	for i, d := range window {
		for _, n := range d.Numbers() {
			table[n] += weights[i]
		}
	}
	return table
}

// Score builds the frequency table for target from the lookback draws strictly preceding it.
// A short window is used as is.
func Score(s *store.Store, target, lookback int, floor float64) (FrequencyTable, error) {
	if lookback < 1 {
		return nil, errors.New("lookback must be positive")
	}
	if err := CheckFloor(floor); err != nil {
		return nil, err
	}
	window, err := s.Preceding(target, lookback)
	if err != nil {
		return nil, err
	}
	return Tally(window, floor), nil
}

// Ranked orders the table by weight descending, breaking ties by ascending number.
func Ranked(table FrequencyTable) []Entry {
	entries := make([]Entry, 0, len(table))
	for n, w := range table {
		entries = append(entries, Entry{Number: n, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Number < entries[j].Number
	})
	return entries
}

// Pick takes the k highest-weighted numbers and returns them in ascending order.
func Pick(table FrequencyTable, k int) model.PickSet {
	ranked := Ranked(table)
	if k > len(ranked) {
		k = len(ranked)
	}
	if k < 0 {
		k = 0
	}
	picks := make(model.PickSet, k)
	for i := 0; i < k; i++ {
		picks[i] = ranked[i].Number
	}
	sort.Ints(picks)
	return picks
}

// Suggest scores target and returns the top k picks together with the table.
func Suggest(s *store.Store, target, lookback int, floor float64, k int) (model.PickSet, FrequencyTable, error) {
	table, err := Score(s, target, lookback, floor)
	if err != nil {
		return nil, nil, err
	}
	return Pick(table, k), table, nil
}
