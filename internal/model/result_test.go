package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloor(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0.1, want: "0.1"},
		{in: 0.5, want: "0.5"},
		{in: 1, want: "1.0"},
		{in: 0.05, want: "0.05"},
		{in: 0.15, want: "0.15"},
		{in: 0.125, want: "0.125"},
		{in: 0, want: "0.0"},
		{in: -1, want: "-1.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloor(tt.in))
	}
}

func TestBacktestResult_Rates(t *testing.T) {
	r := &BacktestResult{
		Records:    make([]BacktestRecord, 4),
		TotalCost:  4,
		TotalPrize: 10,
		Wins:       1,
	}
	assert.Equal(t, 6, r.NetProfit())
	assert.Equal(t, 1.5, r.AvgProfit())
	assert.Equal(t, 25.0, r.WinRate())

	empty := &BacktestResult{}
	assert.Equal(t, 0.0, empty.AvgProfit())
}
