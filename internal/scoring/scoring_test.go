package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TotoSentinel/internal/model"
	"TotoSentinel/internal/store"
)

func threeDrawStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New([]model.Draw{
		{ID: 3, Winning: []int{40, 41, 42, 43, 44, 45}, Additional: 46},
		{ID: 2, Winning: []int{1, 2, 3, 4, 5, 6}, Additional: 7},
		{ID: 1, Winning: []int{1, 2, 3, 10, 11, 12}, Additional: 13},
	})
	require.NoError(t, err)
	return s
}

func TestWeights(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		floor float64
		want  []float64
	}{
		{name: "single draw", n: 1, floor: 0.1, want: []float64{1.0}},
		{name: "two draws", n: 2, floor: 0.1, want: []float64{1.0, 0.1}},
		{name: "five draws", n: 5, floor: 0.2, want: []float64{1.0, 0.8, 0.6, 0.4, 0.2}},
		{name: "flat", n: 3, floor: 1.0, want: []float64{1.0, 1.0, 1.0}},
		{name: "empty", n: 0, floor: 0.1, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Weights(tt.n, tt.floor)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestWeights_MonotoneAndBounded(t *testing.T) {
	for _, floor := range []float64{0.1, 0.35, 0.5, 0.9, 1.0} {
		for n := 1; n <= 40; n++ {
			w := Weights(n, floor)
			assert.Equal(t, 1.0, w[0])
			for i := range w {
				assert.GreaterOrEqual(t, w[i], floor-1e-12)
				assert.LessOrEqual(t, w[i], 1.0)
				if i > 0 {
					assert.LessOrEqual(t, w[i], w[i-1]+1e-12, "n=%d floor=%.2f i=%d", n, floor, i)
				}
			}
		}
	}
}

func TestScore_UsesOnlyPrecedingDraws(t *testing.T) {
	s := threeDrawStore(t)

	table, err := Score(s, 3, 2, DefaultDecayFloor)
	require.NoError(t, err)

	// draw 2 weighs 1.0, draw 1 weighs 0.1
	assert.InDelta(t, 1.1, table[1], 1e-12)
	assert.InDelta(t, 1.0, table[4], 1e-12)
	assert.InDelta(t, 1.0, table[7], 1e-12)
	assert.InDelta(t, 0.1, table[10], 1e-12)
	assert.InDelta(t, 0.1, table[13], 1e-12)
	for n := 40; n <= 46; n++ {
		_, ok := table[n]
		assert.False(t, ok, "target draw number %d leaked into its own window", n)
	}
}

func TestScore_SingleDrawWindow(t *testing.T) {
	s := threeDrawStore(t)

	table, err := Score(s, 3, 1, DefaultDecayFloor)
	require.NoError(t, err)
	assert.Len(t, table, 7)
	for _, n := range []int{1, 2, 3, 4, 5, 6, 7} {
		assert.Equal(t, 1.0, table[n])
	}
}

func TestScore_ShortWindowIsNotAnError(t *testing.T) {
	s := threeDrawStore(t)

	table, err := Score(s, 2, 10, DefaultDecayFloor)
	require.NoError(t, err)
	// only draw 1 is older; a window of one gets full weight
	assert.Equal(t, 1.0, table[10])
}

func TestScore_NotFound(t *testing.T) {
	s := threeDrawStore(t)

	_, err := Score(s, 99, 2, DefaultDecayFloor)
	var nf *store.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestScore_RejectsZeroLookback(t *testing.T) {
	s := threeDrawStore(t)

	_, err := Score(s, 3, 0, DefaultDecayFloor)
	assert.Error(t, err)
}

func TestScore_DecayFloorRange(t *testing.T) {
	s := threeDrawStore(t)

	tests := []struct {
		name    string
		floor   float64
		wantErr bool
	}{
		{name: "zero", floor: 0, wantErr: true},
		{name: "negative", floor: -1, wantErr: true},
		{name: "above one", floor: 2, wantErr: true},
		{name: "smallest step", floor: 0.05},
		{name: "flat", floor: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Score(s, 3, 2, tt.floor)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFloor)
				assert.Nil(t, table)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1.0, table[4])
			assert.InDelta(t, tt.floor, table[10], 1e-9)
		})
	}
}

func TestPick_TieBreakAscending(t *testing.T) {
	table := FrequencyTable{9: 1.0, 4: 1.0, 30: 2.0, 12: 1.0, 1: 0.5}

	assert.Equal(t, model.PickSet{4, 9, 30}, Pick(table, 3))
	assert.Equal(t, model.PickSet{1, 4, 9, 12, 30}, Pick(table, 10))
	assert.Empty(t, Pick(FrequencyTable{}, 6))
}

func TestSuggest(t *testing.T) {
	s := threeDrawStore(t)

	picks, table, err := Suggest(s, 3, 2, DefaultDecayFloor, DefaultPicks)
	require.NoError(t, err)
	assert.NotEmpty(t, table)
	// 1,2,3 appear in both draws; 4,5,6 then 7 come from the newest
	assert.Equal(t, model.PickSet{1, 2, 3, 4, 5, 6}, picks)
}

func TestRanked(t *testing.T) {
	got := Ranked(FrequencyTable{5: 0.5, 2: 0.5, 8: 3})
	require.Len(t, got, 3)
	assert.Equal(t, []Entry{{8, 3}, {2, 0.5}, {5, 0.5}}, got)
}
