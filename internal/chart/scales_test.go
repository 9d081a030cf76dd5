package chart

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandScale(t *testing.T) {
	tests := []struct {
		name      string
		domain    []string
		positions []float64
		bandwidth float64
	}{
		{
			name:      "three bands",
			domain:    []string{"2010", "2011", "2012"},
			positions: []float64{47.5, 285, 522.5},
			bandwidth: 190,
		},
		{
			name:      "single band",
			domain:    []string{"2010"},
			positions: []float64{126.6667},
			bandwidth: 506.6667,
		},
		{
			name:      "duplicates keep first position",
			domain:    []string{"2010", "2011", "2010", "2012"},
			positions: []float64{47.5, 285, 522.5},
			bandwidth: 190,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBandScale(tt.domain, 0, 760, 0.2)
			domain := b.Domain()
			require.Len(t, domain, len(tt.positions))
			for i, label := range domain {
				pos, ok := b.Position(label)
				require.True(t, ok)
				assert.InDelta(t, tt.positions[i], pos, 1e-3, label)
			}
			assert.InDelta(t, tt.bandwidth, b.Bandwidth(), 1e-3)
		})
	}
}

func TestBandScaleUnknownAndEmpty(t *testing.T) {
	b := NewBandScale(nil, 0, 760, 0.2)
	assert.Empty(t, b.Domain())
	_, ok := b.Position("2010")
	assert.False(t, ok)
	assert.InDelta(t, 608, b.Bandwidth(), 1e-9)
}

func TestLinearScaleMap(t *testing.T) {
	y := NewLinearScale(0, 20000, 400, 0)
	assert.InDelta(t, 400, y.Map(0), 1e-9)
	assert.InDelta(t, 200, y.Map(10000), 1e-9)
	assert.InDelta(t, 0, y.Map(20000), 1e-9)

	lo, hi := y.Domain()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 20000.0, hi)
}

func TestLinearScaleTicks(t *testing.T) {
	y := NewLinearScale(0, 20000, 400, 0)
	ticks := y.Ticks(10)

	require.GreaterOrEqual(t, len(ticks), 2)
	assert.LessOrEqual(t, len(ticks), 11)
	assert.True(t, sort.Float64sAreSorted(ticks))
	assert.Equal(t, 0.0, ticks[0])
	for _, v := range ticks {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 20000.0)
	}
}

func TestLinearScaleNice(t *testing.T) {
	y := NewLinearScale(0, 13, 400, 0)
	y.Nice(10)

	lo, hi := y.Domain()
	assert.LessOrEqual(t, lo, 0.0)
	assert.GreaterOrEqual(t, hi, 13.0)
	assert.Less(t, hi, 30.0)
}
