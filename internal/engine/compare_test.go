package engine

import (
	"testing"

	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareOrientations(t *testing.T) {
	b := squareLot()
	d := testDims()

	results := CompareOrientations(b, d)
	require.Len(t, results, 3)

	for i, o := range model.Orientations {
		r := results[i]
		assert.Equal(t, o, r.Orientation)
		assert.Equal(t, len(Generate(b, d, o)), r.Stalls, "orientation %v", o)
		assert.Equal(t, r.Stalls, r.Layout.Count())
		assert.InDelta(t, float64(r.Stalls)*d.StallArea(o), r.StallArea, 1e-9)
		assert.LessOrEqual(t, r.Stalls, r.Estimate.UpperBound)
	}

	r0 := results[0]
	assert.Equal(t, 45, r0.Stalls)
	// 45 stalls on 400 m².
	assert.InDelta(t, 11.25, r0.Density, 1e-9)
	assert.InDelta(t, 45.0, r0.Coverage, 1e-9)
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	results := []ComparisonResult{
		{Orientation: model.Deg0, Stalls: 10},
		{Orientation: model.Deg60, Stalls: 14},
		{Orientation: model.Deg90, Stalls: 14},
	}
	best, ok := Best(results)
	require.True(t, ok)
	assert.Equal(t, model.Deg60, best.Orientation, "ties go to the lower angle")

	results[2].Stalls = 15
	best, _ = Best(results)
	assert.Equal(t, model.Deg90, best.Orientation)
}
