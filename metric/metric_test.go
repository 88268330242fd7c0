//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package metric

import (
	"math"
	"testing"

	"github.com/jbrukh/brainbrush/dsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochsInBuffer(t *testing.T) {
	assert.Equal(t, 21, EpochsInBuffer(5, 1, 1-0.8))
	assert.Equal(t, 1, EpochsInBuffer(1, 1, 0.5))
	assert.Equal(t, 5, EpochsInBuffer(3, 1, 0.5))
}

func TestEngine__ConstantInputIsFixedPoint(t *testing.T) {
	var (
		e  = NewEngine(21)
		bp = dsp.BandPowers{0.4, 0.3, 1.2, 0.7}
	)
	var smoothed dsp.BandPowers
	for i := 0; i < e.Epochs(); i++ {
		var err error
		smoothed, err = e.Update(bp)
		require.NoError(t, err)
	}
	for b := range bp {
		assert.InDelta(t, bp[b], smoothed[b], 1e-12)
	}
}

func TestEngine__WarmUpIncludesZeros(t *testing.T) {
	e := NewEngine(4)
	smoothed, err := e.Update(dsp.BandPowers{4, 8, 12, 16})
	require.NoError(t, err)
	assert.Equal(t, dsp.BandPowers{1, 2, 3, 4}, smoothed)
}

func TestCompute(t *testing.T) {
	m := Compute(dsp.BandPowers{2, 4, 1, 8})
	assert.True(t, m.RelaxationValid)
	assert.InDelta(t, 0.5, m.Relaxation, 1e-12)
	assert.InDelta(t, 2.0, m.Concentration, 1e-12)
	assert.InDelta(t, 4.0, m.ThetaRelaxation, 1e-12)

	m = Compute(dsp.BandPowers{0, 0, 0, 1})
	assert.False(t, m.RelaxationValid)
	assert.True(t, math.IsNaN(m.Relaxation))
	assert.False(t, m.ConcentrationValid)
	assert.False(t, m.ThetaRelaxationValid)
}

func TestAccumulators(t *testing.T) {
	var a Accumulators
	_, err := a.Means()
	assert.ErrorIs(t, err, ErrInsufficientData)

	a.Add(dsp.BandPowers{1, 2, 3, 4})
	a.Add(dsp.BandPowers{3, 4, 5, 6})
	assert.Equal(t, 2, a.Epochs())

	// band powers alone are not enough
	_, err = a.Means()
	assert.ErrorIs(t, err, ErrInsufficientData)

	a.AddRelaxation(0.2)
	a.AddRelaxation(0.6)
	m, err := a.Means()
	require.NoError(t, err)
	assert.Equal(t, dsp.BandPowers{2, 3, 4, 5}, m.Bands)
	assert.InDelta(t, 0.4, m.Relaxation, 1e-12)
	assert.InDelta(t, 7.0, m.ThetaAlpha, 1e-12)
	assert.InDelta(t, 7.0, m.BetaDelta, 1e-12)
}
