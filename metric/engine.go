//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package metric

import (
	"math"

	"github.com/jbrukh/brainbrush/datastruct"
	"github.com/jbrukh/brainbrush/dsp"
)

// ----------------------------------------------------------------- //
// Metric Engine
// ----------------------------------------------------------------- //

// Engine smooths band powers over the last K epochs and derives
// neurofeedback ratios from the smoothed values. The band power
// buffer starts zero-filled, so the first K-1 smoothed values
// are pulled toward zero.
type Engine struct {
	bands *datastruct.RingBuffer
}

// Metrics are band power ratios. A ratio whose denominator is
// zero is NaN and marked invalid.
type Metrics struct {
	Relaxation      float64 // alpha / delta
	Concentration   float64 // beta / theta
	ThetaRelaxation float64 // theta / alpha

	RelaxationValid      bool
	ConcentrationValid   bool
	ThetaRelaxationValid bool
}

// EpochsInBuffer is the number of epochs K that fit a buffer of
// bufferLength seconds when consecutive epochs are shifted by
// shiftLength seconds.
func EpochsInBuffer(bufferLength, epochLength, shiftLength float64) int {
	// the epsilon absorbs representation error, e.g. 1-0.8
	return int(math.Floor((bufferLength-epochLength)/shiftLength+1e-9)) + 1
}

// Create an engine smoothing over k epochs.
func NewEngine(k int) *Engine {
	return &Engine{
		bands: datastruct.NewRingBuffer(k, int(dsp.NumBands)),
	}
}

// Epochs is the smoothing depth K.
func (e *Engine) Epochs() int {
	return e.bands.Capacity()
}

// Update pushes the band powers of one epoch and returns the
// mean over the last K epochs.
func (e *Engine) Update(bp dsp.BandPowers) (dsp.BandPowers, error) {
	if err := e.bands.Update([][]float64{bp.Slice()}); err != nil {
		return dsp.BandPowers{}, err
	}
	return e.Smoothed(), nil
}

// Smoothed returns the current mean band powers.
func (e *Engine) Smoothed() dsp.BandPowers {
	return dsp.BandPowersFromSlice(e.bands.Mean())
}

// Compute derives the ratio metrics from smoothed band powers.
func Compute(smoothed dsp.BandPowers) (m Metrics) {
	m.Relaxation, m.RelaxationValid = ratio(smoothed.Alpha(), smoothed.Delta())
	m.Concentration, m.ConcentrationValid = ratio(smoothed.Beta(), smoothed.Theta())
	m.ThetaRelaxation, m.ThetaRelaxationValid = ratio(smoothed.Theta(), smoothed.Alpha())
	return
}

func ratio(num, den float64) (float64, bool) {
	if den == 0 {
		return math.NaN(), false
	}
	return num / den, true
}
