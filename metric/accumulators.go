//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package metric

import (
	"errors"

	"github.com/jbrukh/brainbrush/dsp"
	"github.com/jbrukh/brainbrush/util"
)

// ErrInsufficientData is returned when a session mean is asked
// of a sequence with no values.
var ErrInsufficientData = errors.New("insufficient data")

// Accumulators collect the raw per-epoch band powers and the
// per-epoch relaxation over a whole session.
type Accumulators struct {
	bands      [dsp.NumBands][]float64
	relaxation []float64
}

// Means are the session-level averages the prompt is chosen by.
type Means struct {
	Bands      dsp.BandPowers `msgpack:"bands"`
	Relaxation float64        `msgpack:"relaxation"`
	ThetaAlpha float64        `msgpack:"theta_alpha"` // mean(theta) + mean(alpha)
	BetaDelta  float64        `msgpack:"beta_delta"`  // mean(beta) + mean(delta)
}

// Add records the raw band powers of one epoch.
func (a *Accumulators) Add(bp dsp.BandPowers) {
	for b := range a.bands {
		a.bands[b] = append(a.bands[b], bp[b])
	}
}

// AddRelaxation records the relaxation of one epoch.
func (a *Accumulators) AddRelaxation(v float64) {
	a.relaxation = append(a.relaxation, v)
}

// Epochs is the number of epochs recorded.
func (a *Accumulators) Epochs() int {
	return len(a.bands[dsp.Delta])
}

// RelaxationSamples is the number of valid relaxation values.
func (a *Accumulators) RelaxationSamples() int {
	return len(a.relaxation)
}

// Means averages everything recorded so far.
func (a *Accumulators) Means() (m Means, err error) {
	for b := range a.bands {
		mean, ok := util.AverageFloat64(a.bands[b])
		if !ok {
			return Means{}, ErrInsufficientData
		}
		m.Bands[b] = mean
	}
	var ok bool
	if m.Relaxation, ok = util.AverageFloat64(a.relaxation); !ok {
		return Means{}, ErrInsufficientData
	}
	m.ThetaAlpha = m.Bands.Theta() + m.Bands.Alpha()
	m.BetaDelta = m.Bands.Beta() + m.Bands.Delta()
	return m, nil
}
