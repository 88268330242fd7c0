//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package dsp

import (
	"fmt"
	"math"
)

// ----------------------------------------------------------------- //
// Notch Filter
// ----------------------------------------------------------------- //

// biquad holds normalized coefficients of one second-order
// section (a0 == 1).
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// NotchFilter removes a narrow band around a fixed frequency,
// typically mains interference. It is a cascade of identical
// notch biquads evaluated in direct form II transposed. The
// filter itself is immutable; all memory lives in FilterState.
type NotchFilter struct {
	freq     float64
	sections []biquad
}

// FilterState is the delay line of a NotchFilter for every
// channel, indexed [channel][section]. A nil *FilterState means
// the filter has not seen any data yet.
type FilterState struct {
	z [][][2]float64
}

// Channels returns the number of channels the state was
// initialized for.
func (s *FilterState) Channels() int {
	return len(s.z)
}

// NewNotchFilter designs a notch at freq Hz with the given -3dB
// bandwidth for the sample rate, with order sections in cascade.
func NewNotchFilter(freq, bandwidth float64, sampleRate, order int) (*NotchFilter, error) {
	nyquist := float64(sampleRate) / 2
	switch {
	case sampleRate < 1:
		return nil, fmt.Errorf("bad sample rate: %d", sampleRate)
	case freq <= 0 || freq >= nyquist:
		return nil, fmt.Errorf("notch frequency %v outside (0, %v)", freq, nyquist)
	case bandwidth <= 0:
		return nil, fmt.Errorf("bad notch bandwidth: %v", bandwidth)
	case order < 1:
		return nil, fmt.Errorf("bad notch order: %d", order)
	}

	var (
		w0    = 2 * math.Pi * freq / float64(sampleRate)
		q     = freq / bandwidth
		alpha = math.Sin(w0) / (2 * q)
		cosw  = math.Cos(w0)
		a0    = 1 + alpha
	)
	section := biquad{
		b0: 1 / a0,
		b1: -2 * cosw / a0,
		b2: 1 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}

	f := &NotchFilter{freq: freq, sections: make([]biquad, order)}
	for i := range f.sections {
		f.sections[i] = section
	}
	return f, nil
}

// Frequency returns the notch center in Hz.
func (f *NotchFilter) Frequency() float64 {
	return f.freq
}

// Apply filters a chunk of rows (one value per channel) and
// returns the filtered rows with the updated state. A nil state
// is initialized from the first row of the chunk, as if that
// value had been present forever, so the output starts without
// a transient. An empty chunk leaves the state as it was.
func (f *NotchFilter) Apply(chunk [][]float64, state *FilterState) ([][]float64, *FilterState) {
	out := make([][]float64, len(chunk))
	if len(chunk) == 0 {
		return out, state
	}
	if state == nil {
		state = f.steadyState(chunk[0])
	}
	if len(chunk[0]) != state.Channels() {
		panic("not comparable")
	}

	for s, row := range chunk {
		y := make([]float64, len(row))
		for c, x := range row {
			z := state.z[c]
			for i, sec := range f.sections {
				v := sec.b0*x + z[i][0]
				z[i][0] = sec.b1*x - sec.a1*v + z[i][1]
				z[i][1] = sec.b2*x - sec.a2*v
				x = v
			}
			y[c] = x
		}
		out[s] = y
	}
	return out, state
}

// The state each section would settle into after a constant
// input x0. Notch sections have unit gain at DC, so every
// section sees x0 on its input and output.
func (f *NotchFilter) steadyState(x0 []float64) *FilterState {
	state := &FilterState{z: make([][][2]float64, len(x0))}
	for c, x := range x0 {
		state.z[c] = make([][2]float64, len(f.sections))
		for i, sec := range f.sections {
			state.z[c][i] = [2]float64{
				x * (1 - sec.b0),
				x * (sec.b2 - sec.a2),
			}
		}
	}
	return state
}
