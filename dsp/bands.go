//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package dsp

import (
	"fmt"
)

// Band indexes the canonical EEG frequency bands in the
// fixed order used throughout: delta, theta, alpha, beta.
type Band int

const (
	Delta Band = iota
	Theta
	Alpha
	Beta
	NumBands
)

var bandNames = [NumBands]string{"delta", "theta", "alpha", "beta"}

func (b Band) String() string {
	if b < 0 || b >= NumBands {
		return fmt.Sprintf("Band(%d)", int(b))
	}
	return bandNames[b]
}

// BandPowers holds one power value per band, ordered
// [delta, theta, alpha, beta].
type BandPowers [NumBands]float64

func (p BandPowers) Delta() float64 { return p[Delta] }
func (p BandPowers) Theta() float64 { return p[Theta] }
func (p BandPowers) Alpha() float64 { return p[Alpha] }
func (p BandPowers) Beta() float64  { return p[Beta] }

// Slice returns the powers as a row, e.g. for a RingBuffer.
func (p BandPowers) Slice() []float64 {
	return []float64{p[Delta], p[Theta], p[Alpha], p[Beta]}
}

// BandPowersFromSlice is the inverse of Slice.
func BandPowersFromSlice(v []float64) (p BandPowers) {
	if len(v) != int(NumBands) {
		panic("not comparable")
	}
	copy(p[:], v)
	return
}

// FrequencyRange is a half-open range [Low, High) in Hz.
type FrequencyRange struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

func (r FrequencyRange) Contains(f float64) bool {
	return f >= r.Low && f < r.High
}

// Bands are the cutoffs of each band, indexed by Band.
type Bands [NumBands]FrequencyRange

// DefaultBands returns the classic cutoffs.
func DefaultBands() Bands {
	return Bands{
		Delta: {Low: 0.5, High: 4},
		Theta: {Low: 4, High: 8},
		Alpha: {Low: 8, High: 12},
		Beta:  {Low: 12, High: 30},
	}
}

// Validate checks that every range is non-empty and non-negative.
func (bs Bands) Validate() error {
	for i, r := range bs {
		if r.Low < 0 || r.High <= r.Low {
			return fmt.Errorf("bad %s band: [%v, %v)", Band(i), r.Low, r.High)
		}
	}
	return nil
}
