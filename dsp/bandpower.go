//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package dsp

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// ErrEmptyEpoch is returned when there is nothing to transform.
var ErrEmptyEpoch = errors.New("empty epoch")

// BandPowerEstimator turns an epoch of raw samples into the
// mean spectral power of each band. It caches the FFT plan for
// the last epoch length and is not safe for concurrent use.
type BandPowerEstimator struct {
	bands Bands

	n      int // epoch length the buffers below are sized for
	nfft   int
	fft    *fourier.FFT
	taper  []float64
	seq    []float64
	coeffs []complex128
}

// Create an estimator for the given band cutoffs.
func NewBandPowerEstimator(bands Bands) *BandPowerEstimator {
	return &BandPowerEstimator{bands: bands}
}

// Bands returns the cutoffs in use.
func (e *BandPowerEstimator) Bands() Bands {
	return e.bands
}

// Compute estimates the band powers of an epoch (rows are
// samples, columns channels). Each channel has its offset
// removed, is tapered with a Hamming window, zero-padded to a
// power of two and transformed; the one-sided power (2|X|/N)^2
// is then averaged over the bins falling in each band. Powers
// of several channels are averaged.
func (e *BandPowerEstimator) Compute(epoch [][]float64, sampleRate int) (BandPowers, error) {
	var result BandPowers
	if len(epoch) == 0 || len(epoch[0]) == 0 {
		return result, ErrEmptyEpoch
	}
	e.prepare(len(epoch))

	channels := len(epoch[0])
	binWidth := float64(sampleRate) / float64(e.nfft)
	for c := 0; c < channels; c++ {
		var mean float64
		for _, row := range epoch {
			mean += row[c]
		}
		mean /= float64(e.n)

		for i := range e.seq {
			e.seq[i] = 0
		}
		for s, row := range epoch {
			e.seq[s] = (row[c] - mean) * e.taper[s]
		}
		e.coeffs = e.fft.Coefficients(e.coeffs, e.seq)

		var (
			sums   BandPowers
			counts [NumBands]int
		)
		for k, x := range e.coeffs {
			f := float64(k) * binWidth
			amp := 2 * cmplx.Abs(x) / float64(e.n)
			for b, r := range e.bands {
				if r.Contains(f) {
					sums[b] += amp * amp
					counts[b]++
				}
			}
		}
		for b := range result {
			if counts[b] > 0 {
				result[b] += sums[b] / float64(counts[b])
			}
		}
	}

	for b := range result {
		result[b] /= float64(channels)
	}
	return result, nil
}

func (e *BandPowerEstimator) prepare(n int) {
	if n == e.n {
		return
	}
	e.n = n
	e.nfft = nextPow2(n)
	e.fft = fourier.NewFFT(e.nfft)
	e.seq = make([]float64, e.nfft)
	e.coeffs = make([]complex128, e.nfft/2+1)

	e.taper = make([]float64, n)
	for i := range e.taper {
		e.taper[i] = 1
	}
	window.Hamming(e.taper)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
