//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package dsp

import (
	"math"

	"github.com/jbrukh/brainbrush/datastruct"
)

// WindowLength is the number of samples spanning the given
// number of seconds at the sample rate, rounded.
func WindowLength(seconds float64, sampleRate int) int {
	return int(math.Round(seconds * float64(sampleRate)))
}

// LastWindow extracts the most recent windowLength rows of a
// raw sample buffer. A window longer than the buffer fails with
// datastruct.ErrWindowTooLong.
func LastWindow(buf *datastruct.RingBuffer, windowLength int) ([][]float64, error) {
	return buf.Last(windowLength)
}
