//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package datastruct

import (
	"fmt"
)

// BlockBuffer is a data structure for holding multi-channel
// time series. It is backed by slices and is optimized for
// append operations; it is good for real-time streaming of
// multi-channel data because the channel data is stored in
// a "parallel" layout, one sample after another. Devices
// deliver their frames as BlockBuffers and stream inlets
// queue incoming frames in one until they are pulled.
type BlockBuffer struct {
	channels int       // number of channels per sample
	values   []float64 // data
	ts       []int64   // timestamps, nanoseconds
}

// Create a new BlockBuffer anticipating the given
// number of channels and the given sample size.
func NewBlockBuffer(channels, samples int) *BlockBuffer {
	if channels < 1 || samples < 0 {
		str := fmt.Sprintf("bad parameters: channels (%d); samples (%d)", channels, samples)
		panic(str)
	}
	return &BlockBuffer{
		channels: channels,
		values:   make([]float64, 0, channels*samples),
		ts:       make([]int64, 0, samples),
	}
}

// Get the number of channels in this data.
func (b *BlockBuffer) Channels() int {
	return b.channels
}

// The number of samples in this BlockBuffer.
func (b *BlockBuffer) Samples() int {
	return len(b.ts)
}

// The timestamp array of this BlockBuffer.
func (b *BlockBuffer) Timestamps() []int64 {
	return b.ts
}

// Append the data from a BlockBuffer to the existing
// BlockBuffer. The BlockBuffers must be comparable in
// the sense of channels.
func (b *BlockBuffer) Append(bb *BlockBuffer) {
	if bb.channels != b.channels {
		panic("not comparable")
	}
	b.values = append(b.values, bb.values...)
	b.ts = append(b.ts, bb.ts...)
}

// Append a single sample to the BlockBuffer. This is not
// particularly efficient, but must be done when generating
// or translating low-level device data.
func (b *BlockBuffer) AppendSample(v []float64, ts int64) {
	if len(v) != b.channels {
		panic("not comparable")
	}
	b.values = append(b.values, v...)
	b.ts = append(b.ts, ts)
}

// Returns the s-th sample from the buffer. Going out of
// bounds will cause a panic.
func (b *BlockBuffer) Sample(s int) (v []float64, ts int64) {
	v = b.values[s*b.channels : (s+1)*b.channels]
	ts = b.ts[s]
	return
}

// Pops up to n samples off the front of the buffer and
// returns them as rows, one row per sample, together with
// their timestamps. The rows do not alias the buffer.
func (b *BlockBuffer) PopSamples(n int) (rows [][]float64, ts []int64) {
	if n < 0 {
		panic("n must be nonnegative")
	}
	if samples := b.Samples(); n > samples {
		n = samples
	}
	rows = make([][]float64, n)
	ts = make([]int64, n)
	for s := 0; s < n; s++ {
		v, t := b.Sample(s)
		rows[s] = append([]float64(nil), v...)
		ts[s] = t
	}

	// get rid of the leading values
	b.values = b.values[n*b.channels:]
	b.ts = b.ts[n:]
	return
}

// Arrays transforms the underlying data into "sequential"
// channel arrays. This operation is O(n) on the number of
// individual channel data points and requires O(n) space.
func (b *BlockBuffer) Arrays() [][]float64 {
	var (
		samples = b.Samples()
		values  = make([][]float64, b.channels)
	)

	for c := range values {
		values[c] = make([]float64, samples)
	}

	for s := 0; s < samples; s++ {
		v := b.values[s*b.channels : (s+1)*b.channels]
		for c, value := range v {
			values[c][s] = value
		}
	}
	return values
}
