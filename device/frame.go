//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package device

import (
	"time"

	"github.com/jbrukh/brainbrush/datastruct"
)

// DataFrame is a block of consecutive samples delivered by
// a device.
type DataFrame interface {
	Buffer() *datastruct.BlockBuffer
	Channels() int
	Samples() int
	SampleRate() int
	Received() time.Time
}

type dataFrame struct {
	b          *datastruct.BlockBuffer
	sampleRate int
	received   time.Time
}

// Create a new DataFrame around a buffer.
func NewDataFrame(b *datastruct.BlockBuffer, sampleRate int) DataFrame {
	return &dataFrame{
		b:          b,
		sampleRate: sampleRate,
		received:   time.Now(),
	}
}

func (f *dataFrame) Buffer() *datastruct.BlockBuffer {
	return f.b
}

func (f *dataFrame) Channels() int {
	return f.b.Channels()
}

func (f *dataFrame) Samples() int {
	return f.b.Samples()
}

func (f *dataFrame) SampleRate() int {
	return f.sampleRate
}

func (f *dataFrame) Received() time.Time {
	return f.received
}
