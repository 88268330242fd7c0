//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package stream

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrStreamNotFound is returned when discovery times out
	// without any matching stream.
	ErrStreamNotFound = errors.New("stream not found")

	// ErrStreamLost is returned by an inlet whose source went
	// away and whose queue is drained.
	ErrStreamLost = errors.New("stream lost")
)

// Info describes an advertised sample stream.
type Info struct {
	Name       string
	Type       string // e.g. "EEG"
	SourceID   string
	Channels   int
	SampleRate int // nominal, Hz
}

// Prop returns the value of a discovery property: "name",
// "type" or "source_id".
func (i Info) Prop(name string) (string, bool) {
	switch name {
	case "name":
		return i.Name, true
	case "type":
		return i.Type, true
	case "source_id":
		return i.SourceID, true
	}
	return "", false
}

// Source discovers streams and opens inlets on them.
type Source interface {
	// Resolve waits up to timeout for streams whose property
	// prop equals value. No match yields ErrStreamNotFound.
	Resolve(ctx context.Context, prop, value string, timeout time.Duration) ([]Info, error)

	// Open an inlet on a resolved stream.
	Open(Info) (Inlet, error)
}

// Inlet reads chunks of samples from one stream.
type Inlet interface {
	Info() Info

	// PullChunk returns up to maxSamples rows (one value per
	// channel) and their timestamps in seconds. It waits up
	// to timeout for the first sample; if none arrives it
	// returns an empty chunk and no error.
	PullChunk(timeout time.Duration, maxSamples int) ([][]float64, []float64, error)

	Close() error
}
