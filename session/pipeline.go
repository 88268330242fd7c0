//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package session

import (
	"fmt"

	"github.com/jbrukh/brainbrush/config"
	"github.com/jbrukh/brainbrush/datastruct"
	"github.com/jbrukh/brainbrush/dsp"
	"github.com/jbrukh/brainbrush/metric"
)

// Epoch is what one step of the pipeline produced.
type Epoch struct {
	Index    int // 1-based
	Bands    dsp.BandPowers
	Smoothed dsp.BandPowers
	Metrics  metric.Metrics
}

// Pipeline holds all the signal state of one session: the raw
// sample buffer, the notch filter and its memory, the smoothed
// band powers and the session accumulators. It is owned by the
// acquisition loop and is not safe for concurrent use.
type Pipeline struct {
	sampleRate int
	channels   []int
	epochLen   int

	raw       *datastruct.RingBuffer
	notch     *dsp.NotchFilter // nil when disabled
	state     *dsp.FilterState
	estimator *dsp.BandPowerEstimator
	engine    *metric.Engine
	acc       metric.Accumulators
	epochs    int
}

// Create the pipeline for a stream of the given sample rate and
// channel count.
func NewPipeline(cfg config.Config, sampleRate, channels int) (*Pipeline, error) {
	if sampleRate < 1 {
		return nil, fmt.Errorf("bad sample rate: %d", sampleRate)
	}
	for _, i := range cfg.ChannelIndices {
		if i < 0 || i >= channels {
			return nil, fmt.Errorf("channel index %d out of range, stream has %d channels", i, channels)
		}
	}

	p := &Pipeline{
		sampleRate: sampleRate,
		channels:   append([]int(nil), cfg.ChannelIndices...),
		epochLen:   cfg.EpochSamples(sampleRate),
		estimator:  dsp.NewBandPowerEstimator(cfg.Bands),
		engine:     metric.NewEngine(cfg.BandEpochs()),
	}

	bufLen := cfg.BufferSamples(sampleRate)
	if p.epochLen < 1 || bufLen < p.epochLen {
		return nil, fmt.Errorf("%w: epoch of %d samples, buffer of %d", datastruct.ErrWindowTooLong, p.epochLen, bufLen)
	}
	p.raw = datastruct.NewRingBuffer(bufLen, len(p.channels))

	if cfg.Notch.Enabled {
		n, err := dsp.NewNotchFilter(cfg.Notch.Frequency, cfg.Notch.Bandwidth, sampleRate, cfg.Notch.Order)
		if err != nil {
			return nil, err
		}
		p.notch = n
	}
	return p, nil
}

// Step runs one chunk through the pipeline. An empty chunk has
// no effect and yields no epoch.
func (p *Pipeline) Step(chunk [][]float64) (ep Epoch, ok bool, err error) {
	if len(chunk) == 0 {
		return
	}

	rows := make([][]float64, len(chunk))
	for s, row := range chunk {
		rows[s] = make([]float64, len(p.channels))
		for c, i := range p.channels {
			if i >= len(row) {
				return ep, false, fmt.Errorf("sample %d has %d channels, need channel %d", s, len(row), i)
			}
			rows[s][c] = row[i]
		}
	}

	if p.notch != nil {
		rows, p.state = p.notch.Apply(rows, p.state)
	}
	if err = p.raw.Update(rows); err != nil {
		return
	}

	window, err := dsp.LastWindow(p.raw, p.epochLen)
	if err != nil {
		return
	}
	if ep.Bands, err = p.estimator.Compute(window, p.sampleRate); err != nil {
		return
	}
	if ep.Smoothed, err = p.engine.Update(ep.Bands); err != nil {
		return
	}
	ep.Metrics = metric.Compute(ep.Smoothed)

	p.acc.Add(ep.Bands)
	if ep.Metrics.RelaxationValid {
		p.acc.AddRelaxation(ep.Metrics.Relaxation)
	}
	p.epochs++
	ep.Index = p.epochs
	return ep, true, nil
}

// Epochs is the number of epochs processed.
func (p *Pipeline) Epochs() int {
	return p.epochs
}

// Means are the session means so far.
func (p *Pipeline) Means() (metric.Means, error) {
	return p.acc.Means()
}
