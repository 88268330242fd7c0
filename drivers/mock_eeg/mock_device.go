//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package mock_eeg

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/jbrukh/brainbrush/datastruct"
	"github.com/jbrukh/brainbrush/device"
	"github.com/jbrukh/brainbrush/util"
)

// ----------------------------------------------------------------- //
// Constants
// ----------------------------------------------------------------- //

// samples per frame
const FrameSize = 16

// center frequency of the synthetic rhythm in each band:
// delta, theta, alpha, beta
var BandFrequencies = [4]float64{2, 6, 10, 20}

// ----------------------------------------------------------------- //
// Mock EEG Device
// ----------------------------------------------------------------- //

// Options shape the synthetic signal. Amplitudes are in the
// physical unit of the stream, microvolts by convention.
type Options struct {
	SampleRate int
	Channels   int
	Labels     []string
	Realtime   bool // pace frames by the sample rate
	Seed       uint64
	Offset     float64    // DC offset of every channel
	Amplitude  [4]float64 // per band rhythm amplitude
	Mains      float64    // amplitude of mains hum
	MainsFreq  float64
	Noise      float64 // std deviation of white noise
}

type MockDevice struct {
	name string
	opts Options
	rnd  *rand.Rand
	n    int // samples generated so far
}

// Mock EEG device that synthesizes a sum of band rhythms,
// mains hum and noise on every channel. Each channel has its
// own phases so channels are not identical.
func NewMockDevice(name string, opts Options) device.Device {
	if opts.Channels < 1 {
		opts.Channels = 1
	}
	if opts.SampleRate < 1 {
		opts.SampleRate = 256
	}
	return device.NewDevice(&MockDevice{
		name: name,
		opts: opts,
	})
}

func (d *MockDevice) Engage() error {
	d.rnd = rand.New(rand.NewPCG(d.opts.Seed, d.opts.Seed+1))
	d.n = 0
	return nil
}

func (d *MockDevice) Disengage() error {
	return nil
}

func (d *MockDevice) Name() string {
	return d.name
}

func (d *MockDevice) Stream(c *device.Control) error {
	c.SendInfo(&device.DeviceInfo{
		Type:       "EEG",
		Channels:   d.opts.Channels,
		SampleRate: d.opts.SampleRate,
		Labels:     d.opts.Labels,
	})

	var (
		start  = time.Now().UnixNano()
		period = util.SamplePeriod(d.opts.SampleRate)
		ticker *time.Ticker
	)
	if d.opts.Realtime {
		ticker = time.NewTicker(period * FrameSize)
		defer ticker.Stop()
	}

	for {
		if c.ShouldTerminate() {
			return nil
		}
		c.Send(d.frame(start, period))

		if ticker != nil {
			select {
			case <-c.Done():
				return nil
			case <-ticker.C:
			}
		}
	}
}

func (d *MockDevice) frame(start int64, period time.Duration) device.DataFrame {
	b := datastruct.NewBlockBuffer(d.opts.Channels, FrameSize)
	v := make([]float64, d.opts.Channels)
	for s := 0; s < FrameSize; s++ {
		for ch := range v {
			v[ch] = d.Value(ch, d.n)
		}
		b.AppendSample(v, util.InterpolateTs(start, d.n, period))
		d.n++
	}
	return device.NewDataFrame(b, d.opts.SampleRate)
}

// Value is the synthetic sample of channel ch at sample index n.
func (d *MockDevice) Value(ch, n int) float64 {
	t := float64(n) / float64(d.opts.SampleRate)
	v := d.opts.Offset
	for b, f := range BandFrequencies {
		phase := 0.7 * float64(ch*(b+1))
		v += d.opts.Amplitude[b] * math.Sin(2*math.Pi*f*t+phase)
	}
	if d.opts.Mains != 0 && d.opts.MainsFreq > 0 {
		v += d.opts.Mains * math.Sin(2*math.Pi*d.opts.MainsFreq*t)
	}
	if d.opts.Noise != 0 && d.rnd != nil {
		v += d.opts.Noise * d.rnd.NormFloat64()
	}
	return v
}
