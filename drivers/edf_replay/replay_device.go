//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package edf_replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/OpenPSG/edf"
	"github.com/jbrukh/brainbrush/datastruct"
	"github.com/jbrukh/brainbrush/device"
	"github.com/jbrukh/brainbrush/util"
)

// samples per frame
const FrameSize = 16

// Options describe the recording. EDF signals carry their own
// sample counts, but the stream needs a single nominal rate.
type Options struct {
	File       string
	SampleRate int
	Channels   int
	Labels     []string
	Realtime   bool
}

// ReplayDevice plays an EDF recording back on repeat, as if it
// were a live device.
type ReplayDevice struct {
	name    string
	opts    Options
	file    *os.File
	reader  *edf.Reader
	signals []*edf.SignalReader
}

func NewReplayDevice(name string, opts Options) device.Device {
	return device.NewDevice(&ReplayDevice{
		name: name,
		opts: opts,
	})
}

func (d *ReplayDevice) Engage() (err error) {
	if d.opts.Channels < 1 || d.opts.SampleRate < 1 {
		return fmt.Errorf("bad replay options: %+v", d.opts)
	}
	if d.file, err = os.Open(d.opts.File); err != nil {
		return err
	}
	if d.reader, err = edf.Open(d.file); err != nil {
		d.file.Close()
		return fmt.Errorf("could not read %s: %w", d.opts.File, err)
	}
	if err = d.rewind(); err != nil {
		d.file.Close()
	}
	return err
}

func (d *ReplayDevice) Disengage() error {
	return d.file.Close()
}

func (d *ReplayDevice) Name() string {
	return d.name
}

func (d *ReplayDevice) Stream(c *device.Control) error {
	c.SendInfo(&device.DeviceInfo{
		Type:       "EEG",
		Channels:   d.opts.Channels,
		SampleRate: d.opts.SampleRate,
		Labels:     d.opts.Labels,
	})

	var (
		start  = time.Now().UnixNano()
		period = util.SamplePeriod(d.opts.SampleRate)
		n      = 0
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

		data, err := d.read(FrameSize)
		if err != nil {
			return err
		}
		if len(data[0]) == 0 {
			if n == 0 {
				return errors.New("empty recording")
			}
			if err := d.rewind(); err != nil {
				return err
			}
			continue
		}

		b := datastruct.NewBlockBuffer(d.opts.Channels, len(data[0]))
		v := make([]float64, d.opts.Channels)
		for s := range data[0] {
			for ch := range v {
				v[ch] = data[ch][s]
			}
			b.AppendSample(v, util.InterpolateTs(start, n, period))
			n++
		}
		c.Send(device.NewDataFrame(b, d.opts.SampleRate))

		if ticker != nil {
			select {
			case <-c.Done():
				return nil
			case <-ticker.C:
			}
		}
	}
}

// Read up to n samples of every channel; channels are cut to
// the shortest read.
func (d *ReplayDevice) read(n int) ([][]float64, error) {
	data := make([][]float64, len(d.signals))
	shortest := n
	for ch, sr := range d.signals {
		buf := make([]float64, n)
		k, err := sr.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		data[ch] = buf[:k]
		if k < shortest {
			shortest = k
		}
	}
	for ch := range data {
		data[ch] = data[ch][:shortest]
	}
	return data, nil
}

// Start reading every signal from the first record.
func (d *ReplayDevice) rewind() (err error) {
	d.signals = make([]*edf.SignalReader, d.opts.Channels)
	for ch := range d.signals {
		if d.signals[ch], err = d.reader.Signal(ch); err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
	}
	return nil
}
