//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package stream

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jbrukh/brainbrush/datastruct"
	"github.com/jbrukh/brainbrush/device"
	"github.com/jbrukh/brainbrush/util"
)

// DeviceInlet is an Inlet on a device subscription. Frames
// are queued as they arrive and handed out in chunks.
type DeviceInlet struct {
	info   Info
	dev    device.Device
	name   string
	frames <-chan device.DataFrame
	queue  *datastruct.BlockBuffer
	lost   bool
}

// Subscribe to a device and return an inlet on it.
func NewDeviceInlet(dev device.Device, info Info) (*DeviceInlet, error) {
	if info.Channels < 1 {
		return nil, fmt.Errorf("stream %s has no channels", info.Name)
	}
	name := "inlet-" + uuid.NewString()
	frames, err := dev.Subscribe(name)
	if err != nil {
		return nil, err
	}
	return &DeviceInlet{
		info:   info,
		dev:    dev,
		name:   name,
		frames: frames,
		queue:  datastruct.NewBlockBuffer(info.Channels, device.DataFrameBufferSize),
	}, nil
}

func (in *DeviceInlet) Info() Info {
	return in.info
}

func (in *DeviceInlet) PullChunk(timeout time.Duration, maxSamples int) ([][]float64, []float64, error) {
	if maxSamples < 1 {
		return nil, nil, fmt.Errorf("%w: max samples %d", datastruct.ErrInvalidChunkSize, maxSamples)
	}
	if err := in.drain(); err != nil {
		return nil, nil, err
	}

	if in.queue.Samples() == 0 && !in.lost {
		timer := time.NewTimer(timeout)
		select {
		case df, ok := <-in.frames:
			if err := in.receive(df, ok); err != nil {
				timer.Stop()
				return nil, nil, err
			}
		case <-timer.C:
		}
		timer.Stop()
		if err := in.drain(); err != nil {
			return nil, nil, err
		}
	}

	if in.queue.Samples() == 0 && in.lost {
		return nil, nil, ErrStreamLost
	}

	rows, nanos := in.queue.PopSamples(maxSamples)
	ts := make([]float64, len(nanos))
	for i, n := range nanos {
		ts[i] = util.NanosToSeconds(n)
	}
	return rows, ts, nil
}

func (in *DeviceInlet) Close() error {
	in.dev.Unsubscribe(in.name)
	return nil
}

// Queue whatever frames are waiting, without blocking.
func (in *DeviceInlet) drain() error {
	for !in.lost {
		select {
		case df, ok := <-in.frames:
			if err := in.receive(df, ok); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (in *DeviceInlet) receive(df device.DataFrame, ok bool) error {
	if !ok {
		in.lost = true
		return nil
	}
	b := df.Buffer()
	if b == nil {
		return nil
	}
	if b.Channels() != in.info.Channels {
		return fmt.Errorf("frame has %d channels, stream %s has %d", b.Channels(), in.info.Name, in.info.Channels)
	}
	in.queue.Append(b)
	return nil
}
