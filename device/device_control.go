//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package device

import (
	"sync"
)

// ----------------------------------------------------------------- //
// Device Control -- used by implementation providers to report
// data and know when to disengage
// ----------------------------------------------------------------- //

// Control is a control structure used by client workers
// that stream data.
type Control struct {
	done chan struct{}
	once sync.Once
	info chan *DeviceInfo
	d    *BaseDevice
}

// Create a new Control.
func newControl(d *BaseDevice) *Control {
	return &Control{
		done: make(chan struct{}),
		info: make(chan *DeviceInfo, 1),
		d:    d,
	}
}

// ShouldTerminate returns true if and only if the
// Device is calling for streaming operations to stop.
func (c *Control) ShouldTerminate() bool {
	select {
	case <-c.done:
		return true
	default:
	}
	return false
}

// Done is closed when streaming should stop, for workers
// that wait between frames.
func (c *Control) Done() <-chan struct{} {
	return c.done
}

// The client worker should send data frames to the
// Device by calling this method. It blocks while a
// subscriber is full, unless the device is disengaging.
func (c *Control) Send(df DataFrame) {
	c.d.ps.publish(df, c.done)
}

// The client must send DeviceInfo before sending
// data.
func (c *Control) SendInfo(info *DeviceInfo) {
	c.info <- info
}

func (c *Control) terminate() {
	c.once.Do(func() {
		close(c.done)
	})
}
