//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package device

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ----------------------------------------------------------------- //
// Constants
// ----------------------------------------------------------------- //

const DataFrameBufferSize = 1024

// ErrAlreadyEngaged is returned by Engage on an engaged device.
var ErrAlreadyEngaged = errors.New("already engaged to the device")

// ----------------------------------------------------------------- //
// Device -- interface for devices
// ----------------------------------------------------------------- //

// Device represents a source of multi-channel EEG samples (a
// hardware headset, a mock, or a recording being played back).
type Device interface {

	// Name of the device.
	Name() string

	// Obtain the device information; nil until engaged.
	Info() *DeviceInfo

	// Engage to the device and start streaming. Engaging to
	// a device that is already engaged is an error.
	Engage() error

	// Disengages from the device, closes all subscriptions,
	// and cleans relevant resources. Calls to disengage are
	// idempotent.
	Disengage() error

	// Engaged returns true if and only if the device is
	// currently engaged.
	Engaged() bool

	// Subscribe to device data.
	Subscribe(string) (<-chan DataFrame, error)

	// Unsubscribe from device data.
	Unsubscribe(string)
}

// Device implementation interface.
type DeviceImpl interface {
	// Performs the low-level operation to engage
	// to the device. This usually means opening the port
	// or file of the device for reading.
	Engage() error

	// Perfoms the low-level operation to disengage
	// from the device.
	Disengage() error

	// Performs the operation of reading the stream and
	// sending data frames to the Control. This function is
	// expected to obey the following contract with the Control:
	//
	// (1) The first possible call shalt be to SendInfo(), or else
	//     the device Engage() will fail.
	// (2) It shalt not perform any resource cleanup, this is the
	//     job of Disengage(). It shalt NOT try to disengage the device.
	// (3) It shalt obey c.ShouldTerminate() and exit without error.
	// (4) Upon any error, it shalt return that error.
	Stream(*Control) error

	// The name of the device.
	Name() string
}

// ----------------------------------------------------------------- //
// Device Info -- basic info about the device that should
// be ascertained on every engage.
// ----------------------------------------------------------------- //

type DeviceInfo struct {
	Type       string   // content type of the stream, e.g. "EEG"
	Channels   int      // how many channels are streaming
	SampleRate int      // nominal sample rate of the device, Hz
	Labels     []string // electrode label per channel, may be empty
}

// Label returns the label of channel c, or a generated one.
func (i *DeviceInfo) Label(c int) string {
	if c < len(i.Labels) && i.Labels[c] != "" {
		return i.Labels[c]
	}
	return fmt.Sprintf("ch%d", c+1)
}

// ----------------------------------------------------------------- //
// Base Device -- skeleton implementation for devices
// ----------------------------------------------------------------- //

// BaseDevice provides the basic framework for devices, including
// the skeleton implementation that keeps track of engagement state
// and thread-safety. However, the BaseDevice provides no logic for
// streaming data and expects this functionality to be parameterized.
//
// In particular, implementors should respect the Control object
// they are passed. See the contract of Stream() above.
type BaseDevice struct {
	sync.Mutex
	engaged    bool
	control    *Control
	exited     chan struct{} // closed when the streamer returns
	deviceImpl DeviceImpl
	info       *DeviceInfo
	ps         *PubSub
}

// Create a new device based on some given
// device implementation.
func NewDevice(deviceImpl DeviceImpl) Device {
	return &BaseDevice{
		deviceImpl: deviceImpl,
		ps:         NewPubSub(),
	}
}

// The name of the device.
func (d *BaseDevice) Name() string {
	return d.deviceImpl.Name()
}

func (d *BaseDevice) Info() *DeviceInfo {
	d.Lock()
	defer d.Unlock()
	return d.info
}

func (d *BaseDevice) Engage() (err error) {
	d.Lock()
	defer d.Unlock()

	if d.engaged {
		return ErrAlreadyEngaged
	}

	slog.Info("device: engaging", "name", d.Name())

	if err = d.deviceImpl.Engage(); err != nil {
		return fmt.Errorf("could not engage to the device: %w", err)
	}

	var (
		c      = newControl(d)
		exited = make(chan struct{})
	)
	d.control = c
	d.exited = exited

	// begin to stream
	go func() {
		if err := d.deviceImpl.Stream(c); err != nil {
			slog.Error("device: error in streamer", "name", d.Name(), "error", err)
		}
		close(exited)

		// on error or exit, we will disengage the device;
		// since we know the streamer has exited we will
		// not send the done signal
		if err := d.disengage(c, true); err != nil {
			slog.Error("device: error on disengage", "name", d.Name(), "error", err)
		}
	}()

	// listen for info
	select {
	case info := <-c.info:
		d.info = info
	case <-exited:
		if err := d.deviceImpl.Disengage(); err != nil {
			slog.Error("device: error on disengage", "name", d.Name(), "error", err)
		}
		return fmt.Errorf("device %s stopped before sending info", d.Name())
	}
	slog.Info("device: engaged", "name", d.Name(), "info", fmt.Sprintf("%+v", *d.info))

	d.engaged = true
	return nil
}

func (d *BaseDevice) Disengage() (err error) {
	d.Lock()
	c := d.control
	d.Unlock()
	return d.disengage(c, false)
}

func (d *BaseDevice) disengage(c *Control, fromStreamer bool) (err error) {
	d.Lock()
	defer d.Unlock()

	// check for idempotency, and that a stale streamer
	// does not disengage a later engagement
	if !d.engaged || d.control != c {
		return
	}

	slog.Info("device: disengaging", "name", d.Name())

	// when we know the streamer goroutine has
	// exited, we should skip this step
	if !fromStreamer {
		c.terminate()
		<-d.exited
	}

	d.ps.UnsubscribeAll()

	err = d.deviceImpl.Disengage()
	d.engaged = false
	return err
}

func (d *BaseDevice) Engaged() bool {
	d.Lock()
	defer d.Unlock()
	return d.engaged
}

func (d *BaseDevice) Subscribe(name string) (<-chan DataFrame, error) {
	return d.ps.Subscribe(name)
}

func (d *BaseDevice) Unsubscribe(name string) {
	d.ps.Unsubscribe(name)
}
