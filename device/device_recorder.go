//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package device

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrNotRecording is returned when stopping or waiting on a
// recorder that was never started.
var ErrNotRecording = errors.New("not recording")

// A real-time recorder of dataframes.
type Recorder interface {
	Init(info *DeviceInfo) error
	RecordFrame(DataFrame) error
	Stop() (id string, err error)
}

// DeviceRecorder feeds the frames of a device to a Recorder
// on its own subscription, in the background.
type DeviceRecorder struct {
	sync.Mutex
	device     Device
	r          Recorder
	maxSamples int

	started bool
	stop    chan struct{}
	once    sync.Once
	done    chan struct{}
	id      string
	err     error
}

func NewDeviceRecorder(device Device, r Recorder) *DeviceRecorder {
	return &DeviceRecorder{
		device: device,
		r:      r,
	}
}

// Stop recording by itself after this many samples; 0 records
// until stopped.
func (d *DeviceRecorder) SetMax(maxSamples int) {
	d.maxSamples = maxSamples
}

// Start recording in the background. The device must be engaged.
func (d *DeviceRecorder) RecordAsync() error {
	d.Lock()
	defer d.Unlock()
	if d.started {
		return errors.New("already recording")
	}

	name := "recorder-" + uuid.NewString()
	out, err := d.device.Subscribe(name)
	if err != nil {
		return err
	}
	if err = d.r.Init(d.device.Info()); err != nil {
		d.device.Unsubscribe(name)
		return err
	}

	d.started = true
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.record(name, out)
	return nil
}

func (d *DeviceRecorder) record(name string, out <-chan DataFrame) {
	defer close(d.done)

	samples := 0
loop:
	for {
		select {
		case <-d.stop:
			break loop
		case df, ok := <-out:
			if !ok {
				break loop
			}
			if err := d.r.RecordFrame(df); err != nil {
				slog.Error("recorder: could not record frame", "error", err)
				continue
			}
			samples += df.Samples()
			if d.maxSamples > 0 && samples >= d.maxSamples {
				break loop
			}
		}
	}

	d.device.Unsubscribe(name)
	id, err := d.r.Stop()
	slog.Info("recorder: recording ended", "id", id, "samples", samples)

	d.Lock()
	d.id, d.err = id, err
	d.Unlock()
}

// Recording is true while frames are being recorded.
func (d *DeviceRecorder) Recording() bool {
	d.Lock()
	defer d.Unlock()
	if !d.started {
		return false
	}
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

// Stop the recording and return the id of what was recorded.
func (d *DeviceRecorder) Stop() (string, error) {
	d.Lock()
	started := d.started
	d.Unlock()
	if !started {
		return "", ErrNotRecording
	}
	d.once.Do(func() { close(d.stop) })
	return d.Wait()
}

// Wait for the recording to end on its own.
func (d *DeviceRecorder) Wait() (string, error) {
	d.Lock()
	started, done := d.started, d.done
	d.Unlock()
	if !started {
		return "", ErrNotRecording
	}
	<-done

	d.Lock()
	defer d.Unlock()
	return d.id, d.err
}
