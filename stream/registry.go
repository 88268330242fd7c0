//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jbrukh/brainbrush/device"
)

// How often Resolve looks for newly advertised streams.
const resolvePollInterval = 20 * time.Millisecond

type outlet struct {
	info Info
	dev  device.Device
}

// Registry is an in-process directory of streams backed by
// engaged devices. Devices are advertised under a stream Info
// and found again by property, the way stream consumers look
// for "a stream of type EEG".
type Registry struct {
	sync.Mutex
	outlets map[string]*outlet
}

func NewRegistry() *Registry {
	return &Registry{
		outlets: make(map[string]*outlet),
	}
}

// Advertise makes an engaged device discoverable. Channels and
// sample rate default to the device info, and an empty source
// id is generated. The completed Info is returned.
func (r *Registry) Advertise(dev device.Device, info Info) (Info, error) {
	di := dev.Info()
	if !dev.Engaged() || di == nil {
		return info, fmt.Errorf("device %s is not engaged", dev.Name())
	}
	if info.Name == "" {
		info.Name = dev.Name()
	}
	if info.Type == "" {
		info.Type = di.Type
	}
	if info.Channels == 0 {
		info.Channels = di.Channels
	}
	if info.SampleRate == 0 {
		info.SampleRate = di.SampleRate
	}
	if info.SourceID == "" {
		info.SourceID = uuid.NewString()
	}

	r.Lock()
	defer r.Unlock()
	if _, ok := r.outlets[info.SourceID]; ok {
		return info, fmt.Errorf("source %s already advertised", info.SourceID)
	}
	r.outlets[info.SourceID] = &outlet{info: info, dev: dev}
	slog.Info("stream: advertised", "name", info.Name, "type", info.Type, "source_id", info.SourceID)
	return info, nil
}

// Withdraw removes a stream from the registry.
func (r *Registry) Withdraw(sourceID string) {
	r.Lock()
	defer r.Unlock()
	delete(r.outlets, sourceID)
}

func (r *Registry) Resolve(ctx context.Context, prop, value string, timeout time.Duration) ([]Info, error) {
	if _, ok := (Info{}).Prop(prop); !ok {
		return nil, fmt.Errorf("unknown stream property %q", prop)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(resolvePollInterval)
	defer ticker.Stop()

	for {
		if found := r.match(prop, value); len(found) > 0 {
			return found, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("%w: no stream with %s=%s after %v", ErrStreamNotFound, prop, value, timeout)
		case <-ticker.C:
		}
	}
}

func (r *Registry) Open(info Info) (Inlet, error) {
	r.Lock()
	o, ok := r.outlets[info.SourceID]
	r.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: source %s is not advertised", ErrStreamNotFound, info.SourceID)
	}
	return NewDeviceInlet(o.dev, o.info)
}

// Matches in a stable order.
func (r *Registry) match(prop, value string) (found []Info) {
	r.Lock()
	defer r.Unlock()
	for _, o := range r.outlets {
		if v, _ := o.info.Prop(prop); v == value {
			found = append(found, o.info)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].SourceID < found[j].SourceID
	})
	return
}
