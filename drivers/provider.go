//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package drivers

import (
	"fmt"
	"sort"

	"github.com/jbrukh/brainbrush/config"
	"github.com/jbrukh/brainbrush/device"
	"github.com/jbrukh/brainbrush/drivers/edf_replay"
	"github.com/jbrukh/brainbrush/drivers/mock_eeg"
	"github.com/jbrukh/brainbrush/util"
)

// constructors of supported devices, by driver name
var driverMap = map[string]func(cfg config.DeviceConfig) (device.Device, error){
	"mock_eeg": func(cfg config.DeviceConfig) (device.Device, error) {
		return mock_eeg.NewMockDevice(cfg.Name, mock_eeg.Options{
			SampleRate: cfg.SampleRate,
			Channels:   cfg.Channels,
			Labels:     cfg.Labels,
			Realtime:   cfg.Realtime,
			Seed:       cfg.Mock.Seed,
			Offset:     cfg.Mock.Offset,
			Amplitude:  cfg.Mock.Amplitude,
			Mains:      cfg.Mock.Mains,
			MainsFreq:  cfg.Mock.MainsFreq,
			Noise:      cfg.Mock.Noise,
		}), nil
	},
	"edf_replay": func(cfg config.DeviceConfig) (device.Device, error) {
		if cfg.File == "" {
			return nil, fmt.Errorf("edf_replay needs a file")
		}
		file, err := util.ExpandHome(cfg.File)
		if err != nil {
			return nil, err
		}
		return edf_replay.NewReplayDevice(cfg.Name, edf_replay.Options{
			File:       file,
			SampleRate: cfg.SampleRate,
			Channels:   cfg.Channels,
			Labels:     cfg.Labels,
			Realtime:   cfg.Realtime,
		}), nil
	},
}

// Provides a new instance of a supported device. Drivers:
//
//	"mock_eeg"
//	"edf_replay"
func Provide(cfg config.DeviceConfig) (device.Device, error) {
	f, ok := driverMap[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown device driver: %s (one of %v)", cfg.Driver, Drivers())
	}
	return f(cfg)
}

// Names of the supported drivers.
func Drivers() (names []string) {
	for name := range driverMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
