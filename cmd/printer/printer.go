//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jbrukh/brainbrush/config"
	"github.com/jbrukh/brainbrush/device"
	"github.com/jbrukh/brainbrush/drivers"
	"github.com/jbrukh/brainbrush/formats"
	"github.com/jbrukh/brainbrush/repo"
)

const (
	DefaultMaxFrames = 10000
	DefaultRepo      = "var"
)

var (
	maxFrames  *int    = flag.Int("maxFrames", DefaultMaxFrames, "maximum frames to read before turning off")
	rec        *int    = flag.Int("rec", 0, "samples to record to EDF")
	repoDir    *string = flag.String("repo", DefaultRepo, "directory where recordings are stored")
	configFile *string = flag.String("config", "", "YAML configuration file")
	driver     *string = flag.String("device", "", "device driver, overrides the configuration")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		c, err := config.Load(*configFile)
		if err != nil {
			slog.Error("printer: bad configuration", "error", err)
			os.Exit(1)
		}
		cfg = *c
	}
	if *driver != "" {
		cfg.Device.Driver = *driver
	}

	// set up the device
	dev, err := drivers.Provide(cfg.Device)
	if err != nil {
		slog.Error("printer: could not get device", "error", err)
		os.Exit(1)
	}

	// connect to it
	if err := dev.Engage(); err != nil {
		slog.Error("printer: could not engage", "error", err)
		return
	}
	defer dev.Disengage()

	if *rec > 0 {
		r, err := repo.NewRepository(*repoDir)
		if err != nil {
			slog.Error("printer: bad repository", "error", err)
			return
		}
		slog.Info("printer: going to record", "samples", *rec)
		dr := device.NewDeviceRecorder(dev, formats.NewEDFRecorder(r, dev.Name(),
			cfg.Repository.PhysicalMin, cfg.Repository.PhysicalMax))
		dr.SetMax(*rec)
		if err = dr.RecordAsync(); err != nil {
			slog.Error("printer: could not record", "error", err)
			return
		}
		if id, err := dr.Wait(); err != nil {
			slog.Error("printer: recording failed", "error", err)
		} else {
			slog.Info("printer: recorded", "id", id)
		}
	}

	out, err := dev.Subscribe("printer")
	if err != nil {
		slog.Error("printer: could not subscribe to device", "error", err)
		return
	}
	printFrames(out)
	slog.Info("printer: thank you!")
}

func printFrames(out <-chan device.DataFrame) {
	for i := 0; i < *maxFrames; i++ {
		df, ok := <-out
		if !ok {
			slog.Info("printer: the data channel got closed (exiting)")
			return
		}

		b := df.Buffer()
		samples := b.Samples()
		for s := 0; s < samples; s++ {
			v, t := b.Sample(s)
			fmt.Printf("%v, %v\n", t, v)
		}
	}
}
