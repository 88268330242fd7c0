//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jbrukh/brainbrush/config"
	"github.com/jbrukh/brainbrush/device"
	"github.com/jbrukh/brainbrush/drivers"
	"github.com/jbrukh/brainbrush/formats"
	"github.com/jbrukh/brainbrush/prompt"
	"github.com/jbrukh/brainbrush/repo"
	"github.com/jbrukh/brainbrush/session"
	"github.com/jbrukh/brainbrush/stream"
	"github.com/jbrukh/brainbrush/util"
)

var (
	configFile *string        = flag.String("config", "", "YAML configuration file; defaults apply when empty")
	driver     *string        = flag.String("device", "", "device driver, overrides the configuration")
	file       *string        = flag.String("file", "", "EDF recording for the edf_replay driver")
	seed       *uint64        = flag.Uint64("seed", 0, "prompt seed, overrides the configuration")
	duration   *time.Duration = flag.Duration("duration", -1, "session duration, 0 runs until interrupted")
	output     *string        = flag.String("prompt", "", "prompt file, overrides the configuration")
	repoDir    *string        = flag.String("repo", "", "repository for recordings and summaries")
	archive    *bool          = flag.Bool("archive", true, "move summaries of earlier sessions to the repository cache")
	summaries  *bool          = flag.Bool("summaries", false, "list the session summaries in the repository and exit")
	show       *string        = flag.String("show", "", "print the session summary with this id and exit")
	purge      *bool          = flag.Bool("clear-cache", false, "remove everything in the repository cache and exit")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		slog.Error("brainbrush: failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level, _ := cfg.LogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *summaries || *show != "" || *purge {
		return runRepository(cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// set up the device
	dev, err := drivers.Provide(cfg.Device)
	if err != nil {
		return err
	}
	if err = dev.Engage(); err != nil {
		return err
	}
	defer dev.Disengage()

	reg := stream.NewRegistry()
	info, err := reg.Advertise(dev, stream.Info{Type: cfg.Stream.Type})
	if err != nil {
		return err
	}
	defer reg.Withdraw(info.SourceID)

	var r *repo.Repository
	if cfg.Repository.Dir != "" {
		dir, err := util.ExpandHome(cfg.Repository.Dir)
		if err != nil {
			return err
		}
		if r, err = repo.NewRepository(dir); err != nil {
			return err
		}
	}

	var recorder *device.DeviceRecorder
	if r != nil {
		recorder = device.NewDeviceRecorder(dev, formats.NewEDFRecorder(r, info.Name,
			cfg.Repository.PhysicalMin, cfg.Repository.PhysicalMax))
		if err = recorder.RecordAsync(); err != nil {
			return fmt.Errorf("could not start recording: %w", err)
		}
	}

	w := prompt.NewWriter(cfg.Prompt.Path, cfg.Prompt.Separator, cfg.Prompt.Thresholds, prompt.NewRand(cfg.Prompt.Seed))
	s, err := session.New(*cfg, reg, w)
	if err != nil {
		return err
	}
	sum, runErr := s.Run(ctx)

	if recorder != nil {
		if id, err := recorder.Stop(); err != nil {
			slog.Error("brainbrush: recording failed", "error", err)
		} else {
			slog.Info("brainbrush: recorded session", "id", id)
		}
	}
	if r != nil && sum != nil {
		if id, err := r.WriteSummary(sum); err != nil {
			slog.Error("brainbrush: could not save summary", "error", err)
		} else {
			slog.Info("brainbrush: saved summary", "id", id)
			if *archive {
				if n, err := archiveSummaries(r, id); err != nil {
					slog.Error("brainbrush: could not archive summaries", "error", err)
				} else if n > 0 {
					slog.Info("brainbrush: archived earlier summaries", "count", n)
				}
			}
		}
	}

	if errors.Is(runErr, session.ErrInterrupted) {
		slog.Info("brainbrush: interrupted, goodbye")
		return nil
	}
	if runErr != nil {
		return runErr
	}
	fmt.Println(sum.Prompt.String())
	return nil
}

// The repository modes: list, show or clear, then exit.
func runRepository(cfg *config.Config) error {
	if cfg.Repository.Dir == "" {
		return errors.New("no repository configured, use -repo")
	}
	dir, err := util.ExpandHome(cfg.Repository.Dir)
	if err != nil {
		return err
	}
	r, err := repo.NewRepository(dir)
	if err != nil {
		return err
	}

	switch {
	case *purge:
		n, err := clearCache(r)
		if err != nil {
			return err
		}
		slog.Info("brainbrush: cleared cache", "count", n)
	case *show != "":
		return showSummary(os.Stdout, r, *show)
	default:
		stored, err := loadSummaries(r)
		if err != nil {
			return err
		}
		return printSummaries(os.Stdout, stored)
	}
	return nil
}

// Defaults, then the configuration file, then flags.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return nil, err
		}
	} else {
		def := config.Default()
		cfg = &def
	}

	if *driver != "" {
		cfg.Device.Driver = *driver
	}
	if *file != "" {
		cfg.Device.File = *file
	}
	if *seed != 0 {
		cfg.Prompt.Seed = *seed
	}
	if *duration >= 0 {
		cfg.SessionDuration = *duration
	}
	if *output != "" {
		cfg.Prompt.Path = *output
	}
	if *repoDir != "" {
		cfg.Repository.Dir = *repoDir
	}
	return cfg, cfg.Validate()
}
