//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jbrukh/brainbrush/dsp"
	"github.com/jbrukh/brainbrush/metric"
	"github.com/jbrukh/brainbrush/prompt"
	"gopkg.in/yaml.v3"
)

// ----------------------------------------------------------------- //
// Constants
// ----------------------------------------------------------------- //

const (
	DefaultStreamType = "EEG"
	DefaultPromptPath = "~/EEGImage/EEGImage/generateImage/static/prompt.txt"
	DefaultDriver     = "mock_eeg"
)

// ----------------------------------------------------------------- //
// Config
// ----------------------------------------------------------------- //

// Config is the complete configuration of a session. Lengths are
// in seconds.
type Config struct {
	BufferLength    float64       `yaml:"buffer_length"`    // raw buffer span
	EpochLength     float64       `yaml:"epoch_length"`     // FFT window span
	OverlapLength   float64       `yaml:"overlap_length"`   // overlap of consecutive epochs
	ChannelIndices  []int         `yaml:"channel_indices"`  // electrodes to analyze
	SessionDuration time.Duration `yaml:"session_duration"` // 0 runs until interrupted

	Notch      NotchConfig      `yaml:"notch"`
	Bands      dsp.Bands        `yaml:"bands"`
	Stream     StreamConfig     `yaml:"stream"`
	Device     DeviceConfig     `yaml:"device"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Repository RepositoryConfig `yaml:"repository"`
	Log        LogConfig        `yaml:"log"`
}

// NotchConfig describes the mains interference filter.
type NotchConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Frequency float64 `yaml:"frequency"` // Hz, 60 in the Americas, 50 elsewhere
	Bandwidth float64 `yaml:"bandwidth"` // Hz
	Order     int     `yaml:"order"`     // sections in cascade
}

// StreamConfig controls discovery of and reading from the stream.
type StreamConfig struct {
	Type             string        `yaml:"type"`
	DiscoveryTimeout time.Duration `yaml:"discovery_timeout"`
	PullTimeout      time.Duration `yaml:"pull_timeout"`
}

// DeviceConfig selects and parameterizes the sample source the
// CLI advertises.
type DeviceConfig struct {
	Driver     string     `yaml:"driver"` // mock_eeg | edf_replay
	Name       string     `yaml:"name"`
	SampleRate int        `yaml:"sample_rate"`
	Channels   int        `yaml:"channels"`
	Labels     []string   `yaml:"labels"`
	Realtime   bool       `yaml:"realtime"` // pace frames by the sample rate
	File       string     `yaml:"file"`     // EDF file for edf_replay
	Mock       MockConfig `yaml:"mock"`
}

// MockConfig shapes the synthetic signal of the mock device.
// Amplitudes are in microvolts.
type MockConfig struct {
	Seed      uint64     `yaml:"seed"`
	Offset    float64    `yaml:"offset"`
	Amplitude [4]float64 `yaml:"amplitude"` // per band: delta, theta, alpha, beta
	Mains     float64    `yaml:"mains"`     // amplitude of mains hum
	MainsFreq float64    `yaml:"mains_freq"`
	Noise     float64    `yaml:"noise"` // std deviation of white noise
}

// PromptConfig controls prompt composition.
type PromptConfig struct {
	Path       string            `yaml:"path"`
	Separator  string            `yaml:"separator"`
	Seed       uint64            `yaml:"seed"` // 0 seeds from the clock
	Thresholds prompt.Thresholds `yaml:"thresholds"`
}

// RepositoryConfig controls raw session recording. An empty Dir
// disables recording.
type RepositoryConfig struct {
	Dir         string  `yaml:"dir"`
	PhysicalMin float64 `yaml:"physical_min"`
	PhysicalMax float64 `yaml:"physical_max"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration of the classic protocol:
// 5s buffer, 1s epochs overlapping by 0.8s, the first channel,
// 12 second sessions.
func Default() Config {
	return Config{
		BufferLength:    5,
		EpochLength:     1,
		OverlapLength:   0.8,
		ChannelIndices:  []int{0},
		SessionDuration: 12 * time.Second,
		Notch: NotchConfig{
			Enabled:   true,
			Frequency: 60,
			Bandwidth: 10,
			Order:     2,
		},
		Bands: dsp.DefaultBands(),
		Stream: StreamConfig{
			Type:             DefaultStreamType,
			DiscoveryTimeout: 2 * time.Second,
			PullTimeout:      time.Second,
		},
		Device: DeviceConfig{
			Driver:     DefaultDriver,
			Name:       "MockEEG",
			SampleRate: 256,
			Channels:   4,
			Labels:     []string{"TP9", "AF7", "AF8", "TP10"},
			Realtime:   true,
			Mock: MockConfig{
				Offset:    850,
				Amplitude: [4]float64{6, 4, 10, 3},
				Mains:     20,
				MainsFreq: 60,
				Noise:     2,
			},
		},
		Prompt: PromptConfig{
			Path:       DefaultPromptPath,
			Thresholds: prompt.DefaultThresholds(),
		},
		Repository: RepositoryConfig{
			PhysicalMin: -2000,
			PhysicalMax: 2000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch {
	case c.EpochLength <= 0:
		return fmt.Errorf("epoch_length must be positive")
	case c.BufferLength < c.EpochLength:
		return fmt.Errorf("buffer_length (%v) shorter than epoch_length (%v)", c.BufferLength, c.EpochLength)
	case c.OverlapLength < 0 || c.OverlapLength >= c.EpochLength:
		return fmt.Errorf("overlap_length must be in [0, epoch_length)")
	case len(c.ChannelIndices) == 0:
		return fmt.Errorf("channel_indices must not be empty")
	case c.SessionDuration < 0:
		return fmt.Errorf("session_duration must not be negative")
	case c.Stream.Type == "":
		return fmt.Errorf("stream type must be set")
	case c.Stream.PullTimeout < 0 || c.Stream.DiscoveryTimeout < 0:
		return fmt.Errorf("stream timeouts must not be negative")
	case c.Device.SampleRate < 1:
		return fmt.Errorf("bad sample rate: %d", c.Device.SampleRate)
	case c.Device.Channels < 1:
		return fmt.Errorf("bad channel count: %d", c.Device.Channels)
	case c.Prompt.Path == "":
		return fmt.Errorf("prompt path must be set")
	case c.Repository.PhysicalMax <= c.Repository.PhysicalMin:
		return fmt.Errorf("repository physical range is empty")
	}
	for _, i := range c.ChannelIndices {
		if i < 0 {
			return fmt.Errorf("bad channel index: %d", i)
		}
	}
	if err := c.Bands.Validate(); err != nil {
		return err
	}
	if c.Notch.Enabled {
		if c.Notch.Frequency <= 0 || c.Notch.Bandwidth <= 0 || c.Notch.Order < 1 {
			return fmt.Errorf("bad notch filter: %+v", c.Notch)
		}
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// ShiftLength is how far consecutive epochs are apart, seconds.
func (c *Config) ShiftLength() float64 {
	return c.EpochLength - c.OverlapLength
}

// BufferSamples is the raw buffer capacity at the sample rate.
func (c *Config) BufferSamples(sampleRate int) int {
	return dsp.WindowLength(c.BufferLength, sampleRate)
}

// EpochSamples is the epoch length at the sample rate.
func (c *Config) EpochSamples(sampleRate int) int {
	return dsp.WindowLength(c.EpochLength, sampleRate)
}

// ShiftSamples is the largest chunk pulled per iteration. It
// truncates, and is at least one sample.
func (c *Config) ShiftSamples(sampleRate int) int {
	n := int(c.ShiftLength() * float64(sampleRate))
	if n < 1 {
		n = 1
	}
	return n
}

// BandEpochs is the smoothing depth K of the band power buffer.
func (c *Config) BandEpochs() int {
	return metric.EpochsInBuffer(c.BufferLength, c.EpochLength, c.ShiftLength())
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return level, fmt.Errorf("bad log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
