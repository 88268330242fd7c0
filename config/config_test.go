//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jbrukh/brainbrush/dsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1280, cfg.BufferSamples(256))
	assert.Equal(t, 256, cfg.EpochSamples(256))
	assert.Equal(t, 51, cfg.ShiftSamples(256))
	assert.Equal(t, 21, cfg.BandEpochs())
	assert.Equal(t, 12*time.Second, cfg.SessionDuration)
}

func TestParse__OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
buffer_length: 4
epoch_length: 2
overlap_length: 1.5
channel_indices: [1, 2]
session_duration: 30s
notch:
  frequency: 50
bands:
  - {low: 1, high: 4}
  - {low: 4, high: 8}
  - {low: 8, high: 13}
  - {low: 13, high: 30}
stream:
  discovery_timeout: 500ms
prompt:
  path: /tmp/prompt.txt
  separator: ", "
  seed: 9
  thresholds:
    relaxation: 0.5
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, 4.0, cfg.BufferLength)
	assert.Equal(t, []int{1, 2}, cfg.ChannelIndices)
	assert.Equal(t, 30*time.Second, cfg.SessionDuration)
	assert.Equal(t, 50.0, cfg.Notch.Frequency)
	assert.True(t, cfg.Notch.Enabled, "untouched fields keep their defaults")
	assert.Equal(t, dsp.FrequencyRange{Low: 8, High: 13}, cfg.Bands[dsp.Alpha])
	assert.Equal(t, 500*time.Millisecond, cfg.Stream.DiscoveryTimeout)
	assert.Equal(t, time.Second, cfg.Stream.PullTimeout)
	assert.Equal(t, ", ", cfg.Prompt.Separator)
	assert.Equal(t, uint64(9), cfg.Prompt.Seed)
	assert.Equal(t, 0.5, cfg.Prompt.Thresholds.Relaxation)
	assert.Equal(t, 1.1, cfg.Prompt.Thresholds.ThetaAlpha)
	assert.Equal(t, 5, cfg.BandEpochs())

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParse__Invalid(t *testing.T) {
	cases := []string{
		"epoch_length: 0",
		"buffer_length: 0.5",
		"overlap_length: 1",
		"channel_indices: []",
		"channel_indices: [-1]",
		"session_duration: -1s",
		"notch: {frequency: 0}",
		"bands: [{low: 0, high: 4}, {low: 4, high: 8}, {low: 12, high: 8}, {low: 12, high: 30}]",
		"log: {level: chatty}",
		"device: {sample_rate: 0}",
		"prompt: {path: ''}",
	}
	for _, c := range cases {
		_, err := Parse([]byte(c))
		assert.Error(t, err, c)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brainbrush.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session_duration: 1m\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.SessionDuration)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
