//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package session

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jbrukh/brainbrush/config"
	"github.com/jbrukh/brainbrush/drivers/mock_eeg"
	"github.com/jbrukh/brainbrush/prompt"
	"github.com/jbrukh/brainbrush/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 256

// ----------------------------------------------------------------- //
// Scripted stream
// ----------------------------------------------------------------- //

type fakeClock struct {
	sync.Mutex
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.Lock()
	defer c.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.Lock()
	defer c.Unlock()
	c.t = c.t.Add(d)
}

// An inlet producing a synthetic signal; time passes on the
// clock as samples are pulled.
type scriptedInlet struct {
	info   stream.Info
	clock  *fakeClock
	signal func(ch, n int) float64
	n      int

	pulls  int
	empty  func(pull int) bool // pulls that time out
	onPull func(pull int) error
	closed bool
}

func (in *scriptedInlet) Info() stream.Info {
	return in.info
}

func (in *scriptedInlet) PullChunk(timeout time.Duration, maxSamples int) ([][]float64, []float64, error) {
	in.pulls++
	if in.onPull != nil {
		if err := in.onPull(in.pulls); err != nil {
			return nil, nil, err
		}
	}
	if in.empty != nil && in.empty(in.pulls) {
		in.clock.Advance(timeout)
		return nil, nil, nil
	}
	rows := make([][]float64, maxSamples)
	ts := make([]float64, maxSamples)
	for s := range rows {
		rows[s] = make([]float64, in.info.Channels)
		for c := range rows[s] {
			rows[s][c] = in.signal(c, in.n)
		}
		ts[s] = float64(in.n) / float64(in.info.SampleRate)
		in.n++
	}
	in.clock.Advance(time.Duration(maxSamples) * time.Second / time.Duration(in.info.SampleRate))
	return rows, ts, nil
}

func (in *scriptedInlet) Close() error {
	in.closed = true
	return nil
}

type scriptedSource struct {
	inlet *scriptedInlet
	found bool
}

func (s *scriptedSource) Resolve(ctx context.Context, prop, value string, timeout time.Duration) ([]stream.Info, error) {
	if !s.found || prop != "type" || value != s.inlet.info.Type {
		return nil, nil
	}
	return []stream.Info{s.inlet.info}, nil
}

func (s *scriptedSource) Open(info stream.Info) (stream.Inlet, error) {
	return s.inlet, nil
}

// Relaxed EEG: strong alpha over a little delta, on an offset
// with mains hum.
func relaxedSignal(ch, n int) float64 {
	t := float64(n) / testRate
	return 850 +
		2*math.Sin(2*math.Pi*2*t) +
		10*math.Sin(2*math.Pi*10*t+float64(ch)) +
		20*math.Sin(2*math.Pi*60*t)
}

func newScriptedSource(signal func(ch, n int) float64) (*scriptedSource, *fakeClock) {
	clock := newFakeClock()
	return &scriptedSource{
		found: true,
		inlet: &scriptedInlet{
			info: stream.Info{
				Name:       "Muse",
				Type:       "EEG",
				SourceID:   "muse-1",
				Channels:   4,
				SampleRate: testRate,
			},
			clock:  clock,
			signal: signal,
		},
	}, clock
}

func newTestSession(t *testing.T, src stream.Source, clock *fakeClock, seed uint64) (*Session, string) {
	path := filepath.Join(t.TempDir(), "static", "prompt.txt")
	w := prompt.NewWriter(path, "", prompt.DefaultThresholds(), prompt.NewRand(seed))
	s, err := New(config.Default(), src, w, WithClock(clock.Now))
	require.NoError(t, err)
	return s, path
}

func inPools(word string) bool {
	for _, p := range prompt.Pools() {
		if p.Contains(word) {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------------- //
// Tests
// ----------------------------------------------------------------- //

func TestRun__EndToEnd(t *testing.T) {
	src, clock := newScriptedSource(relaxedSignal)
	s, path := newTestSession(t, src, clock, 42)
	assert.Equal(t, Idle, s.State())

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Finished, s.State())

	// 12s in pulls of 51 samples at 256 Hz
	assert.Equal(t, 61, sum.Epochs)
	assert.Equal(t, s.ID(), sum.ID)
	assert.Equal(t, "finished", sum.State)
	assert.Equal(t, "Muse", sum.Stream)
	assert.Equal(t, 12152343750*time.Nanosecond, sum.End.Sub(sum.Start))
	assert.Equal(t, 0.0, sum.FirstSampleTs)
	assert.Equal(t, float64(61*51-1)/testRate, sum.LastSampleTs)
	assert.True(t, src.inlet.closed)

	// alpha dominates delta
	assert.Greater(t, sum.Means.Relaxation, 0.45)
	assert.Equal(t, "cozy_words", sum.Prompt.Picks[0].Pool)

	// one prompt, nothing else, in the target directory
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, sum.Prompt.String(), string(data))
	require.Len(t, sum.Prompt.Picks, 5)
	for _, p := range sum.Prompt.Picks {
		assert.True(t, inPools(p.Word), "%q is not in any pool", p.Word)
	}

	// a session runs once
	_, err = s.Run(context.Background())
	assert.Error(t, err)
}

func TestRun__Deterministic(t *testing.T) {
	var prompts []string
	for i := 0; i < 2; i++ {
		src, clock := newScriptedSource(relaxedSignal)
		s, _ := newTestSession(t, src, clock, 7)
		sum, err := s.Run(context.Background())
		require.NoError(t, err)
		prompts = append(prompts, sum.Prompt.String())
	}
	assert.Equal(t, prompts[0], prompts[1])
}

func TestRun__Interrupted(t *testing.T) {
	src, clock := newScriptedSource(relaxedSignal)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src.inlet.onPull = func(pull int) error {
		if pull == 10 {
			cancel()
		}
		return nil
	}
	s, path := newTestSession(t, src, clock, 42)

	sum, err := s.Run(ctx)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, Aborted, s.State())
	require.NotNil(t, sum)
	assert.Equal(t, "aborted", sum.State)
	assert.Equal(t, 10, sum.Epochs)
	assert.Equal(t, 10, src.inlet.pulls)
	assert.True(t, src.inlet.closed)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "prompt must not be written")
}

func TestRun__InterruptedBeforeDiscovery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.Default()
	cfg.Stream.DiscoveryTimeout = 5 * time.Second
	w := prompt.NewWriter(filepath.Join(t.TempDir(), "prompt.txt"), "", prompt.DefaultThresholds(), prompt.NewRand(1))
	s, err := New(cfg, stream.NewRegistry(), w)
	require.NoError(t, err)

	_, err = s.Run(ctx)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, Aborted, s.State())
}

func TestRun__StreamNotFound(t *testing.T) {
	cfg := config.Default()
	cfg.Stream.DiscoveryTimeout = 30 * time.Millisecond
	path := filepath.Join(t.TempDir(), "prompt.txt")
	w := prompt.NewWriter(path, "", prompt.DefaultThresholds(), prompt.NewRand(1))
	s, err := New(cfg, stream.NewRegistry(), w)
	require.NoError(t, err)

	sum, err := s.Run(context.Background())
	assert.ErrorIs(t, err, stream.ErrStreamNotFound)
	assert.Nil(t, sum)
	assert.Equal(t, Aborted, s.State())

	// a source that finds nothing without complaint
	src, clock := newScriptedSource(relaxedSignal)
	src.found = false
	s, _ = newTestSession(t, src, clock, 1)
	_, err = s.Run(context.Background())
	assert.ErrorIs(t, err, stream.ErrStreamNotFound)
}

func TestRun__EmptyChunks(t *testing.T) {
	src, clock := newScriptedSource(relaxedSignal)
	src.inlet.empty = func(pull int) bool {
		return pull%3 == 0
	}
	s, path := newTestSession(t, src, clock, 42)

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, src.inlet.pulls-src.inlet.pulls/3, sum.Epochs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sum.Prompt.String(), string(data))
}

func TestRun__StreamLost(t *testing.T) {
	src, clock := newScriptedSource(relaxedSignal)
	src.inlet.onPull = func(pull int) error {
		if pull == 5 {
			return stream.ErrStreamLost
		}
		return nil
	}
	s, path := newTestSession(t, src, clock, 42)

	sum, err := s.Run(context.Background())
	assert.ErrorIs(t, err, stream.ErrStreamLost)
	assert.Equal(t, Aborted, s.State())
	assert.Equal(t, 4, sum.Epochs)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRun__NoRelaxationSignal(t *testing.T) {
	// a flat line has no delta power
	src, clock := newScriptedSource(func(ch, n int) float64 { return 0 })
	s, path := newTestSession(t, src, clock, 42)

	sum, err := s.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Finished, s.State())
	assert.Equal(t, 61, sum.Epochs)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRun__Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	src, clock := newScriptedSource(relaxedSignal)
	src.inlet.empty = func(pull int) bool {
		return pull == 1
	}
	w := prompt.NewWriter(filepath.Join(t.TempDir(), "prompt.txt"), "", prompt.DefaultThresholds(), prompt.NewRand(1))
	s, err := New(config.Default(), src, w, WithClock(clock.Now), WithLogger(logger))
	require.NoError(t, err)

	sum, err := s.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "notch_hz=60")
	assert.Equal(t, sum.Epochs, strings.Count(out, "bands="))

	// the timed out pull has no timestamps
	assert.Equal(t, 0.0, sum.FirstSampleTs)
	assert.Greater(t, sum.LastSampleTs, sum.FirstSampleTs)
}

func TestNew__Errors(t *testing.T) {
	w := prompt.NewWriter("prompt.txt", "", prompt.DefaultThresholds(), prompt.NewRand(1))

	cfg := config.Default()
	cfg.ChannelIndices = nil
	_, err := New(cfg, stream.NewRegistry(), w)
	assert.Error(t, err)

	_, err = New(config.Default(), nil, w)
	assert.Error(t, err)
}

func TestRun__MockDevice(t *testing.T) {
	d := mock_eeg.NewMockDevice("MockEEG", mock_eeg.Options{
		SampleRate: testRate,
		Channels:   4,
		Seed:       3,
		Offset:     850,
		Amplitude:  [4]float64{2, 4, 10, 3},
		Mains:      20,
		MainsFreq:  60,
		Noise:      1,
		Realtime:   true,
	})
	require.NoError(t, d.Engage())
	defer d.Disengage()

	reg := stream.NewRegistry()
	_, err := reg.Advertise(d, stream.Info{})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.SessionDuration = 500 * time.Millisecond
	path := filepath.Join(t.TempDir(), "prompt.txt")
	w := prompt.NewWriter(path, " ", prompt.DefaultThresholds(), prompt.NewRand(5))
	s, err := New(cfg, reg, w)
	require.NoError(t, err)

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Positive(t, sum.Epochs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sum.Prompt.String(), string(data))
	assert.Len(t, sum.Prompt.Picks, 5)
	assert.Equal(t, 4, strings.Count(string(data), " ")-countSpaces(sum.Prompt))
}

// spaces inside the picked words themselves
func countSpaces(sel prompt.Selection) (n int) {
	for _, p := range sel.Picks {
		n += strings.Count(p.Word, " ")
	}
	return
}

func TestState(t *testing.T) {
	assert.Equal(t, "streaming", Streaming.String())
	assert.Equal(t, "state(9)", State(9).String())
}
