//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jbrukh/brainbrush/config"
	"github.com/jbrukh/brainbrush/metric"
	"github.com/jbrukh/brainbrush/prompt"
	"github.com/jbrukh/brainbrush/stream"
)

// ErrInterrupted is returned by a session that was cancelled
// before it finished. No prompt is written.
var ErrInterrupted = errors.New("session interrupted")

// ----------------------------------------------------------------- //
// State
// ----------------------------------------------------------------- //

type State int32

const (
	Idle State = iota
	Discovering
	Streaming
	Finished
	Aborted
)

var stateNames = [...]string{"idle", "discovering", "streaming", "finished", "aborted"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// ----------------------------------------------------------------- //
// Session
// ----------------------------------------------------------------- //

// Summary describes a completed or aborted session.
type Summary struct {
	ID         string           `msgpack:"id"`
	State      string           `msgpack:"state"`
	Stream     string           `msgpack:"stream"`
	SourceID   string           `msgpack:"source_id"`
	SampleRate int              `msgpack:"sample_rate"`
	Epochs     int              `msgpack:"epochs"`
	Means      metric.Means     `msgpack:"means"`
	Prompt     prompt.Selection `msgpack:"prompt"`
	Start      time.Time        `msgpack:"start"`
	End        time.Time        `msgpack:"end"`

	// Stream timestamps of the first and last sample, in seconds.
	FirstSampleTs float64 `msgpack:"first_sample_ts"`
	LastSampleTs  float64 `msgpack:"last_sample_ts"`
}

type Option func(*Session)

// WithClock replaces the wall clock that bounds the session.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// Session is one bounded run of the acquisition loop: find an
// EEG stream, turn its samples into band powers and metrics,
// and finally write a prompt chosen by the session means.
type Session struct {
	id    string
	cfg   config.Config
	src   stream.Source
	w     *prompt.Writer
	now   func() time.Time
	log   *slog.Logger
	state atomic.Int32
}

func New(cfg config.Config, src stream.Source, w *prompt.Writer, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil || w == nil {
		return nil, errors.New("session needs a stream source and a prompt writer")
	}
	s := &Session{
		id:  uuid.NewString(),
		cfg: cfg,
		src: src,
		w:   w,
		now: time.Now,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id)
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// State may be read while the session runs.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
	s.log.Debug("session: state", "state", st)
}

// Run the session until its duration elapses, ctx is cancelled
// or the stream fails. A session that got as far as streaming
// returns its summary even when it fails.
func (s *Session) Run(ctx context.Context) (*Summary, error) {
	if s.State() != Idle {
		return nil, errors.New("session already ran")
	}

	s.setState(Discovering)
	s.log.Info("session: looking for stream", "type", s.cfg.Stream.Type, "timeout", s.cfg.Stream.DiscoveryTimeout)
	found, err := s.src.Resolve(ctx, "type", s.cfg.Stream.Type, s.cfg.Stream.DiscoveryTimeout)
	if err == nil && len(found) == 0 {
		err = stream.ErrStreamNotFound
	}
	if err != nil {
		s.setState(Aborted)
		if ctx.Err() != nil {
			s.log.Warn("session: interrupted during discovery")
			return nil, ErrInterrupted
		}
		return nil, fmt.Errorf("could not find %s stream: %w", s.cfg.Stream.Type, err)
	}

	info := found[0]
	inlet, err := s.src.Open(info)
	if err != nil {
		s.setState(Aborted)
		return nil, fmt.Errorf("could not open stream %s: %w", info.Name, err)
	}
	defer func() {
		if err := inlet.Close(); err != nil {
			s.log.Warn("session: could not close inlet", "error", err)
		}
	}()

	p, err := NewPipeline(s.cfg, info.SampleRate, info.Channels)
	if err != nil {
		s.setState(Aborted)
		return nil, err
	}

	sum := &Summary{
		ID:         s.id,
		Stream:     info.Name,
		SourceID:   info.SourceID,
		SampleRate: info.SampleRate,
		Start:      s.now(),
	}
	s.setState(Streaming)
	log := s.log.With("stream", info.Name)
	if p.notch != nil {
		log = log.With("notch_hz", p.notch.Frequency())
	}
	log.Info("session: streaming", "sample_rate", info.SampleRate,
		"channels", s.cfg.ChannelIndices, "duration", s.cfg.SessionDuration)

	if err = s.stream(ctx, inlet, p, sum); err != nil {
		s.setState(Aborted)
		sum.State, sum.Epochs, sum.End = Aborted.String(), p.Epochs(), s.now()
		if errors.Is(err, ErrInterrupted) {
			s.log.Warn("session: interrupted, prompt not written", "epochs", sum.Epochs)
		} else {
			s.log.Error("session: aborted", "epochs", sum.Epochs, "error", err)
		}
		return sum, err
	}

	s.setState(Finished)
	sum.State, sum.Epochs, sum.End = Finished.String(), p.Epochs(), s.now()
	if sum.Means, err = p.Means(); err != nil {
		s.log.Error("session: no usable epochs, prompt not written", "epochs", sum.Epochs)
		return sum, fmt.Errorf("could not compute session means: %w", err)
	}
	s.log.Info("session: finished", "epochs", sum.Epochs, "relaxation", sum.Means.Relaxation,
		"theta_alpha", sum.Means.ThetaAlpha, "beta_delta", sum.Means.BetaDelta)

	if sum.Prompt, err = s.w.Write(sum.Means); err != nil {
		return sum, err
	}
	return sum, nil
}

// The streaming state. Cancellation is checked between chunks.
func (s *Session) stream(ctx context.Context, inlet stream.Inlet, p *Pipeline, sum *Summary) error {
	var (
		maxSamples = s.cfg.ShiftSamples(p.sampleRate)
		duration   = s.cfg.SessionDuration
		start      = sum.Start
		seen       bool
	)
	for {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		if duration > 0 && s.now().Sub(start) >= duration {
			return nil
		}

		chunk, ts, err := inlet.PullChunk(s.cfg.Stream.PullTimeout, maxSamples)
		if err != nil {
			return err
		}
		if len(ts) > 0 {
			if !seen {
				sum.FirstSampleTs, seen = ts[0], true
			}
			sum.LastSampleTs = ts[len(ts)-1]
		}
		ep, ok, err := p.Step(chunk)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Debug("session: no samples within timeout", "timeout", s.cfg.Stream.PullTimeout)
			continue
		}

		m := ep.Metrics
		s.log.Info("session: epoch", "epoch", ep.Index, "bands", ep.Bands, "relaxation", m.Relaxation,
			"concentration", m.Concentration, "theta_relaxation", m.ThetaRelaxation)
		if !m.RelaxationValid {
			s.log.Warn("session: no relaxation signal, delta power is zero", "epoch", ep.Index)
		}
	}
}
