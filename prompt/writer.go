//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package prompt

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jbrukh/brainbrush/metric"
	"github.com/jbrukh/brainbrush/util"
)

// Rand picks an index in [0, n). *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a seeded source; seed 0 seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// A Pool is a named category of words.
type Pool struct {
	Name  string
	Words []string
}

// Contains reports whether w is in the pool.
func (p Pool) Contains(w string) bool {
	for _, word := range p.Words {
		if word == w {
			return true
		}
	}
	return false
}

// Pools lists every pool a prompt may draw from.
func Pools() []Pool {
	return []Pool{CozyWords, HorrorScenes, CuteAdjectives, RelaxedAdjectives, StressedAdjectives, StressfulNouns, CuteNouns}
}

// Thresholds decide which pools the session means pick from.
// Every comparison is inclusive.
type Thresholds struct {
	Relaxation float64 `yaml:"relaxation"`
	ThetaAlpha float64 `yaml:"theta_alpha"`
	BetaDelta  float64 `yaml:"beta_delta"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Relaxation: 0.45,
		ThetaAlpha: 1.1,
		BetaDelta:  1.1,
	}
}

// Pick is one word and the pool it came from.
type Pick struct {
	Pool string `msgpack:"pool"`
	Word string `msgpack:"word"`
}

// Selection is the ordered list of words making up a prompt.
type Selection struct {
	Picks     []Pick `msgpack:"picks"`
	Separator string `msgpack:"separator"`
}

// Pools returns the pool name of every pick, in order.
func (s Selection) Pools() []string {
	names := make([]string, len(s.Picks))
	for i, p := range s.Picks {
		names[i] = p.Pool
	}
	return names
}

func (s Selection) String() string {
	words := make([]string, len(s.Picks))
	for i, p := range s.Picks {
		words[i] = p.Word
	}
	return strings.Join(words, s.Separator)
}

// ----------------------------------------------------------------- //
// Writer
// ----------------------------------------------------------------- //

// Writer composes prompts from session means and writes them to
// a fixed path that an external image generator reads.
type Writer struct {
	path      string
	separator string
	th        Thresholds
	rnd       Rand
}

// Create a new Writer. A leading "~" in path is expanded when
// writing.
func NewWriter(path, separator string, th Thresholds, rnd Rand) *Writer {
	return &Writer{
		path:      path,
		separator: separator,
		th:        th,
		rnd:       rnd,
	}
}

// Path returns the configured target path.
func (w *Writer) Path() string {
	return w.path
}

// Select draws one word per category.
func (w *Writer) Select(m metric.Means) Selection {
	s := Selection{Separator: w.separator}

	if m.Relaxation >= w.th.Relaxation {
		s.Picks = append(s.Picks, w.pick(CozyWords))
	} else {
		s.Picks = append(s.Picks, w.pick(HorrorScenes))
	}

	if m.ThetaAlpha >= w.th.ThetaAlpha {
		s.Picks = append(s.Picks, w.pick(CuteAdjectives), w.pick(RelaxedAdjectives))
	} else {
		s.Picks = append(s.Picks, w.pick(StressedAdjectives), w.pick(StressfulNouns))
	}

	if m.BetaDelta >= w.th.BetaDelta {
		s.Picks = append(s.Picks, w.pick(StressedAdjectives), w.pick(StressfulNouns))
	} else {
		s.Picks = append(s.Picks, w.pick(CozyWords), w.pick(CuteNouns))
	}
	return s
}

// Write selects a prompt and replaces the target file with it.
// The whole prompt is written to a temporary file in the same
// directory which is then renamed over the target, so readers
// never see a partial prompt.
func (w *Writer) Write(m metric.Means) (Selection, error) {
	s := w.Select(m)

	path, err := util.ExpandHome(w.path)
	if err != nil {
		return s, fmt.Errorf("could not resolve prompt path: %w", err)
	}
	if err := writeFileAtomic(path, []byte(s.String())); err != nil {
		return s, fmt.Errorf("could not write prompt: %w", err)
	}
	slog.Info("prompt: written", "path", path, "prompt", s.String())
	return s, nil
}

func (w *Writer) pick(p Pool) Pick {
	return Pick{Pool: p.Name, Word: p.Words[w.rnd.IntN(len(p.Words))]}
}

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
