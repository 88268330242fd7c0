//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jbrukh/brainbrush/metric"
	"github.com/jbrukh/brainbrush/prompt"
	"github.com/jbrukh/brainbrush/repo"
	"github.com/jbrukh/brainbrush/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary(name string, start time.Time, words ...string) session.Summary {
	sel := prompt.Selection{Separator: " "}
	for _, w := range words {
		sel.Picks = append(sel.Picks, prompt.Pick{Pool: "cozy_words", Word: w})
	}
	return session.Summary{
		ID:            name,
		State:         "finished",
		Stream:        "Muse",
		SampleRate:    256,
		Epochs:        61,
		Means:         metric.Means{Relaxation: 0.6},
		Prompt:        sel,
		Start:         start,
		End:           start.Add(12 * time.Second),
		FirstSampleTs: 0,
		LastSampleTs:  12.1,
	}
}

// Three sessions, one recording, in local.
func newTestRepo(t *testing.T) (r *repo.Repository, ids []string) {
	r, err := repo.NewRepository(t.TempDir())
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		id, err := r.WriteSummary(testSummary(name, start.Add(time.Duration(i)*time.Hour), name, "soft pillow"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, fp := r.NewResourceId(repo.ExtRecording)
	require.NoError(t, os.WriteFile(fp, nil, 0644))
	return r, ids
}

func TestArchiveSummaries(t *testing.T) {
	r, ids := newTestRepo(t)

	moved, err := archiveSummaries(r, ids[2])
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	// the latest summary and the recording stay
	local, err := r.List()
	require.NoError(t, err)
	assert.Len(t, local, 2)
	fp, err := r.Lookup(ids[2])
	require.NoError(t, err)
	assert.Equal(t, "local", filepath.Base(filepath.Dir(fp)))

	cached, err := r.ListCache()
	require.NoError(t, err)
	assert.Len(t, cached, 2)

	// nothing left to move
	moved, err = archiveSummaries(r, ids[2])
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestLoadSummaries(t *testing.T) {
	r, ids := newTestRepo(t)
	_, err := archiveSummaries(r, ids[2])
	require.NoError(t, err)

	stored, err := loadSummaries(r)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, s := range stored {
		assert.Equal(t, ids[i], s.id)
	}
	assert.Equal(t, "cache", stored[0].subdir)
	assert.Equal(t, "local", stored[2].subdir)
	assert.Equal(t, "third soft pillow", stored[2].sum.Prompt.String())

	var buf bytes.Buffer
	require.NoError(t, printSummaries(&buf, stored))
	out := buf.String()
	for _, id := range ids {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "second soft pillow")
	assert.Contains(t, out, "0.600")
}

func TestShowSummary(t *testing.T) {
	r, ids := newTestRepo(t)

	var buf bytes.Buffer
	require.NoError(t, showSummary(&buf, r, ids[1]))
	out := buf.String()
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "second soft pillow")
	assert.Contains(t, out, "0.000s to 12.100s")
	assert.Contains(t, out, "Muse")

	assert.Error(t, showSummary(&buf, r, "no-such-summary"))
}

func TestClearCache(t *testing.T) {
	r, ids := newTestRepo(t)
	_, err := archiveSummaries(r, ids[0])
	require.NoError(t, err)

	n, err := clearCache(r)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := loadSummaries(r)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, ids[0], stored[0].id)
}
