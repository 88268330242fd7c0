//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jbrukh/brainbrush/repo"
	"github.com/jbrukh/brainbrush/session"
)

// A session summary stored in the repository.
type storedSummary struct {
	id     string
	subdir string
	sum    session.Summary
}

// Read every summary in the repository, oldest session first.
func loadSummaries(r *repo.Repository) (stored []storedSummary, err error) {
	lists := []struct {
		subdir string
		list   func() ([]os.FileInfo, error)
	}{
		{"local", r.List},
		{"cache", r.ListCache},
	}
	for _, l := range lists {
		infos, err := l.list()
		if err != nil {
			return nil, err
		}
		for _, f := range infos {
			if filepath.Ext(f.Name()) != repo.ExtSummary {
				continue
			}
			s := storedSummary{
				id:     strings.TrimSuffix(f.Name(), repo.ExtSummary),
				subdir: l.subdir,
			}
			if err := r.ReadSummary(s.id, &s.sum); err != nil {
				slog.Warn("brainbrush: unreadable summary", "id", s.id, "error", err)
				continue
			}
			stored = append(stored, s)
		}
	}
	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].sum.Start.Before(stored[j].sum.Start)
	})
	return stored, nil
}

func printSummaries(w io.Writer, stored []storedSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHERE\tSTART\tSTATE\tEPOCHS\tRELAXATION\tPROMPT")
	for _, s := range stored {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.3f\t%s\n", s.id, s.subdir,
			s.sum.Start.Format(time.DateTime), s.sum.State, s.sum.Epochs,
			s.sum.Means.Relaxation, s.sum.Prompt.String())
	}
	return tw.Flush()
}

// Print a single summary in full.
func showSummary(w io.Writer, r *repo.Repository, id string) error {
	var sum session.Summary
	if err := r.ReadSummary(id, &sum); err != nil {
		return err
	}
	m := sum.Means
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "session\t%s\n", sum.ID)
	fmt.Fprintf(tw, "state\t%s\n", sum.State)
	fmt.Fprintf(tw, "stream\t%s (%s) at %d Hz\n", sum.Stream, sum.SourceID, sum.SampleRate)
	fmt.Fprintf(tw, "time\t%s to %s\n", sum.Start.Format(time.DateTime), sum.End.Format(time.DateTime))
	fmt.Fprintf(tw, "samples\t%.3fs to %.3fs\n", sum.FirstSampleTs, sum.LastSampleTs)
	fmt.Fprintf(tw, "epochs\t%d\n", sum.Epochs)
	fmt.Fprintf(tw, "bands\tdelta=%.4g theta=%.4g alpha=%.4g beta=%.4g\n",
		m.Bands.Delta(), m.Bands.Theta(), m.Bands.Alpha(), m.Bands.Beta())
	fmt.Fprintf(tw, "relaxation\t%.4f\n", m.Relaxation)
	fmt.Fprintf(tw, "theta+alpha\t%.4g\n", m.ThetaAlpha)
	fmt.Fprintf(tw, "beta+delta\t%.4g\n", m.BetaDelta)
	fmt.Fprintf(tw, "prompt\t%s\n", sum.Prompt.String())
	return tw.Flush()
}

// Move the summaries of earlier sessions to the cache, so that
// local only holds the latest one.
func archiveSummaries(r *repo.Repository, keep string) (moved int, err error) {
	infos, err := r.List()
	if err != nil {
		return 0, err
	}
	for _, f := range infos {
		if filepath.Ext(f.Name()) != repo.ExtSummary {
			continue
		}
		id := strings.TrimSuffix(f.Name(), repo.ExtSummary)
		if id == keep {
			continue
		}
		if err = r.Cache(id); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// Empty the cache, returning how many resources were removed.
func clearCache(r *repo.Repository) (int, error) {
	infos, err := r.ListCache()
	if err != nil {
		return 0, err
	}
	return len(infos), r.Clear("cache")
}
