//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// return the sum of an array
func SumFloat64(arr []float64) (result float64) {
	for _, v := range arr {
		result += v
	}
	return
}

// Return the average of an array and whether it was
// defined; the average of an empty array is not.
func AverageFloat64(arr []float64) (float64, bool) {
	if len(arr) < 1 {
		return 0, false
	}
	return SumFloat64(arr) / float64(len(arr)), true
}

// Convert a nanosecond timestamp to seconds.
func NanosToSeconds(nanos int64) float64 {
	return float64(nanos) / float64(time.Second)
}

// Return the timestamp of the s-th sample given that the duration
// between timestamps is δ.
func InterpolateTs(start int64, s int, δ time.Duration) int64 {
	return start + int64(s)*int64(δ)
}

// The duration between samples at the given rate.
func SamplePeriod(sampleRate int) time.Duration {
	return time.Second / time.Duration(sampleRate)
}

// Expand a leading "~" to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// For testing panics.
func TestPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("should have panicked")
		}
	}()
	f()
}
