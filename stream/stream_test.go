//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package stream

import (
	"context"
	"testing"
	"time"

	"github.com/jbrukh/brainbrush/datastruct"
	"github.com/jbrukh/brainbrush/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A device that streams whatever frames are fed to it.
type feedDevice struct {
	feed chan *datastruct.BlockBuffer
}

func (f *feedDevice) Name() string     { return "FeedDevice" }
func (f *feedDevice) Engage() error    { return nil }
func (f *feedDevice) Disengage() error { return nil }

func (f *feedDevice) Stream(c *device.Control) error {
	c.SendInfo(&device.DeviceInfo{
		Type:       "EEG",
		Channels:   2,
		SampleRate: 256,
	})
	for {
		select {
		case <-c.Done():
			return nil
		case b := <-f.feed:
			c.Send(device.NewDataFrame(b, 256))
		}
	}
}

func newFeedDevice(t *testing.T) (device.Device, chan *datastruct.BlockBuffer) {
	feed := make(chan *datastruct.BlockBuffer)
	d := device.NewDevice(&feedDevice{feed: feed})
	require.NoError(t, d.Engage())
	t.Cleanup(func() { d.Disengage() })
	return d, feed
}

// n samples of two channels; sample s is {start+s, -(start+s)}
// stamped at start+s seconds.
func block(start, n int) *datastruct.BlockBuffer {
	b := datastruct.NewBlockBuffer(2, n)
	for s := 0; s < n; s++ {
		v := float64(start + s)
		b.AppendSample([]float64{v, -v}, int64(start+s)*int64(time.Second))
	}
	return b
}

func TestRegistry__Resolve(t *testing.T) {
	r := NewRegistry()
	d, _ := newFeedDevice(t)

	info, err := r.Advertise(d, Info{Name: "Muse"})
	require.NoError(t, err)
	assert.Equal(t, "EEG", info.Type)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 256, info.SampleRate)
	assert.NotEmpty(t, info.SourceID)

	_, err = r.Advertise(d, info)
	assert.Error(t, err, "same source twice")

	found, err := r.Resolve(context.Background(), "type", "EEG", time.Second)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, info, found[0])

	_, err = r.Resolve(context.Background(), "colour", "EEG", time.Second)
	assert.Error(t, err)

	r.Withdraw(info.SourceID)
	_, err = r.Resolve(context.Background(), "type", "EEG", 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrStreamNotFound)

	_, err = r.Open(info)
	assert.ErrorIs(t, err, ErrStreamNotFound)
}

func TestRegistry__ResolveWaits(t *testing.T) {
	r := NewRegistry()
	d, _ := newFeedDevice(t)

	go func() {
		time.Sleep(50 * time.Millisecond)
		r.Advertise(d, Info{})
	}()
	found, err := r.Resolve(context.Background(), "name", "FeedDevice", 5*time.Second)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestRegistry__ResolveCancelled(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, "type", "EEG", 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry__NotEngaged(t *testing.T) {
	r := NewRegistry()
	d := device.NewDevice(&feedDevice{})
	_, err := r.Advertise(d, Info{})
	assert.Error(t, err)
}

func TestInlet__PullChunk(t *testing.T) {
	r := NewRegistry()
	d, feed := newFeedDevice(t)
	info, err := r.Advertise(d, Info{})
	require.NoError(t, err)

	in, err := r.Open(info)
	require.NoError(t, err)
	defer in.Close()
	assert.Equal(t, info, in.Info())

	// nothing arrives
	rows, ts, err := in.PullChunk(20*time.Millisecond, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, ts)

	feed <- block(0, 6)
	feed <- block(6, 6)

	// the first frame wakes up the pull; both may be queued
	rows, ts, err = in.PullChunk(time.Second, 8)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []float64{0, 0}, rows[0])
	assert.Equal(t, 0.0, ts[0])

	got := len(rows)
	for got < 12 {
		more, mts, err := in.PullChunk(time.Second, 8)
		require.NoError(t, err)
		require.NotEmpty(t, more)
		assert.Equal(t, []float64{float64(got), -float64(got)}, more[0])
		assert.Equal(t, float64(got), mts[0])
		got += len(more)
	}
	assert.Equal(t, 12, got)

	_, _, err = in.PullChunk(time.Second, 0)
	assert.ErrorIs(t, err, datastruct.ErrInvalidChunkSize)
}

func TestInlet__Lost(t *testing.T) {
	r := NewRegistry()
	d, feed := newFeedDevice(t)
	info, err := r.Advertise(d, Info{})
	require.NoError(t, err)
	in, err := r.Open(info)
	require.NoError(t, err)

	feed <- block(0, 4)
	require.NoError(t, d.Disengage())

	// queued samples are still handed out
	rows, _, err := in.PullChunk(time.Second, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, _, err = in.PullChunk(time.Second, 10)
	assert.ErrorIs(t, err, ErrStreamLost)
}

func TestInlet__NoChannels(t *testing.T) {
	d, _ := newFeedDevice(t)
	_, err := NewDeviceInlet(d, Info{Name: "empty"})
	assert.Error(t, err)
}
