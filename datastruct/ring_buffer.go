//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package datastruct

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChunkSize is returned when a chunk or window
	// does not fit the fixed capacity of a RingBuffer.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrWindowTooLong is returned when more rows are requested
	// than the buffer holds.
	ErrWindowTooLong = errors.New("window longer than buffer")
)

// RingBuffer is a fixed-capacity FIFO of rows of equal width,
// stored oldest-first. Its length never changes: it starts out
// zero-filled and every update drops as many of the oldest rows
// as it appends. The same type holds raw multi-channel samples
// (one column per channel) and per-epoch band power vectors.
type RingBuffer struct {
	capacity int
	width    int
	values   []float64 // capacity*width, row-major
}

// Create a new zero-filled RingBuffer of capacity rows, each
// width values wide.
func NewRingBuffer(capacity, width int) *RingBuffer {
	if capacity < 1 || width < 1 {
		str := fmt.Sprintf("bad parameters: capacity (%d); width (%d)", capacity, width)
		panic(str)
	}
	return &RingBuffer{
		capacity: capacity,
		width:    width,
		values:   make([]float64, capacity*width),
	}
}

// The number of rows in the buffer.
func (b *RingBuffer) Capacity() int {
	return b.capacity
}

// The number of values per row.
func (b *RingBuffer) Width() int {
	return b.width
}

// Update drops the oldest len(rows) rows and appends rows in
// order. Updating with no rows is a no-op.
func (b *RingBuffer) Update(rows [][]float64) error {
	r := len(rows)
	if r == 0 {
		return nil
	}
	if r > b.capacity {
		return fmt.Errorf("%w: %d rows into a buffer of %d", ErrInvalidChunkSize, r, b.capacity)
	}
	for _, row := range rows {
		if len(row) != b.width {
			panic("not comparable")
		}
	}

	copy(b.values, b.values[r*b.width:])
	tail := b.values[(b.capacity-r)*b.width:]
	for i, row := range rows {
		copy(tail[i*b.width:(i+1)*b.width], row)
	}
	return nil
}

// Last returns copies of the most recent n rows, oldest-first.
func (b *RingBuffer) Last(n int) ([][]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: window of %d rows", ErrInvalidChunkSize, n)
	}
	if n > b.capacity {
		return nil, fmt.Errorf("%w: %d > %d", ErrWindowTooLong, n, b.capacity)
	}
	rows := make([][]float64, n)
	start := b.capacity - n
	for i := range rows {
		s := (start + i) * b.width
		rows[i] = append([]float64(nil), b.values[s:s+b.width]...)
	}
	return rows, nil
}

// Rows returns copies of all rows, oldest-first.
func (b *RingBuffer) Rows() [][]float64 {
	rows, _ := b.Last(b.capacity)
	return rows
}

// Mean returns the column means over every row.
func (b *RingBuffer) Mean() []float64 {
	mean := make([]float64, b.width)
	for s := 0; s < b.capacity; s++ {
		for c := 0; c < b.width; c++ {
			mean[c] += b.values[s*b.width+c]
		}
	}
	for c := range mean {
		mean[c] /= float64(b.capacity)
	}
	return mean
}
