// Package history keeps the bounded, insertion-ordered series of chart points
// that drives the dashboard charts.
//
// A Buffer holds at most Cap() points. Appending past capacity evicts from the
// front, so the buffer always contains the most recent points in the order they
// arrived. Nothing is persisted; a restarted process starts with an empty buffer.
package history

import "sync"

// DefaultCapacity is the number of points kept when no capacity is configured.
const DefaultCapacity = 20

// ChartPoint is a display-only projection of a sensor reading.
type ChartPoint struct {
	Time      string  `json:"time"`
	HeartRate float64 `json:"heartRate"`
	GyroX     float64 `json:"gyroX"`
	GyroY     float64 `json:"gyroY"`
	GyroZ     float64 `json:"gyroZ"`
}

// Buffer is a fixed-capacity FIFO of chart points.
// It is safe for concurrent use by multiple goroutines.
type Buffer struct {
	mu       sync.RWMutex
	points   []ChartPoint
	capacity int
}

// New creates an empty buffer. A capacity <= 0 falls back to DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		points:   make([]ChartPoint, 0, capacity),
		capacity: capacity,
	}
}

// Append adds points to the end of the buffer and drops from the front until
// the length is back within capacity. Appending nothing leaves the buffer as is.
func (b *Buffer) Append(points ...ChartPoint) {
	if len(points) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.points = append(b.points, points...)
	if over := len(b.points) - b.capacity; over > 0 {
		// shift in place so the backing array is reused
		n := copy(b.points, b.points[over:])
		clear(b.points[n:])
		b.points = b.points[:n]
	}
}

// Points returns a copy of the buffered points, oldest first.
func (b *Buffer) Points() []ChartPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]ChartPoint, len(b.points))
	copy(out, b.points)
	return out
}

// Len returns the number of buffered points.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.points)
}

// Cap returns the configured capacity.
func (b *Buffer) Cap() int {
	return b.capacity
}
