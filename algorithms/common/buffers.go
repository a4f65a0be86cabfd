package common

// CircularBuffer is a fixed-capacity ring of the most recent samples with a
// running sum, used by the running-average filter.
type CircularBuffer struct {
	buffer   []float64
	size     int
	writePos int
	count    int
	sum      float64
}

// NewCircularBuffer creates a new circular buffer
func NewCircularBuffer(size int) *CircularBuffer {
	if size < 1 {
		size = 1
	}
	return &CircularBuffer{
		buffer: make([]float64, size),
		size:   size,
	}
}

// Push appends a sample, overwriting the oldest one once the buffer is full.
// It returns the evicted sample and whether an eviction happened.
func (cb *CircularBuffer) Push(sample float64) (float64, bool) {
	var evicted float64
	full := cb.count == cb.size
	if full {
		evicted = cb.buffer[cb.writePos]
		cb.sum -= evicted
	} else {
		cb.count++
	}

	cb.buffer[cb.writePos] = sample
	cb.sum += sample
	cb.writePos = (cb.writePos + 1) % cb.size
	return evicted, full
}

// Sum returns the sum of the buffered samples
func (cb *CircularBuffer) Sum() float64 {
	return cb.sum
}

// Mean returns the average of the buffered samples
func (cb *CircularBuffer) Mean() float64 {
	if cb.count == 0 {
		return 0
	}
	return cb.sum / float64(cb.count)
}

// Available returns number of buffered samples
func (cb *CircularBuffer) Available() int {
	return cb.count
}

// Capacity returns the maximum number of samples held
func (cb *CircularBuffer) Capacity() int {
	return cb.size
}

// IsFull returns true if buffer is full
func (cb *CircularBuffer) IsFull() bool {
	return cb.count == cb.size
}

// Clear empties the buffer
func (cb *CircularBuffer) Clear() {
	cb.writePos = 0
	cb.count = 0
	cb.sum = 0
	for i := range cb.buffer {
		cb.buffer[i] = 0
	}
}
