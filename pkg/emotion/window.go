// Package emotion aggregates noisy per-frame emotion predictions into a
// single contextual signal. A fixed-capacity sliding window of recent
// labels is reduced to the dominant (most frequent) label on demand.
package emotion

import "sync"

// Neutral is returned by Dominant when no samples have been observed.
const Neutral = "neutral"

// DefaultCapacity matches the reference window of 20 samples.
const DefaultCapacity = 20

// Window is a bounded sliding window of emotion labels. Observe is called
// from the frame pipeline goroutine while Dominant is read from chat
// dispatch, so all access is mutex-guarded.
type Window struct {
	mu      sync.Mutex
	samples []string
	head    int
	size    int
}

// NewWindow creates a window holding at most capacity samples. A
// non-positive capacity falls back to DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{samples: make([]string, capacity)}
}

// Observe appends a sample, evicting the oldest when the window is full.
func (w *Window) Observe(label string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.samples[(w.head+w.size)%len(w.samples)] = label
	if w.size < len(w.samples) {
		w.size++
	} else {
		w.head = (w.head + 1) % len(w.samples)
	}
}

// Dominant returns the most frequent label currently in the window.
// Ties break to the label that first reaches the maximal count scanning
// the window oldest to newest. An empty window yields Neutral.
func (w *Window) Dominant() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size == 0 {
		return Neutral
	}

	counts := make(map[string]int, w.size)
	best := ""
	bestCount := 0
	for i := 0; i < w.size; i++ {
		label := w.samples[(w.head+i)%len(w.samples)]
		counts[label]++
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}

// Len reports how many samples the window currently holds.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}
