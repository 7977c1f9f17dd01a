// package perf measures block processing time against the deadline.
package perf

import (
	"sync"
	"time"
)

// Monitor keeps a fixed circular window of per-block timings. Begin
// and End bracket one block on the audio path; Stats is read from the
// main loop.
type Monitor struct {
	name       string
	sampleRate int

	mu     sync.Mutex
	times  []time.Duration
	loads  []float64
	idx    int
	valid  int
	start  time.Time
	active bool
}

// Stats is a summary over the current window.
type Stats struct {
	Name    string
	Samples int
	AvgTime time.Duration
	MaxTime time.Duration
	// Load is processing time over the time available for the block
	// (frames / sample rate), as a percentage. Above 100 the deadline
	// was missed.
	AvgLoad float64
	MaxLoad float64
}

// New creates a Monitor holding up to window block timings.
func New(name string, sampleRate, window int) *Monitor {
	return &Monitor{
		name:       name,
		sampleRate: sampleRate,
		times:      make([]time.Duration, window),
		loads:      make([]float64, window),
	}
}

// Begin marks the start of a block.
func (m *Monitor) Begin() {
	m.start = time.Now()
	m.active = true
}

// End marks the end of a block covering the given number of frames.
// Without a matching Begin it does nothing.
func (m *Monitor) End(frames int) {
	if !m.active {
		return
	}
	m.active = false
	m.record(time.Since(m.start), frames)
}

func (m *Monitor) record(d time.Duration, frames int) {
	available := float64(frames) / float64(m.sampleRate) * float64(time.Second)
	load := 0.0
	if available > 0 {
		load = float64(d) / available * 100
	}
	m.mu.Lock()
	m.times[m.idx] = d
	m.loads[m.idx] = load
	m.idx = (m.idx + 1) % len(m.times)
	if m.valid < len(m.times) {
		m.valid++
	}
	m.mu.Unlock()
}

// Stats summarizes the current window.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{Name: m.name, Samples: m.valid}
	if m.valid == 0 {
		return s
	}
	var sumT time.Duration
	var sumL float64
	for i := 0; i < m.valid; i++ {
		t, l := m.times[i], m.loads[i]
		sumT += t
		sumL += l
		if t > s.MaxTime {
			s.MaxTime = t
		}
		if l > s.MaxLoad {
			s.MaxLoad = l
		}
	}
	s.AvgTime = sumT / time.Duration(m.valid)
	s.AvgLoad = sumL / float64(m.valid)
	return s
}

// Reset discards all recorded timings.
func (m *Monitor) Reset() {
	m.mu.Lock()
	m.idx = 0
	m.valid = 0
	m.mu.Unlock()
}
