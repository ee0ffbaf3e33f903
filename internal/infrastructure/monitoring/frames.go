package monitoring

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultFrameWindow is the number of recent frames FrameStats keeps
const DefaultFrameWindow = 1024

// FrameStats keeps a window of recent frame times for summaries
type FrameStats struct {
	mu      sync.Mutex
	samples []float64 // milliseconds, ring buffer
	next    int
	total   uint64
}

// FrameSummary describes the frame times in the window
type FrameSummary struct {
	Frames uint64  `json:"frames"`
	MeanMs float64 `json:"mean_ms"`
	StdMs  float64 `json:"std_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
	MaxMs  float64 `json:"max_ms"`
}

// NewFrameStats creates a window of the given size
func NewFrameStats(window int) *FrameStats {
	if window <= 0 {
		window = DefaultFrameWindow
	}
	return &FrameStats{samples: make([]float64, 0, window)}
}

// Add records one frame time
func (f *FrameStats) Add(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ms := float64(d) / float64(time.Millisecond)
	if len(f.samples) < cap(f.samples) {
		f.samples = append(f.samples, ms)
	} else {
		f.samples[f.next] = ms
		f.next = (f.next + 1) % len(f.samples)
	}
	f.total++
}

// Summary computes statistics over the window. Frames counts every Add.
func (f *FrameStats) Summary() FrameSummary {
	f.mu.Lock()
	sorted := append([]float64(nil), f.samples...)
	total := f.total
	f.mu.Unlock()

	s := FrameSummary{Frames: total}
	if len(sorted) == 0 {
		return s
	}
	sort.Float64s(sorted)

	s.MeanMs, s.StdMs = stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		s.StdMs = 0
	}
	s.P50Ms = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P95Ms = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	s.P99Ms = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	s.MaxMs = floats.Max(sorted)
	return s
}
