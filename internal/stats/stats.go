// Package stats tracks parse latencies over a rolling window and running
// totals of parsed elements.
package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/mdtree/internal/doctree"
)

type sample struct {
	timestamp  time.Time
	durationUs int64
}

// Snapshot is a point-in-time aggregate of parse latency samples and totals.
type Snapshot struct {
	Count int     `json:"count"`
	MinUs int64   `json:"min_us"`
	MaxUs int64   `json:"max_us"`
	AvgUs float64 `json:"avg_us"`
	P50Us float64 `json:"p50_us"`
	P95Us float64 `json:"p95_us"`
	P99Us float64 `json:"p99_us"`

	Totals Totals `json:"totals"`
}

// Totals accumulate over the lifetime of the process.
type Totals struct {
	Documents int64          `json:"documents"`
	Bytes     int64          `json:"bytes"`
	Elements  doctree.Counts `json:"elements"`
}

// ParseStats tracks recent parse latencies within a rolling window.
type ParseStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	totals  Totals
}

func NewParseStats(maxAge time.Duration) *ParseStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &ParseStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one parse of size bytes that took d and produced counts.
func (s *ParseStats) Record(d time.Duration, size int, counts doctree.Counts) {
	us := d.Microseconds()
	if us < 0 {
		us = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp:  now,
		durationUs: us,
	})

	s.totals.Documents++
	s.totals.Bytes += int64(size)
	s.totals.Elements.Quotes += counts.Quotes
	s.totals.Elements.BulletPoints += counts.BulletPoints
	s.totals.Elements.Text += counts.Text
	s.totals.Elements.CodeSpans += counts.CodeSpans
	if counts.MaxDepth > s.totals.Elements.MaxDepth {
		s.totals.Elements.MaxDepth = counts.MaxDepth
	}
}

func (s *ParseStats) Snapshot() Snapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return Snapshot{Totals: s.totals}
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationUs)
		sum += sm.durationUs
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return Snapshot{
		Count:  len(values),
		MinUs:  values[0],
		MaxUs:  values[len(values)-1],
		AvgUs:  float64(sum) / float64(len(values)),
		P50Us:  percentile(values, 50),
		P95Us:  percentile(values, 95),
		P99Us:  percentile(values, 99),
		Totals: s.totals,
	}
}

func (s *ParseStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
