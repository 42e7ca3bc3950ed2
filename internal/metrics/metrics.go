// Package metrics summarises tracking runs from the per-cycle samples the
// drivetrain publishes.
package metrics

import (
	"sync"

	"github.com/san-kum/diffdrive/internal/drivetrain"
)

type Metric interface {
	Name() string
	Observe(s drivetrain.Sample)
	Value() float64
	Reset()
}

// Set fans samples out to its metrics. It is a drivetrain.Observer and may
// be read while the loop is writing.
type Set struct {
	mu      sync.Mutex
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Standard returns the metrics every recorded run carries.
func Standard() *Set {
	return NewSet(NewSettleTime(), NewPathLength(), NewControlEffort(), NewRMSError(DriveError), NewRMSError(TurnError))
}

func (s *Set) OnCycle(sample drivetrain.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Observe(sample)
	}
}

func (s *Set) Values() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Reset()
	}
}

var _ drivetrain.Observer = (*Set)(nil)
