package metrics

import (
	"math"

	"github.com/san-kum/diffdrive/internal/drivetrain"
	"github.com/san-kum/diffdrive/internal/geom"
)

// SettleTime is the duration in seconds of the most recent movement, from
// the first unsettled cycle to the cycle that settled.
type SettleTime struct {
	start  float64
	moving bool
	last   float64
}

func NewSettleTime() *SettleTime { return &SettleTime{} }

func (m *SettleTime) Name() string { return "settle_time" }

func (m *SettleTime) Observe(s drivetrain.Sample) {
	t := s.Elapsed.Seconds()
	switch {
	case !s.Settled && !m.moving:
		m.moving, m.start = true, t
	case s.Settled && m.moving:
		m.moving = false
		m.last = t - m.start
	}
}

func (m *SettleTime) Value() float64 { return m.last }

func (m *SettleTime) Reset() { *m = SettleTime{} }

// PathLength is the distance the estimate travelled.
type PathLength struct {
	prev  geom.Vector2
	seen  bool
	total float64
}

func NewPathLength() *PathLength { return &PathLength{} }

func (m *PathLength) Name() string { return "path_length" }

func (m *PathLength) Observe(s drivetrain.Sample) {
	if m.seen {
		m.total += m.prev.Distance(s.Pose.Position)
	}
	m.prev, m.seen = s.Pose.Position, true
}

func (m *PathLength) Value() float64 { return m.total }

func (m *PathLength) Reset() { *m = PathLength{} }

// ControlEffort is the mean absolute side voltage.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s drivetrain.Sample) {
	c.sum += (math.Abs(s.LeftVolts) + math.Abs(s.RightVolts)) / 2
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
