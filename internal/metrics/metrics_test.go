package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/diffdrive/internal/drivetrain"
	"github.com/san-kum/diffdrive/internal/geom"
)

func sample(ms int, x, y float64, settled bool) drivetrain.Sample {
	return drivetrain.Sample{
		Elapsed: time.Duration(ms) * time.Millisecond,
		Pose:    geom.Pose{Position: geom.Vec(x, y)},
		Settled: settled,
	}
}

func TestSettleTime(t *testing.T) {
	m := NewSettleTime()
	for _, s := range []drivetrain.Sample{
		sample(10, 0, 0, false),
		sample(20, 0, 1, false),
		sample(430, 0, 2, true),
		sample(440, 0, 2, true),
	} {
		m.Observe(s)
	}
	if got := m.Value(); math.Abs(got-0.42) > 1e-9 {
		t.Errorf("settle time = %f, expected 0.42", got)
	}

	m.Observe(sample(500, 0, 2, false))
	m.Observe(sample(600, 0, 3, true))
	if got := m.Value(); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("second settle time = %f, expected 0.1", got)
	}
}

func TestPathLength(t *testing.T) {
	m := NewPathLength()
	m.Observe(sample(0, 0, 0, false))
	m.Observe(sample(10, 3, 4, false))
	m.Observe(sample(20, 3, 10, false))
	if got := m.Value(); math.Abs(got-11) > 1e-9 {
		t.Errorf("path length = %f, expected 11", got)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear path length")
	}
}

func TestRMSError(t *testing.T) {
	m := NewRMSError(TurnError)
	for _, e := range []float64{3, -4, 0, 0} {
		m.Observe(drivetrain.Sample{TurnError: e, DriveError: 100})
	}
	if got := m.Value(); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("rms = %f, expected 2.5", got)
	}
	if got := m.Peak(); math.Abs(got-4) > 1e-9 {
		t.Errorf("peak = %f, expected 4", got)
	}
	if m.Name() != "turn_rms_error" {
		t.Errorf("name = %s", m.Name())
	}
}

func TestStandardSet(t *testing.T) {
	set := Standard()
	set.OnCycle(drivetrain.Sample{LeftVolts: 6, RightVolts: -2})
	set.OnCycle(drivetrain.Sample{LeftVolts: 2, RightVolts: 2})

	values := set.Values()
	for _, name := range []string{"settle_time", "path_length", "control_effort", "drive_rms_error", "turn_rms_error"} {
		if _, ok := values[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if got := values["control_effort"]; math.Abs(got-3) > 1e-9 {
		t.Errorf("control effort = %f, expected 3", got)
	}
}
