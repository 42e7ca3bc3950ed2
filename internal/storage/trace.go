package storage

import (
	"strconv"
	"sync"

	"github.com/san-kum/diffdrive/internal/drivetrain"
	"github.com/san-kum/diffdrive/internal/geom"
)

// TraceRow is one tracking cycle. True* hold the simulator's ground truth
// and equal the estimate on hardware.
type TraceRow struct {
	Time        float64 `json:"time"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Heading     float64 `json:"heading"`
	Forward     float64 `json:"forward"`
	TrueX       float64 `json:"true_x"`
	TrueY       float64 `json:"true_y"`
	TrueHeading float64 `json:"true_heading"`
	DriveError  float64 `json:"drive_error"`
	TurnError   float64 `json:"turn_error"`
	LeftVolts   float64 `json:"left_volts"`
	RightVolts  float64 `json:"right_volts"`
	Settled     bool    `json:"settled"`
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func (r TraceRow) record() []string {
	out := make([]string, 0, len(traceHeader))
	for _, v := range []float64{
		r.Time, r.X, r.Y, r.Heading, r.Forward,
		r.TrueX, r.TrueY, r.TrueHeading,
		r.DriveError, r.TurnError, r.LeftVolts, r.RightVolts,
	} {
		out = append(out, formatFloat(v))
	}
	return append(out, strconv.FormatBool(r.Settled))
}

// Recorder buffers samples into trace rows. It is a drivetrain.Observer.
type Recorder struct {
	mu    sync.Mutex
	truth func() geom.Pose
	rows  []TraceRow
}

// NewRecorder records ground truth from truth when it is non-nil.
func NewRecorder(truth func() geom.Pose) *Recorder {
	return &Recorder{truth: truth}
}

func (r *Recorder) OnCycle(s drivetrain.Sample) {
	truth := s.Pose
	if r.truth != nil {
		truth = r.truth()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, TraceRow{
		Time:        s.Elapsed.Seconds(),
		X:           s.Pose.Position.X,
		Y:           s.Pose.Position.Y,
		Heading:     s.Pose.Heading,
		Forward:     s.ForwardTravel,
		TrueX:       truth.Position.X,
		TrueY:       truth.Position.Y,
		TrueHeading: truth.Heading,
		DriveError:  s.DriveError,
		TurnError:   s.TurnError,
		LeftVolts:   s.LeftVolts,
		RightVolts:  s.RightVolts,
		Settled:     s.Settled,
	})
}

// Rows returns a copy of everything recorded so far.
func (r *Recorder) Rows() []TraceRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TraceRow(nil), r.rows...)
}

// Latest returns the newest row, if any.
func (r *Recorder) Latest() (TraceRow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rows) == 0 {
		return TraceRow{}, false
	}
	return r.rows[len(r.rows)-1], true
}

var _ drivetrain.Observer = (*Recorder)(nil)
