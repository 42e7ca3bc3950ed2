package odometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/diffdrive/internal/hal"
)

// ErrInvalidGeometry reports a physical parameter that would make travel or
// heading undefined.
var ErrInvalidGeometry = errors.New("odometry: invalid geometry")

// TrackingWheel turns encoder degrees into linear travel.
type TrackingWheel struct {
	enc      hal.Encoder
	diameter float64
	gearing  float64
}

func NewTrackingWheel(enc hal.Encoder, diameter, gearing float64) (*TrackingWheel, error) {
	if err := validateWheel(diameter, gearing); err != nil {
		return nil, err
	}
	return &TrackingWheel{enc: enc, diameter: diameter, gearing: gearing}, nil
}

func validateWheel(diameter, gearing float64) error {
	if diameter <= 0 {
		return fmt.Errorf("%w: wheel diameter must be positive, got %f", ErrInvalidGeometry, diameter)
	}
	if gearing == 0 {
		return fmt.Errorf("%w: gearing cannot be 0", ErrInvalidGeometry)
	}
	return nil
}

// Travel returns distance rolled since the last reset.
func (w *TrackingWheel) Travel() float64 {
	return (w.enc.Rotation() / 360) * w.gearing * math.Pi * w.diameter
}

func (w *TrackingWheel) Reset() { w.enc.ResetRotation() }

func (w *TrackingWheel) Diameter() float64 { return w.diameter }

func (w *TrackingWheel) Gearing() float64 { return w.gearing }

func (w *TrackingWheel) SetDiameter(d float64) error {
	if err := validateWheel(d, w.gearing); err != nil {
		return err
	}
	w.diameter = d
	return nil
}

func (w *TrackingWheel) SetGearing(g float64) error {
	if err := validateWheel(w.diameter, g); err != nil {
		return err
	}
	w.gearing = g
	return nil
}
