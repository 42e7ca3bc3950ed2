package control

// DefaultSettleCycles is ~50ms at the 10ms tracking period.
const DefaultSettleCycles = 5

// Settler counts consecutive in-tolerance cycles. Once the count reaches
// Required the settled flag latches until Clear.
type Settler struct {
	required int
	count    int
	settled  bool
}

func NewSettler(required int) *Settler {
	if required <= 0 {
		required = DefaultSettleCycles
	}
	return &Settler{required: required}
}

// Observe records one cycle and reports whether this cycle settled.
func (s *Settler) Observe(within bool) bool {
	if within {
		s.count++
	} else {
		s.count = 0
	}

	if s.count >= s.required && !s.settled {
		s.settled = true
		s.count = 0
		return true
	}
	return false
}

func (s *Settler) Settled() bool { return s.settled }

func (s *Settler) Count() int { return s.count }

func (s *Settler) Required() int { return s.required }

// Clear re-arms the detector for a new movement.
func (s *Settler) Clear() {
	s.settled = false
	s.count = 0
}
