// Package mesocycle implements the MEV -> MAV -> MRV -> deload phase cycle
// and the per-exercise volume rescale applied on each transition.
package mesocycle

import (
	"errors"
	"fmt"
)

// ErrInvalidPhase is returned for phase names outside the four known phases.
var ErrInvalidPhase = errors.New("invalid mesocycle phase")

// Phase is a mesocycle phase.
type Phase string

const (
	MEV    Phase = "mev"
	MAV    Phase = "mav"
	MRV    Phase = "mrv"
	Deload Phase = "deload"
)

// ParsePhase validates a phase name.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhase, s)
	}
	return p, nil
}

// Valid reports whether p is one of the four phases.
func (p Phase) Valid() bool {
	switch p {
	case MEV, MAV, MRV, Deload:
		return true
	}
	return false
}

// Next returns the phase that follows p in the automatic cycle.
func (p Phase) Next() Phase {
	switch p {
	case MEV:
		return MAV
	case MAV:
		return MRV
	case MRV:
		return Deload
	default:
		return MEV
	}
}

// Percent is a volume multiplier expressed in hundredths (120 = 1.20x).
// Rescaling with integer hundredths keeps round-half-up exact.
type Percent int

// Unchanged is the identity multiplier.
const Unchanged Percent = 100

// Float returns the multiplier as a float, e.g. 1.15.
func (p Percent) Float() float64 { return float64(p) / 100 }

// MultiplierFor returns the rescale factor for moving from one phase to another.
// It is defined for every pair:
//
//	-> deload  0.50
//	-> mev     2.00
//	-> mav     1.20
//	-> mrv     1.15
//	same phase 1.00
//
// The four automatic transitions are the rows of the cycle table; manual
// jumps reuse the multiplier of the target phase's row.
func MultiplierFor(from, to Phase) Percent {
	if from == to {
		return Unchanged
	}
	switch to {
	case Deload:
		return 50
	case MEV:
		return 200
	case MAV:
		return 120
	case MRV:
		return 115
	}
	return Unchanged
}

// Rescale applies m to a set count, rounding half up, never below one set.
func Rescale(sets int, m Percent) int {
	n := (sets*int(m) + 50) / 100
	return max(n, 1)
}
