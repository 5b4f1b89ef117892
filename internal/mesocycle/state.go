package mesocycle

import (
	"errors"
	"fmt"
)

// State is a program's position in the mesocycle.
type State struct {
	Phase Phase
	Week  int
}

// Transition describes one phase change.
type Transition struct {
	From       Phase
	To         Phase
	Multiplier Percent
}

// Advance computes the next state. A nil target follows the automatic cycle;
// a non-nil target jumps straight to that phase. The week always moves
// forward by one.
func Advance(cur State, target *Phase) (State, Transition, error) {
	if !cur.Phase.Valid() {
		return State{}, Transition{}, fmt.Errorf("current phase: %w: %q", ErrInvalidPhase, cur.Phase)
	}
	to := cur.Phase.Next()
	if target != nil {
		if !target.Valid() {
			return State{}, Transition{}, fmt.Errorf("target phase: %w: %q", ErrInvalidPhase, *target)
		}
		to = *target
	}
	week := cur.Week
	if week < 1 {
		week = 1
	}
	tr := Transition{From: cur.Phase, To: to, Multiplier: MultiplierFor(cur.Phase, to)}
	return State{Phase: to, Week: week + 1}, tr, nil
}

// ErrNoTarget is returned when a manual advance names no target phase.
var ErrNoTarget = errors.New("target_phase is required when manual=true")

// Request is the caller-facing form of an advance: manual mode requires a
// target, automatic mode ignores it.
type Request struct {
	Manual      bool
	TargetPhase string
}

// Target resolves the request into the optional target phase for Advance.
func (r Request) Target() (*Phase, error) {
	if r.TargetPhase != "" {
		p, err := ParsePhase(r.TargetPhase)
		if err != nil {
			return nil, err
		}
		if r.Manual {
			return &p, nil
		}
		return nil, nil
	}
	if r.Manual {
		return nil, ErrNoTarget
	}
	return nil, nil
}

// SetCount is one program exercise's current set count.
type SetCount struct {
	ID   int64
	Sets int
}

// RescaleAll rescales each row on its own. Rounding is never applied to a
// pre-summed total.
func RescaleAll(rows []SetCount, m Percent) []SetCount {
	out := make([]SetCount, len(rows))
	for i, r := range rows {
		out[i] = SetCount{ID: r.ID, Sets: Rescale(r.Sets, m)}
	}
	return out
}
