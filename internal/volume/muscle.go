// Package volume aggregates weekly training volume per muscle group and
// classifies it against MEV/MAV/MRV landmarks.
package volume

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownMuscleGroup is returned when a name is not part of the closed
// muscle-group set.
var ErrUnknownMuscleGroup = errors.New("unknown muscle group")

// MuscleGroup identifies a trained muscle. Values outside the constants below
// never enter the engine: they are rejected by ParseMuscleGroup.
type MuscleGroup string

const (
	Chest      MuscleGroup = "chest"
	Lats       MuscleGroup = "lats"
	Traps      MuscleGroup = "traps"
	MidBack    MuscleGroup = "mid_back"
	LowerBack  MuscleGroup = "lower_back"
	FrontDelts MuscleGroup = "front_delts"
	SideDelts  MuscleGroup = "side_delts"
	RearDelts  MuscleGroup = "rear_delts"
	Biceps     MuscleGroup = "biceps"
	Triceps    MuscleGroup = "triceps"
	Forearms   MuscleGroup = "forearms"
	Brachialis MuscleGroup = "brachialis"
	Quads      MuscleGroup = "quads"
	Hamstrings MuscleGroup = "hamstrings"
	Glutes     MuscleGroup = "glutes"
	Calves     MuscleGroup = "calves"
	Abs        MuscleGroup = "abs"
	Core       MuscleGroup = "core"
	Obliques   MuscleGroup = "obliques"
	HipFlexors MuscleGroup = "hip_flexors"
)

var allMuscleGroups = []MuscleGroup{
	Chest, Lats, Traps, MidBack, LowerBack,
	FrontDelts, SideDelts, RearDelts,
	Biceps, Triceps, Forearms, Brachialis,
	Quads, Hamstrings, Glutes, Calves,
	Abs, Core, Obliques, HipFlexors,
}

// MuscleGroups returns every known muscle group in a stable order.
func MuscleGroups() []MuscleGroup {
	return slices.Clone(allMuscleGroups)
}

// Valid reports whether m belongs to the known set.
func (m MuscleGroup) Valid() bool {
	return slices.Contains(allMuscleGroups, m)
}

func (m MuscleGroup) String() string { return string(m) }

// ParseMuscleGroup validates a muscle-group name. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	m := MuscleGroup(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMuscleGroup, s)
	}
	return m, nil
}

// ParseMuscleGroups validates a tag list. The result keeps the input order,
// drops duplicates, and is never empty on success.
func ParseMuscleGroups(names []string) ([]MuscleGroup, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one muscle group is required")
	}
	out := make([]MuscleGroup, 0, len(names))
	for _, n := range names {
		m, err := ParseMuscleGroup(n)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// SharesAny reports whether the two tag lists have at least one group in common.
func SharesAny(a, b []MuscleGroup) bool {
	for _, m := range a {
		if slices.Contains(b, m) {
			return true
		}
	}
	return false
}

// JoinGroups renders a tag list as "a, b, c".
func JoinGroups(groups []MuscleGroup) string {
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = string(g)
	}
	return strings.Join(parts, ", ")
}
