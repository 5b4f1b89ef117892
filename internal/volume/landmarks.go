package volume

import (
	"fmt"
	"maps"
)

// Landmark holds the weekly set thresholds for one muscle group.
// Invariant: 0 <= MEV <= MAV <= MRV.
type Landmark struct {
	MEV int `json:"mev" yaml:"mev"`
	MAV int `json:"mav" yaml:"mav"`
	MRV int `json:"mrv" yaml:"mrv"`
}

// Validate checks the ordering invariant.
func (l Landmark) Validate() error {
	if l.MEV < 0 {
		return fmt.Errorf("mev must be non-negative, got %d", l.MEV)
	}
	if l.MEV > l.MAV || l.MAV > l.MRV {
		return fmt.Errorf("landmarks must satisfy mev <= mav <= mrv, got %d/%d/%d", l.MEV, l.MAV, l.MRV)
	}
	return nil
}

// Landmarks maps each muscle group to its thresholds.
type Landmarks map[MuscleGroup]Landmark

var defaultLandmarks = Landmarks{
	Chest:      {MEV: 8, MAV: 14, MRV: 22},
	Lats:       {MEV: 10, MAV: 16, MRV: 26},
	Traps:      {MEV: 6, MAV: 12, MRV: 20},
	MidBack:    {MEV: 10, MAV: 16, MRV: 26},
	LowerBack:  {MEV: 6, MAV: 12, MRV: 20},
	FrontDelts: {MEV: 4, MAV: 8, MRV: 14},
	SideDelts:  {MEV: 8, MAV: 16, MRV: 26},
	RearDelts:  {MEV: 8, MAV: 14, MRV: 22},
	Biceps:     {MEV: 6, MAV: 12, MRV: 20},
	Triceps:    {MEV: 6, MAV: 12, MRV: 22},
	Forearms:   {MEV: 4, MAV: 8, MRV: 16},
	Brachialis: {MEV: 4, MAV: 8, MRV: 14},
	Quads:      {MEV: 8, MAV: 14, MRV: 24},
	Hamstrings: {MEV: 6, MAV: 12, MRV: 20},
	Glutes:     {MEV: 6, MAV: 12, MRV: 20},
	Calves:     {MEV: 8, MAV: 14, MRV: 22},
	Abs:        {MEV: 8, MAV: 16, MRV: 28},
	Core:       {MEV: 8, MAV: 16, MRV: 28},
	Obliques:   {MEV: 6, MAV: 12, MRV: 20},
	HipFlexors: {MEV: 4, MAV: 8, MRV: 14},
}

// DefaultLandmarks returns a copy of the built-in landmark table.
func DefaultLandmarks() Landmarks {
	return maps.Clone(defaultLandmarks)
}

// WithOverrides returns a copy of t with the given groups replaced.
// Every override is validated.
func (t Landmarks) WithOverrides(overrides map[string]Landmark) (Landmarks, error) {
	out := maps.Clone(t)
	for name, l := range overrides {
		m, err := ParseMuscleGroup(name)
		if err != nil {
			return nil, err
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		out[m] = l
	}
	return out, nil
}

// For returns the landmark for m.
func (t Landmarks) For(m MuscleGroup) (Landmark, bool) {
	l, ok := t[m]
	return l, ok
}
