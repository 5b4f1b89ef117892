package volume

import "fmt"

// Zone labels a weekly volume relative to its landmarks.
type Zone string

const (
	ZoneBelowMEV Zone = "below_mev"
	ZoneAdequate Zone = "adequate"
	ZoneOptimal  Zone = "optimal"
	ZoneAboveMRV Zone = "above_mrv"
	// ZoneOnTrack is only produced by ClassifyProgress.
	ZoneOnTrack Zone = "on_track"
)

// Classify maps a set count to its zone:
//
//	below_mev  v <  mev
//	adequate   mev <= v < mav
//	optimal    mav <= v <= mrv
//	above_mrv  v >  mrv
func Classify(v int, l Landmark) Zone {
	switch {
	case v < l.MEV:
		return ZoneBelowMEV
	case v < l.MAV:
		return ZoneAdequate
	case v <= l.MRV:
		return ZoneOptimal
	default:
		return ZoneAboveMRV
	}
}

// ClassifyProgress is the in-week variant: when the plan sits between MEV
// and MRV and at least half of it is done, the group is on track. Otherwise
// the completed number is classified as usual.
func ClassifyProgress(completed, planned int, l Landmark) Zone {
	if planned >= l.MEV && planned <= l.MRV && completed*2 >= planned {
		return ZoneOnTrack
	}
	return Classify(completed, l)
}

// Issue is the kind of landmark crossing a warning reports.
type Issue string

const (
	IssueBelowMEV Issue = "below_mev"
	IssueAboveMRV Issue = "above_mrv"
)

// Warning describes one muscle group outside its recoverable range.
type Warning struct {
	MuscleGroup   MuscleGroup `json:"muscle_group"`
	Issue         Issue       `json:"issue"`
	CurrentVolume int         `json:"current_volume"`
	Threshold     int         `json:"threshold"`
}

// Check returns a warning when v is below MEV or above MRV.
func Check(m MuscleGroup, v int, l Landmark) *Warning {
	switch Classify(v, l) {
	case ZoneBelowMEV:
		return &Warning{MuscleGroup: m, Issue: IssueBelowMEV, CurrentVolume: v, Threshold: l.MEV}
	case ZoneAboveMRV:
		return &Warning{MuscleGroup: m, Issue: IssueAboveMRV, CurrentVolume: v, Threshold: l.MRV}
	}
	return nil
}

// Detail renders the crossing as "exceed MRV for chest (26 > 22)" or
// "drop below MEV for chest (6 < 8)".
func (w Warning) Detail() string {
	if w.Issue == IssueAboveMRV {
		return fmt.Sprintf("exceed MRV for %s (%d > %d)", w.MuscleGroup, w.CurrentVolume, w.Threshold)
	}
	return fmt.Sprintf("drop below MEV for %s (%d < %d)", w.MuscleGroup, w.CurrentVolume, w.Threshold)
}

// ZoneMessage is the advisory text shown next to a classified group.
func ZoneMessage(m MuscleGroup, z Zone) *string {
	var msg string
	switch z {
	case ZoneBelowMEV:
		msg = fmt.Sprintf("%s volume is below minimum effective volume (MEV). Increase sets for growth.", m)
	case ZoneAboveMRV:
		msg = fmt.Sprintf("%s volume exceeds maximum recoverable volume (MRV). Risk of overtraining.", m)
	default:
		return nil
	}
	return &msg
}
