package volume

import (
	"slices"
	"time"
)

// Entry is one contribution to weekly volume: a planned exercise with its
// set count, or a single logged set (Sets = 1).
type Entry struct {
	MuscleGroups []MuscleGroup
	Sets         int
}

// Totals maps muscle groups to summed sets. Missing groups read as 0.
type Totals map[MuscleGroup]int

// Aggregate sums entries per muscle group. Each entry contributes its full
// set count to every group it tags; sets are never split between groups.
func Aggregate(entries []Entry) Totals {
	t := Totals{}
	for _, e := range entries {
		t.Add(e.MuscleGroups, e.Sets)
	}
	return t
}

// Add applies delta to every listed group once, even if the list repeats a group.
func (t Totals) Add(groups []MuscleGroup, delta int) {
	seen := make([]MuscleGroup, 0, len(groups))
	for _, m := range groups {
		if slices.Contains(seen, m) {
			continue
		}
		seen = append(seen, m)
		t[m] += delta
	}
}

// Get returns the total for m, 0 when absent.
func (t Totals) Get(m MuscleGroup) int {
	return t[m]
}

// Groups returns the groups present in t sorted by name.
func (t Totals) Groups() []MuscleGroup {
	out := make([]MuscleGroup, 0, len(t))
	for m := range t {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of t.
func (t Totals) Clone() Totals {
	out := make(Totals, len(t))
	for m, v := range t {
		out[m] = v
	}
	return out
}

// Week is a half-open [Start, End) window covering one ISO week.
type Week struct {
	Start time.Time
	End   time.Time
}

// ISOWeek returns the Monday-to-Sunday week containing t, in t's location.
func ISOWeek(t time.Time) Week {
	y, mo, d := t.Date()
	day := time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return Week{Start: start, End: start.AddDate(0, 0, 7)}
}

// Contains reports whether t falls inside the week.
func (w Week) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// LastDay returns the Sunday of the week.
func (w Week) LastDay() time.Time {
	return w.End.AddDate(0, 0, -1)
}

// CompletedSet is one logged working set with the date of its workout.
type CompletedSet struct {
	WorkoutDate  time.Time
	MuscleGroups []MuscleGroup
}

// AggregateCompleted counts logged sets whose workout date falls inside w.
// Every set row counts, including repeated sets of one exercise.
func AggregateCompleted(sets []CompletedSet, w Week) Totals {
	t := Totals{}
	for _, s := range sets {
		if !w.Contains(s.WorkoutDate) {
			continue
		}
		t.Add(s.MuscleGroups, 1)
	}
	return t
}
