package volume

import (
	"math"
	"sort"
	"time"
)

// PlannedGroup is one row of a program's volume analysis.
type PlannedGroup struct {
	MuscleGroup       MuscleGroup `json:"muscle_group"`
	PlannedWeeklySets int         `json:"planned_weekly_sets"`
	MEV               int         `json:"mev"`
	MAV               int         `json:"mav"`
	MRV               int         `json:"mrv"`
	Zone              Zone        `json:"zone"`
	Warning           *string     `json:"warning"`
}

// Analysis is the planned-volume breakdown of one program.
type Analysis struct {
	ProgramID      int64          `json:"program_id"`
	MesocyclePhase string         `json:"mesocycle_phase"`
	MesocycleWeek  int            `json:"mesocycle_week"`
	MuscleGroups   []PlannedGroup `json:"muscle_groups"`
	Warnings       []Warning      `json:"warnings"`
}

// Analyze classifies planned totals. Rows are sorted by muscle group;
// warnings list every group below MEV or above MRV.
func Analyze(planned Totals, lm Landmarks) ([]PlannedGroup, []Warning) {
	groups := make([]PlannedGroup, 0, len(planned))
	warnings := []Warning{}
	for _, m := range planned.Groups() {
		l, ok := lm.For(m)
		if !ok {
			continue
		}
		v := planned.Get(m)
		z := Classify(v, l)
		groups = append(groups, PlannedGroup{
			MuscleGroup:       m,
			PlannedWeeklySets: v,
			MEV:               l.MEV,
			MAV:               l.MAV,
			MRV:               l.MRV,
			Zone:              z,
			Warning:           ZoneMessage(m, z),
		})
		if w := Check(m, v, l); w != nil {
			warnings = append(warnings, *w)
		}
	}
	return groups, warnings
}

// GroupProgress is one row of the current-week report.
type GroupProgress struct {
	MuscleGroup          MuscleGroup `json:"muscle_group"`
	CompletedSets        int         `json:"completed_sets"`
	PlannedSets          int         `json:"planned_sets"`
	RemainingSets        int         `json:"remaining_sets"`
	MEV                  int         `json:"mev"`
	MAV                  int         `json:"mav"`
	MRV                  int         `json:"mrv"`
	CompletionPercentage float64     `json:"completion_percentage"`
	Zone                 Zone        `json:"zone"`
	Warning              *string     `json:"warning"`
}

// WeekReport is the in-week progress snapshot.
type WeekReport struct {
	WeekStart    string          `json:"week_start"`
	WeekEnd      string          `json:"week_end"`
	MuscleGroups []GroupProgress `json:"muscle_groups"`
}

// Progress merges completed and planned totals for a week. Any group present
// in either map gets a row.
func Progress(w Week, completed, planned Totals, lm Landmarks) WeekReport {
	union := completed.Clone()
	for m := range planned {
		if _, ok := union[m]; !ok {
			union[m] = 0
		}
	}

	rows := make([]GroupProgress, 0, len(union))
	for _, m := range union.Groups() {
		l, ok := lm.For(m)
		if !ok {
			continue
		}
		c, p := completed.Get(m), planned.Get(m)
		var pct float64
		if p > 0 {
			pct = math.Round(float64(c)/float64(p)*1000) / 10
		}
		z := ClassifyProgress(c, p, l)
		rows = append(rows, GroupProgress{
			MuscleGroup:          m,
			CompletedSets:        c,
			PlannedSets:          p,
			RemainingSets:        max(0, p-c),
			MEV:                  l.MEV,
			MAV:                  l.MAV,
			MRV:                  l.MRV,
			CompletionPercentage: pct,
			Zone:                 z,
			Warning:              ZoneMessage(m, z),
		})
	}
	return WeekReport{
		WeekStart:    w.Start.Format(time.DateOnly),
		WeekEnd:      w.LastDay().Format(time.DateOnly),
		MuscleGroups: rows,
	}
}

// HistoricalGroup is one muscle group's completed volume in a past week.
type HistoricalGroup struct {
	MuscleGroup   MuscleGroup `json:"muscle_group"`
	CompletedSets int         `json:"completed_sets"`
	MEV           int         `json:"mev"`
	MAV           int         `json:"mav"`
	MRV           int         `json:"mrv"`
}

// WeekVolume groups historical volume by ISO week.
type WeekVolume struct {
	WeekStart    string            `json:"week_start"`
	MuscleGroups []HistoricalGroup `json:"muscle_groups"`
}

// Trends buckets completed sets into ISO weeks, oldest week first. When
// filter is non-empty only that group is reported.
func Trends(sets []CompletedSet, filter MuscleGroup, lm Landmarks) []WeekVolume {
	byWeek := map[time.Time]Totals{}
	for _, s := range sets {
		start := ISOWeek(s.WorkoutDate).Start
		t, ok := byWeek[start]
		if !ok {
			t = Totals{}
			byWeek[start] = t
		}
		if filter != "" {
			for _, m := range s.MuscleGroups {
				if m == filter {
					t.Add([]MuscleGroup{m}, 1)
				}
			}
			continue
		}
		t.Add(s.MuscleGroups, 1)
	}

	starts := make([]time.Time, 0, len(byWeek))
	for start := range byWeek {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	out := make([]WeekVolume, 0, len(starts))
	for _, start := range starts {
		t := byWeek[start]
		wv := WeekVolume{WeekStart: start.Format(time.DateOnly), MuscleGroups: []HistoricalGroup{}}
		for _, m := range t.Groups() {
			l := lm[m]
			wv.MuscleGroups = append(wv.MuscleGroups, HistoricalGroup{
				MuscleGroup:   m,
				CompletedSets: t.Get(m),
				MEV:           l.MEV,
				MAV:           l.MAV,
				MRV:           l.MRV,
			})
		}
		if len(wv.MuscleGroups) > 0 {
			out = append(out, wv)
		}
	}
	return out
}
