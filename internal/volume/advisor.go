package volume

import "strings"

// Mutation is the kind of program-exercise change being evaluated.
type Mutation string

const (
	MutationAdd    Mutation = "add"
	MutationUpdate Mutation = "update"
	MutationDelete Mutation = "delete"
)

// Impact is the input to Advise: the program's weekly totals before the
// change, the groups tagged by the affected exercise, and the signed set delta.
type Impact struct {
	Mutation Mutation
	Before   Totals
	Groups   []MuscleGroup
	Delta    int
}

// Advise projects the totals after the change and returns one warning per
// crossed group, in the exercise's tag order. Add and update only warn
// above MRV; delete only warns below MEV. Groups without a landmark are skipped.
func Advise(in Impact, lm Landmarks) []Warning {
	after := in.Before.Clone()
	after.Add(in.Groups, in.Delta)

	var out []Warning
	seen := map[MuscleGroup]bool{}
	for _, m := range in.Groups {
		if seen[m] {
			continue
		}
		seen[m] = true
		l, ok := lm.For(m)
		if !ok {
			continue
		}
		w := Check(m, after.Get(m), l)
		if w == nil {
			continue
		}
		if in.Mutation == MutationDelete && w.Issue != IssueBelowMEV {
			continue
		}
		if in.Mutation != MutationDelete && w.Issue != IssueAboveMRV {
			continue
		}
		out = append(out, *w)
	}
	return out
}

// FormatWarnings joins advisor warnings into the message returned to callers,
// or nil when there are none.
func FormatWarnings(m Mutation, ws []Warning) *string {
	if len(ws) == 0 {
		return nil
	}
	var prefix string
	switch m {
	case MutationAdd, MutationUpdate:
		prefix = "Adding this exercise will "
	case MutationDelete:
		prefix = "Removing this exercise will "
	}
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = prefix + w.Detail()
	}
	s := strings.Join(parts, "; ")
	return &s
}
