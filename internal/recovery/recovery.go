// Package recovery turns the daily three-question check-in into a volume
// adjustment for the day's workout.
package recovery

import (
	"errors"
	"fmt"
)

// ErrAnswerOutOfRange is returned when an answer is outside [MinAnswer, MaxAnswer].
var ErrAnswerOutOfRange = errors.New("recovery answer out of range")

const (
	MinAnswer = 1
	MaxAnswer = 5

	// MinAdjustedSets is the floor applied when reducing sets.
	MinAdjustedSets = 1
)

// Directive is the adjustment applied to a day's planned volume.
type Directive string

const (
	None        Directive = "none"
	Reduce1Set  Directive = "reduce_1_set"
	Reduce2Sets Directive = "reduce_2_sets"
	RestDay     Directive = "rest_day"
)

// Answers are the three 1-5 self-ratings.
type Answers struct {
	SleepQuality     int `json:"sleep_quality"`
	MuscleSoreness   int `json:"muscle_soreness"`
	MentalMotivation int `json:"mental_motivation"`
}

// Validate checks every answer is within range.
func (a Answers) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"sleep_quality", a.SleepQuality},
		{"muscle_soreness", a.MuscleSoreness},
		{"mental_motivation", a.MentalMotivation},
	} {
		if f.v < MinAnswer || f.v > MaxAnswer {
			return fmt.Errorf("%w: %s must be between %d and %d, got %d",
				ErrAnswerOutOfRange, f.name, MinAnswer, MaxAnswer, f.v)
		}
	}
	return nil
}

// Score is the sum of the three answers, 3..15 for valid input.
func (a Answers) Score() int {
	return a.SleepQuality + a.MuscleSoreness + a.MentalMotivation
}

// Classify maps a total score to its directive:
//
//	12-15 none, 9-11 reduce_1_set, 6-8 reduce_2_sets, 3-5 rest_day
func Classify(score int) Directive {
	switch {
	case score >= 12:
		return None
	case score >= 9:
		return Reduce1Set
	case score >= 6:
		return Reduce2Sets
	default:
		return RestDay
	}
}

// Evaluation is the result of scoring a check-in.
type Evaluation struct {
	TotalScore int       `json:"total_score"`
	Directive  Directive `json:"adjustment_directive"`
}

// Evaluate validates and scores a check-in.
func Evaluate(a Answers) (Evaluation, error) {
	if err := a.Validate(); err != nil {
		return Evaluation{}, err
	}
	s := a.Score()
	return Evaluation{TotalScore: s, Directive: Classify(s)}, nil
}

// Reduction returns how many sets the directive removes per exercise.
func (d Directive) Reduction() int {
	switch d {
	case Reduce1Set:
		return 1
	case Reduce2Sets:
		return 2
	}
	return 0
}

// AdjustSets applies d to one exercise's planned sets. Reductions stop at
// MinAdjustedSets; a rest day drops the exercise to zero.
func AdjustSets(planned int, d Directive) int {
	if d == RestDay {
		return 0
	}
	if r := d.Reduction(); r > 0 {
		return max(planned-r, MinAdjustedSets)
	}
	return planned
}
