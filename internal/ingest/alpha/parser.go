// Package alpha reads Alpha Progression CSV exports.
package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claude/fitflow/internal/ingest"
	"github.com/claude/fitflow/internal/models"
)

var (
	// "Session Name";"2026-02-19 4:54 h";"1:02 hr"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// "1. Exercise Name · Equipment · 8 reps[· modifiers]"[;"warmup info"]
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// 1;115;8;1
	setRowRe = regexp.MustCompile(`^(\d+);(.+);(\d+);(.+)$`)

	durationRe = regexp.MustCompile(`^(\d+):(\d{2})\s*hr?$`)
	minutesRe  = regexp.MustCompile(`^(\d+)\s*min$`)

	// WU1 · 37,5 kg · 9 reps
	warmupRe = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)
)

const columnHeader = "#;KG;REPS;RIR"

var sessionLayouts = []string{"2006-01-02 15:04", "2006-01-02 3:04"}

// Parse reads an export into sessions. Sessions are separated by blank
// lines or by the next session header. Unrecognized lines are ignored.
func Parse(r io.Reader) ([]models.ImportedSession, error) {
	var p parser
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		if err := p.line(strings.TrimSpace(sc.Text())); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ingest.ErrMalformed, n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	p.endSession()
	return p.sessions, nil
}

type parser struct {
	sessions []models.ImportedSession
	session  *models.ImportedSession
	exercise *models.ImportedExercise
}

func (p *parser) line(l string) error {
	switch {
	case l == "":
		p.endSession()
	case l == columnHeader:
	case sessionHeaderRe.MatchString(l):
		return p.startSession(sessionHeaderRe.FindStringSubmatch(l))
	case exerciseHeaderRe.MatchString(l):
		return p.startExercise(exerciseHeaderRe.FindStringSubmatch(l))
	case setRowRe.MatchString(l):
		return p.addSet(setRowRe.FindStringSubmatch(l))
	}
	return nil
}

func (p *parser) startSession(m []string) error {
	p.endSession()
	started, err := parseStart(m[2])
	if err != nil {
		return err
	}
	p.session = &models.ImportedSession{Name: m[1], StartedAt: started, Duration: parseDuration(m[3])}
	return nil
}

func (p *parser) startExercise(m []string) error {
	if p.session == nil {
		return fmt.Errorf("exercise %q outside a session", m[2])
	}
	p.endExercise()
	num, _ := strconv.Atoi(m[1])
	target, _ := strconv.Atoi(m[4])
	p.exercise = &models.ImportedExercise{
		Number:     num,
		Name:       strings.TrimSpace(m[2]),
		Equipment:  strings.TrimSpace(m[3]),
		TargetReps: target,
		Sets:       parseWarmups(m[6]),
	}
	return nil
}

func (p *parser) addSet(m []string) error {
	if p.exercise == nil {
		return fmt.Errorf("set row %q outside an exercise", m[0])
	}
	num, _ := strconv.Atoi(m[1])
	weight, bw := parseWeight(m[2])
	reps, _ := strconv.Atoi(m[3])
	p.exercise.Sets = append(p.exercise.Sets, models.ImportedSet{
		Number:           num,
		WeightKg:         weight,
		IsBodyweightPlus: bw,
		Reps:             reps,
		RIR:              parseEuropeanFloat(m[4]),
	})
	return nil
}

func (p *parser) endExercise() {
	if p.exercise != nil && p.session != nil {
		p.session.Exercises = append(p.session.Exercises, *p.exercise)
	}
	p.exercise = nil
}

func (p *parser) endSession() {
	p.endExercise()
	if p.session != nil {
		p.sessions = append(p.sessions, *p.session)
	}
	p.session = nil
}

// parseStart reads "2026-02-19 4:54". The export carries no zone.
func parseStart(s string) (time.Time, error) {
	for _, layout := range sessionLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse session start %q", s)
}

// parseDuration reads "1:02 hr" or "45 min". Anything else is zero.
func parseDuration(s string) time.Duration {
	if m := durationRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute
	}
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		return time.Duration(mins) * time.Minute
	}
	return 0
}

// parseWarmups reads "WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps".
func parseWarmups(s string) []models.ImportedSet {
	var sets []models.ImportedSet
	for _, part := range strings.Split(s, "<br>") {
		m := warmupRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		weight, bw := parseWeight(m[2])
		reps, _ := strconv.Atoi(m[3])
		sets = append(sets, models.ImportedSet{
			Number:           num,
			WeightKg:         weight,
			IsBodyweightPlus: bw,
			Reps:             reps,
			IsWarmup:         true,
		})
	}
	return sets
}

// parseWeight handles decimal commas and bodyweight-plus notation:
// "+35" is (35, true), "102,5" is (102.5, false).
func parseWeight(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		return parseEuropeanFloat(rest), true
	}
	return parseEuropeanFloat(s), false
}

func parseEuropeanFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	return f
}
