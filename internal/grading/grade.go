package grading

import (
	"math"
	"strconv"
	"strings"
)

// ScaleMax is the ceiling of the grading scale.
const ScaleMax = 100.0

// GradeStatus tells a recorded grade apart from a missing or unreadable one.
type GradeStatus int

const (
	// GradeAbsent means no attempt was recorded.
	GradeAbsent GradeStatus = iota
	// GradePresent means the raw field parsed into a number.
	GradePresent
	// GradeMalformed means the raw field held text that is not a number.
	GradeMalformed
)

func (s GradeStatus) String() string {
	switch s {
	case GradePresent:
		return "present"
	case GradeMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

// Grade is the typed result of parsing a raw grade field. Value holds the
// uncapped magnitude and is only meaningful when Status is GradePresent.
type Grade struct {
	Value  float64
	Status GradeStatus
	Raw    string
}

// Present builds a recorded grade.
func Present(value float64) Grade {
	return Grade{Value: value, Status: GradePresent, Raw: strconv.FormatFloat(value, 'f', -1, 64)}
}

// Absent builds a grade with no recorded attempt.
func Absent() Grade {
	return Grade{Status: GradeAbsent}
}

// ParseGrade reads a raw grade field. Either '.' or ',' is accepted as the
// decimal separator. Empty input is absent; anything unparseable is malformed.
func ParseGrade(raw string) Grade {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") || strings.EqualFold(trimmed, "null") {
		return Grade{Status: GradeAbsent, Raw: raw}
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return Grade{Status: GradeMalformed, Raw: raw}
	}

	return Grade{Value: value, Status: GradePresent, Raw: raw}
}

// IsPresent reports whether the grade carries a usable number.
func (g Grade) IsPresent() bool {
	return g.Status == GradePresent
}

// Capped returns the value clamped to the scale, or false when there is no value.
func (g Grade) Capped() (float64, bool) {
	if !g.IsPresent() {
		return 0, false
	}
	return Cap(g.Value), true
}

// Display is the presentation form: capped, one decimal, and zero for
// absent or malformed grades.
func (g Grade) Display() float64 {
	value, ok := g.Capped()
	if !ok {
		return 0
	}
	return Round1(value)
}

// ExceedsScale reports a recorded value above the scale ceiling.
func (g Grade) ExceedsScale() bool {
	return g.IsPresent() && g.Value > ScaleMax
}

// Cap clamps a score into [0, ScaleMax].
func Cap(value float64) float64 {
	switch {
	case math.IsNaN(value):
		return 0
	case value > ScaleMax:
		return ScaleMax
	case value < 0:
		return 0
	default:
		return value
	}
}

// Round1 rounds half away from zero to one decimal place.
func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// Round2 rounds half away from zero to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Percentage expresses score as a share of the declared maximum. It returns
// false when the maximum is missing or not positive.
func Percentage(score float64, max *float64) (float64, bool) {
	if max == nil || *max <= 0 || math.IsNaN(*max) {
		return 0, false
	}
	return score / *max * 100, true
}
