package grading

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Grouping keys shared by every exam variant.
const (
	MidtermKey = "UTS"
	FinalKey   = "UAS"
)

// Sort ranks for keys that carry no quiz number. Exam ranks sit above any
// quiz number so numbered quizzes always precede the midterm.
const (
	rankUnnumbered = 500
	rankMidterm    = math.MaxInt - 1
	rankFinal      = math.MaxInt
)

const (
	quizMarker     = "Online Quiz"
	quizShortForm  = "Q"
	labelMaxLength = 15
)

// Category is the assessment family a quiz name belongs to.
type Category int

const (
	CategoryOther Category = iota
	CategoryMidterm
	CategoryFinal
	CategoryQuiz
)

func (c Category) String() string {
	switch c {
	case CategoryMidterm:
		return "midterm"
	case CategoryFinal:
		return "final"
	case CategoryQuiz:
		return "quiz"
	default:
		return "other"
	}
}

// Rule maps any of its markers, matched as substrings, to a category.
type Rule struct {
	Category Category
	Markers  []string
}

// Matches reports whether the name contains one of the rule markers.
func (r Rule) Matches(name string) bool {
	for _, marker := range r.Markers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// Rules is evaluated top to bottom; the first match wins.
var Rules = []Rule{
	{Category: CategoryMidterm, Markers: []string{"Midterm", MidtermKey}},
	{Category: CategoryFinal, Markers: []string{"Final", FinalKey}},
	{Category: CategoryQuiz, Markers: []string{quizMarker}},
}

var (
	annotationPattern = regexp.MustCompile(`\s*\([^()]*\)`)
	integerPattern    = regexp.MustCompile(`\d+`)
)

// Topic is everything derived from a raw assessment name.
type Topic struct {
	Category Category
	Key      string
	Label    string
	Subject  string
}

// ResolveTopic derives the grouping key, display label and free-text topic.
func ResolveTopic(name string) Topic {
	category := Classify(name)
	key := groupingKey(name, category)
	return Topic{
		Category: category,
		Key:      key,
		Label:    DisplayLabel(key),
		Subject:  ExtractTopic(name),
	}
}

// Classify returns the category of the first matching rule.
func Classify(name string) Category {
	for _, rule := range Rules {
		if rule.Matches(name) {
			return rule.Category
		}
	}
	return CategoryOther
}

// GroupingKey returns the key that merges retake and remedial variants.
func GroupingKey(name string) string {
	return groupingKey(name, Classify(name))
}

func groupingKey(name string, category Category) string {
	switch category {
	case CategoryMidterm:
		return MidtermKey
	case CategoryFinal:
		return FinalKey
	case CategoryQuiz:
		return stripQuizAnnotations(name)
	default:
		return strings.TrimSpace(name)
	}
}

// stripQuizAnnotations drops "(Remedial)" style groups so retakes share the
// key of the original quiz. An unclosed parenthesis ends the name.
func stripQuizAnnotations(name string) string {
	cleaned := annotationPattern.ReplaceAllString(name, "")
	if idx := strings.Index(cleaned, "("); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	return strings.TrimSpace(cleaned)
}

// DisplayLabel shortens a grouping key for chart axes.
func DisplayLabel(key string) string {
	if key == MidtermKey || key == FinalKey {
		return key
	}

	if strings.Contains(key, quizMarker) {
		short := strings.Replace(key, quizMarker+" ", quizShortForm, 1)
		short = strings.Replace(short, quizMarker, quizShortForm, 1)
		parts := strings.Split(short, ":")
		prefix := strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			return prefix + ": " + truncate(strings.TrimSpace(parts[1]), labelMaxLength)
		}
		return prefix
	}

	return truncate(key, labelMaxLength)
}

// ExtractTopic returns the subject matter of an assessment: the text after
// the first colon when present, otherwise the whole name.
func ExtractTopic(name string) string {
	if _, after, found := strings.Cut(name, ":"); found {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(name)
}

// StripAnnotations removes every parenthesized group and collapses whitespace.
func StripAnnotations(text string) string {
	cleaned := text
	for {
		next := annotationPattern.ReplaceAllString(cleaned, " ")
		if next == cleaned {
			break
		}
		cleaned = next
	}
	return strings.Join(strings.Fields(cleaned), " ")
}

// SortRank orders keys as numbered quizzes, then the midterm, then the final.
func SortRank(key string) int {
	switch strings.ToLower(key) {
	case strings.ToLower(MidtermKey):
		return rankMidterm
	case strings.ToLower(FinalKey):
		return rankFinal
	}

	if match := integerPattern.FindString(key); match != "" {
		if n, err := strconv.Atoi(match); err == nil {
			return min(n, rankMidterm-1)
		}
		return rankMidterm - 1
	}
	return rankUnnumbered
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
