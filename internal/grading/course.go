package grading

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// courseSuffixDelimiter introduces the section and lecturer code in course titles.
const courseSuffixDelimiter = "IF-"

// CleanCourseName strips the administrative suffix from a course title, e.g.
// "MATEMATIKA DISKRIT IF-48-01 [DTO]" becomes "Matematika Diskrit".
func CleanCourseName(raw string) string {
	subject := strings.TrimSpace(raw)
	if before, _, found := strings.Cut(subject, courseSuffixDelimiter); found {
		if trimmed := strings.TrimSpace(before); trimmed != "" {
			subject = trimmed
		}
	}
	return titleCase(subject)
}

func titleCase(text string) string {
	// cases.Caser is stateful, so build one per call.
	return cases.Title(language.Indonesian).String(strings.ToLower(text))
}
