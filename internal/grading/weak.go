package grading

import (
	"fmt"
	"sort"
)

// DefaultWeakTopicLimit is how many remediation targets a student receives.
const DefaultWeakTopicLimit = 2

// WeakTopic is a low-scoring, attempted topic selected for remediation.
type WeakTopic struct {
	CourseKey    string  `json:"course_key,omitempty"`
	Course       string  `json:"course"`
	Topic        string  `json:"topic"`
	Score        float64 `json:"score"`
	SearchPhrase string  `json:"search_query"`
}

// FallbackWeakTopic is returned when a student has no attempted, non-zero grade.
func FallbackWeakTopic() WeakTopic {
	return WeakTopic{
		Course:       "Umum",
		Topic:        "Materi Dasar",
		Score:        0,
		SearchPhrase: "Materi Dasar Informatika",
	}
}

// SearchPhrase combines a clean course name with a topic stripped of annotations.
func SearchPhrase(course, topic string) string {
	return fmt.Sprintf("%s materi %s", course, StripAnnotations(topic))
}

// SelectWeakTopics returns up to limit of the lowest capped grades. Absent,
// malformed and zero grades are never selected; equal scores keep input order.
func SelectWeakTopics(grades []NormalizedGrade, limit int) []WeakTopic {
	if limit <= 0 {
		limit = DefaultWeakTopicLimit
	}

	candidates := make([]NormalizedGrade, 0, len(grades))
	for _, grade := range grades {
		if value, ok := grade.Grade.Capped(); ok && value > 0 {
			candidates = append(candidates, grade)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		left, _ := candidates[i].Grade.Capped()
		right, _ := candidates[j].Grade.Capped()
		return left < right
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	weak := make([]WeakTopic, 0, len(candidates))
	for _, grade := range candidates {
		weak = append(weak, WeakTopic{
			CourseKey:    grade.CourseKey,
			Course:       grade.CourseName,
			Topic:        grade.Topic.Subject,
			Score:        grade.Grade.Display(),
			SearchPhrase: SearchPhrase(grade.CourseName, grade.Topic.Subject),
		})
	}
	return weak
}

// WeakTopicsOrFallback is SelectWeakTopics with the generic fallback for empty results.
func WeakTopicsOrFallback(grades []NormalizedGrade, limit int) []WeakTopic {
	weak := SelectWeakTopics(grades, limit)
	if len(weak) == 0 {
		return []WeakTopic{FallbackWeakTopic()}
	}
	return weak
}
