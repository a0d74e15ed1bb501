package grading

import (
	"sort"

	"github.com/riodino14/edupulse-backend/internal/models"
)

// NormalizedGrade is a raw record after field and label normalization.
type NormalizedGrade struct {
	StudentID  int64
	CourseKey  string
	CourseName string
	QuizName   string
	Topic      Topic
	Grade      Grade
	MaxScore   *float64
	Order      int
}

// Normalize parses every record, keeping the input order in Order.
func Normalize(records []models.GradeRecord) []NormalizedGrade {
	grades := make([]NormalizedGrade, 0, len(records))
	for idx, record := range records {
		grades = append(grades, NormalizedGrade{
			StudentID:  record.StudentID,
			CourseKey:  record.CourseKey,
			CourseName: CleanCourseName(record.CourseName),
			QuizName:   record.QuizName,
			Topic:      ResolveTopic(record.QuizName),
			Grade:      ParseGrade(record.RawGrade),
			MaxScore:   record.MaxScore,
			Order:      idx,
		})
	}
	return grades
}

// TopicScore is the best attempt among all records sharing a grouping key.
type TopicScore struct {
	Key            string
	Label          string
	Rank           int
	Best           Grade
	Attempts       int
	Representative string
}

// GroupTopics merges records by grouping key, keeping the maximum present
// grade per key, and orders the result by SortRank. The first record seen
// represents the group when scores tie.
func GroupTopics(grades []NormalizedGrade) []TopicScore {
	index := make(map[string]int, len(grades))
	topics := make([]TopicScore, 0, len(grades))

	for _, grade := range grades {
		pos, ok := index[grade.Topic.Key]
		if !ok {
			index[grade.Topic.Key] = len(topics)
			topics = append(topics, TopicScore{
				Key:            grade.Topic.Key,
				Label:          grade.Topic.Label,
				Rank:           SortRank(grade.Topic.Key),
				Best:           grade.Grade,
				Attempts:       1,
				Representative: grade.QuizName,
			})
			continue
		}

		current := &topics[pos]
		current.Attempts++
		if better(grade.Grade, current.Best) {
			current.Best = grade.Grade
			current.Representative = grade.QuizName
		}
	}

	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].Rank != topics[j].Rank {
			return topics[i].Rank < topics[j].Rank
		}
		return topics[i].Key < topics[j].Key
	})
	return topics
}

// better reports whether candidate strictly beats current. Present grades
// beat absent ones; a malformed grade never wins.
func better(candidate, current Grade) bool {
	if !candidate.IsPresent() {
		return false
	}
	if !current.IsPresent() {
		return true
	}
	return candidate.Value > current.Value
}

// MeanOf averages the capped best score of each topic, skipping topics with
// no recorded grade. It returns false when no topic has a grade.
func MeanOf(topics []TopicScore) (float64, bool) {
	var total float64
	var count int
	for _, topic := range topics {
		if value, ok := topic.Best.Capped(); ok {
			total += value
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return total / float64(count), true
}

// CourseScore is one course of a student's transcript.
type CourseScore struct {
	CourseKey  string
	CourseName string
	Topics     []TopicScore
	Mean       float64
	HasMean    bool
}

// DisplayMean is the course mean for presentation.
func (c CourseScore) DisplayMean() float64 {
	if !c.HasMean {
		return 0
	}
	return Round1(Cap(c.Mean))
}

// OverallMean averages the display means of courses that scored above zero.
func OverallMean(courses []CourseScore) float64 {
	var total float64
	var counted int
	for _, course := range courses {
		if score := course.DisplayMean(); score > 0 {
			total += score
			counted++
		}
	}
	if counted == 0 {
		return 0
	}
	return Round1(total / float64(counted))
}

// CourseTopics returns the ordered topic scores of one course.
func CourseTopics(records []models.GradeRecord, courseKey string) []TopicScore {
	filtered := make([]models.GradeRecord, 0, len(records))
	for _, record := range records {
		if record.CourseKey == courseKey {
			filtered = append(filtered, record)
		}
	}
	return GroupTopics(Normalize(filtered))
}

// SummarizeStudent builds one CourseScore per course from a single student's
// records, ordered by course key. Means use deduplicated topic scores.
func SummarizeStudent(records []models.GradeRecord) []CourseScore {
	byCourse := groupByCourse(Normalize(records))

	courses := make([]CourseScore, 0, len(byCourse))
	for _, key := range sortedKeys(byCourse) {
		grades := byCourse[key]
		topics := GroupTopics(grades)
		mean, ok := MeanOf(topics)
		courses = append(courses, CourseScore{
			CourseKey:  key,
			CourseName: grades[0].CourseName,
			Topics:     topics,
			Mean:       mean,
			HasMean:    ok,
		})
	}
	return courses
}

func groupByCourse(grades []NormalizedGrade) map[string][]NormalizedGrade {
	byCourse := make(map[string][]NormalizedGrade)
	for _, grade := range grades {
		byCourse[grade.CourseKey] = append(byCourse[grade.CourseKey], grade)
	}
	return byCourse
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
