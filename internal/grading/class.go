package grading

import (
	"sort"

	"github.com/riodino14/edupulse-backend/internal/models"
)

// StudentMean is one student's deduplicated mean within a course.
type StudentMean struct {
	StudentID int64
	Mean      float64
	HasMean   bool
	Attempts  int
}

// ClassSummary aggregates a course across all enrolled students.
type ClassSummary struct {
	CourseKey    string
	CourseName   string
	Students     []StudentMean
	StudentCount int
	Mean         float64
	HasMean      bool
}

// DisplayMean is the class mean for presentation.
func (c ClassSummary) DisplayMean() float64 {
	if !c.HasMean {
		return 0
	}
	return Round1(Cap(c.Mean))
}

// SummarizeClass aggregates the records of one course. The class mean is a
// mean of per-student means so heavy retakers do not dominate it.
func SummarizeClass(records []models.GradeRecord) ClassSummary {
	return summarizeClass(Normalize(records))
}

// SummarizeClasses aggregates every course present in records, ordered by course key.
func SummarizeClasses(records []models.GradeRecord) []ClassSummary {
	byCourse := groupByCourse(Normalize(records))

	summaries := make([]ClassSummary, 0, len(byCourse))
	for _, key := range sortedKeys(byCourse) {
		summaries = append(summaries, summarizeClass(byCourse[key]))
	}
	return summaries
}

func summarizeClass(grades []NormalizedGrade) ClassSummary {
	if len(grades) == 0 {
		return ClassSummary{Students: []StudentMean{}}
	}

	byStudent := make(map[int64][]NormalizedGrade)
	for _, grade := range grades {
		byStudent[grade.StudentID] = append(byStudent[grade.StudentID], grade)
	}

	ids := make([]int64, 0, len(byStudent))
	for id := range byStudent {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	summary := ClassSummary{
		CourseKey:    grades[0].CourseKey,
		CourseName:   grades[0].CourseName,
		Students:     make([]StudentMean, 0, len(ids)),
		StudentCount: len(ids),
	}

	var total float64
	var counted int
	for _, id := range ids {
		studentGrades := byStudent[id]
		mean, ok := MeanOf(GroupTopics(studentGrades))
		summary.Students = append(summary.Students, StudentMean{
			StudentID: id,
			Mean:      mean,
			HasMean:   ok,
			Attempts:  len(studentGrades),
		})
		if ok {
			total += mean
			counted++
		}
	}

	if counted > 0 {
		summary.Mean = total / float64(counted)
		summary.HasMean = true
	}
	return summary
}
