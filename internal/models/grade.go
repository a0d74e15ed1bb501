package models

// GradeRecord is one row of the raw quiz grade table. Rows are read-only
// inputs; the grade field is kept verbatim so parsing policy stays in one place.
type GradeRecord struct {
	StudentID  int64    `json:"student_id"`
	CourseKey  string   `json:"course_key"`
	CourseName string   `json:"course_name"`
	QuizID     string   `json:"quiz_id,omitempty"`
	QuizName   string   `json:"quiz_name"`
	RawGrade   string   `json:"raw_grade"`
	MaxScore   *float64 `json:"max_score,omitempty"`
}
