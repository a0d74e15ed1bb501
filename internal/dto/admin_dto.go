package dto

import "time"

// AdminSummaryResponse is the cohort overview for administrators.
type AdminSummaryResponse struct {
	TotalStudents  int       `json:"total_students"`
	AverageGPA     float64   `json:"avg_gpa"`
	AtRiskCount    int       `json:"at_risk_count"`
	DatasetVersion string    `json:"dataset_version"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// ClassSummaryResponse is one course in the admin class list.
type ClassSummaryResponse struct {
	ClassID      string  `json:"class_id"`
	ClassName    string  `json:"class_name"`
	StudentCount int     `json:"student_count"`
	AverageScore float64 `json:"avg_score"`
}

// ClassStudentResponse is one student in a course roster.
type ClassStudentResponse struct {
	ID         int64   `json:"id"`
	Cluster    string  `json:"cluster"`
	Status     string  `json:"status"`
	Score      float64 `json:"score"`
	Activities int     `json:"activities"`
}

// GradeAnomalyResponse flags a raw grade above the scale ceiling.
type GradeAnomalyResponse struct {
	StudentID  int64    `json:"student_id"`
	ClassID    string   `json:"class_id"`
	QuizName   string   `json:"quiz_name"`
	RawGrade   string   `json:"raw_grade"`
	Value      float64  `json:"value"`
	MaxScore   *float64 `json:"max_score"`
	Percentage *float64 `json:"percentage_of_max"`
}

// GradeAnomalyReport lists anomalies together with the load quality counters.
type GradeAnomalyReport struct {
	Anomalies []GradeAnomalyResponse `json:"anomalies"`
	Quality   DatasetQuality         `json:"quality"`
}

// DatasetQuality mirrors the counters collected while loading grades.
type DatasetQuality struct {
	Rows           int `json:"rows"`
	AbsentGrades   int `json:"absent_grades"`
	MalformedGrade int `json:"malformed_grades"`
	OverScale      int `json:"over_scale"`
	MissingMax     int `json:"missing_max"`
	SkippedRows    int `json:"skipped_rows"`
}

// DatasetStatusResponse describes the snapshot currently served.
type DatasetStatusResponse struct {
	Version  string         `json:"version"`
	LoadedAt time.Time      `json:"loaded_at"`
	Students int            `json:"students"`
	Courses  int            `json:"courses"`
	Quality  DatasetQuality `json:"quality"`
}
