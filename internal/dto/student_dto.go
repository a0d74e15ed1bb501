package dto

// CourseScoreResponse is one course row on the student dashboard.
type CourseScoreResponse struct {
	ClassID    string  `json:"class_id"`
	Subject    string  `json:"subject"`
	Score      float64 `json:"score"`
	TopicCount int     `json:"topic_count"`
}

// StudentProfileResponse is the student dashboard payload.
type StudentProfileResponse struct {
	UserID              int64                 `json:"user_id"`
	Name                string                `json:"name"`
	LearningStyle       string                `json:"learning_style"`
	Interest            string                `json:"interest"`
	GPA                 float64               `json:"gpa"`
	AverageScore        float64               `json:"average_score"`
	EngagementScore     float64               `json:"engagement_score"`
	PerformanceCategory string                `json:"performance_category"`
	Courses             []CourseScoreResponse `json:"courses"`
	ClusterID           int                   `json:"cluster_id"`
	ClusterLabel        string                `json:"cluster_label"`
	DatasetVersion      string                `json:"dataset_version"`
}

// QuizDetailRequest selects one student's quiz chart for one course.
type QuizDetailRequest struct {
	UserID  int64  `query:"user_id"`
	ClassID string `query:"class_id"`
}

// QuizScoreResponse is one bar of the quiz chart.
type QuizScoreResponse struct {
	QuizName string  `json:"quiz_name"`
	FullName string  `json:"full_name"`
	Score    float64 `json:"score"`
	Attempts int     `json:"attempts"`
}

// UpdateProfileRequest changes a student's learning preferences.
type UpdateProfileRequest struct {
	FullName      string `json:"full_name" validate:"required,min=1,max=255"`
	LearningStyle string `json:"learning_style" validate:"required,min=1,max=64"`
	Interest      string `json:"interest" validate:"omitempty,max=128"`
}

// UserProfileResponse serializes an account without credentials.
type UserProfileResponse struct {
	Username      string `json:"username"`
	Role          string `json:"role"`
	FullName      string `json:"full_name"`
	LearningStyle string `json:"learning_style"`
	Interest      string `json:"interest"`
}
