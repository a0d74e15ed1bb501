package models

import "time"

// Performance categories attached to a student feature row.
const (
	PerformanceHigh   = "High"
	PerformanceMedium = "Medium"
	PerformanceLow    = "Low"
)

// StudentFeature is the precomputed per-student row produced by the
// clustering pipeline. It is consumed as opaque context.
type StudentFeature struct {
	StudentID           int64   `json:"student_id"`
	Cluster             int     `json:"cluster"`
	MeanScorePct        float64 `json:"mean_score_pct"`
	EngagementScore     float64 `json:"engagement_score"`
	PerformanceCategory string  `json:"performance_category"`
}

// ActivityLog is a single timestamped learning-platform event for a student.
type ActivityLog struct {
	StudentID int64     `json:"student_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CategoryForScore derives the performance category from a mean score percentage.
func CategoryForScore(score float64) string {
	switch {
	case score >= 80:
		return PerformanceHigh
	case score >= 60:
		return PerformanceMedium
	default:
		return PerformanceLow
	}
}
