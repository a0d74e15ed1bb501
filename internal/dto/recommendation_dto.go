package dto

import "github.com/riodino14/edupulse-backend/internal/grading"

// RecommendationRequest asks for a personalised study plan.
type RecommendationRequest struct {
	UserID        int64  `json:"user_id" validate:"required,gt=0"`
	LearningStyle string `json:"learning_style" validate:"omitempty,max=64"`
	Interest      string `json:"interest" validate:"omitempty,max=128"`
}

// MaterialResponse links to a search tailored to the learning style.
type MaterialResponse struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// VideoResponse is a curated video matched to a weak topic.
type VideoResponse struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	VideoID   string `json:"video_id"`
}

// RecommendationResponse is the complete study plan.
type RecommendationResponse struct {
	Status          string              `json:"status"`
	MatchPercentage int                 `json:"match_percentage"`
	Strategy        string              `json:"strategy"`
	Materials       []MaterialResponse  `json:"materials"`
	Videos          []VideoResponse     `json:"videos"`
	Tips            string              `json:"tips"`
	WeakSubject     string              `json:"weak_subject"`
	WeakTopics      []grading.WeakTopic `json:"weak_topics"`
	PeerGroup       []string            `json:"peer_group"`
	Mentor          string              `json:"mentor"`
	PredictedScore  float64             `json:"predicted_score"`
	OptimalTime     string              `json:"optimal_time"`
}
