package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/grading"
	"github.com/riodino14/edupulse-backend/internal/models"
	"github.com/riodino14/edupulse-backend/internal/repository"
)

const (
	peerGroupSize         = 3
	mentorScoreFloor      = 85.0
	predictedScoreBoost   = 10.0
	recommendationMatch   = 85
	recommendationPlan    = "Targeted Improvement"
	mentorUnavailable     = "Not available yet"
	defaultOptimalTime    = "Morning (08:00 - 10:00)"
	learningStyleVisual   = "Visual"
	learningStyleAuditory = "Auditory"
)

// RecommendationService builds personalised study plans.
type RecommendationService interface {
	Recommend(ctx context.Context, req dto.RecommendationRequest) (dto.RecommendationResponse, error)
}

type recommendationService struct {
	data   repository.LearningDataRepository
	users  repository.UserRepository
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewRecommendationService constructs the recommendation service. The user
// repository is optional and supplies the stored learning style when the
// request omits it.
func NewRecommendationService(data repository.LearningDataRepository, users repository.UserRepository, logger zerolog.Logger) RecommendationService {
	return &recommendationService{
		data:   data,
		users:  users,
		logger: logger.With().Str("component", "recommendation_service").Logger(),
		tracer: otel.Tracer("github.com/riodino14/edupulse-backend/internal/service/recommendation"),
	}
}

func (s *recommendationService) Recommend(ctx context.Context, req dto.RecommendationRequest) (dto.RecommendationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "recommendation.build")
	defer span.End()
	span.SetAttributes(attribute.Int64("student.id", req.UserID))

	if req.UserID <= 0 {
		return dto.RecommendationResponse{}, ErrInvalidIdentifier
	}

	snapshot, err := s.data.Current(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dataset_unavailable")
		return dto.RecommendationResponse{}, err
	}

	feature, ok := snapshot.Feature(req.UserID)
	if !ok {
		return dto.RecommendationResponse{}, ErrStudentNotFound
	}

	style := s.resolveLearningStyle(ctx, req)
	weak := grading.WeakTopicsOrFallback(grading.Normalize(snapshot.GradesByStudent(req.UserID)), grading.DefaultWeakTopicLimit)

	response := dto.RecommendationResponse{
		Status:          snapshot.ClusterLabel(feature.Cluster),
		MatchPercentage: recommendationMatch,
		Strategy:        recommendationPlan,
		Materials:       StudyMaterials(weak, style),
		Videos:          videosFor(weak),
		Tips:            tipsFor(weak),
		WeakSubject:     fmt.Sprintf("%s (score: %s)", weak[0].Topic, grading.FormatScore(weak[0].Score)),
		WeakTopics:      weak,
		PeerGroup:       PeerGroup(snapshot, feature),
		Mentor:          FindMentor(snapshot, weak[0].CourseKey, req.UserID),
		PredictedScore:  PredictScore(weak),
		OptimalTime:     OptimalStudyTime(snapshot.ActivityByStudent(req.UserID)),
	}

	span.SetAttributes(attribute.Int("recommendation.weak_topics", len(weak)), attribute.String("recommendation.style", style))
	s.logger.Debug().Int64("student_id", req.UserID).Str("style", style).Msg("recommendation built")
	return response, nil
}

func (s *recommendationService) resolveLearningStyle(ctx context.Context, req dto.RecommendationRequest) string {
	if strings.TrimSpace(req.LearningStyle) != "" || s.users == nil {
		return normalizeLearningStyle(req.LearningStyle)
	}

	user, err := s.users.GetByUsername(ctx, strconv.FormatInt(req.UserID, 10))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Int64("student_id", req.UserID).Msg("failed to load stored learning style")
		}
		return models.DefaultLearningStyle
	}
	return normalizeLearningStyle(user.LearningStyle)
}

func normalizeLearningStyle(style string) string {
	trimmed := strings.TrimSpace(style)
	if trimmed == "" {
		return models.DefaultLearningStyle
	}
	return cases.Title(language.English).String(strings.ToLower(trimmed))
}

// StudyMaterials links each weak topic to a search suited to the learning style.
func StudyMaterials(weak []grading.WeakTopic, style string) []dto.MaterialResponse {
	materials := make([]dto.MaterialResponse, 0, len(weak))
	for _, topic := range weak {
		var link, kind string
		switch style {
		case learningStyleVisual:
			link = "https://www.youtube.com/results?search_query=" + url.QueryEscape("Tutorial "+topic.SearchPhrase)
			kind = "Video"
		case learningStyleAuditory:
			link = "https://www.youtube.com/results?search_query=" + url.QueryEscape("Penjelasan "+topic.SearchPhrase)
			kind = "Podcast/Audio"
		default:
			link = "https://www.google.com/search?q=" + url.QueryEscape("Latihan Soal "+topic.SearchPhrase+" filetype:pdf")
			kind = "Practice/PDF"
		}
		materials = append(materials, dto.MaterialResponse{
			Title: fmt.Sprintf("Study: %s - %s", topic.Course, topic.Topic),
			Type:  kind,
			URL:   link,
		})
	}
	return materials
}

func videosFor(weak []grading.WeakTopic) []dto.VideoResponse {
	seen := make(map[string]struct{})
	videos := make([]dto.VideoResponse, 0)
	for _, topic := range weak {
		for _, video := range CuratedVideos(topic.Topic) {
			if _, dup := seen[video.VideoID]; dup {
				continue
			}
			seen[video.VideoID] = struct{}{}
			videos = append(videos, video)
		}
	}
	return videos
}

func tipsFor(weak []grading.WeakTopic) string {
	parts := make([]string, 0, len(weak))
	for _, topic := range weak {
		parts = append(parts, fmt.Sprintf("%s (score: %s)", topic.Topic, grading.FormatScore(topic.Score)))
	}
	return fmt.Sprintf("Attention! Low scores detected in: %s. Study the materials below.", strings.Join(parts, ", "))
}

// PeerGroup lists up to three other students of the same cluster, lowest ids first.
func PeerGroup(snapshot *dataset.Snapshot, student models.StudentFeature) []string {
	ids := make([]int64, 0)
	seen := map[int64]struct{}{student.StudentID: {}}
	for _, feature := range snapshot.Features() {
		if feature.Cluster != student.Cluster {
			continue
		}
		if _, dup := seen[feature.StudentID]; dup {
			continue
		}
		seen[feature.StudentID] = struct{}{}
		ids = append(ids, feature.StudentID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if len(ids) > peerGroupSize {
		ids = ids[:peerGroupSize]
	}
	peers := make([]string, 0, len(ids))
	for _, id := range ids {
		peers = append(peers, fmt.Sprintf(defaultStudentName, id))
	}
	return peers
}

// FindMentor picks the other student with the highest grade above the mentor
// floor in a course. Equal scores go to the lowest student id.
func FindMentor(snapshot *dataset.Snapshot, courseKey string, studentID int64) string {
	if courseKey == "" {
		return mentorUnavailable
	}

	var (
		bestID    int64
		bestScore = -1.0
	)
	for _, grade := range grading.Normalize(snapshot.GradesByCourse(courseKey)) {
		if grade.StudentID == studentID {
			continue
		}
		value, ok := grade.Grade.Capped()
		if !ok || value <= mentorScoreFloor {
			continue
		}
		if value > bestScore || (value == bestScore && grade.StudentID < bestID) {
			bestScore = value
			bestID = grade.StudentID
		}
	}

	if bestScore < 0 {
		return mentorUnavailable
	}
	return fmt.Sprintf(defaultStudentName+" (Expert)", bestID)
}

// PredictScore projects the weak-topic mean ten points up, capped at 100.
func PredictScore(weak []grading.WeakTopic) float64 {
	if len(weak) == 0 {
		return 0
	}
	var total float64
	for _, topic := range weak {
		total += topic.Score
	}
	return grading.Round1(math.Min(grading.ScaleMax, total/float64(len(weak))+predictedScoreBoost))
}

// OptimalStudyTime names the period around the most frequent activity hour.
// Equal counts resolve to the earliest hour.
func OptimalStudyTime(entries []models.ActivityLog) string {
	if len(entries) == 0 {
		return defaultOptimalTime
	}

	var counts [24]int
	for _, entry := range entries {
		counts[entry.Timestamp.Hour()]++
	}

	mode := 0
	for hour := 1; hour < len(counts); hour++ {
		if counts[hour] > counts[mode] {
			mode = hour
		}
	}

	return fmt.Sprintf("%s (around %d:00)", dayPeriod(mode), mode)
}

func dayPeriod(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 15:
		return "Midday"
	case hour >= 15 && hour < 18:
		return "Afternoon"
	default:
		return "Night"
	}
}
