package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/grading"
	"github.com/riodino14/edupulse-backend/internal/models"
	"github.com/riodino14/edupulse-backend/internal/observability"
	"github.com/riodino14/edupulse-backend/internal/repository"
)

const (
	gpaScale           = 25.0
	lowAverageCeiling  = 50.0
	defaultStudentName = "Student %d"
)

// StudentDashboardService produces the per-student dashboard and quiz charts.
type StudentDashboardService interface {
	GetProfile(ctx context.Context, studentID int64) (dto.StudentProfileResponse, error)
	GetQuizDetail(ctx context.Context, req dto.QuizDetailRequest) ([]dto.QuizScoreResponse, error)
}

type studentDashboardService struct {
	data   repository.LearningDataRepository
	users  repository.UserRepository
	cache  jsonCache
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewStudentDashboardService builds the dashboard aggregator. Cached entries
// are keyed by dataset version so a reload never serves stale scores.
func NewStudentDashboardService(data repository.LearningDataRepository, users repository.UserRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StudentDashboardService {
	componentLogger := logger.With().Str("component", "student_dashboard_service").Logger()
	return &studentDashboardService{
		data:   data,
		users:  users,
		cache:  newJSONCache(cache, ttl, componentLogger),
		logger: componentLogger,
		tracer: otel.Tracer("github.com/riodino14/edupulse-backend/internal/service/student_dashboard"),
	}
}

func (s *studentDashboardService) GetProfile(ctx context.Context, studentID int64) (dto.StudentProfileResponse, error) {
	ctx, span := s.tracer.Start(ctx, "student.profile")
	defer span.End()
	span.SetAttributes(attribute.Int64("student.id", studentID))

	if studentID <= 0 {
		return dto.StudentProfileResponse{}, ErrInvalidIdentifier
	}

	snapshot, err := s.data.Current(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dataset_unavailable")
		return dto.StudentProfileResponse{}, err
	}

	cacheKey := fmt.Sprintf("dashboard:%s:student:%d", snapshot.Version(), studentID)
	var response dto.StudentProfileResponse
	if s.cache.get(ctx, cacheKey, &response) {
		observability.CacheLookups().WithLabelValues("dashboard", "hit").Inc()
		span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
	} else {
		observability.CacheLookups().WithLabelValues("dashboard", "miss").Inc()
		feature, ok := snapshot.Feature(studentID)
		if !ok {
			return dto.StudentProfileResponse{}, ErrStudentNotFound
		}
		response = buildProfile(snapshot, feature)
		s.cache.set(ctx, cacheKey, response)
	}

	if err := s.applyAccount(ctx, &response); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user_lookup_failed")
		return dto.StudentProfileResponse{}, err
	}

	return response, nil
}

// applyAccount overlays learning preferences, which change independently of the dataset.
func (s *studentDashboardService) applyAccount(ctx context.Context, response *dto.StudentProfileResponse) error {
	response.Name = fmt.Sprintf(defaultStudentName, response.UserID)
	response.LearningStyle = models.DefaultLearningStyle
	response.Interest = models.DefaultInterest

	if s.users == nil {
		return nil
	}

	user, err := s.users.GetByUsername(ctx, strconv.FormatInt(response.UserID, 10))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if strings.TrimSpace(user.FullName) != "" {
		response.Name = user.FullName
	}
	if strings.TrimSpace(user.LearningStyle) != "" {
		response.LearningStyle = user.LearningStyle
	}
	if strings.TrimSpace(user.Interest) != "" {
		response.Interest = user.Interest
	}
	return nil
}

func buildProfile(snapshot *dataset.Snapshot, feature models.StudentFeature) dto.StudentProfileResponse {
	courses := grading.SummarizeStudent(snapshot.GradesByStudent(feature.StudentID))

	rows := make([]dto.CourseScoreResponse, 0, len(courses))
	for _, course := range courses {
		rows = append(rows, dto.CourseScoreResponse{
			ClassID:    course.CourseKey,
			Subject:    course.CourseName,
			Score:      course.DisplayMean(),
			TopicCount: len(course.Topics),
		})
	}
	average := grading.OverallMean(courses)

	category := feature.PerformanceCategory
	if category == "" {
		category = models.CategoryForScore(feature.MeanScorePct)
	}
	if average < lowAverageCeiling {
		category = models.PerformanceLow
	}

	return dto.StudentProfileResponse{
		UserID:              feature.StudentID,
		GPA:                 grading.Round2(average / gpaScale),
		AverageScore:        average,
		EngagementScore:     feature.EngagementScore,
		PerformanceCategory: category,
		Courses:             rows,
		ClusterID:           feature.Cluster,
		ClusterLabel:        snapshot.ClusterLabel(feature.Cluster),
		DatasetVersion:      snapshot.Version(),
	}
}

func (s *studentDashboardService) GetQuizDetail(ctx context.Context, req dto.QuizDetailRequest) ([]dto.QuizScoreResponse, error) {
	ctx, span := s.tracer.Start(ctx, "student.quiz_detail")
	defer span.End()

	classID := strings.TrimSpace(req.ClassID)
	if req.UserID <= 0 || classID == "" {
		return nil, ErrInvalidIdentifier
	}
	span.SetAttributes(attribute.Int64("student.id", req.UserID), attribute.String("course.key", classID))

	snapshot, err := s.data.Current(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dataset_unavailable")
		return nil, err
	}

	topics := grading.CourseTopics(snapshot.GradesByStudentCourse(req.UserID, classID), classID)
	scores := make([]dto.QuizScoreResponse, 0, len(topics))
	for _, topic := range topics {
		scores = append(scores, dto.QuizScoreResponse{
			QuizName: topic.Label,
			FullName: topic.Key,
			Score:    topic.Best.Display(),
			Attempts: topic.Attempts,
		})
	}

	s.logger.Debug().Int64("student_id", req.UserID).Str("class_id", classID).Int("topics", len(scores)).Msg("quiz detail computed")
	return scores, nil
}
