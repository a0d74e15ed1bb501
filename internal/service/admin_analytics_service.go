package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/grading"
	"github.com/riodino14/edupulse-backend/internal/models"
	"github.com/riodino14/edupulse-backend/internal/observability"
	"github.com/riodino14/edupulse-backend/internal/repository"
)

// Roster statuses derived from a student's course mean.
const (
	StudentStatusAtRisk = "at_risk"
	StudentStatusSafe   = "safe"
)

// AdminAnalyticsService aggregates cohort and class views for administrators.
type AdminAnalyticsService interface {
	GetSummary(ctx context.Context) (dto.AdminSummaryResponse, error)
	ListClasses(ctx context.Context) ([]dto.ClassSummaryResponse, error)
	StudentsByClass(ctx context.Context, classID string) ([]dto.ClassStudentResponse, error)
	GradeAnomalies(ctx context.Context) (dto.GradeAnomalyReport, error)
}

type adminAnalyticsService struct {
	data   repository.LearningDataRepository
	cache  jsonCache
	logger zerolog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewAdminAnalyticsService constructs the analytics service.
func NewAdminAnalyticsService(data repository.LearningDataRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AdminAnalyticsService {
	componentLogger := logger.With().Str("component", "admin_analytics_service").Logger()
	return &adminAnalyticsService{
		data:   data,
		cache:  newJSONCache(cache, ttl, componentLogger),
		logger: componentLogger,
		tracer: otel.Tracer("github.com/riodino14/edupulse-backend/internal/service/admin_analytics"),
		now:    time.Now,
	}
}

func (s *adminAnalyticsService) snapshot(ctx context.Context, span trace.Span) (*dataset.Snapshot, error) {
	snapshot, err := s.data.Current(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dataset_unavailable")
		return nil, err
	}
	span.SetAttributes(attribute.String("dataset.version", snapshot.Version()))
	return snapshot, nil
}

func (s *adminAnalyticsService) GetSummary(ctx context.Context) (dto.AdminSummaryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.summary")
	defer span.End()

	snapshot, err := s.snapshot(ctx, span)
	if err != nil {
		return dto.AdminSummaryResponse{}, err
	}

	features := snapshot.Features()
	response := dto.AdminSummaryResponse{
		TotalStudents:  len(features),
		DatasetVersion: snapshot.Version(),
		GeneratedAt:    s.now().UTC(),
	}
	if len(features) == 0 {
		return response, nil
	}

	var total float64
	for _, feature := range features {
		total += feature.MeanScorePct
		if feature.PerformanceCategory == models.PerformanceLow {
			response.AtRiskCount++
		}
	}
	response.AverageGPA = grading.Round2(total / float64(len(features)) / gpaScale)
	return response, nil
}

func (s *adminAnalyticsService) ListClasses(ctx context.Context) ([]dto.ClassSummaryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.classes")
	defer span.End()

	snapshot, err := s.snapshot(ctx, span)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:%s:classes", snapshot.Version())
	var classes []dto.ClassSummaryResponse
	if s.cache.get(ctx, cacheKey, &classes) {
		observability.CacheLookups().WithLabelValues("classes", "hit").Inc()
		span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
		return classes, nil
	}
	observability.CacheLookups().WithLabelValues("classes", "miss").Inc()

	summaries := grading.SummarizeClasses(snapshot.Grades())
	classes = make([]dto.ClassSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		classes = append(classes, dto.ClassSummaryResponse{
			ClassID:      summary.CourseKey,
			ClassName:    summary.CourseName,
			StudentCount: summary.StudentCount,
			AverageScore: summary.DisplayMean(),
		})
	}

	s.cache.set(ctx, cacheKey, classes)
	return classes, nil
}

func (s *adminAnalyticsService) StudentsByClass(ctx context.Context, classID string) ([]dto.ClassStudentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.class_roster")
	defer span.End()

	classID = strings.TrimSpace(classID)
	if classID == "" {
		return nil, ErrInvalidIdentifier
	}
	span.SetAttributes(attribute.String("course.key", classID))

	snapshot, err := s.snapshot(ctx, span)
	if err != nil {
		return nil, err
	}

	summary := grading.SummarizeClass(snapshot.GradesByCourse(classID))
	roster := make([]dto.ClassStudentResponse, 0, len(summary.Students))
	for _, student := range summary.Students {
		feature, ok := snapshot.Feature(student.StudentID)
		if !ok {
			continue
		}

		score := 0.0
		if student.HasMean {
			score = grading.Round1(grading.Cap(student.Mean))
		}
		status := StudentStatusSafe
		if score < lowAverageCeiling {
			status = StudentStatusAtRisk
		}

		roster = append(roster, dto.ClassStudentResponse{
			ID:         student.StudentID,
			Cluster:    snapshot.ClusterLabel(feature.Cluster),
			Status:     status,
			Score:      score,
			Activities: student.Attempts,
		})
	}

	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].Score != roster[j].Score {
			return roster[i].Score > roster[j].Score
		}
		return roster[i].ID < roster[j].ID
	})
	return roster, nil
}

func (s *adminAnalyticsService) GradeAnomalies(ctx context.Context) (dto.GradeAnomalyReport, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.grade_anomalies")
	defer span.End()

	snapshot, err := s.snapshot(ctx, span)
	if err != nil {
		return dto.GradeAnomalyReport{}, err
	}

	anomalies := make([]dto.GradeAnomalyResponse, 0)
	for _, record := range snapshot.Grades() {
		grade := grading.ParseGrade(record.RawGrade)
		if !grade.ExceedsScale() {
			continue
		}

		anomaly := dto.GradeAnomalyResponse{
			StudentID: record.StudentID,
			ClassID:   record.CourseKey,
			QuizName:  record.QuizName,
			RawGrade:  record.RawGrade,
			Value:     grade.Value,
			MaxScore:  record.MaxScore,
		}
		if pct, ok := grading.Percentage(grade.Value, record.MaxScore); ok {
			rounded := grading.Round2(pct)
			anomaly.Percentage = &rounded
		}
		anomalies = append(anomalies, anomaly)
	}

	span.SetAttributes(attribute.Int("analytics.anomalies", len(anomalies)))
	return dto.GradeAnomalyReport{Anomalies: anomalies, Quality: qualityResponse(snapshot.Quality())}, nil
}

func qualityResponse(quality dataset.Quality) dto.DatasetQuality {
	return dto.DatasetQuality{
		Rows:           quality.Rows,
		AbsentGrades:   quality.AbsentGrades,
		MalformedGrade: quality.MalformedGrade,
		OverScale:      quality.OverScale,
		MissingMax:     quality.MissingMax,
		SkippedRows:    quality.SkippedRows,
	}
}
