package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/observability"
	"github.com/riodino14/edupulse-backend/internal/repository"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the detected MIME type is not CSV.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
	// ErrUploadInvalid indicates the CSV lacks the grade table columns.
	ErrUploadInvalid = errors.New("uploaded grade table is invalid")
)

var allowedGradeTableTypes = []string{"text/csv", "text/plain"}

// DatasetService reports on and replaces the served learning data.
type DatasetService interface {
	Status(ctx context.Context) (dto.DatasetStatusResponse, error)
	Reload(ctx context.Context) (dto.DatasetStatusResponse, error)
	ReplaceGrades(ctx context.Context, file *multipart.FileHeader) (dto.DatasetStatusResponse, error)
	Publish(snapshot *dataset.Snapshot)
}

type datasetService struct {
	data    repository.LearningDataRepository
	maxSize int64
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewDatasetService constructs the dataset administration service.
func NewDatasetService(data repository.LearningDataRepository, maxSizeMB int, logger zerolog.Logger) DatasetService {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	return &datasetService{
		data:    data,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger.With().Str("component", "dataset_service").Logger(),
		tracer:  otel.Tracer("github.com/riodino14/edupulse-backend/internal/service/dataset"),
	}
}

func (s *datasetService) Status(ctx context.Context) (dto.DatasetStatusResponse, error) {
	snapshot, err := s.data.Current(ctx)
	if err != nil {
		return dto.DatasetStatusResponse{}, err
	}
	return statusResponse(snapshot), nil
}

func (s *datasetService) Reload(ctx context.Context) (dto.DatasetStatusResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.reload")
	defer span.End()

	snapshot, err := s.data.Reload(ctx)
	if err != nil {
		observability.DatasetReloads().WithLabelValues("disk", "failure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload_failed")
		s.logger.Error().Err(err).Msg("dataset reload failed, keeping current snapshot")
		return dto.DatasetStatusResponse{}, err
	}

	observability.DatasetReloads().WithLabelValues("disk", "success").Inc()
	s.Publish(snapshot)
	return statusResponse(snapshot), nil
}

func (s *datasetService) ReplaceGrades(ctx context.Context, file *multipart.FileHeader) (dto.DatasetStatusResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.replace_grades")
	defer span.End()

	if file == nil {
		return dto.DatasetStatusResponse{}, fmt.Errorf("%w: file is required", ErrUploadInvalid)
	}
	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)
	if file.Size > s.maxSize {
		return dto.DatasetStatusResponse{}, ErrUploadTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return dto.DatasetStatusResponse{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	payload, err := io.ReadAll(io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return dto.DatasetStatusResponse{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(payload)) > s.maxSize {
		return dto.DatasetStatusResponse{}, ErrUploadTooLarge
	}

	detected := mimetype.Detect(payload)
	span.SetAttributes(attribute.String("upload.mime", detected.String()))
	if !detected.Is(allowedGradeTableTypes[0]) && !detected.Is(allowedGradeTableTypes[1]) {
		s.logger.Warn().Str("mime", detected.String()).Msg("rejected grade table upload")
		return dto.DatasetStatusResponse{}, ErrUploadTypeNotAllowed
	}

	grades, skipped, err := dataset.ReadGrades(bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		return dto.DatasetStatusResponse{}, fmt.Errorf("%w: %v", ErrUploadInvalid, err)
	}

	snapshot, err := s.data.ReplaceGrades(ctx, grades, skipped)
	if err != nil {
		observability.DatasetReloads().WithLabelValues("upload", "failure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace_failed")
		return dto.DatasetStatusResponse{}, err
	}

	observability.DatasetReloads().WithLabelValues("upload", "success").Inc()
	s.Publish(snapshot)
	return statusResponse(snapshot), nil
}

// Publish exports the quality counters of a newly served snapshot and logs problems.
func (s *datasetService) Publish(snapshot *dataset.Snapshot) {
	if snapshot == nil {
		return
	}
	quality := snapshot.Quality()
	observability.RecordDatasetQuality(quality)

	event := s.logger.Info()
	if quality.MalformedGrade > 0 || quality.SkippedRows > 0 {
		event = s.logger.Warn()
	}
	event.
		Str("dataset_version", snapshot.Version()).
		Int("rows", quality.Rows).
		Int("absent_grades", quality.AbsentGrades).
		Int("malformed_grades", quality.MalformedGrade).
		Int("over_scale", quality.OverScale).
		Int("missing_max", quality.MissingMax).
		Int("skipped_rows", quality.SkippedRows).
		Msg("dataset snapshot published")
}

func statusResponse(snapshot *dataset.Snapshot) dto.DatasetStatusResponse {
	return dto.DatasetStatusResponse{
		Version:  snapshot.Version(),
		LoadedAt: snapshot.LoadedAt(),
		Students: len(snapshot.Features()),
		Courses:  len(snapshot.CourseKeys()),
		Quality:  qualityResponse(snapshot.Quality()),
	}
}
