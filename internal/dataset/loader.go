package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/riodino14/edupulse-backend/internal/models"
)

// Column names of the source tables.
const (
	ColumnUserID        = "userid"
	ColumnCourseShort   = "courseshortname"
	ColumnCourseFull    = "coursefullname"
	ColumnQuizID        = "quizid"
	ColumnQuizName      = "quizname"
	ColumnGrade         = "final_quiz_grade"
	ColumnMaxScore      = "max_quiz_score"
	ColumnCluster       = "cluster"
	ColumnMeanScore     = "mean_score_pct"
	ColumnEngagement    = "engagement_score"
	ColumnPerformance   = "performance_category"
	ColumnActorUserID   = "actor_userid"
	ColumnActivityTime  = "Time_parsed"
	utf8ByteOrderMarker = "\ufeff"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("dataset: missing required column")

// Sources locates the tables on disk. Activity and cluster label files are optional.
type Sources struct {
	Grades        string
	Features      string
	Activity      string
	ClusterLabels string
}

// SourcesIn resolves file names relative to a data directory.
func SourcesIn(dir, grades, features, activity, labels string) Sources {
	join := func(name string) string {
		if name == "" {
			return ""
		}
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dir, name)
	}
	return Sources{
		Grades:        join(grades),
		Features:      join(features),
		Activity:      join(activity),
		ClusterLabels: join(labels),
	}
}

var activityLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"2006-01-02",
}

// Load reads every table and builds a snapshot.
func Load(src Sources) (*Snapshot, error) {
	var tables Tables

	if err := withFile(src.Grades, true, func(r io.Reader) error {
		grades, skipped, err := ReadGrades(r)
		tables.Grades, tables.SkippedRows = grades, skipped
		return err
	}); err != nil {
		return nil, err
	}

	if err := withFile(src.Features, true, func(r io.Reader) error {
		features, err := ReadFeatures(r)
		tables.Features = features
		return err
	}); err != nil {
		return nil, err
	}

	if err := withFile(src.Activity, false, func(r io.Reader) error {
		activity, err := ReadActivity(r)
		tables.Activity = activity
		return err
	}); err != nil {
		return nil, err
	}

	if err := withFile(src.ClusterLabels, false, func(r io.Reader) error {
		labels, err := ReadClusterLabels(r)
		tables.ClusterLabels = labels
		return err
	}); err != nil {
		return nil, err
	}

	return NewSnapshot(tables), nil
}

func withFile(path string, required bool, read func(io.Reader) error) error {
	if path == "" {
		if required {
			return fmt.Errorf("dataset: required table path is empty")
		}
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := read(file); err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadGrades parses the quiz grade table. Grade cells are kept verbatim. Rows
// whose student id cannot be read are skipped and counted.
func ReadGrades(r io.Reader) ([]models.GradeRecord, int, error) {
	table, err := readTable(r, ColumnUserID, ColumnCourseShort, ColumnQuizName, ColumnGrade)
	if err != nil {
		return nil, 0, err
	}

	records := make([]models.GradeRecord, 0, len(table.rows))
	skipped := 0
	for _, row := range table.rows {
		studentID, ok := parseID(table.get(row, ColumnUserID))
		if !ok {
			skipped++
			continue
		}

		record := models.GradeRecord{
			StudentID:  studentID,
			CourseKey:  strings.TrimSpace(table.get(row, ColumnCourseShort)),
			CourseName: table.get(row, ColumnCourseFull),
			QuizID:     strings.TrimSpace(table.get(row, ColumnQuizID)),
			QuizName:   table.get(row, ColumnQuizName),
			RawGrade:   table.get(row, ColumnGrade),
		}
		if record.CourseName == "" {
			record.CourseName = record.CourseKey
		}
		if value, ok := parseFloat(table.get(row, ColumnMaxScore)); ok {
			maxScore := value
			record.MaxScore = &maxScore
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

// ReadFeatures parses the per-student feature table. A missing performance
// category is derived from the mean score.
func ReadFeatures(r io.Reader) ([]models.StudentFeature, error) {
	table, err := readTable(r, ColumnUserID, ColumnCluster, ColumnMeanScore)
	if err != nil {
		return nil, err
	}

	features := make([]models.StudentFeature, 0, len(table.rows))
	for _, row := range table.rows {
		studentID, ok := parseID(table.get(row, ColumnUserID))
		if !ok {
			continue
		}
		cluster, _ := parseID(table.get(row, ColumnCluster))
		mean, _ := parseFloat(table.get(row, ColumnMeanScore))
		engagement, _ := parseFloat(table.get(row, ColumnEngagement))

		category := strings.TrimSpace(table.get(row, ColumnPerformance))
		if category == "" {
			category = models.CategoryForScore(mean)
		}

		features = append(features, models.StudentFeature{
			StudentID:           studentID,
			Cluster:             int(cluster),
			MeanScorePct:        mean,
			EngagementScore:     engagement,
			PerformanceCategory: category,
		})
	}
	return features, nil
}

// ReadActivity parses the activity log. Rows with an unreadable timestamp are dropped.
func ReadActivity(r io.Reader) ([]models.ActivityLog, error) {
	table, err := readTable(r, ColumnActorUserID, ColumnActivityTime)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ActivityLog, 0, len(table.rows))
	for _, row := range table.rows {
		studentID, ok := parseID(table.get(row, ColumnActorUserID))
		if !ok {
			continue
		}
		timestamp, ok := parseTimestamp(table.get(row, ColumnActivityTime))
		if !ok {
			continue
		}
		entries = append(entries, models.ActivityLog{StudentID: studentID, Timestamp: timestamp})
	}
	return entries, nil
}

// ReadClusterLabels parses a JSON object mapping cluster ids to labels.
func ReadClusterLabels(r io.Reader) (map[int]string, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode cluster labels: %w", err)
	}

	labels := make(map[int]string, len(raw))
	for key, label := range raw {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("cluster id %q: %w", key, err)
		}
		labels[id] = label
	}
	return labels, nil
}

type csvTable struct {
	columns map[string]int
	rows    [][]string
}

func (t csvTable) get(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func readTable(r io.Reader, required ...string) (csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return csvTable{}, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return csvTable{}, err
	}

	columns := make(map[string]int, len(header))
	for idx, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8ByteOrderMarker))
		if _, exists := columns[name]; !exists {
			columns[name] = idx
		}
	}
	for _, column := range required {
		if _, ok := columns[column]; !ok {
			return csvTable{}, fmt.Errorf("%w: %s", ErrMissingColumn, column)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return csvTable{}, err
	}
	return csvTable{columns: columns, rows: rows}, nil
}

// parseID accepts integer ids that were exported as floats, such as "42.0".
func parseID(raw string) (int64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return id, true
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) {
		return 0, false
	}
	return int64(value), true
}

func parseFloat(raw string) (float64, bool) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if trimmed == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func parseTimestamp(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range activityLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
