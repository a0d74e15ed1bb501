package dataset

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/riodino14/edupulse-backend/internal/grading"
	"github.com/riodino14/edupulse-backend/internal/models"
)

// UnknownClusterLabel is reported for clusters missing from the label table.
const UnknownClusterLabel = "Unknown"

// Quality counts data problems found while loading the grade table.
type Quality struct {
	Rows           int `json:"rows"`
	AbsentGrades   int `json:"absent_grades"`
	MalformedGrade int `json:"malformed_grades"`
	OverScale      int `json:"over_scale"`
	MissingMax     int `json:"missing_max"`
	SkippedRows    int `json:"skipped_rows"`
}

// Snapshot is an immutable view over the loaded tables. Accessors return
// copies so callers cannot mutate shared state.
type Snapshot struct {
	version       string
	loadedAt      time.Time
	grades        []models.GradeRecord
	features      []models.StudentFeature
	activity      []models.ActivityLog
	clusterLabels map[int]string
	quality       Quality

	gradesByStudent   map[int64][]int
	gradesByCourse    map[string][]int
	featureByStudent  map[int64]int
	activityByStudent map[int64][]int
}

// Tables groups the raw inputs of a snapshot.
type Tables struct {
	Grades        []models.GradeRecord
	Features      []models.StudentFeature
	Activity      []models.ActivityLog
	ClusterLabels map[int]string
	// SkippedRows counts grade rows dropped for an unreadable student id.
	SkippedRows int
}

// NewSnapshot indexes the tables and assigns a fresh version.
func NewSnapshot(tables Tables) *Snapshot {
	s := &Snapshot{
		version:           uuid.NewString(),
		loadedAt:          time.Now().UTC(),
		grades:            append([]models.GradeRecord(nil), tables.Grades...),
		features:          append([]models.StudentFeature(nil), tables.Features...),
		activity:          append([]models.ActivityLog(nil), tables.Activity...),
		clusterLabels:     make(map[int]string, len(tables.ClusterLabels)),
		gradesByStudent:   make(map[int64][]int),
		gradesByCourse:    make(map[string][]int),
		featureByStudent:  make(map[int64]int, len(tables.Features)),
		activityByStudent: make(map[int64][]int),
	}

	for cluster, label := range tables.ClusterLabels {
		s.clusterLabels[cluster] = label
	}

	for idx, record := range s.grades {
		s.gradesByStudent[record.StudentID] = append(s.gradesByStudent[record.StudentID], idx)
		s.gradesByCourse[record.CourseKey] = append(s.gradesByCourse[record.CourseKey], idx)
	}
	for idx, feature := range s.features {
		if _, exists := s.featureByStudent[feature.StudentID]; !exists {
			s.featureByStudent[feature.StudentID] = idx
		}
	}
	for idx, entry := range s.activity {
		s.activityByStudent[entry.StudentID] = append(s.activityByStudent[entry.StudentID], idx)
	}

	s.quality = assessQuality(s.grades)
	s.quality.SkippedRows = tables.SkippedRows
	return s
}

// WithGrades returns a new snapshot sharing every table except the grades.
func (s *Snapshot) WithGrades(grades []models.GradeRecord, skipped int) *Snapshot {
	return NewSnapshot(Tables{
		Grades:        grades,
		SkippedRows:   skipped,
		Features:      s.features,
		Activity:      s.activity,
		ClusterLabels: s.clusterLabels,
	})
}

func assessQuality(grades []models.GradeRecord) Quality {
	quality := Quality{Rows: len(grades)}
	for _, record := range grades {
		grade := grading.ParseGrade(record.RawGrade)
		switch grade.Status {
		case grading.GradeAbsent:
			quality.AbsentGrades++
		case grading.GradeMalformed:
			quality.MalformedGrade++
		}
		if grade.ExceedsScale() {
			quality.OverScale++
		}
		if record.MaxScore == nil || *record.MaxScore <= 0 {
			quality.MissingMax++
		}
	}
	return quality
}

// Version identifies the snapshot; it changes on every reload.
func (s *Snapshot) Version() string { return s.version }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Quality reports the data problems found in the grade table.
func (s *Snapshot) Quality() Quality { return s.quality }

// Grades returns every grade record in file order.
func (s *Snapshot) Grades() []models.GradeRecord {
	return append([]models.GradeRecord(nil), s.grades...)
}

// GradesByStudent returns a student's records in file order.
func (s *Snapshot) GradesByStudent(studentID int64) []models.GradeRecord {
	return s.pick(s.gradesByStudent[studentID])
}

// GradesByCourse returns a course's records in file order.
func (s *Snapshot) GradesByCourse(courseKey string) []models.GradeRecord {
	return s.pick(s.gradesByCourse[courseKey])
}

// GradesByStudentCourse returns one student's records for one course.
func (s *Snapshot) GradesByStudentCourse(studentID int64, courseKey string) []models.GradeRecord {
	records := make([]models.GradeRecord, 0)
	for _, idx := range s.gradesByStudent[studentID] {
		if s.grades[idx].CourseKey == courseKey {
			records = append(records, s.grades[idx])
		}
	}
	return records
}

func (s *Snapshot) pick(indices []int) []models.GradeRecord {
	records := make([]models.GradeRecord, 0, len(indices))
	for _, idx := range indices {
		records = append(records, s.grades[idx])
	}
	return records
}

// CourseKeys returns every course key, sorted.
func (s *Snapshot) CourseKeys() []string {
	keys := make([]string, 0, len(s.gradesByCourse))
	for key := range s.gradesByCourse {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Feature returns the feature row of a student.
func (s *Snapshot) Feature(studentID int64) (models.StudentFeature, bool) {
	idx, ok := s.featureByStudent[studentID]
	if !ok {
		return models.StudentFeature{}, false
	}
	return s.features[idx], true
}

// Features returns every feature row in file order.
func (s *Snapshot) Features() []models.StudentFeature {
	return append([]models.StudentFeature(nil), s.features...)
}

// ActivityByStudent returns the activity log entries of a student.
func (s *Snapshot) ActivityByStudent(studentID int64) []models.ActivityLog {
	indices := s.activityByStudent[studentID]
	entries := make([]models.ActivityLog, 0, len(indices))
	for _, idx := range indices {
		entries = append(entries, s.activity[idx])
	}
	return entries
}

// ClusterLabel names a cluster id.
func (s *Snapshot) ClusterLabel(cluster int) string {
	if label, ok := s.clusterLabels[cluster]; ok && label != "" {
		return label
	}
	return UnknownClusterLabel
}
