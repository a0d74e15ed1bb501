package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/models"
	"github.com/riodino14/edupulse-backend/internal/repository"
)

const (
	courseDiscrete = "IF-101"
	courseWeb      = "IF-202"
)

func floatPointer(v float64) *float64 {
	return &v
}

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.ChatExchange{}))
	return db
}

func grade(student int64, course, quiz, raw string) models.GradeRecord {
	names := map[string]string{
		courseDiscrete: "MATEMATIKA DISKRIT IF-48-01 [DTO]",
		courseWeb:      "PEMROGRAMAN WEB IF-48-02 [ABC]",
	}
	return models.GradeRecord{
		StudentID:  student,
		CourseKey:  course,
		CourseName: names[course],
		QuizName:   quiz,
		RawGrade:   raw,
		MaxScore:   floatPointer(100),
	}
}

// fixtureTables describes a small cohort:
//   - student 1 retakes quiz 1, skips quiz 2 and is weak in two courses
//   - student 3 holds an over-scale grade
//   - student 4 is at risk in the discrete maths class
//   - student 5 has no grades, student 99 has grades but no feature row
func fixtureTables() dataset.Tables {
	base := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return dataset.Tables{
		Grades: []models.GradeRecord{
			grade(1, courseDiscrete, "Online Quiz 1: Logika", "40"),
			grade(1, courseDiscrete, "Online Quiz 1: Logika (Remedial)", "60"),
			grade(1, courseDiscrete, "Online Quiz 2: Himpunan", ""),
			grade(1, courseDiscrete, "UTS Matematika", "80"),
			grade(1, courseWeb, "Online Quiz 1: HTML Dasar", "45"),
			grade(2, courseDiscrete, "Online Quiz 1: Logika", "95"),
			grade(3, courseDiscrete, "Online Quiz 1: Logika", "120"),
			grade(4, courseDiscrete, "UTS Matematika", "45"),
			grade(99, courseDiscrete, "Online Quiz 1: Logika", "10"),
		},
		Features: []models.StudentFeature{
			{StudentID: 1, Cluster: 0, MeanScorePct: 55, EngagementScore: 0.4, PerformanceCategory: models.PerformanceMedium},
			{StudentID: 2, Cluster: 0, MeanScorePct: 90, EngagementScore: 0.9, PerformanceCategory: models.PerformanceHigh},
			{StudentID: 3, Cluster: 1, MeanScorePct: 98, EngagementScore: 0.95, PerformanceCategory: models.PerformanceHigh},
			{StudentID: 4, Cluster: 0, MeanScorePct: 85, EngagementScore: 0.7, PerformanceCategory: models.PerformanceHigh},
			{StudentID: 5, Cluster: 0, MeanScorePct: 20, EngagementScore: 0.1, PerformanceCategory: models.PerformanceLow},
			{StudentID: 6, Cluster: 0, MeanScorePct: 40, EngagementScore: 0.2, PerformanceCategory: models.PerformanceLow},
		},
		Activity: []models.ActivityLog{
			{StudentID: 1, Timestamp: base.Add(19 * time.Hour)},
			{StudentID: 1, Timestamp: base.Add(24*time.Hour + 19*time.Hour)},
			{StudentID: 1, Timestamp: base.Add(8 * time.Hour)},
		},
		ClusterLabels: map[int]string{0: "Needs Support", 1: "Achiever"},
	}
}

func newFixtureData() repository.LearningDataRepository {
	store := dataset.NewStore(dataset.NewSnapshot(fixtureTables()))
	return repository.NewLearningDataRepository(store, dataset.Sources{})
}

func seedUser(t *testing.T, db *gorm.DB, user models.User, password string) {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	user.HashedPassword = hash
	require.NoError(t, db.Create(&user).Error)
}

func emptyData() repository.LearningDataRepository {
	return repository.NewLearningDataRepository(dataset.NewStore(nil), dataset.Sources{})
}
