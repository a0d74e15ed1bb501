package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/grading"
	"github.com/riodino14/edupulse-backend/internal/models"
	"github.com/riodino14/edupulse-backend/internal/repository"
)

func TestRecommendationServiceBuildsPlan(t *testing.T) {
	svc := NewRecommendationService(newFixtureData(), nil, zerolog.Nop())

	plan, err := svc.Recommend(context.Background(), dto.RecommendationRequest{UserID: 1, LearningStyle: "visual"})
	require.NoError(t, err)

	require.Equal(t, "Needs Support", plan.Status)
	require.Equal(t, recommendationMatch, plan.MatchPercentage)
	require.Len(t, plan.WeakTopics, 2)
	require.Equal(t, "Logika", plan.WeakTopics[0].Topic)
	require.Equal(t, 40.0, plan.WeakTopics[0].Score)
	require.Equal(t, "HTML Dasar", plan.WeakTopics[1].Topic)
	require.Equal(t, "Logika (score: 40.0)", plan.WeakSubject)

	require.Len(t, plan.Materials, 2)
	require.Equal(t, "Study: Matematika Diskrit - Logika", plan.Materials[0].Title)
	require.Equal(t, "Video", plan.Materials[0].Type)
	require.Equal(t, "https://www.youtube.com/results?search_query=Tutorial+Matematika+Diskrit+materi+Logika", plan.Materials[0].URL)

	require.Equal(t, []string{"Student 2", "Student 4", "Student 5"}, plan.PeerGroup)
	require.Equal(t, "Student 3 (Expert)", plan.Mentor)
	require.Equal(t, 52.5, plan.PredictedScore)
	require.Equal(t, "Night (around 19:00)", plan.OptimalTime)
	require.Contains(t, plan.Tips, "Logika (score: 40.0), HTML Dasar (score: 45.0)")
}

func TestRecommendationServiceFallbackForStudentWithoutGrades(t *testing.T) {
	svc := NewRecommendationService(newFixtureData(), nil, zerolog.Nop())

	plan, err := svc.Recommend(context.Background(), dto.RecommendationRequest{UserID: 5, LearningStyle: "kinesthetic"})
	require.NoError(t, err)

	require.Equal(t, []grading.WeakTopic{grading.FallbackWeakTopic()}, plan.WeakTopics)
	require.Equal(t, mentorUnavailable, plan.Mentor)
	require.Equal(t, 10.0, plan.PredictedScore)
	require.Equal(t, defaultOptimalTime, plan.OptimalTime)
	require.Len(t, plan.Materials, 1)
	require.Equal(t, "Practice/PDF", plan.Materials[0].Type)
	require.Contains(t, plan.Materials[0].URL, "https://www.google.com/search?q=Latihan+Soal+Materi+Dasar+Informatika")
}

func TestRecommendationServiceUsesStoredLearningStyle(t *testing.T) {
	db := newServiceTestDB(t)
	seedUser(t, db, models.User{Username: "1", Role: models.UserRoleStudent, LearningStyle: "Auditory"}, "secret")

	svc := NewRecommendationService(newFixtureData(), repository.NewUserRepository(db), zerolog.Nop())

	plan, err := svc.Recommend(context.Background(), dto.RecommendationRequest{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, "Podcast/Audio", plan.Materials[0].Type)
	require.Contains(t, plan.Materials[0].URL, "Penjelasan+Matematika+Diskrit")
}

func TestRecommendationServiceErrors(t *testing.T) {
	svc := NewRecommendationService(newFixtureData(), nil, zerolog.Nop())

	_, err := svc.Recommend(context.Background(), dto.RecommendationRequest{UserID: 0})
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = svc.Recommend(context.Background(), dto.RecommendationRequest{UserID: 404})
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestFindMentorTieGoesToLowestID(t *testing.T) {
	snapshot := dataset.NewSnapshot(dataset.Tables{Grades: []models.GradeRecord{
		grade(7, courseWeb, "Online Quiz 1: HTML Dasar", "90"),
		grade(3, courseWeb, "Online Quiz 1: HTML Dasar", "90"),
		grade(1, courseWeb, "Online Quiz 1: HTML Dasar", "99"),
		grade(4, courseWeb, "Online Quiz 1: HTML Dasar", "85"),
	}})

	require.Equal(t, "Student 3 (Expert)", FindMentor(snapshot, courseWeb, 1))
	require.Equal(t, "Student 1 (Expert)", FindMentor(snapshot, courseWeb, 3))
	require.Equal(t, mentorUnavailable, FindMentor(snapshot, "", 1))
}

func TestOptimalStudyTimeTieGoesToEarliestHour(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	entries := []models.ActivityLog{
		{StudentID: 1, Timestamp: day.Add(14 * time.Hour)},
		{StudentID: 1, Timestamp: day.Add(8 * time.Hour)},
	}
	require.Equal(t, "Morning (around 8:00)", OptimalStudyTime(entries))

	entries = append(entries, models.ActivityLog{StudentID: 1, Timestamp: day.Add(38 * time.Hour)})
	require.Equal(t, "Midday (around 14:00)", OptimalStudyTime(entries))
	require.Equal(t, "Night (around 2:00)", OptimalStudyTime([]models.ActivityLog{{Timestamp: day.Add(2 * time.Hour)}}))
}

func TestPredictScoreIsCapped(t *testing.T) {
	require.Equal(t, 100.0, PredictScore([]grading.WeakTopic{{Score: 95}}))
	require.Equal(t, 0.0, PredictScore(nil))
}

func TestCuratedVideosMatchesFirstKeyword(t *testing.T) {
	videos := CuratedVideos("Teori graf dan pohon")
	require.Len(t, videos, 2)
	require.Equal(t, "DkL3EoRgeq4", videos[0].VideoID)
	require.Equal(t, curatedVideoType, videos[0].Type)
	require.Equal(t, "https://www.youtube.com/watch?v=DkL3EoRgeq4", videos[0].URL)

	require.Empty(t, CuratedVideos("Basis Data"))
}
