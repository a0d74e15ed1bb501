package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/models"
)

func TestLearningDataRepositoryCurrentBeforeLoad(t *testing.T) {
	repo := NewLearningDataRepository(dataset.NewStore(nil), dataset.Sources{})

	_, err := repo.Current(context.Background())
	require.ErrorIs(t, err, ErrDatasetUnavailable)

	_, err = repo.ReplaceGrades(context.Background(), nil, 0)
	require.ErrorIs(t, err, ErrDatasetUnavailable)
}

func TestLearningDataRepositoryReplaceGradesSwapsSnapshot(t *testing.T) {
	initial := dataset.NewSnapshot(dataset.Tables{
		Grades:   []models.GradeRecord{{StudentID: 1, CourseKey: "MD-01", RawGrade: "50"}},
		Features: []models.StudentFeature{{StudentID: 1}},
	})
	store := dataset.NewStore(initial)
	repo := NewLearningDataRepository(store, dataset.Sources{})

	held, err := repo.Current(context.Background())
	require.NoError(t, err)

	next, err := repo.ReplaceGrades(context.Background(), []models.GradeRecord{{StudentID: 1, CourseKey: "AL-01", RawGrade: "90"}}, 2)
	require.NoError(t, err)
	require.Equal(t, 2, next.Quality().SkippedRows)

	require.Equal(t, []string{"MD-01"}, held.CourseKeys(), "held snapshot is unchanged")

	current, err := repo.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, next.Version(), current.Version())
	require.Len(t, current.Features(), 1)
}

func TestLearningDataRepositoryReloadKeepsSnapshotOnFailure(t *testing.T) {
	initial := dataset.NewSnapshot(dataset.Tables{})
	repo := NewLearningDataRepository(dataset.NewStore(initial), dataset.Sources{}).(*learningDataRepository)
	repo.load = func(dataset.Sources) (*dataset.Snapshot, error) {
		return nil, errors.New("disk gone")
	}

	_, err := repo.Reload(context.Background())
	require.Error(t, err)

	current, err := repo.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, initial.Version(), current.Version())

	replacement := dataset.NewSnapshot(dataset.Tables{})
	repo.load = func(dataset.Sources) (*dataset.Snapshot, error) { return replacement, nil }
	reloaded, err := repo.Reload(context.Background())
	require.NoError(t, err)
	require.Same(t, replacement, reloaded)
}
