package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/models"
)

// ErrDatasetUnavailable is returned before the first successful load.
var ErrDatasetUnavailable = errors.New("learning data is not loaded")

// LearningDataRepository hands out consistent snapshots of the analytics tables.
type LearningDataRepository interface {
	Current(ctx context.Context) (*dataset.Snapshot, error)
	Reload(ctx context.Context) (*dataset.Snapshot, error)
	ReplaceGrades(ctx context.Context, grades []models.GradeRecord, skipped int) (*dataset.Snapshot, error)
}

type learningDataRepository struct {
	store   *dataset.Store
	sources dataset.Sources
	load    func(dataset.Sources) (*dataset.Snapshot, error)
	writeMu sync.Mutex
}

// NewLearningDataRepository constructs a repository over a snapshot store.
// The sources are re-read on Reload.
func NewLearningDataRepository(store *dataset.Store, sources dataset.Sources) LearningDataRepository {
	return &learningDataRepository{store: store, sources: sources, load: dataset.Load}
}

func (r *learningDataRepository) Current(ctx context.Context) (*dataset.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot := r.store.Snapshot()
	if snapshot == nil {
		return nil, ErrDatasetUnavailable
	}
	return snapshot, nil
}

func (r *learningDataRepository) Reload(ctx context.Context) (*dataset.Snapshot, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot, err := r.load(r.sources)
	if err != nil {
		return nil, fmt.Errorf("reload learning data: %w", err)
	}
	r.store.Replace(snapshot)
	return snapshot, nil
}

func (r *learningDataRepository) ReplaceGrades(ctx context.Context, grades []models.GradeRecord, skipped int) (*dataset.Snapshot, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}

	next := current.WithGrades(grades, skipped)
	r.store.Replace(next)
	return next, nil
}
