package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"go.uber.org/zap"
)

type FeaturedService struct {
	queueRepo repository.FeaturedQueueRepository
	cubeRepo  repository.CubeRepository
	retries   int
	logger    *zap.SugaredLogger
}

func NewFeaturedService(queueRepo repository.FeaturedQueueRepository, cubeRepo repository.CubeRepository, retries int, logger *zap.SugaredLogger) *FeaturedService {
	return &FeaturedService{
		queueRepo: queueRepo,
		cubeRepo:  cubeRepo,
		retries:   retries,
		logger:    logger,
	}
}

func (s *FeaturedService) List(ctx context.Context) (*domain.FeaturedQueue, error) {
	return s.queueRepo.Get(ctx)
}

// Add appends a cube to the back of the queue. Only the cube's owner or an
// admin may queue it.
func (s *FeaturedService) Add(ctx context.Context, viewer *domain.Viewer, cubeID uuid.UUID) (*domain.FeaturedQueue, error) {
	cube, err := s.cubeRepo.GetByID(ctx, cubeID)
	if err != nil {
		return nil, cubeLookupError(err)
	}
	if !canManage(viewer, cube.OwnerID) {
		return nil, ErrForbidden
	}

	queue, err := s.update(ctx, func(q *domain.FeaturedQueue) error {
		return addEntry(q, domain.FeaturedEntry{CubeID: cube.ID, OwnerID: cube.OwnerID})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("cube queued for featuring", "cube_id", cubeID, "position", queue.Position(cubeID))
	return queue, nil
}

// Remove drops a queued cube. The two featured entries at the head are locked.
func (s *FeaturedService) Remove(ctx context.Context, viewer *domain.Viewer, cubeID uuid.UUID) (*domain.FeaturedQueue, error) {
	if viewer == nil {
		return nil, ErrForbidden
	}

	queue, err := s.update(ctx, func(q *domain.FeaturedQueue) error {
		pos := q.Position(cubeID)
		if pos >= 0 && !canManage(viewer, q.Entries[pos].OwnerID) {
			return ErrForbidden
		}
		return removeEntry(q, cubeID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("cube removed from featured queue", "cube_id", cubeID)
	return queue, nil
}

// Move reorders the waiting part of the queue. Admin only.
func (s *FeaturedService) Move(ctx context.Context, viewer *domain.Viewer, from, to int) (*domain.FeaturedQueue, error) {
	if viewer == nil || !viewer.IsAdmin {
		return nil, ErrForbidden
	}
	return s.update(ctx, func(q *domain.FeaturedQueue) error {
		return moveEntry(q, from, to)
	})
}

// Rotate retires the two featured cubes to the back of the queue and features
// the next two. Admin only.
func (s *FeaturedService) Rotate(ctx context.Context, viewer *domain.Viewer) (*domain.FeaturedQueue, error) {
	if viewer == nil || !viewer.IsAdmin {
		return nil, ErrForbidden
	}

	queue, err := s.update(ctx, rotateEntries)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("featured queue rotated", "featured", queue.Entries[:domain.FeaturedCount])
	return queue, nil
}

func (s *FeaturedService) update(ctx context.Context, apply func(q *domain.FeaturedQueue) error) (*domain.FeaturedQueue, error) {
	return updateWithRetry(ctx, s.retries, s.queueRepo.Get, apply, s.queueRepo.Save)
}

func addEntry(q *domain.FeaturedQueue, entry domain.FeaturedEntry) error {
	if q.Position(entry.CubeID) >= 0 {
		return domain.ErrAlreadyQueued
	}
	q.Entries = append(q.Entries, entry)
	return nil
}

func removeEntry(q *domain.FeaturedQueue, cubeID uuid.UUID) error {
	pos := q.Position(cubeID)
	if pos < 0 {
		return domain.ErrNotQueued
	}
	if pos < domain.FeaturedCount {
		return domain.ErrFeaturedLocked
	}
	q.Entries = slices.Delete(q.Entries, pos, pos+1)
	return nil
}

// moveEntry only touches positions behind the featured pair.
func moveEntry(q *domain.FeaturedQueue, from, to int) error {
	n := len(q.Entries)
	if from < domain.FeaturedCount || to < domain.FeaturedCount {
		return domain.ErrFeaturedLocked
	}
	if from >= n || to >= n {
		return domain.ErrQueuePosition
	}
	if from == to {
		return nil
	}
	entry := q.Entries[from]
	q.Entries = slices.Delete(q.Entries, from, from+1)
	q.Entries = slices.Insert(q.Entries, to, entry)
	return nil
}

func rotateEntries(q *domain.FeaturedQueue) error {
	if len(q.Entries) < 2*domain.FeaturedCount {
		return domain.ErrQueueTooShort
	}
	featured := slices.Clone(q.Entries[:domain.FeaturedCount])
	q.Entries = append(q.Entries[domain.FeaturedCount:], featured...)
	return nil
}

func canManage(viewer *domain.Viewer, ownerID uuid.UUID) bool {
	return viewer != nil && (viewer.IsAdmin || viewer.UserID == ownerID)
}
