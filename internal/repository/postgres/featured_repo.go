package postgres

import (
	"context"
	"errors"

	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type featuredQueueRepository struct {
	db *gorm.DB
}

func NewFeaturedQueueRepository(db *gorm.DB) *featuredQueueRepository {
	return &featuredQueueRepository{db: db}
}

func (r *featuredQueueRepository) Get(ctx context.Context) (*domain.FeaturedQueue, error) {
	var queue domain.FeaturedQueue
	err := r.db.WithContext(ctx).First(&queue, "id = ?", domain.FeaturedQueueID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.FeaturedQueue{
			ID:      domain.FeaturedQueueID,
			Entries: datatypes.JSONSlice[domain.FeaturedEntry]{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &queue, nil
}

func (r *featuredQueueRepository) Save(ctx context.Context, queue *domain.FeaturedQueue) error {
	if queue.Version == 0 {
		queue.Version = 1
		if err := createFirstVersion(ctx, r.db, queue); err != nil {
			queue.Version = 0
			return err
		}
		return nil
	}

	err := compareAndSwap(ctx, r.db, &domain.FeaturedQueue{}, "id", queue.ID, queue.Version, map[string]any{
		"entries": queue.Entries,
	})
	if err != nil {
		return err
	}
	queue.Version++
	return nil
}
