package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"gorm.io/gorm"
)

type draftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) *draftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Create(ctx context.Context, draft *domain.Draft) error {
	if draft.Version == 0 {
		draft.Version = 1
	}
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *draftRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Draft, error) {
	var draft domain.Draft
	err := r.db.WithContext(ctx).First(&draft, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &draft, nil
}

func (r *draftRepository) GetByCubeID(ctx context.Context, cubeID uuid.UUID, limit, offset int) ([]*domain.Draft, error) {
	var drafts []*domain.Draft
	err := r.db.WithContext(ctx).
		Where("cube_id = ?", cubeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&drafts).Error
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

// Update writes the mutable parts of a draft. Cards, basics and the initial
// state are fixed at creation and never rewritten.
func (r *draftRepository) Update(ctx context.Context, draft *domain.Draft) error {
	err := compareAndSwap(ctx, r.db, &domain.Draft{}, "id", draft.ID, draft.Version, map[string]any{
		"status":       draft.Status,
		"seats":        draft.Seats,
		"completed_at": draft.CompletedAt,
	})
	if err != nil {
		return err
	}
	draft.Version++
	return nil
}
