package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"gorm.io/gorm"
)

type cubeRepository struct {
	db *gorm.DB
}

func NewCubeRepository(db *gorm.DB) *cubeRepository {
	return &cubeRepository{db: db}
}

func (r *cubeRepository) Create(ctx context.Context, cube *domain.Cube) error {
	if cube.Version == 0 {
		cube.Version = 1
	}
	return r.db.WithContext(ctx).Create(cube).Error
}

func (r *cubeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cube, error) {
	var cube domain.Cube
	err := r.db.WithContext(ctx).First(&cube, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cube, nil
}

func (r *cubeRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Cube, error) {
	var cubes []*domain.Cube
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&cubes).Error
	if err != nil {
		return nil, err
	}
	return cubes, nil
}

func (r *cubeRepository) Update(ctx context.Context, cube *domain.Cube) error {
	err := compareAndSwap(ctx, r.db, &domain.Cube{}, "id", cube.ID, cube.Version, map[string]any{
		"name":          cube.Name,
		"cards":         cube.Cards,
		"basics":        cube.Basics,
		"pack_template": cube.PackTemplate,
	})
	if err != nil {
		return err
	}
	cube.Version++
	return nil
}
