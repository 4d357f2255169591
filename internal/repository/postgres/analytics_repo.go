package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *analyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetByCubeID(ctx context.Context, cubeID uuid.UUID) (*domain.CubeAnalytic, error) {
	var analytic domain.CubeAnalytic
	err := r.db.WithContext(ctx).First(&analytic, "cube_id = ?", cubeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.CubeAnalytic{
			CubeID: cubeID,
			Cards:  datatypes.NewJSONType(map[string]domain.CardAnalytic{}),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &analytic, nil
}

func (r *analyticsRepository) Save(ctx context.Context, analytic *domain.CubeAnalytic) error {
	if analytic.Version == 0 {
		analytic.Version = 1
		if err := createFirstVersion(ctx, r.db, analytic); err != nil {
			analytic.Version = 0
			return err
		}
		return nil
	}

	err := compareAndSwap(ctx, r.db, &domain.CubeAnalytic{}, "cube_id", analytic.CubeID, analytic.Version, map[string]any{
		"cards":  analytic.Cards,
		"drafts": analytic.Drafts,
	})
	if err != nil {
		return err
	}
	analytic.Version++
	return nil
}
