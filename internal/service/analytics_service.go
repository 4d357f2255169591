package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/carddb"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/draft"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	cards         carddb.Index
	eloK          float64
	retries       int
	logger        *zap.SugaredLogger
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, cards carddb.Index, eloK float64, retries int, logger *zap.SugaredLogger) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		cards:         cards,
		eloK:          eloK,
		retries:       retries,
		logger:        logger,
	}
}

func (s *AnalyticsService) Get(ctx context.Context, cubeID uuid.UUID) (*domain.CubeAnalytic, error) {
	return s.analyticsRepo.GetByCubeID(ctx, cubeID)
}

// Fold adds a draft to its cube's aggregate. It does not track which drafts
// were folded already; calling it twice for one draft counts it twice.
func (s *AnalyticsService) Fold(ctx context.Context, d *domain.Draft) (*domain.CubeAnalytic, error) {
	analytic, err := updateWithRetry(ctx, s.retries,
		func(ctx context.Context) (*domain.CubeAnalytic, error) {
			return s.analyticsRepo.GetByCubeID(ctx, d.CubeID)
		},
		func(a *domain.CubeAnalytic) error {
			next, err := draft.FoldAnalytics(ctx, d, s.cards, a.Cards.Data(), s.eloK)
			if err != nil {
				return err
			}
			a.Cards = datatypes.NewJSONType(next)
			a.Drafts++
			return nil
		},
		s.analyticsRepo.Save,
	)
	if err != nil {
		s.logger.Errorw("analytics fold failed", "cube_id", d.CubeID, "draft_id", d.ID, "error", err)
		return nil, err
	}

	s.logger.Infow("draft folded into cube analytics", "cube_id", d.CubeID, "draft_id", d.ID, "drafts", analytic.Drafts)
	return analytic, nil
}
