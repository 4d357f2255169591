package service

import (
	"github.com/smartintruesdell/CubeCobra/internal/carddb"
	"github.com/smartintruesdell/CubeCobra/internal/config"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Auth      *AuthService
	Card      *CardService
	Cube      *CubeService
	Pack      *PackService
	Draft     *DraftService
	Analytics *AnalyticsService
	Featured  *FeaturedService
}

func NewServices(repos *repository.Repositories, cards carddb.Index, recommender Recommender, cfg *config.Config, logger *zap.SugaredLogger) *Services {
	cubes := NewCubeService(repos.Cube, cards, recommender, cfg.Draft, logger.Named("cube"))
	analytics := NewAnalyticsService(repos.Analytics, cards, cfg.Analytics.EloKFactor, cfg.Draft.UpdateRetries, logger.Named("analytics"))

	return &Services{
		Auth:      NewAuthService(repos.User, repos.Session, cfg),
		Card:      NewCardService(repos.Card, cards, cfg, logger.Named("card")),
		Cube:      cubes,
		Pack:      NewPackService(cubes, logger.Named("pack")),
		Draft:     NewDraftService(repos.Draft, cubes, analytics, cfg.Draft, logger.Named("draft")),
		Analytics: analytics,
		Featured:  NewFeaturedService(repos.Featured, repos.Cube, cfg.Draft.UpdateRetries, logger.Named("featured")),
	}
}
