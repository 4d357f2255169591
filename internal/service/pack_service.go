package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/draft"
	"go.uber.org/zap"
)

type PackService struct {
	cubes  *CubeService
	logger *zap.SugaredLogger
}

func NewPackService(cubes *CubeService, logger *zap.SugaredLogger) *PackService {
	return &PackService{cubes: cubes, logger: logger}
}

// GeneratePack builds one sample pack from the cube's current list. A blank
// seed mints a fresh one, returned in the result.
func (s *PackService) GeneratePack(ctx context.Context, cubeID uuid.UUID, seed string) (*draft.PackResult, error) {
	return s.generate(ctx, cubeID, seed, draft.GeneratePack)
}

// ReplayPack regenerates the pack recorded under seed.
func (s *PackService) ReplayPack(ctx context.Context, cubeID uuid.UUID, seed string) (*draft.PackResult, error) {
	return s.generate(ctx, cubeID, seed, draft.ReplayPack)
}

type packFunc func(pool []domain.CardView, tmpl domain.PackTemplate, seed string) (*draft.PackResult, error)

func (s *PackService) generate(ctx context.Context, cubeID uuid.UUID, seed string, build packFunc) (*draft.PackResult, error) {
	cube, err := s.cubes.GetCube(ctx, cubeID)
	if err != nil {
		return nil, err
	}
	pool, err := s.cubes.Pool(ctx, cube)
	if err != nil {
		return nil, err
	}

	pack, err := build(pool, cube.Template(), seed)
	if err != nil {
		s.logger.Warnw("pack generation failed", "cube_id", cubeID, "seed", seed, "error", err)
		return nil, err
	}

	s.logger.Debugw("pack generated", "cube_id", cubeID, "seed", pack.Seed, "cards", len(pack.Cards))
	return pack, nil
}
