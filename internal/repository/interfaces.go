package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleVersion means the record changed after it was read. Callers may
	// re-read and retry.
	ErrStaleVersion = errors.New("record was modified concurrently")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
}

type SessionRepository interface {
	Replace(ctx context.Context, session *domain.UserSession) error
	Active(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.UserSession, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}

type CardRepository interface {
	Upsert(ctx context.Context, card *domain.Card) error
	UpsertMany(ctx context.Context, cards []*domain.Card) error
	GetByID(ctx context.Context, id string) (*domain.Card, error)
	// GetByIDs returns the cards that exist; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Card, error)
	GetByName(ctx context.Context, nameLower string) ([]*domain.Card, error)
	Count(ctx context.Context) (int64, error)
}

// Update methods below compare the Version the caller read, write every
// mutable field in one statement and bump Version on success. A mismatch
// returns ErrStaleVersion and writes nothing.

type CubeRepository interface {
	Create(ctx context.Context, cube *domain.Cube) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cube, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Cube, error)
	Update(ctx context.Context, cube *domain.Cube) error
}

type DraftRepository interface {
	Create(ctx context.Context, draft *domain.Draft) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Draft, error)
	GetByCubeID(ctx context.Context, cubeID uuid.UUID, limit, offset int) ([]*domain.Draft, error)
	Update(ctx context.Context, draft *domain.Draft) error
}

type AnalyticsRepository interface {
	// GetByCubeID returns an empty aggregate with Version 0 when none exists.
	GetByCubeID(ctx context.Context, cubeID uuid.UUID) (*domain.CubeAnalytic, error)
	Save(ctx context.Context, analytic *domain.CubeAnalytic) error
}

type FeaturedQueueRepository interface {
	// Get returns an empty queue with Version 0 when none has been stored.
	Get(ctx context.Context) (*domain.FeaturedQueue, error)
	Save(ctx context.Context, queue *domain.FeaturedQueue) error
}

type Repositories struct {
	User      UserRepository
	Session   SessionRepository
	Card      CardRepository
	Cube      CubeRepository
	Draft     DraftRepository
	Analytics AnalyticsRepository
	Featured  FeaturedQueueRepository
}
