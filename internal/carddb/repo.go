package carddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
)

// RepoIndex serves the catalog straight from the card table.
type RepoIndex struct {
	cards repository.CardRepository
}

func NewRepoIndex(cards repository.CardRepository) *RepoIndex {
	return &RepoIndex{cards: cards}
}

func (r *RepoIndex) CardFromID(ctx context.Context, id string) (*domain.Card, error) {
	card, err := r.cards.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
		}
		return nil, err
	}
	return card, nil
}

func (r *RepoIndex) CardsFromIDs(ctx context.Context, ids []string) (map[string]*domain.Card, error) {
	if len(ids) == 0 {
		return map[string]*domain.Card{}, nil
	}
	cards, err := r.cards.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return byID(cards), nil
}

func (r *RepoIndex) GetMostReasonable(ctx context.Context, name, preferredPrinting string) (*domain.Card, error) {
	versions, err := r.versions(ctx, name)
	if err != nil {
		return nil, err
	}
	card := mostReasonable(versions, preferredPrinting)
	if card == nil {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, name)
	}
	return card, nil
}

func (r *RepoIndex) AllVersions(ctx context.Context, card *domain.Card) ([]*domain.Card, error) {
	return r.versions(ctx, card.Name)
}

func (r *RepoIndex) GetIDsFromName(ctx context.Context, name string) ([]string, error) {
	versions, err := r.versions(ctx, name)
	if err != nil {
		return nil, err
	}
	return ids(versions), nil
}

func (r *RepoIndex) versions(ctx context.Context, name string) ([]*domain.Card, error) {
	versions, err := r.cards.GetByName(ctx, domain.NormalizeName(name))
	if err != nil {
		return nil, err
	}
	sortPrintings(versions)
	return versions, nil
}
