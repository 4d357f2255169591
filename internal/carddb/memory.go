package carddb

import (
	"context"
	"fmt"
	"slices"

	"github.com/smartintruesdell/CubeCobra/internal/domain"
)

// MemoryIndex holds a fixed catalog in memory.
type MemoryIndex struct {
	byID   map[string]*domain.Card
	byName map[string][]*domain.Card
}

func NewMemoryIndex(cards ...*domain.Card) *MemoryIndex {
	idx := &MemoryIndex{
		byID:   make(map[string]*domain.Card, len(cards)),
		byName: make(map[string][]*domain.Card),
	}
	for _, c := range cards {
		key := domain.NormalizeName(c.Name)
		idx.byID[c.ID] = c
		idx.byName[key] = append(idx.byName[key], c)
	}
	for _, versions := range idx.byName {
		sortPrintings(versions)
	}
	return idx
}

func (m *MemoryIndex) CardFromID(ctx context.Context, id string) (*domain.Card, error) {
	card, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return card, nil
}

func (m *MemoryIndex) CardsFromIDs(ctx context.Context, ids []string) (map[string]*domain.Card, error) {
	out := make(map[string]*domain.Card, len(ids))
	for _, id := range ids {
		if card, ok := m.byID[id]; ok {
			out[id] = card
		}
	}
	return out, nil
}

func (m *MemoryIndex) GetMostReasonable(ctx context.Context, name, preferredPrinting string) (*domain.Card, error) {
	card := mostReasonable(m.byName[domain.NormalizeName(name)], preferredPrinting)
	if card == nil {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, name)
	}
	return card, nil
}

func (m *MemoryIndex) AllVersions(ctx context.Context, card *domain.Card) ([]*domain.Card, error) {
	return slices.Clone(m.byName[domain.NormalizeName(card.Name)]), nil
}

func (m *MemoryIndex) GetIDsFromName(ctx context.Context, name string) ([]string, error) {
	return ids(m.byName[domain.NormalizeName(name)]), nil
}
