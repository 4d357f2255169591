package postgres

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 500

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *cardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Upsert(ctx context.Context, card *domain.Card) error {
	card.NameLower = domain.NormalizeName(card.Name)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(card).Error
}

func (r *cardRepository) UpsertMany(ctx context.Context, cards []*domain.Card) error {
	if len(cards) == 0 {
		return nil
	}
	for _, c := range cards {
		c.NameLower = domain.NormalizeName(c.Name)
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(cards, upsertBatchSize).Error
}

func (r *cardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	var card domain.Card
	err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &card, nil
}

func (r *cardRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Card, error) {
	unique := mapset.NewThreadUnsafeSet(ids...).ToSlice()
	cards := make([]*domain.Card, 0, len(unique))
	for start := 0; start < len(unique); start += upsertBatchSize {
		var batch []*domain.Card
		end := min(start+upsertBatchSize, len(unique))
		if err := r.db.WithContext(ctx).Where("id IN ?", unique[start:end]).Find(&batch).Error; err != nil {
			return nil, err
		}
		cards = append(cards, batch...)
	}
	return cards, nil
}

func (r *cardRepository) GetByName(ctx context.Context, nameLower string) ([]*domain.Card, error) {
	var cards []*domain.Card
	err := r.db.WithContext(ctx).
		Where("name_lower = ?", nameLower).
		Order("released_at ASC, id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Card{}).Count(&n).Error
	return n, err
}
