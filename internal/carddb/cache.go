package carddb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"go.uber.org/zap"
)

const DefaultCacheTTL = 6 * time.Hour

// CachedIndex puts a redis read-through cache in front of id and name lookups.
// Redis failures are logged and fall through to the wrapped index.
type CachedIndex struct {
	Index
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewCachedIndex(next Index, rdb *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedIndex {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedIndex{Index: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedIndex) CardFromID(ctx context.Context, id string) (*domain.Card, error) {
	key := cardKey(id)

	var card domain.Card
	if c.load(ctx, key, &card) {
		card.NameLower = domain.NormalizeName(card.Name)
		return &card, nil
	}

	found, err := c.Index.CardFromID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, found)
	return found, nil
}

// CardsFromIDs reads every id with one MGET and asks the wrapped index only
// for the ids redis did not have.
func (c *CachedIndex) CardsFromIDs(ctx context.Context, ids []string) (map[string]*domain.Card, error) {
	out := make(map[string]*domain.Card, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cardKey(id)
	}

	missing := ids
	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warnw("card cache batch read failed", "keys", len(keys), "error", err)
	} else {
		missing = nil
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				missing = append(missing, ids[i])
				continue
			}
			var card domain.Card
			if err := json.Unmarshal([]byte(raw), &card); err != nil {
				c.logger.Warnw("card cache entry unreadable", "key", keys[i], "error", err)
				missing = append(missing, ids[i])
				continue
			}
			card.NameLower = domain.NormalizeName(card.Name)
			out[ids[i]] = &card
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	found, err := c.Index.CardsFromIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, card := range found {
		out[id] = card
		c.store(ctx, cardKey(id), card)
	}
	return out, nil
}

func (c *CachedIndex) GetIDsFromName(ctx context.Context, name string) ([]string, error) {
	key := "card:name:" + domain.NormalizeName(name)

	var cached []string
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	found, err := c.Index.GetIDsFromName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		c.store(ctx, key, found)
	}
	return found, nil
}

func cardKey(id string) string {
	return "card:id:" + id
}

func (c *CachedIndex) load(ctx context.Context, key string, v any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("card cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.logger.Warnw("card cache entry unreadable", "key", key, "error", err)
		return false
	}
	return true
}

func (c *CachedIndex) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warnw("card cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warnw("card cache write failed", "key", key, "error", err)
	}
}
