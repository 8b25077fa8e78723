package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"app/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "cart:"

	// Panier invité abandonné après une semaine
	cartTTL = 7 * 24 * time.Hour
)

// Panier de session stocké en Redis, une clé par session, valeur JSON.
type CartRedisRepository struct {
	client *redis.Client
}

func NewCartRedisRepository(client *redis.Client) *CartRedisRepository {
	return &CartRedisRepository{client: client}
}

// Get retourne un panier vide (pas une erreur) quand la clé n'existe pas.
func (r *CartRedisRepository) Get(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	raw, err := r.client.Get(ctx, cartKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return []model.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// Valeur corrompue: on repart d'un panier vide plutôt que de bloquer
		return []model.CartItem{}, nil
	}
	return items, nil
}

func (r *CartRedisRepository) Save(ctx context.Context, sessionID string, items []model.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cartKeyPrefix+sessionID, raw, cartTTL).Err()
}

func (r *CartRedisRepository) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, cartKeyPrefix+sessionID).Err()
}
