package db

import (
	"context"
	"time"

	"app/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis ouvre le client Redis (panier de session) et vérifie
// la connexion avec un ping borné.
func ConnectRedis(cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
