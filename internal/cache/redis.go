// Package cache хранит в Redis счётчики неудачных попыток входа.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/insurtech-admin/internal/config"
)

const loginAttemptsPrefix = "login_attempts:"

// Cache обёртка над клиентом Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer создаёт клиент Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Close закрывает соединение с Redis.
func (c *Cache) Close() error {
	return c.Db.Close()
}

// Ping проверяет доступность Redis.
func (c *Cache) Ping(ctx context.Context) error {
	return c.Db.Ping(ctx).Err()
}

// IncrLoginAttempts увеличивает счётчик неудачных входов пользователя.
// Окно window отсчитывается от первой неудачи: TTL выставляется только
// при создании ключа.
func (c *Cache) IncrLoginAttempts(ctx context.Context, username string, window time.Duration) (int64, error) {
	const op = "cache.IncrLoginAttempts"
	key := loginAttemptsPrefix + username

	n, err := c.Db.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if n == 1 {
		if err := c.Db.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}
	return n, nil
}

// ResetLoginAttempts сбрасывает счётчик после успешного входа или блокировки.
func (c *Cache) ResetLoginAttempts(ctx context.Context, username string) error {
	const op = "cache.ResetLoginAttempts"
	if err := c.Db.Del(ctx, loginAttemptsPrefix+username).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
