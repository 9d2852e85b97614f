package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/pkg/logger"
)

const keyPrefix = "pos:products:"

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache caches outlet product lists in redis.
func NewRedisProductCache(client *redis.Client, ttl time.Duration) domainRepo.ProductCache {
	return &redisProductCache{client: client, ttl: ttl}
}

func productsKey(outlet enum.Outlet) string {
	return keyPrefix + outlet.String()
}

func (c *redisProductCache) GetProducts(ctx context.Context, outlet enum.Outlet) ([]entity.Product, bool) {
	data, err := c.client.Get(ctx, productsKey(outlet)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithContext(ctx).Warn("redis get failed", "outlet", outlet, "error", err)
		}
		return nil, false
	}

	var products []entity.Product
	if err := json.Unmarshal(data, &products); err != nil {
		logger.WithContext(ctx).Warn("redis unmarshal failed, dropping entry", "outlet", outlet, "error", err)
		c.Invalidate(ctx, outlet)
		return nil, false
	}
	return products, true
}

func (c *redisProductCache) SetProducts(ctx context.Context, outlet enum.Outlet, products []entity.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		logger.WithContext(ctx).Warn("redis marshal failed", "outlet", outlet, "error", err)
		return
	}
	if err := c.client.Set(ctx, productsKey(outlet), data, c.ttl).Err(); err != nil {
		logger.WithContext(ctx).Warn("redis set failed", "outlet", outlet, "error", err)
	}
}

func (c *redisProductCache) Invalidate(ctx context.Context, outlet enum.Outlet) {
	if err := c.client.Del(ctx, productsKey(outlet)).Err(); err != nil {
		logger.WithContext(ctx).Warn("redis del failed", "outlet", outlet, "error", err)
	}
}

type noopProductCache struct{}

// NewNoopProductCache is used when no redis address is configured.
func NewNoopProductCache() domainRepo.ProductCache {
	return noopProductCache{}
}

func (noopProductCache) GetProducts(context.Context, enum.Outlet) ([]entity.Product, bool) {
	return nil, false
}

func (noopProductCache) SetProducts(context.Context, enum.Outlet, []entity.Product) {}

func (noopProductCache) Invalidate(context.Context, enum.Outlet) {}

// NewRedisClient connects and pings redis.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	slog.Info("connected to redis", "addr", addr)
	return client, nil
}
