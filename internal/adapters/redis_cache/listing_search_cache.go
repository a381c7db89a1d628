package redis_cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	searchKeyPrefix = "listings:search:"

	// generationKey меняется при каждом сбросе. Лежит вне searchKeyPrefix, чтобы SCAN+DEL его не удалял.
	generationKey = "listings:generation"
)

// CachedListingStorage кэширует результаты FindListings в Redis.
// Любое изменение объявлений сбрасывает все закэшированные выборки.
// Ошибки Redis не ломают запрос: они логируются, и вызов уходит в хранилище.
// Выборка, прочитанная до параллельного изменения, не записывается: запись идет только
// если счетчик сбросов не изменился за время запроса в базу.
type CachedListingStorage struct {
	next  port.ListingStoragePort
	cache store
	ttl   time.Duration
}

func NewCachedListingStorage(next port.ListingStoragePort, client *redis.Client, ttl time.Duration) (*CachedListingStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	return newCachedListingStorage(next, &redisStore{client: client}, ttl)
}

func newCachedListingStorage(next port.ListingStoragePort, cache store, ttl time.Duration) (*CachedListingStorage, error) {
	if next == nil {
		return nil, fmt.Errorf("listing storage cannot be nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	return &CachedListingStorage{next: next, cache: cache, ttl: ttl}, nil
}

// searchKey - sha256 от JSON запроса. ListingQuery строится из нормализованного набора, поэтому ключ стабилен.
func searchKey(query domain.ListingQuery) (string, error) {
	raw, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return searchKeyPrefix + hex.EncodeToString(sum[:]), nil
}

func (c *CachedListingStorage) FindListings(ctx context.Context, query domain.ListingQuery) ([]domain.Listing, error) {
	cacheLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedListingStorage",
		"method":    "FindListings",
	})

	key, err := searchKey(query)
	if err != nil {
		cacheLogger.Warn("Failed to build cache key, bypassing cache", port.Fields{"error": err.Error()})
		return c.next.FindListings(ctx, query)
	}

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var listings []domain.Listing
		jsonErr := json.Unmarshal(data, &listings)
		if jsonErr == nil {
			cacheLogger.Debug("Cache hit", port.Fields{"key": key, "count": len(listings)})
			return listings, nil
		}
		cacheLogger.Warn("Corrupted cache entry, reloading", port.Fields{"key": key, "error": jsonErr.Error()})
	case errors.Is(err, errCacheMiss):
		cacheLogger.Debug("Cache miss", port.Fields{"key": key})
	default:
		cacheLogger.Error("Cache read failed", err, port.Fields{"key": key})
	}

	genBefore, genErr := c.cache.Counter(ctx, generationKey)

	listings, err := c.next.FindListings(ctx, query)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		cacheLogger.Error("Cache generation read failed, result not cached", genErr, nil)
		return listings, nil
	}
	genAfter, err := c.cache.Counter(ctx, generationKey)
	if err != nil || genAfter != genBefore {
		cacheLogger.Debug("Listings changed during search, result not cached", port.Fields{"key": key})
		return listings, nil
	}

	if payload, err := json.Marshal(listings); err == nil {
		if err := c.cache.Set(ctx, key, payload, c.ttl); err != nil {
			cacheLogger.Error("Cache write failed", err, port.Fields{"key": key})
		}
	}
	return listings, nil
}

func (c *CachedListingStorage) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	return c.next.GetListing(ctx, id)
}

func (c *CachedListingStorage) CreateListing(ctx context.Context, listing *domain.Listing) error {
	if err := c.next.CreateListing(ctx, listing); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedListingStorage) UpdateListing(ctx context.Context, listing *domain.Listing) error {
	if err := c.next.UpdateListing(ctx, listing); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedListingStorage) DeleteListing(ctx context.Context, id uuid.UUID) error {
	if err := c.next.DeleteListing(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedListingStorage) AddImage(ctx context.Context, image domain.ListingImage) error {
	if err := c.next.AddImage(ctx, image); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// invalidate сначала двигает счетчик, чтобы идущие поиски не записали устаревший результат
func (c *CachedListingStorage) invalidate(ctx context.Context) {
	if _, err := c.cache.Incr(ctx, generationKey); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to bump search cache generation", err, port.Fields{
			"component": "CachedListingStorage",
		})
	}
	if err := c.cache.DeleteByPrefix(ctx, searchKeyPrefix); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to invalidate search cache", err, port.Fields{
			"component": "CachedListingStorage",
		})
	}
}
