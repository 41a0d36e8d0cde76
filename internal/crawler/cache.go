package crawler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "perfume:search:"

// PageCache stores rendered HTML by key. Get reports a miss with ok == false
// and a nil error.
type PageCache interface {
	Get(ctx context.Context, key string) (html string, ok bool, err error)
	Set(ctx context.Context, key, html string, ttl time.Duration) error
}

type RedisPageCache struct {
	client *redis.Client
}

func NewRedisPageCache(redisURL string) (*RedisPageCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisPageCache{client: redis.NewClient(opt)}, nil
}

func (c *RedisPageCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, key, html string, ttl time.Duration) error {
	return c.client.Set(ctx, key, html, ttl).Err()
}

func (c *RedisPageCache) Close() error {
	return c.client.Close()
}

// CachedFetcher serves repeat searches from the cache. Cache failures are
// logged and fall through to the wrapped fetcher. Only pages that carry the
// results container are stored, so robot checks are fetched again next run.
type CachedFetcher struct {
	next  Fetcher
	cache PageCache
	ttl   time.Duration
	base  string
	log   *zap.Logger
}

// NewCachedFetcher scopes keys by the wrapped strategy and the storefront base
// URL; pages rendered for one never answer the other.
func NewCachedFetcher(next Fetcher, cache PageCache, ttl time.Duration, base string, log *zap.Logger) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache, ttl: ttl, base: base, log: log}
}

func (f *CachedFetcher) Name() string { return f.next.Name() }

func (f *CachedFetcher) key(query string, page int) string {
	return cacheKeyPrefix + f.next.Name() + ":" + f.base + ":" + query + "|" + strconv.Itoa(page)
}

func (f *CachedFetcher) FetchSearchPage(ctx context.Context, query string, page int) (string, error) {
	key := f.key(query, page)

	html, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		f.log.Warn("page cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		f.log.Debug("page cache hit", zap.String("key", key))
		return html, nil
	}

	html, err = f.next.FetchSearchPage(ctx, query, page)
	if err != nil {
		return "", err
	}
	if _, perr := ParseSearchResults(html, f.base); perr != nil {
		f.log.Debug("page not cached", zap.String("key", key), zap.Error(perr))
		return html, nil
	}
	if err := f.cache.Set(ctx, key, html, f.ttl); err != nil {
		f.log.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
	}
	return html, nil
}

func (f *CachedFetcher) Close() error {
	err := f.next.Close()
	if c, ok := f.cache.(interface{ Close() error }); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
