// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"market_data/internal/feature/quotes/domain/entity"
	"market_data/internal/feature/quotes/usecase"
)

// defaultTTL applies when no TTLFunc is given.
const defaultTTL = 5 * time.Minute

// CachingQuoteRepository decorates a QuoteRepository with a Redis read-through
// cache of whole per-symbol series. It implements the decorator pattern,
// transparently adding caching without modifying the underlying repository.
//
// Every symbol has a generation counter that UpsertMany bumps after the
// write commits. Cached entries carry the generation observed before the
// store was read, so an entry filled from a read that raced a write is
// ignored once the write has bumped the counter.
type CachingQuoteRepository struct {
	inner     usecase.QuoteRepository
	rdb       *redis.Client
	ttl       TTLFunc
	namespace string
}

var _ usecase.QuoteRepository = (*CachingQuoteRepository)(nil)

// cacheEntry is the cached value of one symbol's series.
type cacheEntry struct {
	Gen    int64         `json:"gen"`
	Series entity.Series `json:"series"`
}

// NewCachingQuoteRepository decorates a QuoteRepository with Redis caching.
// If ttl is nil, entries expire after 5 minutes. If namespace is empty, it uses "quotes".
// A nil rdb turns the decorator into a pass-through.
func NewCachingQuoteRepository(rdb *redis.Client, ttl TTLFunc, inner usecase.QuoteRepository, namespace string) *CachingQuoteRepository {
	if ttl == nil {
		ttl = FixedTTL(defaultTTL)
	}
	if namespace == "" {
		namespace = "quotes"
	}
	return &CachingQuoteRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertMany writes through to the underlying store and invalidates the
// cached series of every touched symbol.
func (c *CachingQuoteRepository) UpsertMany(ctx context.Context, quotes []entity.Quote) error {
	if err := c.inner.UpsertMany(ctx, quotes); err != nil {
		return err
	}
	// Exit early if Redis is not configured or nothing was written
	if c.rdb == nil || len(quotes) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	keys := make([]string, 0)
	for _, q := range quotes {
		if _, ok := seen[q.Symbol]; ok {
			continue
		}
		seen[q.Symbol] = struct{}{}
		// Best effort
		if err := c.rdb.Incr(ctx, c.genKey(q.Symbol)).Err(); err != nil {
			slog.Warn("quote cache generation bump failed", "symbol", q.Symbol, "error", err)
		}
		keys = append(keys, c.cacheKey(q.Symbol))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("quote cache invalidation failed", "keys", len(keys), "error", err)
	}
	return nil
}

// ReadSeries serves cached series from Redis and reads the misses from the
// underlying store, caching them on the way out.
func (c *CachingQuoteRepository) ReadSeries(ctx context.Context, symbols []string) (map[string]entity.Series, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil || len(symbols) == 0 {
		return c.inner.ReadSeries(ctx, symbols)
	}

	// Series keys first, then generation keys, in one MGet
	n := len(symbols)
	keys := make([]string, 2*n)
	for i, s := range symbols {
		keys[i] = c.cacheKey(s)
		keys[n+i] = c.genKey(s)
	}

	out := make(map[string]entity.Series, n)
	var missing []string
	gens := make(map[string]int64, n)

	// 1) Check cache
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil || len(vals) != len(keys) {
		if err != nil {
			slog.Warn("quote cache read failed", "error", err)
		}
		vals = make([]any, len(keys))
	}
	for i, s := range symbols {
		gen := parseGen(vals[n+i])
		gens[s] = gen

		raw, ok := vals[i].(string)
		if !ok {
			missing = append(missing, s)
			continue
		}
		var entry cacheEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			// Delete corrupted cache entry
			_ = c.rdb.Del(ctx, keys[i]).Err()
			missing = append(missing, s)
			continue
		}
		if entry.Gen != gen {
			missing = append(missing, s)
			continue
		}
		if entry.Series == nil {
			entry.Series = entity.Series{}
		}
		out[s] = entry.Series
	}
	if len(missing) == 0 {
		return out, nil
	}

	// 2) Fallback to database
	fromDB, err := c.inner.ReadSeries(ctx, missing)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache, tagged with the generation seen before the read (best effort)
	ttl := c.ttl()
	for _, s := range missing {
		series := fromDB[s]
		if series == nil {
			series = entity.Series{}
		}
		out[s] = series
		if b, err := json.Marshal(cacheEntry{Gen: gens[s], Series: series}); err == nil {
			_ = c.rdb.Set(ctx, c.cacheKey(s), b, ttl).Err()
		}
	}
	return out, nil
}

// LastDates always reads from the underlying store.
func (c *CachingQuoteRepository) LastDates(ctx context.Context, symbols []string) (map[string]string, error) {
	return c.inner.LastDates(ctx, symbols)
}

// cacheKey generates the cache key of one symbol's series.
func (c *CachingQuoteRepository) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:series:%s", c.namespace, safe(symbol))
}

// genKey generates the key of one symbol's generation counter.
// Counters have no TTL; an expired counter would revive entries tagged 0.
func (c *CachingQuoteRepository) genKey(symbol string) string {
	return fmt.Sprintf("%s:gen:%s", c.namespace, safe(symbol))
}

// safe escapes a symbol for use inside a Redis key.
// Distinct symbols always yield distinct results.
func safe(s string) string {
	return url.PathEscape(s)
}

// parseGen reads a generation counter from an MGet result. Absent counters are 0.
func parseGen(v any) int64 {
	raw, ok := v.(string)
	if !ok {
		return 0
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return gen
}
