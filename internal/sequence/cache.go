package sequence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"terminal-terrace/journal-wiki/internal/metrics"
)

const (
	generationKeyPrefix = "sequence:gen:"
	neighborsKeyPrefix  = "sequence:neighbors:"
	defaultNeighborTTL  = 5 * time.Minute
)

// NeighborCache 用 Redis 缓存相邻文章查询结果
//
// 缓存项存放在以日志当前代数为键的 hash 中。写入方在事务提交后递增代数，
// 基于旧数据计算的读者只能写到已无人读取的旧代数下。
// Redis 出错时记录日志并按未命中处理。
type NeighborCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewNeighborCache(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *NeighborCache {
	if ttl <= 0 {
		ttl = defaultNeighborTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NeighborCache{client: client, ttl: ttl, logger: logger}
}

func generationKey(journalID uint) string {
	return generationKeyPrefix + strconv.FormatUint(uint64(journalID), 10)
}

func neighborsKey(journalID uint, generation int64) string {
	return fmt.Sprintf("%s%d:%d", neighborsKeyPrefix, journalID, generation)
}

// Generation 日志当前代数，从未递增过时为 0
func (c *NeighborCache) Generation(ctx context.Context, journalID uint) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(journalID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		metrics.NeighborCacheTotal.WithLabelValues("error").Inc()
		c.logger.Warn("neighbor cache unavailable", "journal_id", journalID, "error", err)
		return 0, err
	}
	return gen, nil
}

// Get looks up the cached neighbors of articleID under generation.
func (c *NeighborCache) Get(ctx context.Context, journalID uint, generation int64, articleID uint) (Neighbors, bool) {
	field := strconv.FormatUint(uint64(articleID), 10)
	raw, err := c.client.HGet(ctx, neighborsKey(journalID, generation), field).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.NeighborCacheTotal.WithLabelValues("miss").Inc()
		return Neighbors{}, false
	}
	if err != nil {
		metrics.NeighborCacheTotal.WithLabelValues("error").Inc()
		c.logger.Warn("neighbor cache read failed", "journal_id", journalID, "article_id", articleID, "error", err)
		return Neighbors{}, false
	}

	var n Neighbors
	if err := json.Unmarshal(raw, &n); err != nil {
		metrics.NeighborCacheTotal.WithLabelValues("error").Inc()
		return Neighbors{}, false
	}
	metrics.NeighborCacheTotal.WithLabelValues("hit").Inc()
	return n, true
}

// Put 写入指定代数下的缓存
func (c *NeighborCache) Put(ctx context.Context, journalID uint, generation int64, articleID uint, n Neighbors) {
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}

	key := neighborsKey(journalID, generation)
	field := strconv.FormatUint(uint64(articleID), 10)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, raw)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		c.logger.Warn("neighbor cache write failed", "journal_id", journalID, "article_id", articleID, "error", err)
	}
}

// Invalidate 废弃日志的全部缓存
func (c *NeighborCache) Invalidate(ctx context.Context, journalID uint) {
	if err := c.client.Incr(ctx, generationKey(journalID)).Err(); err != nil {
		c.logger.Warn("neighbor cache invalidation failed", "journal_id", journalID, "error", err)
	}
}
