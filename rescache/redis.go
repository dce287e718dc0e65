package rescache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/xerrors"
)

// redisCache 分布式缓存实现
type redisCache struct {
	client     *redis.Client
	serializer serializer
	prefix     string
	ttl        time.Duration
	logger     clog.Logger
}

// newRedis 创建 Redis 缓存实例
func newRedis(cfg *Config, logger clog.Logger, injected *redis.Client) (Cache, error) {
	client := injected
	if client == nil {
		if cfg.Redis == nil || cfg.Redis.Addr == "" {
			return nil, ErrRedisNotConfigured
		}
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	s, err := newSerializer(cfg.Serializer)
	if err != nil {
		return nil, err
	}

	return &redisCache{
		client:     client,
		serializer: s,
		prefix:     cfg.Prefix,
		ttl:        cfg.TTL,
		logger:     logger,
	}, nil
}

func (c *redisCache) getKey(key string) string {
	return c.prefix + key
}

func (c *redisCache) Put(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return ErrKeyEmpty
	}

	data, err := c.serializer.Marshal(&entry{
		Payload:  payload,
		StoredAt: time.Now(),
	})
	if err != nil {
		return xerrors.Wrap(err, "rescache: marshal entry")
	}

	return c.client.Set(ctx, c.getKey(key), data, c.ttl).Err()
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}

	data, err := c.client.Get(ctx, c.getKey(key)).Bytes()
	if err != nil {
		if xerrors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, xerrors.Wrap(err, "rescache: redis get")
	}

	var e entry
	if err := c.serializer.Unmarshal(data, &e); err != nil {
		return nil, xerrors.Wrap(err, "rescache: unmarshal entry")
	}
	return e.Payload, nil
}
