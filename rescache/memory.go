package rescache

import (
	"context"

	"github.com/maypok86/otter/v2"

	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/xerrors"
)

// memoryCache 进程内缓存实现
type memoryCache struct {
	cache  *otter.Cache[string, []byte]
	logger clog.Logger
}

// newMemory 创建进程内缓存实例
func newMemory(cfg *Config, logger clog.Logger) (Cache, error) {
	// 写入过期策略：过期时间从写入开始计算，读取不重置 TTL，
	// 与规格中 "now - insertion_timestamp > TTL 即过期" 的语义一致。
	// 过期条目由 otter 在访问时惰性判定为未命中。
	opts := &otter.Options[string, []byte]{
		MaximumSize:      cfg.Capacity,
		ExpiryCalculator: otter.ExpiryWriting[string, []byte](cfg.TTL),
	}

	cache, err := otter.New(opts)
	if err != nil {
		return nil, xerrors.Wrap(err, "rescache: failed to build otter cache")
	}

	return &memoryCache{cache: cache, logger: logger}, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return ErrKeyEmpty
	}
	c.cache.Set(key, payload)
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}
	payload, ok := c.cache.GetIfPresent(key)
	if !ok {
		return nil, ErrMiss
	}
	return payload, nil
}
