package rescache

import "github.com/ceyewan/orderflow/xerrors"

// 错误定义
var (
	// ErrMiss 缓存未命中（键不存在或条目已过期）
	ErrMiss = xerrors.New("rescache: cache miss")

	// ErrKeyEmpty 缓存键为空（写操作不参与缓存）
	ErrKeyEmpty = xerrors.New("rescache: key is empty")

	// ErrUnknownMode 不支持的缓存模式
	ErrUnknownMode = xerrors.New("rescache: unknown mode, must be standalone or distributed")

	// ErrRedisNotConfigured 分布式模式缺少 Redis 配置
	ErrRedisNotConfigured = xerrors.New("rescache: distributed mode requires redis addr or an injected client")
)
