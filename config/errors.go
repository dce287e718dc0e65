package config

import "github.com/ceyewan/orderflow/xerrors"

// 错误定义
var (
	// ErrKeyEmpty 监听的配置 key 为空
	ErrKeyEmpty = xerrors.New("config: watch key is empty")
)
