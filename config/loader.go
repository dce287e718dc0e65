package config

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/xerrors"
)

// loader 实现 Loader 接口
type loader struct {
	v      *viper.Viper
	cfg    *Config
	logger clog.Logger

	mu        sync.Mutex
	watches   map[string][]chan Event
	oldValues map[string]any
}

func newLoader(cfg *Config, opts ...Option) (Loader, error) {
	options := &options{logger: clog.Discard()}
	for _, o := range opts {
		o(options)
	}

	return &loader{
		v:         viper.New(),
		cfg:       cfg,
		logger:    options.logger.WithNamespace("config"),
		watches:   make(map[string][]chan Event),
		oldValues: make(map[string]any),
	}, nil
}

// Load 按优先级加载配置：默认值 < 配置文件 < .env < 环境变量
func (l *loader) Load(ctx context.Context) error {
	for key, value := range defaults {
		l.v.SetDefault(key, value)
	}

	l.v.SetConfigName(l.cfg.Name)
	l.v.SetConfigType(l.cfg.FileType)
	for _, path := range l.cfg.Paths {
		l.v.AddConfigPath(path)
	}

	// 环境变量优先级最高，先注册确保后续读取能覆盖文件值
	l.v.SetEnvPrefix(l.cfg.EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if err := l.loadDotEnv(); err != nil {
		l.logger.Debug("no .env file loaded", clog.Error(err))
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return xerrors.Wrapf(err, "read config file %s", l.cfg.Name)
		}
		l.logger.Debug("no config file found, using defaults and environment")
	}

	l.captureCurrentValues()

	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.logger.Info("config file changed", clog.String("file", e.Name))
		l.notifyWatches()
	})
	l.v.WatchConfig()

	return nil
}

// loadDotEnv 从工作目录和各搜索路径加载 .env 文件
func (l *loader) loadDotEnv() error {
	var loaded bool
	var lastErr error

	if err := godotenv.Load(); err == nil {
		loaded = true
	} else {
		lastErr = err
	}
	for _, path := range l.cfg.Paths {
		if err := godotenv.Load(filepath.Join(path, ".env")); err == nil {
			loaded = true
		} else {
			lastErr = err
		}
	}

	if !loaded {
		return lastErr
	}
	return nil
}

// Get 根据 key 获取配置值
func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

// Unmarshal 将整个配置反序列化到结构体
func (l *loader) Unmarshal(v any) error {
	if err := l.v.Unmarshal(v); err != nil {
		return xerrors.Wrap(err, "unmarshal config")
	}
	return nil
}

// Watch 订阅指定 key 的变更
func (l *loader) Watch(ctx context.Context, key string) (<-chan Event, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}

	l.mu.Lock()
	ch := make(chan Event, 8)
	l.watches[key] = append(l.watches[key], ch)
	l.oldValues[key] = l.v.Get(key)
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.removeWatch(key, ch)
	}()

	return ch, nil
}

func (l *loader) removeWatch(key string, ch chan Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	chans := l.watches[key]
	for i, c := range chans {
		if c == ch {
			l.watches[key] = append(chans[:i], chans[i+1:]...)
			close(ch)
			break
		}
	}
	if len(l.watches[key]) == 0 {
		delete(l.watches, key)
		delete(l.oldValues, key)
	}
}

// captureCurrentValues 记录当前值作为变更检测基线，调用方不持有锁
func (l *loader) captureCurrentValues() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.watches {
		l.oldValues[key] = l.v.Get(key)
	}
}

// notifyWatches 对比基线并向订阅者推送变更事件
func (l *loader) notifyWatches() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, chans := range l.watches {
		newValue := l.v.Get(key)
		oldValue := l.oldValues[key]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}

		event := Event{
			Key:       key,
			Value:     newValue,
			OldValue:  oldValue,
			Timestamp: time.Now(),
		}
		l.oldValues[key] = newValue

		for _, ch := range chans {
			select {
			case ch <- event:
			default:
				l.logger.Warn("watch channel full, dropping event", clog.String("key", key))
			}
		}
	}
}
