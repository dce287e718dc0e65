package breaker

import (
	"sync"
	"time"

	"github.com/ceyewan/orderflow/clog"
)

// registry 熔断器实现（非导出）
//
// 按依赖名管理独立的状态机，首次使用时惰性创建，
// 状态机在进程生命周期内常驻。
type registry struct {
	cfg    *Config
	logger clog.Logger
	now    func() time.Time

	// 依赖级状态机管理
	machines sync.Map // map[string]*machine
}

// machine 单个依赖的熔断状态机
//
// 失败率判定与状态迁移在同一把锁内完成，
// 并发调用方不会各自独立触发 CLOSED→OPEN 迁移，
// 半开状态下也不会放行多个并发探测。
type machine struct {
	mu       sync.Mutex
	state    State
	window   *Window
	openedAt time.Time
	probing  bool // HALF_OPEN 下已有探测在途
}

func newRegistry(cfg *Config, logger clog.Logger, now func() time.Time) *registry {
	return &registry{
		cfg:    cfg,
		logger: logger,
		now:    now,
	}
}

// Allow 判定是否允许对指定依赖发起一次调用
func (r *registry) Allow(name string) (bool, error) {
	if name == "" {
		return false, ErrKeyEmpty
	}

	m := r.getOrCreate(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateClosed:
		// 每次放行前先检查窗口，失败率越限立即熔断并拒绝本次调用
		if m.window.Len() >= r.cfg.MinSamples && m.window.ErrorRate() >= r.cfg.FailureRatio {
			r.transition(name, m, StateOpen)
			m.openedAt = r.now()
			rejectionsTotal.WithLabelValues(name).Inc()
			return false, ErrOpenState
		}
		return false, nil

	case StateOpen:
		if r.now().Sub(m.openedAt) >= r.cfg.Cooldown {
			// 冷却结束，放行唯一一个探测调用
			r.transition(name, m, StateHalfOpen)
			m.probing = true
			return true, nil
		}
		rejectionsTotal.WithLabelValues(name).Inc()
		return false, ErrOpenState

	case StateHalfOpen:
		// 探测在途，其余调用一律拒绝
		rejectionsTotal.WithLabelValues(name).Inc()
		return false, ErrOpenState
	}

	return false, nil
}

// Record 记录一次调用结果
func (r *registry) Record(name string, success bool, probe bool) {
	if name == "" {
		return
	}

	m := r.getOrCreate(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.window.Record(success)

	if probe && m.probing {
		m.probing = false
		if success {
			// 探测成功：闭合并清空窗口，避免旧历史立即再次触发熔断
			r.transition(name, m, StateClosed)
			m.window.Reset()
		} else {
			// 探测失败：重新打开并重启冷却计时，窗口保留历史
			r.transition(name, m, StateOpen)
			m.openedAt = r.now()
		}
	}
}

// State 获取指定依赖的熔断器状态
func (r *registry) State(name string) State {
	val, ok := r.machines.Load(name)
	if !ok {
		return StateClosed
	}
	m := val.(*machine)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// getOrCreate 获取或创建指定依赖的状态机
func (r *registry) getOrCreate(name string) *machine {
	if val, ok := r.machines.Load(name); ok {
		return val.(*machine)
	}

	m := &machine{
		state:  StateClosed,
		window: NewWindow(r.cfg.WindowSize),
	}
	actual, loaded := r.machines.LoadOrStore(name, m)
	if loaded {
		return actual.(*machine)
	}

	r.logger.Debug("breaker created for dependency", clog.String("dependency", name))
	return m
}

// transition 执行状态迁移，调用方需持有 m.mu
func (r *registry) transition(name string, m *machine, to State) {
	from := m.state
	if from == to {
		return
	}
	m.state = to

	transitionsTotal.WithLabelValues(name, from.String(), to.String()).Inc()
	r.logger.Info("breaker state changed",
		clog.String("dependency", name),
		clog.String("from", from.String()),
		clog.String("to", to.String()),
		clog.Float64("error_rate", m.window.ErrorRate()),
		clog.Int("samples", m.window.Len()))
}
