package breaker

import (
	"sync"
	"testing"
	"time"

	"github.com/ceyewan/orderflow/xerrors"
)

// fakeClock 可手动推进的测试时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(t *testing.T, clock *fakeClock) Breaker {
	t.Helper()
	brk, err := New(&Config{
		Cooldown:     30 * time.Second,
		FailureRatio: 0.5,
		WindowSize:   10,
		MinSamples:   5,
	}, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("New should not fail: %v", err)
	}
	return brk
}

// record 模拟一次放行后的调用并记录结果
func record(t *testing.T, brk Breaker, name string, success bool) {
	t.Helper()
	probe, err := brk.Allow(name)
	if err != nil {
		t.Fatalf("Allow(%s) unexpectedly rejected: %v", name, err)
	}
	brk.Record(name, success, probe)
}

// TestNewNilConfig 测试 nil 配置
func TestNewNilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) should return error")
	}
}

// TestNewInvalidMinSamples 测试 MinSamples 越界
func TestNewInvalidMinSamples(t *testing.T) {
	_, err := New(&Config{WindowSize: 5, MinSamples: 6})
	if !xerrors.Is(err, ErrMinSamplesTooLarge) {
		t.Fatalf("expected ErrMinSamplesTooLarge, got: %v", err)
	}
}

// TestAllowEmptyName 测试依赖名为空
func TestAllowEmptyName(t *testing.T) {
	brk := newTestBreaker(t, newFakeClock())
	if _, err := brk.Allow(""); !xerrors.Is(err, ErrKeyEmpty) {
		t.Fatalf("expected ErrKeyEmpty, got: %v", err)
	}
}

// TestTripOnErrorRate 窗口 N=10 M=5 R=0.5：5 次调用中 3 次失败后必须熔断
func TestTripOnErrorRate(t *testing.T) {
	brk := newTestBreaker(t, newFakeClock())

	record(t, brk, "product", true)
	record(t, brk, "product", false)
	record(t, brk, "product", false)
	record(t, brk, "product", true)
	record(t, brk, "product", false)

	// 第六次调用在放行前检查窗口（3/5 = 0.6 >= 0.5），应当场熔断并拒绝
	if _, err := brk.Allow("product"); !xerrors.Is(err, ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got: %v", err)
	}
	if state := brk.State("product"); state != StateOpen {
		t.Fatalf("State: got %v, want open", state)
	}

	// 熔断期间不再放行
	if _, err := brk.Allow("product"); !xerrors.Is(err, ErrOpenState) {
		t.Fatalf("expected ErrOpenState while open, got: %v", err)
	}
}

// TestBelowMinSamples 样本不足时失败率不触发熔断
func TestBelowMinSamples(t *testing.T) {
	brk := newTestBreaker(t, newFakeClock())

	// 4 次全失败，但 4 < MinSamples=5
	for i := 0; i < 4; i++ {
		record(t, brk, "customer", false)
	}

	if _, err := brk.Allow("customer"); err != nil {
		t.Fatalf("breaker should stay closed below min samples, got: %v", err)
	}
}

// TestCooldownAndProbeSuccess 冷却结束后放行唯一探测，探测成功闭合
func TestCooldownAndProbeSuccess(t *testing.T) {
	clock := newFakeClock()
	brk := newTestBreaker(t, clock)

	for i := 0; i < 5; i++ {
		record(t, brk, "order", false)
	}
	if _, err := brk.Allow("order"); !xerrors.Is(err, ErrOpenState) {
		t.Fatal("breaker should be open")
	}

	// 冷却未到：仍然拒绝
	clock.Advance(29 * time.Second)
	if _, err := brk.Allow("order"); !xerrors.Is(err, ErrOpenState) {
		t.Fatal("no probe allowed before cooldown elapses")
	}

	// 冷却到期：放行一个探测
	clock.Advance(2 * time.Second)
	probe, err := brk.Allow("order")
	if err != nil {
		t.Fatalf("probe should be allowed after cooldown: %v", err)
	}
	if !probe {
		t.Fatal("call after cooldown should be marked as probe")
	}
	if state := brk.State("order"); state != StateHalfOpen {
		t.Fatalf("State: got %v, want half_open", state)
	}

	// 探测在途期间其余调用被拒绝
	if _, err := brk.Allow("order"); !xerrors.Is(err, ErrOpenState) {
		t.Fatal("only one probe allowed in half-open")
	}

	// 探测成功：闭合并清空窗口
	brk.Record("order", true, probe)
	if state := brk.State("order"); state != StateClosed {
		t.Fatalf("State after probe success: got %v, want closed", state)
	}
	if _, err := brk.Allow("order"); err != nil {
		t.Fatalf("closed breaker should allow calls: %v", err)
	}
}

// TestProbeFailureReopens 探测失败重新打开并重启冷却
func TestProbeFailureReopens(t *testing.T) {
	clock := newFakeClock()
	brk := newTestBreaker(t, clock)

	for i := 0; i < 5; i++ {
		record(t, brk, "cart", false)
	}
	_, _ = brk.Allow("cart") // 触发熔断

	clock.Advance(31 * time.Second)
	probe, err := brk.Allow("cart")
	if err != nil || !probe {
		t.Fatalf("probe expected, got probe=%v err=%v", probe, err)
	}

	brk.Record("cart", false, probe)
	if state := brk.State("cart"); state != StateOpen {
		t.Fatalf("State after probe failure: got %v, want open", state)
	}

	// 冷却重新计时：原冷却时长的一半后仍拒绝
	clock.Advance(15 * time.Second)
	if _, err := brk.Allow("cart"); !xerrors.Is(err, ErrOpenState) {
		t.Fatal("cooldown must restart after failed probe")
	}

	clock.Advance(16 * time.Second)
	if probe, err := brk.Allow("cart"); err != nil || !probe {
		t.Fatalf("second probe expected after restarted cooldown, got probe=%v err=%v", probe, err)
	}
}

// TestPerDependencyIsolation 依赖之间互不影响
func TestPerDependencyIsolation(t *testing.T) {
	brk := newTestBreaker(t, newFakeClock())

	for i := 0; i < 5; i++ {
		record(t, brk, "product", false)
	}
	_, _ = brk.Allow("product")

	if state := brk.State("product"); state != StateOpen {
		t.Fatal("product breaker should be open")
	}
	if state := brk.State("customer"); state != StateClosed {
		t.Fatal("customer breaker must be unaffected")
	}
	if _, err := brk.Allow("customer"); err != nil {
		t.Fatalf("customer calls should pass: %v", err)
	}
}

// TestConcurrentSingleProbe 并发调用下半开状态只放行一个探测
func TestConcurrentSingleProbe(t *testing.T) {
	clock := newFakeClock()
	brk := newTestBreaker(t, clock)

	for i := 0; i < 5; i++ {
		record(t, brk, "notification", false)
	}
	_, _ = brk.Allow("notification")
	clock.Advance(31 * time.Second)

	const goroutines = 32
	var wg sync.WaitGroup
	var probes int32
	var mu sync.Mutex

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			probe, err := brk.Allow("notification")
			if err == nil && probe {
				mu.Lock()
				probes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if probes != 1 {
		t.Fatalf("exactly one probe must pass, got %d", probes)
	}
}
