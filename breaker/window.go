package breaker

// Window 固定容量的调用结果滑动窗口（环形缓冲区）
//
// 记录最近 N 次调用的成功/失败结果并计算实时失败率。
// Window 本身不做并发保护，由持有它的状态机加锁访问。
type Window struct {
	outcomes []bool // true = 失败
	size     int
	next     int // 下一个写入位置
	count    int // 已记录数量，<= size
	failures int
}

// NewWindow 创建容量为 size 的滑动窗口
func NewWindow(size int) *Window {
	if size <= 0 {
		size = 1
	}
	return &Window{
		outcomes: make([]bool, size),
		size:     size,
	}
}

// Record 记录一次调用结果，窗口满时覆盖最旧的记录
func (w *Window) Record(success bool) {
	failed := !success
	if w.count == w.size {
		// 覆盖最旧记录前先扣除其失败计数
		if w.outcomes[w.next] {
			w.failures--
		}
	} else {
		w.count++
	}
	w.outcomes[w.next] = failed
	if failed {
		w.failures++
	}
	w.next = (w.next + 1) % w.size
}

// Len 返回窗口内已记录的结果数量
func (w *Window) Len() int {
	return w.count
}

// Failures 返回窗口内的失败数量
func (w *Window) Failures() int {
	return w.failures
}

// ErrorRate 返回窗口内的失败率，窗口为空时返回 0
func (w *Window) ErrorRate() float64 {
	if w.count == 0 {
		return 0
	}
	return float64(w.failures) / float64(w.count)
}

// Reset 清空窗口内的所有记录
func (w *Window) Reset() {
	for i := range w.outcomes {
		w.outcomes[i] = false
	}
	w.next = 0
	w.count = 0
	w.failures = 0
}
