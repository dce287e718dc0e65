package clog

import (
	"testing"
)

// TestNewDefaults 测试默认配置创建
func TestNewDefaults(t *testing.T) {
	logger, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) should not fail, got: %v", err)
	}
	if logger == nil {
		t.Fatal("New(nil) should return a valid logger")
	}
	logger.Info("hello", String("key", "value"))
}

// TestNewInvalidLevel 测试非法级别
func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "verbose"})
	if err == nil {
		t.Fatal("invalid level should return error")
	}
}

// TestNewInvalidFormat 测试非法格式
func TestNewInvalidFormat(t *testing.T) {
	_, err := New(&Config{Format: "xml"})
	if err == nil {
		t.Fatal("invalid format should return error")
	}
}

// TestWithNamespace 测试命名空间层级拼接
func TestWithNamespace(t *testing.T) {
	logger, _ := New(&Config{Level: "debug"})

	child := logger.WithNamespace("gateway").WithNamespace("cache")
	impl, ok := child.(*loggerImpl)
	if !ok {
		t.Fatal("expected *loggerImpl")
	}
	if impl.namespace != "gateway.cache" {
		t.Fatalf("namespace: got %q, want %q", impl.namespace, "gateway.cache")
	}
}

// TestDiscard 测试静默 Logger
func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("this goes nowhere")
	if logger.With(String("k", "v")) != logger {
		t.Fatal("Discard().With should return itself")
	}
}
