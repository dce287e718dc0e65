package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/orderflow/breaker"
	"github.com/ceyewan/orderflow/rescache"
)

func newTestGateway(t *testing.T, baseURL string) (Gateway, breaker.Breaker) {
	t.Helper()

	brk, err := breaker.New(&breaker.Config{
		Cooldown:     time.Minute,
		FailureRatio: 0.5,
		WindowSize:   10,
		MinSamples:   5,
	})
	require.NoError(t, err)

	cache, err := rescache.New(&rescache.Config{Mode: "standalone", TTL: time.Minute})
	require.NoError(t, err)

	gw, err := New(&Config{
		Timeout:  2 * time.Second,
		BaseURLs: map[string]string{"product": baseURL},
	}, brk, cache)
	require.NoError(t, err)

	return gw, brk
}

func TestDoSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":1,"name":"widget"}`))
	}))
	defer srv.Close()

	gw, _ := newTestGateway(t, srv.URL)

	resp, err := gw.Do(context.Background(), &Request{
		Dependency: "product",
		Method:     "GET",
		Path:       "/products/1",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, resp.FromCache)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDoUnknownDependency(t *testing.T) {
	gw, _ := newTestGateway(t, "http://127.0.0.1:1")

	_, err := gw.Do(context.Background(), &Request{
		Dependency: "warehouse",
		Method:     "GET",
		Path:       "/x",
	})
	assert.ErrorIs(t, err, ErrUnknownDependency)
}

func TestOpenBreakerServesCachedReads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":1,"stock":5}`))
	}))

	gw, brk := newTestGateway(t, srv.URL)
	ctx := context.Background()
	req := &Request{Dependency: "product", Method: "GET", Path: "/products/1"}

	// 成功调用写入缓存
	resp, err := gw.Do(ctx, req)
	require.NoError(t, err)
	require.False(t, resp.FromCache)

	// 关停依赖并积累失败样本（1 成功 + 4 失败 = 5 样本，失败率 0.8）
	srv.Close()
	for i := 0; i < 4; i++ {
		resp, err := gw.Do(ctx, req)
		// 传输失败但缓存命中，调用方仍拿到降级数据
		require.NoError(t, err)
		assert.True(t, resp.FromCache)
	}

	// 下一次调用触发熔断：读操作继续走缓存
	resp, err = gw.Do(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.FromCache)
	assert.Equal(t, breaker.StateOpen, brk.State("product"))

	// 未缓存的读路径：熔断中直接不可用
	_, err = gw.Do(ctx, &Request{Dependency: "product", Method: "GET", Path: "/products/2"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOpenBreakerNeverServesMutations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))

	gw, brk := newTestGateway(t, srv.URL)
	ctx := context.Background()

	// 缓存同路径的读响应
	_, err := gw.Do(ctx, &Request{Dependency: "product", Method: "GET", Path: "/products/1/stock"})
	require.NoError(t, err)

	srv.Close()
	for i := 0; i < 5; i++ {
		_, _ = gw.Do(ctx, &Request{Dependency: "product", Method: "GET", Path: "/products/1/stock"})
	}
	require.Equal(t, breaker.StateOpen, brk.State("product"))

	// 写操作即使同路径存在缓存也必须失败
	_, err = gw.Do(ctx, &Request{
		Dependency: "product",
		Method:     "PUT",
		Path:       "/products/1/stock",
		Body:       map[string]int{"quantity": 2},
	})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUnreachableNoCache(t *testing.T) {
	gw, _ := newTestGateway(t, "http://127.0.0.1:1")

	_, err := gw.Do(context.Background(), &Request{
		Dependency: "product",
		Method:     "GET",
		Path:       "/products/9",
	})
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestCredentialedRequestsNeverUseCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"customer_id":"c1"}`))
	}))

	gw, _ := newTestGateway(t, srv.URL)
	ctx := context.Background()
	req := &Request{
		Dependency: "product",
		Method:     "GET",
		Path:       "/auth/validate",
		Headers:    map[string]string{"Authorization": "Bearer good"},
	}

	// 携带凭证的成功读不写入缓存
	resp, err := gw.Do(ctx, req)
	require.NoError(t, err)
	require.False(t, resp.FromCache)

	// 依赖不可达后，同路径调用（无论凭证是否一致）都不得拿到降级响应
	srv.Close()
	_, err = gw.Do(ctx, req)
	assert.ErrorIs(t, err, ErrUnreachable)

	req.Headers = map[string]string{"Authorization": "Bearer evil"}
	_, err = gw.Do(ctx, req)
	assert.ErrorIs(t, err, ErrUnreachable)

	// 小写头名同样视为凭证
	req.Headers = map[string]string{"authorization": "Bearer evil"}
	_, err = gw.Do(ctx, req)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestNonOKStatusIsNotABreakerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"not found"}`))
	}))
	defer srv.Close()

	gw, brk := newTestGateway(t, srv.URL)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		resp, err := gw.Do(ctx, &Request{Dependency: "product", Method: "GET", Path: "/products/404"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	// 业务层 404 不计入失败率，熔断器保持闭合
	assert.Equal(t, breaker.StateClosed, brk.State("product"))
}

func TestNonOKStatusIsNotCached(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusNotFound)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`{"detail":"not found"}`))
	}))

	gw, _ := newTestGateway(t, srv.URL)
	ctx := context.Background()
	req := &Request{Dependency: "product", Method: "GET", Path: "/products/7"}

	_, err := gw.Do(ctx, req)
	require.NoError(t, err)

	// 关停后无缓存可降级，说明 404 响应未被缓存
	srv.Close()
	_, err = gw.Do(ctx, req)
	assert.ErrorIs(t, err, ErrUnreachable)
}
