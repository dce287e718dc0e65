package gateway

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/ceyewan/orderflow/breaker"
	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/rescache"
	"github.com/ceyewan/orderflow/xerrors"
)

// gatewayImpl 网关实现（非导出）
type gatewayImpl struct {
	cfg     *Config
	breaker breaker.Breaker
	cache   rescache.Cache
	client  *resty.Client
	logger  clog.Logger
}

// Do 执行一次依赖调用
//
// 决策流程：
//  1. 计算缓存键（仅不携带凭证的读操作非空）
//  2. 熔断器拒绝时：读操作尝试缓存降级，未命中返回 ErrUnavailable，不发起网络调用
//  3. 放行后以有界超时发起网络调用
//  4. 成功：记录成功、回填缓存（仅读操作）
//  5. 传输失败：记录失败、读操作尝试缓存降级，未命中返回 ErrUnreachable
func (g *gatewayImpl) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrRequestNil
	}
	base, ok := g.cfg.BaseURLs[req.Dependency]
	if !ok {
		return nil, xerrors.Wrapf(ErrUnknownDependency, "%q", req.Dependency)
	}

	key := cacheKey(req)

	probe, err := g.breaker.Allow(req.Dependency)
	if err != nil {
		// 熔断中：不发起网络调用，读操作走缓存降级
		if resp := g.fromCache(ctx, req.Dependency, key); resp != nil {
			return resp, nil
		}
		callsTotal.WithLabelValues(req.Dependency, "rejected").Inc()
		return nil, xerrors.Wrapf(ErrUnavailable, "dependency %s", req.Dependency)
	}

	resp, callErr := g.dispatch(ctx, req, base)
	if callErr != nil {
		// 传输层失败（超时、连接失败）计入失败样本
		g.breaker.Record(req.Dependency, false, probe)
		callsTotal.WithLabelValues(req.Dependency, "error").Inc()
		g.logger.WarnContext(ctx, "dependency call failed",
			clog.String("dependency", req.Dependency),
			clog.String("method", req.Method),
			clog.String("path", req.Path),
			clog.Error(callErr))

		if cached := g.fromCache(ctx, req.Dependency, key); cached != nil {
			return cached, nil
		}
		return nil, xerrors.Wrapf(ErrUnreachable, "dependency %s: %v", req.Dependency, callErr)
	}

	// HTTP 交换完成即视为调用成功；业务层状态码由调用方解读。
	g.breaker.Record(req.Dependency, true, probe)
	callsTotal.WithLabelValues(req.Dependency, "ok").Inc()

	if key != "" && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := g.cache.Put(ctx, key, resp.Body); err != nil {
			g.logger.WarnContext(ctx, "cache populate failed",
				clog.String("dependency", req.Dependency),
				clog.Error(err))
		}
	}

	return resp, nil
}

// cacheKey 推导本次调用的降级缓存键
//
// 携带凭证的请求与调用方身份绑定，其响应不得跨调用方复用：
// 缓存一个调用方的鉴权结果意味着依赖不可达时任意令牌都能通过校验。
// 这类请求返回空键，既不写入也不读取缓存。
func cacheKey(req *Request) string {
	for name := range req.Headers {
		if strings.EqualFold(name, "Authorization") {
			return ""
		}
	}
	return rescache.Key(req.Dependency, req.Method, req.Path, req.Query)
}

// dispatch 发起网络调用
func (g *gatewayImpl) dispatch(ctx context.Context, req *Request, base string) (*Response, error) {
	r := g.client.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(strings.ToUpper(req.Method), base+req.Path)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

// fromCache 尝试缓存降级，key 为空（写操作）或未命中时返回 nil
func (g *gatewayImpl) fromCache(ctx context.Context, dependency, key string) *Response {
	if key == "" {
		return nil
	}
	payload, err := g.cache.Get(ctx, key)
	if err != nil {
		if !xerrors.Is(err, rescache.ErrMiss) {
			g.logger.WarnContext(ctx, "cache lookup failed",
				clog.String("dependency", dependency),
				clog.Error(err))
		}
		return nil
	}

	cacheHits.WithLabelValues(dependency).Inc()
	g.logger.InfoContext(ctx, "serving cached fallback response",
		clog.String("dependency", dependency),
		clog.String("key", key))

	return &Response{StatusCode: 200, Body: payload, FromCache: true}
}
