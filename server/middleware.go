package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ceyewan/orderflow/clog"
)

// requestIDHeader 请求 ID 透传头
const requestIDHeader = "X-Request-ID"

// RequestID 为每个请求生成或透传请求 ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// RequestLogger 记录每个请求的方法、路径、状态码与耗时
func RequestLogger(logger clog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		rid, _ := c.Get("request_id")
		logger.Info("request completed",
			clog.String("method", c.Request.Method),
			clog.String("path", c.Request.URL.Path),
			clog.Int("status", c.Writer.Status()),
			clog.Duration("latency", time.Since(start)),
			clog.Any("request_id", rid))
	}
}

// clientLimiter 包装 rate.Limiter 并记录最后访问时间
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// maxTrackedClients 限流表的容量上限，超过后清理陈旧条目
const maxTrackedClients = 10000

// RateLimit 按客户端地址做令牌桶限流
func RateLimit(cfg *RateLimitConfig) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*clientLimiter)

	return func(c *gin.Context) {
		key := c.ClientIP()

		mu.Lock()
		cl, ok := clients[key]
		if !ok {
			if len(clients) >= maxTrackedClients {
				pruneStale(clients)
			}
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)}
			clients[key] = cl
		}
		cl.lastSeen = time.Now()
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// pruneStale 清理三分钟未活跃的客户端条目，调用方需持有锁
func pruneStale(clients map[string]*clientLimiter) {
	cutoff := time.Now().Add(-3 * time.Minute)
	for key, cl := range clients {
		if cl.lastSeen.Before(cutoff) {
			delete(clients, key)
		}
	}
}
