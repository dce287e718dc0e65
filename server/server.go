// Package server 提供 orderflow 的 HTTP 接入层。
//
// 暴露三个端点：
//   - POST /ordering  下单工作流入口
//   - GET  /health    健康检查
//   - GET  /metrics   Prometheus 指标
//
// 中间件链：请求 ID → 请求日志 → 限流。
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/workflow"
	"github.com/ceyewan/orderflow/xerrors"
)

// OrderPlacer 下单工作流接口，便于测试替换
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, authHeader string, req *workflow.OrderRequest) (*workflow.Order, error)
}

// Config 接入层配置
type Config struct {
	// Addr 监听地址（默认：":8080"）
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Mode gin 运行模式: "release" | "debug"（默认 "release"）
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// RateLimit 每客户端限流配置
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig 令牌桶限流配置，RPS 为 0 时禁用限流
type RateLimitConfig struct {
	RPS   float64 `json:"rps" yaml:"rps" mapstructure:"rps"`
	Burst int     `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// validate 设置默认值
func (c *Config) validate() error {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Mode == "" {
		c.Mode = gin.ReleaseMode
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = int(c.RateLimit.RPS) * 2
	}
	return nil
}

// Server HTTP 接入层
type Server struct {
	cfg    *Config
	engine *gin.Engine
	srv    *http.Server
	logger clog.Logger
}

// New 创建接入层实例
func New(cfg *Config, wf OrderPlacer, logger clog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, xerrors.New("server: order placer is required")
	}
	if logger == nil {
		logger = clog.Discard()
	} else {
		logger = logger.WithNamespace("server")
	}

	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger(logger))
	if cfg.RateLimit.RPS > 0 {
		engine.Use(RateLimit(&cfg.RateLimit))
	}

	s := &Server{cfg: cfg, engine: engine, logger: logger}

	engine.POST("/ordering", s.handleOrdering(wf))
	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s, nil
}

// Engine 返回底层 gin 引擎，仅用于测试
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run 启动 HTTP 服务并阻塞到 Shutdown 被调用
func (s *Server) Run() error {
	s.srv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server starting", clog.String("addr", s.cfg.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !xerrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关停
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// handleOrdering 下单入口
func (s *Server) handleOrdering(wf OrderPlacer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req workflow.OrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		order, err := wf.PlaceOrder(c.Request.Context(), c.GetHeader("Authorization"), &req)
		if err != nil {
			status := statusForError(err)
			s.logger.WarnContext(c.Request.Context(), "ordering failed",
				clog.String("customer_id", req.CustomerID),
				clog.Int("status", status),
				clog.Error(err))
			c.JSON(status, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "order": order})
	}
}

// handleHealth 健康检查
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
