// orderflow 下单编排服务入口。
//
// 启动顺序：配置 → 日志 → 熔断器 → 降级缓存 → 网关 → 事件发布 →
// 下单工作流 → HTTP 服务，收到 SIGINT/SIGTERM 后优雅关停。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceyewan/orderflow/breaker"
	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/config"
	"github.com/ceyewan/orderflow/events"
	"github.com/ceyewan/orderflow/gateway"
	"github.com/ceyewan/orderflow/rescache"
	"github.com/ceyewan/orderflow/server"
	"github.com/ceyewan/orderflow/workflow"
)

// shutdownTimeout 关停时等待在途请求完成的时限
const shutdownTimeout = 10 * time.Second

func main() {
	// 1. 加载配置：默认值 < config.yaml < .env < ORDERFLOW_ 环境变量
	appCfg, err := config.LoadApp(nil)
	if err != nil {
		panic(err)
	}

	// 2. 初始化日志
	logger, err := clog.New(&appCfg.Log)
	if err != nil {
		panic(err)
	}

	// 3. 组装韧性层：熔断器、降级缓存、网关
	brk, err := breaker.New(&appCfg.Breaker, breaker.WithLogger(logger))
	if err != nil {
		logger.Fatal("init breaker failed", clog.Error(err))
	}

	cache, err := rescache.New(&appCfg.Cache, rescache.WithLogger(logger))
	if err != nil {
		logger.Fatal("init fallback cache failed", clog.Error(err))
	}

	gw, err := gateway.New(&appCfg.Gateway, brk, cache, gateway.WithLogger(logger))
	if err != nil {
		logger.Fatal("init gateway failed", clog.Error(err))
	}

	// 4. 事件发布：消息代理不可用时自动降级为 HTTP 通知
	publisher, err := events.New(&appCfg.Events, gw, events.WithLogger(logger))
	if err != nil {
		logger.Fatal("init event publisher failed", clog.Error(err))
	}

	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close event publisher failed", clog.Error(err))
		}
	}()

	// 5. 下单工作流与 HTTP 接入层
	wf := workflow.New(workflow.NewClients(gw), publisher, logger)

	srv, err := server.New(&appCfg.Server, wf, logger)
	if err != nil {
		logger.Fatal("init http server failed", clog.Error(err))
	}

	// 6. 启动并等待退出信号
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("http server exited", clog.Error(err))
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", clog.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
