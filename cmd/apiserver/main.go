package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipcalc/internal/provider"
	providerhandler "shipcalc/internal/server/handlers/provider"
	quotehandler "shipcalc/internal/server/handlers/quote"
	"shipcalc/internal/server/routers"
	"shipcalc/internal/server/services/svquote"
	"shipcalc/pkg/config"
	"shipcalc/pkg/infra/mysql"
	"shipcalc/pkg/infra/redis"
	"shipcalc/pkg/lmstfy"
)

var (
	configPath = flag.String("config", "./config/config.yaml", "配置文件路径")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化基础设施
	db, err := mysql.NewDB(cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("Failed to connect mysql: %v", err)
	}
	defer mysql.CloseDB(db)

	pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	defer pubsub.Close()

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		log.Fatalf("Failed to create lmstfy client: %v", err)
	}

	// 3. 组装服务与路由
	quoteService := svquote.NewQuoteService(
		mysql.NewQuoteDAO(db),
		lmstfyClient,
		pubsub,
		cfg.Lmstfy.Queue,
		cfg.Providers.Active,
	)

	engine := routers.SetupRoutes(
		quotehandler.NewQuoteHandler(quoteService),
		providerhandler.NewProviderHandler(provider.NewDefaultRegistry()),
	)

	// 4. 启动 HTTP Server（后台 goroutine）
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 5. 优雅停机处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Received shutdown signal, gracefully shutting down...")
		gracefulShutdown(server)
	case err := <-serverErrChan:
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Println("Application stopped")
}

// gracefulShutdown 优雅停机
func gracefulShutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped gracefully")
	}
}
