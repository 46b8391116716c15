package main

import (
	"chatrelay/internal/chat"
	"chatrelay/internal/config"
	"chatrelay/internal/http/http_server"
	"chatrelay/internal/redis/redis_client"
	"chatrelay/internal/relay"
	"chatrelay/internal/ws"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Core chat state, owned here and injected everywhere
	registry := chat.NewRegistry()
	history := chat.NewHistory(cfg.MaxHistory)
	broadcaster := chat.NewBroadcaster(registry, history)

	// 4. Optional Redis bridge: fan messages out across instances
	publisher := chat.Publisher(broadcaster)
	if cfg.RedisAddr != "" {
		redisClient, err := redis_client.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			Log.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()

		bridge := relay.New(redisClient, cfg.RedisChannel, broadcaster)
		go bridge.Run(ctx)
		publisher = bridge
		Log.Info("Redis relay bridge enabled", zap.String("channel", cfg.RedisChannel))
	}

	// 5. Background: periodic room stats
	chat.RunStatsLogger(ctx, time.Minute, registry, history)

	// 6. WS server
	wsSrv := ws.NewWsServer(registry, history, publisher)

	// 7. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.Host, cfg.Port, wsSrv, registry, history)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	Log.Info("chat relay listening",
		zap.String("host", cfg.Host),
		zap.Uint16("port", cfg.Port))

	// 8. Block until a signal or a startup failure, then drain
	select {
	case <-ctx.Done():
		Log.Info("shutting down")
	case err := <-errCh:
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
	_ = httpServer.Dispose()
}
