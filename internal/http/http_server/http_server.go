package http_server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatrelay/internal/chat"
	"chatrelay/internal/http/chathandler"
	"chatrelay/internal/ws"
)

type httpServer struct {
	listenHost string
	listenPort uint16
	srv        http.Server
	ln         net.Listener
	wsSrv      *ws.WsServer
	registry   *chat.Registry
	history    *chat.History
	ctx        context.Context
}

func NewHttpServer(ctx context.Context, listenHost string, listenPort uint16, wsSrv *ws.WsServer, registry *chat.Registry, history *chat.History) *httpServer {
	return &httpServer{
		listenHost: listenHost,
		listenPort: listenPort,
		wsSrv:      wsSrv,
		registry:   registry,
		history:    history,
		ctx:        ctx,
	}
}

// Start binds the listener and serves until Dispose or a fatal error. A
// failed bind is returned to the caller rather than served around.
func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf("%s:%d", h.listenHost, h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()
	routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	ch := chathandler.New(h.registry, h.history)
	ch.Register(routerEngine)

	h.srv = http.Server{
		Handler:     routerEngine,
		BaseContext: func(net.Listener) context.Context { return h.ctx },
	}

	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}

	return nil
}
