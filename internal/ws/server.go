package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chatrelay/internal/chat"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 12 * time.Second
	pingPeriod = 3 * time.Second // must be < pongWait

	maxFrameBytes = 4096
)

type WsServer struct {
	upgrader  websocket.Upgrader
	registry  *chat.Registry
	history   *chat.History
	publisher chat.Publisher
}

func NewWsServer(registry *chat.Registry, history *chat.History, publisher chat.Publisher) *WsServer {
	return &WsServer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true }, // dev-only; restrict per deployment
		},
		registry:  registry,
		history:   history,
		publisher: publisher,
	}
}

// Handle is the gin entry-point. It upgrades the request and runs the
// client's session in this handler goroutine until the connection ends.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}

	conn := newClientConn(rawConn)
	go conn.pinger()

	client := chat.NewClient(uuid.NewString(), conn)
	chat.NewSession(client, s.registry, s.history, s.publisher).Run()
}
