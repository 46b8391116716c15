package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// clientConn adapts a gorilla connection to chat.Conn. Writes are
// serialized by the mutex because replays and broadcasts from other
// sessions hit the same socket concurrently.
type clientConn struct {
	rawConn *websocket.Conn
	mu      sync.Mutex
}

func newClientConn(rawConn *websocket.Conn) *clientConn {
	rawConn.SetReadLimit(maxFrameBytes)
	_ = rawConn.SetReadDeadline(time.Now().Add(pongWait))
	rawConn.SetPongHandler(func(string) error {
		return rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})
	return &clientConn{rawConn: rawConn}
}

func (c *clientConn) Send(payload []byte) error {
	return c.write(websocket.TextMessage, payload)
}

func (c *clientConn) Receive() ([]byte, error) {
	_, data, err := c.rawConn.ReadMessage()
	return data, err
}

func (c *clientConn) Close() error {
	return c.rawConn.Close()
}

func (c *clientConn) write(mt int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteMessage(mt, data)
}

// pinger keeps the peer's read deadline fresh; a failed ping closes the
// socket so the session's next Receive ends the loop.
func (c *clientConn) pinger() {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()

	for range t.C {
		if err := c.write(websocket.PingMessage, nil); err != nil {
			_ = c.rawConn.Close()
			return
		}
	}
}
