package chat

// Conn is the transport capability the relay needs from one live
// connection: framed sends, blocking receives, teardown. The WebSocket
// layer provides the production implementation.
type Conn interface {
	// Send writes one frame. Must not block sends on other conns.
	Send(payload []byte) error
	// Receive blocks for the next inbound frame; any error ends the stream.
	Receive() ([]byte, error)
	// Close tears the connection down. Repeated calls are tolerated.
	Close() error
}

// Client is the server-side handle for one connected peer. Identity is the
// pointer; the id only labels log lines.
type Client struct {
	id   string
	conn Conn
}

func NewClient(id string, conn Conn) *Client { return &Client{id: id, conn: conn} }

func (c *Client) ID() string { return c.id }

func (c *Client) Send(payload []byte) error { return c.conn.Send(payload) }

func (c *Client) Receive() ([]byte, error) { return c.conn.Receive() }

func (c *Client) Close() { _ = c.conn.Close() }
