package chat

import (
	"encoding/json"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
)

// inbound is the client-supplied half of a frame. Decoding into this type
// rather than Message keeps wire timestamps from ever reaching a broadcast.
type inbound struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Session drives one client from join to teardown: register, replay the
// history backlog, then consume inbound frames until the stream ends.
type Session struct {
	client   *Client
	registry *Registry
	history  *History
	pub      Publisher
	log      *zap.Logger
}

func NewSession(client *Client, registry *Registry, history *History, pub Publisher) *Session {
	return &Session{
		client:   client,
		registry: registry,
		history:  history,
		pub:      pub,
		log:      zap.L().With(zap.String("client_id", client.ID())),
	}
}

// Run blocks until the connection ends. Teardown deregisters the client
// exactly once on every exit path, including a panic somewhere below.
func (s *Session) Run() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("session fault",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
		}
	}()

	s.registry.Register(s.client)
	defer s.teardown()

	s.log.Info("client connected", zap.Int("clients", s.registry.Len()))

	if err := s.replay(); err != nil {
		// Peer went away mid-replay; teardown cleans up.
		s.log.Debug("history replay aborted", zap.Error(err))
		return
	}

	for {
		payload, err := s.client.Receive()
		if err != nil {
			s.log.Debug("receive ended", zap.Error(err))
			return
		}
		s.handle(payload)
	}
}

// replay sends the buffered backlog in order, one frame per message.
func (s *Session) replay() error {
	for _, msg := range s.history.All() {
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if err := s.client.Send(payload); err != nil {
			return err
		}
	}
	return nil
}

// handle validates one inbound frame and publishes it. Bad frames never end
// the session: unparseable input is logged and dropped, structurally invalid
// input is dropped silently.
func (s *Session) handle(payload []byte) {
	var in inbound
	if err := json.Unmarshal(payload, &in); err != nil {
		s.log.Warn("dropping unparseable frame", zap.Error(err))
		return
	}

	text := strings.TrimSpace(in.Text)
	if in.User == "" || text == "" {
		return
	}

	s.pub.Broadcast(Message{User: in.User, Text: text})
}

func (s *Session) teardown() {
	s.registry.Unregister(s.client)
	s.client.Close()
	s.log.Info("client disconnected", zap.Int("clients", s.registry.Len()))
}
