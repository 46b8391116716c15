package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	registry *Registry
	history  *History
	b        *Broadcaster
	conn     *fakeConn
	session  *Session
}

func newSessionFixture() *sessionFixture {
	registry := NewRegistry()
	history := NewHistory(DefaultMaxHistory)
	b := NewBroadcaster(registry, history)
	conn := newFakeConn()
	client := NewClient("session-under-test", conn)
	return &sessionFixture{
		registry: registry,
		history:  history,
		b:        b,
		conn:     conn,
		session:  NewSession(client, registry, history, b),
	}
}

func TestSessionReplaysHistoryInOrder(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture()
	backlog := []Message{
		{User: "a", Text: "m1", Timestamp: 1},
		{User: "b", Text: "m2", Timestamp: 2},
		{User: "a", Text: "m3", Timestamp: 3},
	}
	for _, m := range backlog {
		fx.history.Append(m)
	}

	close(fx.conn.in) // no inbound traffic; the stream ends right after replay
	fx.session.Run()

	require.Equal(t, backlog, fx.conn.sentMessages(t))
	require.Equal(t, 0, fx.registry.Len())
	require.True(t, fx.conn.wasClosed())
}

func TestSessionBroadcastsValidInput(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture()
	peerConn := newFakeConn()
	fx.registry.Register(NewClient("peer", peerConn))

	fx.conn.in <- []byte(`{"user":"alice","text":"  hi  "}`)
	close(fx.conn.in)
	fx.session.Run()

	peerMsgs := peerConn.sentMessages(t)
	require.Len(t, peerMsgs, 1)
	require.Equal(t, "alice", peerMsgs[0].User)
	require.Equal(t, "hi", peerMsgs[0].Text)
	require.Greater(t, peerMsgs[0].Timestamp, 0.0)

	// The sender is registered too, so it gets its own message back.
	own := fx.conn.sentMessages(t)
	require.Len(t, own, 1)
	require.Equal(t, peerMsgs[0], own[0])

	require.Equal(t, 1, fx.history.Len())
	require.Equal(t, 1, fx.registry.Len()) // the peer survives the teardown
}

func TestSessionDropsInvalidFrames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		frame string
	}{
		{"unparseable", `{not json`},
		{"blank text", `{"user":"a","text":"   "}`},
		{"empty user", `{"user":"","text":"hi"}`},
		{"missing user", `{"text":"hi"}`},
		{"missing text", `{"user":"a"}`},
		{"wrong text type", `{"user":"a","text":7}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fx := newSessionFixture()
			fx.conn.in <- []byte(tc.frame)
			close(fx.conn.in)
			fx.session.Run()

			require.Equal(t, 0, fx.history.Len())
			require.Empty(t, fx.conn.sentFrames())
			require.Equal(t, 0, fx.registry.Len())
		})
	}
}

func TestSessionContinuesAfterBadFrame(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture()
	fx.conn.in <- []byte(`{garbage`)
	fx.conn.in <- []byte(`{"user":"a","text":"still here"}`)
	close(fx.conn.in)
	fx.session.Run()

	require.Equal(t, 1, fx.history.Len())
	require.Equal(t, "still here", fx.history.All()[0].Text)
}

func TestSessionIgnoresClientTimestamp(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture()
	fx.b.now = func() float64 { return 777 }

	fx.conn.in <- []byte(`{"user":"a","text":"hi","timestamp":12345.0}`)
	close(fx.conn.in)
	fx.session.Run()

	require.Equal(t, 777.0, fx.history.All()[0].Timestamp)
}

func TestSessionTearsDownOnReplayFailure(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture()
	fx.history.Append(Message{User: "a", Text: "m1", Timestamp: 1})
	fx.conn.sendErr = errors.New("peer gone")
	close(fx.conn.in)

	fx.session.Run()

	require.Equal(t, 0, fx.registry.Len())
	require.True(t, fx.conn.wasClosed())
}

type panicPublisher struct{}

func (panicPublisher) Broadcast(Message) { panic("boom") }

func TestSessionFaultStillDeregisters(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	conn := newFakeConn()
	session := NewSession(NewClient("p", conn), registry, NewHistory(DefaultMaxHistory), panicPublisher{})

	conn.in <- []byte(`{"user":"a","text":"hi"}`)
	close(conn.in)

	require.NotPanics(t, session.Run)
	require.Equal(t, 0, registry.Len())
	require.True(t, conn.wasClosed())
}
