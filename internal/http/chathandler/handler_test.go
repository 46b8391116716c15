package chathandler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"chatrelay/internal/chat"
)

type nopConn struct{}

func (nopConn) Send([]byte) error        { return nil }
func (nopConn) Receive() ([]byte, error) { return nil, io.EOF }
func (nopConn) Close() error             { return nil }

func newTestRouter() (*gin.Engine, *chat.Registry, *chat.History) {
	gin.SetMode(gin.TestMode)

	registry := chat.NewRegistry()
	history := chat.NewHistory(chat.DefaultMaxHistory)
	engine := gin.New()
	New(registry, history).Register(engine)
	return engine, registry, history
}

func get(t *testing.T, engine *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	engine, _, _ := newTestRouter()

	rec := get(t, engine, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHistoryEndpointServesBacklog(t *testing.T) {
	engine, _, history := newTestRouter()
	history.Append(chat.Message{User: "a", Text: "m1", Timestamp: 1})
	history.Append(chat.Message{User: "b", Text: "m2", Timestamp: 2})

	rec := get(t, engine, "/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var msgs []chat.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Equal(t, []chat.Message{
		{User: "a", Text: "m1", Timestamp: 1},
		{User: "b", Text: "m2", Timestamp: 2},
	}, msgs)
}

func TestHistoryEndpointEmptyBacklog(t *testing.T) {
	engine, _, _ := newTestRouter()

	rec := get(t, engine, "/history")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestStatsEndpoint(t *testing.T) {
	engine, registry, history := newTestRouter()
	registry.Register(chat.NewClient("c1", nopConn{}))
	history.Append(chat.Message{User: "a", Text: "m1", Timestamp: 1})

	rec := get(t, engine, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.Clients)
	require.Equal(t, 1, stats.HistoryLength)
	require.GreaterOrEqual(t, stats.UptimeSeconds, 0.0)
}
