package chathandler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/chat"
)

type Handler struct {
	registry  *chat.Registry
	history   *chat.History
	startedAt time.Time
}

func New(registry *chat.Registry, history *chat.History) *Handler {
	return &Handler{registry: registry, history: history, startedAt: time.Now()}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/healthz", h.health)
	r.GET("/history", h.backlog)
	r.GET("/stats", h.stats)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// backlog exposes the in-memory replay window. It is a live view, not
// storage; entries fall out as the window slides.
func (h *Handler) backlog(c *gin.Context) {
	c.JSON(http.StatusOK, h.history.All())
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, StatsResponse{
		Clients:       h.registry.Len(),
		HistoryLength: h.history.Len(),
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
	})
}
