package handlers

import (
	"net/http"
	"strconv"
	"time"

	"tsunami_usgs/internal/metrics"
	"tsunami_usgs/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultRefresh   = 5 * time.Second
	maxRefresh       = 60 * time.Second
	maxRefreshMillis = 60_000
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConnect streams the screen labels: once on connect, again whenever the
// board changes, and every refresh interval as a heartbeat.
func (h *Handler) wsConnect(c *gin.Context) {
	refresh := h.parseRefresh(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	metrics.WebsocketClients.Inc()
	defer metrics.WebsocketClients.Dec()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(refresh)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	changed := h.services.Changed()
	if err := h.sendLabels(conn, h.services.Labels()); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-changed:
			changed = h.services.Changed()
			if err := h.sendLabels(conn, h.services.Labels()); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendLabels(conn, h.services.Labels()); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseRefresh reads ?refresh=2s or ?refresh_ms=2000 within bounds.
func (h *Handler) parseRefresh(c *gin.Context) time.Duration {
	if s := c.Query("refresh"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxRefresh {
			return d
		}
	}
	if ms := c.Query("refresh_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxRefreshMillis {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultRefresh
}

// startReader drains incoming frames so pongs and close frames are handled.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func (h *Handler) sendLabels(conn *websocket.Conn, l models.Labels) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "labels", Data: l})
}
