package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/service"
	ws "github.com/stemsi/timetable-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams schedule changes to connected clients.
type WSHandler struct {
	rdb             *redis.Client
	scheduleService *service.ScheduleService
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, scheduleService *service.ScheduleService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:             rdb,
		scheduleService: scheduleService,
		log:             log.With().Str("component", "ws_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// ScheduleStream godoc
// WS /ws/v1/schedule/stream
// Sends the current schedule on connect, then every committed change.
func (h *WSHandler) ScheduleStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.rdb.Subscribe(ctx, config.CacheKey.ScheduleEventsChannel())
	defer sub.Close()

	wsLog := h.log.With().Str("remote", c.ClientIP()).Logger()
	wsLog.Debug().Msg("Client connected")

	if err := h.writeSnapshot(conn); err != nil {
		return
	}

	// Only this goroutine writes to conn; the reader hands requests over.
	requests := make(chan ws.Action, 8)
	go h.readLoop(conn, requests, cancel, wsLog)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	events := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Client disconnected")
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteRaw(conn, []byte(msg.Payload)); err != nil {
				return
			}
		case action := <-requests:
			if err := h.reply(conn, action); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(conn *websocket.Conn, requests chan<- ws.Action, cancel context.CancelFunc, wsLog zerolog.Logger) {
	defer cancel()
	ws.PrepareRead(conn)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		select {
		case requests <- msg.Action:
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Dropping request, client is sending too fast")
		}
	}
}

func (h *WSHandler) reply(conn *websocket.Conn, action ws.Action) error {
	switch action {
	case ws.ActionPing:
		return ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
	case ws.ActionSnapshot:
		return h.writeSnapshot(conn)
	default:
		return ws.WriteError(conn, "unknown action: "+string(action))
	}
}

func (h *WSHandler) writeSnapshot(conn *websocket.Conn) error {
	sched := h.scheduleService.Current()
	return ws.WriteTyped(conn, ws.SnapshotResponse{
		Event:    ws.EventSnapshot,
		Schedule: sched.Collections(),
		Count:    sched.Len(),
	})
}
