package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/service"
	ws "github.com/techincepto/portal-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
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

// WSHandler streams the announcement feed over WebSocket.
type WSHandler struct {
	announcementService *service.AnnouncementService
	log                 zerolog.Logger
	upgrader            websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(announcementService *service.AnnouncementService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		announcementService: announcementService,
		log:                 log.With().Str("component", "ws_handler").Logger(),
		upgrader:            buildUpgrader(allowedOrigins),
	}
}

// AnnouncementFeed godoc
// WS /ws/announcements?limit=20
// Pushes the recent announcement list on connect and after every change.
func (h *WSHandler) AnnouncementFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	write := func(v interface{}) error {
		mu.Lock()
		defer mu.Unlock()
		return ws.WriteTyped(conn, v)
	}

	wsLog := h.log.With().Str("remote", c.ClientIP()).Logger()
	wsLog.Debug().Msg("Announcement feed connected")

	// Reader: answers pings and detects disconnects.
	go func() {
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
			if msg.Action == ws.ActionPing {
				_ = write(ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	// Watcher: forwards every snapshot.
	go func() {
		defer cancel()
		err := h.announcementService.Watch(ctx, limit, func(items []model.Announcement) {
			if err := write(ws.AnnouncementsEvent{Event: ws.EventAnnouncements, Items: items}); err != nil {
				cancel()
			}
		})
		if err != nil {
			wsLog.Error().Err(err).Msg("Announcement watch failed")
			_ = write(ws.ErrorResponse{Event: ws.EventError, Error: "announcement feed unavailable"})
		}
	}()

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Announcement feed closed")
			return
		case <-ticker.C:
			mu.Lock()
			err := ws.WritePing(conn)
			mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
