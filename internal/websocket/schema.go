package websocket

import "github.com/techincepto/portal-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only client message shape on the feed.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError         Event = "error"
	EventAnnouncements Event = "announcements"
	EventPong          Event = "pong"
)

// AnnouncementsEvent carries the full recent-announcement list after every change.
type AnnouncementsEvent struct {
	Event Event                `json:"event"`
	Items []model.Announcement `json:"items"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
