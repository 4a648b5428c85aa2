package websocket

import "github.com/stemsi/timetable-backend/internal/timetable"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing     Action = "ping"
	ActionSnapshot Action = "snapshot"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

// Schedule change events (session_added, session_removed, schedule_cleared,
// schedule_imported) are forwarded verbatim from the events channel.

type Event string

const (
	EventError    Event = "error"
	EventSnapshot Event = "snapshot"
	EventPong     Event = "pong"
)

// SnapshotResponse carries the full schedule, sent on connect and on request.
type SnapshotResponse struct {
	Event    Event                 `json:"event"`
	Schedule timetable.Collections `json:"schedule"`
	Count    int                   `json:"count"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
