package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/model"
)

// EventType names a schedule change.
type EventType string

const (
	EventSessionAdded     EventType = "session_added"
	EventSessionRemoved   EventType = "session_removed"
	EventScheduleCleared  EventType = "schedule_cleared"
	EventScheduleImported EventType = "schedule_imported"
)

// ScheduleEvent is broadcast to live clients after every committed change.
type ScheduleEvent struct {
	Type      EventType          `json:"event"`
	Session   *model.SessionView `json:"session,omitempty"`
	SessionID string             `json:"session_id,omitempty"`
	Count     int                `json:"count"`
	At        time.Time          `json:"at"`
}

// EventPublisher fans schedule changes out to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, ev ScheduleEvent) error
}

// NopEventPublisher drops every event.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, ScheduleEvent) error { return nil }

// RedisEventPublisher publishes events on a Redis PubSub channel so every
// server instance can forward them to its WebSocket clients.
type RedisEventPublisher struct {
	rdb *redis.Client
}

// NewRedisEventPublisher creates a RedisEventPublisher.
func NewRedisEventPublisher(rdb *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{rdb: rdb}
}

func (p *RedisEventPublisher) Publish(ctx context.Context, ev ScheduleEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.rdb.Publish(ctx, config.CacheKey.ScheduleEventsChannel(), payload).Err()
}
