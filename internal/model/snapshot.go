package model

import "time"

// ScheduleSnapshot is one archived copy of the schedule.
type ScheduleSnapshot struct {
	ID           int64     `json:"id"`
	Version      string    `json:"version"`
	SessionCount int       `json:"session_count"`
	TakenAt      time.Time `json:"taken_at"`
	CreatedAt    time.Time `json:"created_at"`
	Document     []byte    `json:"-"`
}
