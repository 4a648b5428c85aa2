package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ScheduleSnapshotKey returns the key holding the current schedule document.
func (r *CacheKeyStruct) ScheduleSnapshotKey() string {
	return "school_schedule_data"
}

// ScheduleEventsChannel returns the Redis PubSub channel for schedule changes.
func (r *CacheKeyStruct) ScheduleEventsChannel() string {
	return "schedule:events"
}

// HolidaysKey returns the cache key for a country's holidays in a given year.
func (r *CacheKeyStruct) HolidaysKey(country string, year int) string {
	return fmt.Sprintf("holidays:%s:%d", country, year)
}

// PlannerSessionKey returns the key for a planner's active token ID.
func (r *CacheKeyStruct) PlannerSessionKey(plannerID int) string {
	return fmt.Sprintf("planner:%d:session", plannerID)
}

var CacheKey = NewCacheKeyStruct()
