package model

import "time"

// SlotQuery selects one (day, time) slot, optionally pinned to a calendar date.
type SlotQuery struct {
	Day  string `form:"day" json:"day" binding:"required,day"`
	Time string `form:"time" json:"time" binding:"required,timeslot"`
	Date string `form:"date" json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ParsedDate returns the date parameter, or nil when absent.
func (q SlotQuery) ParsedDate() *time.Time {
	if q.Date == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		return nil
	}
	return &d
}

// AvailableRoomsQuery selects a slot and the pool to search.
type AvailableRoomsQuery struct {
	SlotQuery
	Type string `form:"type" json:"type" binding:"required,sessiontype"`
}

// GridQuery controls the weekly grid rendering.
type GridQuery struct {
	ShowEmpty bool `form:"show_empty" json:"show_empty"`
}

// HolidaysQuery selects the calendar year to list.
type HolidaysQuery struct {
	Year int `form:"year" json:"year" binding:"omitempty,min=2000,max=2100"`
}

// PageQuery is the standard pagination input.
type PageQuery struct {
	Page    int `form:"page" json:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" json:"per_page" binding:"omitempty,min=1,max=100"`
}
