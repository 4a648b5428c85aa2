package service

import (
	"context"
	"math"

	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/repository"
)

// ArchiveStats reads aggregate metrics from the snapshot archive.
type ArchiveStats interface {
	GetArchiveSummary(ctx context.Context) (*repository.ArchiveSummary, error)
	GetDailyActivity(ctx context.Context, days int) ([]repository.DailyActivity, error)
}

// RoomUsage is how many of the week's slots a room is booked for.
type RoomUsage struct {
	Room     string            `json:"room"`
	Type     model.SessionType `json:"type"`
	Capacity int               `json:"capacity"`
	Booked   int               `json:"booked"`
	Slots    int               `json:"slots"`
	Percent  float64           `json:"percent"`
}

// DashboardData consolidates all metrics for the planner dashboard.
type DashboardData struct {
	TotalSessions  int                        `json:"total_sessions"`
	SessionsByType map[model.SessionType]int  `json:"sessions_by_type"`
	SessionsByDay  map[string]int             `json:"sessions_by_day"`
	GroupLoad      map[string]int             `json:"group_load"`
	RoomUsage      []RoomUsage                `json:"room_usage"`
	Archive        *repository.ArchiveSummary `json:"archive,omitempty"`
	Activity       []repository.DailyActivity `json:"activity,omitempty"`
}

// DashboardService handles planner dashboard business logic.
type DashboardService struct {
	schedule *ScheduleService
	archive  ArchiveStats
}

// NewDashboardService creates a new DashboardService. archive may be nil.
func NewDashboardService(schedule *ScheduleService, archive ArchiveStats) *DashboardService {
	return &DashboardService{schedule: schedule, archive: archive}
}

// GetDashboardData computes schedule metrics from the current snapshot and,
// when an archive is configured, adds its history.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	cat := s.schedule.Catalog()
	views := s.schedule.Current().Views()

	data := &DashboardData{
		TotalSessions:  len(views),
		SessionsByType: make(map[model.SessionType]int, len(model.SessionTypes)),
		SessionsByDay:  make(map[string]int, len(cat.Days)),
		GroupLoad:      make(map[string]int, len(cat.Groups)),
	}
	for _, t := range model.SessionTypes {
		data.SessionsByType[t] = 0
	}
	for _, d := range cat.Days {
		data.SessionsByDay[d] = 0
	}
	for _, g := range cat.Groups {
		data.GroupLoad[g.ID] = 0
	}

	booked := make(map[string]int)
	for _, v := range views {
		data.SessionsByType[v.Type]++
		data.SessionsByDay[v.Day]++
		data.GroupLoad[model.ResolveGroup(v.Session)]++
		booked[v.Room]++
	}

	slots := len(cat.Days) * len(cat.TimeSlots)
	for _, p := range cat.Pools {
		for _, r := range p.Rooms {
			u := RoomUsage{Room: r.Name, Type: p.Type, Capacity: r.Capacity, Booked: booked[r.Name], Slots: slots}
			if slots > 0 {
				u.Percent = math.Round(float64(u.Booked)/float64(slots)*1000) / 10
			}
			data.RoomUsage = append(data.RoomUsage, u)
		}
	}

	if s.archive == nil {
		return data, nil
	}

	summary, err := s.archive.GetArchiveSummary(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.archive.GetDailyActivity(ctx, 14)
	if err != nil {
		return nil, err
	}
	data.Archive = summary
	data.Activity = activity

	return data, nil
}
