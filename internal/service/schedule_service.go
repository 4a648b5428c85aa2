package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/export"
	"github.com/stemsi/timetable-backend/internal/holiday"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/timetable"
)

// Schedule service errors.
var (
	ErrUnknownSlot     = errors.New("unknown day or time slot")
	ErrDateDayMismatch = errors.New("date does not fall on the requested day")
)

// SchedulePersistence stores the current schedule between restarts.
// Load never fails: a missing or unreadable snapshot yields an empty schedule.
type SchedulePersistence interface {
	Load(ctx context.Context) *timetable.Schedule
	Save(ctx context.Context, s *timetable.Schedule)
	Clear(ctx context.Context)
}

// Availability is the answer to "which rooms are free at this slot".
type Availability struct {
	Day         string   `json:"day"`
	Time        string   `json:"time"`
	Type        string   `json:"type"`
	Date        string   `json:"date,omitempty"`
	Rooms       []string `json:"rooms"`
	Holiday     bool     `json:"holiday"`
	HolidayName string   `json:"holiday_name,omitempty"`
}

// SlotOccupancy lists what is taken at one slot.
type SlotOccupancy struct {
	Day            string              `json:"day"`
	Time           string              `json:"time"`
	Date           string              `json:"date,omitempty"`
	OccupiedRooms  []string            `json:"occupied_rooms"`
	OccupiedGroups []string            `json:"occupied_groups"`
	Sessions       []model.SessionView `json:"sessions"`
	Holiday        bool                `json:"holiday"`
	HolidayName    string              `json:"holiday_name,omitempty"`
}

// GridCell is one day of one time slot in the weekly grid.
type GridCell struct {
	Day      string              `json:"day"`
	Sessions []model.SessionView `json:"sessions"`
	Empty    bool                `json:"empty,omitempty"`
}

// GridRow is one time slot across the week.
type GridRow struct {
	Time  string     `json:"time"`
	Cells []GridCell `json:"cells"`
}

// ScheduleService owns the current schedule. Writers are serialized so the
// conflict check and the insert it guards form a single step; readers work
// on immutable snapshots and never block each other.
type ScheduleService struct {
	cat      *model.Catalog
	store    SchedulePersistence
	events   EventPublisher
	holidays *holiday.Overlay
	log      zerolog.Logger

	persistTimeout time.Duration

	mu      sync.RWMutex
	current *timetable.Schedule
	version uint64

	persistMu    sync.Mutex
	savedVersion uint64
}

// NewScheduleService creates a ScheduleService holding an empty schedule.
// Call Restore to load the persisted one.
func NewScheduleService(
	cat *model.Catalog,
	store SchedulePersistence,
	events EventPublisher,
	holidays *holiday.Overlay,
	log zerolog.Logger,
	persistTimeout time.Duration,
) *ScheduleService {
	if events == nil {
		events = NopEventPublisher{}
	}
	if persistTimeout <= 0 {
		persistTimeout = 3 * time.Second
	}
	return &ScheduleService{
		cat:            cat,
		store:          store,
		events:         events,
		holidays:       holidays,
		log:            log.With().Str("component", "schedule_service").Logger(),
		persistTimeout: persistTimeout,
		current:        timetable.NewSchedule(cat),
	}
}

// Restore replaces the in-memory schedule with the persisted one.
func (s *ScheduleService) Restore(ctx context.Context) {
	loaded := s.store.Load(ctx)
	if loaded == nil {
		loaded = timetable.NewSchedule(s.cat)
	}

	s.mu.Lock()
	s.current = loaded
	s.version++
	s.savedVersion = s.version
	s.mu.Unlock()

	s.log.Info().Int("sessions", loaded.Len()).Msg("Schedule restored")
}

// Catalog returns the static facility and group catalog.
func (s *ScheduleService) Catalog() *model.Catalog { return s.cat }

// Current returns the current schedule snapshot.
func (s *ScheduleService) Current() *timetable.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ─── Queries ────────────────────────────────────────────────────────

// Occupancy reports the rooms and groups taken at (day, time). A non-nil
// date is checked against the holiday calendar.
func (s *ScheduleService) Occupancy(ctx context.Context, day, slot string, date *time.Time) (*SlotOccupancy, error) {
	if err := s.checkSlot(day, slot, date); err != nil {
		return nil, err
	}

	sched := s.Current()
	occ := timetable.OccupancyAt(sched, day, slot)
	out := &SlotOccupancy{
		Day:            day,
		Time:           slot,
		OccupiedRooms:  occ.Rooms(),
		OccupiedGroups: occ.Groups(),
		Sessions:       timetable.SessionsAt(sched, day, slot),
	}
	if date != nil {
		out.Date = date.Format(holiday.DateLayout)
		out.HolidayName, out.Holiday = s.holidays.IsHoliday(ctx, *date)
	}
	return out, nil
}

// AvailableRooms lists the rooms of t's pool that are free at (day, time),
// in catalog order. On a holiday no room is available.
func (s *ScheduleService) AvailableRooms(ctx context.Context, t model.SessionType, day, slot string, date *time.Time) (*Availability, error) {
	if err := s.checkSlot(day, slot, date); err != nil {
		return nil, err
	}

	rooms := timetable.AvailableRooms(s.Current(), day, slot, s.cat.RoomNames(t))
	out := &Availability{Day: day, Time: slot, Type: string(t), Rooms: rooms}
	if date != nil {
		out.Date = date.Format(holiday.DateLayout)
		if name, ok := s.holidays.IsHoliday(ctx, *date); ok {
			out.Rooms, out.Holiday, out.HolidayName = []string{}, true, name
		}
	}
	return out, nil
}

// Check runs an advisory conflict check for a session that is not placed.
// The result may be stale by the time AddSession runs.
func (s *ScheduleService) Check(t model.SessionType, in model.SessionInput) (timetable.ConflictResult, error) {
	candidate, err := model.NewSession(in, t, s.cat)
	if err != nil {
		return timetable.ConflictResult{}, err
	}
	return timetable.CheckConflict(s.Current(), candidate), nil
}

// Grid returns the weekly calendar: one row per time slot, one cell per day.
// With showEmpty unset, rows whose cells are all empty are omitted.
func (s *ScheduleService) Grid(showEmpty bool) []GridRow {
	sched := s.Current()
	rows := make([]GridRow, 0, len(s.cat.TimeSlots))
	for _, slot := range s.cat.TimeSlots {
		row := GridRow{Time: slot, Cells: make([]GridCell, 0, len(s.cat.Days))}
		filled := false
		for _, day := range s.cat.Days {
			sessions := timetable.SessionsAt(sched, day, slot)
			cell := GridCell{Day: day, Sessions: sessions}
			if len(sessions) == 0 {
				cell.Empty = true
			} else {
				filled = true
			}
			row.Cells = append(row.Cells, cell)
		}
		if filled || showEmpty {
			rows = append(rows, row)
		}
	}
	return rows
}

// Export serializes the current schedule.
func (s *ScheduleService) Export(at time.Time) ([]byte, error) {
	return export.Serialize(s.Current(), at)
}

// ─── Mutations ──────────────────────────────────────────────────────

// AddSession validates in, checks it against the current schedule, and places
// it. The check and the insert happen under the writer lock, so two
// concurrent requests for the same room or group cannot both succeed.
func (s *ScheduleService) AddSession(ctx context.Context, t model.SessionType, in model.SessionInput) (model.SessionView, error) {
	candidate, err := model.NewSession(in, t, s.cat)
	if err != nil {
		return model.SessionView{}, err
	}

	s.mu.Lock()
	next, err := timetable.Insert(s.current, candidate, t)
	if err != nil {
		s.mu.Unlock()
		return model.SessionView{}, err
	}
	version := s.swap(next)
	s.mu.Unlock()

	view := model.SessionView{Session: candidate, Type: t}
	s.log.Info().
		Str("session_id", candidate.ID).
		Str("type", string(t)).
		Str("day", candidate.Day).
		Str("time", candidate.Time).
		Str("room", candidate.Room).
		Msg("Session added")

	s.persist(ctx, next, version)
	s.publish(ctx, ScheduleEvent{Type: EventSessionAdded, Session: &view, Count: next.Len()})
	return view, nil
}

// RemoveSession deletes the session with id. Deleting an unknown id is a
// no-op and reports false.
func (s *ScheduleService) RemoveSession(ctx context.Context, id string) bool {
	s.mu.Lock()
	next := timetable.Remove(s.current, id)
	if next == s.current {
		s.mu.Unlock()
		return false
	}
	version := s.swap(next)
	s.mu.Unlock()

	s.log.Info().Str("session_id", id).Msg("Session removed")

	s.persist(ctx, next, version)
	s.publish(ctx, ScheduleEvent{Type: EventSessionRemoved, SessionID: id, Count: next.Len()})
	return true
}

// Clear removes every session and the persisted snapshot.
func (s *ScheduleService) Clear(ctx context.Context) {
	s.mu.Lock()
	next := timetable.Clear(s.current)
	version := s.swap(next)
	s.mu.Unlock()

	s.log.Info().Msg("Schedule cleared")

	s.persist(ctx, nil, version)
	s.publish(ctx, ScheduleEvent{Type: EventScheduleCleared})
}

// Import replaces the schedule with an exported document. The document is
// rebuilt session by session, so it is rejected as a whole if any session
// is invalid or conflicts with an earlier one.
func (s *ScheduleService) Import(ctx context.Context, data []byte) (*export.Document, error) {
	next, doc, err := export.Deserialize(data, s.cat)
	if err != nil {
		return nil, fmt.Errorf("import schedule: %w", err)
	}

	s.mu.Lock()
	version := s.swap(next)
	s.mu.Unlock()

	s.log.Info().Int("sessions", next.Len()).Str("version", doc.Version).Msg("Schedule imported")

	s.persist(ctx, next, version)
	s.publish(ctx, ScheduleEvent{Type: EventScheduleImported, Count: next.Len()})
	return doc, nil
}

// ─── Internal helpers ───────────────────────────────────────────────

// swap must be called with mu held.
func (s *ScheduleService) swap(next *timetable.Schedule) uint64 {
	s.current = next
	s.version++
	return s.version
}

// persist writes snap (nil means clear) unless a newer version has already
// been written. It runs outside mu so slow storage never blocks readers.
func (s *ScheduleService) persist(ctx context.Context, snap *timetable.Schedule, version uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if version <= s.savedVersion {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if snap == nil {
		s.store.Clear(ctx)
	} else {
		s.store.Save(ctx, snap)
	}
	s.savedVersion = version
}

func (s *ScheduleService) publish(ctx context.Context, ev ScheduleEvent) {
	ev.At = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", string(ev.Type)).Msg("Publish schedule event failed")
	}
}

func (s *ScheduleService) checkSlot(day, slot string, date *time.Time) error {
	if !s.cat.HasDay(day) || !s.cat.HasTimeSlot(slot) {
		return fmt.Errorf("%w: %s %s", ErrUnknownSlot, day, slot)
	}
	if date != nil && date.Weekday().String() != day {
		return fmt.Errorf("%w: %s is a %s", ErrDateDayMismatch, date.Format(holiday.DateLayout), date.Weekday())
	}
	return nil
}
