package timetable

import (
	"sort"

	"github.com/stemsi/timetable-backend/internal/model"
)

// Occupancy is the set of rooms and resolved groups busy in one cell.
type Occupancy struct {
	OccupiedRooms  map[string]struct{}
	OccupiedGroups map[string]struct{}
}

func (o Occupancy) HasRoom(room string) bool {
	_, ok := o.OccupiedRooms[room]
	return ok
}

func (o Occupancy) HasGroup(group string) bool {
	_, ok := o.OccupiedGroups[group]
	return ok
}

// Rooms returns the occupied rooms sorted by name.
func (o Occupancy) Rooms() []string { return sortedKeys(o.OccupiedRooms) }

// Groups returns the occupied groups sorted by ID.
func (o Occupancy) Groups() []string { return sortedKeys(o.OccupiedGroups) }

// OccupancyAt computes which rooms and groups are busy at (day, time).
func OccupancyAt(s *Schedule, day, time string) Occupancy {
	occ := Occupancy{
		OccupiedRooms:  make(map[string]struct{}),
		OccupiedGroups: make(map[string]struct{}),
	}
	for _, v := range s.slot(day, time) {
		occ.OccupiedRooms[v.Room] = struct{}{}
		occ.OccupiedGroups[model.ResolveGroup(v.Session)] = struct{}{}
	}
	return occ
}

// AvailableRooms returns the rooms of pool not occupied at (day, time),
// in the pool's declared order.
func AvailableRooms(s *Schedule, day, time string, pool []string) []string {
	occ := OccupancyAt(s, day, time)
	free := make([]string, 0, len(pool))
	for _, room := range pool {
		if !occ.HasRoom(room) {
			free = append(free, room)
		}
	}
	return free
}

// SessionsAt returns the merged view of one calendar cell.
func SessionsAt(s *Schedule, day, time string) []model.SessionView {
	return s.slot(day, time)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
