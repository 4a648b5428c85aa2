package timetable

import "github.com/stemsi/timetable-backend/internal/model"

// ConflictKind classifies the outcome of a conflict check.
type ConflictKind int

const (
	ConflictNone ConflictKind = iota
	ConflictRoom
	ConflictGroup
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictNone:
		return "ok"
	case ConflictRoom:
		return "room_conflict"
	case ConflictGroup:
		return "group_conflict"
	default:
		return "unknown"
	}
}

// ConflictResult is Ok, or names the existing session the candidate collides with.
type ConflictResult struct {
	Kind     ConflictKind
	Existing *model.SessionView
}

// Ok reports whether the candidate can be placed.
func (r ConflictResult) Ok() bool { return r.Kind == ConflictNone }

// CheckConflict decides whether candidate can join s. A room conflict is
// reported in preference to a group conflict. A session never conflicts
// with itself.
func CheckConflict(s *Schedule, candidate model.Session) ConflictResult {
	existing := s.slot(candidate.Day, candidate.Time)

	for i := range existing {
		e := existing[i]
		if e.ID != candidate.ID && e.Room == candidate.Room {
			return ConflictResult{Kind: ConflictRoom, Existing: &e}
		}
	}

	group := model.ResolveGroup(candidate)
	for i := range existing {
		e := existing[i]
		if e.ID != candidate.ID && model.ResolveGroup(e.Session) == group {
			return ConflictResult{Kind: ConflictGroup, Existing: &e}
		}
	}

	return ConflictResult{Kind: ConflictNone}
}
