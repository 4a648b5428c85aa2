package model

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
)

// SessionType identifies which collection (and facility pool) a session lives in.
type SessionType string

const (
	SessionTypeAmphitheater SessionType = "amphitheater"
	SessionTypeTD           SessionType = "td"
	SessionTypeTP           SessionType = "tp"
)

// SessionTypes lists the collections in canonical order.
var SessionTypes = []SessionType{SessionTypeAmphitheater, SessionTypeTD, SessionTypeTP}

// ParseSessionType converts a raw string to a SessionType.
func ParseSessionType(raw string) (SessionType, bool) {
	for _, t := range SessionTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}

// Label returns the display name of the session type.
func (t SessionType) Label() string {
	switch t {
	case SessionTypeAmphitheater:
		return "Amphitheater"
	case SessionTypeTD:
		return "TD"
	case SessionTypeTP:
		return "TP"
	default:
		return string(t)
	}
}

// Order returns the position of the type in SessionTypes, or -1.
func (t SessionType) Order() int {
	for i, st := range SessionTypes {
		if st == t {
			return i
		}
	}
	return -1
}

// Session is one scheduled class occurrence. Exactly one of Group and
// SubGroup is set.
type Session struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Day      string `json:"day"`
	Time     string `json:"time"`
	Room     string `json:"room"`
	Group    string `json:"group,omitempty"`
	SubGroup string `json:"sub_group,omitempty"`
}

// SessionView is a session tagged with the collection it belongs to.
type SessionView struct {
	Session
	Type SessionType `json:"type"`
}

// SessionInput carries the caller-supplied fields of a new session.
type SessionInput struct {
	Subject  string
	Day      string
	Time     string
	Room     string
	Group    string
	SubGroup string
}

// CreateSessionRequest is the payload for placing (or pre-checking) a session.
type CreateSessionRequest struct {
	Type     string `json:"type" binding:"required,sessiontype"`
	Subject  string `json:"subject" binding:"required,max=100"`
	Day      string `json:"day" binding:"required,day"`
	Time     string `json:"time" binding:"required,timeslot"`
	Room     string `json:"room" binding:"required,max=100"`
	Group    string `json:"group" binding:"omitempty,max=8"`
	SubGroup string `json:"sub_group" binding:"omitempty,max=8"`
}

// Input converts the request into a SessionInput.
func (r CreateSessionRequest) Input() SessionInput {
	return SessionInput{
		Subject:  r.Subject,
		Day:      r.Day,
		Time:     r.Time,
		Room:     r.Room,
		Group:    r.Group,
		SubGroup: r.SubGroup,
	}
}

// InvalidSessionError reports a malformed session candidate.
type InvalidSessionError struct {
	Field  string
	Reason string
}

func (e *InvalidSessionError) Error() string {
	return fmt.Sprintf("invalid session: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *InvalidSessionError {
	return &InvalidSessionError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NewSession validates the input against the catalog and returns a session
// with a freshly assigned ID.
func NewSession(in SessionInput, t SessionType, cat *Catalog) (Session, error) {
	s := Session{
		ID:       uuid.New().String(),
		Subject:  in.Subject,
		Day:      in.Day,
		Time:     in.Time,
		Room:     in.Room,
		Group:    in.Group,
		SubGroup: in.SubGroup,
	}
	if err := ValidateSession(s, t, cat); err != nil {
		return Session{}, err
	}
	return s, nil
}

// ValidateSession checks an existing session record. The group/sub-group
// rule is checked first, then pool membership, then the remaining labels.
// A nil catalog fails the room check since no pool can be resolved.
func ValidateSession(s Session, t SessionType, cat *Catalog) error {
	switch {
	case s.Group != "" && s.SubGroup != "":
		return invalid("group", "exactly one of group or sub_group must be set, got both")
	case s.Group == "" && s.SubGroup == "":
		return invalid("group", "exactly one of group or sub_group must be set, got neither")
	}

	if t.Order() < 0 {
		return invalid("type", "unknown session type %q", t)
	}
	if s.ID == "" {
		return invalid("id", "is required")
	}
	if cat == nil {
		return invalid("room", "no catalog to check %q against", s.Room)
	}

	if pool, ok := cat.PoolOf(s.Room); !ok {
		return invalid("room", "unknown room %q", s.Room)
	} else if pool != t {
		return invalid("room", "room %q belongs to the %s pool, not %s", s.Room, pool, t)
	}
	if !cat.HasDay(s.Day) {
		return invalid("day", "unknown day %q", s.Day)
	}
	if !cat.HasTimeSlot(s.Time) {
		return invalid("time", "unknown time slot %q", s.Time)
	}
	if !cat.HasSubject(s.Subject) {
		return invalid("subject", "unknown subject %q", s.Subject)
	}

	// Amphitheater lectures take whole groups; TD and TP take sub-groups.
	if t == SessionTypeAmphitheater {
		if s.Group == "" {
			return invalid("group", "amphitheater sessions are assigned to a whole group")
		}
		if !cat.HasGroup(s.Group) {
			return invalid("group", "unknown group %q", s.Group)
		}
	} else {
		if s.SubGroup == "" {
			return invalid("sub_group", "%s sessions are assigned to a sub-group", t.Label())
		}
		if !cat.HasSubGroup(s.SubGroup) {
			return invalid("sub_group", "unknown sub-group %q", s.SubGroup)
		}
	}
	return nil
}

// ResolveGroup returns the top-level group a session occupies: the group
// itself, or the first character of the sub-group label.
func ResolveGroup(s Session) string {
	if s.SubGroup != "" {
		return firstRune(s.SubGroup)
	}
	return s.Group
}

func firstRune(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}
