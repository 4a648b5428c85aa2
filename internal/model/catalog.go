package model

import (
	"fmt"
	"slices"
	"unicode/utf8"
)

// Room is a physical teaching space with a seat capacity.
type Room struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// FacilityPool is one of the three disjoint room pools.
type FacilityPool struct {
	Type  SessionType `json:"type"`
	Label string      `json:"label"`
	Rooms []Room      `json:"rooms"`
}

// GroupDef is a top-level student group and the sub-groups it owns.
type GroupDef struct {
	ID        string   `json:"id"`
	SubGroups []string `json:"sub_groups"`
}

// Catalog is the static scheduling configuration: days, time slots,
// facility pools, the group hierarchy and the subject list.
// It is read-only once the application has started.
type Catalog struct {
	Days      []string       `json:"days"`
	TimeSlots []string       `json:"time_slots"`
	Pools     []FacilityPool `json:"pools"`
	Groups    []GroupDef     `json:"groups"`
	Subjects  []string       `json:"subjects"`
}

// Pool returns the facility pool serving the given session type.
func (c *Catalog) Pool(t SessionType) (FacilityPool, bool) {
	for _, p := range c.Pools {
		if p.Type == t {
			return p, true
		}
	}
	return FacilityPool{}, false
}

// RoomNames returns the pool's room names in declared order.
func (c *Catalog) RoomNames(t SessionType) []string {
	p, ok := c.Pool(t)
	if !ok {
		return nil
	}
	names := make([]string, len(p.Rooms))
	for i, r := range p.Rooms {
		names[i] = r.Name
	}
	return names
}

// PoolOf reports which pool a room belongs to.
func (c *Catalog) PoolOf(room string) (SessionType, bool) {
	for _, p := range c.Pools {
		for _, r := range p.Rooms {
			if r.Name == room {
				return p.Type, true
			}
		}
	}
	return "", false
}

func (c *Catalog) HasDay(day string) bool       { return slices.Contains(c.Days, day) }
func (c *Catalog) HasTimeSlot(slot string) bool { return slices.Contains(c.TimeSlots, slot) }

// HasSubject reports whether subject is allowed. An empty subject list
// accepts any non-empty name.
func (c *Catalog) HasSubject(subject string) bool {
	if len(c.Subjects) == 0 {
		return subject != ""
	}
	return slices.Contains(c.Subjects, subject)
}

func (c *Catalog) HasGroup(id string) bool {
	for _, g := range c.Groups {
		if g.ID == id {
			return true
		}
	}
	return false
}

func (c *Catalog) HasSubGroup(id string) bool {
	for _, g := range c.Groups {
		if slices.Contains(g.SubGroups, id) {
			return true
		}
	}
	return false
}

// Validate checks the structural rules the scheduling engine relies on:
// pools are disjoint, every session type has a pool, and each sub-group
// label starts with its one-character owning group.
func (c *Catalog) Validate() error {
	if len(c.Days) == 0 || len(c.TimeSlots) == 0 {
		return fmt.Errorf("catalog: days and time slots are required")
	}
	for _, t := range SessionTypes {
		if _, ok := c.Pool(t); !ok {
			return fmt.Errorf("catalog: no facility pool for %s", t)
		}
	}

	seen := make(map[string]SessionType)
	for _, p := range c.Pools {
		for _, r := range p.Rooms {
			if other, dup := seen[r.Name]; dup {
				return fmt.Errorf("catalog: room %q listed in both %s and %s", r.Name, other, p.Type)
			}
			seen[r.Name] = p.Type
		}
	}

	for _, g := range c.Groups {
		if utf8.RuneCountInString(g.ID) != 1 {
			return fmt.Errorf("catalog: group %q must be a single character", g.ID)
		}
		for _, sg := range g.SubGroups {
			if firstRune(sg) != g.ID {
				return fmt.Errorf("catalog: sub-group %q does not start with group %q", sg, g.ID)
			}
		}
	}
	return nil
}
