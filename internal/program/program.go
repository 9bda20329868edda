// Package program defines the training program aggregate used by coachgrid.
//
// A Program is an ordered hierarchy: weeks, sessions, exercise groups,
// group items and series. The session/group/item skeleton is identical in
// every week; only the series differ.
package program

import (
	"errors"
	"sort"
	"time"
)

// Domain errors.
var (
	ErrProgramNotFound = errors.New("program not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrWeekNotFound    = errors.New("week not found")
	ErrNameRequired    = errors.New("program name is required")
)

// Status is the lifecycle state of a program.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusArchived:
		return true
	default:
		return false
	}
}

// Program is the full aggregate for one training program.
type Program struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	AthleteID   string    `json:"athleteId,omitempty" yaml:"athlete_id,omitempty"`
	Status      Status    `json:"status" yaml:"status"`
	Weeks       []Week    `json:"weeks" yaml:"weeks"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updated_at"`
}

// Week is one week of a program.
type Week struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	OrderIndex int       `json:"orderIndex" yaml:"order_index"`
	Sessions   []Session `json:"sessions" yaml:"sessions"`
}

// Session is a training day inside a week.
type Session struct {
	ID         string          `json:"id" yaml:"id"`
	Name       string          `json:"name" yaml:"name"`
	OrderIndex int             `json:"orderIndex" yaml:"order_index"`
	Groups     []ExerciseGroup `json:"exerciseGroups" yaml:"groups"`
}

// ExerciseGroup holds items performed back-to-back. A group with more than
// one item is a superset.
type ExerciseGroup struct {
	ID         string      `json:"id" yaml:"id"`
	OrderIndex int         `json:"orderIndex" yaml:"order_index"`
	Items      []GroupItem `json:"items" yaml:"items"`
}

// GroupItem is one exercise prescribed in a week.
//
// Unparsed holds prescription text that failed to parse. When it is set,
// Series is empty.
type GroupItem struct {
	ID         string   `json:"id" yaml:"id"`
	ExerciseID string   `json:"exerciseId" yaml:"exercise_id"`
	OrderIndex int      `json:"orderIndex" yaml:"order_index"`
	Series     []Series `json:"series" yaml:"series,omitempty"`
	Unparsed   string   `json:"unparsed,omitempty" yaml:"unparsed,omitempty"`
}

// Exercise is an entry of the exercise catalog.
type Exercise struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	IsCurated bool   `json:"isCurated" yaml:"curated"`
}

// Summary is a lightweight listing entry for a program.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Weeks     int       `json:"weeks"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks program level invariants and every series.
func (p *Program) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	for _, w := range p.Weeks {
		for _, s := range w.Sessions {
			for _, g := range s.Groups {
				for _, it := range g.Items {
					for _, sr := range it.Series {
						if err := sr.Validate(); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

// Sort orders every level of the aggregate by OrderIndex.
func (p *Program) Sort() {
	sort.SliceStable(p.Weeks, func(i, j int) bool { return p.Weeks[i].OrderIndex < p.Weeks[j].OrderIndex })
	for wi := range p.Weeks {
		sessions := p.Weeks[wi].Sessions
		sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].OrderIndex < sessions[j].OrderIndex })
		for si := range sessions {
			groups := sessions[si].Groups
			sort.SliceStable(groups, func(i, j int) bool { return groups[i].OrderIndex < groups[j].OrderIndex })
			for gi := range groups {
				items := groups[gi].Items
				sort.SliceStable(items, func(i, j int) bool { return items[i].OrderIndex < items[j].OrderIndex })
				for ii := range items {
					series := items[ii].Series
					sort.SliceStable(series, func(i, j int) bool { return series[i].OrderIndex < series[j].OrderIndex })
				}
			}
		}
	}
}

// Clone returns a deep copy of the program.
func (p *Program) Clone() *Program {
	if p == nil {
		return nil
	}
	c := *p
	c.Weeks = make([]Week, len(p.Weeks))
	for i, w := range p.Weeks {
		c.Weeks[i] = w.Clone()
	}
	return &c
}

// Clone returns a deep copy of the week.
func (w Week) Clone() Week {
	c := w
	c.Sessions = make([]Session, len(w.Sessions))
	for i, s := range w.Sessions {
		c.Sessions[i] = s.Clone()
	}
	return c
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	c := s
	c.Groups = make([]ExerciseGroup, len(s.Groups))
	for i, g := range s.Groups {
		c.Groups[i] = g.Clone()
	}
	return c
}

// Clone returns a deep copy of the group.
func (g ExerciseGroup) Clone() ExerciseGroup {
	c := g
	c.Items = make([]GroupItem, len(g.Items))
	for i, it := range g.Items {
		c.Items[i] = it.Clone()
	}
	return c
}

// Clone returns a deep copy of the item.
func (it GroupItem) Clone() GroupItem {
	c := it
	c.Series = CloneSeries(it.Series)
	return c
}

// Week returns the week with the given id.
func (p *Program) Week(id string) (*Week, bool) {
	for i := range p.Weeks {
		if p.Weeks[i].ID == id {
			return &p.Weeks[i], true
		}
	}
	return nil, false
}

// Session returns the session with the given id inside the week.
func (w *Week) Session(id string) (*Session, bool) {
	for i := range w.Sessions {
		if w.Sessions[i].ID == id {
			return &w.Sessions[i], true
		}
	}
	return nil, false
}

// Item returns the item with the given id and the group that holds it.
func (s *Session) Item(id string) (*GroupItem, *ExerciseGroup, bool) {
	for gi := range s.Groups {
		g := &s.Groups[gi]
		for ii := range g.Items {
			if g.Items[ii].ID == id {
				return &g.Items[ii], g, true
			}
		}
	}
	return nil, nil, false
}

// FindItem locates an item by id within a week, searching every session.
func (w *Week) FindItem(id string) (*GroupItem, *Session, bool) {
	for si := range w.Sessions {
		if it, _, ok := w.Sessions[si].Item(id); ok {
			return it, &w.Sessions[si], true
		}
	}
	return nil, nil, false
}

// CanonicalWeek returns the week with the lowest OrderIndex, which carries
// the row skeleton for every other week.
func (p *Program) CanonicalWeek() (*Week, bool) {
	if len(p.Weeks) == 0 {
		return nil, false
	}
	best := 0
	for i := range p.Weeks {
		if p.Weeks[i].OrderIndex < p.Weeks[best].OrderIndex {
			best = i
		}
	}
	return &p.Weeks[best], true
}

// ExerciseIDs returns the distinct exercise ids referenced by the program
// in the order they first appear.
func (p *Program) ExerciseIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, w := range p.Weeks {
		for _, s := range w.Sessions {
			for _, g := range s.Groups {
				for _, it := range g.Items {
					if it.ExerciseID != "" && !seen[it.ExerciseID] {
						seen[it.ExerciseID] = true
						ids = append(ids, it.ExerciseID)
					}
				}
			}
		}
	}
	return ids
}
