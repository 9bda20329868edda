package program

import (
	"errors"
	"fmt"
)

// Structural mutation errors.
var (
	ErrLayoutMismatch = errors.New("layout does not match session items")
	ErrDuplicateID    = errors.New("id already exists")
)

// Apply performs m on the aggregate. Structural mutations are applied to
// every week so that the session skeleton stays identical across weeks.
func (p *Program) Apply(m Mutation) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ProgramID != p.ID {
		return fmt.Errorf("%w: %s", ErrProgramNotFound, m.ProgramID)
	}

	switch m.Kind {
	case MutationSetPrescription:
		w, ok := p.Week(m.WeekID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrWeekNotFound, m.WeekID)
		}
		it, _, ok := w.FindItem(m.ItemID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrItemNotFound, m.ItemID)
		}
		it.Series = NormalizeSeries(m.Series)
		it.Unparsed = m.Unparsed
		if it.Unparsed != "" {
			it.Series = nil
		}
		return nil

	case MutationSetExercise:
		return p.eachItem(m.ItemID, func(it *GroupItem) { it.ExerciseID = m.ExerciseID })

	case MutationAddItem:
		return p.eachSession(m.SessionID, func(s *Session) error {
			if _, _, ok := s.Item(m.ItemID); ok {
				return fmt.Errorf("%w: item %s", ErrDuplicateID, m.ItemID)
			}
			layout := m.Layout
			if !containsItem(layout, m.ItemID) {
				layout = append(s.Layout(), LayoutEntry{ItemID: m.ItemID, GroupID: m.GroupID})
			}
			if err := checkLayout(s, layout, m.ItemID); err != nil {
				return err
			}
			s.Rearrange(layout, GroupItem{ID: m.ItemID, ExerciseID: m.ExerciseID})
			return nil
		})

	case MutationDeleteItem:
		found := false
		for wi := range p.Weeks {
			_, s, ok := p.Weeks[wi].FindItem(m.ItemID)
			if !ok {
				continue
			}
			found = true
			var layout []LayoutEntry
			for _, e := range s.Layout() {
				if e.ItemID != m.ItemID {
					layout = append(layout, e)
				}
			}
			s.Rearrange(layout)
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrItemNotFound, m.ItemID)
		}
		return nil

	case MutationReorderItems:
		return p.eachSession(m.SessionID, func(s *Session) error {
			if err := checkLayout(s, m.Layout, ""); err != nil {
				return err
			}
			s.Rearrange(m.Layout)
			return nil
		})

	case MutationSetGroup:
		found := false
		for wi := range p.Weeks {
			_, s, ok := p.Weeks[wi].FindItem(m.ItemID)
			if !ok {
				continue
			}
			found = true
			layout := s.Layout()
			for i := range layout {
				if layout[i].ItemID == m.ItemID {
					layout[i].GroupID = m.GroupID
				}
			}
			s.Rearrange(layout)
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrItemNotFound, m.ItemID)
		}
		return nil

	case MutationAddWeek:
		if _, ok := p.Week(m.Week.ID); ok {
			return fmt.Errorf("%w: week %s", ErrDuplicateID, m.Week.ID)
		}
		p.Weeks = append(p.Weeks, m.Week.Clone())
		return nil

	case MutationAddSession:
		for wi := range p.Weeks {
			if _, ok := p.Weeks[wi].Session(m.Session.ID); ok {
				return fmt.Errorf("%w: session %s", ErrDuplicateID, m.Session.ID)
			}
		}
		for wi := range p.Weeks {
			p.Weeks[wi].Sessions = append(p.Weeks[wi].Sessions, m.Session.Clone())
		}
		return nil

	case MutationDeleteWeek:
		for i := range p.Weeks {
			if p.Weeks[i].ID == m.WeekID {
				p.Weeks = append(p.Weeks[:i], p.Weeks[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrWeekNotFound, m.WeekID)

	case MutationDeleteSession:
		found := false
		for wi := range p.Weeks {
			sessions := p.Weeks[wi].Sessions
			for i := range sessions {
				if sessions[i].ID == m.SessionID {
					p.Weeks[wi].Sessions = append(sessions[:i], sessions[i+1:]...)
					found = true
					break
				}
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, m.SessionID)
		}
		return nil
	}
	return fmt.Errorf("unknown mutation kind %q", m.Kind)
}

// eachSession calls fn for the session in every week. Weeks missing the
// session are an error.
func (p *Program) eachSession(id string, fn func(*Session) error) error {
	if len(p.Weeks) == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	for wi := range p.Weeks {
		s, ok := p.Weeks[wi].Session(id)
		if !ok {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) eachItem(id string, fn func(*GroupItem)) error {
	found := false
	for wi := range p.Weeks {
		if it, _, ok := p.Weeks[wi].FindItem(id); ok {
			fn(it)
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return nil
}

// checkLayout verifies that layout names every item of s exactly once,
// plus the optional added item.
func checkLayout(s *Session, layout []LayoutEntry, added string) error {
	want := make(map[string]bool)
	for _, e := range s.Layout() {
		want[e.ItemID] = true
	}
	if added != "" {
		want[added] = true
	}
	if len(layout) != len(want) {
		return fmt.Errorf("%w: session %s has %d items, layout has %d", ErrLayoutMismatch, s.ID, len(want), len(layout))
	}
	seen := make(map[string]bool, len(layout))
	for _, e := range layout {
		if !want[e.ItemID] || seen[e.ItemID] || e.GroupID == "" {
			return fmt.Errorf("%w: session %s item %q", ErrLayoutMismatch, s.ID, e.ItemID)
		}
		seen[e.ItemID] = true
	}
	return nil
}

func containsItem(layout []LayoutEntry, id string) bool {
	for _, e := range layout {
		if e.ItemID == id {
			return true
		}
	}
	return false
}
