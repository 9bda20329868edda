package program

import "fmt"

// MutationKind identifies a committed change sent to a MutationSink.
type MutationKind string

const (
	MutationSetPrescription MutationKind = "set_prescription"
	MutationSetExercise     MutationKind = "set_exercise"
	MutationAddItem         MutationKind = "add_item"
	MutationDeleteItem      MutationKind = "delete_item"
	MutationReorderItems    MutationKind = "reorder_items"
	MutationSetGroup        MutationKind = "set_group"
	MutationAddWeek         MutationKind = "add_week"
	MutationAddSession      MutationKind = "add_session"
	MutationDeleteWeek      MutationKind = "delete_week"
	MutationDeleteSession   MutationKind = "delete_session"
)

// LayoutEntry places one item inside a session: items are listed in row
// order, each with the group that owns it.
type LayoutEntry struct {
	ItemID  string `json:"itemId"`
	GroupID string `json:"groupId"`
}

// Mutation is a single committed change. Which fields are set depends on
// Kind:
//
//	set_prescription  ItemID, WeekID, Notation, Series, Unparsed
//	set_exercise      ItemID, ExerciseID
//	add_item          SessionID, ItemID, GroupID, ExerciseID, Layout
//	delete_item       SessionID, ItemID
//	reorder_items     SessionID, Layout
//	set_group         SessionID, ItemID, GroupID
//	add_week          Week
//	add_session       Session
//	delete_week       WeekID
//	delete_session    SessionID
type Mutation struct {
	Kind       MutationKind  `json:"kind"`
	ProgramID  string        `json:"programId"`
	WeekID     string        `json:"weekId,omitempty"`
	SessionID  string        `json:"sessionId,omitempty"`
	ItemID     string        `json:"itemId,omitempty"`
	GroupID    string        `json:"groupId,omitempty"`
	ExerciseID string        `json:"exerciseId,omitempty"`
	Notation   string        `json:"notation,omitempty"`
	Series     []Series      `json:"series,omitempty"`
	Unparsed   string        `json:"unparsed,omitempty"`
	Layout     []LayoutEntry `json:"layout,omitempty"`
	Week       *Week         `json:"week,omitempty"`
	Session    *Session      `json:"session,omitempty"`
}

// String returns a short human readable description.
func (m Mutation) String() string {
	switch m.Kind {
	case MutationSetPrescription:
		return fmt.Sprintf("set prescription %s/%s = %q", m.ItemID, m.WeekID, m.Notation)
	case MutationSetExercise:
		return fmt.Sprintf("set exercise %s = %s", m.ItemID, m.ExerciseID)
	case MutationAddItem:
		return fmt.Sprintf("add item %s to %s", m.ItemID, m.SessionID)
	case MutationDeleteItem:
		return fmt.Sprintf("delete item %s", m.ItemID)
	case MutationReorderItems:
		return fmt.Sprintf("reorder %d items in %s", len(m.Layout), m.SessionID)
	case MutationSetGroup:
		return fmt.Sprintf("set group %s = %s", m.ItemID, m.GroupID)
	case MutationAddWeek:
		if m.Week != nil {
			return fmt.Sprintf("add week %s", m.Week.ID)
		}
	case MutationAddSession:
		if m.Session != nil {
			return fmt.Sprintf("add session %s", m.Session.ID)
		}
	case MutationDeleteWeek:
		return fmt.Sprintf("delete week %s", m.WeekID)
	case MutationDeleteSession:
		return fmt.Sprintf("delete session %s", m.SessionID)
	}
	return string(m.Kind)
}

// Validate checks that the fields required by Kind are present.
func (m Mutation) Validate() error {
	missing := func(field string) error {
		return fmt.Errorf("%s mutation: %s is required", m.Kind, field)
	}
	if m.ProgramID == "" {
		return missing("programId")
	}
	switch m.Kind {
	case MutationSetPrescription:
		if m.ItemID == "" {
			return missing("itemId")
		}
		if m.WeekID == "" {
			return missing("weekId")
		}
		for _, s := range m.Series {
			if err := s.Validate(); err != nil {
				return err
			}
		}
	case MutationSetExercise:
		if m.ItemID == "" {
			return missing("itemId")
		}
		if m.ExerciseID == "" {
			return missing("exerciseId")
		}
	case MutationAddItem:
		if m.SessionID == "" || m.ItemID == "" || m.GroupID == "" {
			return missing("sessionId, itemId and groupId")
		}
		if m.ExerciseID == "" {
			return missing("exerciseId")
		}
	case MutationDeleteItem:
		if m.ItemID == "" {
			return missing("itemId")
		}
	case MutationReorderItems:
		if m.SessionID == "" {
			return missing("sessionId")
		}
		if len(m.Layout) == 0 {
			return missing("layout")
		}
	case MutationSetGroup:
		if m.ItemID == "" || m.GroupID == "" {
			return missing("itemId and groupId")
		}
	case MutationAddWeek:
		if m.Week == nil || m.Week.ID == "" {
			return missing("week")
		}
	case MutationAddSession:
		if m.Session == nil || m.Session.ID == "" {
			return missing("session")
		}
	case MutationDeleteWeek:
		if m.WeekID == "" {
			return missing("weekId")
		}
	case MutationDeleteSession:
		if m.SessionID == "" {
			return missing("sessionId")
		}
	default:
		return fmt.Errorf("unknown mutation kind %q", m.Kind)
	}
	return nil
}
