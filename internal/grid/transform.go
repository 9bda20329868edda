package grid

import (
	"sort"

	"github.com/javiermolinar/coachgrid/internal/notation"
	"github.com/javiermolinar/coachgrid/internal/program"
)

// Transform flattens the program into grid rows and columns. The first
// week (lowest OrderIndex) provides the session/group/item skeleton; every
// week contributes one prescription column. names maps exercise ids to
// display names.
func Transform(p *program.Program, names map[string]string) *Data {
	if p == nil {
		return NewData(nil, []Column{{ID: ExerciseColumnID, Name: "Exercise", Kind: ColumnExercise}})
	}

	weeks := sortedWeeks(p)

	columns := make([]Column, 0, len(weeks)+1)
	columns = append(columns, Column{ID: ExerciseColumnID, Name: "Exercise", Kind: ColumnExercise})
	for _, w := range weeks {
		columns = append(columns, Column{ID: w.ID, Name: w.Name, Kind: ColumnWeek})
	}
	if len(weeks) == 0 {
		return NewData(nil, columns)
	}

	var rows []Row
	for _, session := range sortedSessions(weeks[0].Sessions) {
		rows = append(rows, Row{
			Kind:        RowSessionHeader,
			ID:          SessionHeaderID(session.ID),
			SessionID:   session.ID,
			SessionName: session.Name,
		})

		for gi, group := range sortedGroups(session.Groups) {
			items := sortedItems(group.Items)
			for ii, item := range items {
				row := Row{
					Kind:            RowExercise,
					ID:              item.ID,
					SessionID:       session.ID,
					SessionName:     session.Name,
					ExerciseID:      item.ExerciseID,
					ExerciseName:    exerciseName(names, item.ExerciseID),
					GroupID:         group.ID,
					GroupSize:       len(items),
					PositionInGroup: ii,
					GroupLetter:     GroupLetter(gi),
					GroupIndex:      ii + 1,
					Connector:       connectorFor(ii, len(items)),
					Prescriptions:   make(map[string]string, len(weeks)),
					Invalid:         make(map[string]bool),
				}
				for _, w := range weeks {
					text, invalid := cellText(w, session.ID, group.ID, item.ID)
					row.Prescriptions[w.ID] = text
					if invalid {
						row.Invalid[w.ID] = true
					}
				}
				rows = append(rows, row)
			}
		}

		rows = append(rows, Row{
			Kind:        RowAddExercise,
			ID:          AddExerciseID(session.ID),
			SessionID:   session.ID,
			SessionName: session.Name,
		})
	}

	return NewData(rows, columns)
}

// cellText finds the item in week w by session, group and item id and
// formats its series. Items whose group moved are still found through the
// session.
func cellText(w program.Week, sessionID, groupID, itemID string) (string, bool) {
	session, ok := w.Session(sessionID)
	if !ok {
		return "", false
	}
	var item *program.GroupItem
	for gi := range session.Groups {
		if session.Groups[gi].ID != groupID {
			continue
		}
		for ii := range session.Groups[gi].Items {
			if session.Groups[gi].Items[ii].ID == itemID {
				item = &session.Groups[gi].Items[ii]
			}
		}
	}
	if item == nil {
		if item, _, ok = session.Item(itemID); !ok {
			return "", false
		}
	}
	return itemText(*item)
}

// itemText returns the cell text for an item and whether it is invalid.
func itemText(it program.GroupItem) (string, bool) {
	if it.Unparsed != "" {
		return it.Unparsed, true
	}
	return notation.Format(it.Series), false
}

func connectorFor(pos, size int) Connector {
	switch {
	case size <= 1:
		return ConnectorNone
	case pos == 0:
		return ConnectorStart
	case pos == size-1:
		return ConnectorEnd
	default:
		return ConnectorMiddle
	}
}

func exerciseName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return UnknownExercise
}

func sortedSessions(in []program.Session) []program.Session {
	out := make([]program.Session, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func sortedGroups(in []program.ExerciseGroup) []program.ExerciseGroup {
	out := make([]program.ExerciseGroup, 0, len(in))
	for _, g := range in {
		if len(g.Items) > 0 {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func sortedItems(in []program.GroupItem) []program.GroupItem {
	out := make([]program.GroupItem, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}
