package grid

import (
	"sort"

	"github.com/javiermolinar/coachgrid/internal/notation"
	"github.com/javiermolinar/coachgrid/internal/program"
)

// cellValue is the stored content of one prescription cell: a series list,
// or the raw text when it did not parse.
type cellValue struct {
	Series   []program.Series
	Unparsed string
}

// parseCell turns committed text into a cell value. Text that does not
// parse is kept verbatim.
func parseCell(text string) cellValue {
	series, err := notation.Parse(text)
	if err != nil {
		return cellValue{Unparsed: text}
	}
	return cellValue{Series: series}
}

func (v cellValue) text() string {
	if v.Unparsed != "" {
		return v.Unparsed
	}
	return notation.Format(v.Series)
}

func (v cellValue) empty() bool {
	return v.Unparsed == "" && len(v.Series) == 0
}

func (v cellValue) equal(o cellValue) bool {
	return v.Unparsed == o.Unparsed && program.SeriesEqual(v.Series, o.Series)
}

func (v cellValue) clone() cellValue {
	return cellValue{Series: program.CloneSeries(v.Series), Unparsed: v.Unparsed}
}

func (v cellValue) mutation(programID, itemID, weekID string) program.Mutation {
	return program.Mutation{
		Kind:      program.MutationSetPrescription,
		ProgramID: programID,
		ItemID:    itemID,
		WeekID:    weekID,
		Notation:  v.text(),
		Series:    program.CloneSeries(v.Series),
		Unparsed:  v.Unparsed,
	}
}

// getCell reads the cell of item in week.
func getCell(p *program.Program, itemID, weekID string) (cellValue, bool) {
	w, ok := p.Week(weekID)
	if !ok {
		return cellValue{}, false
	}
	it, _, ok := w.FindItem(itemID)
	if !ok {
		return cellValue{}, false
	}
	return cellValue{Series: program.CloneSeries(it.Series), Unparsed: it.Unparsed}, true
}

// setCell writes the cell of item in week.
func setCell(p *program.Program, itemID, weekID string, v cellValue) {
	w, ok := p.Week(weekID)
	if !ok {
		return
	}
	it, _, ok := w.FindItem(itemID)
	if !ok {
		return
	}
	v = v.clone()
	it.Series = v.Series
	it.Unparsed = v.Unparsed
}

type cellChange struct {
	ItemID string
	WeekID string
	Before cellValue
	After  cellValue
}

// cellsCommand changes one or more prescription cells.
type cellsCommand struct {
	kind    CommandKind
	changes []cellChange
}

func (c *cellsCommand) Kind() CommandKind { return c.kind }

func (c *cellsCommand) Apply(p *program.Program) {
	for _, ch := range c.changes {
		setCell(p, ch.ItemID, ch.WeekID, ch.After)
	}
}

func (c *cellsCommand) Revert(p *program.Program) {
	for i := len(c.changes) - 1; i >= 0; i-- {
		ch := c.changes[i]
		setCell(p, ch.ItemID, ch.WeekID, ch.Before)
	}
}

func (c *cellsCommand) Mutations(programID string, forward bool) []program.Mutation {
	out := make([]program.Mutation, 0, len(c.changes))
	for _, ch := range c.changes {
		v := ch.After
		if !forward {
			v = ch.Before
		}
		out = append(out, v.mutation(programID, ch.ItemID, ch.WeekID))
	}
	return out
}

// exerciseCommand swaps the exercise of an item in every week.
type exerciseCommand struct {
	itemID string
	before string
	after  string
}

func (c *exerciseCommand) Kind() CommandKind { return KindSetExercise }

func (c *exerciseCommand) Apply(p *program.Program) { setExercise(p, c.itemID, c.after) }

func (c *exerciseCommand) Revert(p *program.Program) { setExercise(p, c.itemID, c.before) }

func (c *exerciseCommand) Mutations(programID string, forward bool) []program.Mutation {
	id := c.after
	if !forward {
		id = c.before
	}
	return []program.Mutation{{
		Kind:       program.MutationSetExercise,
		ProgramID:  programID,
		ItemID:     c.itemID,
		ExerciseID: id,
	}}
}

func setExercise(p *program.Program, itemID, exerciseID string) {
	for wi := range p.Weeks {
		if it, _, ok := p.Weeks[wi].FindItem(itemID); ok {
			it.ExerciseID = exerciseID
		}
	}
}

// sessionCommand replaces one session in every week. It backs every
// structural change: reorder, grouping, adding and deleting rows.
type sessionCommand struct {
	kind      CommandKind
	sessionID string
	weeks     []string // week ids in order; weeks[0] is canonical
	before    map[string]program.Session
	after     map[string]program.Session
}

func (c *sessionCommand) Kind() CommandKind { return c.kind }

func (c *sessionCommand) Apply(p *program.Program) { replaceSession(p, c.sessionID, c.after) }

func (c *sessionCommand) Revert(p *program.Program) { replaceSession(p, c.sessionID, c.before) }

func (c *sessionCommand) Mutations(programID string, forward bool) []program.Mutation {
	from, to := c.before, c.after
	if !forward {
		from, to = c.after, c.before
	}
	if len(c.weeks) == 0 {
		return nil
	}
	canonical := c.weeks[0]
	fromSession, toSession := from[canonical], to[canonical]
	fromLayout, toLayout := fromSession.Layout(), toSession.Layout()

	fromGroups := make(map[string]string, len(fromLayout))
	for _, e := range fromLayout {
		fromGroups[e.ItemID] = e.GroupID
	}
	toGroups := make(map[string]string, len(toLayout))
	for _, e := range toLayout {
		toGroups[e.ItemID] = e.GroupID
	}

	var out []program.Mutation
	for _, e := range fromLayout {
		if _, ok := toGroups[e.ItemID]; !ok {
			out = append(out, program.Mutation{
				Kind:      program.MutationDeleteItem,
				ProgramID: programID,
				SessionID: c.sessionID,
				ItemID:    e.ItemID,
			})
		}
	}

	for _, e := range toLayout {
		group, existed := fromGroups[e.ItemID]
		if !existed {
			it, _, _ := toSession.Item(e.ItemID)
			out = append(out, program.Mutation{
				Kind:       program.MutationAddItem,
				ProgramID:  programID,
				SessionID:  c.sessionID,
				ItemID:     e.ItemID,
				GroupID:    e.GroupID,
				ExerciseID: it.ExerciseID,
				Layout:     toLayout,
			})
			for _, weekID := range c.weeks {
				s := to[weekID]
				wi, _, ok := s.Item(e.ItemID)
				if !ok {
					continue
				}
				v := cellValue{Series: wi.Series, Unparsed: wi.Unparsed}
				if !v.empty() {
					out = append(out, v.mutation(programID, e.ItemID, weekID))
				}
			}
			continue
		}
		if group != e.GroupID {
			out = append(out, program.Mutation{
				Kind:      program.MutationSetGroup,
				ProgramID: programID,
				SessionID: c.sessionID,
				ItemID:    e.ItemID,
				GroupID:   e.GroupID,
			})
		}
	}

	if len(toLayout) > 0 && !program.LayoutsEqual(fromLayout, toLayout) {
		out = append(out, program.Mutation{
			Kind:      program.MutationReorderItems,
			ProgramID: programID,
			SessionID: c.sessionID,
			Layout:    toLayout,
		})
	}
	return out
}

func replaceSession(p *program.Program, sessionID string, sessions map[string]program.Session) {
	for wi := range p.Weeks {
		s, ok := sessions[p.Weeks[wi].ID]
		if !ok {
			continue
		}
		if cur, ok := p.Weeks[wi].Session(sessionID); ok {
			*cur = s.Clone()
		}
	}
}

// snapshotSession copies a session out of every week.
func snapshotSession(p *program.Program, sessionID string) map[string]program.Session {
	out := make(map[string]program.Session, len(p.Weeks))
	for wi := range p.Weeks {
		if s, ok := p.Weeks[wi].Session(sessionID); ok {
			out[p.Weeks[wi].ID] = s.Clone()
		}
	}
	return out
}

// weekOrder returns week ids sorted by OrderIndex.
func weekOrder(p *program.Program) []string {
	ids := make([]string, 0, len(p.Weeks))
	for _, w := range sortedWeeks(p) {
		ids = append(ids, w.ID)
	}
	return ids
}

func sortedWeeks(p *program.Program) []program.Week {
	weeks := make([]program.Week, len(p.Weeks))
	copy(weeks, p.Weeks)
	sort.SliceStable(weeks, func(i, j int) bool { return weeks[i].OrderIndex < weeks[j].OrderIndex })
	return weeks
}

// weekCommand appends a week.
type weekCommand struct {
	week program.Week
}

func (c *weekCommand) Kind() CommandKind { return KindAddWeek }

func (c *weekCommand) Apply(p *program.Program) {
	p.Weeks = append(p.Weeks, c.week.Clone())
}

func (c *weekCommand) Revert(p *program.Program) {
	for i := range p.Weeks {
		if p.Weeks[i].ID == c.week.ID {
			p.Weeks = append(p.Weeks[:i], p.Weeks[i+1:]...)
			return
		}
	}
}

func (c *weekCommand) Mutations(programID string, forward bool) []program.Mutation {
	if !forward {
		return []program.Mutation{{Kind: program.MutationDeleteWeek, ProgramID: programID, WeekID: c.week.ID}}
	}
	w := c.week.Clone()
	return []program.Mutation{{Kind: program.MutationAddWeek, ProgramID: programID, WeekID: w.ID, Week: &w}}
}

// addSessionCommand appends an empty session to every week.
type addSessionCommand struct {
	session program.Session
}

func (c *addSessionCommand) Kind() CommandKind { return KindAddSession }

func (c *addSessionCommand) Apply(p *program.Program) {
	for wi := range p.Weeks {
		p.Weeks[wi].Sessions = append(p.Weeks[wi].Sessions, c.session.Clone())
	}
}

func (c *addSessionCommand) Revert(p *program.Program) {
	for wi := range p.Weeks {
		sessions := p.Weeks[wi].Sessions
		for i := range sessions {
			if sessions[i].ID == c.session.ID {
				p.Weeks[wi].Sessions = append(sessions[:i], sessions[i+1:]...)
				break
			}
		}
	}
}

func (c *addSessionCommand) Mutations(programID string, forward bool) []program.Mutation {
	if !forward {
		return []program.Mutation{{Kind: program.MutationDeleteSession, ProgramID: programID, SessionID: c.session.ID}}
	}
	s := c.session.Clone()
	return []program.Mutation{{Kind: program.MutationAddSession, ProgramID: programID, SessionID: s.ID, Session: &s}}
}
