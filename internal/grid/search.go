package grid

import "github.com/javiermolinar/coachgrid/internal/program"

// openSearch opens an exercise search on the active cell seeded with term
// and queues the first lookup.
func (c *Controller) openSearch(kind EditKind, term string) bool {
	if c.pendingDelete != "" || c.drag != nil {
		return false
	}
	c.edit = &editState{kind: kind, addr: c.active, buffer: NewBuffer(term), highlight: -1}
	c.requestSearch()
	return true
}

// requestSearch queues a lookup for the current term under a fresh token so
// that results for older terms are ignored.
func (c *Controller) requestSearch() {
	c.searchSeq++
	c.edit.token = c.searchSeq
	c.edit.loaded = false
	c.searchNext = &SearchRequest{Token: c.searchSeq, Term: c.edit.term()}
}

// TakeSearchRequest returns the lookup queued by the last change of the
// search term, if any. The host debounces it and answers with
// SetSearchResults.
func (c *Controller) TakeSearchRequest() (SearchRequest, bool) {
	if c.searchNext == nil {
		return SearchRequest{}, false
	}
	req := *c.searchNext
	c.searchNext = nil
	return req, true
}

// SearchPending reports whether token still belongs to the open search.
// Hosts use it to drop debounced lookups that went stale.
func (c *Controller) SearchPending(token int) bool {
	return c.edit != nil && c.edit.kind.IsSearch() && c.edit.token == token
}

// SetSearchResults shows a page of results. Results for a closed editor or
// an older term are dropped and false is returned.
func (c *Controller) SetSearchResults(token int, page program.ExercisePage) bool {
	if !c.SearchPending(token) {
		return false
	}
	c.edit.results = page.Items
	c.edit.total = page.TotalCount
	c.edit.loaded = true
	c.edit.highlight = -1
	if len(page.Items) > 0 {
		c.edit.highlight = 0
	}
	return true
}

// Highlight moves the highlighted search result by delta, clamped to the
// list.
func (c *Controller) Highlight(delta int) bool {
	if c.edit == nil || !c.edit.kind.IsSearch() || len(c.edit.results) == 0 {
		return false
	}
	next := max(0, min(c.edit.highlight+delta, len(c.edit.results)-1))
	if next == c.edit.highlight {
		return false
	}
	c.edit.highlight = next
	return true
}

// SelectSearchResult picks result i. On an exercise cell it swaps the
// exercise of the row; on an add-exercise row it appends a new row.
// Either way the editor closes.
func (c *Controller) SelectSearchResult(i int) bool {
	if c.edit == nil || !c.edit.kind.IsSearch() || i < 0 || i >= len(c.edit.results) {
		return false
	}
	e := c.edit
	ex := e.results[i]
	c.closeEdit()

	row, ok := c.data.Row(e.addr.RowID)
	if !ok {
		return false
	}
	if e.kind == EditAddExercise {
		c.AddExercise(row.SessionID, ex.ID, ex.Name)
		return true
	}

	c.names[ex.ID] = ex.Name
	if row.ExerciseID == ex.ID {
		c.rebuild()
		return true
	}
	c.run(&exerciseCommand{itemID: row.ID, before: row.ExerciseID, after: ex.ID})
	return true
}

func (c *Controller) handleSearchKey(key string) bool {
	e := c.edit
	switch key {
	case "esc":
		return c.Cancel()
	case "enter":
		if e.highlight < 0 {
			return true
		}
		return c.SelectSearchResult(e.highlight)
	case "up":
		c.Highlight(-1)
	case "down":
		c.Highlight(1)
	case "tab", "shift+tab":
		c.closeEdit()
		c.Move(directionKeys[key])
	case "left":
		e.buffer.Left()
	case "right":
		e.buffer.Right()
	case "home":
		e.buffer.Home()
	case "end":
		e.buffer.End()
	case "backspace":
		if e.buffer.Backspace() {
			c.requestSearch()
		}
	case "delete":
		if e.buffer.Delete() {
			c.requestSearch()
		}
	default:
		r, ok := keyRune(key)
		if !ok {
			return false
		}
		e.buffer.Insert(r)
		c.requestSearch()
	}
	return true
}
