package program

// Layout returns the session items in row order together with their group.
func (s *Session) Layout() []LayoutEntry {
	var out []LayoutEntry
	for _, g := range s.Groups {
		for _, it := range g.Items {
			out = append(out, LayoutEntry{ItemID: it.ID, GroupID: g.ID})
		}
	}
	return out
}

// EnsureGroupAdjacency keeps members of a group contiguous: when a group is
// split, all its members are pulled up to the first occurrence.
func EnsureGroupAdjacency(layout []LayoutEntry) []LayoutEntry {
	placed := make(map[string]bool, len(layout))
	out := make([]LayoutEntry, 0, len(layout))
	for _, e := range layout {
		if placed[e.ItemID] {
			continue
		}
		for _, m := range layout {
			if m.GroupID == e.GroupID && !placed[m.ItemID] {
				out = append(out, m)
				placed[m.ItemID] = true
			}
		}
	}
	return out
}

// Rearrange rebuilds the session groups so that items follow layout. Items
// are taken from the session itself or from extra. Items absent from layout
// are dropped, groups left without items disappear, and order indices are
// renumbered from zero.
func (s *Session) Rearrange(layout []LayoutEntry, extra ...GroupItem) {
	items := make(map[string]GroupItem)
	for _, g := range s.Groups {
		for _, it := range g.Items {
			items[it.ID] = it
		}
	}
	for _, it := range extra {
		items[it.ID] = it
	}

	var groups []ExerciseGroup
	index := make(map[string]int)
	for _, e := range EnsureGroupAdjacency(layout) {
		it, ok := items[e.ItemID]
		if !ok {
			continue
		}
		gi, ok := index[e.GroupID]
		if !ok {
			gi = len(groups)
			index[e.GroupID] = gi
			groups = append(groups, ExerciseGroup{ID: e.GroupID, OrderIndex: gi})
		}
		it.OrderIndex = len(groups[gi].Items)
		groups[gi].Items = append(groups[gi].Items, it)
	}
	s.Groups = groups
}

// LayoutsEqual reports whether two layouts place the same items in the same
// order and groups.
func LayoutsEqual(a, b []LayoutEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
