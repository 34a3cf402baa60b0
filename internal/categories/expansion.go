package categories

import "sort"

// Expansion is the set of roots opened in the sidebar. It belongs to one catalog
// screen and is not safe for concurrent use; the owner serializes access.
type Expansion struct {
	open map[int64]struct{}
}

func NewExpansion() *Expansion {
	return &Expansion{open: make(map[int64]struct{})}
}

// ExpandAncestorsOf opens the root whose direct children contain categoryID.
// The tree is two levels deep, so one level is scanned and at most one root opens.
func (e *Expansion) ExpandAncestorsOf(h *Hierarchy, categoryID int64) bool {
	parent, ok := h.ParentOf(categoryID)
	if !ok {
		return false
	}
	e.Add(parent.ID)
	return true
}

// ExpandAll opens every root that has children.
func (e *Expansion) ExpandAll(h *Hierarchy) {
	for _, root := range h.Roots() {
		if HasChildren(root) {
			e.Add(root.ID)
		}
	}
}

func (e *Expansion) Add(id int64) {
	e.open[id] = struct{}{}
}

// Toggle flips id and returns the new state.
func (e *Expansion) Toggle(id int64) bool {
	if _, ok := e.open[id]; ok {
		delete(e.open, id)
		return false
	}
	e.open[id] = struct{}{}
	return true
}

func (e *Expansion) IsExpanded(id int64) bool {
	_, ok := e.open[id]
	return ok
}

func (e *Expansion) Clear() {
	clear(e.open)
}

// IDs returns the open ids in ascending order.
func (e *Expansion) IDs() []int64 {
	ids := make([]int64, 0, len(e.open))
	for id := range e.open {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
