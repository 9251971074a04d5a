package components

// List is a scrollable window over labels with a cursor. Callers keep the
// backing records and map the cursor back to them.
type List struct {
	Items    []string
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list with the given page size.
func NewList(pageSize int) *List {
	return &List{PageSize: pageSize}
}

// SetItems replaces items and resets cursor.
func (l *List) SetItems(items []string) {
	l.Items = items
	l.Cursor = 0
	l.Offset = 0
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.Items) }

// Down moves the cursor down.
func (l *List) Down() {
	if l.Cursor < len(l.Items)-1 {
		l.Cursor++
		if l.Cursor >= l.Offset+l.PageSize {
			l.Offset++
		}
	}
}

// Up moves the cursor up.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		if l.Cursor < l.Offset {
			l.Offset--
		}
	}
}

// Visible returns the currently visible items.
func (l *List) Visible() []string {
	if len(l.Items) == 0 {
		return nil
	}
	end := min(l.Offset+l.PageSize, len(l.Items))
	return l.Items[l.Offset:end]
}

// Select moves the cursor to idx, clamped to the items, and scrolls so the
// cursor is visible.
func (l *List) Select(idx int) {
	if len(l.Items) == 0 {
		l.Cursor, l.Offset = 0, 0
		return
	}
	l.Cursor = max(0, min(idx, len(l.Items)-1))
	page := max(l.PageSize, 1)
	switch {
	case l.Cursor < l.Offset:
		l.Offset = l.Cursor
	case l.Cursor >= l.Offset+page:
		l.Offset = l.Cursor - page + 1
	}
}

// Selected returns the index of the selected item.
func (l *List) Selected() int {
	return l.Cursor
}

// IsSelected returns true if the given absolute index is the cursor.
func (l *List) IsSelected(absIdx int) bool {
	return absIdx == l.Cursor
}

// RelToAbs converts a relative (visible) index to absolute.
func (l *List) RelToAbs(relIdx int) int {
	return l.Offset + relIdx
}
