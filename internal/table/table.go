// Package table is a generic in-memory tabular view engine: tri-state
// single-column sorting, global substring filtering over a precomputed search
// index, client-side pagination, per-column visibility and expandable rows.
// It holds UI state only; the row data itself is never mutated.
package table

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Sort directions.
const (
	SortNone = ""
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultPageSizes are the selectable page sizes.
var DefaultPageSizes = []int{10, 25, 50}

// Column describes one column of a table over row type T. Value returns the
// raw cell used for sorting and rendering; numeric and time values compare by
// magnitude, everything else compares as a case-insensitive string.
type Column[T any] struct {
	ID       string
	Header   string
	Value    func(T) any
	Sortable bool
	Hidden   bool // initial visibility
}

// Config assembles a table. RowID must be stable across sorting and
// filtering; SearchIndex returns the precomputed token string the global
// filter matches against.
type Config[T any] struct {
	Columns        []Column[T]
	RowID          func(T) string
	SearchIndex    func(T) string
	PageSize       int
	PageSizes      []int
	EmptyMessage   string
	NoMatchMessage string
}

// Table is the stateful engine. Not safe for concurrent use; callers hold
// one per view.
type Table[T any] struct {
	cfg      Config[T]
	rows     []T
	filter   string
	sortCol  string
	sortDir  string
	page     int // 1-based
	pageSize int
	hidden   map[string]bool
	expanded map[string]bool
}

// New builds a table over the given rows. A zero PageSize falls back to the
// first configured page size.
func New[T any](cfg Config[T], rows []T) *Table[T] {
	if len(cfg.PageSizes) == 0 {
		cfg.PageSizes = DefaultPageSizes
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = cfg.PageSizes[0]
	}
	t := &Table[T]{
		cfg:      cfg,
		page:     1,
		pageSize: cfg.PageSize,
		hidden:   make(map[string]bool),
		expanded: make(map[string]bool),
	}
	for _, col := range cfg.Columns {
		if col.Hidden {
			t.hidden[col.ID] = true
		}
	}
	t.SetRows(rows)
	return t
}

// SetRows replaces the underlying data. Filter, sort, visibility and
// expansion state survive; the page is re-clamped.
func (t *Table[T]) SetRows(rows []T) {
	t.rows = rows
	t.clampPage()
}

// SetFilter sets the global filter query and returns to the first page.
// Matching is a lowercase substring test against the precomputed index.
func (t *Table[T]) SetFilter(query string) {
	t.filter = strings.ToLower(strings.TrimSpace(query))
	t.page = 1
}

// Filter returns the active filter query.
func (t *Table[T]) Filter() string { return t.filter }

// ToggleSort cycles a sortable column through ascending, descending and
// unsorted. Sorting a different column starts it ascending.
func (t *Table[T]) ToggleSort(columnID string) {
	col, ok := t.column(columnID)
	if !ok || !col.Sortable {
		return
	}
	if t.sortCol != columnID {
		t.sortCol = columnID
		t.sortDir = SortAsc
		return
	}
	switch t.sortDir {
	case SortAsc:
		t.sortDir = SortDesc
	case SortDesc:
		t.sortCol = ""
		t.sortDir = SortNone
	default:
		t.sortDir = SortAsc
	}
}

// Sort reports the active sort column and direction.
func (t *Table[T]) Sort() (column, direction string) {
	return t.sortCol, t.sortDir
}

// SetPage moves to a 1-based page, clamped into range.
func (t *Table[T]) SetPage(page int) {
	t.page = page
	t.clampPage()
}

// NextPage advances one page if one exists.
func (t *Table[T]) NextPage() { t.SetPage(t.page + 1) }

// PrevPage steps back one page if one exists.
func (t *Table[T]) PrevPage() { t.SetPage(t.page - 1) }

// SetPageSize switches to one of the configured page sizes and returns to
// the first page. Unknown sizes are ignored.
func (t *Table[T]) SetPageSize(size int) {
	for _, allowed := range t.cfg.PageSizes {
		if size == allowed {
			t.pageSize = size
			t.page = 1
			return
		}
	}
}

// PageSize returns the active page size.
func (t *Table[T]) PageSize() int { return t.pageSize }

// SetColumnVisible shows or hides one column.
func (t *Table[T]) SetColumnVisible(columnID string, visible bool) {
	if _, ok := t.column(columnID); !ok {
		return
	}
	if visible {
		delete(t.hidden, columnID)
	} else {
		t.hidden[columnID] = true
	}
}

// ToggleAll flips global visibility: hides every column when all are
// visible, otherwise shows every column.
func (t *Table[T]) ToggleAll() {
	if len(t.hidden) == 0 {
		for _, col := range t.cfg.Columns {
			t.hidden[col.ID] = true
		}
		return
	}
	t.hidden = make(map[string]bool)
}

// ToggleExpanded flips one row's expansion state. Expansion is keyed by row
// identity and survives sorting, filtering and paging.
func (t *Table[T]) ToggleExpanded(rowID string) {
	if t.expanded[rowID] {
		delete(t.expanded, rowID)
	} else {
		t.expanded[rowID] = true
	}
}

// IsExpanded reports one row's expansion state.
func (t *Table[T]) IsExpanded(rowID string) bool { return t.expanded[rowID] }

func (t *Table[T]) column(id string) (Column[T], bool) {
	for _, col := range t.cfg.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column[T]{}, false
}

func (t *Table[T]) filtered() []T {
	if t.filter == "" || t.cfg.SearchIndex == nil {
		return t.rows
	}
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if strings.Contains(strings.ToLower(t.cfg.SearchIndex(row)), t.filter) {
			out = append(out, row)
		}
	}
	return out
}

func (t *Table[T]) sorted(rows []T) []T {
	if t.sortCol == "" || t.sortDir == SortNone {
		return rows
	}
	col, ok := t.column(t.sortCol)
	if !ok {
		return rows
	}
	out := make([]T, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(col.Value(out[i]), col.Value(out[j]))
		if t.sortDir == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func (t *Table[T]) pageCount() int {
	n := len(t.filtered())
	if n == 0 {
		return 1
	}
	return (n + t.pageSize - 1) / t.pageSize
}

func (t *Table[T]) clampPage() {
	if t.page < 1 {
		t.page = 1
	}
	if max := t.pageCount(); t.page > max {
		t.page = max
	}
}

// compare orders two raw cell values: nil sorts first, numbers and times by
// magnitude, everything else as a case-insensitive string.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if na, aok := toFloat(a); aok {
		if nb, bok := toFloat(b); bok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	if ta, aok := toTime(a); aok {
		if tb, bok := toTime(b); bok {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(
		strings.ToLower(fmt.Sprintf("%v", a)),
		strings.ToLower(fmt.Sprintf("%v", b)),
	)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	default:
		return time.Time{}, false
	}
}
