package table

import "fmt"

// ColumnView is one visible column in a rendered view.
type ColumnView struct {
	ID        string `json:"id"`
	Header    string `json:"header"`
	Sortable  bool   `json:"sortable"`
	SortState string `json:"sortState"` // "", "asc" or "desc"
}

// RowView pairs a page row with its identity and expansion state.
type RowView[T any] struct {
	ID       string `json:"id"`
	Expanded bool   `json:"expanded"`
	Row      T      `json:"row"`
}

// View is one rendered page of the table.
type View[T any] struct {
	Columns      []ColumnView `json:"columns"`
	Rows         []RowView[T] `json:"rows"`
	Page         int          `json:"page"`
	PageCount    int          `json:"pageCount"`
	PageSize     int          `json:"pageSize"`
	PageSizes    []int        `json:"pageSizes"`
	TotalRows    int          `json:"totalRows"`
	FilteredRows int          `json:"filteredRows"`
	RangeText    string       `json:"rangeText"`
	PageText     string       `json:"pageText"`
	EmptyMessage string       `json:"emptyMessage,omitempty"`
	HasPrev      bool         `json:"hasPrev"`
	HasNext      bool         `json:"hasNext"`
}

// View renders the current page. When no rows survive, EmptyMessage
// distinguishes an empty source ("no data yet") from an active filter that
// matched nothing.
func (t *Table[T]) View() View[T] {
	filtered := t.sorted(t.filtered())
	t.clampPage()

	start := (t.page - 1) * t.pageSize
	end := start + t.pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	v := View[T]{
		Page:         t.page,
		PageCount:    t.pageCount(),
		PageSize:     t.pageSize,
		PageSizes:    t.cfg.PageSizes,
		TotalRows:    len(t.rows),
		FilteredRows: len(filtered),
		HasPrev:      t.page > 1,
		HasNext:      t.page < t.pageCount(),
	}
	v.PageText = fmt.Sprintf("Page %d of %d", v.Page, v.PageCount)

	for _, col := range t.cfg.Columns {
		if t.hidden[col.ID] {
			continue
		}
		cv := ColumnView{ID: col.ID, Header: col.Header, Sortable: col.Sortable}
		if col.ID == t.sortCol {
			cv.SortState = t.sortDir
		}
		v.Columns = append(v.Columns, cv)
	}

	for _, row := range filtered[start:end] {
		id := ""
		if t.cfg.RowID != nil {
			id = t.cfg.RowID(row)
		}
		v.Rows = append(v.Rows, RowView[T]{ID: id, Expanded: t.expanded[id], Row: row})
	}

	switch {
	case len(filtered) == 0 && len(t.rows) == 0:
		v.EmptyMessage = t.cfg.EmptyMessage
		v.RangeText = "Showing 0 of 0"
	case len(filtered) == 0:
		v.EmptyMessage = t.cfg.NoMatchMessage
		v.RangeText = fmt.Sprintf("Showing 0 of %d", len(t.rows))
	default:
		v.RangeText = fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(filtered))
	}
	return v
}
