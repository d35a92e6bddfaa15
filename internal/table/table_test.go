package table_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dest-sports/backoffice/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     string
	Name   string
	Amount float64
}

func testConfig() table.Config[row] {
	return table.Config[row]{
		Columns: []table.Column[row]{
			{ID: "name", Header: "Name", Value: func(r row) any { return r.Name }, Sortable: true},
			{ID: "amount", Header: "Amount", Value: func(r row) any { return r.Amount }, Sortable: true},
		},
		RowID:          func(r row) string { return r.ID },
		SearchIndex:    func(r row) string { return strings.ToLower(r.Name) },
		EmptyMessage:   "No partners yet",
		NoMatchMessage: "No partners match your search",
	}
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{ID: fmt.Sprintf("r%02d", i+1), Name: fmt.Sprintf("Row %02d", i+1), Amount: float64(i + 1)}
	}
	return out
}

func TestPaginationBoundary(t *testing.T) {
	tbl := table.New(testConfig(), rows(25))

	tbl.SetPage(3)
	v := tbl.View()
	assert.Len(t, v.Rows, 5, "last page holds the remainder")
	assert.Equal(t, "Showing 21-25 of 25", v.RangeText)
	assert.Equal(t, "Page 3 of 3", v.PageText)
	assert.True(t, v.HasPrev)
	assert.False(t, v.HasNext)
}

func TestSetPageSizeResetsToFirstPage(t *testing.T) {
	tbl := table.New(testConfig(), rows(25))
	tbl.SetPage(3)

	tbl.SetPageSize(25)
	v := tbl.View()
	assert.Equal(t, 1, v.Page)
	assert.Len(t, v.Rows, 25)
}

func TestSetPageSizeRejectsUnknownSizes(t *testing.T) {
	tbl := table.New(testConfig(), rows(25))
	tbl.SetPageSize(17)
	assert.Equal(t, 10, tbl.PageSize())
}

func TestPageClampedInRange(t *testing.T) {
	tbl := table.New(testConfig(), rows(25))

	tbl.SetPage(99)
	assert.Equal(t, 3, tbl.View().Page)
	tbl.SetPage(-1)
	assert.Equal(t, 1, tbl.View().Page)
}

func TestTriStateSort(t *testing.T) {
	data := []row{
		{ID: "a", Name: "Charlie", Amount: 2},
		{ID: "b", Name: "alpha", Amount: 30},
		{ID: "c", Name: "Bravo", Amount: 4},
	}
	tbl := table.New(testConfig(), data)

	tbl.ToggleSort("name")
	v := tbl.View()
	assert.Equal(t, []string{"b", "c", "a"}, rowIDs(v), "ascending, case-insensitive")

	tbl.ToggleSort("name")
	assert.Equal(t, []string{"a", "c", "b"}, rowIDs(tbl.View()), "descending")

	tbl.ToggleSort("name")
	assert.Equal(t, []string{"a", "b", "c"}, rowIDs(tbl.View()), "third toggle restores source order")
}

func TestNumericSortByValue(t *testing.T) {
	data := []row{
		{ID: "a", Amount: 100},
		{ID: "b", Amount: 9},
		{ID: "c", Amount: 25},
	}
	tbl := table.New(testConfig(), data)

	tbl.ToggleSort("amount")
	assert.Equal(t, []string{"b", "c", "a"}, rowIDs(tbl.View()), "numeric, not lexicographic")
}

func TestSortSwitchingColumnsStartsAscending(t *testing.T) {
	tbl := table.New(testConfig(), rows(3))
	tbl.ToggleSort("name")
	tbl.ToggleSort("name")

	tbl.ToggleSort("amount")
	col, dir := tbl.Sort()
	assert.Equal(t, "amount", col)
	assert.Equal(t, table.SortAsc, dir)
}

func TestGlobalFilter(t *testing.T) {
	data := []row{
		{ID: "a", Name: "Ace Academy"},
		{ID: "b", Name: "Green Arena"},
		{ID: "c", Name: "Ace Turf"},
	}
	tbl := table.New(testConfig(), data)

	tbl.SetFilter("  ACE ")
	v := tbl.View()
	assert.Equal(t, []string{"a", "c"}, rowIDs(v))
	assert.Equal(t, 3, v.TotalRows)
	assert.Equal(t, 2, v.FilteredRows)
}

func TestFilterResetsPage(t *testing.T) {
	tbl := table.New(testConfig(), rows(25))
	tbl.SetPage(3)

	tbl.SetFilter("row")
	assert.Equal(t, 1, tbl.View().Page)
}

func TestEmptyStateMessages(t *testing.T) {
	empty := table.New(testConfig(), nil)
	v := empty.View()
	assert.Equal(t, "No partners yet", v.EmptyMessage)
	assert.Equal(t, "Showing 0 of 0", v.RangeText)

	populated := table.New(testConfig(), rows(3))
	populated.SetFilter("zzz-no-match")
	v = populated.View()
	assert.Equal(t, "No partners match your search", v.EmptyMessage)
	assert.Equal(t, "Showing 0 of 3", v.RangeText)

	populated.SetFilter("")
	assert.Empty(t, populated.View().EmptyMessage)
}

func TestColumnVisibility(t *testing.T) {
	tbl := table.New(testConfig(), rows(2))

	tbl.SetColumnVisible("amount", false)
	v := tbl.View()
	require.Len(t, v.Columns, 1)
	assert.Equal(t, "name", v.Columns[0].ID)

	tbl.SetColumnVisible("amount", true)
	assert.Len(t, tbl.View().Columns, 2)
}

func TestToggleAllColumns(t *testing.T) {
	tbl := table.New(testConfig(), rows(2))

	tbl.ToggleAll()
	assert.Empty(t, tbl.View().Columns, "all visible, so toggle hides everything")

	tbl.ToggleAll()
	assert.Len(t, tbl.View().Columns, 2, "any hidden, so toggle shows everything")

	tbl.SetColumnVisible("name", false)
	tbl.ToggleAll()
	assert.Len(t, tbl.View().Columns, 2)
}

func TestExpansionSurvivesSortFilterAndPaging(t *testing.T) {
	tbl := table.New(testConfig(), rows(25))
	tbl.ToggleExpanded("r21")

	tbl.ToggleSort("name")
	tbl.ToggleSort("name")
	tbl.SetFilter("row 2")
	tbl.SetPage(1)

	assert.True(t, tbl.IsExpanded("r21"))
	found := false
	for _, rv := range tbl.View().Rows {
		if rv.ID == "r21" {
			found = true
			assert.True(t, rv.Expanded)
		}
	}
	assert.True(t, found)
}

func TestSortStateInColumnView(t *testing.T) {
	tbl := table.New(testConfig(), rows(3))
	tbl.ToggleSort("amount")

	for _, col := range tbl.View().Columns {
		if col.ID == "amount" {
			assert.Equal(t, table.SortAsc, col.SortState)
		} else {
			assert.Empty(t, col.SortState)
		}
	}
}

func rowIDs[T any](v table.View[T]) []string {
	out := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		out = append(out, r.ID)
	}
	return out
}
