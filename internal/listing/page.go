package listing

import (
	"fmt"

	"github.com/csvdesk/csvdesk/internal/models"
)

// Row is one visible table row. Actions address the record by Record.ID.
type Row struct {
	Record models.FileRecord
	// Position is the 1-based index within the filtered sequence.
	Position int
}

// Page is the rendered view of the listing.
type Page struct {
	Rows     []Row
	Number   int // current page, 1-based
	Last     int // last page, never less than 1
	Filtered int // records matching Query
	Total    int // records in the snapshot
	Query    string
}

// Info returns the "Page X of Y" label.
func (p Page) Info() string {
	return fmt.Sprintf("Page %d of %d", p.Number, p.Last)
}

// HasPrevious reports whether PreviousPage would move.
func (p Page) HasPrevious() bool { return p.Number > 1 }

// HasNext reports whether NextPage would move.
func (p Page) HasNext() bool { return p.Number < p.Last }

// LastPage returns max(1, ceil(filtered/pageSize)).
func LastPage(filtered, pageSize int) int {
	if filtered <= 0 || pageSize <= 0 {
		return 1
	}
	return (filtered + pageSize - 1) / pageSize
}

// Filter returns the records whose filename matches query, preserving order.
func Filter(records []models.FileRecord, query string) []models.FileRecord {
	if query == "" {
		return records
	}
	out := make([]models.FileRecord, 0, len(records))
	for _, r := range records {
		if r.MatchesQuery(query) {
			out = append(out, r)
		}
	}
	return out
}

// Paginate builds the Page for the given snapshot and view state.
// page is clamped into [1, lastPage].
func Paginate(records []models.FileRecord, query string, page, pageSize int) Page {
	filtered := Filter(records, query)
	last := LastPage(len(filtered), pageSize)
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	rows := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, Row{Record: filtered[i], Position: i + 1})
	}

	return Page{
		Rows:     rows,
		Number:   page,
		Last:     last,
		Filtered: len(filtered),
		Total:    len(records),
		Query:    query,
	}
}
