package listing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/csvdesk/csvdesk/internal/models"
)

func records(names ...string) []models.FileRecord {
	out := make([]models.FileRecord, len(names))
	for i, n := range names {
		out[i] = models.FileRecord{ID: fmt.Sprintf("id-%d", i+1), Filename: n, Status: "processed"}
	}
	return out
}

func numbered(n int) []models.FileRecord {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("file%02d.csv", i+1)
	}
	return records(names...)
}

func TestLastPage(t *testing.T) {
	tests := []struct {
		filtered int
		want     int
	}{
		{0, 1},
		{1, 1},
		{5, 1},
		{6, 2},
		{10, 2},
		{11, 3},
		{12, 3},
		{15, 3},
		{16, 4},
	}

	for _, tt := range tests {
		if got := LastPage(tt.filtered, 5); got != tt.want {
			t.Errorf("LastPage(%d, 5) = %d, want %d", tt.filtered, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	all := records("Sales.csv", "report.CSV", "salesman.csv", "other.txt")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty matches all", "", []string{"Sales.csv", "report.CSV", "salesman.csv", "other.txt"}},
		{"case insensitive", "SALES", []string{"Sales.csv", "salesman.csv"}},
		{"extension", "csv", []string{"Sales.csv", "report.CSV", "salesman.csv"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(all, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%q) returned %d records, want %d", tt.query, len(got), len(tt.want))
			}
			for i, r := range got {
				if r.Filename != tt.want[i] {
					t.Errorf("record %d = %q, want %q", i, r.Filename, tt.want[i])
				}
				if !strings.Contains(strings.ToLower(r.Filename), strings.ToLower(tt.query)) {
					t.Errorf("record %q does not contain %q", r.Filename, tt.query)
				}
			}
		})
	}
}

func TestPaginate_TwelveRecords(t *testing.T) {
	all := numbered(12)

	tests := []struct {
		page      int
		wantFirst string
		wantRows  int
		wantInfo  string
	}{
		{1, "file01.csv", 5, "Page 1 of 3"},
		{2, "file06.csv", 5, "Page 2 of 3"},
		{3, "file11.csv", 2, "Page 3 of 3"},
	}

	for _, tt := range tests {
		p := Paginate(all, "", tt.page, 5)
		if len(p.Rows) != tt.wantRows {
			t.Errorf("page %d: %d rows, want %d", tt.page, len(p.Rows), tt.wantRows)
			continue
		}
		if p.Rows[0].Record.Filename != tt.wantFirst {
			t.Errorf("page %d: first row %q, want %q", tt.page, p.Rows[0].Record.Filename, tt.wantFirst)
		}
		if p.Info() != tt.wantInfo {
			t.Errorf("page %d: info %q, want %q", tt.page, p.Info(), tt.wantInfo)
		}
	}

	last := Paginate(all, "", 3, 5)
	if last.Rows[1].Record.Filename != "file12.csv" || last.Rows[1].Position != 12 {
		t.Errorf("last row = %+v, want file12.csv at position 12", last.Rows[1])
	}
	if last.HasNext() {
		t.Error("HasNext() on the last page should be false")
	}
}

func TestPaginate_EmptyIsPageOneOfOne(t *testing.T) {
	p := Paginate(nil, "anything", 1, 5)
	if p.Info() != "Page 1 of 1" {
		t.Errorf("Info() = %q, want %q", p.Info(), "Page 1 of 1")
	}
	if len(p.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(p.Rows))
	}
	if p.HasPrevious() || p.HasNext() {
		t.Error("an empty listing has no neighbouring pages")
	}
}

func TestPaginate_ClampsOutOfRangePage(t *testing.T) {
	all := numbered(7)
	for _, page := range []int{-3, 0, 9} {
		p := Paginate(all, "", page, 5)
		if p.Number < 1 || p.Number > p.Last {
			t.Errorf("Paginate(page=%d) produced %s", page, p.Info())
		}
	}
}
