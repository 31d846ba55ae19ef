package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/csvdesk/csvdesk/internal/models"
	"github.com/csvdesk/csvdesk/internal/util/sanitize"
)

// Output formats for files list.
const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatCSV, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use table, csv or json)", format)
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// writeTable renders records as a bordered table.
func writeTable(w io.Writer, records []models.FileRecord, wide bool) error {
	headers := []string{"ID", "FILENAME", "STATUS", "RECORDS"}
	if wide {
		headers = append(headers, "FIELDS")
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{r.ID, r.Filename, r.Status, humanize.Comma(int64(r.RecordsCount))}
		if wide {
			row = append(row, fieldList(r.Fields, ", "))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// writeCSV writes records as CSV. Cell values that a spreadsheet would run
// as a formula are prefixed with a quote.
func writeCSV(w io.Writer, records []models.FileRecord, wide bool) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "filename", "status", "records_count"}
	if wide {
		header = append(header, "fields")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			sanitize.CSVValue(r.ID),
			sanitize.CSVValue(r.Filename),
			sanitize.CSVValue(r.Status),
			strconv.Itoa(r.RecordsCount),
		}
		if wide {
			row = append(row, sanitize.CSVValue(fieldList(r.Fields, ";")))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeJSON writes records as an indented JSON array (never null).
func writeJSON(w io.Writer, records []models.FileRecord) error {
	if records == nil {
		records = []models.FileRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// fieldList joins field names with invisible characters stripped.
func fieldList(fields []string, sep string) string {
	clean := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = sanitize.Field(f); f != "" {
			clean = append(clean, f)
		}
	}
	return strings.Join(clean, sep)
}

func writeRecords(w io.Writer, format string, records []models.FileRecord, wide bool) error {
	switch format {
	case formatCSV:
		return writeCSV(w, records, wide)
	case formatJSON:
		return writeJSON(w, records)
	default:
		return writeTable(w, records, wide)
	}
}
