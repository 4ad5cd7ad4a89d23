// Package ingest loads candidate records from spreadsheet exports into the
// store, tracking status changes along the way.
package ingest

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/greyamp/alignops/internal/model"
)

// XLSXOptions configures the spreadsheet parser.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // number of header rows to skip; the first row is always read as the header
}

// header column names recognized in candidate exports, lowercased.
var columnFields = map[string]string{
	"id":             "id",
	"candidate id":   "id",
	"name":           "name",
	"candidate name": "name",
	"role":           "role",
	"position":       "role",
	"client":         "client",
	"hire for":       "client",
	"plan":           "plan",
	"staffing plan":  "plan",
	"owner":          "owner",
	"recruiter":      "owner",
	"status":         "status",
	"source":         "source",
	"status changed": "status_changed",
	"status date":    "status_changed",
}

// dateLayouts tried in order when parsing spreadsheet date cells.
var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/2006",
	time.RFC3339,
}

// ReadCandidates parses an XLSX export into candidate records. The first row
// must be a header; unrecognized columns are ignored. Rows without a name are
// skipped, rows without an id get a generated one.
func ReadCandidates(path string, opts XLSXOptions) ([]model.CandidateRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("ingest: sheet %q is empty", sheet.Name)
	}

	fields := headerFields(sheet.Rows[0])
	if _, ok := hasField(fields, "name"); !ok {
		return nil, eris.New("ingest: header row has no name column")
	}

	skip := opts.SkipRows
	if skip < 1 {
		skip = 1
	}

	var out []model.CandidateRecord
	for _, row := range sheet.Rows[skip:] {
		c, ok := parseRow(row, fields)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("ingest: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

// headerFields maps column index to record field name.
func headerFields(row *xlsx.Row) map[int]string {
	fields := make(map[int]string, len(row.Cells))
	for i, cell := range row.Cells {
		label := strings.ToLower(strings.TrimSpace(cell.String()))
		if field, ok := columnFields[label]; ok {
			fields[i] = field
		}
	}
	return fields
}

func hasField(fields map[int]string, name string) (int, bool) {
	for i, f := range fields {
		if f == name {
			return i, true
		}
	}
	return 0, false
}

func parseRow(row *xlsx.Row, fields map[int]string) (model.CandidateRecord, bool) {
	var c model.CandidateRecord
	for i, cell := range row.Cells {
		field, ok := fields[i]
		if !ok {
			continue
		}
		v := strings.TrimSpace(cell.String())
		switch field {
		case "id":
			c.ID = v
		case "name":
			c.Name = v
		case "role":
			c.Role = v
		case "client":
			c.Client = v
		case "plan":
			c.Plan = v
		case "owner":
			c.Owner = v
		case "status":
			c.Status = v
		case "source":
			c.Source = v
		case "status_changed":
			c.StatusChangedAt = parseCellTime(v)
		}
	}
	if c.Name == "" {
		return model.CandidateRecord{}, false
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Source == "" {
		c.Source = "import"
	}
	return c, true
}

func parseCellTime(v string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
