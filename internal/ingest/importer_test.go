package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/store"
)

func newImportStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestImportRecordsStatusChanges(t *testing.T) {
	st := newImportStore(t)
	im := NewImporter(st)
	ctx := context.Background()

	first := []model.CandidateRecord{
		{ID: "c1", Name: "Asha", Client: "Acme", Role: "Backend Engineer", Status: "Sourcing"},
		{ID: "c2", Name: "Ben", Client: "Acme", Role: "Backend Engineer", Status: "Sourcing"},
	}
	res, err := im.Import(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	// First sighting is not a transition.
	assert.Zero(t, res.StatusChanges)

	second := []model.CandidateRecord{
		{ID: "c1", Name: "Asha", Client: "Acme", Role: "Backend Engineer", Status: "Screening",
			StatusChangedAt: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)},
		{ID: "c2", Name: "Ben", Client: "Acme", Role: "Backend Engineer", Status: "Sourcing"},
		{ID: "c3", Name: "Cy", Client: "Acme", Role: "Designer", Status: "Sourcing"},
	}
	res, err = im.Import(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 1, res.StatusChanges)

	hist, err := st.ListStatusHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "Sourcing", hist[0].Previous)
	assert.Equal(t, "Screening", hist[0].New)
	assert.Equal(t, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), hist[0].ChangedAt)
}

func TestImportBatches(t *testing.T) {
	st := newImportStore(t)
	im := NewImporter(st)
	im.BatchSize = 2

	records := make([]model.CandidateRecord, 5)
	for i := range records {
		records[i] = model.CandidateRecord{
			ID: string(rune('a' + i)), Name: "Candidate", Status: "Sourcing",
		}
	}

	res, err := im.Import(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Imported)
}

func TestImportEmpty(t *testing.T) {
	st := newImportStore(t)
	res, err := NewImporter(st).Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
}

func TestBatches(t *testing.T) {
	records := make([]model.CandidateRecord, 5)

	assert.Len(t, batches(records, 0), 1)
	assert.Len(t, batches(records, 10), 1)

	split := batches(records, 2)
	require.Len(t, split, 3)
	assert.Len(t, split[0], 2)
	assert.Len(t, split[2], 1)
}

func writeFixture(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Candidates")
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	path := filepath.Join(t.TempDir(), "candidates.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadCandidates(t *testing.T) {
	path := writeFixture(t, [][]string{
		{"Candidate ID", "Name", "Role", "Client", "Staffing Plan", "Recruiter", "Status", "Status Date", "Ignored"},
		{"c1", "Asha", "Backend Engineer", "Acme", "Q3 Backend", "Priya", "Screening", "2025-08-20", "x"},
		{"", "Ben", "Backend Engineer", "Acme", "", "", "Sourcing", "", ""},
		{"c3", "", "Backend Engineer", "Acme", "", "", "Sourcing", "", ""}, // no name, skipped
	})

	records, err := ReadCandidates(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "c1", records[0].ID)
	assert.Equal(t, "Asha", records[0].Name)
	assert.Equal(t, "Q3 Backend", records[0].Plan)
	assert.Equal(t, "Priya", records[0].Owner)
	assert.Equal(t, "import", records[0].Source)
	assert.Equal(t, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), records[0].StatusChangedAt)

	// Missing id gets generated.
	assert.NotEmpty(t, records[1].ID)
	assert.True(t, records[1].StatusChangedAt.IsZero())
}

func TestReadCandidatesBadHeader(t *testing.T) {
	path := writeFixture(t, [][]string{
		{"Foo", "Bar"},
		{"1", "2"},
	})
	_, err := ReadCandidates(path, XLSXOptions{})
	assert.Error(t, err)
}

func TestReadCandidatesMissingSheet(t *testing.T) {
	path := writeFixture(t, [][]string{{"Name"}, {"Asha"}})

	_, err := ReadCandidates(path, XLSXOptions{SheetName: "Nope"})
	assert.Error(t, err)

	_, err = ReadCandidates(path, XLSXOptions{SheetIndex: 3})
	assert.Error(t, err)
}
