package ingest

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/store"
)

// Importer upserts candidate records in batches and appends a status-history
// entry whenever an import changes a candidate's status.
type Importer struct {
	store store.Store

	// BatchSize caps how many records go into a single upsert. Zero means
	// one batch for everything.
	BatchSize int
}

// NewImporter creates an importer over the given store.
func NewImporter(st store.Store) *Importer {
	return &Importer{store: st}
}

// Result summarizes one import run.
type Result struct {
	Imported      int `json:"imported"`
	StatusChanges int `json:"status_changes"`
}

// Import writes records to the store. Existing candidates are compared first
// so status transitions land in the history log with the import timestamp.
func (im *Importer) Import(ctx context.Context, records []model.CandidateRecord) (Result, error) {
	var res Result
	if len(records) == 0 {
		return res, nil
	}

	previous, err := im.previousStatuses(ctx)
	if err != nil {
		return res, err
	}

	now := time.Now().UTC()
	var changes []model.StatusChange
	for i := range records {
		c := &records[i]
		if c.StatusChangedAt.IsZero() {
			c.StatusChangedAt = now
		}
		prev, known := previous[c.ID]
		if known && prev != c.Status {
			changes = append(changes, model.StatusChange{
				CandidateID: c.ID,
				Previous:    prev,
				New:         c.Status,
				ChangedAt:   c.StatusChangedAt,
			})
		}
	}

	for _, batch := range batches(records, im.BatchSize) {
		n, err := im.store.UpsertCandidates(ctx, batch)
		if err != nil {
			return res, eris.Wrap(err, "ingest: upsert candidates")
		}
		res.Imported += n
	}

	for _, ch := range changes {
		if err := im.store.AppendStatusChange(ctx, ch); err != nil {
			return res, eris.Wrapf(err, "ingest: record status change for %s", ch.CandidateID)
		}
	}
	res.StatusChanges = len(changes)

	zap.L().Info("ingest: import complete",
		zap.Int("imported", res.Imported),
		zap.Int("status_changes", res.StatusChanges),
	)
	return res, nil
}

// previousStatuses snapshots current statuses by candidate id.
func (im *Importer) previousStatuses(ctx context.Context) (map[string]string, error) {
	existing, err := im.store.ListCandidates(ctx, store.CandidateFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "ingest: list existing candidates")
	}
	out := make(map[string]string, len(existing))
	for _, c := range existing {
		out[c.ID] = c.Status
	}
	return out, nil
}

func batches(records []model.CandidateRecord, size int) [][]model.CandidateRecord {
	if size <= 0 || size >= len(records) {
		return [][]model.CandidateRecord{records}
	}
	var out [][]model.CandidateRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[start:end])
	}
	return out
}
