package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyRows_Empty(t *testing.T) {
	t.Parallel()

	n, err := CopyRows(context.Background(), nil, "candidates", []string{"id"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBulkUpsert_Validation(t *testing.T) {
	t.Parallel()

	rows := [][]any{{"c1", "Ada"}}

	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{Table: "candidates"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns")

	_, err = BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:   "candidates",
		Columns: []string{"id", "name"},
	}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys")
}

func TestBulkUpsert_Empty(t *testing.T) {
	t.Parallel()

	n, err := BulkUpsert(context.Background(), nil, UpsertConfig{}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBulkUpsert_MergesThroughTempTable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE _tmp_upsert_candidates`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_candidates"}, []string{"id", "name", "status"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO candidates .* ON CONFLICT \(id\) DO UPDATE SET`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "candidates",
		Columns:      []string{"id", "name", "status"},
		ConflictKeys: []string{"id"},
	}, [][]any{
		{"c1", "Ada", "Screening"},
		{"c2", "Grace", "Tech Round"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
