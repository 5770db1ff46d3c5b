package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTempStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLStore(DriverSQLite, filepath.Join(t.TempDir(), "t.db"), nil)
	require.NoError(t, err)
	return s
}

func TestNewSQLStore_UnsupportedDriver(t *testing.T) {
	_, err := NewSQLStore("oracle", "x", nil)
	assert.Error(t, err)
}

func TestSQLStore_ExecAndQuery(t *testing.T) {
	s := newTempStore(t)
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, "CREATE TABLE t (id INTEGER, name TEXT, note TEXT)"))
	require.NoError(t, s.Exec(ctx, "INSERT INTO t VALUES (1, 'a', NULL), (2, 'b', 'x')"))

	rows, err := s.Query(ctx, "SELECT id, name, note FROM t ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, "a", rows[0]["name"])
	assert.Nil(t, rows[0]["note"])
	assert.Equal(t, "x", rows[1]["note"])
}

func TestSQLStore_QueryError(t *testing.T) {
	s := newTempStore(t)

	_, err := s.Query(context.Background(), "SELECT * FROM missing")
	assert.Error(t, err)

	err = s.Exec(context.Background(), "EXEC [BugNet_ProjectMilestones_CreateNewMilestone] 1")
	assert.Error(t, err)
}

func TestSQLStore_EmptyResult(t *testing.T) {
	s := newTempStore(t)
	ctx := context.Background()
	require.NoError(t, s.Exec(ctx, "CREATE TABLE t (id INTEGER)"))

	rows, err := s.Query(ctx, "SELECT id FROM t")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateMirror(t *testing.T) {
	s := newTempStore(t)
	ctx := context.Background()

	require.NoError(t, CreateMirror(ctx, s, "Fixed In"))
	// Idempotent.
	require.NoError(t, CreateMirror(ctx, s, "Fixed In"))

	require.NoError(t, s.Exec(ctx,
		"INSERT INTO BugNet_Issues (IssueId, ProjectId, IssueTitle, ReleaseNumber) VALUES (1, '42', 't', '1.0')"))

	rows, err := s.Query(ctx, "SELECT [Fixed In] AS [ReleaseNumber] FROM [BugNet_IssuesView]")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1.0", rows[0]["ReleaseNumber"])
}
