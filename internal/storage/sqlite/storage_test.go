package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shadowsprint/internal/model"
	"github.com/mcoot/shadowsprint/internal/storage"
	"github.com/mcoot/shadowsprint/internal/storage/storagetest"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "game.db"))
	require.NoError(t, err)
	return s
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.StoreSuite{
		NewStore: func(t *testing.T) storage.Store {
			return openTemp(t)
		},
	})
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "game.db")
	s, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.PutGhostIfFaster(ctx, &model.GhostRecord{PlayerID: "p1", Level: 2, TimeMs: 6100})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetGhost(ctx, "p1", 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 6100, got.TimeMs)
	assert.True(t, got.RecordedAt.IsZero())
}

func TestClosedDatabaseIsUnavailable(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Close())

	_, _, err := s.EnsureProgress(context.Background(), "p1", fromMillis(0))
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestReadOnlyDatabaseIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	require.NoError(t, err)
	ro := &Storage{db: db}
	defer func() { _ = ro.Close() }()

	ctx := context.Background()
	_, _, err = ro.EnsureSettings(ctx, model.PlayerSettings{PlayerID: "p1", Language: model.LanguageEnglish})
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	_, err = ro.PutGhostIfFaster(ctx, &model.GhostRecord{PlayerID: "p1", Level: 1, TimeMs: 100})
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestQueryErrorsAreNotUnavailable(t *testing.T) {
	s := openTemp(t)
	defer func() { _ = s.Close() }()

	_, err := s.db.ExecContext(context.Background(), "INSERT INTO no_such_table VALUES (1)")
	require.Error(t, err)
	assert.NotErrorIs(t, wrapErr(err), storage.ErrUnavailable)
}
