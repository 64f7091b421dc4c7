package service

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alomew/oysterstore/pkg/config"
	"github.com/alomew/oysterstore/pkg/store"
)

const goodExport = `
Date,Start Time,End Time,Journey/Action,Charge,Credit,Balance,Note
05-Jan-2024,07:12,07:40,Stratford to Bank,2.40,,15.00,
06-Jan-2024,18:02,18:31,Bank to Stratford,2.40,,12.60,
`

const badHeaderExport = `
Date,Time,Journey,Charge
05-Jan-2024,07:12,Stratford to Bank,2.40
`

func newTestLoader(t *testing.T) (*Loader, *config.Config, *store.Store) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:   dir,
		CSVDir:    filepath.Join(dir, "csv"),
		LoadedDir: filepath.Join(dir, "csv", "loaded"),
		DBPath:    filepath.Join(dir, "oyster.sqlite"),
	}
	require.NoError(t, os.MkdirAll(cfg.CSVDir, 0o755))

	logger := log.New(io.Discard)
	st, err := store.Open(cfg.DBPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return NewLoader(cfg, st, logger), cfg, st
}

func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAllArchivesLoadedExports(t *testing.T) {
	t.Parallel()

	loader, cfg, st := newTestLoader(t)
	writeExport(t, cfg.CSVDir, "journeys.csv", goodExport)

	require.NoError(t, loader.LoadAll())

	// data is in the ledger
	rows, err := st.QueryRange("2024-01-01", "2024-01-31", store.Payees{Operator: "TFL"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// file moved out of the inbox into the archive
	assert.NoFileExists(t, filepath.Join(cfg.CSVDir, "journeys.csv"))
	assert.FileExists(t, filepath.Join(cfg.LoadedDir, "journeys.csv"))
}

func TestLoadAllLeavesRejectedFileInPlace(t *testing.T) {
	t.Parallel()

	loader, cfg, st := newTestLoader(t)
	writeExport(t, cfg.CSVDir, "changed-format.csv", badHeaderExport)

	// a bad file does not fail the run
	require.NoError(t, loader.LoadAll())

	// nothing loaded, nothing moved
	_, _, err := st.LatestBalance()
	assert.ErrorIs(t, err, store.ErrNoData)
	assert.FileExists(t, filepath.Join(cfg.CSVDir, "changed-format.csv"))
	assert.NoFileExists(t, filepath.Join(cfg.LoadedDir, "changed-format.csv"))
}

func TestLoadAllContinuesPastRejectedFile(t *testing.T) {
	t.Parallel()

	loader, cfg, st := newTestLoader(t)
	writeExport(t, cfg.CSVDir, "a-bad.csv", badHeaderExport)
	writeExport(t, cfg.CSVDir, "b-good.csv", goodExport)

	require.NoError(t, loader.LoadAll())

	rows, err := st.QueryRange("2024-01-01", "2024-01-31", store.Payees{Operator: "TFL"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.FileExists(t, filepath.Join(cfg.CSVDir, "a-bad.csv"))
	assert.FileExists(t, filepath.Join(cfg.LoadedDir, "b-good.csv"))
}

func TestLoadAllSkipsAlreadyLoadedDates(t *testing.T) {
	t.Parallel()

	loader, cfg, st := newTestLoader(t)
	writeExport(t, cfg.CSVDir, "first.csv", goodExport)
	require.NoError(t, loader.LoadAll())

	// same days exported again: merge commits zero inserts, the file is
	// still archived
	writeExport(t, cfg.CSVDir, "second.csv", goodExport)
	require.NoError(t, loader.LoadAll())

	rows, err := st.QueryRange("2024-01-01", "2024-01-31", store.Payees{Operator: "TFL"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.FileExists(t, filepath.Join(cfg.LoadedDir, "second.csv"))
}

func TestLoadAllIgnoresNonCSVEntries(t *testing.T) {
	t.Parallel()

	loader, cfg, st := newTestLoader(t)
	writeExport(t, cfg.CSVDir, "notes.txt", "not an export")
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.CSVDir, "loaded"), 0o755))

	require.NoError(t, loader.LoadAll())

	_, _, err := st.LatestBalance()
	assert.ErrorIs(t, err, store.ErrNoData)
	assert.FileExists(t, filepath.Join(cfg.CSVDir, "notes.txt"))
}
