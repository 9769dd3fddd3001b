package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/report-consolidator/internal/types"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))
}

func TestDiscoverInputFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.csv", "a.csv", "b.csv", "notes.txt"} {
		touch(t, filepath.Join(dir, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.csv"), 0755))

	files, err := NewFileManager(dir).DiscoverInputFiles("*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.csv"),
	}, files)
}

func TestDiscoverInputFilesSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "._a.csv", ".backup.csv"} {
		touch(t, filepath.Join(dir, name))
	}
	fm := NewFileManager(dir)

	files, err := fm.DiscoverInputFiles("*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv")}, files)

	files, err = fm.DiscoverInputFiles(".*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "._a.csv"),
		filepath.Join(dir, ".backup.csv"),
	}, files)
}

func TestDiscoverInputFilesPatternWithSpaces(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "anne colono 01.csv"))
	touch(t, filepath.Join(dir, "outro 01.csv"))

	files, err := NewFileManager(dir).DiscoverInputFiles("anne colono *.csv")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDiscoverInputFilesBadPattern(t *testing.T) {
	_, err := NewFileManager(t.TempDir()).DiscoverInputFiles("[")
	assert.ErrorIs(t, err, filepath.ErrBadPattern)
}

func TestListWorkbooks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.xls", "c.csv"} {
		touch(t, filepath.Join(dir, name))
	}

	books, err := NewFileManager(dir).ListWorkbooks()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.xls"), filepath.Join(dir, "b.xlsx")}, books)
}

func TestResolveOutputPath(t *testing.T) {
	dir := t.TempDir()

	got, err := ResolveOutputPath(dir, "consolidado.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "consolidado.csv"), got)

	abs := filepath.Join(t.TempDir(), "out.csv")
	got, err = ResolveOutputPath(dir, abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	touch(t, path)

	require.NoError(t, WriteFileAtomic(path, []byte("new\n"), 0644))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "out.csv"), []byte("x"), 0644)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteSummaryLog(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	summary := &types.RunSummary{
		RunID:      "0f8fad5b-d9cb-469f-a165-70867728950e",
		Directory:  "/data",
		Pattern:    "*.csv",
		OutputPath: "/data/consolidado.csv",
		StartTime:  start,
		EndTime:    start.Add(2 * time.Second),
		GrandTotal: decimal.RequireFromString("2000"),
		Files: []types.FileResult{
			{Path: "/data/a.csv", Status: types.StatusMerged, BodyLines: 4, Total: decimal.RequireFromString("1000")},
			{Path: "/data/b.csv", Status: types.StatusShort},
			{Path: "/data/c.csv", Status: types.StatusFailed, Err: errors.New("permission denied")},
		},
		Warnings: []string{"b.csv: header differs"},
	}

	dir := t.TempDir()
	path, err := WriteSummaryLog(summary, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "consolidation_summary_20240301_100002_0f8fad5b.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Grand Total:    2000,00")
	assert.Contains(t, text, "Merged:         1")
	assert.Contains(t, text, "Failed:         1")
	assert.Contains(t, text, "Error:  permission denied")
	assert.Contains(t, text, "b.csv: header differs")
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestReplaceExtension(t *testing.T) {
	assert.Equal(t, "/x/relatorio.csv", ReplaceExtension("/x/relatorio.xlsx", ".csv"))
	assert.Equal(t, "plain.csv", ReplaceExtension("plain", ".csv"))
}
