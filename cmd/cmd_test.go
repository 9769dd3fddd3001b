package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/report-consolidator/internal/consolidator"
)

const header = "Clinica X;;;\nPeriodo: 01/2024;;;\nPaciente;Procedimento;Valor;\n"

// resetFlags restores every flag to its default between executions of the
// shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeReports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(header+";;Total:;1.000,00;\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte(header+";;Total:;1.000,00;\n"), 0644))
	return dir
}

func TestConsolidateCommand(t *testing.T) {
	dir := writeReports(t)

	out, err := execute(t, "", "consolidate", dir, "*.csv", "total.csv")
	require.NoError(t, err)

	assert.Contains(t, out, "Processing complete!")
	assert.Contains(t, out, "Sum total of all files: 2000,00")
	assert.Contains(t, out, "Files merged: 2, short: 0, failed: 0")

	data, err := os.ReadFile(filepath.Join(dir, "total.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\nTotal Geral de Todos os Arquivos:;;Total:;2000,00;\n"))
}

func TestConsolidateNoMatches(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "", "consolidate", dir, "*.csv")
	assert.ErrorIs(t, err, consolidator.ErrNoMatchingFiles)
	assert.NoFileExists(t, filepath.Join(dir, "consolidado.csv"))
}

func TestConsolidateDryRunWithSummaryLog(t *testing.T) {
	dir := writeReports(t)
	logDir := filepath.Join(t.TempDir(), "logs")

	out, err := execute(t, "", "consolidate", dir, "--dry-run", "--summary-log", logDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Dry run, nothing written to:")
	assert.NoFileExists(t, filepath.Join(dir, "consolidado.csv"))

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "consolidation_summary_"))
}

func TestConsolidatePromptsWhenInteractive(t *testing.T) {
	dir := writeReports(t)

	orig := isInteractive
	isInteractive = func(io.Reader) bool { return true }
	defer func() { isInteractive = orig }()

	out, err := execute(t, dir+"\n\nprompted.csv\n", "consolidate")
	require.NoError(t, err)

	assert.Contains(t, out, "Directory of the CSV files [.]: ")
	assert.Contains(t, out, "Sum total of all files: 2000,00")
	assert.FileExists(t, filepath.Join(dir, "prompted.csv"))
}

func TestConsolidateRejectsUnknownPolicy(t *testing.T) {
	dir := writeReports(t)

	_, err := execute(t, "", "consolidate", dir, "--on-read-error", "retry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration has 1 error(s)")
}

func TestConvertAndSheetsCommands(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "faturamento.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Resumo"))
	_, err := f.NewSheet("Dados")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Dados", "A1", &[]interface{}{"Paciente", "Valor"}))
	require.NoError(t, f.SetSheetRow("Dados", "A2", &[]interface{}{"Ana", "150,00"}))
	require.NoError(t, f.SaveAs(book))
	require.NoError(t, f.Close())

	out, err := execute(t, "", "sheets", book)
	require.NoError(t, err)
	assert.Contains(t, out, "0. Resumo\n1. Dados\n")

	out, err = execute(t, "", "sheets", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1. "+book)

	out, err = execute(t, "", "convert", book, "--sheet", "Dados", "--delimiter", ";")
	require.NoError(t, err)
	assert.Contains(t, out, "Conversion complete!")

	data, err := os.ReadFile(filepath.Join(dir, "faturamento.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Paciente;Valor\nAna;150,00\n", string(data))
}

func TestConvertMissingInput(t *testing.T) {
	_, err := execute(t, "", "convert", filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("report:\n  encoding: latin1\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("consolidation:\n  on_read_error: retry\n"), 0644))

	out, err := execute(t, "", "validate", "--config", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Encoding:        latin1")
	assert.Contains(t, out, "Configuration is valid")

	_, err = execute(t, "", "validate", "--config", bad)
	assert.Error(t, err)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := execute(t, "", "validate", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestInvalidLogFormat(t *testing.T) {
	_, err := execute(t, "", "version", "--log-format", "xml")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Report Consolidator "+Version)
	assert.Contains(t, out, "Config:       built-in defaults\n")
	assert.Contains(t, out, "Encoding:     utf-8\n")
	assert.Contains(t, out, "Tail window:  10 lines\n")
}

func TestVersionReportsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  encoding: latin1\n  delimiter: \"|\"\n"), 0644))

	out, err := execute(t, "", "version", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Config:       "+path+"\n")
	assert.Contains(t, out, "Encoding:     latin1\n")
	assert.Contains(t, out, "Delimiter:    \"|\"\n")
}

func TestConsolidateHelpMentionsSkippedFiles(t *testing.T) {
	assert.Contains(t, consolidateCmd.Long, "the output file itself")
	assert.Contains(t, consolidateCmd.Long, "hidden files")
}
