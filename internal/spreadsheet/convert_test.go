package spreadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates an XLSX with a "Resumo" sheet and a "Dados" sheet.
func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Resumo"))
	require.NoError(t, f.SetSheetRow("Resumo", "A1", &[]interface{}{"Clínica", "Período"}))

	_, err := f.NewSheet("Dados")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Dados", "A1", &[]interface{}{"Paciente", "Valor", "Obs"}))
	require.NoError(t, f.SetSheetRow("Dados", "A2", &[]interface{}{"Ana", "150,00"}))
	require.NoError(t, f.SetSheetRow("Dados", "A4", &[]interface{}{"Bruno", "1.200,50", "retorno; urgente"}))

	path := filepath.Join(t.TempDir(), "relatorio.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestListSheets(t *testing.T) {
	names, err := ListSheets(writeWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Resumo", "Dados"}, names)
}

func TestResolveSheet(t *testing.T) {
	names := []string{"Resumo", "Dados"}

	i, err := ResolveSheet(names, "")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = ResolveSheet(names, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = ResolveSheet(names, "Dados")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = ResolveSheet(names, "2")
	assert.ErrorIs(t, err, ErrSheetNotFound)
	assert.Contains(t, err.Error(), "the file has 2 sheet(s)")

	_, err = ResolveSheet(names, "Outro")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	_, err = ResolveSheet(nil, "")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestConvertByName(t *testing.T) {
	input := writeWorkbook(t)
	output := filepath.Join(t.TempDir(), "dados.csv")

	res, err := Convert(input, output, ConvertOptions{Sheet: "Dados"})
	require.NoError(t, err)
	assert.Equal(t, "Dados", res.Sheet)
	assert.Equal(t, 3, res.Rows, "the blank third row is dropped")
	assert.Equal(t, 3, res.Columns)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t,
		"Paciente,Valor,Obs\n"+
			"Ana,\"150,00\",\n"+
			"Bruno,\"1.200,50\",retorno; urgente\n",
		string(data))
}

func TestConvertDefaultOutputAndDelimiter(t *testing.T) {
	input := writeWorkbook(t)

	res, err := Convert(input, "", ConvertOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(input), "relatorio.csv"), res.Output)
	assert.Equal(t, "Resumo", res.Sheet)

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t, "Clínica;Período\n", string(data))
}

func TestConvertInvalidSheet(t *testing.T) {
	input := writeWorkbook(t)
	output := filepath.Join(t.TempDir(), "x.csv")

	_, err := Convert(input, output, ConvertOptions{Sheet: "7"})
	assert.ErrorIs(t, err, ErrSheetNotFound)
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "nothing is written for a bad sheet")
}

func TestOpenUnsupportedFormat(t *testing.T) {
	_, err := Open("report.ods")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenCorruptXLS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xls")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestNormalizeRows(t *testing.T) {
	rows := [][]string{{"a"}, {}, {"b", "c"}, {" ", ""}}
	assert.Equal(t, [][]string{{"a", ""}, {"b", "c"}}, normalizeRows(rows))
}
