package results

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'

	records, err := r.ReadAll()
	require.NoError(t, err)

	return records
}

func TestInitializeCSVWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, InitializeCSV(path, Columns))

	records := readAll(t, path)
	require.Len(t, records, 1)
	require.Equal(t, Columns, records[0])
}

func TestInitializeCSVTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, InitializeCSV(path, Columns))
	require.NoError(t, AppendRow(path, Columns, Row{"Firma": "Acme"}))
	require.NoError(t, InitializeCSV(path, Columns))

	records := readAll(t, path)
	require.Len(t, records, 1)
}

func TestAppendRowKeepsColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, InitializeCSV(path, Columns))
	require.NoError(t, AppendRow(path, Columns, Row{
		"Firma":   "Hanse Holding AG",
		"Name":    "Musterfrau",
		"Vorname": "Erika",
		"Hinweis": "",
	}))

	records := readAll(t, path)
	require.Len(t, records, 2)

	row := records[1]
	require.Equal(t, "Musterfrau", row[0])
	require.Equal(t, "Erika", row[1])
	require.Equal(t, "Hanse Holding AG", row[3])
	require.Len(t, row, len(Columns))
}

func TestAppendRowWritesHeaderIntoEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, AppendRow(path, Columns, Row{"Firma": "Acme"}))

	records := readAll(t, path)
	require.Len(t, records, 2)
	require.Equal(t, Columns, records[0])
}
