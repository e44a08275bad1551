// Package results writes the normalized output of a run: the
// semicolon-delimited results table and the per-company XML/PDF files.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Columns is the fixed column order of the results table.
var Columns = []string{
	"Name",
	"Vorname",
	"Rolle",
	"Firma",
	"Rechtsform",
	"Registernummer",
	"Bundesland",
	"Ort",
	"PLZ",
	"Straße",
	"Code_Vertretungsberechtigung",
	"Freitext_Vertretungsberechtigung",
	"Hinweis",
}

// Row maps column names to cell values; missing columns turn into empty
// cells.
type Row map[string]string

// InitializeCSV truncates or creates the file and writes the header row.
func InitializeCSV(path string, header []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	w.Flush()

	return w.Error()
}

// AppendRow appends one row in header order, writing the header first when
// the file is still empty.
func AppendRow(path string, header []string, row Row) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = ';'

	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	record := make([]string, len(header))
	for i, col := range header {
		record[i] = row[col]
	}

	if err := w.Write(record); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	w.Flush()

	return w.Error()
}
