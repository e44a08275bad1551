package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestMoveRecordFiles(t *testing.T) {
	staging := t.TempDir()
	xmlDir := t.TempDir()
	pdfDir := t.TempDir()

	write(t, staging, "SI_HRB_12345.xml")
	write(t, staging, "AD_HRB_12345.pdf")

	xmlPath, err := MoveRecordFiles(staging, xmlDir, pdfDir, "Acme GmbH")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xmlDir, "Acme GmbH.xml"), xmlPath)

	require.FileExists(t, xmlPath)
	require.FileExists(t, filepath.Join(pdfDir, "Acme GmbH.pdf"))

	entries, err := os.ReadDir(staging)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestMoveRecordFilesSanitizesBase(t *testing.T) {
	staging := t.TempDir()
	xmlDir := t.TempDir()
	pdfDir := t.TempDir()

	write(t, staging, "record.xml")
	write(t, staging, "record.pdf")

	xmlPath, err := MoveRecordFiles(staging, xmlDir, pdfDir, "Müller / Söhne")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xmlDir, "Müller _ Söhne.xml"), xmlPath)
}

func TestMoveRecordFilesMissingXML(t *testing.T) {
	staging := t.TempDir()

	write(t, staging, "record.pdf")

	_, err := MoveRecordFiles(staging, t.TempDir(), t.TempDir(), "Acme")
	require.Error(t, err)

	// The staging directory is drained even on failure.
	entries, err := os.ReadDir(staging)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestMoveRecordFilesMissingPDF(t *testing.T) {
	staging := t.TempDir()

	write(t, staging, "record.xml")

	_, err := MoveRecordFiles(staging, t.TempDir(), t.TempDir(), "Acme")
	require.Error(t, err)
}

func TestMoveRecordFilesDrainsLeftovers(t *testing.T) {
	staging := t.TempDir()
	xmlDir := t.TempDir()
	pdfDir := t.TempDir()

	write(t, staging, "record.xml")
	write(t, staging, "record.pdf")
	write(t, staging, "record (1).xml")
	write(t, staging, "notes.txt")

	_, err := MoveRecordFiles(staging, xmlDir, pdfDir, "Acme")
	require.NoError(t, err)

	entries, err := os.ReadDir(staging)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDrain(t *testing.T) {
	staging := t.TempDir()
	write(t, staging, "partial.xml")

	Drain(staging)

	entries, err := os.ReadDir(staging)
	require.NoError(t, err)
	require.Empty(t, entries)
}
