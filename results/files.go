package results

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// MoveRecordFiles locates the first .xml and the first .pdf file in the
// staging directory and moves them to xmlDir respectively pdfDir as
// <base>.xml / <base>.pdf. Whatever else is left in staging afterwards is
// removed: the staging directory must be empty before the next company's
// search starts, or stale downloads get attributed to the wrong company.
// It returns the final path of the XML record.
func MoveRecordFiles(staging, xmlDir, pdfDir, base string) (string, error) {
	defer drain(staging)

	xmlSrc, err := firstWithExt(staging, ".xml")
	if err != nil {
		return "", err
	}

	pdfSrc, err := firstWithExt(staging, ".pdf")
	if err != nil {
		return "", err
	}

	name := sanitizeBase(base)

	xmlDst := filepath.Join(xmlDir, name+".xml")
	if err := os.Rename(xmlSrc, xmlDst); err != nil {
		return "", fmt.Errorf("move %s: %w", xmlSrc, err)
	}

	pdfDst := filepath.Join(pdfDir, name+".pdf")
	if err := os.Rename(pdfSrc, pdfDst); err != nil {
		return "", fmt.Errorf("move %s: %w", pdfSrc, err)
	}

	return xmlDst, nil
}

func firstWithExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read staging %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}

	return "", fmt.Errorf("no %s file in %s", ext, dir)
}

// drain removes every remaining file from the staging directory.
func drain(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, e := range entries {
		leftover := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(leftover); err != nil {
			log.Printf("drain staging: %v", err)
			continue
		}

		log.Printf("drain staging: removed leftover %s", leftover)
	}
}

// Drain empties the staging directory without moving anything, used on
// error paths where a partial download may be lying around.
func Drain(staging string) {
	drain(staging)
}

// sanitizeBase makes a company name usable as a file name.
func sanitizeBase(base string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, base)
}
