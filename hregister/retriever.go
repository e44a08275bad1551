package hregister

import (
	"errors"
	"fmt"
	"log"
)

// ErrSaveFailed marks a match whose exports could not be saved even after
// the bounded retry. A match was found, only the save failed.
var ErrSaveFailed = errors.New("record exports failed twice")

// Saver is the slice of the browser session the retriever needs.
type Saver interface {
	SaveRecord(tableIndex int) error
}

// resultTable is the table holding the single accepted result; table 0 is
// the page layout.
const resultTable = 1

// RetrieveRecord triggers the XML and PDF exports for the accepted unique
// result. A first failure gets exactly one retry of the whole sequence; a
// second failure is surfaced as ErrSaveFailed and never retried again.
func RetrieveRecord(s Saver) error {
	if err := s.SaveRecord(resultTable); err != nil {
		log.Printf("Speichern fehlgeschlagen, zweiter Versuch: %v", err)

		if err := s.SaveRecord(resultTable); err != nil {
			return fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}
	}

	return nil
}
