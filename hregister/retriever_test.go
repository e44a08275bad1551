package hregister

import (
	"errors"
	"testing"
)

type fakeSaver struct {
	failures int
	calls    int
	tables   []int
}

func (f *fakeSaver) SaveRecord(tableIndex int) error {
	f.calls++
	f.tables = append(f.tables, tableIndex)

	if f.calls <= f.failures {
		return errors.New("portal hiccup")
	}

	return nil
}

func TestRetrieveRecord(t *testing.T) {
	tests := []struct {
		name          string
		failures      int
		expectedCalls int
		wantErr       bool
	}{
		{name: "first attempt succeeds", failures: 0, expectedCalls: 1},
		{name: "retry succeeds", failures: 1, expectedCalls: 2},
		{name: "retry fails too", failures: 2, expectedCalls: 2, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			saver := &fakeSaver{failures: test.failures}

			err := RetrieveRecord(saver)

			if test.wantErr {
				if !errors.Is(err, ErrSaveFailed) {
					t.Fatalf("expected ErrSaveFailed, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if saver.calls != test.expectedCalls {
				t.Errorf("SaveRecord called %d times, expected %d", saver.calls, test.expectedCalls)
			}

			for _, table := range saver.tables {
				if table != resultTable {
					t.Errorf("SaveRecord called with table %d, expected %d", table, resultTable)
				}
			}
		})
	}
}
