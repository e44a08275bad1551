package hregister

import "testing"

func TestStrategyCatalog(t *testing.T) {
	catalog := StrategyCatalog()

	if len(catalog) != 10 {
		t.Fatalf("catalog has %d entries, expected 10", len(catalog))
	}

	first := Strategy{Mode: MatchAll, Similar: false, WithAddress: true}
	if catalog[0] != first {
		t.Errorf("catalog starts with %+v, expected %+v", catalog[0], first)
	}

	last := Strategy{Mode: MatchExact, Similar: true, WithAddress: false}
	if catalog[len(catalog)-1] != last {
		t.Errorf("catalog ends with %+v, expected %+v", catalog[len(catalog)-1], last)
	}

	for _, s := range catalog {
		if s.Mode == MatchExact && !s.Similar {
			t.Errorf("catalog contains exact-phrase without similar matching: %+v", s)
		}
	}

	seen := make(map[Strategy]bool)
	for _, s := range catalog {
		if seen[s] {
			t.Errorf("duplicate catalog entry %+v", s)
		}

		seen[s] = true
	}
}

func TestStrategyCatalogIsACopy(t *testing.T) {
	a := StrategyCatalog()
	a[0].Similar = true

	b := StrategyCatalog()
	if b[0].Similar {
		t.Error("mutating a returned catalog changed later catalogs")
	}
}
