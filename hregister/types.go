package hregister

// Company is one input record from the shortlist. It is read-only for the
// whole run: every search term and every output row's location fields are
// derived from it.
type Company struct {
	Firma      string
	Bundesland string
	PLZ        string
	Ort        string
	Strasse    string
}
