package hregister

import "strings"

// defaultNoise lists tokens that carry no search value in German company
// names: legal form suffixes, conjunctions and punctuation.
var defaultNoise = []string{
	"und",
	"e.",
	"V.",
	"GmbH",
	"gGmbH",
	"GBR",
	"GbR",
	"/",
	"&",
	"e.V.",
	"eV",
}

// BuildTerms turns a company record into the ordered sequence of search
// terms: the unsplit company name first, then every whitespace token of the
// name whose lowercase form is neither a noise word nor the company's own
// city. Duplicates and empty tokens are kept, the sweep is deliberately
// exhaustive. The noise set is rebuilt per company and never mutated.
func BuildTerms(c Company) []string {
	noise := make(map[string]struct{}, len(defaultNoise)+1)
	for _, w := range defaultNoise {
		noise[strings.ToLower(w)] = struct{}{}
	}
	noise[strings.ToLower(c.Ort)] = struct{}{}

	terms := []string{c.Firma}

	for _, tok := range strings.Split(c.Firma, " ") {
		if _, skip := noise[strings.ToLower(tok)]; skip {
			continue
		}
		terms = append(terms, tok)
	}

	return terms
}
