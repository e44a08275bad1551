package results

import (
	"strings"

	"github.com/sturmwerk/hr-scraper/hregister"
	"github.com/sturmwerk/hr-scraper/xjustiz"
)

// ProjectRows cross-joins the extracted organizations with the extracted
// persons into one output row per (organization, person) pair. Every pair
// shares the company's location fields and the single representation
// summary. An empty organization or person list yields no rows; the caller
// decides what to emit instead.
func ProjectRows(c hregister.Company, orgs []xjustiz.Organization, persons []xjustiz.Person, v xjustiz.Vertretung) []Row {
	freitext := strings.TrimSpace(strings.ReplaceAll(v.Freitext, "\n", " "))

	var rows []Row

	for _, org := range orgs {
		for _, p := range persons {
			rows = append(rows, Row{
				"Name":                             p.Nachname,
				"Vorname":                          p.Vorname,
				"Rolle":                            p.Rolle,
				"Firma":                            org.Bezeichnung,
				"Rechtsform":                       org.Rechtsform,
				"Registernummer":                   org.Registernummer,
				"Bundesland":                       c.Bundesland,
				"Ort":                              c.Ort,
				"PLZ":                              c.PLZ,
				"Straße":                           c.Strasse,
				"Code_Vertretungsberechtigung":     v.Codes,
				"Freitext_Vertretungsberechtigung": freitext,
			})
		}
	}

	return rows
}

// ErrorRow builds the single fallback row for a company that produced no
// data: location fields populated, registry fields empty, the reason in the
// Hinweis column.
func ErrorRow(c hregister.Company, reason string) Row {
	return Row{
		"Firma":      c.Firma,
		"Bundesland": c.Bundesland,
		"Ort":        c.Ort,
		"PLZ":        c.PLZ,
		"Straße":     c.Strasse,
		"Hinweis":    reason,
	}
}
