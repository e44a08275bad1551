package results

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sturmwerk/hr-scraper/hregister"
	"github.com/sturmwerk/hr-scraper/xjustiz"
)

func TestProjectRowsCartesianProduct(t *testing.T) {
	company := hregister.Company{
		Firma:      "Nordlicht Segel GmbH",
		Bundesland: "Schleswig-Holstein",
		PLZ:        "24103",
		Ort:        "Kiel",
		Strasse:    "Hafenstraße 1",
	}

	orgs := []xjustiz.Organization{
		{Bezeichnung: "Hanse Holding AG", Rechtsform: "AG", Registernummer: "HRB 22222"},
		{Bezeichnung: "Ostsee Beteiligungs GmbH", Rechtsform: "GmbH", Registernummer: "HRB 33333"},
	}

	persons := []xjustiz.Person{
		{Vorname: "Erika", Nachname: "Musterfrau", Rolle: "120"},
		{Vorname: "Max", Nachname: "Mustermann", Rolle: "305"},
		{Vorname: "Ole", Nachname: "Petersen", Rolle: "120"},
	}

	v := xjustiz.Vertretung{Freitext: "Zwei Geschäftsführer\ngemeinsam", Codes: "001, 002"}

	rows := ProjectRows(company, orgs, persons, v)

	assert.Len(t, rows, 6)

	for _, row := range rows {
		assert.Equal(t, "Schleswig-Holstein", row["Bundesland"])
		assert.Equal(t, "Kiel", row["Ort"])
		assert.Equal(t, "24103", row["PLZ"])
		assert.Equal(t, "Hafenstraße 1", row["Straße"])
		assert.Equal(t, "001, 002", row["Code_Vertretungsberechtigung"])
		assert.Equal(t, "Zwei Geschäftsführer gemeinsam", row["Freitext_Vertretungsberechtigung"])
	}

	assert.Equal(t, "Hanse Holding AG", rows[0]["Firma"])
	assert.Equal(t, "Musterfrau", rows[0]["Name"])
	assert.Equal(t, "Ostsee Beteiligungs GmbH", rows[5]["Firma"])
	assert.Equal(t, "Petersen", rows[5]["Name"])
}

func TestProjectRowsEmptyLists(t *testing.T) {
	company := hregister.Company{Firma: "Acme"}
	persons := []xjustiz.Person{{Vorname: "Erika", Nachname: "Musterfrau"}}
	orgs := []xjustiz.Organization{{Bezeichnung: "Hanse Holding AG"}}

	assert.Empty(t, ProjectRows(company, nil, persons, xjustiz.Vertretung{}))
	assert.Empty(t, ProjectRows(company, orgs, nil, xjustiz.Vertretung{}))
}

func TestErrorRow(t *testing.T) {
	company := hregister.Company{
		Firma:      "Acme GmbH",
		Bundesland: "Bayern",
		PLZ:        "80331",
		Ort:        "München",
		Strasse:    "Sendlinger Str. 8",
	}

	row := ErrorRow(company, "Fehler: Kein Eintrag gefunden :(")

	assert.Equal(t, "Acme GmbH", row["Firma"])
	assert.Equal(t, "Bayern", row["Bundesland"])
	assert.Equal(t, "Fehler: Kein Eintrag gefunden :(", row["Hinweis"])
	assert.Empty(t, row["Name"])
	assert.Empty(t, row["Registernummer"])
}
