// Package xjustiz reads the XJustiz XML record of a commercial-register
// entry and flattens its participations into persons, organizations and the
// representation rule.
package xjustiz

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Namespace is the XJustiz target namespace.
const Namespace = "http://www.xjustiz.de"

// roleSubjectOfEntry marks the participation describing the queried company
// itself; it is excluded from the organization list.
const roleSubjectOfEntry = "288"

// Person is one natural person taking part in the register entry.
type Person struct {
	Vorname  string
	Nachname string
	Rolle    string
}

// Organization is one organization taking part in the register entry.
type Organization struct {
	Bezeichnung    string
	Rechtsform     string
	Registernummer string
}

// Vertretung is the entry's representation rule: an optional free-text
// description and the comma-joined role codes found under the
// representation section. Either field may be empty.
type Vertretung struct {
	Freitext string
	Codes    string
}

// node is a generic element of the parsed tree. Field text is only
// meaningful on leaves.
type node struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Children []node `xml:",any"`
}

// Document is one parsed XJustiz record.
type Document struct {
	root node
}

// ParseFile parses the XML document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xjustiz: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse parses one XJustiz record. Malformed XML or a root element outside
// the XJustiz namespace is an error; the caller treats either the same as a
// missing document.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, fmt.Errorf("xjustiz: unsupported charset %q: %w", charset, err)
		}

		return enc.NewDecoder().Reader(input), nil
	}

	var root node
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("xjustiz: parse: %w", err)
	}

	if root.XMLName.Space != Namespace {
		return nil, fmt.Errorf("xjustiz: unexpected root namespace %q", root.XMLName.Space)
	}

	return &Document{root: root}, nil
}

// Persons returns one entry per participation that references a natural
// person, in document order. The role code may be empty.
func (d *Document) Persons() []Person {
	var persons []Person

	for _, bet := range findAll(&d.root, "beteiligung") {
		role := roleCode(bet)

		beteiligter := findFirst(bet, "beteiligter")
		if beteiligter == nil {
			continue
		}

		np := findFirst(beteiligter, "natuerlichePerson")
		if np == nil {
			continue
		}

		persons = append(persons, Person{
			Vorname:  leafText(findFirst(np, "vorname")),
			Nachname: leafText(findFirst(np, "nachname")),
			Rolle:    role,
		})
	}

	return persons
}

// Organizations returns one entry per participation that references an
// organization, in document order. The participation carrying the
// subject-of-the-registration role code is skipped so the queried company
// is not re-emitted as its own associate.
func (d *Document) Organizations() []Organization {
	var orgs []Organization

	for _, bet := range findAll(&d.root, "beteiligung") {
		if roleCode(bet) == roleSubjectOfEntry {
			continue
		}

		beteiligter := findFirst(bet, "beteiligter")
		if beteiligter == nil {
			continue
		}

		org := findFirst(beteiligter, "organisation")
		if org == nil {
			continue
		}

		var rechtsform string
		if rf := findFirst(org, "rechtsform"); rf != nil {
			rechtsform = leafText(findFirst(rf, "code"))
		}

		orgs = append(orgs, Organization{
			Bezeichnung:    leafText(findFirst(org, "bezeichnung.aktuell")),
			Rechtsform:     rechtsform,
			Registernummer: leafText(findFirst(org, "registernummer")),
		})
	}

	return orgs
}

// Vertretung reads the representation section of the register base data.
// Codes collects every role code under the section in document order. The
// free-text rule is preferred; without one, every generic text element under
// the section is joined as the fallback.
func (d *Document) Vertretung() Vertretung {
	var v Vertretung

	basis := findFirst(&d.root, "basisdatenRegister")
	if basis == nil {
		return v
	}

	vert := findFirst(basis, "vertretung")
	if vert == nil {
		return v
	}

	if ft := findFirst(vert, "vertretungsbefugnisFreitext"); ft != nil {
		v.Freitext = strings.TrimSpace(ft.Text)
	}

	var codes []string

	for _, c := range findAll(vert, "code") {
		if t := strings.TrimSpace(c.Text); t != "" {
			codes = append(codes, t)
		}
	}

	v.Codes = strings.Join(codes, ", ")

	if v.Freitext == "" {
		var texts []string

		for _, tn := range findAll(vert, "text") {
			if t := strings.TrimSpace(tn.Text); t != "" {
				texts = append(texts, t)
			}
		}

		v.Freitext = strings.Join(texts, ", ")
	}

	return v
}

// roleCode returns the first role code of a participation, depth first.
func roleCode(bet *node) string {
	rb := findFirst(bet, "rollenbezeichnung")
	if rb == nil {
		return ""
	}

	return leafText(findFirst(rb, "code"))
}

// matches reports whether a node carries the wanted local name. Code-list
// elements appear unqualified in real exports, so an empty namespace is
// accepted alongside the XJustiz one.
func matches(n *node, local string) bool {
	return n.XMLName.Local == local &&
		(n.XMLName.Space == Namespace || n.XMLName.Space == "")
}

// findFirst returns the first descendant with the wanted local name, depth
// first in document order, or nil.
func findFirst(n *node, local string) *node {
	for i := range n.Children {
		c := &n.Children[i]
		if matches(c, local) {
			return c
		}

		if found := findFirst(c, local); found != nil {
			return found
		}
	}

	return nil
}

// findAll returns every descendant with the wanted local name, depth first
// in document order. A matching node's own subtree is not searched again.
func findAll(n *node, local string) []*node {
	var out []*node

	for i := range n.Children {
		c := &n.Children[i]
		if matches(c, local) {
			out = append(out, c)
			continue
		}

		out = append(out, findAll(c, local)...)
	}

	return out
}

func leafText(n *node) string {
	if n == nil {
		return ""
	}

	return strings.TrimSpace(n.Text)
}
