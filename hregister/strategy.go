package hregister

// KeywordMode selects how the portal combines the keywords of one search
// term.
type KeywordMode int

const (
	// MatchAll requires every keyword to be present.
	MatchAll KeywordMode = iota
	// MatchAny requires at least one keyword to be present.
	MatchAny
	// MatchExact requires the exact phrase.
	MatchExact
)

func (m KeywordMode) String() string {
	switch m {
	case MatchAll:
		return "alle Schlagwörter"
	case MatchAny:
		return "mindestens ein Schlagwort"
	case MatchExact:
		return "exakter Firmenname"
	default:
		return "unbekannt"
	}
}

// Strategy is one search configuration: keyword mode, the portal's
// similar-sounding ("ähnlich lautende Schlagwörter") option and whether the
// company's address fields are part of the query.
type Strategy struct {
	Mode        KeywordMode
	Similar     bool
	WithAddress bool
}

func (s Strategy) String() string {
	msg := "Suche (" + s.Mode.String()
	if s.Similar {
		msg += ", ähnlich lautende"
	}
	if s.WithAddress {
		msg += ", mit Adresse"
	}
	return msg + ")"
}

// StrategyCatalog returns the fixed attempt order: broad keyword searches
// first, narrowed step by step, with the exact-phrase mode last and only in
// its similar-sounding variant. Every attempt for a term walks this catalog
// front to back.
func StrategyCatalog() []Strategy {
	return []Strategy{
		{Mode: MatchAll, Similar: false, WithAddress: true},
		{Mode: MatchAll, Similar: false, WithAddress: false},
		{Mode: MatchAll, Similar: true, WithAddress: true},
		{Mode: MatchAll, Similar: true, WithAddress: false},
		{Mode: MatchAny, Similar: false, WithAddress: true},
		{Mode: MatchAny, Similar: false, WithAddress: false},
		{Mode: MatchAny, Similar: true, WithAddress: false},
		{Mode: MatchAny, Similar: true, WithAddress: true},
		{Mode: MatchExact, Similar: true, WithAddress: true},
		{Mode: MatchExact, Similar: true, WithAddress: false},
	}
}
