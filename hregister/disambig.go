package hregister

import (
	"context"
	"fmt"
	"log"
)

// Outcome classifies one search attempt.
type Outcome int

const (
	// OutcomeUnique means exactly one result table: accept and retrieve.
	OutcomeUnique Outcome = iota
	// OutcomeNoMatch means zero results.
	OutcomeNoMatch
	// OutcomeAmbiguous means more than one result.
	OutcomeAmbiguous
	// OutcomeSearchFailed means the session raised while submitting the
	// attempt; the next strategy is tried.
	OutcomeSearchFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnique:
		return "unique"
	case OutcomeNoMatch:
		return "no match"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeSearchFailed:
		return "search failed"
	default:
		return "unknown"
	}
}

// Portal is the slice of the browser session the disambiguation engine
// drives.
type Portal interface {
	Search(c Company, term string, strat Strategy) error
	ResultCount() (int, error)
	BackToSearch() error
}

// Result is the product of scanning all (term, strategy) attempts for one
// company.
type Result struct {
	// Matched reports whether some attempt produced a unique result. When
	// false the full cross product was exhausted.
	Matched  bool
	Term     string
	Strategy Strategy
	// Attempts counts the searches actually submitted to the portal.
	Attempts int
	// SearchErrors counts attempts the session failed to submit.
	SearchErrors int
}

// Engine walks the term sequence and the strategy catalog for one company
// and applies the accept/retry/abort policy: a unique result short-circuits,
// a failed submission is logged and the next strategy tried, anything going
// wrong between pages aborts the company.
type Engine struct {
	portal  Portal
	catalog []Strategy

	// Throttle, when set, runs before every search submission.
	Throttle func(context.Context) error
	// Progress, when set, receives a human-readable line per attempt.
	Progress func(msg string)
}

// NewEngine builds an engine over the given portal using the fixed strategy
// catalog.
func NewEngine(portal Portal) *Engine {
	return &Engine{portal: portal, catalog: StrategyCatalog()}
}

// Run scans terms × catalog in order. It returns a non-nil error only when
// the session became unusable between attempts (or the context was
// cancelled); a clean sweep with no unique result returns Matched == false.
func (e *Engine) Run(ctx context.Context, c Company, terms []string) (Result, error) {
	res := Result{}

	for _, term := range terms {
		for _, strat := range e.catalog {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			if e.Throttle != nil {
				if err := e.Throttle(ctx); err != nil {
					return res, err
				}
			}

			e.progress(fmt.Sprintf("%s: %s", strat, term))

			if err := e.portal.Search(c, term, strat); err != nil {
				res.SearchErrors++

				log.Printf("Fehler bei Suche %q %s: %v", term, strat, err)

				continue
			}

			res.Attempts++

			count, err := e.portal.ResultCount()
			if err != nil {
				return res, fmt.Errorf("read result count: %w", err)
			}

			if count == 1 {
				res.Matched = true
				res.Term = term
				res.Strategy = strat

				return res, nil
			}

			if err := e.portal.BackToSearch(); err != nil {
				return res, fmt.Errorf("return to search form: %w", err)
			}
		}
	}

	return res, nil
}

func (e *Engine) progress(msg string) {
	if e.Progress != nil {
		e.Progress(msg)
	}
}
