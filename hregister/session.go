package hregister

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

const (
	// SearchURL is the advanced-search form of the register portal.
	SearchURL  = "https://www.handelsregister.de/rp_web/erweitertesuche.xhtml"
	resultsURL = "https://www.handelsregister.de/rp_web/ergebnisse.xhtml"
	chargeURL  = "https://www.handelsregister.de/rp_web/chargeinfo.xhtml"
)

// Form element ids of the advanced-search page. The portal is a JSF
// application, ids are colon-separated.
const (
	fieldKeywords = "form:schlagwoerter"
	fieldZip      = "form:postleitzahl"
	fieldCity     = "form:ort"
	fieldStreet   = "form:strasse"
	fieldRegister = "form:registerNummer"
	optionsPanel  = "form:schlagwortOptionen"
	checkSimilar  = "form:aenlichLautendeSchlagwoerterBoolChkbox"
	buttonSubmit  = "form:btnSuche"
	buttonExport  = "form:kostenpflichtigabrufen"
)

// SessionConfig configures the single browser session of a run.
type SessionConfig struct {
	// DownloadDir is the staging directory every export is saved into.
	DownloadDir string
	// Headful opens a visible browser window.
	Headful bool
	// WaitTimeout bounds every wait-for-url / wait-for-element operation.
	WaitTimeout time.Duration
}

// Session owns the one driven browser of a run. It is handed explicitly to
// the components that need it; there is no package-level session state.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	cfg     SessionConfig
}

// NewSession launches Chromium and opens the advanced-search page.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 50 * time.Second
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(!cfg.Headful),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("new browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("new page: %w", err)
	}

	s := &Session{pw: pw, browser: browser, page: page, cfg: cfg}

	if _, err := page.Goto(SearchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.timeoutMs()),
	}); err != nil {
		s.Close()
		return nil, fmt.Errorf("open search page: %w", err)
	}

	return s, nil
}

func (s *Session) timeoutMs() float64 {
	return float64(s.cfg.WaitTimeout.Milliseconds())
}

func (s *Session) locator(id string) playwright.Locator {
	return s.page.Locator(fmt.Sprintf("[id=%q]", id))
}

// Search fills the advanced-search form for one (term, strategy) attempt and
// submits it. The company's federal state is always part of the query, its
// zip/city/street only when the strategy includes the address.
func (s *Session) Search(c Company, term string, strat Strategy) error {
	if err := s.page.WaitForURL(SearchURL, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("wait for search form: %w", err)
	}

	if err := s.fill(fieldKeywords, term); err != nil {
		return err
	}

	if c.Bundesland != "" {
		if err := s.setStateChecked(c.Bundesland, true); err != nil {
			return err
		}
	}

	zip, city, street := "", "", ""
	if strat.WithAddress {
		zip, city, street = c.PLZ, c.Ort, c.Strasse
	}

	if err := s.fill(fieldZip, zip); err != nil {
		return err
	}
	if err := s.fill(fieldCity, city); err != nil {
		return err
	}
	if err := s.fill(fieldStreet, street); err != nil {
		return err
	}
	if err := s.fill(fieldRegister, ""); err != nil {
		return err
	}

	if err := s.selectOptions(strat.Mode, strat.Similar); err != nil {
		return err
	}

	submit := s.locator(buttonSubmit)
	if err := submit.ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("scroll to submit: %w", err)
	}

	if err := submit.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("submit search: %w", err)
	}

	return nil
}

// ResetSearch clears every form field and restores the default options so
// the next company starts from a clean form.
func (s *Session) ResetSearch(state string) error {
	if err := s.page.WaitForURL(SearchURL, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("wait for search form: %w", err)
	}

	for _, id := range []string{fieldKeywords, fieldZip, fieldCity, fieldStreet, fieldRegister} {
		if err := s.fill(id, ""); err != nil {
			return err
		}
	}

	if state != "" {
		if err := s.setStateChecked(state, false); err != nil {
			return err
		}
	}

	return s.selectOptions(MatchAll, false)
}

func (s *Session) fill(id, value string) error {
	if err := s.locator(id).Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("fill %s: %w", id, err)
	}

	return nil
}

// setStateChecked toggles the federal-state checkbox named by the input CSV's
// Bundesland column into the wanted state. The widget reports its state via
// aria-checked on a hidden input.
func (s *Session) setStateChecked(state string, want bool) error {
	input := s.locator("form:" + state + "_input")

	checked, err := input.GetAttribute("aria-checked")
	if err != nil {
		return fmt.Errorf("read state checkbox %s: %w", state, err)
	}

	if (checked == "true") == want {
		return nil
	}

	if err := s.locator("form:" + state).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("toggle state checkbox %s: %w", state, err)
	}

	return nil
}

// selectOptions picks the keyword-mode radio button and sets the
// similar-sounding checkbox. The radio rows of the options panel appear in
// the fixed order all / any / exact.
func (s *Session) selectOptions(mode KeywordMode, similar bool) error {
	var row int

	switch mode {
	case MatchAll:
		row = 0
	case MatchAny:
		row = 1
	case MatchExact:
		row = 2
	default:
		return fmt.Errorf("unknown keyword mode %d", mode)
	}

	radio := s.locator(optionsPanel).Locator(".ui-g").Nth(row).Locator("div").Nth(1)
	if err := radio.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("select keyword mode %s: %w", mode, err)
	}

	return s.setSimilarChecked(similar)
}

// setSimilarChecked clicks the similar-sounding checkbox only when its
// reported state differs from the wanted one, so repeated attempts never
// toggle it back by accident.
func (s *Session) setSimilarChecked(want bool) error {
	box := s.locator(checkSimilar)

	checked, err := box.GetAttribute("aria-checked")
	if err != nil || checked == "" {
		// Widget without aria state: fall back to click-on-enable.
		if !want {
			return nil
		}

		if cerr := box.Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(s.timeoutMs()),
		}); cerr != nil {
			return fmt.Errorf("toggle similar checkbox: %w", cerr)
		}

		return nil
	}

	if (checked == "true") == want {
		return nil
	}

	if err := box.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("toggle similar checkbox: %w", err)
	}

	return nil
}

// ResultCount waits for the results page and reports how many result tables
// it contains. The page carries one layout table plus one table per hit, so
// a unique match shows exactly two tables.
func (s *Session) ResultCount() (int, error) {
	if err := s.page.WaitForURL(resultsURL, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return 0, fmt.Errorf("wait for results page: %w", err)
	}

	if err := s.page.Locator("table").First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return 0, fmt.Errorf("wait for result tables: %w", err)
	}

	html, err := s.page.Content()
	if err != nil {
		return 0, fmt.Errorf("read results page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("parse results page: %w", err)
	}

	return doc.Find("table").Length() - 1, nil
}

// BackToSearch navigates from the results page back to the search form.
func (s *Session) BackToSearch() error {
	if _, err := s.page.GoBack(playwright.PageGoBackOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("go back: %w", err)
	}

	if err := s.page.WaitForURL(SearchURL, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("wait for search form: %w", err)
	}

	return nil
}

// SaveRecord triggers the two exports of the result in the given table: the
// XJustiz XML record (last document link of the row) and the PDF certificate
// (first link). Both land in the download staging directory under their
// portal-suggested names.
func (s *Session) SaveRecord(tableIndex int) error {
	if err := s.saveExport(tableIndex, true); err != nil {
		return fmt.Errorf("save XML export: %w", err)
	}

	if err := s.backToResults(); err != nil {
		return err
	}

	if err := s.saveExport(tableIndex, false); err != nil {
		return fmt.Errorf("save PDF export: %w", err)
	}

	return s.backToResults()
}

func (s *Session) saveExport(tableIndex int, lastLink bool) error {
	links := s.page.Locator("table").Nth(tableIndex).
		Locator("tr").Nth(1).
		Locator("td").Nth(3).
		Locator("a")

	link := links.First()
	if lastLink {
		link = links.Last()
	}

	if err := link.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("open document page: %w", err)
	}

	if err := s.page.WaitForURL(chargeURL, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("wait for document page: %w", err)
	}

	download, err := s.page.ExpectDownload(func() error {
		return s.locator(buttonExport).Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(s.timeoutMs()),
		})
	}, playwright.PageExpectDownloadOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	})
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}

	target := filepath.Join(s.cfg.DownloadDir, download.SuggestedFilename())
	if err := download.SaveAs(target); err != nil {
		return fmt.Errorf("store export %s: %w", target, err)
	}

	return nil
}

func (s *Session) backToResults() error {
	if _, err := s.page.GoBack(playwright.PageGoBackOptions{
		Timeout: playwright.Float(s.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("go back to results: %w", err)
	}

	return nil
}

// Recover steers the session back to a usable state after a per-company
// failure: reopen the search form and reset it. Errors are logged, not
// returned, the run keeps going with the next company.
func (s *Session) Recover(state string) {
	if _, err := s.page.Goto(SearchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.timeoutMs()),
	}); err != nil {
		log.Printf("recover: reopen search page: %v", err)
		return
	}

	if err := s.ResetSearch(state); err != nil {
		log.Printf("recover: reset search form: %v", err)
	}
}

// Close shuts the browser and the playwright driver down.
func (s *Session) Close() {
	if s.browser != nil {
		_ = s.browser.Close()
	}

	if s.pw != nil {
		_ = s.pw.Stop()
	}
}
