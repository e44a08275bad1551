// Package crawlrunner drives one full scraper run: directory lifecycle,
// the browser session, the per-company search/retrieve/extract sequence,
// error accounting and pacing.
package crawlrunner

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sturmwerk/hr-scraper/hregister"
	"github.com/sturmwerk/hr-scraper/journal"
	"github.com/sturmwerk/hr-scraper/results"
	"github.com/sturmwerk/hr-scraper/runner"
	"github.com/sturmwerk/hr-scraper/xjustiz"
)

// Reason strings for the Hinweis column.
const (
	reasonSaveFailed = "Fehler: Ergebnis gefunden, aber der Treiber bricht beim Speichern der Dateien mehrfach ab."
	reasonHardFail   = "Fehler: Treiber bricht ab bei Suche."
	reasonNoEntry    = "Fehler: Kein Eintrag gefunden :("
	reasonBadRecord  = "Fehler: Registerauszug konnte nicht gelesen werden."
	reasonNoParties  = "Eintrag gefunden, aber keine Personen oder Organisationen im Registerauszug."
)

type crawlRunner struct {
	cfg     *runner.Config
	session *hregister.Session
	engine  *hregister.Engine
	pacer   *runner.Pacer
	jrnl    *journal.Journal

	csvPath    string
	xmlDir     string
	pdfDir     string
	errorCount int
}

// New builds a runner for the given config.
func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.InputFile == "" {
		return nil, errors.New("input file must be provided")
	}

	return &crawlRunner{
		cfg:     cfg,
		pacer:   runner.NewPacer(cfg.PerAttempt),
		csvPath: filepath.Join(cfg.ResultsDir, "results.csv"),
		xmlDir:  filepath.Join(cfg.ResultsDir, "XML"),
		pdfDir:  filepath.Join(cfg.ResultsDir, "PDF"),
	}, nil
}

func (r *crawlRunner) Run(ctx context.Context) error {
	companies, err := readShortlist(r.cfg.InputFile)
	if err != nil {
		return fmt.Errorf("read shortlist: %w", err)
	}

	if err := r.setupDirectories(); err != nil {
		return err
	}

	if err := results.InitializeCSV(r.csvPath, results.Columns); err != nil {
		return fmt.Errorf("initialize results table: %w", err)
	}

	if r.cfg.JournalPath != "" {
		jrnl, err := journal.Open(ctx, r.cfg.JournalPath)
		if err != nil {
			log.Printf("run journal disabled: %v", err)
		} else {
			r.jrnl = jrnl
			log.Printf("run journal %s, run %s", r.cfg.JournalPath, jrnl.RunID())
		}
	}

	session, err := hregister.NewSession(hregister.SessionConfig{
		DownloadDir: r.cfg.DownloadsDir,
		Headful:     r.cfg.Headful,
		WaitTimeout: r.cfg.WaitTimeout,
	})
	if err != nil {
		return fmt.Errorf("open browser session: %w", err)
	}

	r.session = session

	r.engine = hregister.NewEngine(session)
	r.engine.Throttle = r.pacer.WaitSubmit
	r.engine.Progress = runner.Status

	for _, c := range companies {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.processCompany(ctx, c); err != nil {
			return err
		}
	}

	runner.Summary(r.errorCount)

	if r.jrnl != nil {
		if err := r.jrnl.FinishRun(ctx, r.errorCount); err != nil {
			log.Printf("finish run journal: %v", err)
		}
	}

	return nil
}

func (r *crawlRunner) Close(context.Context) error {
	if r.session != nil {
		r.session.Close()
	}

	if r.jrnl != nil {
		return r.jrnl.Close()
	}

	return nil
}

// processCompany runs the full sequence for one company. Every terminal
// error path appends exactly one error row; only context errors abort the
// run.
func (r *crawlRunner) processCompany(ctx context.Context, c hregister.Company) error {
	start := time.Now()
	terms := hregister.BuildTerms(c)

	res, err := r.engine.Run(ctx, c, terms)
	r.errorCount += res.SearchErrors

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Printf("%s - %v", c.Firma, err)
		r.failCompany(ctx, c, journal.StatusFailed, reasonHardFail, res)

		return nil
	}

	if !res.Matched {
		r.failCompany(ctx, c, journal.StatusExhausted, reasonNoEntry, res)

		return nil
	}

	runner.Status(fmt.Sprintf("speichere Registerauszug für %s", c.Firma))

	if err := hregister.RetrieveRecord(r.session); err != nil {
		log.Printf("%s - %v", c.Firma, err)
		r.failCompany(ctx, c, journal.StatusSaveFailed, reasonSaveFailed, res)

		return nil
	}

	r.session.Recover(c.Bundesland)

	xmlPath, err := results.MoveRecordFiles(r.cfg.DownloadsDir, r.xmlDir, r.pdfDir, c.Firma)
	if err != nil {
		log.Printf("%s - %v", c.Firma, err)
		r.failCompany(ctx, c, journal.StatusExhausted, reasonNoEntry, res)

		return nil
	}

	rows, err := r.extractRows(c, xmlPath)
	if err != nil {
		log.Printf("%s - %v", c.Firma, err)
		r.failCompany(ctx, c, journal.StatusFailed, reasonBadRecord, res)

		return nil
	}

	if len(rows) == 0 {
		r.failCompany(ctx, c, journal.StatusEmpty, reasonNoParties, res)

		return nil
	}

	for _, row := range rows {
		if err := results.AppendRow(r.csvPath, results.Columns, row); err != nil {
			return fmt.Errorf("append results row: %w", err)
		}
	}

	r.record(ctx, journal.CompanyRecord{
		Firma:        c.Firma,
		Status:       journal.StatusMatched,
		RowsWritten:  len(rows),
		Attempts:     res.Attempts,
		SearchErrors: res.SearchErrors,
	})

	return r.pacer.Sleep(ctx, r.pacer.CompanyFloor(res.Attempts, time.Since(start)))
}

// failCompany converges every terminal error path: one error row, error
// counter, journal record, staging drained, session steered back to the
// search form.
func (r *crawlRunner) failCompany(ctx context.Context, c hregister.Company, status, reason string, res hregister.Result) {
	if err := results.AppendRow(r.csvPath, results.Columns, results.ErrorRow(c, reason)); err != nil {
		log.Printf("append error row for %s: %v", c.Firma, err)
	}

	r.errorCount++

	r.record(ctx, journal.CompanyRecord{
		Firma:        c.Firma,
		Status:       status,
		Reason:       reason,
		Attempts:     res.Attempts,
		SearchErrors: res.SearchErrors,
	})

	results.Drain(r.cfg.DownloadsDir)
	r.session.Recover(c.Bundesland)
}

func (r *crawlRunner) record(ctx context.Context, rec journal.CompanyRecord) {
	if r.jrnl == nil {
		return
	}

	if err := r.jrnl.RecordCompany(ctx, rec); err != nil {
		log.Printf("journal: %v", err)
	}
}

func (r *crawlRunner) extractRows(c hregister.Company, xmlPath string) ([]results.Row, error) {
	doc, err := xjustiz.ParseFile(xmlPath)
	if err != nil {
		return nil, err
	}

	return results.ProjectRows(c, doc.Organizations(), doc.Persons(), doc.Vertretung()), nil
}

// setupDirectories recreates the download staging area and prepares a fresh
// results tree, moving a pre-existing one aside into the storage directory
// with a timestamp.
func (r *crawlRunner) setupDirectories() error {
	if err := os.RemoveAll(r.cfg.DownloadsDir); err != nil {
		return fmt.Errorf("clear staging: %w", err)
	}

	if err := os.MkdirAll(r.cfg.DownloadsDir, 0o755); err != nil {
		return fmt.Errorf("create staging: %w", err)
	}

	if _, err := os.Stat(r.cfg.ResultsDir); err == nil {
		backup := filepath.Join(r.cfg.StorageDir, time.Now().Format("2006-01-02_15-04-05"))

		if err := os.MkdirAll(r.cfg.StorageDir, 0o755); err != nil {
			return fmt.Errorf("create storage: %w", err)
		}

		if err := os.Rename(r.cfg.ResultsDir, backup); err != nil {
			return fmt.Errorf("back up results tree: %w", err)
		}

		log.Printf("vorhandene Ergebnisse nach %s verschoben", backup)
	}

	for _, dir := range []string{r.cfg.ResultsDir, r.xmlDir, r.pdfDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return nil
}

// readShortlist reads the semicolon-delimited input table. Columns are
// matched by header name: Firma, Bundesland, PLZ, Ort, Straße.
func readShortlist(path string) ([]hregister.Company, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	for _, name := range []string{"Firma", "Bundesland", "PLZ", "Ort", "Straße"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(record []string, name string) string {
		i := col[name]
		if i >= len(record) {
			return ""
		}

		return record[i]
	}

	var companies []hregister.Company

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		companies = append(companies, hregister.Company{
			Firma:      field(record, "Firma"),
			Bundesland: field(record, "Bundesland"),
			PLZ:        field(record, "PLZ"),
			Ort:        field(record, "Ort"),
			Strasse:    field(record, "Straße"),
		})
	}

	return companies, nil
}
