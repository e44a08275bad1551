package runner

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Runner is one run of the scraper from input table to results tree.
type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

// Config carries the run parameters. A bare invocation reproduces the
// reference behavior: shortlist.csv in, results/ out, 30 s minimum per
// attempt, 50 s wait timeout.
type Config struct {
	InputFile    string
	ResultsDir   string
	DownloadsDir string
	StorageDir   string
	JournalPath  string
	Headful      bool
	PerAttempt   time.Duration
	WaitTimeout  time.Duration
}

func ParseConfig() *Config {
	cfg := Config{}

	var (
		paceSeconds    int
		timeoutSeconds int
	)

	flag.StringVar(&cfg.InputFile, "input", "shortlist.csv", "path to the semicolon-delimited company shortlist")
	flag.StringVar(&cfg.ResultsDir, "results", "results", "directory for results.csv and the XML/PDF trees")
	flag.StringVar(&cfg.DownloadsDir, "downloads", "downloads", "download staging directory (recreated at start)")
	flag.StringVar(&cfg.StorageDir, "storage", "storage", "directory a pre-existing results tree is backed up into")
	flag.StringVar(&cfg.JournalPath, "journal", "", "sqlite run journal path [default: <results>/run.db, 'off' disables]")
	flag.BoolVar(&cfg.Headful, "headful", false, "open a visible browser window")
	flag.IntVar(&paceSeconds, "pace", 30, "minimum seconds per search attempt, enforced after each company")
	flag.IntVar(&timeoutSeconds, "timeout", 50, "timeout in seconds for every wait operation against the portal")

	flag.Parse()

	if paceSeconds < 0 {
		panic("pace must not be negative")
	}

	if timeoutSeconds < 1 {
		panic("timeout must be at least 1 second")
	}

	cfg.PerAttempt = time.Duration(paceSeconds) * time.Second
	cfg.WaitTimeout = time.Duration(timeoutSeconds) * time.Second

	switch cfg.JournalPath {
	case "":
		cfg.JournalPath = filepath.Join(cfg.ResultsDir, "run.db")
	case "off":
		cfg.JournalPath = ""
	}

	return &cfg
}

func wrapText(text string, width int) []string {
	var lines []string

	currentLine := ""
	currentWidth := 0

	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width {
			lines = append(lines, currentLine)
			currentLine = string(r)
			currentWidth = runeWidth
		} else {
			currentLine += string(r)
			currentWidth += runeWidth
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func banner(messages []string, width int) string {
	if width <= 0 {
		var err error

		width, _, err = term.GetSize(0)
		if err != nil {
			width = 80
		}
	}

	if width < 20 {
		width = 20
	}

	contentWidth := width - 4

	var wrappedLines []string
	for _, message := range messages {
		wrappedLines = append(wrappedLines, wrapText(message, contentWidth)...)
	}

	var builder strings.Builder

	builder.WriteString("╔" + strings.Repeat("═", width-2) + "╗\n")

	for _, line := range wrappedLines {
		lineWidth := runewidth.StringWidth(line)
		paddingRight := contentWidth - lineWidth

		if paddingRight < 0 {
			paddingRight = 0
		}

		builder.WriteString(fmt.Sprintf("║ %s%s ║\n", line, strings.Repeat(" ", paddingRight)))
	}

	builder.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")

	return builder.String()
}

func Banner() {
	message1 := "🏛 Handelsregister Scraper"
	message2 := "Durchsucht das Handelsregister nach Firmen der Shortlist und speichert Registerauszüge (XML + PDF)."

	fmt.Fprintln(os.Stderr, banner([]string{message1, message2}, 0))
}

// Summary prints the closing banner: clean run or error count.
func Summary(errorCount int) {
	var msg string

	if errorCount > 0 {
		msg = fmt.Sprintf("Suche abgeschlossen. Es wurden %d Fehler registriert.", errorCount)
	} else {
		msg = "der crawler hat geslayed"
	}

	fmt.Fprintln(os.Stderr, banner([]string{msg}, 0))
}
