package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagemd"
	pagehttp "github.com/fwojciec/pagemd/http"
	pageslog "github.com/fwojciec/pagemd/slog"
	"github.com/fwojciec/pagemd/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", pagemd.ErrorMessage(err))
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	PreferenceService pagemd.PreferenceService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	path, err := sqlite.DefaultPath()
	if err != nil {
		path = "pagemd.db"
	}
	return &Main{DBPath: path}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if m.PreferenceService == nil {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set PAGEMD_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		m.PreferenceService = sqlite.NewPreferenceService(m.DB)
	}

	prefs, err := m.PreferenceService.FindPreferences(ctx)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:         ctx,
		Stdin:       stdin,
		Stdout:      stdout,
		Stderr:      stderr,
		Preferences: m.PreferenceService,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagemd"),
		kong.Description("Convert web pages into Markdown files with front matter."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars(prefs.Values()),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagemd --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	switch strings.Fields(kongCtx.Command())[0] {
	case "clip":
		fetcher, err := newFetcher(cli.Clip.Render, cli.Clip.Timeout)
		if err != nil {
			return err
		}
		defer fetcher.Close()

		clipper, err := newClipper(ctx, cli.Clip.EngineFlags, logger, stderr)
		if err != nil {
			return err
		}
		clipper.Fetcher = fetcher
		clipper.RateLimiter = newLimiter(cli.Clip.Rate, cli.Clip.DomainRate)
		if logger != nil {
			clipper.Fetcher = pageslog.NewLoggingFetcher(fetcher, logger)
		}
		deps.Clipper = clipper
		deps.Writer = newWriter(cli.Clip.Out, cli.Clip.Mirror, logger)

		deps.Sitemaps = pagehttp.NewSitemapService(nil)
		if logger != nil {
			deps.Sitemaps = pageslog.NewLoggingSitemapService(deps.Sitemaps, logger)
		}

	case "convert":
		clipper, err := newClipper(ctx, cli.Convert.EngineFlags, logger, stderr)
		if err != nil {
			return err
		}
		deps.Clipper = clipper
		deps.Writer = newWriter(cli.Convert.Out, false, logger)
	}

	return kongCtx.Run(deps)
}
