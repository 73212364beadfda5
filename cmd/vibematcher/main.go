// Command vibematcher searches a song catalog and lists the tracks whose
// audio features are most similar to a chosen one.
//
// Usage:
//
//	vibematcher search [flags] <query>
//	vibematcher match  [flags] -title T -artist A
//	vibematcher batch  [flags] [-in pairs.csv]
//	vibematcher import [flags] -db catalog.db
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/coooow/VibeMatcher/internal/app"
	"github.com/coooow/VibeMatcher/internal/config"
	"github.com/coooow/VibeMatcher/internal/core/domain"
	"github.com/coooow/VibeMatcher/internal/core/services"
	"github.com/coooow/VibeMatcher/internal/logging"
)

// Exit codes.
const (
	exitOK       = 0
	exitFatal    = 1
	exitUsage    = 2
	exitNotFound = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cli carries the streams and flags shared by every subcommand.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	catalog    string
	driver     string
	asJSON     bool

	cfg *config.Config
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	switch args[0] {
	case "search":
		return c.search(ctx, args[1:])
	case "match":
		return c.match(ctx, args[1:])
	case "batch":
		return c.batch(ctx, args[1:])
	case "import":
		return c.importCatalog(ctx, args[1:])
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: vibematcher <search|match|batch|import> [flags]")
	fmt.Fprintln(w, "run 'vibematcher <command> -h' for command flags")
}

// newFlagSet registers the shared flags.
func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.StringVar(&c.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&c.catalog, "catalog", "", "catalog path (overrides config)")
	fs.StringVar(&c.driver, "driver", "", "catalog driver: csv or sqlite (overrides config)")
	fs.BoolVar(&c.asJSON, "json", false, "write JSON instead of text")
	return fs
}

// setup loads configuration and initializes logging after flags parse.
func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.catalog != "" {
		cfg.Catalog.Path = c.catalog
	}
	if c.driver != "" {
		cfg.Catalog.Driver = c.driver
	}
	logCfg := cfg.LogConfig()
	logCfg.Output = c.stderr
	logging.Init(logCfg)
	c.cfg = cfg
	return nil
}

// openMatcher builds a matcher over the configured source and loads it.
func (c *cli) openMatcher(ctx context.Context) (*services.Matcher, func() error, error) {
	source, closeFn, err := app.OpenSource(c.cfg.Catalog)
	if err != nil {
		return nil, nil, err
	}
	m := services.NewMatcher(source, app.MatcherOptions(c.cfg.Matcher))
	if _, err := m.Load(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return m, closeFn, nil
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail prints err and maps its kind to an exit code.
func (c *cli) fail(err error) int {
	fmt.Fprintln(c.stderr, "error:", err)
	if errors.Is(err, domain.ErrNoMatch) || errors.Is(err, domain.ErrNotFound) {
		return exitNotFound
	}
	return exitFatal
}

func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	return exitOK, true
}
