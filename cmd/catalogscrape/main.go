package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/bloom"
	"github.com/fwojciec/catalog/crawl"
	"github.com/fwojciec/catalog/excelize"
	"github.com/fwojciec/catalog/goquery"
	"github.com/fwojciec/catalog/htmltomarkdown"
	cathttp "github.com/fwojciec/catalog/http"
	"github.com/fwojciec/catalog/rod"
	"github.com/fwojciec/catalog/sheets"
	catslog "github.com/fwojciec/catalog/slog"
	"github.com/fwojciec/catalog/sqlite"
	"github.com/fwojciec/catalog/yaml"
	"google.golang.org/api/option"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Now returns the run start time. Set before calling Run().
	Now func() time.Time

	// Getenv looks up environment variables. Set before calling Run().
	Getenv func(string) string

	// Browser starts the page renderer used by --render. Set before calling Run().
	Browser func(timeout time.Duration) (catalog.Fetcher, error)

	// DB is the archive database, open only when --db is given.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Now:     time.Now,
		Getenv:  os.Getenv,
		Browser: newBrowser,
	}
}

func newBrowser(timeout time.Duration) (catalog.Fetcher, error) {
	f, err := rod.NewFetcher(
		rod.WithFetchTimeout(timeout),
		rod.WithUserAgent(cathttp.DefaultUserAgent),
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Close releases everything opened by Run in reverse order.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("catalogscrape"),
		kong.Description("Scrape the shop catalog into spreadsheet rows, one row per product variant"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{
			"default_base_url":  catalog.DefaultBaseURL,
			"default_sheet":     excelize.DefaultSheet,
			"default_rps":       strconv.FormatFloat(crawl.DefaultRequestsPerSecond, 'g', -1, 64),
			"default_min_delay": crawl.DefaultMinDelay.String(),
			"default_max_delay": crawl.DefaultMaxDelay.String(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 1 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if err := cli.validate(); err != nil {
		return err
	}

	site, err := m.loadSite(cli)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  newLogger(stderr, cli.Verbose),
		Session: crawl.NewSession(m.Now()),
	}

	defer func() {
		if cerr := m.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := m.wireScraper(cli, site, deps); err != nil {
		return err
	}
	if !cli.Preview {
		if err := m.wireCrawler(ctx, cli, site, deps); err != nil {
			return err
		}
	}

	cmd := &ScrapeCmd{
		First:   cli.Begin,
		Last:    cli.End,
		Product: cli.Product,
		Preview: cli.Preview,
	}
	return cmd.Run(deps)
}

func (m *Main) loadSite(cli *CLI) (*catalog.Site, error) {
	var site *catalog.Site
	if cli.Site != "" {
		s, err := yaml.LoadSite(cli.Site, cli.BaseURL)
		if err != nil {
			return nil, err
		}
		site = s
	} else {
		site = catalog.NewSite(cli.BaseURL)
	}

	if cli.SiteName != "" {
		site.Name = cli.SiteName
	}
	site.SetDefaults()
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return site, nil
}

// wireScraper builds the fetch and extraction chain shared by crawl and preview modes.
//
// Pages go through the browser when --render is set. The pricing endpoint
// returns JSON and is always fetched over plain HTTP. Both share one rate limit.
func (m *Main) wireScraper(cli *CLI, site *catalog.Site, deps *Dependencies) error {
	limiter := crawl.NewDomainLimiter(cli.RPS)

	var fetcher catalog.Fetcher
	if cli.Render {
		f, err := m.Browser(cli.Timeout)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		fetcher = cathttp.NewFetcher(cathttp.WithTimeout(cli.Timeout))
	}

	fetcher = crawl.NewLimitedFetcher(fetcher, limiter)
	fetcher = catslog.NewLoggingFetcher(fetcher, deps.Logger)
	m.closers = append(m.closers, fetcher)

	var priceFetcher catalog.Fetcher = cathttp.NewFetcher(cathttp.WithTimeout(cli.Timeout))
	priceFetcher = crawl.NewLimitedFetcher(priceFetcher, limiter)
	priceFetcher = catslog.NewLoggingFetcher(priceFetcher, deps.Logger)
	m.closers = append(m.closers, priceFetcher)

	prices := catslog.NewLoggingPriceLookup(cathttp.NewPriceClient(priceFetcher, site.BaseURL), deps.Logger)
	scraper := goquery.NewScraper(site, fetcher, prices)
	if cli.Description == "markdown" {
		scraper.Converter = htmltomarkdown.NewConverter()
	}

	deps.Fetcher = fetcher
	deps.Scraper = catslog.NewLoggingScraper(scraper, deps.Logger)
	return nil
}

// wireCrawler opens the output sinks and builds the catalog crawler.
func (m *Main) wireCrawler(ctx context.Context, cli *CLI, site *catalog.Site, deps *Dependencies) error {
	deps.Workbook = excelize.NewWorkbook(cli.Out, deps.Session.StartedAt,
		excelize.WithSplitPages(cli.SplitPages),
		excelize.WithSheet(cli.Worksheet),
	)
	sinks := []catalog.RowSink{deps.Workbook}

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Set CATALOG_DB or --db to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		m.closers = append(m.closers, m.DB)
		deps.DB = m.DB

		archive, err := sqlite.OpenArchive(ctx, m.DB, deps.Session.ID, site.BaseURL, deps.Session.StartedAt)
		if err != nil {
			return err
		}
		deps.Archive = archive
		sinks = append(sinks, archive)
	}

	if cli.Sheet != "" {
		id := sheets.ExtractSpreadsheetID(cli.Sheet)
		if id == "" {
			return catalog.Errorf(catalog.EINVALID, "invalid spreadsheet URL %q", cli.Sheet)
		}
		creds, err := sheets.LoadCredentials(cli.Credentials, m.Getenv)
		if err != nil {
			return err
		}
		appender, err := sheets.NewAppender(ctx, id, cli.Worksheet, option.WithCredentialsJSON(creds))
		if err != nil {
			return err
		}
		sinks = append(sinks, appender)
	}

	sink := catslog.NewLoggingSink(catalog.MultiSink(sinks...), deps.Logger)
	m.closers = append(m.closers, sink)

	crawler := &crawl.Crawler{
		Site:     site,
		Fetcher:  deps.Fetcher,
		Listings: goquery.NewListingParser(site),
		Scraper:  deps.Scraper,
		Sink:     sink,
		Delay:    crawl.NewRandomDelay(cli.MinDelay, cli.MaxDelay),
		Logger:   deps.Logger,
	}
	if cli.Dedupe {
		crawler.Seen = bloom.NewFilter(bloom.DefaultCapacity, bloom.DefaultFalsePositiveRate)
	}

	deps.Sink = sink
	deps.Crawler = crawler
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
