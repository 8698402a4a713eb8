package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/crawl"
	"github.com/fwojciec/catalog/excelize"
	"github.com/fwojciec/catalog/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Session *crawl.Session
	Fetcher catalog.Fetcher
	Scraper catalog.ProductScraper

	// Crawler and Sink are nil in preview mode.
	Crawler *crawl.Crawler
	Sink    catalog.RowSink

	// Workbook is the spreadsheet output of a crawl.
	Workbook *excelize.Workbook

	// DB and Archive are set only when --db is given.
	DB      *sqlite.DB
	Archive *sqlite.Archive
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	BaseURL string `arg:"" optional:"" help:"Shop base URL (default: base_url from --site, then ${default_base_url})"`

	Begin   int    `short:"b" default:"0" help:"First catalog page (inclusive, 0-56)"`
	End     int    `short:"e" default:"56" help:"Last catalog page (exclusive, 0-56)"`
	Product string `short:"p" placeholder:"URL" help:"Scrape a single product page instead of the catalog"`
	Preview bool   `help:"Print the rows of --product to stdout without writing output"`

	Site     string `type:"existingfile" placeholder:"FILE" help:"YAML site profile"`
	SiteName string `help:"Site name appended to page titles (default: derived from host)"`

	Out         string `short:"o" default:"." type:"path" help:"Output directory for spreadsheets"`
	SplitPages  bool   `help:"Write one spreadsheet per catalog page"`
	Worksheet   string `default:"${default_sheet}" help:"Worksheet name in the spreadsheet and the Google Sheet"`
	DB          string `env:"CATALOG_DB" type:"path" placeholder:"PATH" help:"Also archive rows in a SQLite database"`
	Sheet       string `placeholder:"URL|ID" help:"Also append rows to a Google Sheet"`
	Credentials string `type:"existingfile" placeholder:"FILE" help:"Service account JSON for --sheet (default: $GOOGLE_SHEETS_CREDENTIALS)"`

	Render      bool          `help:"Render pages in headless Chrome"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per request"`
	RPS         float64       `name:"rps" default:"${default_rps}" help:"Requests per second per host"`
	MinDelay    time.Duration `default:"${default_min_delay}" help:"Minimum pause after each product"`
	MaxDelay    time.Duration `default:"${default_max_delay}" help:"Maximum pause after each product (0 disables the pause)"`
	Description string        `enum:"html,markdown" default:"html" help:"Description format (html, markdown)"`
	Dedupe      bool          `default:"true" negatable:"" help:"Skip product links already visited in this run"`

	Verbose bool `short:"v" help:"Log every request and row"`
}

// validate checks flag combinations kong cannot express.
func (c *CLI) validate() error {
	if err := catalog.ValidatePageRange(c.Begin, c.End); err != nil {
		return err
	}
	if c.Preview && c.Product == "" {
		return catalog.Errorf(catalog.EINVALID, "--preview requires --product")
	}
	if c.RPS <= 0 {
		return catalog.Errorf(catalog.EINVALID, "--rps must be positive")
	}
	if c.Worksheet == "" {
		return catalog.Errorf(catalog.EINVALID, "--worksheet must not be empty")
	}
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return catalog.Errorf(catalog.EINVALID, "invalid delay range: %s to %s", c.MinDelay, c.MaxDelay)
	}
	return nil
}

// ScrapeCmd runs a crawl or a single-product scrape.
type ScrapeCmd struct {
	First   int
	Last    int
	Product string
	Preview bool
}
