package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/catalog"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	if c.Preview {
		return c.runPreview(deps)
	}
	return c.runCrawl(deps)
}

// runPreview prints the rows of a single product as tab-separated lines.
func (c *ScrapeCmd) runPreview(deps *Dependencies) error {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.Product)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catalog.ErrorMessage(err))
		return err
	}
	res, err := deps.Scraper.ScrapeProduct(deps.Ctx, html, c.Product)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catalog.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, strings.Join(catalog.Columns, "\t"))
	for _, row := range res.Rows() {
		fmt.Fprintln(deps.Stdout, strings.Join(row.Values(), "\t"))
	}
	for _, err := range res.Skipped {
		fmt.Fprintf(deps.Stderr, "skip: %v\n", err)
	}
	return nil
}

func (c *ScrapeCmd) runCrawl(deps *Dependencies) error {
	var err error
	if c.Product != "" {
		err = deps.Crawler.RunProduct(deps.Ctx, deps.Session, c.Product)
	} else {
		err = deps.Crawler.Run(deps.Ctx, deps.Session, c.First, c.Last)
	}

	s := deps.Session
	fmt.Fprintf(deps.Stdout, "Scraped %d products: %d rows, %d failed, %d variants skipped\n",
		s.Products, s.Rows, s.Failed, s.Skipped)
	if err != nil {
		return err
	}

	if deps.Workbook != nil {
		if path := deps.Workbook.Path(); path != "" {
			fmt.Fprintf(deps.Stdout, "Wrote %s\n", path)
		}
	}
	if deps.Archive != nil {
		return printArchive(deps)
	}
	return nil
}

// printArchive reports what the archive holds for this run.
func printArchive(deps *Dependencies) error {
	run, err := deps.DB.FindRun(deps.Ctx, deps.Archive.RunID())
	if err != nil {
		return err
	}
	rows, errorRows, err := deps.DB.CountRows(deps.Ctx, run.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Archived run %s of %s: %d rows, %d error rows\n", run.ID, run.Site, rows, errorRows)
	return nil
}
