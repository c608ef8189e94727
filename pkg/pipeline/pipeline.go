// Package pipeline runs the ingestion loop: paginate sold-listing
// search results for one series, classify each snippet, optionally
// disambiguate through the listing description, and persist what
// survives the filters.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/mangashelf/pricescout/models"
	"github.com/mangashelf/pricescout/pkg/classify"
	"github.com/mangashelf/pricescout/pkg/fetcher"
)

// Fetcher is the slice of the HTTP client the pipeline needs.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (string, error)
	Politeness(ctx context.Context, minSeconds, maxSeconds float64) error
}

// Disambiguator resolves an ambiguous title through the listing's
// description page.
type Disambiguator interface {
	FromDescription(ctx context.Context, listingURL string) (int, models.Format)
}

// Store persists accepted listings.
type Store interface {
	InsertListing(rec models.ListingRecord) error
}

// Options control one ingestion run.
type Options struct {
	MarketplaceOrigin string
	MaxPages          int
	MinPrice          decimal.Decimal

	// FetchDescriptions enables the description fallback for ambiguous
	// titles. Without it ambiguous listings are dropped outright.
	FetchDescriptions bool

	PageDelayMinSeconds float64
	PageDelayMaxSeconds float64
}

// Summary is the outcome of a run. Success is false when a page-level
// failure cut the run short; a clean end of pagination (404/429 or an
// empty later page) still counts as success.
type Summary struct {
	Success        bool
	Accepted       int
	PagesProcessed int
}

// Pipeline wires the fetch, classify, describe and store collaborators
// into the ingestion loop.
type Pipeline struct {
	fetcher       Fetcher
	classifier    *classify.Classifier
	disambiguator Disambiguator
	store         Store
	opts          Options
	logger        *slog.Logger
}

func New(f Fetcher, c *classify.Classifier, d Disambiguator, s Store, opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		fetcher:       f,
		classifier:    c,
		disambiguator: d,
		store:         s,
		opts:          opts,
		logger:        logger,
	}
}

// Run paginates search results for series and returns the run summary.
// Item-level problems are logged and skipped; page-level fetch or parse
// failures abort the run with Success=false.
func (p *Pipeline) Run(ctx context.Context, series string) Summary {
	summary := Summary{Success: true}

	for page := 1; page <= p.opts.MaxPages; page++ {
		if err := p.fetcher.Politeness(ctx, p.opts.PageDelayMinSeconds, p.opts.PageDelayMaxSeconds); err != nil {
			p.logger.Warn("run cancelled during page delay", "page", page, "error", err)
			summary.Success = false
			return summary
		}

		minPrice, _ := p.opts.MinPrice.Float64()
		pageURL := fetcher.SearchURL(p.opts.MarketplaceOrigin, series, minPrice, page)
		p.logger.Info("fetching results page", "series", series, "page", page)

		html, err := p.fetcher.Get(ctx, pageURL)
		if err != nil {
			if code, ok := fetcher.StatusCode(err); ok && (code == 404 || code == 429) {
				p.logger.Info("pagination ended by marketplace", "page", page, "status", code)
				return summary
			}
			p.logger.Error("results page fetch failed", "page", page, "error", err)
			summary.Success = false
			return summary
		}

		accepted, err := p.processPage(ctx, series, html)
		if err != nil {
			p.logger.Error("results page unusable", "page", page, "error", err)
			summary.Success = false
			return summary
		}
		if accepted < 0 {
			// No listings on this page: the first page means the search
			// itself yielded nothing, later pages mean pagination ran out.
			if page == 1 {
				p.logger.Warn("no listings found for series", "series", series)
				summary.Success = false
			} else {
				p.logger.Info("reached end of results", "page", page)
			}
			return summary
		}

		summary.Accepted += accepted
		summary.PagesProcessed++
		p.logger.Info("results page processed", "page", page, "accepted", accepted)
	}
	return summary
}

// processPage extracts, classifies and persists the listings on one
// results page. It returns -1 when the page carries no listings at all.
func (p *Pipeline) processPage(ctx context.Context, series, html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("parse results page: %w", err)
	}

	items := listingItems(doc)
	if len(items) == 0 {
		return -1, nil
	}

	accepted := 0
	for _, item := range items {
		if p.processItem(ctx, series, item) {
			accepted++
		}
	}
	return accepted, nil
}

// processItem runs one snippet through the filters and persists it.
// Returns true only when the record was actually stored.
func (p *Pipeline) processItem(ctx context.Context, series string, item *goquery.Selection) bool {
	snip, err := extractSnippet(item)
	if err != nil {
		p.logger.Debug("skipping malformed snippet", "error", err)
		return false
	}

	if p.classifier.IsMixedLot(snip.Title, series) {
		p.logger.Debug("skipping mixed lot", "title", snip.Title)
		return false
	}

	result := p.classifier.Classify(snip.Title, series)
	if result.Format == models.FormatExclude || result.NumVolumes == 0 {
		p.logger.Debug("skipping excluded listing", "title", snip.Title)
		return false
	}

	source := models.SourceTitle
	if result.Ambiguous && p.opts.FetchDescriptions && p.disambiguator != nil {
		count, format := p.disambiguator.FromDescription(ctx, snip.Link)
		if format == models.FormatExclude {
			p.logger.Debug("skipping listing with unreadable description", "title", snip.Title)
			return false
		}
		if count > 0 {
			result.NumVolumes = count
			if format != models.FormatUnknown {
				result.Format = format
			}
			result.Ambiguous = false
			source = models.SourceDescription
		}
	}
	if result.Ambiguous {
		p.logger.Debug("skipping unresolved ambiguous listing", "title", snip.Title)
		return false
	}

	price, err := parsePrice(snip.PriceText)
	if err != nil {
		p.logger.Debug("skipping listing with unparsable price", "title", snip.Title, "error", err)
		return false
	}
	if price.LessThan(p.opts.MinPrice) {
		p.logger.Debug("skipping listing under price floor", "title", snip.Title, "price", price.String())
		return false
	}

	rec := models.ListingRecord{
		Title:       snip.Title,
		TotalPrice:  price,
		DateSold:    parseSoldDate(snip.DateText),
		NumVolumes:  result.NumVolumes,
		Format:      result.Format,
		ParseSource: source,
		Link:        snip.Link,
	}
	if err := p.store.InsertListing(rec); err != nil {
		p.logger.Error("failed to persist listing", "link", snip.Link, "error", err)
		return false
	}
	return true
}
