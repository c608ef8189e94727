// Package describe resolves ambiguous listings by reading their
// detail-page description and re-running the volume grammar against
// the visible text.
package describe

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	gocache "github.com/patrickmn/go-cache"

	"github.com/mangashelf/pricescout/models"
	"github.com/mangashelf/pricescout/pkg/classify"
)

// Getter is the slice of the fetch collaborator this package needs.
type Getter interface {
	Get(ctx context.Context, rawURL string) (string, error)
	Politeness(ctx context.Context, minSeconds, maxSeconds float64) error
}

// Options tune where and how description pages are fetched.
type Options struct {
	// MarketplaceOrigin resolves root-relative iframe URLs.
	MarketplaceOrigin string

	// Politeness delay bounds (seconds) before the detail-page fetch
	// and before a nested iframe fetch.
	DelayMinSeconds float64
	DelayMaxSeconds float64
}

// Disambiguator fetches listing descriptions and extracts volume
// counts from them. Results are memoized per listing URL: relisted
// items reappear across result pages within a run.
type Disambiguator struct {
	getter  Getter
	grammar classify.Config
	opts    Options
	cache   *gocache.Cache
	logger  *slog.Logger
}

type cachedResult struct {
	count  int
	format models.Format
}

func New(getter Getter, grammar classify.Config, opts Options, logger *slog.Logger) *Disambiguator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Disambiguator{
		getter:  getter,
		grammar: grammar,
		opts:    opts,
		cache:   gocache.New(30*time.Minute, 10*time.Minute),
		logger:  logger,
	}
}

// FromDescription fetches the listing's detail page and classifies its
// description text. The format is Single, Lot, Unknown (no usable
// text or no volumes) or Exclude (the fetch itself failed, so the
// caller should drop the item).
func (d *Disambiguator) FromDescription(ctx context.Context, listingURL string) (int, models.Format) {
	if hit, ok := d.cache.Get(listingURL); ok {
		cached := hit.(cachedResult)
		return cached.count, cached.format
	}

	if err := d.getter.Politeness(ctx, d.opts.DelayMinSeconds, d.opts.DelayMaxSeconds); err != nil {
		return 0, models.FormatExclude
	}

	html, err := d.getter.Get(ctx, listingURL)
	if err != nil {
		d.logger.Warn("description fetch failed", "url", listingURL, "error", err)
		return 0, models.FormatExclude
	}

	text := d.extractDescription(ctx, listingURL, html)
	if text == "" {
		d.logger.Debug("no description text extracted", "url", listingURL)
		d.cache.SetDefault(listingURL, cachedResult{0, models.FormatUnknown})
		return 0, models.FormatUnknown
	}

	count := len(classify.ExtractVolumes(d.grammar, text, ""))
	var format models.Format
	switch {
	case count > 1:
		format = models.FormatLot
	case count == 1:
		format = models.FormatSingle
	default:
		format = models.FormatUnknown
	}

	d.cache.SetDefault(listingURL, cachedResult{count, format})
	return count, format
}

// extractDescription finds the visible description text, preferring
// the embedded description iframe, then the detail page's own
// description containers, then a readability pass over the whole page.
func (d *Disambiguator) extractDescription(ctx context.Context, listingURL, html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if src, ok := doc.Find("iframe#desc_ifr").First().Attr("src"); ok && src != "" {
		iframeURL := d.resolveIframeURL(src)
		if text := d.fetchIframeText(ctx, iframeURL); text != "" {
			return text
		}
		d.logger.Debug("iframe description unavailable, falling back to outer page", "url", iframeURL)
	}

	if text := outerDescriptionText(doc); text != "" {
		return text
	}
	return readabilityText(listingURL, html)
}

// resolveIframeURL normalizes protocol-relative and root-relative
// iframe sources against the marketplace origin.
func (d *Disambiguator) resolveIframeURL(src string) string {
	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "/"):
		return d.opts.MarketplaceOrigin + src
	default:
		return src
	}
}

func (d *Disambiguator) fetchIframeText(ctx context.Context, iframeURL string) string {
	if err := d.getter.Politeness(ctx, d.opts.DelayMinSeconds, d.opts.DelayMaxSeconds); err != nil {
		return ""
	}
	html, err := d.getter.Get(ctx, iframeURL)
	if err != nil {
		d.logger.Warn("iframe fetch failed", "url", iframeURL, "error", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if text := visibleText(doc.Find("#ds_div").First()); text != "" {
		return text
	}
	return visibleText(doc.Find("body").First())
}

// outerDescriptionText tries the known description containers on the
// detail page itself.
func outerDescriptionText(doc *goquery.Document) string {
	for _, selector := range []string{"#desc_div", "#descriptionContent", `div[itemprop="description"]`} {
		if text := visibleText(doc.Find(selector).First()); text != "" {
			return text
		}
	}
	return ""
}

func readabilityText(listingURL, html string) string {
	parsed, err := url.Parse(listingURL)
	if err != nil {
		return ""
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), parsed)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(article.TextContent), " ")
}

// visibleText flattens a selection's text to single-space-separated
// words, the way a browser would render it.
func visibleText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}
