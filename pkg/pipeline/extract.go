package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// snippet holds the four fields a search-result entry must provide.
// Any absence makes the snippet unusable.
type snippet struct {
	Title     string
	PriceText string
	DateText  string
	Link      string
}

var (
	soldDateRe = regexp.MustCompile(`Sold\s+[A-Za-z]{3}\s+\d{1,2},\s+\d{4}`)
	dateOnlyRe = regexp.MustCompile(`[A-Za-z]{3}\s+\d{1,2},\s+\d{4}`)
	soldTagRe  = regexp.MustCompile(`Sold\s+`)
	amountRe   = regexp.MustCompile(`\d{1,3}(?:,\d{3})*(?:\.\d{2})?|\d+\.?\d*`)
)

// Ordered locators for the listings container, then a page-wide
// fallback when none match.
var containerSelectors = []string{
	"ul.srp-results.srp-list.clearfix",
	"ul#srp-results",
	"#srp-river-results ul",
}

// listingItems returns the per-listing nodes of a search results page.
func listingItems(doc *goquery.Document) []*goquery.Selection {
	var container *goquery.Selection
	for _, selector := range containerSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			container = sel
			break
		}
	}

	found := doc.Find("li.s-item")
	if container != nil {
		found = container.Find("li.s-item")
	}

	var items []*goquery.Selection
	found.Each(func(_ int, s *goquery.Selection) {
		items = append(items, s)
	})
	return items
}

// extractSnippet pulls title, price text, sold date and absolute link
// out of one listing node.
func extractSnippet(item *goquery.Selection) (snippet, error) {
	var s snippet

	for _, selector := range []string{`div.s-item__title span[role="heading"]`, ".s-item__title span", ".s-item__title"} {
		if sel := item.Find(selector).First(); sel.Length() > 0 {
			s.Title = strings.TrimSpace(strings.ReplaceAll(sel.Text(), "New Listing", ""))
			break
		}
	}
	if s.Title == "" {
		return s, fmt.Errorf("missing title")
	}

	s.PriceText = strings.TrimSpace(item.Find(".s-item__price").First().Text())
	if s.PriceText == "" {
		return s, fmt.Errorf("missing price")
	}
	if !strings.HasPrefix(s.PriceText, "$") {
		return s, fmt.Errorf("price %q does not look like a currency amount", s.PriceText)
	}

	s.DateText = soldDateText(item)
	if s.DateText == "" {
		return s, fmt.Errorf("missing sold date")
	}

	href, ok := item.Find("a.s-item__link").First().Attr("href")
	if !ok || href == "" {
		return s, fmt.Errorf("missing link")
	}
	s.Link = strings.SplitN(href, "?", 2)[0]

	return s, nil
}

// soldDateText finds the "Sold Mon DD, YYYY" fragment, trying the
// dedicated sold-tag elements first and any span as a last resort.
func soldDateText(item *goquery.Selection) string {
	for _, selector := range []string{"span.POSITIVE", "div.s-item__title--tag", "span.s-item__dynamic", "span"} {
		var text string
		item.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			t := strings.TrimSpace(sel.Text())
			if soldDateRe.MatchString(t) || (selector != "span" && soldTagRe.MatchString(t)) {
				text = t
				return false
			}
			return true
		})
		if text == "" {
			continue
		}
		if m := dateOnlyRe.FindString(text); m != "" {
			return m
		}
		return text
	}
	return ""
}

// parsePrice reduces a "$1,234.56" style price text to a decimal.
// Ranged prices ("$12.99 to $19.99") resolve to the first amount.
func parsePrice(priceText string) (decimal.Decimal, error) {
	m := amountRe.FindString(strings.ReplaceAll(priceText, "$", ""))
	if m == "" {
		return decimal.Decimal{}, fmt.Errorf("no numeric amount in %q", priceText)
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("malformed amount %q: %w", m, err)
	}
	return price, nil
}

// parseSoldDate parses the human-readable sold date; nil when the text
// is unparsable, which is stored as a null date rather than an error.
func parseSoldDate(dateText string) *time.Time {
	parsed, err := dateparse.ParseAny(dateText)
	if err != nil {
		return nil
	}
	d := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
