package pipeline

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func firstItem(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	sel := doc.Find("li.s-item").First()
	if sel.Length() == 0 {
		t.Fatal("no listing item in fixture")
	}
	return sel
}

func TestExtractSnippet(t *testing.T) {
	item := firstItem(t, listingItem(
		"New Listing Naruto Vol. 1-5", "$49.99", "Mar 9, 2024",
		"https://www.ebay.com/itm/42?hash=item1&var=0",
	))

	snip, err := extractSnippet(item)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if snip.Title != "Naruto Vol. 1-5" {
		t.Errorf("title = %q, want the New Listing tag stripped", snip.Title)
	}
	if snip.PriceText != "$49.99" {
		t.Errorf("price text = %q", snip.PriceText)
	}
	if snip.DateText != "Mar 9, 2024" {
		t.Errorf("date text = %q", snip.DateText)
	}
	if snip.Link != "https://www.ebay.com/itm/42" {
		t.Errorf("link = %q, want query string stripped", snip.Link)
	}
}

func TestExtractSnippetPlainTitleSpan(t *testing.T) {
	item := firstItem(t, `<li class="s-item">
		<div class="s-item__title"><span>Bleach Volume 7</span></div>
		<span class="s-item__price">$8.00</span>
		<span class="POSITIVE">Sold Jan 2, 2024</span>
		<a class="s-item__link" href="https://www.ebay.com/itm/7">x</a>
	</li>`)

	snip, err := extractSnippet(item)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if snip.Title != "Bleach Volume 7" {
		t.Errorf("title = %q", snip.Title)
	}
}

func TestExtractSnippetRejectsNonDollarPrice(t *testing.T) {
	item := firstItem(t, listingItem("Naruto Volume 3", "EUR 12,99", "Mar 9, 2024", "https://www.ebay.com/itm/1"))

	if _, err := extractSnippet(item); err == nil {
		t.Error("expected an error for a non-dollar price")
	}
}

func TestExtractSnippetMissingFields(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no title", `<li class="s-item"><span class="s-item__price">$5</span></li>`},
		{"no price", `<li class="s-item"><div class="s-item__title"><span role="heading">A 1</span></div></li>`},
		{"no date", `<li class="s-item">
			<div class="s-item__title"><span role="heading">A 1</span></div>
			<span class="s-item__price">$5.00</span>
			<a class="s-item__link" href="https://x/itm/1">x</a></li>`},
		{"no link", `<li class="s-item">
			<div class="s-item__title"><span role="heading">A 1</span></div>
			<span class="s-item__price">$5.00</span>
			<span class="POSITIVE">Sold Jan 2, 2024</span></li>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := extractSnippet(firstItem(t, tt.html)); err == nil {
				t.Error("expected an extraction error")
			}
		})
	}
}

func TestListingItemsContainerPreference(t *testing.T) {
	// Items outside the results container are chaff (carousels, ads) and
	// must not be picked up when a container exists.
	html := `<html><body>
		<ul class="other"><li class="s-item">ad</li></ul>
		<ul id="srp-results">
			<li class="s-item">a</li>
			<li class="s-item">b</li>
		</ul>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := len(listingItems(doc)); got != 2 {
		t.Errorf("expected 2 items from the results container, got %d", got)
	}
}

func TestListingItemsGlobalFallback(t *testing.T) {
	html := `<html><body><div><li class="s-item">a</li></div></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := len(listingItems(doc)); got != 1 {
		t.Errorf("expected the page-wide fallback to find 1 item, got %d", got)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		valid bool
	}{
		{"plain", "$12.99", "12.99", true},
		{"thousands separator", "$1,234.56", "1234.56", true},
		{"range takes first amount", "$12.99 to $19.99", "12.99", true},
		{"no digits", "$free", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePrice(tt.text)
			if tt.valid != (err == nil) {
				t.Fatalf("err = %v, valid = %v", err, tt.valid)
			}
			if tt.valid && got.String() != tt.want {
				t.Errorf("parsePrice(%q) = %s, want %s", tt.text, got.String(), tt.want)
			}
		})
	}
}

func TestParseSoldDate(t *testing.T) {
	d := parseSoldDate("Mar 9, 2024")
	if d == nil || d.Format("2006-01-02") != "2024-03-09" {
		t.Errorf("parseSoldDate = %v, want 2024-03-09", d)
	}
	if parseSoldDate("someday soon") != nil {
		t.Error("unparsable date must come back nil")
	}
}
