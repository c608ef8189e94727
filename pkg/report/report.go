// Package report writes persisted listings out as CSV files for
// eyeballing in a spreadsheet: one file for singles and lots, one for
// omnibus editions, each with trailing summary statistics.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mangashelf/pricescout/models"
	"github.com/mangashelf/pricescout/pkg/db"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Paths are the files a successful export produced.
type Paths struct {
	SinglesLots string
	Omnibus     string
}

// Export splits listings by format and writes the two CSV files into
// dir, creating it if needed. File names derive from the series name.
func Export(dir, series string, listings []db.StoredListing) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("failed to create export dir: %w", err)
	}

	var singlesLots, omnibus []db.StoredListing
	for _, l := range listings {
		if l.Format == models.FormatOmnibus {
			omnibus = append(omnibus, l)
		} else {
			singlesLots = append(singlesLots, l)
		}
	}

	slug := seriesSlug(series)
	paths := Paths{
		SinglesLots: filepath.Join(dir, slug+"_singles_lots.csv"),
		Omnibus:     filepath.Join(dir, slug+"_omnibus.csv"),
	}

	if err := writeListingsCSV(paths.SinglesLots, singlesLots); err != nil {
		return Paths{}, err
	}
	if err := writeListingsCSV(paths.Omnibus, omnibus); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

func seriesSlug(series string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(series), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "series"
	}
	return slug
}

func writeListingsCSV(path string, listings []db.StoredListing) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"title", "total_price", "date_sold", "num_volumes", "price_per_volume", "format", "parse_source", "link"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, l := range listings {
		dateSold := ""
		if l.DateSold != nil {
			dateSold = l.DateSold.Format("2006-01-02")
		}
		pricePerVolume := ""
		if l.PricePerVolume != nil {
			pricePerVolume = l.PricePerVolume.StringFixed(2)
		}
		row := []string{
			l.Title,
			l.TotalPrice.StringFixed(2),
			dateSold,
			strconv.Itoa(l.NumVolumes),
			pricePerVolume,
			string(l.Format),
			string(l.ParseSource),
			l.Link,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	for _, row := range summaryRows(listings) {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// summaryRows computes the trailing statistics block: listing count,
// volume total, price extremes and the overall average per volume.
func summaryRows(listings []db.StoredListing) [][]string {
	rows := [][]string{
		{},
		{"listings", strconv.Itoa(len(listings))},
	}

	totalVolumes := 0
	var high, low decimal.Decimal
	perVolumeSum := decimal.Zero
	perVolumeCount := 0
	for i, l := range listings {
		totalVolumes += l.NumVolumes
		if i == 0 || l.TotalPrice.GreaterThan(high) {
			high = l.TotalPrice
		}
		if i == 0 || l.TotalPrice.LessThan(low) {
			low = l.TotalPrice
		}
		if l.PricePerVolume != nil {
			perVolumeSum = perVolumeSum.Add(*l.PricePerVolume)
			perVolumeCount++
		}
	}

	rows = append(rows, []string{"total_volumes", strconv.Itoa(totalVolumes)})
	if len(listings) > 0 {
		rows = append(rows,
			[]string{"highest_total_price", high.StringFixed(2)},
			[]string{"lowest_total_price", low.StringFixed(2)},
		)
	}
	if perVolumeCount > 0 {
		avg := perVolumeSum.Div(decimal.NewFromInt(int64(perVolumeCount))).Round(2)
		rows = append(rows, []string{"average_price_per_volume", avg.StringFixed(2)})
	}
	return rows
}
