// Package models defines the shared data types for listing
// classification and persistence.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Format classifies what a listing's packaging actually is.
type Format string

const (
	FormatSingle  Format = "Single"  // one volume
	FormatLot     Format = "Lot"     // multiple separate volumes
	FormatOmnibus Format = "Omnibus" // multiple volumes bound as one unit
	FormatExclude Format = "Exclude" // not a relevant book listing
	FormatUnknown Format = "Unknown" // undetermined after description check
)

// ParseSource records whether a listing was classified from its title
// alone or needed the supplementary description.
type ParseSource string

const (
	SourceTitle       ParseSource = "Title"
	SourceDescription ParseSource = "Description"
)

// ClassificationResult is the transient outcome of classifying one
// listing title. Exclude and Unknown results never become records.
type ClassificationResult struct {
	NumVolumes int
	Format     Format
	Ambiguous  bool
}

// ListingRecord is one accepted sold listing. Link is the dedup key;
// re-ingesting the same link never creates a second row.
type ListingRecord struct {
	Title       string
	TotalPrice  decimal.Decimal
	DateSold    *time.Time // nil when the sold-date text could not be parsed
	NumVolumes  int
	Format      Format
	ParseSource ParseSource
	Link        string
}

// PricePerVolume returns the exact quotient of total price and volume
// count at two decimal places. The bool is false when NumVolumes is 0.
func (r ListingRecord) PricePerVolume() (decimal.Decimal, bool) {
	if r.NumVolumes <= 0 {
		return decimal.Zero, false
	}
	return r.TotalPrice.Div(decimal.NewFromInt(int64(r.NumVolumes))).Round(2), true
}
