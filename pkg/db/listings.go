package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mangashelf/pricescout/models"
)

const dateLayout = "2006-01-02"

// InsertListing performs an idempotent insert keyed on the listing
// link: a conflict is a silent no-op, never an update. The price per
// volume is computed here, at insert time, and each insert commits as
// its own transaction.
func (db *DB) InsertListing(rec models.ListingRecord) error {
	var pricePerVolume sql.NullString
	if ppv, ok := rec.PricePerVolume(); ok {
		pricePerVolume = sql.NullString{String: ppv.StringFixed(2), Valid: true}
	}

	var dateSold sql.NullString
	if rec.DateSold != nil {
		dateSold = sql.NullString{String: rec.DateSold.Format(dateLayout), Valid: true}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO manga_listings (title, total_price, date_sold, num_volumes, price_per_volume, format, parse_source, link, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(link) DO NOTHING
	`, rec.Title, rec.TotalPrice.StringFixed(2), dateSold, rec.NumVolumes,
		pricePerVolume, string(rec.Format), string(rec.ParseSource), rec.Link,
		time.Now().UTC())
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit listing: %w", err)
	}
	return nil
}

// AveragePricePerVolume averages price_per_volume over records whose
// title contains titleLike (case-insensitive), restricted to Single
// and Lot formats. Omnibus rows are excluded: their per-volume price
// estimates a bundle, not an observed single-volume price. A zero
// count means no average exists.
func (db *DB) AveragePricePerVolume(titleLike string) (decimal.Decimal, int, error) {
	rows, err := db.Query(`
		SELECT price_per_volume FROM manga_listings
		WHERE title LIKE ? AND format IN ('Single', 'Lot') AND price_per_volume IS NOT NULL
	`, "%"+titleLike+"%")
	if err != nil {
		return decimal.Decimal{}, 0, fmt.Errorf("failed to query average price: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	count := 0
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Decimal{}, 0, fmt.Errorf("failed to scan price: %w", err)
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, 0, fmt.Errorf("malformed stored price %q: %w", raw, err)
		}
		sum = sum.Add(price)
		count++
	}
	if err := rows.Err(); err != nil {
		return decimal.Decimal{}, 0, fmt.Errorf("failed to read prices: %w", err)
	}

	if count == 0 {
		return decimal.Decimal{}, 0, nil
	}
	return sum.Div(decimal.NewFromInt(int64(count))).Round(2), count, nil
}

// StoredListing is a persisted listing row as read back for reports.
type StoredListing struct {
	Title          string
	TotalPrice     decimal.Decimal
	DateSold       *time.Time
	NumVolumes     int
	PricePerVolume *decimal.Decimal
	Format         models.Format
	ParseSource    models.ParseSource
	Link           string
	ScrapedAt      time.Time
}

// ListingsForTitle returns all rows whose title contains titleLike
// (case-insensitive), newest first.
func (db *DB) ListingsForTitle(titleLike string) ([]StoredListing, error) {
	rows, err := db.Query(`
		SELECT title, total_price, date_sold, num_volumes, price_per_volume, format, parse_source, link, scraped_at
		FROM manga_listings
		WHERE title LIKE ?
		ORDER BY scraped_at DESC, listing_id DESC
	`, "%"+titleLike+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []StoredListing
	for rows.Next() {
		var (
			l        StoredListing
			total    string
			dateSold sql.NullTime
			ppv      sql.NullString
			format   string
			source   string
		)
		if err := rows.Scan(&l.Title, &total, &dateSold, &l.NumVolumes, &ppv, &format, &source, &l.Link, &l.ScrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}

		l.TotalPrice, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("malformed stored price %q: %w", total, err)
		}
		if dateSold.Valid {
			d := dateSold.Time
			l.DateSold = &d
		}
		if ppv.Valid {
			p, err := decimal.NewFromString(ppv.String)
			if err != nil {
				return nil, fmt.Errorf("malformed stored price %q: %w", ppv.String, err)
			}
			l.PricePerVolume = &p
		}
		l.Format = models.Format(format)
		l.ParseSource = models.ParseSource(source)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
