package price

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/mangashelf/pricescout/pkg/db"
)

var spanRe = regexp.MustCompile(`^(\d+)(?:\s*-\s*(\d+))?$`)

// Action prints the average observed per-volume price for a series and,
// when --volumes is given, an estimated price for that span.
func Action(c *cli.Context) error {
	series := c.String("series")
	if series == "" {
		return fmt.Errorf("--series is required")
	}

	database, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	avg, count, err := database.AveragePricePerVolume(series)
	if err != nil {
		return fmt.Errorf("failed to compute average: %w", err)
	}
	if count == 0 {
		fmt.Printf("No price data for %q. Run 'pricescout scrape --series %q' first.\n", series, series)
		return nil
	}

	fmt.Printf("Series:                %s\n", series)
	fmt.Printf("Average per volume:    $%s (from %d sold listings)\n", avg.StringFixed(2), count)

	if spec := c.String("volumes"); spec != "" {
		volumes, err := parseVolumeSpan(spec)
		if err != nil {
			return err
		}
		estimate := avg.Mul(decimal.NewFromInt(int64(volumes))).Round(2)
		fmt.Printf("Volumes requested:     %s (%d volumes)\n", spec, volumes)
		fmt.Printf("Estimated price:       $%s\n", estimate.StringFixed(2))
	}
	return nil
}

// parseVolumeSpan accepts a count ("5") or a range ("1-10") and
// returns how many volumes it covers.
func parseVolumeSpan(spec string) (int, error) {
	m := spanRe.FindStringSubmatch(spec)
	if m == nil {
		return 0, fmt.Errorf("invalid --volumes %q: expected a count or a range like 1-10", spec)
	}

	start, err := strconv.Atoi(m[1])
	if err != nil || start <= 0 {
		return 0, fmt.Errorf("invalid --volumes %q: volume numbers start at 1", spec)
	}
	if m[2] == "" {
		return start, nil
	}

	end, err := strconv.Atoi(m[2])
	if err != nil || end < start {
		return 0, fmt.Errorf("invalid --volumes %q: range end must not precede its start", spec)
	}
	return end - start + 1, nil
}
