package runs

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mangashelf/pricescout/pkg/db"
)

// Action lists recent scrape runs, newest first.
func Action(c *cli.Context) error {
	database, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	fmt.Printf("%-36s %-20s %-20s %-6s %-9s %-9s %-8s\n",
		"Run ID", "Series", "Started", "Pages", "Accepted", "MinPrice", "Status")
	fmt.Println(strings.Repeat("-", 112))

	for _, r := range runs {
		status := "failed"
		switch {
		case r.FinishedAt == nil:
			status = "running"
		case r.Success:
			status = "ok"
		}
		fmt.Printf("%-36s %-20s %-20s %-6d %-9d %-9s %-8s\n",
			r.ID,
			truncate(r.Series, 20),
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.PagesProcessed,
			r.AcceptedCount,
			"$"+r.MinPrice.StringFixed(2),
			status,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
