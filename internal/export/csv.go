// Package export writes aggregated statistics to CSV or JSON files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/focuslog/internal/stats"
)

// ToCSV writes one row per (category, focus) group.
func ToCSV(groups []stats.FocusStat, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Category", "Focus", "Sessions", "Duration (s)", "Duration"}); err != nil {
		return err
	}
	for _, g := range groups {
		row := []string{
			g.Category,
			g.Focus,
			strconv.Itoa(g.Sessions),
			strconv.FormatInt(g.Total, 10),
			stats.FormatDuration(g.Total),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
