package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focuslog/internal/stats"
)

type jsonExport struct {
	ExportedAt   string      `json:"exported_at"`
	TotalSeconds int64       `json:"total_seconds"`
	Count        int         `json:"count"`
	Groups       []jsonGroup `json:"groups"`
}

type jsonGroup struct {
	Category    string `json:"category"`
	Focus       string `json:"focus"`
	Sessions    int    `json:"sessions"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

// ToJSON writes the groups with a small summary header.
func ToJSON(groups []stats.FocusStat, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(groups),
		Groups:     []jsonGroup{},
	}
	for _, g := range groups {
		export.TotalSeconds += g.Total
		export.Groups = append(export.Groups, jsonGroup{
			Category:    g.Category,
			Focus:       g.Focus,
			Sessions:    g.Sessions,
			DurationSec: g.Total,
			Duration:    stats.FormatDuration(g.Total),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
