package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sadopc/focuslog/internal/stats"
)

type Format int

const (
	CSV Format = iota
	JSON
)

// Formats lists the choices offered to the user, in display order.
var Formats = []Format{CSV, JSON}

func (f Format) String() string {
	switch f {
	case CSV:
		return "CSV"
	case JSON:
		return "JSON"
	}
	return "unknown"
}

func (f Format) ext() string {
	if f == JSON {
		return "json"
	}
	return "csv"
}

// Path names a dated export file inside dir.
func Path(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("focuslog-stats-%s.%s", now.Format("2006-01-02-150405"), f.ext()))
}

// Write exports groups to path in format f.
func Write(f Format, groups []stats.FocusStat, path string) error {
	switch f {
	case CSV:
		return ToCSV(groups, path)
	case JSON:
		return ToJSON(groups, path)
	}
	return fmt.Errorf("unknown export format %d", f)
}
