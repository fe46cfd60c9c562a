// Package worklog implements the append-only session log.
//
// Records are only ever appended. The one read-modify-write path is the
// filter-rewrite used when a category or focus is deleted: it copies the
// surviving lines to a temp file next to the log and renames it into place,
// so a crash can never leave the log half-written.
package worklog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Log is a handle on the work log file. It holds no open descriptors.
type Log struct {
	path string

	// swapped in tests to simulate a full disk
	createTemp func(dir, pattern string) (*os.File, error)
}

// Open returns a Log for path. The file is created on first append.
func Open(path string) *Log {
	return &Log{path: path, createTemp: os.CreateTemp}
}

func (l *Log) Path() string {
	return l.path
}

// Append writes one record. The header is written first when the file is
// new or empty.
func (l *Log) Append(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open work log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat work log: %w", err)
	}
	line := EncodeRecord(e) + "\n"
	if info.Size() == 0 {
		line = Header + "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	slog.Debug("session logged", "category", e.Category, "focus", e.Focus, "seconds", e.Duration)
	return f.Close()
}

// Entries returns every decodable record in file order. A missing log has
// no entries.
func (l *Log) Entries() ([]Entry, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open work log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	err = scanLines(f, func(line string) error {
		e, err := DecodeRecord(line)
		if err != nil {
			slog.Debug("skipping log line", "err", err)
			return nil
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read work log: %w", err)
	}
	return entries, nil
}

// RemoveCategory drops every record logged under category.
func (l *Log) RemoveCategory(category string) error {
	return l.filter(func(e Entry) bool { return e.Category == category })
}

// RemoveFocus drops every record logged under (category, focus).
func (l *Log) RemoveFocus(category, focus string) error {
	return l.filter(func(e Entry) bool {
		return e.Category == category && e.Focus == focus
	})
}

// ResetAll leaves the log holding only its header.
func (l *Log) ResetAll() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	return l.rewrite(func(w *bufio.Writer) error { return nil })
}

// filter rewrites the log without the records drop matches. Lines that do
// not decode are kept verbatim.
func (l *Log) filter(drop func(Entry) bool) error {
	src, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open work log: %w", err)
	}
	defer src.Close()

	removed := 0
	err = l.rewrite(func(w *bufio.Writer) error {
		return scanLines(src, func(line string) error {
			if e, err := DecodeRecord(line); err == nil && drop(e) {
				removed++
				return nil
			}
			_, err := w.WriteString(line + "\n")
			return err
		})
	})
	if err != nil {
		return err
	}
	slog.Debug("work log filtered", "removed", removed)
	return nil
}

// rewrite writes the header plus whatever body emits to a temp file in the
// log's directory, syncs it and renames it over the log.
func (l *Log) rewrite(body func(w *bufio.Writer) error) (err error) {
	tmp, err := l.createTemp(filepath.Dir(l.path), "work_log_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod temp log: %w", err)
	}
	w := bufio.NewWriter(tmp)
	if _, err = w.WriteString(Header + "\n"); err != nil {
		return fmt.Errorf("write temp log: %w", err)
	}
	if err = body(w); err != nil {
		return fmt.Errorf("write temp log: %w", err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flush temp log: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp log: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp log: %w", err)
	}
	if err = os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("replace work log: %w", err)
	}
	return nil
}

// scanLines feeds every non-header, non-empty line of r to fn.
func scanLines(r io.Reader, fn func(line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if line == Header {
				continue
			}
		}
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}
