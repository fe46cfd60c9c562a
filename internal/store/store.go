// Package store owns the category/focus hierarchy and its on-disk file.
//
// The file is line oriented. A category line is "#name;colorId" and every
// following line up to the next category is one of its focuses, written
// "name;colorId". The id is whatever follows the last ';'.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sadopc/focuslog/internal/color"
)

const categoryMarker = "#"

// Purger removes work log records for deleted items.
type Purger interface {
	RemoveCategory(category string) error
	RemoveFocus(category, focus string) error
	ResetAll() error
}

type Store struct {
	path   string
	alloc  *color.Allocator
	purger Purger

	categories []Category
}

// Load reads the categories file at path. A missing file yields an empty
// store. alloc is advanced past every id found in the file before any
// missing id is allocated. purger may be nil.
func Load(path string, alloc *color.Allocator, purger Purger) (*Store, error) {
	if alloc == nil {
		alloc = color.NewAllocator()
	}
	s := &Store{path: path, alloc: alloc, purger: purger}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, persistence("open categories", err)
	}
	defer f.Close()

	cats, err := decode(f)
	if err != nil {
		return nil, persistence("read categories", err)
	}
	s.categories = s.assignIDs(cats)
	slog.Debug("categories loaded", "path", path, "count", len(s.categories))
	return s, nil
}

// parsed ids are -1 when the line carried none
const missingID color.ID = -1

func decode(r io.Reader) ([]Category, error) {
	var (
		cats    []Category
		current = -1
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, categoryMarker) {
			name, id := splitLine(strings.TrimPrefix(line, categoryMarker))
			current = -1
			if name == "" || len(cats) >= MaxCategories || indexOf(cats, name) >= 0 {
				continue
			}
			cats = append(cats, Category{Name: name, ColorID: id})
			current = len(cats) - 1
			continue
		}

		if current < 0 {
			continue
		}
		name, id := splitLine(line)
		c := &cats[current]
		if name == "" || len(c.Focuses) >= MaxFocuses || c.FocusIndex(name) >= 0 {
			continue
		}
		c.Focuses = append(c.Focuses, Focus{Name: name, ColorID: id})
	}
	return cats, sc.Err()
}

func splitLine(line string) (string, color.ID) {
	name, id := line, missingID
	if i := strings.LastIndex(line, ";"); i >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(line[i+1:])); err == nil && n >= 0 {
			name, id = line[:i], color.ID(n)
		}
	}
	return truncate(name, MaxNameLen), id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// assignIDs reserves every explicit id first, then allocates the missing
// ones, so restored and fresh ids never collide.
func (s *Store) assignIDs(cats []Category) []Category {
	for _, c := range cats {
		if c.ColorID != missingID {
			s.alloc.MarkReserved(c.ColorID)
		}
		for _, f := range c.Focuses {
			if f.ColorID != missingID {
				s.alloc.MarkReserved(f.ColorID)
			}
		}
	}
	for i := range cats {
		if cats[i].ColorID == missingID {
			cats[i].ColorID = s.alloc.Allocate()
		}
		for j := range cats[i].Focuses {
			if cats[i].Focuses[j].ColorID == missingID {
				cats[i].Focuses[j].ColorID = s.alloc.Allocate()
			}
		}
	}
	return cats
}

// Save rewrites the whole file through a temp file and rename.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistence("create data directory", err)
	}
	tmp, err := os.CreateTemp(dir, "categories_*.tmp")
	if err != nil {
		return persistence("save categories", err)
	}
	if err := s.encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return persistence("save categories", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return persistence("save categories", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return persistence("save categories", err)
	}
	return nil
}

func (s *Store) encode(f *os.File) error {
	if err := f.Chmod(0o644); err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, c := range s.categories {
		fmt.Fprintf(w, "%s%s;%d\n", categoryMarker, c.Name, c.ColorID)
		for _, fc := range c.Focuses {
			fmt.Fprintf(w, "%s;%d\n", fc.Name, fc.ColorID)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

func (s *Store) Path() string { return s.path }

// Len returns the number of categories.
func (s *Store) Len() int { return len(s.categories) }

// Categories returns a copy of the hierarchy in display order.
func (s *Store) Categories() []Category {
	out := make([]Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = c.clone()
	}
	return out
}

// Category returns a copy of the category at idx.
func (s *Store) Category(idx int) (Category, bool) {
	if idx < 0 || idx >= len(s.categories) {
		return Category{}, false
	}
	return s.categories[idx].clone(), true
}

// CategoryIndex returns the position of the category called name, or -1.
func (s *Store) CategoryIndex(name string) int {
	return indexOf(s.categories, name)
}

func indexOf(cats []Category, name string) int {
	for i, c := range cats {
		if c.Name == name {
			return i
		}
	}
	return -1
}
