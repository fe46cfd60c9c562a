package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

func validateName(name string, focus bool) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", invalid(ErrEmptyName, "")
	case utf8.RuneCountInString(name) > MaxNameLen:
		return "", invalid(ErrNameTooLong, truncate(name, 20)+"...")
	case strings.ContainsAny(name, "\r\n"):
		return "", invalid(ErrInvalidName, name)
	case focus && strings.HasPrefix(name, categoryMarker):
		return "", invalid(ErrInvalidName, name)
	}
	return name, nil
}

// CreateCategory appends a category and saves. A save failure is returned
// as a *PersistenceError alongside the valid new index.
func (s *Store) CreateCategory(name string) (int, error) {
	name, err := validateName(name, false)
	if err != nil {
		return -1, err
	}
	if s.CategoryIndex(name) >= 0 {
		return -1, invalid(ErrAlreadyExists, name)
	}
	if len(s.categories) >= MaxCategories {
		return -1, fmt.Errorf("create category: %w (limit %d)", ErrCapacityExceeded, MaxCategories)
	}

	s.categories = append(s.categories, Category{Name: name, ColorID: s.alloc.Allocate()})
	idx := len(s.categories) - 1
	slog.Debug("category created", "name", name, "index", idx)
	return idx, s.Save()
}

// CreateFocus appends a focus to the category at catIdx and saves.
func (s *Store) CreateFocus(catIdx int, name string) (int, error) {
	if catIdx < 0 || catIdx >= len(s.categories) {
		return -1, fmt.Errorf("create focus: category %d: %w", catIdx, ErrNotFound)
	}
	name, err := validateName(name, true)
	if err != nil {
		return -1, err
	}
	c := &s.categories[catIdx]
	if c.FocusIndex(name) >= 0 {
		return -1, invalid(ErrAlreadyExists, name)
	}
	if len(c.Focuses) >= MaxFocuses {
		return -1, fmt.Errorf("create focus: %w (limit %d)", ErrCapacityExceeded, MaxFocuses)
	}

	c.Focuses = append(c.Focuses, Focus{Name: name, ColorID: s.alloc.Allocate()})
	idx := len(c.Focuses) - 1
	slog.Debug("focus created", "category", c.Name, "name", name, "index", idx)
	return idx, s.Save()
}

// DeleteCategory purges the category's log records, removes it and saves.
// If the purge fails nothing is removed.
func (s *Store) DeleteCategory(idx int) error {
	if idx < 0 || idx >= len(s.categories) {
		return fmt.Errorf("delete category: %d: %w", idx, ErrNotFound)
	}
	name := s.categories[idx].Name
	if s.purger != nil {
		if err := s.purger.RemoveCategory(name); err != nil {
			return persistence("purge work log", err)
		}
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	slog.Debug("category deleted", "name", name)
	return s.Save()
}

// DeleteFocus purges the focus's log records, removes it and saves.
func (s *Store) DeleteFocus(catIdx, idx int) error {
	if catIdx < 0 || catIdx >= len(s.categories) {
		return fmt.Errorf("delete focus: category %d: %w", catIdx, ErrNotFound)
	}
	c := &s.categories[catIdx]
	if idx < 0 || idx >= len(c.Focuses) {
		return fmt.Errorf("delete focus: %d: %w", idx, ErrNotFound)
	}
	name := c.Focuses[idx].Name
	if s.purger != nil {
		if err := s.purger.RemoveFocus(c.Name, name); err != nil {
			return persistence("purge work log", err)
		}
	}
	c.Focuses = append(c.Focuses[:idx], c.Focuses[idx+1:]...)
	slog.Debug("focus deleted", "category", c.Name, "name", name)
	return s.Save()
}

// DeleteAll resets the work log, forgets every category and removes the
// categories file. The colour counter starts over.
func (s *Store) DeleteAll() error {
	if s.purger != nil {
		if err := s.purger.ResetAll(); err != nil {
			return persistence("reset work log", err)
		}
	}
	s.categories = nil
	s.alloc.Reset()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return persistence("remove categories", err)
	}
	slog.Debug("all categories deleted")
	return nil
}
