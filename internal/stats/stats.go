// Package stats aggregates the work log into per-focus totals.
//
// The log is the source of truth for what was worked on. Groups whose
// category or focus no longer exists in the store are kept.
package stats

import (
	"fmt"
	"sort"

	"github.com/sadopc/focuslog/internal/worklog"
)

// FocusStat is the aggregate for one (category, focus) pair.
type FocusStat struct {
	Category string
	Focus    string
	Total    int64
	Sessions int
}

// CategoryStat groups the focus stats of one logged category name.
type CategoryStat struct {
	Name    string
	Focuses []FocusStat
}

// Total sums the durations of every focus in the category.
func (c CategoryStat) Total() int64 {
	var sum int64
	for _, f := range c.Focuses {
		sum += f.Total
	}
	return sum
}

// Reader is the read side of the work log.
type Reader interface {
	Entries() ([]worklog.Entry, error)
}

type key struct{ category, focus string }

// Stats is an immutable snapshot built from a set of entries.
type Stats struct {
	groups []FocusStat
	index  map[key]int
}

// Build groups entries by exact (category, focus), in first-encountered order.
func Build(entries []worklog.Entry) *Stats {
	s := &Stats{index: make(map[key]int)}
	for _, e := range entries {
		k := key{e.Category, e.Focus}
		i, ok := s.index[k]
		if !ok {
			i = len(s.groups)
			s.index[k] = i
			s.groups = append(s.groups, FocusStat{Category: e.Category, Focus: e.Focus})
		}
		s.groups[i].Total += e.Duration
		s.groups[i].Sessions++
	}
	return s
}

// FromLog reads r and builds a snapshot.
func FromLog(r Reader) (*Stats, error) {
	entries, err := r.Entries()
	if err != nil {
		return nil, fmt.Errorf("build stats: %w", err)
	}
	return Build(entries), nil
}

// Groups returns a copy of every focus group in first-encountered order.
func (s *Stats) Groups() []FocusStat {
	out := make([]FocusStat, len(s.groups))
	copy(out, s.groups)
	return out
}

// Lookup returns the aggregate for (category, focus).
func (s *Stats) Lookup(category, focus string) (FocusStat, bool) {
	i, ok := s.index[key{category, focus}]
	if !ok {
		return FocusStat{}, false
	}
	return s.groups[i], true
}

// Category collects every focus group logged under name.
func (s *Stats) Category(name string) CategoryStat {
	c := CategoryStat{Name: name}
	for _, g := range s.groups {
		if g.Category == name {
			c.Focuses = append(c.Focuses, g)
		}
	}
	return c
}

// Categories returns one CategoryStat per logged category name, in
// first-encountered order.
func (s *Stats) Categories() []CategoryStat {
	var out []CategoryStat
	pos := make(map[string]int)
	for _, g := range s.groups {
		i, ok := pos[g.Category]
		if !ok {
			i = len(out)
			pos[g.Category] = i
			out = append(out, CategoryStat{Name: g.Category})
		}
		out[i].Focuses = append(out[i].Focuses, g)
	}
	return out
}

// Total is the sum of every logged duration.
func (s *Stats) Total() int64 {
	var sum int64
	for _, g := range s.groups {
		sum += g.Total
	}
	return sum
}

// TopN returns up to n groups by descending total. Ties keep
// first-encountered order.
func (s *Stats) TopN(n int) []FocusStat {
	out := s.Groups()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if n < len(out) {
		if n < 0 {
			n = 0
		}
		out = out[:n]
	}
	return out
}

// Empty reports whether nothing has been logged.
func (s *Stats) Empty() bool {
	return len(s.groups) == 0
}
