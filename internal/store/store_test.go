package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/focuslog/internal/color"
)

type purgeCall struct {
	category, focus string
	all             bool
}

type fakePurger struct {
	calls []purgeCall
	err   error
}

func (p *fakePurger) RemoveCategory(c string) error {
	p.calls = append(p.calls, purgeCall{category: c})
	return p.err
}

func (p *fakePurger) RemoveFocus(c, f string) error {
	p.calls = append(p.calls, purgeCall{category: c, focus: f})
	return p.err
}

func (p *fakePurger) ResetAll() error {
	p.calls = append(p.calls, purgeCall{all: true})
	return p.err
}

func newTestStore(t *testing.T) (*Store, *fakePurger) {
	t.Helper()
	p := &fakePurger{}
	s, err := Load(filepath.Join(t.TempDir(), "categories_and_focuses.txt"), color.NewAllocator(), p)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return s, p
}

func mustCategory(t *testing.T, s *Store, name string) int {
	t.Helper()
	idx, err := s.CreateCategory(name)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return idx
}

func mustFocus(t *testing.T, s *Store, cat int, name string) int {
	t.Helper()
	idx, err := s.CreateFocus(cat, name)
	if err != nil {
		t.Fatalf("create focus %q: %v", name, err)
	}
	return idx
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories_and_focuses.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ============================================================
// Create
// ============================================================

func TestCreateCategoryAndFocus(t *testing.T) {
	s, _ := newTestStore(t)
	w := mustCategory(t, s, "Work")
	if w != 0 {
		t.Fatalf("index = %d", w)
	}
	if f := mustFocus(t, s, w, "Deep"); f != 0 {
		t.Fatalf("focus index = %d", f)
	}
	c, _ := s.Category(w)
	if c.ColorID == c.Focuses[0].ColorID {
		t.Fatal("category and focus share a colour id")
	}
	if !c.Tag().Custom() {
		t.Fatal("new category has no custom colour")
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Fatalf("create did not persist: %v", err)
	}
}

func TestCreateTrimsName(t *testing.T) {
	s, _ := newTestStore(t)
	mustCategory(t, s, "  Work \t")
	if c, _ := s.Category(0); c.Name != "Work" {
		t.Fatalf("name = %q", c.Name)
	}
}

func TestCreateDuplicateFails(t *testing.T) {
	s, _ := newTestStore(t)
	w := mustCategory(t, s, "Work")
	mustFocus(t, s, w, "Deep")

	_, err := s.CreateCategory("Work")
	var ve *ValidationError
	if !errors.As(err, &ve) || !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("err = %v, want ValidationError/ErrAlreadyExists", err)
	}
	if _, err := s.CreateFocus(w, "Deep"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("focus err = %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("store changed: %d categories", s.Len())
	}
	if c, _ := s.Category(w); len(c.Focuses) != 1 {
		t.Fatalf("focuses changed: %d", len(c.Focuses))
	}
}

func TestCreateIsCaseSensitive(t *testing.T) {
	s, _ := newTestStore(t)
	mustCategory(t, s, "Work")
	mustCategory(t, s, "work")
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestSameFocusNameInDifferentCategories(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustCategory(t, s, "A")
	b := mustCategory(t, s, "B")
	mustFocus(t, s, a, "Read")
	mustFocus(t, s, b, "Read")
}

func TestCreateValidation(t *testing.T) {
	s, _ := newTestStore(t)
	w := mustCategory(t, s, "Work")

	cases := []struct {
		name  string
		focus bool
		want  error
	}{
		{"", false, ErrEmptyName},
		{"   ", true, ErrEmptyName},
		{strings.Repeat("x", MaxNameLen+1), false, ErrNameTooLong},
		{"two\nlines", false, ErrInvalidName},
		{"#tag", true, ErrInvalidName},
	}
	for _, c := range cases {
		var err error
		if c.focus {
			_, err = s.CreateFocus(w, c.name)
		} else {
			_, err = s.CreateCategory(c.name)
		}
		if !errors.Is(err, c.want) {
			t.Errorf("create(%q, focus=%v) err = %v, want %v", c.name, c.focus, err, c.want)
		}
	}
	if _, err := s.CreateCategory("#hash"); err != nil {
		t.Fatalf("category names may start with #: %v", err)
	}
	if _, err := s.CreateCategory(strings.Repeat("ç", MaxNameLen)); err != nil {
		t.Fatalf("100 runes should be allowed: %v", err)
	}
}

func TestCreateCapacity(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 0; i < MaxCategories; i++ {
		mustCategory(t, s, "c"+string(rune('A'+i)))
	}
	if _, err := s.CreateCategory("overflow"); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v", err)
	}
	for i := 0; i < MaxFocuses; i++ {
		mustFocus(t, s, 0, "f"+string(rune('A'+i)))
	}
	if _, err := s.CreateFocus(0, "overflow"); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateFocusUnknownCategory(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.CreateFocus(3, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateKeepsChangeWhenSaveFails(t *testing.T) {
	s, _ := newTestStore(t)
	blocker := filepath.Join(t.TempDir(), "file")
	os.WriteFile(blocker, nil, 0o644)
	// parent of the store path is a regular file, so every save fails
	s.path = filepath.Join(blocker, "categories.txt")

	idx, err := s.CreateCategory("Work")
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PersistenceError", err)
	}
	if idx != 0 || s.Len() != 1 {
		t.Fatalf("in-memory change lost: idx=%d len=%d", idx, s.Len())
	}
}

// ============================================================
// Load / Save
// ============================================================

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	w := mustCategory(t, s, "Work")
	mustFocus(t, s, w, "Deep")
	mustFocus(t, s, w, "Mail; urgent")
	h := mustCategory(t, s, "Home;2")
	mustFocus(t, s, h, "Garden")
	mustCategory(t, s, "Empty")

	loaded, err := Load(s.Path(), color.NewAllocator(), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := s.Categories()
	got := loaded.Categories()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].ColorID != want[i].ColorID {
			t.Fatalf("category %d = %+v, want %+v", i, got[i], want[i])
		}
		if len(got[i].Focuses) != len(want[i].Focuses) {
			t.Fatalf("category %d focuses = %d, want %d", i, len(got[i].Focuses), len(want[i].Focuses))
		}
		for j := range want[i].Focuses {
			if got[i].Focuses[j] != want[i].Focuses[j] {
				t.Fatalf("focus %d/%d = %+v, want %+v", i, j, got[i].Focuses[j], want[i].Focuses[j])
			}
		}
		if got[i].Tag() != want[i].Tag() {
			t.Fatalf("colour tag changed for %q", want[i].Name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "none.txt"), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestLoadSkipsMalformed(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		"orphan;9",
		"#;7",
		"#Work;5",
		"Deep;6",
		";8",
		"Deep;12",
		"",
		"#Work;20",
		"ignored focus of duplicate;21",
		"#Study;10\r",
		"Math",
	}, "\n"))

	s, err := Load(path, color.NewAllocator(), nil)
	if err != nil {
		t.Fatal(err)
	}
	cats := s.Categories()
	if len(cats) != 2 || cats[0].Name != "Work" || cats[1].Name != "Study" {
		t.Fatalf("categories = %+v", cats)
	}
	if len(cats[0].Focuses) != 1 || cats[0].Focuses[0].Name != "Deep" || cats[0].Focuses[0].ColorID != 6 {
		t.Fatalf("Work focuses = %+v", cats[0].Focuses)
	}
	if cats[1].ColorID != 10 {
		t.Fatalf("Study id = %d", cats[1].ColorID)
	}
	// Math had no id; it is allocated past every id that was kept
	if got := cats[1].Focuses[0].ColorID; got != 11 {
		t.Fatalf("Math id = %d, want 11", got)
	}
}

func TestLoadAdvancesAllocator(t *testing.T) {
	path := writeFile(t, "#Work;40\nDeep;7\n")
	alloc := color.NewAllocator()
	s, err := Load(path, alloc, nil)
	if err != nil {
		t.Fatal(err)
	}
	idx := mustCategory(t, s, "New")
	c, _ := s.Category(idx)
	if c.ColorID != 41 {
		t.Fatalf("new id = %d, want 41", c.ColorID)
	}
}

func TestLoadKeepsDefaultIdentity(t *testing.T) {
	path := writeFile(t, "#Plain;0\n")
	s, _ := Load(path, color.NewAllocator(), nil)
	c, _ := s.Category(0)
	if c.ColorID != color.None || c.Tag().Custom() {
		t.Fatalf("category = %+v", c)
	}
}

func TestLoadTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("n", MaxNameLen+30)
	path := writeFile(t, "#"+long+";5\n")
	s, _ := Load(path, color.NewAllocator(), nil)
	c, _ := s.Category(0)
	if len([]rune(c.Name)) != MaxNameLen {
		t.Fatalf("name length = %d", len([]rune(c.Name)))
	}
}

func TestLoadCapacity(t *testing.T) {
	var b strings.Builder
	for i := 0; i < MaxCategories+5; i++ {
		b.WriteString("#c" + strings.Repeat("x", i) + ";5\n")
		b.WriteString("f;6\n")
	}
	s, _ := Load(writeFile(t, b.String()), color.NewAllocator(), nil)
	if s.Len() != MaxCategories {
		t.Fatalf("len = %d", s.Len())
	}
	last, _ := s.Category(MaxCategories - 1)
	if len(last.Focuses) != 1 {
		t.Fatalf("dropped categories leaked focuses: %+v", last.Focuses)
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	w := mustCategory(t, s, "Work")
	mustFocus(t, s, w, "Deep")
	cats := s.Categories()
	cats[0].Name = "Mutated"
	cats[0].Focuses[0].Name = "Mutated"
	c, _ := s.Category(w)
	if c.Name != "Work" || c.Focuses[0].Name != "Deep" {
		t.Fatal("caller mutated store state")
	}
}

// ============================================================
// Delete
// ============================================================

func TestDeleteCategoryShiftsAndPurges(t *testing.T) {
	s, p := newTestStore(t)
	mustCategory(t, s, "A")
	mustCategory(t, s, "B")
	mustCategory(t, s, "C")

	if err := s.DeleteCategory(1); err != nil {
		t.Fatal(err)
	}
	cats := s.Categories()
	if len(cats) != 2 || cats[0].Name != "A" || cats[1].Name != "C" {
		t.Fatalf("categories = %+v", cats)
	}
	if len(p.calls) != 1 || p.calls[0] != (purgeCall{category: "B"}) {
		t.Fatalf("purge calls = %+v", p.calls)
	}

	reloaded, _ := Load(s.Path(), color.NewAllocator(), nil)
	if reloaded.Len() != 2 {
		t.Fatalf("delete not persisted: %d", reloaded.Len())
	}
}

func TestDeleteFocusPurgesScoped(t *testing.T) {
	s, p := newTestStore(t)
	w := mustCategory(t, s, "Work")
	mustFocus(t, s, w, "Deep")
	mustFocus(t, s, w, "Mail")

	if err := s.DeleteFocus(w, 0); err != nil {
		t.Fatal(err)
	}
	c, _ := s.Category(w)
	if len(c.Focuses) != 1 || c.Focuses[0].Name != "Mail" {
		t.Fatalf("focuses = %+v", c.Focuses)
	}
	if p.calls[0] != (purgeCall{category: "Work", focus: "Deep"}) {
		t.Fatalf("purge call = %+v", p.calls[0])
	}
}

func TestDeleteAbortsWhenPurgeFails(t *testing.T) {
	s, p := newTestStore(t)
	w := mustCategory(t, s, "Work")
	mustFocus(t, s, w, "Deep")
	p.err = errors.New("disk full")

	var pe *PersistenceError
	if err := s.DeleteCategory(w); !errors.As(err, &pe) {
		t.Fatalf("err = %v", err)
	}
	if err := s.DeleteFocus(w, 0); !errors.As(err, &pe) {
		t.Fatalf("err = %v", err)
	}
	if c, ok := s.Category(w); !ok || len(c.Focuses) != 1 {
		t.Fatal("store changed after failed purge")
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.DeleteCategory(0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	mustCategory(t, s, "Work")
	if err := s.DeleteFocus(0, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteAll(t *testing.T) {
	alloc := color.NewAllocator()
	p := &fakePurger{}
	s, _ := Load(filepath.Join(t.TempDir(), "c.txt"), alloc, p)
	w := mustCategory(t, s, "Work")
	mustFocus(t, s, w, "Deep")

	if err := s.DeleteAll(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Fatalf("len = %d", s.Len())
	}
	if !p.calls[0].all {
		t.Fatalf("log not reset: %+v", p.calls)
	}
	if _, err := os.Stat(s.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("categories file still present: %v", err)
	}
	idx := mustCategory(t, s, "Fresh")
	if c, _ := s.Category(idx); c.ColorID != 5 {
		t.Fatalf("allocator not reset: %d", c.ColorID)
	}
}
