package settings

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestOpenMemoryMigrates(t *testing.T) {
	s := newTestStore(t)
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestOpenWithPathReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "focuslog.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyIdleTimeout, "9"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, err := s2.Get(KeyIdleTimeout)
	if err != nil {
		t.Fatal(err)
	}
	if v != "9" {
		t.Fatalf("migration overwrote value: %q", v)
	}
}

// ============================================================
// Key/value access
// ============================================================

func TestDefaultsSeeded(t *testing.T) {
	s := newTestStore(t)
	all, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 settings, got %d", len(all))
	}
	if all[0].Key != KeyDefaultDuration || all[0].Value != "1500" {
		t.Fatalf("unexpected first setting: %+v", all[0])
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("nope"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestSetUpserts(t *testing.T) {
	s := newTestStore(t)
	s.Set("theme", "dark")
	s.Set("theme", "light")
	v, _ := s.Get("theme")
	if v != "light" {
		t.Fatalf("got %q", v)
	}
}

// ============================================================
// Preferences
// ============================================================

func TestPreferencesDefaults(t *testing.T) {
	s := newTestStore(t)
	p, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if p != Defaults() {
		t.Fatalf("got %+v, want %+v", p, Defaults())
	}
}

func TestSavePreferencesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := Preferences{IdleTimeout: 30 * time.Second, DefaultDuration: 50 * time.Minute}
	if err := s.SavePreferences(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSavePreferencesRejectsZero(t *testing.T) {
	s := newTestStore(t)
	if err := s.SavePreferences(Preferences{IdleTimeout: 0, DefaultDuration: time.Minute}); err == nil {
		t.Fatal("expected error for zero idle timeout")
	}
	if err := s.SavePreferences(Preferences{IdleTimeout: time.Second, DefaultDuration: 0}); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestPreferencesIgnoreGarbage(t *testing.T) {
	s := newTestStore(t)
	s.Set(KeyIdleTimeout, "soon")
	s.Set(KeyDefaultDuration, "-4")
	p, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if p != Defaults() {
		t.Fatalf("got %+v", p)
	}
}
