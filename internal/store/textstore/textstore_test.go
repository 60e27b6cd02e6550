package textstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/QUAKTECH/sftm/internal/model"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "todofiles"), nil)
}

func seed(t *testing.T, s *Store, name string, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if err := s.Add(name, model.Entry{Line: l}); err != nil {
			t.Fatalf("Add(%q) error = %v", l, err)
		}
	}
}

func lines(t *testing.T, s *Store, name string) []string {
	t.Helper()
	entries, err := s.Load(name)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", name, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Line)
	}
	return out
}

func readRaw(t *testing.T, s *Store, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(s.Dir(), name))
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestAddCreatesFileAndKeepsOrder(t *testing.T) {
	s := newStore(t)
	want := []string{"a - 1", "b - 2", "c - 3"}
	seed(t, s, "work", want...)

	if got := lines(t, s, "work"); !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %q, want %q", got, want)
	}
	if raw := readRaw(t, s, "work"); raw != "a - 1\nb - 2\nc - 3\n" {
		t.Errorf("file content = %q", raw)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := newStore(t)
	_, err := s.Load("nope")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestCheck(t *testing.T) {
	s := newStore(t)
	seed(t, s, "work", "a - 1", "b - 2")

	got, err := s.Check("work", 2)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if got.Line != "✅ b - 2" {
		t.Errorf("Check() entry = %q", got.Line)
	}
	if want := []string{"a - 1", "✅ b - 2"}; !reflect.DeepEqual(lines(t, s, "work"), want) {
		t.Errorf("after Check() = %q, want %q", lines(t, s, "work"), want)
	}

	_, err = s.Check("work", 2)
	if !errors.Is(err, ErrAlreadyChecked) {
		t.Fatalf("second Check() error = %v, want ErrAlreadyChecked", err)
	}
	if raw := readRaw(t, s, "work"); raw != "a - 1\n✅ b - 2\n" {
		t.Errorf("marker duplicated: %q", raw)
	}
}

func TestCheckInvalidLine(t *testing.T) {
	for _, n := range []int{0, -1, 3} {
		s := newStore(t)
		seed(t, s, "work", "a - 1", "b - 2")
		before := readRaw(t, s, "work")

		_, err := s.Check("work", n)
		if !errors.Is(err, ErrInvalidLine) {
			t.Errorf("Check(%d) error = %v, want ErrInvalidLine", n, err)
		}
		if after := readRaw(t, s, "work"); after != before {
			t.Errorf("Check(%d) changed file: %q -> %q", n, before, after)
		}
	}
}

func TestRemoveShiftsLines(t *testing.T) {
	s := newStore(t)
	seed(t, s, "work", "a - 1", "b - 2", "c - 3")

	removed, err := s.Remove("work", 2)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed.Line != "b - 2" {
		t.Errorf("removed = %q", removed.Line)
	}
	got := lines(t, s, "work")
	if want := []string{"a - 1", "c - 3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after Remove() = %q, want %q", got, want)
	}
	// what was line 3 is now line 2
	if _, err := s.Check("work", 2); err != nil {
		t.Fatalf("Check(2) error = %v", err)
	}
	if got := lines(t, s, "work")[1]; got != "✅ c - 3" {
		t.Errorf("line 2 = %q", got)
	}
}

func TestRemoveInvalidLine(t *testing.T) {
	s := newStore(t)
	seed(t, s, "work", "a - 1")
	if _, err := s.Remove("work", 2); !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("Remove(2) error = %v, want ErrInvalidLine", err)
	}
	if got := lines(t, s, "work"); len(got) != 1 {
		t.Errorf("file changed: %q", got)
	}
}

func TestRemoveFile(t *testing.T) {
	s := newStore(t)
	seed(t, s, "work", "a - 1")

	if err := s.RemoveFile("work"); err != nil {
		t.Fatalf("RemoveFile() error = %v", err)
	}
	if _, err := s.Load("work"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() after RemoveFile error = %v, want fs.ErrNotExist", err)
	}
	if err := s.RemoveFile("work"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("second RemoveFile() error = %v, want fs.ErrNotExist", err)
	}
}

func TestList(t *testing.T) {
	s := newStore(t)

	names, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() on empty dir = %q", names)
	}

	seed(t, s, "work", "a - 1")
	seed(t, s, "home", "b - 2")
	if err := os.WriteFile(filepath.Join(s.Dir(), "stray.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	names, err = s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if want := []string{"home", "stray.txt", "work"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %q, want %q", names, want)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newStore(t)
	seed(t, s, "work", "a - 1", "b - 2")
	if _, err := s.Check("work", 1); err != nil {
		t.Fatal(err)
	}
	names, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"work"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %q, want %q", names, want)
	}
}

func TestRewritePreservesUntouchedLines(t *testing.T) {
	s := newStore(t)
	raw := "✅no space - x\nfree text\n\nlast - y\n"
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "work"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Check("work", 4); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if got, want := readRaw(t, s, "work"), "✅no space - x\nfree text\n\n✅ last - y\n"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestInvalidNames(t *testing.T) {
	s := newStore(t)
	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		if err := s.Add(name, model.New("t", "d")); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Add(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestLongLines(t *testing.T) {
	s := newStore(t)
	long := strings.Repeat("x", 2<<20)
	seed(t, s, "big", "short - 1")
	if err := s.Add("big", model.New("t", long)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got := lines(t, s, "big")
	if len(got) != 2 || got[1] != "t - "+long {
		t.Fatalf("Load() returned %d lines, long line intact = %v", len(got), len(got) == 2 && got[1] == "t - "+long)
	}
	if _, err := s.Check("big", 2); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if got := lines(t, s, "big")[1]; got != "✅ t - "+long {
		t.Errorf("checked long line has length %d", len(got))
	}
	if _, err := s.Remove("big", 2); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := lines(t, s, "big"); !reflect.DeepEqual(got, []string{"short - 1"}) {
		t.Errorf("after Remove() = %q", got)
	}
}

func TestRewriteKeepsLineEndings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "crlf", raw: "a - 1\r\nb - 2\r\n", want: "a - 1\r\n✅ b - 2\r\n"},
		{name: "mixed", raw: "a - 1\r\nb - 2\n", want: "a - 1\r\n✅ b - 2\n"},
		{name: "no final newline", raw: "a - 1\nb - 2", want: "a - 1\n✅ b - 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(s.Dir(), "work"), []byte(tt.raw), 0o644); err != nil {
				t.Fatal(err)
			}
			if got := lines(t, s, "work"); !reflect.DeepEqual(got, []string{"a - 1", "b - 2"}) {
				t.Fatalf("Load() = %q", got)
			}
			if _, err := s.Check("work", 2); err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if got := readRaw(t, s, "work"); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSaveKeepsFileMode(t *testing.T) {
	s := newStore(t)
	seed(t, s, "private", "a - 1")
	p := filepath.Join(s.Dir(), "private")
	if err := os.Chmod(p, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Check("private", 1); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	fi, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if got := fi.Mode().Perm(); got != 0o600 {
		t.Errorf("mode = %o, want 600", got)
	}
}
