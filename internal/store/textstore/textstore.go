package textstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/QUAKTECH/sftm/internal/model"
)

// Plain-text storage. One file per todo list, one line per entry.
// No locking; concurrent invocations on the same file race and the last writer wins.

var (
	ErrInvalidLine    = errors.New("invalid line number")
	ErrAlreadyChecked = errors.New("todo is already checked off")
	ErrInvalidName    = errors.New("invalid todo file name")
)

// Store reads and rewrites todo files under a single directory.
type Store struct {
	dir string
	log *log.Logger
}

// New returns a store rooted at dir. The directory is created on first use.
// A nil logger discards diagnostics.
func New(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{dir: dir, log: logger}
}

// Dir returns the todo directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the backing file for name, creating the todo directory if needed.
func (s *Store) Path(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	if err := s.ensureDir(); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// Load returns every entry of the file in order.
func (s *Store) Load(name string) ([]model.Entry, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	entries, err := readEntries(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	s.log.Debug("loaded todo file", "path", p, "lines", len(entries))
	return entries, nil
}

// Add appends e to the file, creating it when absent.
func (s *Store) Add(name string, e model.Entry) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	if _, err := f.WriteString(e.Line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	s.log.Debug("appended entry", "path", p)
	return nil
}

// Check marks the 1-based line n as done and returns the updated entry.
// An already-checked line yields ErrAlreadyChecked and the file is left alone.
func (s *Store) Check(name string, n int) (model.Entry, error) {
	entries, err := s.Load(name)
	if err != nil {
		return model.Entry{}, err
	}
	if err := inRange(n, len(entries)); err != nil {
		return model.Entry{}, err
	}
	idx := n - 1
	if entries[idx].Done() {
		return entries[idx], ErrAlreadyChecked
	}
	entries[idx] = entries[idx].Checked()
	if err := s.Save(name, entries); err != nil {
		return model.Entry{}, err
	}
	return entries[idx], nil
}

// Remove deletes the 1-based line n and returns it. Later lines shift up by one.
func (s *Store) Remove(name string, n int) (model.Entry, error) {
	entries, err := s.Load(name)
	if err != nil {
		return model.Entry{}, err
	}
	if err := inRange(n, len(entries)); err != nil {
		return model.Entry{}, err
	}
	idx := n - 1
	removed := entries[idx]
	entries = append(entries[:idx], entries[idx+1:]...)
	if err := s.Save(name, entries); err != nil {
		return model.Entry{}, err
	}
	return removed, nil
}

// RemoveFile deletes the whole todo file.
func (s *Store) RemoveFile(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	s.log.Debug("removed todo file", "path", p)
	return nil
}

// List returns the names present in the todo directory, sorted.
func (s *Store) List() ([]string, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	des, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	names := make([]string, 0, len(des))
	for _, de := range des {
		names = append(names, de.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Save rewrites the file with entries. The new content goes to a temp file
// that is renamed over the old one, so a crash leaves either version intact.
func (s *Store) Save(name string, entries []model.Entry) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Line)
		b.WriteString(e.Terminator())
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(p); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", name, err)
	}
	s.log.Debug("rewrote todo file", "path", p, "lines", len(entries))
	return nil
}

// readEntries splits r into lines of any length, keeping each line's terminator.
func readEntries(r *bufio.Reader) ([]model.Entry, error) {
	var entries []model.Entry
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			e := model.Entry{Line: line}
			switch {
			case strings.HasSuffix(line, "\r\n"):
				e.Line, e.EOL = strings.TrimSuffix(line, "\r\n"), "\r\n"
			case strings.HasSuffix(line, "\n"):
				e.Line = strings.TrimSuffix(line, "\n")
			}
			entries = append(entries, e)
		}
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create todo dir: %w", err)
	}
	return nil
}

func inRange(n, count int) error {
	if n < 1 || n > count {
		return fmt.Errorf("%w: %d (have %d)", ErrInvalidLine, n, count)
	}
	return nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
