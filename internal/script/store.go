package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrNotFound indicates a missing named script.
var ErrNotFound = errors.New("script not found")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// Store loads named scripts from a directory of .yaml files.
type Store struct {
	dir      string
	maxSteps int
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, maxSteps int) *Store {
	return &Store{dir: dir, maxSteps: maxSteps}
}

// LoadFile reads and compiles the script at path.
func LoadFile(path string, maxSteps int) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	s, err := Parse(data, maxSteps)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Load reads the script called name. Names never resolve outside the store.
func (s *Store) Load(name string) (Script, error) {
	if !namePattern.MatchString(name) {
		return Script{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path, s.maxSteps)
	}
	return Script{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// List returns the sorted names of scripts in the store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if namePattern.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
