// Package store persists one JSON document per project under a root
// directory. The contract is whole-record: Load returns the full
// project or ErrNotFound, Save replaces the document entirely. There
// is no locking; concurrent writers against the same project name race
// and the last save wins. Callers that need concurrent access must
// serialize externally.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"teamtasks/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Store reads and writes project records under Root. The root is an
// explicit constructor parameter; the store never consults the
// process environment.
type Store struct {
	Root string
}

func New(root string) Store {
	return Store{Root: root}
}

func (s Store) path(name string) string {
	return filepath.Join(s.Root, name+".json")
}

// Exists reports whether a record for name is present.
func (s Store) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// Load reads the full project record for name.
func (s Store) Load(name string) (domain.Project, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Project{}, fmt.Errorf("project %q: %w", name, ErrNotFound)
		}
		return domain.Project{}, err
	}
	var p domain.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Project{}, fmt.Errorf("decode project %q: %w", name, err)
	}
	return p, nil
}

// Save replaces the record for name with p, creating the root
// directory on first use.
func (s Store) Save(name string, p domain.Project) error {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project %q: %w", name, err)
	}
	return os.WriteFile(s.path(name), append(data, '\n'), 0o644)
}

// List returns all known project names in lexicographic order. A
// missing root directory is an empty store, not an error.
func (s Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
