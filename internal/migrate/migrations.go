// Package migrate versions the journal database schema. Steps are
// embedded SQL files named NNNN_label.sql and applied in ascending
// order; the applied version is kept in SQLite's user_version pragma,
// so a fresh journal.db starts at zero.
package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var stepFS embed.FS

type step struct {
	version int
	name    string
	ddl     string
}

func loadSteps() ([]step, error) {
	files, err := fs.ReadDir(stepFS, "sql")
	if err != nil {
		return nil, err
	}
	steps := make([]step, 0, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		prefix, _, ok := strings.Cut(f.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("journal schema step %q: want NNNN_label.sql", f.Name())
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("journal schema step %q: %w", f.Name(), err)
		}
		ddl, err := stepFS.ReadFile("sql/" + f.Name())
		if err != nil {
			return nil, err
		}
		steps = append(steps, step{version: v, name: f.Name(), ddl: string(ddl)})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].version < steps[j].version })
	return steps, nil
}

// Migrate brings the journal schema up to date. Each pending step runs
// in its own transaction together with its version bump, so a failed
// step leaves the journal at the last completed version.
func Migrate(db *sql.DB) error {
	steps, err := loadSteps()
	if err != nil {
		return err
	}
	var current int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("read journal schema version: %w", err)
	}
	for _, s := range steps {
		if s.version <= current {
			continue
		}
		if err := apply(db, s); err != nil {
			return err
		}
		current = s.version
	}
	return nil
}

func apply(db *sql.DB, s step) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(s.ddl); err != nil {
		return fmt.Errorf("journal schema step %s: %w", s.name, err)
	}
	// PRAGMA does not take placeholders; the version comes from the
	// parsed filename, not user input.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", s.version)); err != nil {
		return fmt.Errorf("bump journal schema version: %w", err)
	}
	return tx.Commit()
}
