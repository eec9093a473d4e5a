// Package schema applies declarative schema definitions, kept as SQL
// files, to a database session.
package schema

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadError reports a schema file whose statements failed to execute.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load schema from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadFromFolder executes every .sql file under dir against db. Files
// run in lexicographic path order so later files can depend on objects
// defined in earlier ones.
func LoadFromFolder(ctx context.Context, db *sql.DB, dir string) error {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".sql") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return &LoadError{Path: dir, Err: err}
	}

	sort.Strings(paths)

	for _, path := range paths {
		if err := LoadFromFile(ctx, db, path); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromFile executes the whole file as a single statement batch in
// autocommit mode. Whitespace-only files are a no-op.
func LoadFromFile(ctx context.Context, db *sql.DB, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	stmts := string(bytes.TrimSpace(contents))
	if stmts == "" {
		return nil
	}

	if _, err := db.ExecContext(ctx, stmts); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return nil
}
