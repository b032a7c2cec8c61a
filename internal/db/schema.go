package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// SchemaDir is the directory inside the schema FS holding the .sql files.
const SchemaDir = "schema"

// EnsureSchema executes every .sql file found under SchemaDir in lexical
// order. The files must be idempotent (CREATE ... IF NOT EXISTS) since they
// run on every start; there is no applied-version bookkeeping.
func EnsureSchema(ctx context.Context, d *DB, schemaFS fs.FS) error {
	entries, err := fs.ReadDir(schemaFS, SchemaDir)
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		b, err := fs.ReadFile(schemaFS, path.Join(SchemaDir, fname))
		if err != nil {
			return fmt.Errorf("read schema %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec schema %s: %w", fname, err)
		}
	}

	return nil
}
