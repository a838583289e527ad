package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// connPragmas apply to every pooled connection through the DSN.
var connPragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
}

type pragma struct {
	stmt string
	what string
}

// IsMemory reports whether path names an in-memory SQLite database.
func IsMemory(path string) bool {
	return path == memoryPath || strings.HasPrefix(path, "file::memory:")
}

func sqliteDSN(path string) string {
	if IsMemory(path) {
		return path
	}
	var q []string
	for _, p := range connPragmas {
		q = append(q, "_pragma="+p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(q, "&")
}

// OpenDB opens and migrates the SQLite database at path, creating its
// directory if needed. File databases run in WAL mode.
func OpenDB(path string) (*sql.DB, error) {
	memory := IsMemory(path)
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	setup := []pragma{{"PRAGMA foreign_keys = ON", "enabling foreign keys"}}
	if memory {
		// Each connection to an in-memory database sees its own copy.
		db.SetMaxOpenConns(1)
	} else {
		setup = append(setup, pragma{"PRAGMA journal_mode = WAL", "setting WAL mode"})
	}
	for _, s := range setup {
		if _, err := db.Exec(s.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", s.what, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
