package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/studymatch/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the user_version the migrations below produce.
const CurrentSchemaVersion = 1

// migrations[i] upgrades the schema from version i to i+1.
var migrations = []string{
	// v0 -> v1: students and their resources. Resources cascade with the
	// student row, which is why foreign_keys must be on.
	`
	CREATE TABLE IF NOT EXISTS students (
	  eid               TEXT PRIMARY KEY,
	  name              TEXT NOT NULL,
	  courses_json      TEXT,
	  confidence        INTEGER NOT NULL,
	  availability_json TEXT,
	  email             TEXT NOT NULL DEFAULT '',
	  topics_json       TEXT,
	  study_style       TEXT NOT NULL DEFAULT 'none',
	  work_hours        INTEGER NOT NULL,
	  created_at        INTEGER NOT NULL,
	  updated_at        INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS resources (
	  id         TEXT PRIMARY KEY,
	  eid        TEXT NOT NULL REFERENCES students(eid) ON DELETE CASCADE,
	  text       TEXT NOT NULL,
	  created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_resources_eid_created
	ON resources(eid, created_at);
	`,
}

// Init opens (creating if needed) the SQLite database at
// baseDir/studymatch.db and brings the schema up to date. Tests pass a
// t.TempDir() as baseDir; the binary passes ~/.studymatch.
func Init(baseDir string) (*sql.DB, error) {
	if err := makePrivateDir(baseDir); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	if err := makePrivateDir(filepath.Join(baseDir, "exports")); err != nil {
		return nil, fmt.Errorf("failed to create exports directory: %w", err)
	}

	// Pragmas ride on the DSN so every pooled connection gets them.
	dbPath := filepath.Join(baseDir, "studymatch.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var journalMode string
	if err := database.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		database.Close()
		return nil, fmt.Errorf("expected WAL mode, got %s", journalMode)
	}

	if err := migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	// The file exists after the first statement ran; tighten it up.
	_ = os.Chmod(dbPath, 0600)

	return database, nil
}

// ConfigurePool applies optional connection pool limits from config.
// DBMaxOpenConns=1 serializes all access, which avoids "database is locked"
// under contention.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

func makePrivateDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	// MkdirAll leaves existing directories alone; chmod is best-effort.
	_ = os.Chmod(dir, 0700)
	return nil
}

// migrate walks the schema from the stored user_version to the current one.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	for v := version; v < len(migrations); v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		if err := SetUserVersion(db, v+1); err != nil {
			return err
		}
	}

	return nil
}

// GetUserVersion reads the user_version pragma, the stored schema version.
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion writes the user_version pragma.
func SetUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
