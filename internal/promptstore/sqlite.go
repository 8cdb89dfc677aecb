package promptstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"promptkit/internal/services"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLite stores templates in a SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// OpenSQLite opens or creates the template library at path and applies
// migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure prompt db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLite{db: db, path: path, lock: flock.New(path + ".lock")}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *SQLite) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the stored body for name.
func (s *SQLite) Load(ctx context.Context, name string) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM templates WHERE name = ?`, NormalizeName(name)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", services.Wrap(services.ErrNotFound, "promptstore", "load", fmt.Sprintf("template %q", name), nil)
	}
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}
	return body, nil
}

// Put inserts or replaces a template.
func (s *SQLite) Put(ctx context.Context, name, body, sourcePath string) error {
	key := NormalizeName(name)
	if key == "" {
		return errors.New("template name is empty")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO templates (name, body, source_path, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET body = excluded.body, source_path = excluded.source_path, updated_at = excluded.updated_at`,
		key,
		body,
		nullableString(sourcePath),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put template %q: %w", key, err)
	}
	return nil
}

// List returns every stored template ordered by name.
func (s *SQLite) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, length(body), COALESCE(source_path, '') FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Bytes, &e.Source); err != nil {
			return nil, fmt.Errorf("scan template row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Import copies every template from a directory store into the library. The
// library lock file is held for the whole import; a concurrent import fails
// fast instead of waiting.
func (s *SQLite) Import(ctx context.Context, src *Dir) (int, error) {
	ok, err := s.lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("another import into %s is in progress", s.path)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()

	entries, err := src.List(ctx)
	if err != nil {
		return 0, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	imported := 0
	for _, entry := range entries {
		body, err := src.Load(ctx, entry.Name)
		if err != nil {
			return imported, err
		}
		if err := s.Put(ctx, entry.Name, body, entry.Source); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (s *SQLite) applyMigrations(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("record migration %s: %w", version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
