package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"timetracker/internal/timelog"
)

type dialect struct {
	driver string
	schema string
	insert string
}

var (
	sqliteDialect = dialect{
		driver: "sqlite",
		schema: `
	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_type TEXT NOT NULL,
		stime INTEGER NOT NULL,
		task TEXT,
		note TEXT
	)
	`,
		insert: "INSERT INTO entries (entry_type, stime, task, note) VALUES (?, ?, ?, ?)",
	}

	postgresDialect = dialect{
		driver: "postgres",
		schema: `
	CREATE TABLE IF NOT EXISTS entries (
		seq BIGSERIAL PRIMARY KEY,
		entry_type TEXT NOT NULL,
		stime BIGINT NOT NULL,
		task TEXT,
		note TEXT
	)
	`,
		insert: "INSERT INTO entries (entry_type, stime, task, note) VALUES ($1, $2, $3, $4)",
	}
)

// SQLStore keeps the log in an entries table; the autoincrement seq column
// records append order.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLiteStore opens (creating if needed) a SQLite database file.
func NewSQLiteStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, ioErr("create log directory", err)
		}
	}
	return openSQL(sqliteDialect, path)
}

// NewPostgresStore connects to a PostgreSQL database given as a connection URL.
func NewPostgresStore(url string) (*SQLStore, error) {
	s, err := openSQL(postgresDialect, url)
	if err != nil {
		return nil, err
	}
	s.db.SetMaxOpenConns(2)
	s.db.SetConnMaxLifetime(5 * time.Minute)
	return s, nil
}

func openSQL(d dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, ioErr("open "+d.driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, ioErr("connect to "+d.driver, err)
	}

	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return ioErr("create entries table", err)
	}
	return nil
}

func (s *SQLStore) Append(ctx context.Context, e timelog.Entry) error {
	_, err := s.db.ExecContext(ctx, s.dialect.insert,
		e.Type.String(),
		e.STime,
		nullable(e.Task),
		nullable(e.Note),
	)
	if err != nil {
		return ioErr("insert entry", err)
	}
	return nil
}

func (s *SQLStore) Entries(ctx context.Context) ([]timelog.Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT entry_type, stime, task, note FROM entries ORDER BY seq")
	if err != nil {
		return nil, ioErr("query entries", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	var entries []timelog.Entry
	for rows.Next() {
		var (
			typ        string
			e          timelog.Entry
			task, note sql.NullString
		)
		if err := rows.Scan(&typ, &e.STime, &task, &note); err != nil {
			return nil, ioErr("scan entry", err)
		}

		e.Type, err = timelog.ParseEntryType(typ)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", len(entries)+1, err)
		}
		if task.Valid {
			e.Task = optional(task.String)
		}
		if note.Valid {
			e.Note = optional(note.String)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, ioErr("iterate entries", err)
	}
	return entries, nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return ioErr("delete entries", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
