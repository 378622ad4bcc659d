package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Dialect selects the SQL flavour of a SQLCache.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

const translationsTable = "translations"

var entryColumns = []string{
	"cache_key",
	"source_lang",
	"target_lang",
	"original_text",
	"translated_text",
	"model_used",
	"created_at",
	"updated_at",
}

// Existing non-empty text wins; metadata refreshes.
const upsertSuffix = `ON CONFLICT(cache_key) DO UPDATE SET
	source_lang = COALESCE(NULLIF(translations.source_lang, ''), excluded.source_lang),
	target_lang = COALESCE(NULLIF(translations.target_lang, ''), excluded.target_lang),
	original_text = COALESCE(NULLIF(translations.original_text, ''), excluded.original_text),
	translated_text = COALESCE(NULLIF(translations.translated_text, ''), excluded.translated_text),
	model_used = COALESCE(NULLIF(translations.model_used, ''), excluded.model_used),
	updated_at = excluded.updated_at`

// SQLCache stores entries in a relational table. It works against postgres and sqlite.
type SQLCache struct {
	db  *sql.DB
	sq  sq.StatementBuilderType
	now func() time.Time
}

// NewSQLCache wraps an open database. The table is not created; call Migrate for that.
func NewSQLCache(db *sql.DB, dialect Dialect) *SQLCache {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if dialect == DialectPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &SQLCache{
		db:  db,
		sq:  builder,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// OpenSQLCache opens the database, verifies the connection and creates the table.
func OpenSQLCache(ctx context.Context, dialect Dialect, dsn string) (*SQLCache, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", dialect, err)
	}

	c := NewSQLCache(db, dialect)
	if err := c.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Migrate creates the translations table when missing.
func (c *SQLCache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS translations (
	cache_key TEXT PRIMARY KEY,
	source_lang TEXT NOT NULL DEFAULT '',
	target_lang TEXT NOT NULL DEFAULT '',
	original_text TEXT NOT NULL DEFAULT '',
	translated_text TEXT NOT NULL DEFAULT '',
	model_used TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("creating translations table: %w", err)
	}
	return nil
}

// Lookup retrieves an entry by key.
func (c *SQLCache) Lookup(ctx context.Context, key string) (*Entry, error) {
	q := c.sq.Select(entryColumns...).
		From(translationsTable).
		Where(sq.Eq{"cache_key": key}).
		Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var e Entry
	row := c.db.QueryRowContext(ctx, sqlStr, args...)
	if err := scanEntry(row, &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying entry: %w", err)
	}
	return &e, nil
}

// Store upserts an entry, keeping existing non-empty text.
func (c *SQLCache) Store(ctx context.Context, entry Entry) error {
	entry = stamp(entry, c.now())

	q := c.sq.Insert(translationsTable).
		Columns(entryColumns...).
		Values(
			entry.Key,
			entry.SourceLang,
			entry.TargetLang,
			entry.OriginalText,
			entry.TranslatedText,
			entry.ModelUsed,
			entry.CreatedAt,
			entry.UpdatedAt,
		).
		Suffix(upsertSuffix)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	if _, err := c.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("storing entry: %w", err)
	}
	return nil
}

// Entries returns every stored entry ordered by key.
func (c *SQLCache) Entries(ctx context.Context) ([]Entry, error) {
	sqlStr, args, err := c.sq.Select(entryColumns...).From(translationsTable).OrderBy("cache_key").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := scanEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (c *SQLCache) Close() error {
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner, e *Entry) error {
	return s.Scan(
		&e.Key,
		&e.SourceLang,
		&e.TargetLang,
		&e.OriginalText,
		&e.TranslatedText,
		&e.ModelUsed,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
}

var _ Store = (*SQLCache)(nil)
