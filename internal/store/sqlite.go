package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/jtbd/internal/model"
)

// SQLiteStore keeps corpora for many topics in one SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a corpus database with WAL mode enabled
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for concurrent readers during batch runs
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS topic_sources (
	topic TEXT NOT NULL,
	name TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY(topic, name)
);

CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	topic TEXT NOT NULL,
	statement TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	context TEXT NOT NULL DEFAULT '',
	UNIQUE(topic, statement, source, context)
);

CREATE INDEX IF NOT EXISTS idx_entries_topic ON entries(topic);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Ingest stores a corpus under its normalized topic and returns the number of
// new entries. Entries already stored for the topic are ignored.
func (s *SQLiteStore) Ingest(ctx context.Context, corpus model.Corpus) (int, error) {
	topic := NormalizeTopic(corpus.Topic)
	if topic == "" {
		return 0, fmt.Errorf("%w: corpus has no topic", model.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM topic_sources WHERE topic=?`, topic).Scan(&position); err != nil {
		return 0, err
	}

	for _, name := range uniqueStrings(corpus.Sources) {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO topic_sources (topic, name, position) VALUES (?, ?, ?)`,
			topic, name, position)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			position++
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO entries (topic, statement, source, context) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, e := range corpus.ResearchData {
		res, err := stmt.ExecContext(ctx, topic, e.Statement, e.Source, e.Context)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	return added, tx.Commit()
}

// Load returns the merged corpus of every stored topic whose key contains the
// normalized topic, matching how data files are selected
func (s *SQLiteStore) Load(ctx context.Context, topic string) (model.Corpus, error) {
	corpus := model.Corpus{Topic: topic}
	key := NormalizeTopic(topic)

	sources, err := s.loadStringColumn(ctx,
		`SELECT name FROM topic_sources WHERE instr(topic, ?) > 0 ORDER BY topic, position`, key)
	if err != nil {
		return corpus, fmt.Errorf("load sources: %w", err)
	}
	corpus.Sources = uniqueStrings(sources)

	rows, err := s.db.QueryContext(ctx,
		`SELECT statement, source, context FROM entries WHERE instr(topic, ?) > 0 ORDER BY topic, id`, key)
	if err != nil {
		return corpus, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e model.ResearchEntry
		if err := rows.Scan(&e.Statement, &e.Source, &e.Context); err != nil {
			return corpus, err
		}
		corpus.ResearchData = append(corpus.ResearchData, e)
	}

	return corpus, rows.Err()
}

// Topics lists stored topic keys
func (s *SQLiteStore) Topics(ctx context.Context) ([]string, error) {
	return s.loadStringColumn(ctx, `SELECT DISTINCT topic FROM entries ORDER BY topic`)
}

func (s *SQLiteStore) loadStringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var val string
		if err := rows.Scan(&val); err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, rows.Err()
}

func uniqueStrings(in []string) []string {
	set := make(map[string]struct{}, len(in))
	var out []string
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
