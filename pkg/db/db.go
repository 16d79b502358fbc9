// Package db materializes the pipeline's tables into a SQLite database so
// the star schema can be queried directly.
package db

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS wlpt (
	id INTEGER PRIMARY KEY,
	word TEXT NOT NULL,
	lemma TEXT NOT NULL,
	pos TEXT NOT NULL,
	tag TEXT NOT NULL,
	incidence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS words (
	id INTEGER PRIMARY KEY,
	word TEXT NOT NULL,
	incidence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lemmas (
	id INTEGER PRIMARY KEY,
	lemma TEXT NOT NULL,
	incidence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pos (
	id INTEGER PRIMARY KEY,
	pos TEXT NOT NULL,
	incidence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	id INTEGER PRIMARY KEY,
	tag TEXT NOT NULL,
	incidence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS wlpt_fact (
	id INTEGER PRIMARY KEY,
	word_id INTEGER NOT NULL REFERENCES words(id),
	lemma_id INTEGER NOT NULL REFERENCES lemmas(id),
	pos_id INTEGER NOT NULL REFERENCES pos(id),
	tag_id INTEGER NOT NULL REFERENCES tags(id),
	incidence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS word_positions (
	sentence_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	wlpt_id INTEGER NOT NULL REFERENCES wlpt(id)
);

CREATE INDEX IF NOT EXISTS idx_word_positions_sentence
	ON word_positions (sentence_id);

CREATE TABLE IF NOT EXISTS letter_bigrams (
	lbigram TEXT PRIMARY KEY,
	incidence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sentences (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL
)`

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", path)
}

// InitDB creates the schema on the given connection.
func InitDB(db *sql.DB) error {
	for _, s := range strings.Split(schemaSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
