package db

import (
	"database/sql"
	"fmt"

	"github.com/korpuslab/korpustab/pkg/bigram"
	"github.com/korpuslab/korpustab/pkg/lexicon"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB
// or *sql.Tx.
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// dimTables maps each dimension table to its value column. Loading only
// ever targets these fixed pairs.
var dimTables = map[string]string{
	"words":  "word",
	"lemmas": "lemma",
	"pos":    "pos",
	"tags":   "tag",
}

// InsertTuple inserts one row of the WLPT tuple table under its surrogate
// ID.
func InsertTuple(db DBExecutor, id int, e lexicon.Entry) error {
	_, err := db.Exec(
		`INSERT INTO wlpt (id, word, lemma, pos, tag, incidence) VALUES (?, ?, ?, ?, ?, ?)`,
		id, e.Tuple.Word, e.Tuple.Lemma, e.Tuple.POS, e.Tuple.Tag, e.Incidence,
	)
	return err
}

// InsertDimension inserts one dimension dictionary row into the named
// table ("words", "lemmas", "pos" or "tags").
func InsertDimension(db DBExecutor, table string, id int, e lexicon.DimEntry) error {
	col, ok := dimTables[table]
	if !ok {
		return fmt.Errorf("unknown dimension table %q", table)
	}
	_, err := db.Exec(
		fmt.Sprintf(`INSERT INTO %s (id, %s, incidence) VALUES (?, ?, ?)`, table, col),
		id, e.Value, e.Incidence,
	)
	return err
}

// InsertFact inserts one fact row referencing the four dimension tables.
func InsertFact(db DBExecutor, f lexicon.FactRow) error {
	_, err := db.Exec(
		`INSERT INTO wlpt_fact (id, word_id, lemma_id, pos_id, tag_id, incidence) VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.WordID, f.LemmaID, f.POSID, f.TagID, f.Incidence,
	)
	return err
}

// InsertPosition inserts one word-position-in-sentence row.
func InsertPosition(db DBExecutor, r lexicon.PositionRow) error {
	_, err := db.Exec(
		`INSERT INTO word_positions (sentence_id, position, wlpt_id) VALUES (?, ?, ?)`,
		r.SentenceID, r.Position, r.WLPTID,
	)
	return err
}

// InsertBigram inserts one letter-bigram row.
func InsertBigram(db DBExecutor, e bigram.Entry) error {
	_, err := db.Exec(
		`INSERT INTO letter_bigrams (lbigram, incidence) VALUES (?, ?)`,
		e.Bigram, e.Incidence,
	)
	return err
}

// InsertSentence appends one reassembled sentence.
func InsertSentence(db DBExecutor, text string) error {
	_, err := db.Exec(`INSERT INTO sentences (text) VALUES (?)`, text)
	return err
}
