package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/korpuslab/korpustab/pkg/bigram"
	"github.com/korpuslab/korpustab/pkg/lexicon"
)

// Loader bulk-inserts pipeline results into SQLite using batched
// transactions.
type Loader struct {
	DB        *sql.DB
	BatchSize int
}

// NewLoader creates a loader with a batch size suited for bulk inserts.
func NewLoader(conn *sql.DB) *Loader {
	return &Loader{DB: conn, BatchSize: 500}
}

// Load materializes the tuple table and star schema, and whatever of the
// optional results (positions, bigrams, sentences) the run produced. The
// whole load either completes or returns the first insert error; a
// partially loaded database must be rebuilt, not merged into.
func (l *Loader) Load(tab *lexicon.Table, star *lexicon.Star, positions []lexicon.PositionRow, bigrams []bigram.Entry, sentences []string) error {
	if err := InitDB(l.DB); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	bw := NewBatchWriter(l.DB, l.BatchSize, 0)
	// Once a batch has failed every later row is wasted work; the error
	// itself comes back from Close.
	submit := func(w WriteFunc) bool {
		if bw.LastErr() != nil {
			return false
		}
		return bw.Submit(w) == nil
	}

	for i, e := range tab.Entries() {
		id, e := i+1, e
		if !submit(func(ctx context.Context, tx *sql.Tx) error {
			return InsertTuple(tx, id, e)
		}) {
			break
		}
	}

	dims := []struct {
		name string
		dict *lexicon.Dict
	}{
		{"words", star.Words},
		{"lemmas", star.Lemmas},
		{"pos", star.POS},
		{"tags", star.Tags},
	}
	for _, d := range dims {
		name := d.name
		for i, e := range d.dict.Entries() {
			id, e := i+1, e
			if !submit(func(ctx context.Context, tx *sql.Tx) error {
				return InsertDimension(tx, name, id, e)
			}) {
				break
			}
		}
	}

	for _, f := range star.Facts {
		f := f
		if !submit(func(ctx context.Context, tx *sql.Tx) error {
			return InsertFact(tx, f)
		}) {
			break
		}
	}

	for _, r := range positions {
		r := r
		if !submit(func(ctx context.Context, tx *sql.Tx) error {
			return InsertPosition(tx, r)
		}) {
			break
		}
	}

	for _, e := range bigrams {
		e := e
		if !submit(func(ctx context.Context, tx *sql.Tx) error {
			return InsertBigram(tx, e)
		}) {
			break
		}
	}

	for _, s := range sentences {
		s := s
		if !submit(func(ctx context.Context, tx *sql.Tx) error {
			return InsertSentence(tx, s)
		}) {
			break
		}
	}

	return bw.Close()
}
