// Package lexicon holds the surrogate-key encoded vocabulary tables built
// from a corpus: the merged WLPT tuple table, the four dimension
// dictionaries derived from it, and the row types of the flat outputs.
package lexicon

import "github.com/korpuslab/korpustab/pkg/corpus"

// Entry is one row of the WLPT tuple table.
type Entry struct {
	Tuple     corpus.Tuple
	Incidence int64
}

// Table maps WLPT tuples to surrogate IDs assigned in first-seen order.
// It is an append-only list with a lookup index, so iteration order is a
// contract rather than a map-iteration accident: entry i has ID i+1.
//
// A Table is not safe for concurrent mutation; the pipeline builds one
// table per input file and merges them in a single-threaded reduction.
type Table struct {
	entries []Entry
	index   map[corpus.Tuple]int
}

// NewTable creates an empty tuple table.
func NewTable() *Table {
	return &Table{index: make(map[corpus.Tuple]int)}
}

// Add records n occurrences of the tuple, assigning it the next surrogate
// ID if it has not been seen before.
func (t *Table) Add(tp corpus.Tuple, n int64) {
	if i, ok := t.index[tp]; ok {
		t.entries[i].Incidence += n
		return
	}
	t.index[tp] = len(t.entries)
	t.entries = append(t.entries, Entry{Tuple: tp, Incidence: n})
}

// Merge folds src into t, summing incidence for tuples already present and
// assigning new IDs to the rest in src's own order.
func (t *Table) Merge(src *Table) {
	for _, e := range src.entries {
		t.Add(e.Tuple, e.Incidence)
	}
}

// ID returns the 1-based surrogate ID of the tuple.
func (t *Table) ID(tp corpus.Tuple) (int, bool) {
	i, ok := t.index[tp]
	return i + 1, ok
}

// Len returns the number of distinct tuples.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the rows in ID order. The slice is shared with the
// table and must not be mutated.
func (t *Table) Entries() []Entry { return t.entries }

// TotalIncidence sums incidence over all rows.
func (t *Table) TotalIncidence() int64 {
	var total int64
	for _, e := range t.entries {
		total += e.Incidence
	}
	return total
}

// PositionRow is one row of the word-position-in-sentence table: the token
// at 1-based Position within the sentence resolves to WLPT tuple WLPTID.
type PositionRow struct {
	SentenceID string
	Position   int
	WLPTID     int
}
