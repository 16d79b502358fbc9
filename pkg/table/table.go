// Package table writes and reads the flat output tables. All tables are
// UTF-8, tab-separated, with a header row; the sentence file is plain
// lines without one. Fields are emitted verbatim — corpus tokens cannot
// contain tabs or newlines, so no quoting layer is needed.
package table

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/korpuslab/korpustab/pkg/bigram"
	"github.com/korpuslab/korpustab/pkg/corpus"
	"github.com/korpuslab/korpustab/pkg/lexicon"
)

// WriteWLPT writes the merged tuple table: id, word, lemma, pos, tag,
// incidence, one row per distinct tuple in ascending ID order.
func WriteWLPT(w io.Writer, entries []lexicon.Entry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "id\tword\tlemma\tpos\ttag\tincidence")
	for i, e := range entries {
		fmt.Fprintf(bw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			i+1, e.Tuple.Word, e.Tuple.Lemma, e.Tuple.POS, e.Tuple.Tag, e.Incidence)
	}
	return bw.Flush()
}

// ReadWLPT loads a tuple table previously written by WriteWLPT, restoring
// the exact ID assignment. Used when the position-indexing stage runs in a
// separate invocation from the extract stage.
func ReadWLPT(r io.Reader) (*lexicon.Table, error) {
	tab := lexicon.NewTable()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 {
			continue // header
		}
		cols := strings.Split(sc.Text(), "\t")
		if len(cols) != 6 {
			return nil, fmt.Errorf("wlpt table line %d: expected 6 fields, got %d", lineNo, len(cols))
		}
		id, err := strconv.Atoi(cols[0])
		if err != nil {
			return nil, fmt.Errorf("wlpt table line %d: bad id: %w", lineNo, err)
		}
		if id != tab.Len()+1 {
			return nil, fmt.Errorf("wlpt table line %d: id %d out of sequence", lineNo, id)
		}
		n, err := strconv.ParseInt(cols[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("wlpt table line %d: bad incidence: %w", lineNo, err)
		}
		tab.Add(corpus.Tuple{Word: cols[1], Lemma: cols[2], POS: cols[3], Tag: cols[4]}, n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tab, nil
}

// ReadPositions loads a position table previously written by
// WritePositions. Used when the database load runs in a later invocation
// than the position-indexing stage.
func ReadPositions(r io.Reader) ([]lexicon.PositionRow, error) {
	var rows []lexicon.PositionRow
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 {
			continue // header
		}
		cols := strings.Split(sc.Text(), "\t")
		if len(cols) != 3 {
			return nil, fmt.Errorf("position table line %d: expected 3 fields, got %d", lineNo, len(cols))
		}
		pos, err := strconv.Atoi(cols[1])
		if err != nil {
			return nil, fmt.Errorf("position table line %d: bad position: %w", lineNo, err)
		}
		wlptID, err := strconv.Atoi(cols[2])
		if err != nil {
			return nil, fmt.Errorf("position table line %d: bad wlpt id: %w", lineNo, err)
		}
		rows = append(rows, lexicon.PositionRow{SentenceID: cols[0], Position: pos, WLPTID: wlptID})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadSentences loads a sentence file previously written by
// WriteSentences, one sentence per line.
func ReadSentences(r io.Reader) ([]string, error) {
	var sentences []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		sentences = append(sentences, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sentences, nil
}

// WriteDict writes one dimension dictionary; valueCol names the middle
// column (word, lemma, pos or tag).
func WriteDict(w io.Writer, valueCol string, entries []lexicon.DimEntry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "id\t%s\tincidence\n", valueCol)
	for i, e := range entries {
		fmt.Fprintf(bw, "%d\t%s\t%d\n", i+1, e.Value, e.Incidence)
	}
	return bw.Flush()
}

// WriteFacts writes the fact table referencing the four dictionaries.
func WriteFacts(w io.Writer, facts []lexicon.FactRow) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "id\tword_id\tlemma_id\tpos_id\ttag_id\tincidence")
	for _, f := range facts {
		fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\n",
			f.ID, f.WordID, f.LemmaID, f.POSID, f.TagID, f.Incidence)
	}
	return bw.Flush()
}

// WritePositions writes the word-position-in-sentence table. The id column
// is the sentence id taken from the corpus markup.
func WritePositions(w io.Writer, rows []lexicon.PositionRow) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "id\tposition\twlpt_id")
	for _, r := range rows {
		fmt.Fprintf(bw, "%s\t%d\t%d\n", r.SentenceID, r.Position, r.WLPTID)
	}
	return bw.Flush()
}

// WriteBigrams writes the letter-bigram table in ranked order.
func WriteBigrams(w io.Writer, entries []bigram.Entry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "lbigram\tincidence")
	for _, e := range entries {
		fmt.Fprintf(bw, "%s\t%d\n", e.Bigram, e.Incidence)
	}
	return bw.Flush()
}

// WriteSentences writes one reassembled sentence per line, no header.
func WriteSentences(w io.Writer, sentences []string) error {
	bw := bufio.NewWriter(w)
	for _, s := range sentences {
		fmt.Fprintln(bw, s)
	}
	return bw.Flush()
}
