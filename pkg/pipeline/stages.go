package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/korpuslab/korpustab/pkg/corpus"
	"github.com/korpuslab/korpustab/pkg/lexicon"
)

// scanner bumps bufio's default line limit; corpus lines are short but
// stray unsegmented input should not kill a run.
func scanner(f *os.File) *bufio.Scanner {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return sc
}

// Extract runs the extraction stage over all files and merges the
// per-file tuple counts into one table with surrogate IDs assigned in
// first-seen order (files in sorted order, tuples in corpus order within
// each file).
func (p *Pipeline) Extract(ctx context.Context, files []string) (*lexicon.Table, error) {
	parts := make([]*lexicon.Table, len(files))
	err := p.forEachFile(ctx, files, func(ctx context.Context, idx int, path string) error {
		t, err := extractFile(path)
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}
		parts[idx] = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	merged := lexicon.NewTable()
	for _, part := range parts {
		merged.Merge(part)
	}
	p.logf("extracted %d distinct tuples, %d tokens", merged.Len(), merged.TotalIncidence())
	return merged, nil
}

// extractFile produces the ordered (tuple, count) table for one file.
// No cross-file state: the result is merged later, single-threaded.
func extractFile(path string) (*lexicon.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	norm := corpus.NewNormalizer()
	counts := lexicon.NewTable()
	sc := scanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || corpus.IsMarkup(line) {
			continue
		}
		tok, err := corpus.Fields(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		primary, punct, hasPunct := norm.Tuples(tok)
		counts.Add(primary, 1)
		if hasPunct {
			counts.Add(punct, 1)
		}
	}
	return counts, sc.Err()
}

// AssembleSentences reassembles the lowercased, space-joined sentences of
// all files, in corpus order. Punctuation markers are not emitted as
// separate words.
func (p *Pipeline) AssembleSentences(ctx context.Context, files []string) ([]string, error) {
	parts := make([][]string, len(files))
	err := p.forEachFile(ctx, files, func(ctx context.Context, idx int, path string) error {
		s, err := assembleFile(path)
		if err != nil {
			return fmt.Errorf("assemble %s: %w", path, err)
		}
		parts[idx] = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	var sentences []string
	for _, part := range parts {
		sentences = append(sentences, part...)
	}
	p.logf("assembled %d sentences", len(sentences))
	return sentences, nil
}

func assembleFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	norm := corpus.NewNormalizer()
	var sentences []string
	var words []string
	flush := func() {
		if len(words) > 0 {
			sentences = append(sentences, strings.Join(words, " "))
			words = words[:0]
		}
	}

	sc := scanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		if corpus.IsMarkup(line) {
			flush()
			continue
		}
		tok, err := corpus.Fields(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		words = append(words, norm.Lower(tok.Surface))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	// A sentence without a trailing markup line is still emitted.
	flush()
	return sentences, nil
}

// IndexPositions re-scans all files with the completed tuple table loaded
// read-only and emits one row per token occurrence (punctuation
// pseudo-tokens included), in corpus order. A token whose normalized tuple
// is missing from the table is a hard inconsistency — the table was built
// from a different corpus or normalization — and fails the stage.
func (p *Pipeline) IndexPositions(ctx context.Context, files []string, tab *lexicon.Table) ([]lexicon.PositionRow, error) {
	parts := make([][]lexicon.PositionRow, len(files))
	err := p.forEachFile(ctx, files, func(ctx context.Context, idx int, path string) error {
		rows, err := indexFile(path, tab)
		if err != nil {
			return fmt.Errorf("index %s: %w", path, err)
		}
		parts[idx] = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	var rows []lexicon.PositionRow
	for _, part := range parts {
		rows = append(rows, part...)
	}
	p.logf("indexed %d token positions", len(rows))
	return rows, nil
}

func indexFile(path string, tab *lexicon.Table) ([]lexicon.PositionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	norm := corpus.NewNormalizer()
	var rows []lexicon.PositionRow
	sentID := ""
	pos := 1

	sc := scanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		if corpus.IsMarkup(line) {
			if id, ok := corpus.SentenceID(line); ok {
				sentID = id
				pos = 1
			}
			continue
		}
		tok, err := corpus.Fields(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		primary, punct, hasPunct := norm.Tuples(tok)

		id, ok := tab.ID(primary)
		if !ok {
			return nil, fmt.Errorf("line %d: tuple %q/%q/%q/%q not in the wlpt table; rerun the tables stage on the same corpus",
				lineNo, primary.Word, primary.Lemma, primary.POS, primary.Tag)
		}
		rows = append(rows, lexicon.PositionRow{SentenceID: sentID, Position: pos, WLPTID: id})
		pos++

		if hasPunct {
			id, ok := tab.ID(punct)
			if !ok {
				return nil, fmt.Errorf("line %d: punctuation tuple %q not in the wlpt table; rerun the tables stage on the same corpus",
					lineNo, punct.Word)
			}
			rows = append(rows, lexicon.PositionRow{SentenceID: sentID, Position: pos, WLPTID: id})
			pos++
		}
	}
	return rows, sc.Err()
}
