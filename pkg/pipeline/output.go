package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/korpuslab/korpustab/pkg/bigram"
	"github.com/korpuslab/korpustab/pkg/lexicon"
	"github.com/korpuslab/korpustab/pkg/table"
)

// Output file names, relative to OutputDir.
const (
	WLPTFile      = "wlpt.tsv"
	WordsFile     = "words.tsv"
	LemmasFile    = "lemmas.tsv"
	POSFile       = "pos.tsv"
	TagsFile      = "tags.tsv"
	FactsFile     = "wlpt_fact.tsv"
	PositionsFile = "word_positions.tsv"
	BigramsFile   = "lbigrams.tsv"
	SentencesFile = "sentences.txt"
)

func (p *Pipeline) outPath(name string) string {
	return filepath.Join(p.OutputDir, name)
}

func (p *Pipeline) writeFile(name string, write func(f *os.File) error) error {
	f, err := os.Create(p.outPath(name))
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

// WriteTables writes the tuple table, the four dimension dictionaries and
// the fact table.
func (p *Pipeline) WriteTables(tab *lexicon.Table, star *lexicon.Star) error {
	if err := p.writeFile(WLPTFile, func(f *os.File) error {
		return table.WriteWLPT(f, tab.Entries())
	}); err != nil {
		return err
	}
	dims := []struct {
		file, col string
		dict      *lexicon.Dict
	}{
		{WordsFile, "word", star.Words},
		{LemmasFile, "lemma", star.Lemmas},
		{POSFile, "pos", star.POS},
		{TagsFile, "tag", star.Tags},
	}
	for _, d := range dims {
		if err := p.writeFile(d.file, func(f *os.File) error {
			return table.WriteDict(f, d.col, d.dict.Entries())
		}); err != nil {
			return err
		}
	}
	return p.writeFile(FactsFile, func(f *os.File) error {
		return table.WriteFacts(f, star.Facts)
	})
}

// WriteSentences writes the reassembled sentence file.
func (p *Pipeline) WriteSentences(sentences []string) error {
	return p.writeFile(SentencesFile, func(f *os.File) error {
		return table.WriteSentences(f, sentences)
	})
}

// WritePositions writes the word-position-in-sentence table.
func (p *Pipeline) WritePositions(rows []lexicon.PositionRow) error {
	return p.writeFile(PositionsFile, func(f *os.File) error {
		return table.WritePositions(f, rows)
	})
}

// WriteBigrams writes the ranked letter-bigram table.
func (p *Pipeline) WriteBigrams(entries []bigram.Entry) error {
	return p.writeFile(BigramsFile, func(f *os.File) error {
		return table.WriteBigrams(f, entries)
	})
}

// LoadTupleTable reads the tuple table back from a previous run, for
// stages that need it as a lookup when the extract stage did not run in
// this invocation.
func (p *Pipeline) LoadTupleTable() (*lexicon.Table, error) {
	path := p.outPath(WLPTFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("wlpt table %s is missing: run the tables stage first", path)
		}
		return nil, err
	}
	defer f.Close()
	tab, err := table.ReadWLPT(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tab, nil
}

// LoadPositions reads the word-position table back from a previous run.
func (p *Pipeline) LoadPositions() ([]lexicon.PositionRow, error) {
	f, err := os.Open(p.outPath(PositionsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := table.ReadPositions(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", PositionsFile, err)
	}
	return rows, nil
}

// LoadSentences reads the sentence file back from a previous run.
func (p *Pipeline) LoadSentences() ([]string, error) {
	f, err := os.Open(p.outPath(SentencesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sentences, err := table.ReadSentences(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", SentencesFile, err)
	}
	return sentences, nil
}
