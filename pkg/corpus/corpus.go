package corpus

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Token is one annotated line of a vertical corpus file, split into its
// columns but not yet normalized.
type Token struct {
	Surface string // The text as it appears (e.g. "Huset")
	Punct   string // Trailing punctuation marker (e.g. "$." or "_")
	Lemma   string // The dictionary form (e.g. "hus")
	POS     string // Part-of-speech label
	Tag     string // Fine-grained morphological tag
}

// Tuple is the normalized (word, lemma, pos, tag) vocabulary key.
// Two tuples are equal iff all four fields match byte-for-byte.
type Tuple struct {
	Word  string
	Lemma string
	POS   string
	Tag   string
}

// NA is the sentinel POS/tag value used for punctuation pseudo-tokens.
const NA = "NA"

// maxTagLen is the fixed width the morphological tag is truncated to.
// Longer tags are silently cut, matching the upstream table layout.
const maxTagLen = 15

// minFields is the number of tab-separated columns a token line must carry:
// surface, an unused column, punctuation marker, lemma, POS, tag.
const minFields = 6

var (
	markupRE     = regexp.MustCompile(`^<.*>$`)
	sentenceIDRE = regexp.MustCompile(`id="([^"]*)"`)
)

// IsMarkup reports whether the line is a structural markup line
// (wholly enclosed in angle brackets, e.g. <s id="12"> or </s>).
func IsMarkup(line string) bool {
	return markupRE.MatchString(line)
}

// SentenceID extracts the id attribute from a markup line. It returns
// false for markup without an id (closing tags, document boundaries).
func SentenceID(line string) (string, bool) {
	m := sentenceIDRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Fields splits a token line into its columns. The second column of the
// vertical format is not used by any stage and is dropped here.
func Fields(line string) (Token, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < minFields {
		return Token{}, fmt.Errorf("expected at least %d tab-separated fields, got %d", minFields, len(cols))
	}
	return Token{
		Surface: cols[0],
		Punct:   cols[2],
		Lemma:   cols[3],
		POS:     cols[4],
		Tag:     cols[5],
	}, nil
}

// Normalizer applies the shared token normalization used by both the
// extractor and the position indexer. The two stages must normalize
// identically or ID lookups during indexing will miss.
//
// A Normalizer is not safe for concurrent use: cases.Caser keeps internal
// state, so each per-file scan owns its own instance.
type Normalizer struct {
	lower cases.Caser
}

// NewNormalizer creates a normalizer with Danish lowercasing rules.
func NewNormalizer() *Normalizer {
	return &Normalizer{lower: cases.Lower(language.Danish)}
}

// Lower lowercases s with the corpus locale.
func (n *Normalizer) Lower(s string) string {
	return n.lower.String(s)
}

// Tuples normalizes a token into its primary WLPT tuple and, when the
// token carries a punctuation marker, a second pseudo-token tuple whose
// lemma equals the mark itself and whose POS and tag are "NA".
//
// Normalization: surface and lemma are lowercased, the tag is truncated to
// its first 15 characters, underscores are stripped from the punctuation
// marker, and a marker longer than one byte loses its first '$'.
func (n *Normalizer) Tuples(t Token) (primary Tuple, punct Tuple, hasPunct bool) {
	primary = Tuple{
		Word:  n.lower.String(t.Surface),
		Lemma: n.lower.String(t.Lemma),
		POS:   t.POS,
		Tag:   truncate(t.Tag, maxTagLen),
	}

	mark := strings.ReplaceAll(t.Punct, "_", "")
	if mark == "" {
		return primary, Tuple{}, false
	}
	if len(mark) > 1 {
		if i := strings.IndexByte(mark, '$'); i >= 0 {
			mark = mark[:i] + mark[i+1:]
		}
	}
	punct = Tuple{Word: mark, Lemma: mark, POS: NA, Tag: NA}
	return primary, punct, true
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
