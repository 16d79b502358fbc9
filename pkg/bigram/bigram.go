// Package bigram counts overlapping two-letter sequences in the word
// dictionary, weighted by word incidence.
package bigram

import (
	"sort"

	"github.com/korpuslab/korpustab/pkg/lexicon"
)

// alphabet is the set of letters a bigram may be built from: lowercase
// Latin plus the three Danish letters.
const alphabet = "abcdefghijklmnopqrstuvwxyzæøå"

var allowed = func() map[rune]bool {
	m := make(map[rune]bool, len(alphabet))
	for _, r := range alphabet {
		m[r] = true
	}
	return m
}()

// Entry is one row of the letter-bigram table.
type Entry struct {
	Bigram    string
	Incidence int64
}

// Count aggregates the overlapping two-letter substrings of every word in
// the dictionary. A word of n letters contributes n-1 bigrams, each
// weighted by the word's total incidence; a bigram touching any character
// outside the alphabet is discarded whole. The result is ranked descending
// by incidence with equal counts ordered ascending by bigram, so the
// ranking is deterministic.
func Count(words []lexicon.DimEntry) []Entry {
	counts := make(map[string]int64)
	for _, w := range words {
		runes := []rune(w.Value)
		for i := 0; i+1 < len(runes); i++ {
			if !allowed[runes[i]] || !allowed[runes[i+1]] {
				continue
			}
			counts[string(runes[i:i+2])] += w.Incidence
		}
	}

	out := make([]Entry, 0, len(counts))
	for b, n := range counts {
		out = append(out, Entry{Bigram: b, Incidence: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Incidence != out[j].Incidence {
			return out[i].Incidence > out[j].Incidence
		}
		return out[i].Bigram < out[j].Bigram
	})
	return out
}
