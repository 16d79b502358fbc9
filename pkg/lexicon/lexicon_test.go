package lexicon

import (
	"testing"

	"github.com/korpuslab/korpustab/pkg/corpus"
)

func tp(w, l, p, g string) corpus.Tuple {
	return corpus.Tuple{Word: w, Lemma: l, POS: p, Tag: g}
}

func TestTableAssignsIDsInFirstSeenOrder(t *testing.T) {
	tab := NewTable()
	tab.Add(tp("det", "den", "PRON", "PD"), 2)
	tab.Add(tp("var", "være", "V", "VA"), 1)
	tab.Add(tp("det", "den", "PRON", "PD"), 3)

	if tab.Len() != 2 {
		t.Fatalf("expected 2 distinct tuples, got %d", tab.Len())
	}
	if id, ok := tab.ID(tp("det", "den", "PRON", "PD")); !ok || id != 1 {
		t.Fatalf("expected id 1 for first tuple, got %d (ok=%v)", id, ok)
	}
	if id, ok := tab.ID(tp("var", "være", "V", "VA")); !ok || id != 2 {
		t.Fatalf("expected id 2 for second tuple, got %d (ok=%v)", id, ok)
	}
	if got := tab.Entries()[0].Incidence; got != 5 {
		t.Fatalf("expected summed incidence 5, got %d", got)
	}
}

func TestMergeIsDeterministic(t *testing.T) {
	build := func() *Table {
		a := NewTable()
		a.Add(tp("a", "a", "X", "X"), 1)
		a.Add(tp("b", "b", "X", "X"), 1)
		b := NewTable()
		b.Add(tp("b", "b", "X", "X"), 2)
		b.Add(tp("c", "c", "X", "X"), 1)
		merged := NewTable()
		merged.Merge(a)
		merged.Merge(b)
		return merged
	}
	m1, m2 := build(), build()
	if m1.Len() != 3 || m2.Len() != 3 {
		t.Fatalf("expected 3 tuples, got %d and %d", m1.Len(), m2.Len())
	}
	for i := range m1.Entries() {
		if m1.Entries()[i] != m2.Entries()[i] {
			t.Fatalf("row %d differs between runs: %v vs %v", i, m1.Entries()[i], m2.Entries()[i])
		}
	}
	if got := m1.Entries()[1].Incidence; got != 3 {
		t.Fatalf("expected merged incidence 3 for b, got %d", got)
	}
}

func TestMergeEmptyYieldsEmpty(t *testing.T) {
	m := NewTable()
	m.Merge(NewTable())
	if m.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", m.Len())
	}
}

func TestBuildStarConservation(t *testing.T) {
	tab := NewTable()
	tab.Add(tp("huset", "hus", "N", "NC"), 4)
	tab.Add(tp("husets", "hus", "N", "NG"), 2)
	tab.Add(tp(".", ".", "NA", "NA"), 6)

	s := BuildStar(tab)

	if len(s.Facts) != tab.Len() {
		t.Fatalf("expected one fact row per tuple, got %d for %d tuples", len(s.Facts), tab.Len())
	}
	// Both inflections share a lemma but not a word.
	if s.Words.Len() != 3 || s.Lemmas.Len() != 2 {
		t.Fatalf("expected 3 words / 2 lemmas, got %d / %d", s.Words.Len(), s.Lemmas.Len())
	}
	if id, ok := s.Lemmas.ID("hus"); !ok || id != 1 {
		t.Fatalf("expected lemma hus to get id 1, got %d (ok=%v)", id, ok)
	}
	if got := s.Lemmas.Entries()[0].Incidence; got != 6 {
		t.Fatalf("expected lemma incidence 4+2=6, got %d", got)
	}

	// Conservation: each dimension total equals the tuple table total.
	total := tab.TotalIncidence()
	for name, d := range map[string]*Dict{"words": s.Words, "lemmas": s.Lemmas, "pos": s.POS, "tags": s.Tags} {
		if d.TotalIncidence() != total {
			t.Errorf("%s incidence total %d != tuple total %d", name, d.TotalIncidence(), total)
		}
	}

	// Referential integrity: every fact reference resolves.
	for _, f := range s.Facts {
		if f.WordID < 1 || f.WordID > s.Words.Len() ||
			f.LemmaID < 1 || f.LemmaID > s.Lemmas.Len() ||
			f.POSID < 1 || f.POSID > s.POS.Len() ||
			f.TagID < 1 || f.TagID > s.Tags.Len() {
			t.Fatalf("fact row %d references a missing dimension entry: %+v", f.ID, f)
		}
	}
}

func TestBuildStarEmpty(t *testing.T) {
	s := BuildStar(NewTable())
	if len(s.Facts) != 0 || s.Words.Len() != 0 {
		t.Fatal("empty input must yield empty star")
	}
}
