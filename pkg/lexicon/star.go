package lexicon

// DimEntry is one row of a dimension dictionary: a distinct value together
// with the summed incidence of every tuple carrying it.
type DimEntry struct {
	Value     string
	Incidence int64
}

// Dict is a single dimension dictionary (words, lemmas, POS or tags) with
// its own surrogate ID space starting at 1, assigned in first-seen order.
type Dict struct {
	entries []DimEntry
	index   map[string]int
}

func newDict() *Dict {
	return &Dict{index: make(map[string]int)}
}

// add records n occurrences of value and returns its 1-based ID.
func (d *Dict) add(value string, n int64) int {
	if i, ok := d.index[value]; ok {
		d.entries[i].Incidence += n
		return i + 1
	}
	d.index[value] = len(d.entries)
	d.entries = append(d.entries, DimEntry{Value: value, Incidence: n})
	return len(d.entries)
}

// ID returns the 1-based surrogate ID of the value.
func (d *Dict) ID(value string) (int, bool) {
	i, ok := d.index[value]
	return i + 1, ok
}

// Len returns the number of distinct values.
func (d *Dict) Len() int { return len(d.entries) }

// Entries returns the rows in ID order; the slice must not be mutated.
func (d *Dict) Entries() []DimEntry { return d.entries }

// TotalIncidence sums incidence over all rows.
func (d *Dict) TotalIncidence() int64 {
	var total int64
	for _, e := range d.entries {
		total += e.Incidence
	}
	return total
}

// FactRow references one entry in each dimension dictionary and carries
// the tuple's incidence as the measure.
type FactRow struct {
	ID        int
	WordID    int
	LemmaID   int
	POSID     int
	TagID     int
	Incidence int64
}

// Star is the tuple table decomposed into four dimension dictionaries and
// a fact table, consistent by construction: every referenced dimension ID
// exists, and each dictionary's incidence total equals the sum over the
// fact rows referencing it.
type Star struct {
	Words  *Dict
	Lemmas *Dict
	POS    *Dict
	Tags   *Dict
	Facts  []FactRow
}

// BuildStar walks the tuple table once in ID order and assigns
// dimension-local surrogate IDs for the word, lemma, POS and tag values
// independently, accumulating per-value incidence as it goes.
func BuildStar(t *Table) *Star {
	s := &Star{
		Words:  newDict(),
		Lemmas: newDict(),
		POS:    newDict(),
		Tags:   newDict(),
		Facts:  make([]FactRow, 0, t.Len()),
	}
	for i, e := range t.Entries() {
		s.Facts = append(s.Facts, FactRow{
			ID:        i + 1,
			WordID:    s.Words.add(e.Tuple.Word, e.Incidence),
			LemmaID:   s.Lemmas.add(e.Tuple.Lemma, e.Incidence),
			POSID:     s.POS.add(e.Tuple.POS, e.Incidence),
			TagID:     s.Tags.add(e.Tuple.Tag, e.Incidence),
			Incidence: e.Incidence,
		})
	}
	return s
}
