package textcloud

import (
	"cmp"
	"slices"
)

// FrequencyTable counts words and remembers the order they first appeared in.
type FrequencyTable struct {
	counts map[string]int
	order  []string
	total  int
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// Count tallies the normal forms of tagged tokens.
func Count(tagged []TaggedToken) *FrequencyTable {
	t := NewFrequencyTable()
	for _, tok := range tagged {
		t.Add(tok.NormalForm)
	}
	return t
}

// Add increments the count of word.
func (t *FrequencyTable) Add(word string) {
	if _, ok := t.counts[word]; !ok {
		t.order = append(t.order, word)
	}
	t.counts[word]++
	t.total++
}

// Get returns the count of word, zero when absent.
func (t *FrequencyTable) Get(word string) int {
	return t.counts[word]
}

// Len is the number of distinct words.
func (t *FrequencyTable) Len() int {
	return len(t.order)
}

// Total is the sum of all counts.
func (t *FrequencyTable) Total() int {
	return t.total
}

// MostCommon returns the n most frequent words, ties broken by first
// appearance. n <= 0 returns every word.
func (t *FrequencyTable) MostCommon(n int) []Frequency {
	out := make([]Frequency, len(t.order))
	for i, w := range t.order {
		out[i] = Frequency{Word: w, Count: t.counts[w]}
	}
	slices.SortStableFunc(out, func(a, b Frequency) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
