package morph

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

//go:embed data/lexicon.tsv
var builtinLexicon string

// Entry is one lexicon line: a word form, its lemma and part of speech.
type Entry struct {
	Form   string
	Lemma  string
	POS    POS
	Weight float64
}

// Dictionary analyzes words by exact lookup in a lexicon and falls back to
// suffix prediction for everything it does not know.
type Dictionary struct {
	mu        sync.RWMutex
	forms     map[string][]Entry
	predictor *Predictor
	size      int
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		forms:     make(map[string][]Entry),
		predictor: NewPredictor(),
	}
}

// Builtin returns a dictionary preloaded with the embedded lexicon.
func Builtin() (*Dictionary, error) {
	d := NewDictionary()
	if err := d.Load(strings.NewReader(builtinLexicon)); err != nil {
		return nil, fmt.Errorf("load builtin lexicon: %w", err)
	}
	return d, nil
}

// LoadFile adds the entries of a TSV lexicon file.
func (d *Dictionary) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	if err := d.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Load reads lines of the form "form<TAB>lemma<TAB>POS[<TAB>weight]".
// Blank lines and lines starting with '#' are skipped.
func (d *Dictionary) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseEntry(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		d.Add(entry)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan lexicon: %w", err)
	}
	return nil
}

func parseEntry(line string) (Entry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 3 && len(fields) != 4 {
		return Entry{}, fmt.Errorf("expected 3 or 4 tab-separated fields, got %d", len(fields))
	}
	pos, err := ParsePOS(fields[2])
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		Form:   strings.ToLower(strings.TrimSpace(fields[0])),
		Lemma:  strings.ToLower(strings.TrimSpace(fields[1])),
		POS:    pos,
		Weight: 1,
	}
	if entry.Form == "" || entry.Lemma == "" {
		return Entry{}, fmt.Errorf("empty form or lemma")
	}
	if len(fields) == 4 {
		w, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		if err != nil || w <= 0 {
			return Entry{}, fmt.Errorf("invalid weight %q", fields[3])
		}
		entry.Weight = w
	}
	return entry, nil
}

// Add inserts an entry. Repeating a (form, lemma, POS) triple adds to its weight.
func (d *Dictionary) Add(e Entry) {
	if e.Weight <= 0 {
		e.Weight = 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.forms[e.Form]
	merged := false
	for i := range list {
		if list[i].Lemma == e.Lemma && list[i].POS == e.POS {
			list[i].Weight += e.Weight
			merged = true
			break
		}
	}
	if !merged {
		list = append(list, e)
		d.size++
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Weight > list[j].Weight })
	d.forms[e.Form] = list
	d.predictor.Learn(e)
}

// Size returns the number of distinct entries.
func (d *Dictionary) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.size
}

// Lookup returns the entries for a form, best first.
func (d *Dictionary) Lookup(form string) []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list := d.forms[form]
	if len(list) == 0 && strings.ContainsRune(form, 'ё') {
		list = d.forms[strings.ReplaceAll(form, "ё", "е")]
	}
	out := make([]Entry, len(list))
	copy(out, list)
	return out
}

// Analyze returns the best parse for word.
func (d *Dictionary) Analyze(ctx context.Context, word string) (Parse, error) {
	if err := ctx.Err(); err != nil {
		return Parse{}, err
	}
	entries := d.Lookup(word)
	if len(entries) == 0 {
		return d.predictor.Predict(word), nil
	}
	var total float64
	for _, e := range entries {
		total += e.Weight
	}
	best := entries[0]
	return Parse{
		Word:       word,
		NormalForm: best.Lemma,
		POS:        best.POS,
		Tag:        string(best.POS),
		Score:      best.Weight / total,
		Known:      true,
	}, nil
}

// Close is a no-op; the dictionary holds no external resources.
func (d *Dictionary) Close() error { return nil }
