package morph

import (
	"sync"
	"unicode"
)

const maxSuffixLen = 5

// rewrite turns a word form into its lemma: drop cut runes, append add.
type rewrite struct {
	cut int
	add string
	pos POS
}

type scoredRewrite struct {
	rewrite
	score float64
}

// Predictor guesses parses for out-of-vocabulary words from the endings of
// known ones, in the spirit of pymorphy's suffix predictor.
type Predictor struct {
	mu       sync.RWMutex
	suffixes map[string][]scoredRewrite
}

// NewPredictor returns a predictor with no rules.
func NewPredictor() *Predictor {
	return &Predictor{suffixes: make(map[string][]scoredRewrite)}
}

// Learn records the ending rewrite of a lexicon entry under every suffix
// of length 1..5 that covers the changed part of the form.
func (p *Predictor) Learn(e Entry) {
	form := []rune(e.Form)
	lemma := []rune(e.Lemma)
	stem := commonPrefixLen(form, lemma)
	if stem == 0 {
		return
	}
	rw := rewrite{cut: len(form) - stem, add: string(lemma[stem:]), pos: e.POS}
	p.mu.Lock()
	defer p.mu.Unlock()
	for k := max(1, rw.cut); k <= maxSuffixLen && k < len(form); k++ {
		suffix := string(form[len(form)-k:])
		p.suffixes[suffix] = addRewrite(p.suffixes[suffix], rw, e.Weight)
	}
}

func addRewrite(list []scoredRewrite, rw rewrite, weight float64) []scoredRewrite {
	for i := range list {
		if list[i].rewrite == rw {
			list[i].score += weight
			return list
		}
	}
	return append(list, scoredRewrite{rewrite: rw, score: weight})
}

// Predict never fails: numbers get the NUMB tag, words with no known suffix
// get UNKN, both without a part of speech.
func (p *Predictor) Predict(word string) Parse {
	if isNumeric(word) {
		return Parse{Word: word, NormalForm: word, Tag: "NUMB"}
	}
	rs := []rune(word)
	p.mu.RLock()
	defer p.mu.RUnlock()
	for k := min(maxSuffixLen, len(rs)-1); k >= 1; k-- {
		cands := p.suffixes[string(rs[len(rs)-k:])]
		if len(cands) == 0 {
			continue
		}
		best := cands[0]
		total := cands[0].score
		for _, c := range cands[1:] {
			total += c.score
			if c.score > best.score {
				best = c
			}
		}
		return Parse{
			Word:       word,
			NormalForm: string(rs[:len(rs)-best.cut]) + best.add,
			POS:        best.pos,
			Tag:        string(best.pos),
			Score:      best.score / total,
		}
	}
	return Parse{Word: word, NormalForm: word, Tag: "UNKN"}
}

func commonPrefixLen(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func isNumeric(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
