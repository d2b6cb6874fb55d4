package morph

import (
	"fmt"
	"strings"
)

// POS is a part-of-speech tag from the OpenCorpora tag set used by pymorphy.
type POS string

const (
	// None marks tokens without a part of speech (numbers, unknown words).
	None POS = ""

	Noun            POS = "NOUN"
	AdjFull         POS = "ADJF"
	AdjShort        POS = "ADJS"
	Comparative     POS = "COMP"
	Verb            POS = "VERB"
	Infinitive      POS = "INFN"
	ParticipleFull  POS = "PRTF"
	ParticipleShort POS = "PRTS"
	Gerund          POS = "GRND"
	Numeral         POS = "NUMR"
	Adverb          POS = "ADVB"
	Pronoun         POS = "NPRO"
	Predicative     POS = "PRED"
	Preposition     POS = "PREP"
	Conjunction     POS = "CONJ"
	Particle        POS = "PRCL"
	Interjection    POS = "INTJ"
)

var knownPOS = map[POS]struct{}{
	Noun: {}, AdjFull: {}, AdjShort: {}, Comparative: {}, Verb: {}, Infinitive: {},
	ParticipleFull: {}, ParticipleShort: {}, Gerund: {}, Numeral: {}, Adverb: {},
	Pronoun: {}, Predicative: {}, Preposition: {}, Conjunction: {}, Particle: {},
	Interjection: {},
}

// ParsePOS validates a tag name. Matching is case-insensitive.
func ParsePOS(name string) (POS, error) {
	p := POS(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := knownPOS[p]; !ok {
		return None, fmt.Errorf("unknown part of speech %q", name)
	}
	return p, nil
}

// ParsePOSList parses every name and drops duplicates while keeping order.
func ParsePOSList(names []string) ([]POS, error) {
	out := make([]POS, 0, len(names))
	seen := make(map[POS]struct{}, len(names))
	for _, name := range names {
		p, err := ParsePOS(name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// Parse is the analysis of a single word form.
type Parse struct {
	Word       string  `json:"word"`
	NormalForm string  `json:"normalForm"`
	POS        POS     `json:"pos"`
	Tag        string  `json:"tag,omitempty"`
	Score      float64 `json:"score"`
	// Known is false when the parse was guessed rather than found in a dictionary.
	Known bool `json:"known"`
}
