package textcloud

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalizer lowercases text for one language and splits it into word tokens.
type Normalizer struct {
	lang language.Tag
}

// NewNormalizer parses a BCP 47 language tag ("ru", "en").
func NewNormalizer(lang string) (*Normalizer, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	return &Normalizer{lang: tag}, nil
}

// Language returns the tag used for case folding.
func (n *Normalizer) Language() language.Tag {
	return n.lang
}

// Normalize composes, lowercases and strips doc, then splits it on whitespace.
// Stripped characters do not separate words: "word.s" becomes "words".
func (n *Normalizer) Normalize(doc string) []string {
	text := norm.NFC.String(doc)
	// Casers carry state, so one per call.
	text = cases.Lower(n.lang).String(text)
	text = strings.Map(func(r rune) rune {
		if isWordRune(r) || isSeparator(r) || r == '-' {
			return r
		}
		return -1
	}, text)
	return strings.FieldsFunc(text, isSeparator)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

// isSeparator also treats the ASCII information separators as whitespace.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
