package textcloud

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"yashubustudio/textcloud/morph"
)

// MorphAnalyzer returns the single most likely analysis of a word.
type MorphAnalyzer interface {
	Analyze(ctx context.Context, word string) (morph.Parse, error)
}

// POSSet is the set of parts of speech to keep.
type POSSet map[morph.POS]struct{}

// NewPOSSet builds a set from the given parts of speech.
func NewPOSSet(pos ...morph.POS) POSSet {
	s := make(POSSet, len(pos))
	for _, p := range pos {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports whether p is allowed. The empty POS is never allowed.
func (s POSSet) Contains(p morph.POS) bool {
	if p == morph.None {
		return false
	}
	_, ok := s[p]
	return ok
}

// List returns the members in sorted order.
func (s POSSet) List() []morph.POS {
	out := make([]morph.POS, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// TagAndFilter analyzes every token and keeps the normal forms whose part of
// speech is allowed, in source order.
func TagAndFilter(ctx context.Context, analyzer MorphAnalyzer, tokens []string, allowed POSSet) ([]TaggedToken, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	out := make([]TaggedToken, 0, len(tokens))
	for _, tok := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := analyzer.Analyze(ctx, tok)
		if err != nil {
			return nil, fmt.Errorf("analyze %q: %w", tok, err)
		}
		if !allowed.Contains(p.POS) {
			continue
		}
		out = append(out, TaggedToken{NormalForm: p.NormalForm, POS: p.POS})
	}
	return out, nil
}
