package textcloud

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/textcloud/morph"
)

func TestNewAnalyzerBuiltin(t *testing.T) {
	extra := writeFile(t, "extra.tsv", []byte("вордклауды\tвордклауд\tNOUN\n"))
	a, err := NewAnalyzer(context.Background(), AnalyzerConfig{Kind: AnalyzerBuiltin, Dictionary: extra}, nil)
	require.NoError(t, err)
	defer a.Close()

	p, err := a.Analyze(context.Background(), "вордклауды")
	require.NoError(t, err)
	assert.Equal(t, "вордклауд", p.NormalForm)
	assert.Equal(t, morph.Noun, p.POS)
}

func TestNewAnalyzerInitFailures(t *testing.T) {
	tests := []struct {
		name string
		cfg  AnalyzerConfig
	}{
		{"missing dictionary", AnalyzerConfig{Kind: AnalyzerBuiltin, Dictionary: filepath.Join(t.TempDir(), "none.tsv")}},
		{"missing interpreter", AnalyzerConfig{Kind: AnalyzerPymorphy, Python: "no-such-python-interpreter"}},
		{"unknown kind", AnalyzerConfig{Kind: "spacy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnalyzer(context.Background(), tt.cfg, nil)
			require.ErrorIs(t, err, ErrAnalyzerInit)
		})
	}
}
