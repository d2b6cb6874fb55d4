package morph

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinScenarioWords(t *testing.T) {
	d, err := Builtin()
	require.NoError(t, err)
	require.Greater(t, d.Size(), 100)

	tests := []struct {
		word   string
		normal string
		pos    POS
	}{
		{"cats", "cat", Noun},
		{"dogs", "dog", Noun},
		{"run", "run", Verb},
		{"бежит", "бежать", Verb},
		{"бежать", "бежать", Infinitive},
		{"книги", "книга", Noun},
		{"и", "и", Conjunction},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			p, err := d.Analyze(context.Background(), tt.word)
			require.NoError(t, err)
			assert.Equal(t, tt.normal, p.NormalForm)
			assert.Equal(t, tt.pos, p.POS)
			assert.True(t, p.Known)
		})
	}
}

func TestDictionaryHomonymWeight(t *testing.T) {
	d := NewDictionary()
	require.NoError(t, d.Load(strings.NewReader("стекло\tстекло\tNOUN\nстекло\tстечь\tVERB\t2\n")))

	p, err := d.Analyze(context.Background(), "стекло")
	require.NoError(t, err)
	assert.Equal(t, "стечь", p.NormalForm)
	assert.Equal(t, Verb, p.POS)
	assert.InDelta(t, 2.0/3.0, p.Score, 1e-9)
}

func TestDictionaryTieKeepsFileOrder(t *testing.T) {
	d := NewDictionary()
	require.NoError(t, d.Load(strings.NewReader("мой\tмыть\tVERB\nмой\tмой\tADJF\n")))

	entries := d.Lookup("мой")
	require.Len(t, entries, 2)
	assert.Equal(t, Verb, entries[0].POS)
}

func TestDictionaryRepeatedEntryAddsWeight(t *testing.T) {
	d := NewDictionary()
	d.Add(Entry{Form: "a", Lemma: "a", POS: Particle})
	d.Add(Entry{Form: "a", Lemma: "a", POS: Particle, Weight: 2})

	entries := d.Lookup("a")
	require.Len(t, entries, 1)
	assert.Equal(t, 3.0, entries[0].Weight)
	assert.Equal(t, 1, d.Size())
}

func TestDictionaryYoFallback(t *testing.T) {
	d := NewDictionary()
	d.Add(Entry{Form: "еж", Lemma: "еж", POS: Noun})

	p, err := d.Analyze(context.Background(), "ёж")
	require.NoError(t, err)
	assert.True(t, p.Known)
	assert.Equal(t, "еж", p.NormalForm)
}

func TestDictionaryLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"too few fields", "кот\tкот\n", "line 1"},
		{"unknown pos", "# header\nкот\tкот\tANIMAL\n", "line 2"},
		{"bad weight", "кот\tкот\tNOUN\tlots\n", "invalid weight"},
		{"empty lemma", "кот\t \tNOUN\n", "empty form or lemma"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDictionary().Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDictionaryLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.tsv")
	require.NoError(t, os.WriteFile(path, []byte("Вордклауд\tвордклауд\tNOUN\n"), 0o644))

	d, err := Builtin()
	require.NoError(t, err)
	before := d.Size()
	require.NoError(t, d.LoadFile(path))
	assert.Equal(t, before+1, d.Size())

	p, err := d.Analyze(context.Background(), "вордклауд")
	require.NoError(t, err)
	assert.True(t, p.Known)

	err = d.LoadFile(filepath.Join(t.TempDir(), "missing.tsv"))
	require.Error(t, err)
}

func TestDictionaryAnalyzeHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDictionary().Analyze(ctx, "кот")
	require.ErrorIs(t, err, context.Canceled)
}

func TestParsePOSList(t *testing.T) {
	got, err := ParsePOSList([]string{"verb", " NOUN", "VERB"})
	require.NoError(t, err)
	assert.Equal(t, []POS{Verb, Noun}, got)

	_, err = ParsePOSList([]string{"NOUN", "THING"})
	require.Error(t, err)
}
