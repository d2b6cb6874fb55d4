package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/textcloud/cloud"
	"yashubustudio/textcloud/morph"
	"yashubustudio/textcloud/textcloud"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		textcloud.EnvAnalyzer, textcloud.EnvDictionary, textcloud.EnvPython, textcloud.EnvOutput,
		textcloud.EnvLanguage, textcloud.EnvBackground, textcloud.EnvFont, textcloud.EnvLimit,
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("dev", "none", "unknown")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunWritesCloud(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "text.txt")
	require.NoError(t, os.WriteFile(input, []byte("Cats run. Dogs RUN!"), 0o644))
	output := filepath.Join(dir, "cloud.png")
	cfgPath := filepath.Join(dir, "config.yaml")

	out, err := execute(t, input, "--output", output, "--config", cfgPath, "--no-color", "-n", "2", "--save-config")
	require.NoError(t, err)
	assert.Contains(t, out, "Обычные слова: ['cats', 'run', 'dogs', 'run']")
	assert.Contains(t, out, "В этом тексте 4 слов")
	assert.Contains(t, out, "Топ слов (2)")
	assert.Contains(t, out, "run")

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	saved, err := textcloud.LoadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Limit)
	assert.Equal(t, output, saved.Output)
}

func TestRunReportsErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")

	_, err := execute(t, filepath.Join(dir, "missing.txt"), "--config", cfgPath)
	require.ErrorIs(t, err, textcloud.ErrNotFound)

	input := filepath.Join(dir, "text.txt")
	require.NoError(t, os.WriteFile(input, []byte("cats"), 0o644))
	_, err = execute(t, input, "--config", cfgPath, "--limit=-4")
	require.ErrorIs(t, err, textcloud.ErrInvalidLimit)

	_, err = execute(t, input, "--config", cfgPath, "--pos", "NOUN,THING")
	require.Error(t, err)

	_, err = execute(t, input, "--config", cfgPath, "--analyzer", "pymorphy", "--python", "no-such-python-binary")
	require.ErrorIs(t, err, textcloud.ErrAnalyzerInit)
}

func TestAnalyzeCommand(t *testing.T) {
	clearEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.json")

	out, err := execute(t, "analyze", "--config", cfgPath, "--json", "Cats", "бежит")
	require.NoError(t, err)

	var parses []morph.Parse
	require.NoError(t, json.Unmarshal([]byte(out), &parses))
	require.Len(t, parses, 2)
	assert.Equal(t, "cat", parses[0].NormalForm)
	assert.Equal(t, morph.Noun, parses[0].POS)
	assert.Equal(t, "бежать", parses[1].NormalForm)

	out, err = execute(t, "analyze", "--config", cfgPath, "--no-color", "run")
	require.NoError(t, err)
	assert.Equal(t, "run -> run VERB 0.75\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "textcloud development (local-build)")
}

type closingAnalyzer struct{ closed bool }

func (a *closingAnalyzer) Analyze(_ context.Context, word string) (morph.Parse, error) {
	return morph.Parse{Word: word, NormalForm: word}, nil
}

func (a *closingAnalyzer) Close() error {
	a.closed = true
	return nil
}

type closingRenderer struct{ closed bool }

func (r *closingRenderer) Render(_ context.Context, _ []cloud.Word, c cloud.Canvas) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, c.Width, c.Height)), nil
}

func (r *closingRenderer) Close() error {
	r.closed = true
	return nil
}

func TestNewServiceClosesCollaboratorsOnError(t *testing.T) {
	a, r := &closingAnalyzer{}, &closingRenderer{}
	cfg := textcloud.Config{Language: "not a language!"}

	_, err := newService(a, r, cfg, nil)
	require.Error(t, err)
	assert.True(t, a.closed)
	assert.True(t, r.closed)

	a, r = &closingAnalyzer{}, &closingRenderer{}
	svc, err := newService(a, r, textcloud.Config{}, nil)
	require.NoError(t, err)
	assert.False(t, a.closed)
	assert.False(t, r.closed)
	require.NoError(t, svc.Close())
	assert.True(t, a.closed)
	assert.True(t, r.closed)
}
