package textcloud

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport prints the token list, its length, the filtered list and its length.
func WriteReport(w io.Writer, tokens []string, filtered []TaggedToken) error {
	forms := make([]string, len(filtered))
	for i, t := range filtered {
		forms[i] = t.NormalForm
	}
	_, err := fmt.Fprintf(w,
		"Обычные слова: %s\nВ этом тексте %d слов\nОтфильтрованные слова: %s\nВ этом тексте %d отфильтрованных слов\n",
		quoteList(tokens), len(tokens), quoteList(forms), len(forms))
	return err
}

// WriteSaved announces the output file.
func WriteSaved(w io.Writer, path string) error {
	_, err := fmt.Fprintf(w, "Облако слов сохранено в файл '%s'\n", path)
	return err
}

func quoteList(words []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, w := range words {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(w)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}
