package app

import (
	"strings"
	"sync"
)

// logCapture splits written bytes into lines and hands complete lines to sink.
// A trailing partial line is held until its newline arrives.
type logCapture struct {
	mu      sync.Mutex
	pending string
	sink    func(line string)
}

func newLogCapture(sink func(string)) *logCapture {
	return &logCapture{sink: sink}
}

func (l *logCapture) Write(p []byte) (int, error) {
	l.mu.Lock()
	text := l.pending + strings.ReplaceAll(string(p), "\r\n", "\n")
	parts := strings.Split(text, "\n")
	l.pending = parts[len(parts)-1]
	lines := parts[:len(parts)-1]
	l.mu.Unlock()

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.sink(line)
	}
	return len(p), nil
}

// logBuffer keeps the last limit lines.
type logBuffer struct {
	mu    sync.Mutex
	lines []string
	limit int
}

func (b *logBuffer) add(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
	if len(b.lines) > b.limit {
		b.lines = b.lines[len(b.lines)-b.limit:]
	}
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}
