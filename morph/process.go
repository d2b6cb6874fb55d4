package morph

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const readyLine = "ready"

// pymorphyScript answers one "word" line with "normal_form\tPOS\tscore\ttag".
const pymorphyScript = `import sys
import pymorphy3
morph = pymorphy3.MorphAnalyzer()
sys.stdout.write("ready\n")
sys.stdout.flush()
while True:
    line = sys.stdin.readline()
    if not line:
        break
    p = morph.parse(line.rstrip("\n"))[0]
    sys.stdout.write("%s\t%s\t%s\t%s\n" % (p.normal_form, p.tag.POS or "", p.score, p.tag))
    sys.stdout.flush()
`

// Process talks to a long-lived analyzer subprocess over a line protocol.
type Process struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *bytes.Buffer
	closed bool
}

// StartPymorphy launches pymorphy3 under the given interpreter ("python3" when empty).
func StartPymorphy(ctx context.Context, python string) (*Process, error) {
	if python == "" {
		python = "python3"
	}
	return startProcess(ctx, python, "-c", pymorphyScript)
}

func startProcess(ctx context.Context, name string, args ...string) (*Process, error) {
	// The process outlives ctx, which only bounds the handshake.
	cmd := exec.Command(name, args...)
	cmd.WaitDelay = time.Second
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	p := &Process{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		stderr: stderr,
	}

	ready := make(chan error, 1)
	go func() {
		line, err := p.stdout.ReadString('\n')
		if err != nil {
			ready <- err
			return
		}
		if strings.TrimSpace(line) != readyLine {
			ready <- fmt.Errorf("unexpected handshake %q", strings.TrimSpace(line))
			return
		}
		ready <- nil
	}()

	select {
	case err := <-ready:
		if err != nil {
			p.kill()
			if msg := strings.TrimSpace(p.stderr.String()); msg != "" {
				return nil, fmt.Errorf("handshake with %s: %w: %s", name, err, msg)
			}
			return nil, fmt.Errorf("handshake with %s: %w", name, err)
		}
	case <-ctx.Done():
		p.kill()
		return nil, ctx.Err()
	}
	return p, nil
}

func (p *Process) kill() {
	_ = p.stdin.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
	p.closed = true
}

// Analyze sends one word and reads its analysis.
func (p *Process) Analyze(ctx context.Context, word string) (Parse, error) {
	if err := ctx.Err(); err != nil {
		return Parse{}, err
	}
	if strings.ContainsAny(word, "\r\n") {
		return Parse{}, fmt.Errorf("word %q contains a line break", word)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return Parse{}, errors.New("analyzer process is closed")
	}
	if _, err := io.WriteString(p.stdin, word+"\n"); err != nil {
		return Parse{}, fmt.Errorf("write word: %w", err)
	}

	type reply struct {
		line string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		line, err := p.stdout.ReadString('\n')
		done <- reply{line, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return Parse{}, fmt.Errorf("read analysis: %w", r.err)
		}
		return parseProcessLine(word, r.line)
	case <-ctx.Done():
		// The reply stream is out of sync now; the process cannot be reused.
		p.kill()
		<-done
		return Parse{}, ctx.Err()
	}
}

func parseProcessLine(word, line string) (Parse, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < 3 || fields[0] == "" {
		return Parse{}, fmt.Errorf("malformed analysis %q", line)
	}
	score, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Parse{}, fmt.Errorf("malformed score in %q: %w", line, err)
	}
	p := Parse{
		Word:       word,
		NormalForm: fields[0],
		POS:        POS(fields[1]),
		Tag:        fields[1],
		Score:      score,
		Known:      true,
	}
	if len(fields) > 3 {
		p.Tag = fields[3]
	}
	return p, nil
}

// Close ends the subprocess by closing its stdin and waits for it to exit.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	_ = p.stdin.Close()
	if err := p.cmd.Wait(); err != nil {
		return fmt.Errorf("wait analyzer process: %w", err)
	}
	return nil
}
