package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads user input line by line and gives up when the context ends.
type LineReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(r)}
}

// ReadLine reads one line and trims surrounding whitespace. A final line
// without a newline is still returned.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		value, err := r.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && value != "" {
			err = nil
		}
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		// The read goroutine finishes on its own once input arrives.
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// Prompter asks questions on out and reads answers from a LineReader.
type Prompter struct {
	in  *LineReader
	out io.Writer
}

// NewPrompter creates a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: NewLineReader(in), out: out}
}

// Ask prints question and returns the trimmed answer, or def when the
// answer is empty.
func (p *Prompter) Ask(ctx context.Context, question, def string) (string, error) {
	label := question
	if def != "" {
		label = fmt.Sprintf("%s [%s]", question, def)
	}
	if _, err := fmt.Fprint(p.out, FormatPrompt(label)); err != nil {
		return "", err
	}

	answer, err := p.in.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. Only an explicit yes ("s", "sim", "y",
// "yes") confirms.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (s/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
