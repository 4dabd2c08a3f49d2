package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_ReadLine(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedValue string
		expectError   bool
	}{
		{name: "successful read", input: "test input\n", expectedValue: "test input"},
		{name: "extra whitespace", input: "  test input  \n", expectedValue: "test input"},
		{name: "empty line", input: "\n", expectedValue: ""},
		{name: "no trailing newline", input: "last", expectedValue: "last"},
		{name: "eof", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input))
			result, err := r.ReadLine(context.Background())

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedValue, result)
		})
	}
}

func TestLineReader_ContextCancellation(t *testing.T) {
	t.Run("immediate cancellation", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()

		r := NewLineReader(pr)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})

	t.Run("cancellation during read", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()

		r := NewLineReader(pr)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})
}

func TestLineReader_MultipleReads(t *testing.T) {
	r := NewLineReader(strings.NewReader("line1\nline2\nline3\n"))
	ctx := context.Background()

	for _, want := range []string{"line1", "line2", "line3"} {
		got, err := r.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\nAna\n"), &out)
	ctx := context.Background()

	got, err := p.Ask(ctx, "Nome", "Usuário")
	require.NoError(t, err)
	assert.Equal(t, "Usuário", got)
	assert.Contains(t, out.String(), "Nome [Usuário]")

	got, err = p.Ask(ctx, "Nome", "Usuário")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "s\n", want: true},
		{input: "SIM\n", want: true},
		{input: "y\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "talvez\n", want: false},
	}

	for _, tt := range tests {
		p := NewPrompter(strings.NewReader(tt.input), io.Discard)
		got, err := p.Confirm(context.Background(), "Excluir?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.input)
	}
}
