package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a long-running command on SIGINT/SIGTERM and tells
// the user what state was left behind.
type InterruptHandler struct {
	writer      io.Writer
	message     string
	hint        string
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a handler that prints message, and hint when
// set, on the first interrupt.
func NewInterruptHandler(writer io.Writer, message, hint string) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer:  writer,
		message: message,
		hint:    hint,
	}
}

// HandleInterrupts returns a context canceled on interrupt. The returned
// stop function releases the signal handler.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			h.interrupt(cancel)
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func (h *InterruptHandler) interrupt(cancel context.CancelFunc) {
	h.mu.Lock()
	if !h.interrupted {
		h.interrupted = true
		h.showInterruptMessage()
	}
	h.mu.Unlock()
	cancel()
}

func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n" + FormatWarning(h.message)
	if h.hint != "" {
		msg += "\n" + FormatInfo(h.hint)
	}
	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted reports whether a signal was received.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
