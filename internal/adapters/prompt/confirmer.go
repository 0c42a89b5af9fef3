// Package prompt asks the user whether prior executions should be reused.
package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// Confirmer asks on the terminal. It implements ports.Confirmer.
// Without a terminal every prior execution is reused.
type Confirmer struct {
	mu          sync.Mutex
	in          io.Reader
	out         io.Writer
	interactive bool
	accessible  bool
}

// Option configures a Confirmer.
type Option func(*Confirmer)

// WithIO replaces stdin and stdout and enables accessible mode, which reads
// plain lines instead of driving the terminal.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Confirmer) {
		c.in = in
		c.out = out
		c.interactive = true
		c.accessible = true
	}
}

// New creates a confirmer bound to the process terminal.
func New(opts ...Option) *Confirmer {
	c := &Confirmer{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())), //nolint:gosec // fd fits in int
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConfirmRerun returns true when the user chooses to execute task again.
// Prompts are serialized across workers.
func (c *Confirmer) ConfirmRerun(ctx context.Context, task *domain.Task, existing *domain.ContextMetadata) (bool, error) {
	if !c.interactive {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rerun := false
	confirm := huh.NewConfirm().
		Title(fmt.Sprintf("%s already ran as %s", task.Type, existing.ID)).
		Description(describe(existing)).
		Affirmative("Run again").
		Negative("Reuse").
		Value(&rerun)

	form := huh.NewForm(huh.NewGroup(confirm)).
		WithInput(c.in).
		WithOutput(c.out).
		WithAccessible(c.accessible)

	if err := form.RunWithContext(ctx); err != nil {
		return false, zerr.With(zerr.Wrap(err, "confirmation aborted"), "type", task.Type)
	}
	return rerun, nil
}

func describe(m *domain.ContextMetadata) string {
	if m.End.IsZero() {
		return "Completed at an unknown time."
	}
	return "Completed " + m.End.Local().Format(time.DateTime) + "."
}
