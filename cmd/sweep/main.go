// Package main is the entry point for the sweep experiment runner.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/sweep/cmd/sweep/commands"
	"go.trai.ch/sweep/internal/app"
	"go.trai.ch/sweep/internal/core/domain"
	_ "go.trai.ch/sweep/internal/wiring"
)

// Exit codes.
const (
	exitOK            = 0
	exitFailure       = 1
	exitUnfulfillable = 3
	exitInterrupted   = 130
)

var errInterrupted = errors.New("interrupted")

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	ctx, stop := interruptible(ctx, stderr)
	defer stop()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// No logger without components.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return exitFailure
	}
	defer cleanup()

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	err = cli.Execute(ctx)
	if err != nil {
		components.Logger.Error(err)
	}
	return exitCode(ctx, err)
}

// interruptible cancels the returned context on the first interrupt, letting
// running tasks tear down and their contexts be discarded. A second interrupt
// exits at once.
func interruptible(parent context.Context, stderr io.Writer) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-signals:
			_, _ = fmt.Fprintf(stderr, "received %s, stopping running tasks; interrupt again to abort\n", sig)
			cancel(errInterrupted)
		case <-done:
			return
		}
		select {
		case <-signals:
			os.Exit(exitInterrupted)
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(signals)
		close(done)
		cancel(nil)
	}
}

// exitCode maps the outcome of a command to the process exit status.
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(context.Cause(ctx), errInterrupted):
		return exitInterrupted
	case errors.Is(err, domain.ErrUnfulfillablePrerequisite):
		return exitUnfulfillable
	default:
		return exitFailure
	}
}
