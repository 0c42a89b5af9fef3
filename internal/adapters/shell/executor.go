// Package shell provides the shell executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Keys the executor stores the command output under.
const (
	StdoutKey = "stdout.log"
	StderrKey = "stderr.log"
)

// Environment variables exported to commands.
const (
	EnvContextDir   = "SWEEP_CONTEXT_DIR"
	EnvParamPrefix  = "SWEEP_PARAM_"
	EnvImportPrefix = "SWEEP_IMPORT_"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
	tracer ports.Tracer
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger, tracer ports.Tracer) *Executor {
	return &Executor{
		logger: logger,
		tracer: tracer,
	}
}

// Execute runs the command of task inside the directory of tc.
// Output is mirrored line by line to the logger and the span of the command
// and stored in the context once the command exits.
func (e *Executor) Execute(ctx context.Context, tc ports.TaskContext, task *domain.Task) error {
	if len(task.Command) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidTask, "shell task without command"), "type", task.Type)
	}

	env, dir, err := e.environment(ctx, tc, task)
	if err != nil {
		return err
	}

	ctx, span := e.tracer.Start(ctx, strings.Join(task.Command, " "), ports.WithAttribute("context.id", tc.ID()))
	defer span.End()

	var stdout, stderr bytes.Buffer
	trace := &syncWriter{w: span}
	outLog := &logWriter{log: e.logger.Info}
	errLog := &logWriter{log: e.logger.Warn}

	cmd := exec.CommandContext(ctx, task.Command[0], task.Command[1:]...) //nolint:gosec // user provided command
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = io.MultiWriter(&stdout, outLog, trace)
	cmd.Stderr = io.MultiWriter(&stderr, errLog, trace)

	runErr := cmd.Run()
	outLog.Flush()
	errLog.Flush()

	storeErr := errors.Join(
		tc.Store(ctx, StdoutKey, &stdout),
		tc.Store(ctx, StderrKey, &stderr),
	)

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err := zerr.With(zerr.Wrap(runErr, "command failed"), "exit_code", exitCode)
		span.RecordError(err)
		return err
	}
	return storeErr
}

// environment builds the environment of the command and returns the
// directory of the context.
func (e *Executor) environment(ctx context.Context, tc ports.TaskContext, task *domain.Task) ([]string, string, error) {
	marker, err := tc.Locate(ctx, StdoutKey, domain.ReadWrite)
	if err != nil {
		return nil, "", err
	}
	dir := filepath.Dir(marker)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, "", zerr.With(zerr.Wrap(err, "failed to create context directory"), "id", tc.ID())
	}

	vars := map[string]string{EnvContextDir: dir}
	for _, p := range task.Params {
		v, _ := task.Value(p.Name)
		vars[EnvParamPrefix+envName(p.Name)] = domain.FormatValue(v)
	}
	for _, name := range task.ImportNames() {
		loc, err := tc.Locate(ctx, name, task.ImportMode(name))
		if err != nil {
			return nil, "", zerr.With(err, "import", name)
		}
		vars[EnvImportPrefix+envName(name)] = loc
	}

	return mergeEnvironment(os.Environ(), vars), dir, nil
}

// mergeEnvironment overrides sysEnv with vars.
func mergeEnvironment(sysEnv []string, vars map[string]string) []string {
	result := make([]string, 0, len(sysEnv)+len(vars))
	for _, entry := range sysEnv {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, override := vars[k]; override {
			continue
		}
		result = append(result, entry)
	}
	for k, v := range vars {
		result = append(result, k+"="+v)
	}
	return result
}

// envName upper-cases name and replaces everything but letters and digits with underscores.
func envName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

// logWriter forwards complete lines to log. Partial lines are buffered
// until a newline arrives or Flush is called.
type logWriter struct {
	mu  sync.Mutex
	buf []byte
	log func(string)
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush forwards a trailing partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *logWriter) emit(line []byte) {
	w.log(strings.TrimSuffix(string(line), "\r"))
}

// syncWriter serializes writes coming from the stdout and stderr copiers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
