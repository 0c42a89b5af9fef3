package domain

import (
	"context"
	"maps"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// KindBatch selects the batch engine.
	KindBatch = "batch"
	// KindShell selects the shell executor.
	KindShell = "shell"

	// SubtasksAttribute lists the ids produced by a batch, in production order.
	SubtasksAttribute = "subtasks"
)

var taskTypePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Param declares a named parameter of a task.
// Discriminator parameters are part of the cache identity of an execution.
type Param struct {
	Name          string
	Discriminator bool
	Default       any
}

// Hooks are optional callbacks around the execution of a task.
type Hooks struct {
	Setup    func(ctx context.Context, t *Task) error
	Teardown func(ctx context.Context, t *Task) error
}

// Task is a unit of work identified by its type.
type Task struct {
	Type     string
	Kind     string
	Params   []Param
	Imports  map[string]string
	// Writable names the imports an executor may modify. They are copied
	// into the context first; every other import is exposed read-only.
	Writable []string
	Reports  []string
	Command  []string
	Subtasks []*Task
	Space    *ParameterSpace
	Policy   ExecutionPolicy
	Workers  int
	Hooks    Hooks

	values      map[string]any
	config      Configuration
	attributes  map[string]string
	initialized bool
}

// Validate checks the task definition and, for batches, all of its subtasks.
func (t *Task) Validate() error {
	if !taskTypePattern.MatchString(t.Type) {
		return Tag(ErrInvalidTaskType, "type", t.Type)
	}

	seen := make(map[string]struct{}, len(t.Params))
	for _, p := range t.Params {
		if p.Name == "" {
			return zerr.With(zerr.Wrap(ErrInvalidTask, "parameter without name"), "type", t.Type)
		}
		if _, ok := seen[p.Name]; ok {
			return zerr.With(Tag(ErrDuplicateParam, "param", p.Name), "type", t.Type)
		}
		seen[p.Name] = struct{}{}
	}

	for name, uri := range t.Imports {
		if IsReservedKey(name) {
			return zerr.With(Tag(ErrReservedKey, "key", name), "type", t.Type)
		}
		if _, err := ParseImportURI(uri); err != nil {
			return zerr.With(err, "type", t.Type)
		}
	}

	for _, name := range t.Writable {
		if _, ok := t.Imports[name]; !ok {
			return zerr.With(zerr.With(zerr.Wrap(ErrInvalidTask, "writable import is not declared"), "import", name), "type", t.Type)
		}
	}

	switch t.Kind {
	case KindShell:
		if len(t.Command) == 0 {
			return zerr.With(zerr.Wrap(ErrInvalidTask, "shell task without command"), "type", t.Type)
		}
	case KindBatch:
		for _, sub := range t.Subtasks {
			if err := sub.Validate(); err != nil {
				return err
			}
		}
	case "":
		return zerr.With(zerr.Wrap(ErrInvalidTask, "task without kind"), "type", t.Type)
	}

	return nil
}

// Configure binds the declared parameters present in cfg and keeps a copy of
// the whole configuration.
func (t *Task) Configure(cfg Configuration) {
	t.config = cfg.Clone()
	t.values = make(map[string]any, len(t.Params))
	for _, p := range t.Params {
		if v, ok := cfg[p.Name]; ok {
			t.values[p.Name] = v
		}
	}
}

// Configuration returns the configuration last bound onto the task.
func (t *Task) Configuration() Configuration {
	if t.config == nil {
		return Configuration{}
	}
	return t.config.Clone()
}

// Value returns the bound value of a parameter, falling back to its default.
func (t *Task) Value(name string) (any, bool) {
	if v, ok := t.values[name]; ok {
		return v, true
	}
	for _, p := range t.Params {
		if p.Name == name {
			return p.Default, true
		}
	}
	return nil, false
}

// Discriminators returns the cache identity contributed by the task itself.
func (t *Task) Discriminators() Discriminators {
	out := make(Discriminators)
	for _, p := range t.Params {
		if !p.Discriminator {
			continue
		}
		v, _ := t.Value(p.Name)
		out[DiscriminatorKey(t.Type, p.Name)] = FormatValue(v)
	}
	return out
}

// Attributes returns the non-discriminator parameters and runtime attributes.
func (t *Task) Attributes() map[string]string {
	out := make(map[string]string, len(t.Params)+len(t.attributes))
	for _, p := range t.Params {
		if p.Discriminator {
			continue
		}
		v, _ := t.Value(p.Name)
		out[p.Name] = FormatValue(v)
	}
	maps.Copy(out, t.attributes)
	return out
}

// SetAttribute records a runtime attribute.
func (t *Task) SetAttribute(key, value string) {
	if t.attributes == nil {
		t.attributes = make(map[string]string)
	}
	t.attributes[key] = value
}

// SetSubtasks records the ids produced by a batch.
func (t *Task) SetSubtasks(ids []string) {
	t.SetAttribute(SubtasksAttribute, strings.Join(ids, ","))
}

// ParseSubtasks reads the ids recorded by SetSubtasks.
func ParseSubtasks(attrs map[string]string) []string {
	raw := attrs[SubtasksAttribute]
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Initialize runs the setup hook. A task is initialized at most once per execution.
func (t *Task) Initialize(ctx context.Context) error {
	if t.initialized {
		return Tag(ErrAlreadyInitialized, "type", t.Type)
	}
	if t.Hooks.Setup != nil {
		if err := t.Hooks.Setup(ctx, t); err != nil {
			return zerr.With(zerr.Wrap(err, "setup hook failed"), "type", t.Type)
		}
	}
	t.initialized = true
	return nil
}

// Destroy resets the initialized flag and runs the teardown hook.
func (t *Task) Destroy(ctx context.Context) error {
	t.initialized = false
	if t.Hooks.Teardown == nil {
		return nil
	}
	if err := t.Hooks.Teardown(ctx, t); err != nil {
		return zerr.With(zerr.Wrap(err, "teardown hook failed"), "type", t.Type)
	}
	return nil
}

// Initialized reports whether setup ran and teardown has not.
func (t *Task) Initialized() bool {
	return t.initialized
}

// ImportMode returns the access mode executors use for the import name.
func (t *Task) ImportMode(name string) AccessMode {
	if slices.Contains(t.Writable, name) {
		return ReadWrite
	}
	return ReadOnly
}

// ImportNames returns the names of the declared imports in sorted order.
func (t *Task) ImportNames() []string {
	return slices.Sorted(maps.Keys(t.Imports))
}
