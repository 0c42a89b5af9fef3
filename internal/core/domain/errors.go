package domain

import "go.trai.ch/zerr"

var (
	// ErrEmptyDimension is returned when a dimension without values is iterated.
	ErrEmptyDimension = zerr.New("dimension has no values")

	// ErrDimensionExhausted is returned when Next is called past the last value of a dimension.
	ErrDimensionExhausted = zerr.New("dimension exhausted")

	// ErrDimensionNotStarted is returned when Current is called before the first Next.
	ErrDimensionNotStarted = zerr.New("dimension not started")

	// ErrInvalidDimension is returned when a dimension is constructed with invalid arguments.
	ErrInvalidDimension = zerr.New("invalid dimension")

	// ErrConditionFailed is returned when a parameter space condition cannot be evaluated.
	ErrConditionFailed = zerr.New("failed to evaluate condition")

	// ErrInvalidConstraint is returned when a constraint pattern does not compile.
	ErrInvalidConstraint = zerr.New("invalid constraint")

	// ErrDiscriminatorConflict is returned when two sources disagree on a discriminator value.
	ErrDiscriminatorConflict = zerr.New("discriminator conflict")

	// ErrInvalidTaskType is returned when a task type contains invalid characters.
	ErrInvalidTaskType = zerr.New("task type can only contain alphanumeric characters, dots, hyphens and underscores")

	// ErrDuplicateParam is returned when a task declares the same parameter twice.
	ErrDuplicateParam = zerr.New("duplicate parameter")

	// ErrInvalidTask is returned when a task definition is incomplete for its kind.
	ErrInvalidTask = zerr.New("invalid task")

	// ErrAlreadyInitialized is returned when a task is initialized twice.
	ErrAlreadyInitialized = zerr.New("task already initialized")

	// ErrInvalidImportURI is returned when an import URI cannot be parsed.
	ErrInvalidImportURI = zerr.New("invalid import uri")

	// ErrUnresolvedImport is returned when an import cannot be resolved yet.
	// Schedulers treat it as a reason to defer, not to abort.
	ErrUnresolvedImport = zerr.New("unresolved import")

	// ErrUnfulfillablePrerequisite is returned when deferred subtasks stop making progress.
	ErrUnfulfillablePrerequisite = zerr.New("unfulfillable prerequisite")

	// ErrContextNotFound is returned when no completed context matches a lookup.
	ErrContextNotFound = zerr.New("context not found")

	// ErrKeyNotFound is returned when a key does not exist in a context.
	ErrKeyNotFound = zerr.New("key not found")

	// ErrInvalidKey is returned when a storage key is absolute or escapes its context.
	ErrInvalidKey = zerr.New("invalid storage key")

	// ErrReservedKey is returned when a task writes to a key reserved for bookkeeping.
	ErrReservedKey = zerr.New("storage key is reserved")

	// ErrStoreWriteFailed is returned when an object cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write object")

	// ErrStoreReadFailed is returned when an object cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read object")

	// ErrStoreMarshalFailed is returned when a record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal record")

	// ErrStoreUnmarshalFailed is returned when a record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal record")

	// ErrCopyFailed is returned when an import cannot be materialized.
	ErrCopyFailed = zerr.New("failed to copy object")

	// ErrDeleteFailed is returned when a key or context cannot be removed.
	ErrDeleteFailed = zerr.New("failed to delete")

	// ErrStoreLockFailed is returned when the storage root lock cannot be acquired.
	ErrStoreLockFailed = zerr.New("storage root is locked by another process")

	// ErrIllegalTransition is returned when a life-cycle transition is not allowed.
	ErrIllegalTransition = zerr.New("illegal life-cycle transition")

	// ErrLifecycleViolation is returned when a teardown hook leaves a task initialized.
	ErrLifecycleViolation = zerr.New("task still initialized after teardown")

	// ErrReportFailed is returned when a report fails during completion.
	ErrReportFailed = zerr.New("report failed")

	// ErrUnknownReport is returned when a task references a report that is not registered.
	ErrUnknownReport = zerr.New("unknown report")

	// ErrUnknownKind is returned when no executor is registered for a task kind.
	ErrUnknownKind = zerr.New("no executor registered for task kind")

	// ErrTaskFailed is returned when a task execution fails.
	ErrTaskFailed = zerr.New("task execution failed")

	// ErrFetchFailed is returned when an external import cannot be fetched.
	ErrFetchFailed = zerr.New("failed to fetch external import")

	// ErrUnsupportedScheme is returned when an external import uses an unknown scheme.
	ErrUnsupportedScheme = zerr.New("unsupported import scheme")

	// ErrConfigReadFailed is returned when the experiment file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read experiment file")

	// ErrConfigParseFailed is returned when the experiment file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse experiment file")

	// ErrInvalidPolicy is returned when an execution policy name is unknown.
	ErrInvalidPolicy = zerr.New("invalid execution policy, expected 'run-again', 'use-existing' or 'ask-existing'")

	// ErrSettingsLoadFailed is returned when runtime settings cannot be loaded.
	ErrSettingsLoadFailed = zerr.New("failed to load settings")
)

// Tag attaches key-value metadata to a sentinel error while keeping it
// matchable with errors.Is.
func Tag(sentinel error, kv ...any) error {
	err := zerr.Wrap(sentinel, "")
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		err = zerr.With(err, key, kv[i+1])
	}
	return err
}
