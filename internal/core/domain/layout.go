package domain

import "path/filepath"

const (
	// SweepDirName is the name of the internal workspace directory.
	SweepDirName = ".sweep"

	// StoreDirName is the name of the context storage directory.
	StoreDirName = "store"

	// LockFileName is the name of the storage root lock file.
	LockFileName = ".lock"

	// MetadataKey is the reserved key holding the context metadata.
	// Its presence is the commit marker of an execution.
	MetadataKey = "metadata.json"

	// DiscriminatorsKey is the reserved key holding the resolved discriminators of a context.
	DiscriminatorsKey = "discriminators.json"

	// AttributesKey is the reserved key holding the attributes of a context.
	AttributesKey = "attributes.json"

	// TempMarker separates a key from the random suffix of its in-flight temporary artifact.
	TempMarker = ".tmp-"

	// GzipSuffix marks keys stored with gzip compression.
	GzipSuffix = ".gz"

	// ZstdSuffix marks keys stored with zstd compression.
	ZstdSuffix = ".zst"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// IsReservedKey reports whether key is used for context bookkeeping.
func IsReservedKey(key string) bool {
	switch key {
	case MetadataKey, DiscriminatorsKey, AttributesKey:
		return true
	default:
		return false
	}
}

// DefaultSweepPath returns the default root directory for sweep metadata.
func DefaultSweepPath() string {
	return SweepDirName
}

// DefaultStorePath returns the default path for the context store.
// It joins .sweep and store.
func DefaultStorePath() string {
	return filepath.Join(SweepDirName, StoreDirName)
}
