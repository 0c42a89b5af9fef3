package domain

import (
	"net/url"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// SchemeByID addresses a key of a context by its id.
	SchemeByID = "by-id"
	// SchemeByTypeLatest addresses a key of the latest matching context of a task type.
	SchemeByTypeLatest = "by-type-latest"
)

// ImportKind classifies an import URI.
type ImportKind int

const (
	// ImportExternal is any URI that does not point into the storage.
	ImportExternal ImportKind = iota
	// ImportByID points at a specific context.
	ImportByID
	// ImportByTypeLatest points at the latest completed context of a type.
	ImportByTypeLatest
)

// ImportURI is a parsed import reference.
type ImportURI struct {
	Kind ImportKind
	// Target is the context id for ImportByID and the task type for ImportByTypeLatest.
	Target string
	// Key is the referenced key inside the target context.
	Key string
	// Constraints select candidates for ImportByTypeLatest.
	Constraints []Constraint
	// Raw is the URI as declared.
	Raw string
}

// ParseImportURI parses an import declaration.
func ParseImportURI(raw string) (ImportURI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ImportURI{}, zerr.With(zerr.Wrap(err, ErrInvalidImportURI.Error()), "uri", raw)
	}

	switch u.Scheme {
	case SchemeByID, SchemeByTypeLatest:
	case "":
		return ImportURI{}, Tag(ErrInvalidImportURI, "uri", raw)
	default:
		return ImportURI{Kind: ImportExternal, Raw: raw}, nil
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return ImportURI{}, Tag(ErrInvalidImportURI, "uri", raw)
	}

	if u.Scheme == SchemeByID {
		if u.RawQuery != "" {
			return ImportURI{}, Tag(ErrInvalidImportURI, "uri", raw)
		}
		return ImportURI{Kind: ImportByID, Target: u.Host, Key: key, Raw: raw}, nil
	}

	constraints, err := ParseConstraints(u.RawQuery)
	if err != nil {
		return ImportURI{}, zerr.With(err, "uri", raw)
	}
	return ImportURI{
		Kind:        ImportByTypeLatest,
		Target:      u.Host,
		Key:         key,
		Constraints: constraints,
		Raw:         raw,
	}, nil
}

// ByIDURI formats a by-id import URI.
func ByIDURI(contextID, key string) string {
	return SchemeByID + "://" + contextID + "/" + key
}
