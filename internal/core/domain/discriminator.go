package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// KeySeparator separates the owning task type from the parameter name in a discriminator key.
const KeySeparator = "|"

// Discriminators maps "<type>|<name>" keys to formatted parameter values.
// They form the cache identity of an execution.
type Discriminators map[string]string

// DiscriminatorKey returns the key under which a parameter of a task type is recorded.
func DiscriminatorKey(taskType, name string) string {
	return taskType + KeySeparator + name
}

// SplitDiscriminatorKey splits a key into its owning type and parameter name.
// Keys without an owner return an empty type.
func SplitDiscriminatorKey(key string) (owner, name string) {
	owner, name, ok := strings.Cut(key, KeySeparator)
	if !ok {
		return "", key
	}
	return owner, name
}

// FormatValue renders a parameter value the way it is recorded in discriminators.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Keys returns the discriminator keys in sorted order.
func (d Discriminators) Keys() []string {
	return slices.Sorted(maps.Keys(d))
}

// Fingerprint returns a stable hash of the discriminators.
func (d Discriminators) Fingerprint() uint64 {
	h := xxhash.New()
	for _, k := range d.Keys() {
		_, _ = h.WriteString(k)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(d[k])
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// Match reports whether the discriminators satisfy every constraint.
// A constraint whose key matches no discriminator fails in strict mode and is
// ignored otherwise. Every discriminator matched by a constraint key must have
// a value matching the constraint value.
func (d Discriminators) Match(constraints []Constraint, strict bool) bool {
	for _, c := range constraints {
		matched := false
		for k, v := range d {
			if !c.MatchKey(k) {
				continue
			}
			matched = true
			if !c.MatchValue(v) {
				return false
			}
		}
		if !matched && strict {
			return false
		}
	}
	return true
}

// Constraints converts the discriminators into exact-match constraints.
func (d Discriminators) Constraints() []Constraint {
	out := make([]Constraint, 0, len(d))
	for _, k := range d.Keys() {
		out = append(out, ExactConstraint(k, d[k]))
	}
	return out
}

// Source is a set of discriminators contributed by one task or context.
type Source struct {
	Type      string
	ContextID string
	Values    Discriminators
}

func (s Source) String() string {
	if s.ContextID == "" {
		return s.Type
	}
	return fmt.Sprintf("%s (%s)", s.Type, s.ContextID)
}

// ResolveDiscriminators merges the discriminators of a task with those of its imports.
// The same key with different values in two sources is a conflict.
func ResolveDiscriminators(own Source, imported ...Source) (Discriminators, error) {
	resolved := make(Discriminators, len(own.Values))
	origin := make(map[string]Source, len(own.Values))

	for _, src := range append([]Source{own}, imported...) {
		for _, k := range src.Values.Keys() {
			v := src.Values[k]
			prev, seen := resolved[k]
			if !seen {
				resolved[k] = v
				origin[k] = src
				continue
			}
			if prev == v {
				continue
			}
			first := origin[k]
			err := zerr.Wrap(ErrDiscriminatorConflict, fmt.Sprintf(
				"discriminator %q is %q in %s but %q in %s", k, prev, first, v, src))
			err = zerr.With(err, "key", k)
			err = zerr.With(err, "first", first.Type)
			return nil, zerr.With(err, "second", src.Type)
		}
	}

	return resolved, nil
}
