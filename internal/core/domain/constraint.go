package domain

import (
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Constraint is a pair of anchored patterns over a discriminator key and its value.
type Constraint struct {
	key   *regexp.Regexp
	value *regexp.Regexp
	raw   [2]string
}

// NewConstraint compiles a key pattern and a value pattern.
// A key pattern without an owner prefix matches that name under any task type.
// The first separator in a key pattern splits owner from name, so the owner
// and name patterns cannot contain a literal separator themselves.
func NewConstraint(keyPattern, valuePattern string) (Constraint, error) {
	owner, name, qualified := strings.Cut(keyPattern, KeySeparator)
	if !qualified {
		owner, name = `[^|]*`, keyPattern
	}
	kp := "(?:" + owner + ")" + regexp.QuoteMeta(KeySeparator) + "(?:" + name + ")"
	key, err := regexp.Compile("^(?:" + kp + ")$")
	if err != nil {
		return Constraint{}, zerr.With(zerr.Wrap(err, ErrInvalidConstraint.Error()), "pattern", keyPattern)
	}
	value, err := regexp.Compile("^(?:" + valuePattern + ")$")
	if err != nil {
		return Constraint{}, zerr.With(zerr.Wrap(err, ErrInvalidConstraint.Error()), "pattern", valuePattern)
	}
	return Constraint{key: key, value: value, raw: [2]string{keyPattern, valuePattern}}, nil
}

// ExactConstraint matches a literal key and value.
func ExactConstraint(key, value string) Constraint {
	kp := regexp.QuoteMeta(key)
	if !strings.Contains(key, KeySeparator) {
		kp = `[^|]*\|` + kp
	}
	return Constraint{
		key:   regexp.MustCompile("^" + kp + "$"),
		value: regexp.MustCompile("^" + regexp.QuoteMeta(value) + "$"),
		raw:   [2]string{key, value},
	}
}

// MatchKey reports whether key is selected by the constraint.
func (c Constraint) MatchKey(key string) bool {
	return c.key != nil && c.key.MatchString(key)
}

// MatchValue reports whether value satisfies the constraint.
func (c Constraint) MatchValue(value string) bool {
	return c.value != nil && c.value.MatchString(value)
}

func (c Constraint) String() string {
	return c.raw[0] + "=" + c.raw[1]
}

// ParseConstraints reads constraints from a URI query string of the form
// key=value&key=value. Keys are processed in sorted order.
func ParseConstraints(query string) ([]Constraint, error) {
	if query == "" {
		return nil, nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidConstraint.Error()), "query", query)
	}
	out := make([]Constraint, 0, len(values))
	for _, k := range slices.Sorted(maps.Keys(values)) {
		for _, v := range values[k] {
			c, err := NewConstraint(k, v)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// ConfigurationConstraints turns every configuration entry into an exact
// constraint on the discriminator of that short name.
func ConfigurationConstraints(cfg Configuration) []Constraint {
	out := make([]Constraint, 0, len(cfg))
	for _, k := range cfg.Keys() {
		out = append(out, ExactConstraint(k, FormatValue(cfg[k])))
	}
	return out
}
