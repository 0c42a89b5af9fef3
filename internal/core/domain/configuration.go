package domain

import (
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Configuration maps parameter names to the values of one point in a parameter space.
type Configuration map[string]any

// Clone returns a shallow copy of the configuration.
func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	maps.Copy(out, c)
	return out
}

// Merge returns a new configuration holding c overlaid with other.
// Keys present in both take the value from other.
func (c Configuration) Merge(other Configuration) Configuration {
	out := make(Configuration, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}

// Keys returns the configuration keys in sorted order.
func (c Configuration) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Fingerprint returns a stable hash of the configuration values.
func (c Configuration) Fingerprint() uint64 {
	h := xxhash.New()
	for _, k := range c.Keys() {
		_, _ = h.WriteString(k)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(FormatValue(c[k]))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
