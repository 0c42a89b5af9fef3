package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"float", 0.5, "0.5"},
		{"bool", true, "true"},
		{"stringer", 1500 * time.Millisecond, "1.5s"},
		{"slice", []int{1, 2}, "[1,2]"},
		{"map", map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.FormatValue(tt.in))
		})
	}
}

func TestDiscriminators_Match(t *testing.T) {
	t.Parallel()

	d := domain.Discriminators{
		"prep|size":  "10",
		"train|rate": "0.1",
		"train|size": "10",
	}

	mustConstraint := func(k, v string) domain.Constraint {
		c, err := domain.NewConstraint(k, v)
		require.NoError(t, err)
		return c
	}

	t.Run("qualified key", func(t *testing.T) {
		t.Parallel()
		assert.True(t, d.Match([]domain.Constraint{mustConstraint("train|rate", `0\..*`)}, true))
		assert.False(t, d.Match([]domain.Constraint{mustConstraint("train|rate", "1")}, true))

		bare := domain.Discriminators{"train": "0.1", "rate": "0.1"}
		assert.False(t, bare.Match([]domain.Constraint{mustConstraint("train|rate", ".*")}, true), "owner is not an alternative")
		assert.True(t, d.Match([]domain.Constraint{mustConstraint("tr.*|size", "10")}, true))
	})

	t.Run("short key matches every owner", func(t *testing.T) {
		t.Parallel()
		assert.True(t, d.Match([]domain.Constraint{mustConstraint("size", "10")}, true))
		other := domain.Discriminators{"prep|size": "10", "train|size": "20"}
		assert.False(t, other.Match([]domain.Constraint{mustConstraint("size", "10")}, true))
	})

	t.Run("unmatched key", func(t *testing.T) {
		t.Parallel()
		cs := []domain.Constraint{mustConstraint("epochs", "5")}
		assert.False(t, d.Match(cs, true), "strict")
		assert.True(t, d.Match(cs, false), "loose")
	})

	t.Run("configuration compatibility", func(t *testing.T) {
		t.Parallel()
		cs := domain.ConfigurationConstraints(domain.Configuration{"size": 10, "seed": 7})
		assert.True(t, d.Match(cs, false))
		cs = domain.ConfigurationConstraints(domain.Configuration{"size": 20})
		assert.False(t, d.Match(cs, false))
	})

	t.Run("patterns are anchored", func(t *testing.T) {
		t.Parallel()
		assert.False(t, d.Match([]domain.Constraint{mustConstraint("siz", "10")}, true))
		assert.False(t, d.Match([]domain.Constraint{mustConstraint("size", "1")}, true))
	})

	t.Run("exact constraints quote metacharacters", func(t *testing.T) {
		t.Parallel()
		dots := domain.Discriminators{"a|x": "1.5"}
		assert.True(t, dots.Match(dots.Constraints(), true))
		assert.False(t, domain.Discriminators{"a|x": "105"}.Match(dots.Constraints(), true))
	})
}

func TestNewConstraint_Invalid(t *testing.T) {
	t.Parallel()

	_, err := domain.NewConstraint("(", "x")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidConstraint.Error())
}

func TestResolveDiscriminators(t *testing.T) {
	t.Parallel()

	own := domain.Source{Type: "train", Values: domain.Discriminators{"train|rate": "0.1"}}

	t.Run("merges sources", func(t *testing.T) {
		t.Parallel()
		got, err := domain.ResolveDiscriminators(own,
			domain.Source{Type: "prep", ContextID: "prep-1", Values: domain.Discriminators{"prep|size": "10"}},
			domain.Source{Type: "feat", ContextID: "feat-1", Values: domain.Discriminators{"prep|size": "10", "feat|n": "3"}},
		)
		require.NoError(t, err)
		assert.Equal(t, domain.Discriminators{"train|rate": "0.1", "prep|size": "10", "feat|n": "3"}, got)
	})

	t.Run("conflict names both sources", func(t *testing.T) {
		t.Parallel()
		_, err := domain.ResolveDiscriminators(own,
			domain.Source{Type: "left", ContextID: "left-1", Values: domain.Discriminators{"prep|size": "10"}},
			domain.Source{Type: "right", ContextID: "right-1", Values: domain.Discriminators{"prep|size": "20"}},
		)
		require.ErrorIs(t, err, domain.ErrDiscriminatorConflict)
		assert.ErrorContains(t, err, "left")
		assert.ErrorContains(t, err, "right")

		var zErr *zerr.Error
		require.True(t, errors.As(err, &zErr))
		meta := zErr.Metadata()
		assert.Equal(t, "left", meta["first"])
		assert.Equal(t, "right", meta["second"])
		assert.Equal(t, "prep|size", meta["key"])
	})
}

func TestDiscriminators_Fingerprint(t *testing.T) {
	t.Parallel()

	a := domain.Discriminators{"x|a": "1", "x|b": "2"}
	b := domain.Discriminators{"x|b": "2", "x|a": "1"}
	c := domain.Discriminators{"x|a": "1", "x|b": "3"}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
