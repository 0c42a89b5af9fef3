package domain

import (
	"iter"
	"maps"

	"go.trai.ch/zerr"
)

// Condition decides whether a configuration belongs to a parameter space.
type Condition func(cfg Configuration) (bool, error)

// ParameterSpace enumerates the cartesian product of its dimensions.
// The last dimension varies fastest. A configuration is accepted when the
// space has no conditions or when at least one condition holds.
type ParameterSpace struct {
	dimensions []Dimension
	conditions []Condition
	steps      int
}

// NewParameterSpace creates a parameter space over the given dimensions.
func NewParameterSpace(dimensions ...Dimension) *ParameterSpace {
	return &ParameterSpace{dimensions: dimensions}
}

// AddCondition appends conditions to the space.
func (s *ParameterSpace) AddCondition(conditions ...Condition) *ParameterSpace {
	s.conditions = append(s.conditions, conditions...)
	return s
}

// Dimensions returns the dimensions of the space.
func (s *ParameterSpace) Dimensions() []Dimension {
	return s.dimensions
}

// StepCount returns the number of candidates evaluated since the last reset,
// including the ones rejected by conditions.
func (s *ParameterSpace) StepCount() int {
	return s.steps
}

// Size estimates the number of candidates. The estimate is exact only when
// every dimension reports its size.
func (s *ParameterSpace) Size() (int, bool) {
	n, exact := 1, true
	for _, d := range s.dimensions {
		fs, ok := d.(FixedSize)
		if !ok {
			exact = false
			continue
		}
		n *= fs.Size()
	}
	return n, exact
}

// Reset rewinds every dimension and clears the step count.
func (s *ParameterSpace) Reset() {
	for _, d := range s.dimensions {
		d.Rewind()
	}
	s.steps = 0
}

// All yields every accepted configuration. Iteration restarts from the first
// configuration each time All is ranged over. An error ends the iteration.
func (s *ParameterSpace) All() iter.Seq2[Configuration, error] {
	return func(yield func(Configuration, error) bool) {
		s.Reset()
		for _, d := range s.dimensions {
			if err := d.Next(); err != nil {
				yield(nil, err)
				return
			}
		}

		for {
			cfg, err := s.materialize()
			if err != nil {
				yield(nil, err)
				return
			}
			s.steps++

			ok, err := s.accept(cfg)
			if err != nil {
				yield(nil, err)
				return
			}
			if ok && !yield(cfg, nil) {
				return
			}

			more, err := s.advance()
			if err != nil {
				yield(nil, err)
				return
			}
			if !more {
				return
			}
		}
	}
}

// advance moves the odometer by one position and reports whether a new
// position exists.
func (s *ParameterSpace) advance() (bool, error) {
	for i := len(s.dimensions) - 1; i >= 0; i-- {
		d := s.dimensions[i]
		if d.HasNext() {
			return true, d.Next()
		}
		d.Rewind()
		if err := d.Next(); err != nil {
			return false, err
		}
	}
	return false, nil
}

// materialize builds the configuration under the cursors in two passes:
// static and bundle dimensions first, then dynamic dimensions.
func (s *ParameterSpace) materialize() (Configuration, error) {
	cfg := make(Configuration, len(s.dimensions))

	for _, d := range s.dimensions {
		if _, ok := d.(Dynamic); ok {
			continue
		}
		if b, ok := d.(Bundled); ok {
			bundle, err := b.CurrentBundle()
			if err != nil {
				return nil, err
			}
			maps.Copy(cfg, bundle.Values)
			if d.Name() != "" {
				cfg[d.Name()] = bundle.ID
			}
			continue
		}
		v, err := d.Current()
		if err != nil {
			return nil, err
		}
		cfg[d.Name()] = v
	}

	for _, d := range s.dimensions {
		dyn, ok := d.(Dynamic)
		if !ok {
			continue
		}
		v, err := dyn.Resolve(cfg.Clone())
		if err != nil {
			return nil, err
		}
		cfg[d.Name()] = v
	}

	return cfg, nil
}

func (s *ParameterSpace) accept(cfg Configuration) (bool, error) {
	if len(s.conditions) == 0 {
		return true, nil
	}
	for _, c := range s.conditions {
		ok, err := c(cfg)
		if err != nil {
			return false, zerr.Wrap(err, ErrConditionFailed.Error())
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
