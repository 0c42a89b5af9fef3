package domain

import (
	"fmt"
	"slices"

	"go.trai.ch/zerr"
)

// Dimension is a named, restartable cursor over the values of one parameter.
// A fresh or rewound dimension is positioned before its first value.
type Dimension interface {
	// Name returns the configuration key the dimension contributes.
	Name() string
	// Rewind moves the cursor back to before the first value.
	Rewind()
	// HasNext reports whether Next would move to another value.
	HasNext() bool
	// Next advances the cursor.
	Next() error
	// Current returns the value under the cursor.
	Current() (any, error)
}

// FixedSize is implemented by dimensions that know their cardinality.
// The size is only used for progress estimates.
type FixedSize interface {
	Size() int
}

// Bundle is a group of named values contributed by a single step of a dimension.
type Bundle struct {
	ID     any
	Values map[string]any
}

// Bundled is implemented by dimensions whose steps contribute several keys at once.
type Bundled interface {
	Dimension
	CurrentBundle() (Bundle, error)
}

// Dynamic is implemented by dimensions whose value depends on the values of
// the other dimensions in the same configuration.
type Dynamic interface {
	Dimension
	Resolve(cfg Configuration) (any, error)
}

// cursor implements the positioning shared by all list-backed dimensions.
type cursor struct {
	name string
	size int
	pos  int
}

func newCursor(name string, size int) cursor {
	return cursor{name: name, size: size, pos: -1}
}

// Name returns the dimension name.
func (c *cursor) Name() string { return c.name }

// Rewind moves the cursor before the first value.
func (c *cursor) Rewind() { c.pos = -1 }

// HasNext reports whether another value follows.
func (c *cursor) HasNext() bool { return c.pos+1 < c.size }

// Size returns the number of values.
func (c *cursor) Size() int { return c.size }

// Next advances to the following value.
func (c *cursor) Next() error {
	if c.size == 0 {
		return Tag(ErrEmptyDimension, "dimension", c.name)
	}
	if !c.HasNext() {
		return Tag(ErrDimensionExhausted, "dimension", c.name)
	}
	c.pos++
	return nil
}

func (c *cursor) index() (int, error) {
	if c.size == 0 {
		return 0, Tag(ErrEmptyDimension, "dimension", c.name)
	}
	if c.pos < 0 {
		return 0, Tag(ErrDimensionNotStarted, "dimension", c.name)
	}
	return c.pos, nil
}

// Discrete is a dimension over a fixed list of values.
type Discrete[T any] struct {
	cursor
	values []T
}

// NewDiscrete creates a dimension iterating over values in order.
func NewDiscrete[T any](name string, values ...T) *Discrete[T] {
	return &Discrete[T]{
		cursor: newCursor(name, len(values)),
		values: slices.Clone(values),
	}
}

// Current returns the value under the cursor.
func (d *Discrete[T]) Current() (any, error) {
	i, err := d.index()
	if err != nil {
		return nil, err
	}
	return d.values[i], nil
}

// BundleDimension iterates over named groups of values.
// When the dimension has a name, the group ID is contributed under that name.
type BundleDimension struct {
	cursor
	bundles []Bundle
}

// NewBundleDimension creates a dimension stepping through the given bundles in order.
func NewBundleDimension(name string, bundles ...Bundle) *BundleDimension {
	return &BundleDimension{
		cursor:  newCursor(name, len(bundles)),
		bundles: slices.Clone(bundles),
	}
}

// Current returns the ID of the current bundle.
func (d *BundleDimension) Current() (any, error) {
	b, err := d.CurrentBundle()
	if err != nil {
		return nil, err
	}
	return b.ID, nil
}

// CurrentBundle returns the current bundle.
func (d *BundleDimension) CurrentBundle() (Bundle, error) {
	i, err := d.index()
	if err != nil {
		return Bundle{}, err
	}
	return d.bundles[i], nil
}

const (
	// DefaultValidationKey is the configuration key of the held-out fold.
	DefaultValidationKey = "validation"
	// DefaultTrainingKey is the configuration key of the remaining folds.
	DefaultTrainingKey = "training"
)

// FoldDimension splits items into k folds, assigning item i to fold i mod k.
// Each step yields one fold as validation data and the rest as training data.
type FoldDimension[T any] struct {
	cursor
	items         []T
	folds         int
	validationKey string
	trainingKey   string
}

// NewFoldDimension creates a k-fold dimension over items.
func NewFoldDimension[T any](name string, items []T, folds int) (*FoldDimension[T], error) {
	if folds < 1 {
		return nil, zerr.With(zerr.Wrap(ErrInvalidDimension, "fold count must be positive"), "folds", folds)
	}
	if folds > len(items) {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(ErrInvalidDimension, "more folds than items"), "folds", folds), "items", len(items))
	}
	return &FoldDimension[T]{
		cursor:        newCursor(name, folds),
		items:         slices.Clone(items),
		folds:         folds,
		validationKey: DefaultValidationKey,
		trainingKey:   DefaultTrainingKey,
	}, nil
}

// WithKeys overrides the configuration keys of the validation and training splits.
func (d *FoldDimension[T]) WithKeys(validation, training string) *FoldDimension[T] {
	d.validationKey = validation
	d.trainingKey = training
	return d
}

// Current returns the index of the current validation fold.
func (d *FoldDimension[T]) Current() (any, error) {
	i, err := d.index()
	if err != nil {
		return nil, err
	}
	return i, nil
}

// CurrentBundle returns the validation and training splits of the current fold.
func (d *FoldDimension[T]) CurrentBundle() (Bundle, error) {
	fold, err := d.index()
	if err != nil {
		return Bundle{}, err
	}
	validation := make([]T, 0, len(d.items)/d.folds+1)
	training := make([]T, 0, len(d.items))
	for i, item := range d.items {
		if i%d.folds == fold {
			validation = append(validation, item)
		} else {
			training = append(training, item)
		}
	}
	return Bundle{
		ID: fold,
		Values: map[string]any{
			d.validationKey: validation,
			d.trainingKey:   training,
		},
	}, nil
}

// Resolver computes the value of a dynamic dimension from a raw value and the
// configuration fixed so far.
type Resolver[T any] func(raw T, cfg Configuration) (any, error)

// DynamicDimension is a dimension whose values are computed from the other
// dimensions of the same configuration.
type DynamicDimension[T any] struct {
	cursor
	values  []T
	resolve Resolver[T]
}

// NewDynamic creates a dynamic dimension over raw values.
func NewDynamic[T any](name string, resolve Resolver[T], values ...T) *DynamicDimension[T] {
	return &DynamicDimension[T]{
		cursor:  newCursor(name, len(values)),
		values:  slices.Clone(values),
		resolve: resolve,
	}
}

// Current returns the raw value under the cursor.
func (d *DynamicDimension[T]) Current() (any, error) {
	i, err := d.index()
	if err != nil {
		return nil, err
	}
	return d.values[i], nil
}

// Resolve computes the value under the cursor against cfg.
func (d *DynamicDimension[T]) Resolve(cfg Configuration) (any, error) {
	i, err := d.index()
	if err != nil {
		return nil, err
	}
	if d.resolve == nil {
		return d.values[i], nil
	}
	v, err := d.resolve(d.values[i], cfg)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to resolve dimension %q", d.name)), "dimension", d.name)
	}
	return v, nil
}
