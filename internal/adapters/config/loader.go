package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/google/cel-go/cel"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader reads experiment files. It implements ports.ExperimentLoader.
type Loader struct {
	env *cel.Env
}

// NewLoader creates a loader with a CEL environment for conditions.
func NewLoader() (*Loader, error) {
	env, err := newConditionEnv()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create condition environment")
	}
	return &Loader{env: env}, nil
}

// Load reads the experiment at path and returns its validated root task.
func (l *Loader) Load(path string) (*domain.Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	task, err := l.Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return task, nil
}

// Parse converts the YAML document in data into a task tree.
func (l *Loader) Parse(data []byte) (*domain.Task, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var root TaskDTO
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	task, err := l.convertTask(&root)
	if err != nil {
		return nil, err
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

func (l *Loader) convertTask(dto *TaskDTO) (*domain.Task, error) {
	policy, err := domain.ParsePolicy(dto.Policy)
	if err != nil {
		return nil, zerr.With(err, "type", dto.Type)
	}

	kind := dto.Kind
	if kind == "" && (len(dto.Tasks) > 0 || dto.Space != nil) {
		kind = domain.KindBatch
	}

	task := &domain.Task{
		Type:     dto.Type,
		Kind:     kind,
		Imports:  dto.Imports,
		Writable: dto.Writable,
		Reports:  dto.Reports,
		Command:  dto.Command,
		Policy:   policy,
		Workers:  dto.Workers,
	}
	for _, p := range dto.Params {
		task.Params = append(task.Params, domain.Param{
			Name:          p.Name,
			Discriminator: p.Discriminator,
			Default:       p.Default,
		})
	}

	if dto.Space != nil {
		space, err := l.convertSpace(dto.Space)
		if err != nil {
			return nil, zerr.With(err, "type", dto.Type)
		}
		task.Space = space
	}

	for i := range dto.Tasks {
		sub, err := l.convertTask(&dto.Tasks[i])
		if err != nil {
			return nil, err
		}
		task.Subtasks = append(task.Subtasks, sub)
	}

	if kind != domain.KindBatch && (len(task.Subtasks) > 0 || task.Space != nil) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTask, "only batch tasks have subtasks or a parameter space"), "type", dto.Type)
	}
	return task, nil
}

func (l *Loader) convertSpace(dto *SpaceDTO) (*domain.ParameterSpace, error) {
	dims := make([]domain.Dimension, 0, len(dto.Dimensions))
	for i := range dto.Dimensions {
		d, err := convertDimension(&dto.Dimensions[i])
		if err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}

	space := domain.NewParameterSpace(dims...)
	for _, expr := range dto.Conditions {
		cond, err := compileCondition(l.env, expr)
		if err != nil {
			return nil, err
		}
		space.AddCondition(cond)
	}
	return space, nil
}

func convertDimension(dto *DimensionDTO) (domain.Dimension, error) {
	set := 0
	for _, present := range []bool{len(dto.Values) > 0, len(dto.Bundles) > 0, dto.Folds > 0, len(dto.Dynamic) > 0} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidDimension,
			"exactly one of values, bundles, folds or dynamic must be set"), "dimension", dto.Name)
	}
	if dto.Name == "" && len(dto.Bundles) == 0 && dto.Folds == 0 {
		return nil, zerr.Wrap(domain.ErrInvalidDimension, "dimension without name")
	}

	switch {
	case len(dto.Values) > 0:
		return domain.NewDiscrete(dto.Name, dto.Values...), nil
	case len(dto.Bundles) > 0:
		bundles := make([]domain.Bundle, 0, len(dto.Bundles))
		for _, b := range dto.Bundles {
			bundles = append(bundles, domain.Bundle{ID: b.ID, Values: b.Values})
		}
		return domain.NewBundleDimension(dto.Name, bundles...), nil
	case dto.Folds > 0:
		d, err := domain.NewFoldDimension(dto.Name, dto.Items, dto.Folds)
		if err != nil {
			return nil, zerr.With(err, "dimension", dto.Name)
		}
		validation, training := dto.ValidationKey, dto.TrainingKey
		if validation == "" {
			validation = domain.DefaultValidationKey
		}
		if training == "" {
			training = domain.DefaultTrainingKey
		}
		return d.WithKeys(validation, training), nil
	default:
		return newDynamicDimension(dto.Name, dto.Dynamic)
	}
}
