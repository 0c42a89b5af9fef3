package config

// TaskDTO is a task in an experiment file. The root of the file is a task.
// Writable lists imports the command may modify in place.
type TaskDTO struct {
	Type     string            `yaml:"type"`
	Kind     string            `yaml:"kind"`
	Params   []ParamDTO        `yaml:"params"`
	Imports  map[string]string `yaml:"imports"`
	Writable []string          `yaml:"writable"`
	Reports  []string          `yaml:"reports"`
	Command  []string          `yaml:"command"`
	Policy   string            `yaml:"policy"`
	Workers  int               `yaml:"workers"`
	Space    *SpaceDTO         `yaml:"space"`
	Tasks    []TaskDTO         `yaml:"tasks"`
}

// ParamDTO declares a task parameter.
type ParamDTO struct {
	Name          string `yaml:"name"`
	Discriminator bool   `yaml:"discriminator"`
	Default       any    `yaml:"default"`
}

// SpaceDTO is the parameter space of a batch.
type SpaceDTO struct {
	Dimensions []DimensionDTO `yaml:"dimensions"`
	// Conditions are CEL expressions over config. A configuration is kept
	// when any of them holds.
	Conditions []string `yaml:"conditions"`
}

// DimensionDTO declares one dimension. Exactly one of Values, Bundles,
// Folds or Dynamic must be set.
type DimensionDTO struct {
	Name    string      `yaml:"name"`
	Values  []any       `yaml:"values"`
	Bundles []BundleDTO `yaml:"bundles"`

	Folds         int    `yaml:"folds"`
	Items         []any  `yaml:"items"`
	ValidationKey string `yaml:"validation_key"`
	TrainingKey   string `yaml:"training_key"`

	// Dynamic values are text/template strings rendered against the
	// configuration, with sprig functions available.
	Dynamic []string `yaml:"dynamic"`
}

// BundleDTO is a group of values contributed by one step of a bundle dimension.
type BundleDTO struct {
	ID     any            `yaml:"id"`
	Values map[string]any `yaml:"values"`
}
