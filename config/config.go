// Package config loads run configuration from YAML with environment
// variable overrides.
package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/phenosnp/phenosnp/pkg/errors"
)

// envPrefix is the prefix for environment overrides, e.g.
// PHENOSNP_MODEL_N_TREES.
const envPrefix = "phenosnp"

// InputConfig names the two tab-separated input files.
type InputConfig struct {
	Phenotypes string `yaml:"phenotypes" envconfig:"PHENOTYPES"`
	Genotypes  string `yaml:"genotypes" envconfig:"GENOTYPES"`
}

// OutputConfig controls where the report and figures are written.
type OutputConfig struct {
	Dir        string `yaml:"dir" envconfig:"DIR"`
	PlotFormat string `yaml:"plot_format" envconfig:"PLOT_FORMAT"`
}

// ModelConfig holds the forest hyperparameters.
type ModelConfig struct {
	NTrees         int    `yaml:"n_trees" envconfig:"N_TREES"`
	Criterion      string `yaml:"criterion" envconfig:"CRITERION"`
	MaxDepth       int    `yaml:"max_depth" envconfig:"MAX_DEPTH"`
	MinSamplesLeaf int    `yaml:"min_samples_leaf" envconfig:"MIN_SAMPLES_LEAF"`
	MaxFeatures    int    `yaml:"max_features" envconfig:"MAX_FEATURES"`
	OOB            bool   `yaml:"oob" envconfig:"OOB"`
}

// EvalConfig holds the cross-validation settings.
type EvalConfig struct {
	Folds int    `yaml:"folds" envconfig:"FOLDS"`
	Seed  uint64 `yaml:"seed" envconfig:"SEED"`
}

// Config is the full run configuration.
type Config struct {
	Input    InputConfig  `yaml:"input"`
	Output   OutputConfig `yaml:"output"`
	Model    ModelConfig  `yaml:"model"`
	Eval     EvalConfig   `yaml:"evaluation"`
	LogLevel string       `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// Default returns the configuration used when the file and environment are
// silent.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:        "out",
			PlotFormat: "png",
		},
		Model: ModelConfig{
			NTrees:         500,
			Criterion:      "gini",
			MinSamplesLeaf: 1,
			OOB:            true,
		},
		Eval: EvalConfig{
			Folds: 5,
			Seed:  42,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration in three layers: Default, the YAML file at
// path (skipped when path is empty), then PHENOSNP_* environment variables.
// The result is validated before it is returned.
func Load(path string) (*Config, error) {
	c, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Read builds the configuration like Load but skips validation, so callers
// can layer their own overrides (e.g. command line flags) on top first.
func Read(path string) (*Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "phenosnp: reading config file %s", path)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, errors.Wrapf(err, "phenosnp: parsing config file %s", path)
		}
	}

	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, errors.Wrap(err, "phenosnp: applying environment overrides")
	}
	return c, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Input.Phenotypes == "" {
		return errors.NewValidationError("input.phenotypes", "phenotype file path required", "")
	}
	if c.Input.Genotypes == "" {
		return errors.NewValidationError("input.genotypes", "genotype file path required", "")
	}
	if c.Model.NTrees <= 0 {
		return errors.NewValidationError("model.n_trees", "must be positive", c.Model.NTrees)
	}
	if c.Model.Criterion != "gini" && c.Model.Criterion != "entropy" {
		return errors.NewValidationError("model.criterion", "must be 'gini' or 'entropy'", c.Model.Criterion)
	}
	if c.Model.MinSamplesLeaf < 1 {
		return errors.NewValidationError("model.min_samples_leaf", "must be at least 1", c.Model.MinSamplesLeaf)
	}
	if c.Eval.Folds < 2 {
		return errors.NewValidationError("evaluation.folds", "must be at least 2", c.Eval.Folds)
	}
	if c.Output.PlotFormat != "png" && c.Output.PlotFormat != "svg" {
		return errors.NewValidationError("output.plot_format", "must be 'png' or 'svg'", c.Output.PlotFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewValidationError("log_level", "must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
