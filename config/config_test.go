package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
input:
  phenotypes: pheno.tsv
  genotypes: geno.tsv
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pheno.tsv", c.Input.Phenotypes)
	assert.Equal(t, 500, c.Model.NTrees)
	assert.Equal(t, "gini", c.Model.Criterion)
	assert.True(t, c.Model.OOB)
	assert.Equal(t, 5, c.Eval.Folds)
	assert.Equal(t, uint64(42), c.Eval.Seed)
	assert.Equal(t, "out", c.Output.Dir)
	assert.Equal(t, "png", c.Output.PlotFormat)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
input:
  phenotypes: pheno.tsv
  genotypes: geno.tsv
model:
  n_trees: 100
  criterion: entropy
evaluation:
  folds: 10
  seed: 7
output:
  plot_format: svg
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, c.Model.NTrees)
	assert.Equal(t, "entropy", c.Model.Criterion)
	assert.Equal(t, 10, c.Eval.Folds)
	assert.Equal(t, uint64(7), c.Eval.Seed)
	assert.Equal(t, "svg", c.Output.PlotFormat)
	// Untouched keys keep their defaults.
	assert.Equal(t, 1, c.Model.MinSamplesLeaf)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
input:
  phenotypes: pheno.tsv
  genotypes: geno.tsv
model:
  n_trees: 100
`)

	t.Setenv("PHENOSNP_MODEL_N_TREES", "250")
	t.Setenv("PHENOSNP_EVAL_SEED", "99")
	t.Setenv("PHENOSNP_LOG_LEVEL", "debug")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, c.Model.NTrees)
	assert.Equal(t, uint64(99), c.Eval.Seed)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyPathRequiresEnvInputs(t *testing.T) {
	// Without a file the input paths must come from the environment.
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("PHENOSNP_INPUT_PHENOTYPES", "pheno.tsv")
	t.Setenv("PHENOSNP_INPUT_GENOTYPES", "geno.tsv")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pheno.tsv", c.Input.Phenotypes)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := Default()
		c.Input.Phenotypes = "p.tsv"
		c.Input.Genotypes = "g.tsv"
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing phenotypes", func(c *Config) { c.Input.Phenotypes = "" }},
		{"missing genotypes", func(c *Config) { c.Input.Genotypes = "" }},
		{"zero trees", func(c *Config) { c.Model.NTrees = 0 }},
		{"bad criterion", func(c *Config) { c.Model.Criterion = "chi2" }},
		{"zero leaf size", func(c *Config) { c.Model.MinSamplesLeaf = 0 }},
		{"one fold", func(c *Config) { c.Eval.Folds = 1 }},
		{"bad plot format", func(c *Config) { c.Output.PlotFormat = "bmp" }},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	assert.NoError(t, base().Validate())
}
