package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	urfave "github.com/urfave/cli/v2"
)

// runApp executes the app with args and captures stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf

	err := app.Run(append([]string{"phenosnp"}, args...))
	return buf.String(), err
}

func TestPanel_Text(t *testing.T) {
	out, err := runApp(t, "panel")
	require.NoError(t, err)

	assert.Contains(t, out, "rs12913832")
	assert.Contains(t, out, "HERC2")
	assert.Contains(t, out, "MC1R")
	// Header plus 24 loci.
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 25)
}

func TestPanel_JSON(t *testing.T) {
	out, err := runApp(t, "panel", "--format", "json")
	require.NoError(t, err)

	var loci []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &loci))
	assert.Len(t, loci, 24)
	assert.Equal(t, "16", loci[0]["chromosome"])
}

func TestPanel_YAML(t *testing.T) {
	out, err := runApp(t, "panel", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "rsid: rs12913832")
}

func TestPanel_UnknownFormat(t *testing.T) {
	_, err := runApp(t, "panel", "--format", "xml")
	assert.Error(t, err)
}

func TestRun_MissingInputs(t *testing.T) {
	_, err := runApp(t, "run")
	assert.Error(t, err)
}

func TestRun_FlagOverrides(t *testing.T) {
	// A config file with inputs, then flags overriding the model settings.
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
input:
  phenotypes: pheno.tsv
  genotypes: geno.tsv
model:
  n_trees: 100
`), 0o600))

	app := newApp()
	var got int
	for _, cmd := range app.Commands {
		if cmd.Name != "run" {
			continue
		}
		// Swap the action so the test inspects the layered config without
		// running the pipeline.
		cmd.Action = func(c *urfave.Context) error {
			cfg, err := buildConfig(c)
			if err != nil {
				return err
			}
			got = cfg.Model.NTrees
			return nil
		}
	}

	var buf bytes.Buffer
	app.Writer = &buf
	require.NoError(t, app.Run([]string{"phenosnp", "run", "--config", cfgPath, "--trees", "250"}))
	assert.Equal(t, 250, got)
}
