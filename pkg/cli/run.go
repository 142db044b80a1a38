package cli

import (
	"fmt"

	urfave "github.com/urfave/cli/v2"

	"github.com/phenosnp/phenosnp/config"
	"github.com/phenosnp/phenosnp/pipeline"
	"github.com/phenosnp/phenosnp/pkg/log"
)

var (
	configFlag = &urfave.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML run configuration (optional)",
	}

	phenotypesFlag = &urfave.StringFlag{
		Name:  "phenotypes",
		Usage: "Path to the tab-separated phenotype table",
	}

	genotypesFlag = &urfave.StringFlag{
		Name:  "genotypes",
		Usage: "Path to the tab-separated genotype table",
	}

	outputFlag = &urfave.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Directory for the report and figures",
	}

	treesFlag = &urfave.IntFlag{
		Name:  "trees",
		Usage: "Number of trees per forest",
	}

	foldsFlag = &urfave.IntFlag{
		Name:  "folds",
		Usage: "Number of cross-validation folds",
	}

	seedFlag = &urfave.Uint64Flag{
		Name:  "seed",
		Usage: "Random seed for sampling and splitting",
	}

	runCmd = &urfave.Command{
		Name:   "run",
		Usage:  "Train and evaluate the hair and eye colour classifiers",
		Action: runAction,
		Flags: []urfave.Flag{
			configFlag,
			phenotypesFlag,
			genotypesFlag,
			outputFlag,
			treesFlag,
			foldsFlag,
			seedFlag,
		},
	}
)

// buildConfig layers command line flags over the file and environment
// configuration.
func buildConfig(c *urfave.Context) (*config.Config, error) {
	cfg, err := config.Read(c.String(configFlag.Name))
	if err != nil {
		return nil, err
	}

	if v := c.String(phenotypesFlag.Name); v != "" {
		cfg.Input.Phenotypes = v
	}
	if v := c.String(genotypesFlag.Name); v != "" {
		cfg.Input.Genotypes = v
	}
	if v := c.String(outputFlag.Name); v != "" {
		cfg.Output.Dir = v
	}
	if c.IsSet(treesFlag.Name) {
		cfg.Model.NTrees = c.Int(treesFlag.Name)
	}
	if c.IsSet(foldsFlag.Name) {
		cfg.Eval.Folds = c.Int(foldsFlag.Name)
	}
	if c.IsSet(seedFlag.Name) {
		cfg.Eval.Seed = c.Uint64(seedFlag.Name)
	}
	if c.Bool(debugFlag.Name) {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAction(c *urfave.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	log.SetupLogger(cfg.LogLevel)

	result, err := pipeline.Run(c.Context, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "report written to %s\n", result.ReportPath)
	return nil
}
