// Package cli implements the phenosnp command line application.
package cli

import (
	"fmt"
	"os"
	"time"

	urfave "github.com/urfave/cli/v2"

	"github.com/phenosnp/phenosnp/pkg/log"
)

var (
	version = "v0.1.0-default"
	commit  = ""
	date    = ""

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	log.SetupLogger("info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.GetLogger().Error("fatal error", log.ErrAttr(err))
		os.Exit(1)
	}
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "phenosnp",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "Hair and eye colour prediction from HIrisPlex SNP genotypes",
		Flags: []urfave.Flag{
			debugFlag,
		},
		Commands: []*urfave.Command{
			runCmd,
			panelCmd,
		},
	}
}
