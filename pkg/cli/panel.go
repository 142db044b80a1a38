package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/phenosnp/phenosnp/dataset"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [text, json, yaml]",
		Value: formatText,
	}

	panelCmd = &urfave.Command{
		Name:   "panel",
		Usage:  "Print the HIrisPlex panel loci",
		Action: panelAction,
		Flags: []urfave.Flag{
			formatFlag,
		},
	}
)

// panelLocus is the serializable view of one panel locus.
type panelLocus struct {
	RSID         string `json:"rsid" yaml:"rsid"`
	Gene         string `json:"gene" yaml:"gene"`
	Chromosome   string `json:"chromosome" yaml:"chromosome"`
	EffectAllele string `json:"effect_allele" yaml:"effect_allele"`
}

func panelAction(c *urfave.Context) error {
	panel := dataset.HIrisPlexPanel()

	loci := make([]panelLocus, 0, len(panel))
	for _, locus := range panel {
		loci = append(loci, panelLocus{
			RSID:         locus.RSID,
			Gene:         locus.Gene,
			Chromosome:   locus.Chromosome,
			EffectAllele: string(locus.EffectAllele),
		})
	}

	switch format := c.String(formatFlag.Name); format {
	case formatJSON:
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(loci)
	case formatYAML:
		return yaml.NewEncoder(c.App.Writer).Encode(loci)
	case formatText:
		w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RSID\tGENE\tCHR\tEFFECT")
		for _, locus := range loci {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				locus.RSID, locus.Gene, locus.Chromosome, locus.EffectAllele)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
