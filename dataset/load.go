package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/phenosnp/phenosnp/pkg/errors"
)

// PhenotypeRecord is one row of the phenotype predictions table.
type PhenotypeRecord struct {
	SampleID string `csv:"sample_id"`

	// Self-reported phenotypes, free-form shades. The preprocessing
	// recoders collapse these onto the reporting scales.
	HairColour string `csv:"hair_colour"`
	EyeColour  string `csv:"eye_colour"`

	// Phenotypes called by the upstream prediction tool, already on the
	// reporting scales. The report compares them against the self-reported
	// labels.
	PredictedHair string `csv:"predicted_hair"`
	PredictedEye  string `csv:"predicted_eye"`
}

// GenotypeTable holds the raw genotype calls of the panel loci, one row per
// sample, columns aligned with Panel.
type GenotypeTable struct {
	Panel     []Locus
	SampleIDs []string
	Calls     [][]string
}

// LoadPhenotypes reads the tab-separated phenotype table.
func LoadPhenotypes(path string) ([]PhenotypeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening phenotype table %s", path)
	}
	defer f.Close()

	// A local reader keeps the tab delimiter off gocsv's package-global
	// configuration, so concurrent loads cannot race.
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true

	var records []*PhenotypeRecord
	if err := gocsv.UnmarshalCSV(r, &records); err != nil {
		return nil, errors.Wrapf(err, "decoding phenotype table %s", path)
	}

	out := make([]PhenotypeRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.SampleID == "" {
			return nil, errors.NewDataError(path, "", "sample_id", "empty sample ID")
		}
		if seen[rec.SampleID] {
			return nil, errors.NewDataError(path, rec.SampleID, "", "duplicate sample ID")
		}
		seen[rec.SampleID] = true
		out = append(out, *rec)
	}

	return out, nil
}

// LoadGenotypes reads the tab-separated genotype table. The header row must
// contain a sample_id column and one column per panel locus, keyed by rsID;
// extra columns are ignored. gocsv cannot map a column set that is data
// (the panel), so this reader indexes the header directly.
func LoadGenotypes(path string, panel []Locus) (*GenotypeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening genotype table %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.NewDataError(path, "", "", "missing header row")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading genotype header of %s", path)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	idCol, ok := colIdx["sample_id"]
	if !ok {
		return nil, errors.NewDataError(path, "", "sample_id", "column missing from header")
	}

	locusCols := make([]int, len(panel))
	for i, locus := range panel {
		col, ok := colIdx[locus.RSID]
		if !ok {
			return nil, errors.Wrapf(errors.ErrUnknownLocus, "%s: column %s missing from header", path, locus.RSID)
		}
		locusCols[i] = col
	}

	table := &GenotypeTable{Panel: panel}
	seen := make(map[string]bool)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading genotype table %s", path)
		}

		sampleID := strings.TrimSpace(row[idCol])
		if sampleID == "" {
			return nil, errors.NewDataError(path, "", "sample_id", "empty sample ID")
		}
		if seen[sampleID] {
			return nil, errors.NewDataError(path, sampleID, "", "duplicate sample ID")
		}
		seen[sampleID] = true

		calls := make([]string, len(panel))
		for i, col := range locusCols {
			calls[i] = strings.ToUpper(strings.TrimSpace(row[col]))
		}

		table.SampleIDs = append(table.SampleIDs, sampleID)
		table.Calls = append(table.Calls, calls)
	}

	return table, nil
}
