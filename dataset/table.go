package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/pkg/errors"
	"github.com/phenosnp/phenosnp/pkg/log"
)

// Missing-call markers removed by the blanket clean. Anything else that is
// not a two-character allele pair is a data error, not a missing value.
var missingCalls = map[string]bool{
	"":    true,
	"NA":  true,
	"--":  true,
	"0":   true,
	"00":  true,
	"./.": true,
}

// CleanStats summarises what the join and clean discarded.
type CleanStats struct {
	PhenotypesRead int
	GenotypesRead  int

	// Unmatched counts samples present in only one of the two tables.
	Unmatched int

	// MissingDropped counts joined samples removed for missing genotype calls.
	MissingDropped int

	Retained int
}

// Table is the analysis-ready dataset: joined samples, phenotype labels, and
// the encoded allele-dosage matrix.
type Table struct {
	Panel     []Locus
	SampleIDs []string

	// Self-reported labels, still on the raw shade vocabulary.
	Hair []string
	Eye  []string

	// Labels called by the upstream prediction tool.
	PredictedHair []string
	PredictedEye  []string

	dosages *mat.Dense
}

// Join inner-joins the phenotype and genotype tables on sample ID, removes
// records with missing genotype calls, and encodes the survivors into allele
// dosages. Samples present in only one table are dropped and counted.
func Join(phenos []PhenotypeRecord, genos *GenotypeTable) (*Table, CleanStats, error) {
	logger := log.GetLoggerWithName("dataset")

	stats := CleanStats{
		PhenotypesRead: len(phenos),
		GenotypesRead:  len(genos.SampleIDs),
	}

	if len(phenos) == 0 || len(genos.SampleIDs) == 0 {
		return nil, stats, errors.NewModelError("dataset.Join", "empty input table", errors.ErrEmptyData)
	}

	genoRow := make(map[string]int, len(genos.SampleIDs))
	for i, id := range genos.SampleIDs {
		genoRow[id] = i
	}

	table := &Table{Panel: genos.Panel}
	var dosageRows []float64

	matched := make(map[string]bool, len(phenos))
	for _, p := range phenos {
		row, ok := genoRow[p.SampleID]
		if !ok {
			continue
		}
		matched[p.SampleID] = true

		dosages, missing, err := encodeCalls(genos.Panel, genos.Calls[row], p.SampleID)
		if err != nil {
			return nil, stats, err
		}
		if missing {
			stats.MissingDropped++
			continue
		}

		table.SampleIDs = append(table.SampleIDs, p.SampleID)
		table.Hair = append(table.Hair, p.HairColour)
		table.Eye = append(table.Eye, p.EyeColour)
		table.PredictedHair = append(table.PredictedHair, p.PredictedHair)
		table.PredictedEye = append(table.PredictedEye, p.PredictedEye)
		dosageRows = append(dosageRows, dosages...)
	}

	stats.Unmatched = (len(phenos) - len(matched)) + (len(genos.SampleIDs) - len(matched))
	stats.Retained = len(table.SampleIDs)

	if stats.Retained == 0 {
		return nil, stats, errors.NewModelError("dataset.Join", "no samples survived join and clean", errors.ErrEmptyData)
	}

	table.dosages = mat.NewDense(stats.Retained, len(genos.Panel), dosageRows)
	if err := errors.CheckMatrix("dataset.Join", table.dosages, stats.Retained, len(genos.Panel)); err != nil {
		return nil, stats, err
	}

	logger.Info("joined phenotype and genotype tables",
		log.RowsReadKey, stats.PhenotypesRead,
		log.RowsUnmatchedKey, stats.Unmatched,
		log.RowsDroppedKey, stats.MissingDropped,
		log.SamplesKey, stats.Retained,
		log.FeaturesKey, len(genos.Panel),
	)

	return table, stats, nil
}

// encodeCalls turns one sample's calls into effect-allele dosages. A missing
// call marks the whole sample for removal; a malformed call is an error.
func encodeCalls(panel []Locus, calls []string, sampleID string) ([]float64, bool, error) {
	dosages := make([]float64, len(panel))
	for i, call := range calls {
		if missingCalls[call] {
			return nil, true, nil
		}
		if len(call) != 2 {
			return nil, false, errors.NewDataError("genotypes", sampleID, panel[i].RSID, "unparseable call '"+call+"'")
		}
		var d float64
		for k := 0; k < 2; k++ {
			b := call[k]
			if !validAllele(b) {
				return nil, false, errors.NewDataError("genotypes", sampleID, panel[i].RSID, "unparseable call '"+call+"'")
			}
			if b == panel[i].EffectAllele {
				d++
			}
		}
		dosages[i] = d
	}
	return dosages, false, nil
}

func validAllele(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T', 'I', 'D':
		return true
	}
	return false
}

// Len returns the number of samples in the table.
func (t *Table) Len() int {
	return len(t.SampleIDs)
}

// Matrix returns the samples-by-loci allele-dosage matrix.
func (t *Table) Matrix() *mat.Dense {
	return t.dosages
}

// Subset returns a new Table restricted to the given row indices.
func (t *Table) Subset(indices []int) (*Table, error) {
	nFeatures := len(t.Panel)
	sub := &Table{Panel: t.Panel}

	data := make([]float64, 0, len(indices)*nFeatures)
	for _, idx := range indices {
		if idx < 0 || idx >= t.Len() {
			return nil, errors.NewValueError("Table.Subset", "row index out of range")
		}
		sub.SampleIDs = append(sub.SampleIDs, t.SampleIDs[idx])
		sub.Hair = append(sub.Hair, t.Hair[idx])
		sub.Eye = append(sub.Eye, t.Eye[idx])
		sub.PredictedHair = append(sub.PredictedHair, t.PredictedHair[idx])
		sub.PredictedEye = append(sub.PredictedEye, t.PredictedEye[idx])
		data = append(data, t.dosages.RawRowView(idx)...)
	}

	if len(indices) == 0 {
		return nil, errors.NewModelError("Table.Subset", "empty subset", errors.ErrEmptyData)
	}

	sub.dosages = mat.NewDense(len(indices), nFeatures, data)
	return sub, nil
}
