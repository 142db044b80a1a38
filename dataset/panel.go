// Package dataset loads the phenotype and genotype tables, joins them on
// sample ID, and encodes genotype calls into the allele-dosage feature matrix
// the classifiers consume.
package dataset

// Locus describes one SNP of the prediction panel.
type Locus struct {
	// RSID is the dbSNP identifier, which is also the genotype table's
	// column header for this locus.
	RSID string

	// Gene is the gene or region the SNP falls in.
	Gene string

	// Chromosome of the locus.
	Chromosome string

	// EffectAllele is the allele counted by the dosage encoding.
	EffectAllele byte
}

// HIrisPlexPanel returns the 24-SNP HIrisPlex panel used for hair and eye
// colour prediction: the 6 IrisPlex eye-colour SNPs plus the 18 additional
// hair-colour SNPs, 11 of which sit in MC1R.
func HIrisPlexPanel() []Locus {
	return []Locus{
		{RSID: "rs312262906", Gene: "MC1R", Chromosome: "16", EffectAllele: 'A'},
		{RSID: "rs11547464", Gene: "MC1R", Chromosome: "16", EffectAllele: 'A'},
		{RSID: "rs885479", Gene: "MC1R", Chromosome: "16", EffectAllele: 'A'},
		{RSID: "rs1805008", Gene: "MC1R", Chromosome: "16", EffectAllele: 'T'},
		{RSID: "rs1805005", Gene: "MC1R", Chromosome: "16", EffectAllele: 'T'},
		{RSID: "rs1805006", Gene: "MC1R", Chromosome: "16", EffectAllele: 'A'},
		{RSID: "rs1805007", Gene: "MC1R", Chromosome: "16", EffectAllele: 'T'},
		{RSID: "rs1805009", Gene: "MC1R", Chromosome: "16", EffectAllele: 'C'},
		{RSID: "rs201326893", Gene: "MC1R", Chromosome: "16", EffectAllele: 'A'},
		{RSID: "rs2228479", Gene: "MC1R", Chromosome: "16", EffectAllele: 'A'},
		{RSID: "rs1110400", Gene: "MC1R", Chromosome: "16", EffectAllele: 'C'},
		{RSID: "rs28777", Gene: "SLC45A2", Chromosome: "5", EffectAllele: 'C'},
		{RSID: "rs16891982", Gene: "SLC45A2", Chromosome: "5", EffectAllele: 'C'},
		{RSID: "rs12821256", Gene: "KITLG", Chromosome: "12", EffectAllele: 'C'},
		{RSID: "rs4959270", Gene: "EXOC2", Chromosome: "6", EffectAllele: 'A'},
		{RSID: "rs12203592", Gene: "IRF4", Chromosome: "6", EffectAllele: 'T'},
		{RSID: "rs1042602", Gene: "TYR", Chromosome: "11", EffectAllele: 'A'},
		{RSID: "rs1800407", Gene: "OCA2", Chromosome: "15", EffectAllele: 'A'},
		{RSID: "rs2402130", Gene: "SLC24A4", Chromosome: "14", EffectAllele: 'G'},
		{RSID: "rs12913832", Gene: "HERC2", Chromosome: "15", EffectAllele: 'T'},
		{RSID: "rs2378249", Gene: "PIGU", Chromosome: "20", EffectAllele: 'G'},
		{RSID: "rs12896399", Gene: "SLC24A4", Chromosome: "14", EffectAllele: 'G'},
		{RSID: "rs1393350", Gene: "TYR", Chromosome: "11", EffectAllele: 'A'},
		{RSID: "rs683", Gene: "TYRP1", Chromosome: "9", EffectAllele: 'C'},
	}
}
