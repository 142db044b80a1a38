// Package phenosnp predicts hair and eye colour from HIrisPlex SNP
// genotypes with random forest classifiers, and reports how well those
// predictions hold up under cross-validation.
//
// The pipeline joins a phenotype table with a genotype table on sample ID,
// encodes the 24 panel loci into allele dosages, trains one forest per
// phenotype target, and renders confusion matrices, ROC curves, and locus
// importances into a standalone HTML report.
//
// # Quick Start
//
// Run the full workflow from the command line:
//
//	phenosnp run --phenotypes pheno.tsv --genotypes geno.tsv -o out/
//
// Or drive the pieces from Go:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/phenosnp/phenosnp/sklearn/ensemble"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{0, 0, 0, 1, 2, 1, 2, 2})
//	    y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
//
//	    rf := ensemble.NewRandomForestClassifier(
//	        ensemble.WithNEstimators(100),
//	        ensemble.WithSeed(42),
//	    )
//	    if err := rf.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    score, err := rf.Score(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("accuracy: %.3f\n", score)
//	}
//
// # Package Layout
//
//   - dataset: input tables, joining, cleaning, dosage encoding
//   - preprocessing: label recoding and encoding
//   - sklearn/tree, sklearn/ensemble: the classifiers
//   - sklearn/model_selection: splitting and cross-validation
//   - metrics: confusion matrices, ROC and AUC
//   - plot, report: figures and the HTML report
//   - pipeline: the end-to-end workflow behind the CLI
package phenosnp
