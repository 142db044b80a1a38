// Package pipeline runs the full prediction workflow: load and join the
// input tables, train and cross-validate one forest per phenotype target,
// and render the evaluation report.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/config"
	"github.com/phenosnp/phenosnp/core/model"
	"github.com/phenosnp/phenosnp/dataset"
	"github.com/phenosnp/phenosnp/metrics"
	"github.com/phenosnp/phenosnp/pkg/errors"
	"github.com/phenosnp/phenosnp/pkg/log"
	"github.com/phenosnp/phenosnp/plot"
	"github.com/phenosnp/phenosnp/preprocessing"
	"github.com/phenosnp/phenosnp/report"
	"github.com/phenosnp/phenosnp/sklearn/ensemble"
	modelselection "github.com/phenosnp/phenosnp/sklearn/model_selection"
)

// Result points at the artifacts of a completed run.
type Result struct {
	Report     *report.Report
	ReportPath string
}

// target pairs a phenotype column with its recoder.
type target struct {
	name    string
	recoder *preprocessing.Recoder
}

// Run executes the workflow described by cfg and writes the report and
// figures into cfg.Output.Dir.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		return nil, errors.NewValueError("pipeline.Run", "nil config")
	}
	logger := log.GetLoggerWithName("pipeline")
	start := time.Now()

	phenos, err := dataset.LoadPhenotypes(cfg.Input.Phenotypes)
	if err != nil {
		return nil, err
	}
	genos, err := dataset.LoadGenotypes(cfg.Input.Genotypes, dataset.HIrisPlexPanel())
	if err != nil {
		return nil, err
	}
	table, clean, err := dataset.Join(phenos, genos)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "phenosnp: run cancelled")
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "phenosnp: creating output directory %s", cfg.Output.Dir)
	}

	rep := &report.Report{
		Title:       "HIrisPlex pigmentation prediction",
		GeneratedAt: time.Now(),
		Seed:        cfg.Eval.Seed,
		NFolds:      cfg.Eval.Folds,
		NTrees:      cfg.Model.NTrees,
		Clean:       clean,
		NSamples:    table.Len(),
		NLoci:       len(table.Panel),
	}

	targets := []target{
		{name: "Hair colour", recoder: preprocessing.HairRecoder()},
		{name: "Eye colour", recoder: preprocessing.EyeRecoder()},
	}

	meanImps := make([]float64, len(table.Panel))
	for _, tgt := range targets {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "phenosnp: run cancelled")
		}

		tr, imps, err := evaluateTarget(cfg, table, tgt)
		if err != nil {
			return nil, err
		}
		rep.Targets = append(rep.Targets, tr)

		for i, imp := range imps {
			meanImps[i] += imp / float64(len(targets))
		}

		logger.Info("target evaluated",
			log.TargetKey, tgt.recoder.Target(),
			log.AccuracyKey, tr.Accuracy,
			log.AUCKey, tr.MacroAUC,
		)
	}

	rep.Importances = rankImportances(table.Panel, meanImps)

	reportPath := filepath.Join(cfg.Output.Dir, "report.html")
	if err := rep.WriteFile(reportPath); err != nil {
		return nil, err
	}

	logger.Info("run complete",
		log.SamplesKey, table.Len(),
		log.SeedKey, cfg.Eval.Seed,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.SourceKey, reportPath,
	)
	return &Result{Report: rep, ReportPath: reportPath}, nil
}

// evaluateTarget cross-validates one phenotype target and renders its
// figures. It returns the report section and the final forest's feature
// importances.
func evaluateTarget(cfg *config.Config, table *dataset.Table, tgt target) (*report.TargetResult, []float64, error) {
	logger := log.GetLoggerWithName("pipeline").With(log.TargetKey, tgt.recoder.Target())

	raw := table.Hair
	if tgt.recoder.Target() == "eye_colour" {
		raw = table.Eye
	}

	recoded, keep := tgt.recoder.Apply(raw)
	var indices []int
	var kept []string
	for i, ok := range keep {
		if !ok {
			continue
		}
		indices = append(indices, i)
		kept = append(kept, recoded[i])
	}
	if len(indices) < cfg.Eval.Folds {
		return nil, nil, errors.NewValueError("pipeline.evaluateTarget",
			fmt.Sprintf("only %d usable %s samples for %d folds", len(indices), tgt.recoder.Target(), cfg.Eval.Folds))
	}

	sub, err := table.Subset(indices)
	if err != nil {
		return nil, nil, err
	}

	enc, err := tgt.recoder.Encoder()
	if err != nil {
		return nil, nil, err
	}
	y, err := enc.Transform(kept)
	if err != nil {
		return nil, nil, err
	}
	X := sub.Matrix()

	logger.Debug("target prepared",
		log.SamplesKey, len(indices),
		log.ClassesKey, len(enc.Classes()),
	)

	factory := func() model.Classifier {
		return ensemble.NewRandomForestClassifier(forestOptions(cfg)...)
	}
	splitter := modelselection.NewStratifiedKFold(cfg.Eval.Folds, true, int(cfg.Eval.Seed))

	cvResult, err := modelselection.CrossValidate(factory, X, y, splitter)
	if err != nil {
		return nil, nil, err
	}
	oofLabels, oofProbas, err := modelselection.CrossValPredict(factory, X, y, splitter)
	if err != nil {
		return nil, nil, err
	}

	classes := enc.Classes()
	cm, err := metrics.NewConfusionMatrix(y, oofLabels, classes)
	if err != nil {
		return nil, nil, err
	}

	// The reporting scale is fixed, so classes absent from the data still
	// get a (degenerate) curve; pad the probability matrix to the full
	// class set.
	curves, err := metrics.OneVsRestROC(y, padColumns(oofProbas, len(classes)), classes)
	if err != nil {
		return nil, nil, err
	}

	tr, err := report.NewTargetResult(tgt.name, cm, curves, cvResult.TestScores)
	if err != nil {
		return nil, nil, err
	}

	predicted := sub.PredictedHair
	if tgt.recoder.Target() == "eye_colour" {
		predicted = sub.PredictedEye
	}
	tr.PanelConcordance = panelConcordance(tgt.recoder, kept, predicted)

	// Refit on every usable sample for the out-of-bag estimate and the
	// locus importances.
	final := ensemble.NewRandomForestClassifier(append(forestOptions(cfg),
		ensemble.WithOOBScore(cfg.Model.OOB))...)
	if err := final.Fit(X, y); err != nil {
		return nil, nil, err
	}
	if cfg.Model.OOB {
		tr.OOBScore = final.OOBScore()
	}
	imps := final.FeatureImportances()

	if err := renderFigures(cfg, table, tgt, tr, curves, imps); err != nil {
		return nil, nil, err
	}
	return tr, imps, nil
}

// renderFigures writes the ROC and importance plots and records their
// report-relative paths on tr.
func renderFigures(cfg *config.Config, table *dataset.Table, tgt target, tr *report.TargetResult, curves []*metrics.ROC, imps []float64) error {
	slug := tgt.recoder.Target()

	rocName := fmt.Sprintf("%s_roc.%s", slug, cfg.Output.PlotFormat)
	rocPlot, err := plot.ROCPlot(curves, tgt.name+" (out-of-fold)")
	if err != nil {
		return err
	}
	if err := plot.Save(rocPlot, filepath.Join(cfg.Output.Dir, rocName)); err != nil {
		return err
	}
	tr.ROCPlotPath = rocName

	names := make([]string, len(table.Panel))
	for i, locus := range table.Panel {
		names[i] = locus.RSID
	}
	impName := fmt.Sprintf("%s_importance.%s", slug, cfg.Output.PlotFormat)
	impPlot, err := plot.ImportancePlot(names, imps, tgt.name+" locus importance")
	if err != nil {
		return err
	}
	if err := plot.Save(impPlot, filepath.Join(cfg.Output.Dir, impName)); err != nil {
		return err
	}
	tr.ImportancePlot = impName
	return nil
}

// forestOptions translates the model config into classifier options.
func forestOptions(cfg *config.Config) []ensemble.Option {
	return []ensemble.Option{
		ensemble.WithNEstimators(cfg.Model.NTrees),
		ensemble.WithCriterion(cfg.Model.Criterion),
		ensemble.WithMaxDepth(cfg.Model.MaxDepth),
		ensemble.WithMinSamplesLeaf(cfg.Model.MinSamplesLeaf),
		ensemble.WithMaxFeatures(cfg.Model.MaxFeatures),
		ensemble.WithSeed(cfg.Eval.Seed),
	}
}

// panelConcordance compares the upstream tool's calls against the
// self-reported labels on the recoded scale. Samples whose predicted label
// does not map onto the scale are skipped; nil means nothing was comparable.
func panelConcordance(rec *preprocessing.Recoder, reported, predicted []string) *report.Concordance {
	recoded, keep := rec.Apply(predicted)
	c := &report.Concordance{}
	for i, ok := range keep {
		if !ok {
			continue
		}
		c.N++
		if recoded[i] == reported[i] {
			c.Agree++
		}
	}
	if c.N == 0 {
		return nil
	}
	c.Rate = float64(c.Agree) / float64(c.N)
	return c
}

// padColumns widens m to cols columns, filling new cells with zero.
func padColumns(m *mat.Dense, cols int) *mat.Dense {
	r, c := m.Dims()
	if c >= cols {
		return m
	}
	out := mat.NewDense(r, cols, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, m.At(i, j))
		}
	}
	return out
}

// rankImportances pairs loci with their importances, largest first.
func rankImportances(panel []dataset.Locus, imps []float64) []report.LocusImportance {
	out := make([]report.LocusImportance, 0, len(panel))
	for i, locus := range panel {
		out = append(out, report.LocusImportance{
			RSID:       locus.RSID,
			Gene:       locus.Gene,
			Importance: imps[i],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Importance > out[j].Importance
	})
	return out
}
