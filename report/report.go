// Package report renders the evaluation results of a prediction run into a
// standalone HTML document.
package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/phenosnp/phenosnp/dataset"
	"github.com/phenosnp/phenosnp/metrics"
	"github.com/phenosnp/phenosnp/pkg/errors"
)

//go:embed report.gohtml
var reportTemplate string

// ClassRow holds the per-class evaluation metrics shown in the report.
type ClassRow struct {
	Label       string
	Support     int
	Precision   float64
	Recall      float64
	Specificity float64
	F1          float64
	AUC         float64
}

// ScoreSummary describes a set of cross-validation fold scores.
type ScoreSummary struct {
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	N      int
}

// TargetResult collects everything the report shows for one prediction
// target (hair colour or eye colour).
type TargetResult struct {
	Name             string
	Classes          []string
	Confusion        *metrics.ConfusionMatrix
	Accuracy         float64
	BalancedAccuracy float64
	OOBScore         float64
	MacroAUC         float64
	ClassRows        []ClassRow
	CVScores         []float64
	CVSummary        ScoreSummary
	PanelConcordance *Concordance
	ROCPlotPath      string
	ImportancePlot   string
}

// Concordance measures agreement between the upstream panel tool's
// predicted labels and the self-reported ones, on the shared recoded scale.
type Concordance struct {
	N     int
	Agree int
	Rate  float64
}

// LocusImportance pairs a panel locus with its forest importance.
type LocusImportance struct {
	RSID       string
	Gene       string
	Importance float64
}

// Report is the full document model.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Seed        uint64
	NFolds      int
	NTrees      int
	Clean       dataset.CleanStats
	NSamples    int
	NLoci       int
	Targets     []*TargetResult
	Importances []LocusImportance
}

// NewTargetResult builds the per-class rows and CV summary for a target.
// curves must be in class order; a nil curve leaves the AUC column at zero.
func NewTargetResult(name string, cm *metrics.ConfusionMatrix, curves []*metrics.ROC, cvScores []float64) (*TargetResult, error) {
	if cm == nil {
		return nil, errors.NewValueError("NewTargetResult", "nil confusion matrix")
	}

	tr := &TargetResult{
		Name:             name,
		Classes:          cm.Labels,
		Confusion:        cm,
		Accuracy:         cm.Accuracy(),
		BalancedAccuracy: cm.BalancedAccuracy(),
		CVScores:         cvScores,
	}

	for i, label := range cm.Labels {
		row := ClassRow{
			Label:       label,
			Support:     cm.Support(i),
			Precision:   cm.Precision(i),
			Recall:      cm.Recall(i),
			Specificity: cm.Specificity(i),
			F1:          cm.F1(i),
		}
		if i < len(curves) && curves[i] != nil {
			row.AUC = curves[i].AUC
		}
		tr.ClassRows = append(tr.ClassRows, row)
	}

	if len(curves) > 0 {
		tr.MacroAUC = metrics.MacroAUC(curves)
	}

	if len(cvScores) > 0 {
		summary, err := summarize(cvScores)
		if err != nil {
			return nil, err
		}
		tr.CVSummary = summary
	}
	return tr, nil
}

// summarize reduces fold scores to the summary statistics the report shows.
func summarize(scores []float64) (ScoreSummary, error) {
	data := stats.Float64Data(scores)

	mean, err := stats.Mean(data)
	if err != nil {
		return ScoreSummary{}, errors.Wrap(err, "phenosnp: summarizing scores")
	}
	median, err := stats.Median(data)
	if err != nil {
		return ScoreSummary{}, errors.Wrap(err, "phenosnp: summarizing scores")
	}
	min, err := stats.Min(data)
	if err != nil {
		return ScoreSummary{}, errors.Wrap(err, "phenosnp: summarizing scores")
	}
	max, err := stats.Max(data)
	if err != nil {
		return ScoreSummary{}, errors.Wrap(err, "phenosnp: summarizing scores")
	}

	// Sample standard deviation is undefined for a single fold.
	std := 0.0
	if len(scores) > 1 {
		if std, err = stats.StandardDeviationSample(data); err != nil {
			return ScoreSummary{}, errors.Wrap(err, "phenosnp: summarizing scores")
		}
	}

	return ScoreSummary{
		Mean:   mean,
		Median: median,
		Std:    std,
		Min:    min,
		Max:    max,
		N:      len(scores),
	}, nil
}

// Render writes the report as HTML to w.
func (r *Report) Render(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"pct": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v*100)
		},
		"f3": func(v float64) string {
			return fmt.Sprintf("%.3f", v)
		},
	}).Parse(reportTemplate)
	if err != nil {
		return errors.Wrap(err, "phenosnp: parsing report template")
	}

	if err := tmpl.Execute(w, r); err != nil {
		return errors.Wrap(err, "phenosnp: rendering report")
	}
	return nil
}

// WriteFile renders the report to the given path.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "phenosnp: creating report file %s", path)
	}
	defer f.Close()

	if err := r.Render(f); err != nil {
		return err
	}
	return f.Close()
}
