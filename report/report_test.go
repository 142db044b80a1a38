package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/dataset"
	"github.com/phenosnp/phenosnp/metrics"
)

func eyeConfusion(t *testing.T) *metrics.ConfusionMatrix {
	t.Helper()

	yTrue := mat.NewVecDense(8, []float64{0, 0, 0, 1, 1, 2, 2, 2})
	yPred := mat.NewVecDense(8, []float64{0, 0, 1, 1, 1, 2, 2, 0})

	cm, err := metrics.NewConfusionMatrix(yTrue, yPred, []string{"blue", "intermediate", "brown"})
	require.NoError(t, err)
	return cm
}

func TestNewTargetResult(t *testing.T) {
	cm := eyeConfusion(t)
	curves := []*metrics.ROC{
		{Label: "blue", FPR: []float64{0, 1}, TPR: []float64{0, 1}, AUC: 0.9},
		{Label: "intermediate", FPR: []float64{0, 1}, TPR: []float64{0, 1}, AUC: 0.8},
		{Label: "brown", FPR: []float64{0, 1}, TPR: []float64{0, 1}, AUC: 0.85},
	}

	tr, err := NewTargetResult("Eye colour", cm, curves, []float64{0.7, 0.8, 0.75})
	require.NoError(t, err)

	assert.Len(t, tr.ClassRows, 3)
	assert.Equal(t, "blue", tr.ClassRows[0].Label)
	assert.Equal(t, 3, tr.ClassRows[0].Support)
	assert.InDelta(t, 0.9, tr.ClassRows[0].AUC, 1e-12)
	assert.InDelta(t, 0.85, tr.MacroAUC, 1e-12)

	assert.Equal(t, 3, tr.CVSummary.N)
	assert.InDelta(t, 0.75, tr.CVSummary.Mean, 1e-12)
	assert.InDelta(t, 0.75, tr.CVSummary.Median, 1e-12)
	assert.InDelta(t, 0.7, tr.CVSummary.Min, 1e-12)
	assert.InDelta(t, 0.8, tr.CVSummary.Max, 1e-12)
	assert.Greater(t, tr.CVSummary.Std, 0.0)
}

func TestNewTargetResult_NilConfusion(t *testing.T) {
	_, err := NewTargetResult("Hair colour", nil, nil, nil)
	assert.Error(t, err)
}

func TestReport_Render(t *testing.T) {
	cm := eyeConfusion(t)
	tr, err := NewTargetResult("Eye colour", cm, nil, []float64{0.7, 0.8})
	require.NoError(t, err)
	tr.ROCPlotPath = "eye_roc.png"
	tr.PanelConcordance = &Concordance{N: 8, Agree: 7, Rate: 0.875}

	r := &Report{
		Title:       "HIrisPlex pigmentation report",
		GeneratedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Seed:        42,
		NFolds:      5,
		NTrees:      500,
		Clean: dataset.CleanStats{
			PhenotypesRead: 120,
			GenotypesRead:  115,
			Unmatched:      5,
			MissingDropped: 7,
			Retained:       108,
		},
		NSamples: 108,
		NLoci:    24,
		Targets:  []*TargetResult{tr},
		Importances: []LocusImportance{
			{RSID: "rs12913832", Gene: "HERC2", Importance: 0.31},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	html := buf.String()

	assert.Contains(t, html, "HIrisPlex pigmentation report")
	assert.Contains(t, html, "Eye colour")
	assert.Contains(t, html, "intermediate")
	assert.Contains(t, html, "Confusion matrix")
	assert.Contains(t, html, "rs12913832")
	assert.Contains(t, html, "eye_roc.png")
	assert.Contains(t, html, "5-fold cross-validation")
	assert.Contains(t, html, "7/8 (87.5%)")
	// Accuracy of the fixture is 6/8.
	assert.Contains(t, html, "75.0%")
}

func TestReport_WriteFile(t *testing.T) {
	cm := eyeConfusion(t)
	tr, err := NewTargetResult("Hair colour", cm, nil, nil)
	require.NoError(t, err)

	r := &Report{
		Title:       "run",
		GeneratedAt: time.Now(),
		Targets:     []*TargetResult{tr},
	}

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
}
