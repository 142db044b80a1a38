// Package plot renders evaluation figures (ROC curves, feature importance
// charts) to PNG or SVG files.
package plot

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sort"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/phenosnp/phenosnp/metrics"
	"github.com/phenosnp/phenosnp/pkg/errors"
)

// DefaultWidth and DefaultHeight are the figure dimensions used by Save.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// ROCPlot draws one ROC curve per class with the AUC in the legend, plus a
// dashed chance diagonal.
func ROCPlot(curves []*metrics.ROC, title string) (*gplot.Plot, error) {
	if len(curves) == 0 {
		return nil, errors.NewValueError("ROCPlot", "no curves to draw")
	}

	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = false
	p.Legend.Left = false

	for i, curve := range curves {
		if len(curve.FPR) != len(curve.TPR) {
			return nil, errors.NewValueError("ROCPlot", "FPR and TPR lengths differ")
		}

		pts := make(plotter.XYs, len(curve.FPR))
		for j := range curve.FPR {
			pts[j].X = curve.FPR[j]
			pts[j].Y = curve.TPR[j]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrap(err, "phenosnp: ROCPlot: building line")
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s (AUC = %.3f)", curve.Label, curve.AUC), line)
	}

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, errors.Wrap(err, "phenosnp: ROCPlot: building chance line")
	}
	chance.Color = color.Gray{Y: 128}
	chance.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(chance)

	return p, nil
}

// ImportancePlot draws a horizontal bar chart of per-locus feature
// importances, largest at the top.
func ImportancePlot(names []string, importances []float64, title string) (*gplot.Plot, error) {
	if len(names) == 0 || len(names) != len(importances) {
		return nil, errors.NewValueError("ImportancePlot", "names and importances must be non-empty and equal length")
	}

	// Sort ascending so the largest bar renders at the top.
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return importances[order[i]] < importances[order[j]]
	})

	values := make(plotter.Values, len(order))
	labels := make([]string, len(order))
	for i, idx := range order {
		values[i] = importances[idx]
		labels[i] = names[idx]
	}

	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "Mean decrease in impurity"

	bars, err := plotter.NewBarChart(values, vg.Points(8))
	if err != nil {
		return nil, errors.Wrap(err, "phenosnp: ImportancePlot: building bars")
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalY(labels...)

	return p, nil
}

// Save writes the plot to path. The format is taken from the file
// extension; PNG and SVG are supported.
func Save(p *gplot.Plot, path string) error {
	if p == nil {
		return errors.NewValueError("plot.Save", "nil plot")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".svg":
		if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
			return errors.Wrapf(err, "phenosnp: saving plot to %s", path)
		}
		return nil
	default:
		return errors.NewValidationError("path", "extension must be .png or .svg", path)
	}
}
