package metrics

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/phenosnp/phenosnp/pkg/errors"
)

// ROC is a receiver operating characteristic curve for one class, with points
// ordered by ascending false-positive rate.
type ROC struct {
	// Label names the positive class of this curve.
	Label string

	FPR []float64
	TPR []float64

	// AUC is the trapezoidal area under the curve.
	AUC float64
}

// ROCCurve computes the ROC curve of a binary problem. yTrue must contain
// only 0 and 1; yScore holds the predicted probability of the positive class.
// With a single observed class the curve degenerates to the chance diagonal
// with AUC 0.5 and an UndefinedMetricWarning is raised.
func ROCCurve(yTrue, yScore *mat.VecDense, label string) (*ROC, error) {
	if yTrue == nil || yScore == nil {
		return nil, errors.NewValueError("ROCCurve", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ROCCurve", "empty vector")
	}
	if yScore.Len() != n {
		return nil, errors.NewDimensionError("ROCCurve", n, yScore.Len(), 0)
	}

	pos, neg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 0:
			neg++
		case 1:
			pos++
		default:
			return nil, errors.NewValueError("ROCCurve", "labels must be binary (0 or 1)")
		}
	}

	if pos == 0 || neg == 0 {
		condition := "no positive samples"
		if neg == 0 {
			condition = "no negative samples"
		}
		errors.Warn(errors.NewUndefinedMetricWarning("ROC", condition, 0.5))
		return &ROC{
			Label: label,
			FPR:   []float64{0, 1},
			TPR:   []float64{0, 1},
			AUC:   0.5,
		}, nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return yScore.AtVec(order[i]) < yScore.AtVec(order[j])
	})

	scores := make([]float64, n)
	classes := make([]bool, n)
	for rank, idx := range order {
		scores[rank] = yScore.AtVec(idx)
		classes[rank] = yTrue.AtVec(idx) == 1
	}

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	if len(fpr) > 1 && fpr[0] > fpr[len(fpr)-1] {
		reverse(fpr)
		reverse(tpr)
	}

	return &ROC{
		Label: label,
		FPR:   fpr,
		TPR:   tpr,
		AUC:   integrate.Trapezoidal(fpr, tpr),
	}, nil
}

// OneVsRestROC computes one ROC curve per class from multi-class predicted
// probabilities. yTrue holds class indices; probas has one column per class
// in index order; labels names the classes.
func OneVsRestROC(yTrue *mat.VecDense, probas mat.Matrix, labels []string) ([]*ROC, error) {
	if yTrue == nil || probas == nil {
		return nil, errors.NewValueError("OneVsRestROC", "nil input")
	}

	n := yTrue.Len()
	r, c := probas.Dims()
	if r != n {
		return nil, errors.NewDimensionError("OneVsRestROC", n, r, 0)
	}
	if c != len(labels) {
		return nil, errors.NewDimensionError("OneVsRestROC", len(labels), c, 1)
	}

	curves := make([]*ROC, 0, c)
	for k := 0; k < c; k++ {
		binTrue := mat.NewVecDense(n, nil)
		score := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			if yTrue.AtVec(i) == float64(k) {
				binTrue.SetVec(i, 1)
			}
			score.SetVec(i, probas.At(i, k))
		}

		curve, err := ROCCurve(binTrue, score, labels[k])
		if err != nil {
			return nil, errors.Wrapf(err, "class %s", labels[k])
		}
		curves = append(curves, curve)
	}

	return curves, nil
}

// MacroAUC returns the unweighted mean AUC across curves.
func MacroAUC(curves []*ROC) float64 {
	if len(curves) == 0 {
		return 0
	}
	var sum float64
	for _, c := range curves {
		sum += c.AUC
	}
	return sum / float64(len(curves))
}
